package sheetser

// FieldDescriptor configures how one struct field maps to a column during
// header registration. The zero value of everything but FieldName is a
// usable default: the header text falls back to the field name and no
// styles are applied.
type FieldDescriptor struct {
	// FieldName is the struct field identifier the traversal resolves
	// against. Required.
	FieldName string

	// DisplayName is the text written into the header cell. Defaults to
	// FieldName.
	DisplayName string

	// HeaderStyle formats the header cell, CellStyle the data cells below
	// it. Either may be nil.
	HeaderStyle StyleHandle
	CellStyle   StyleHandle

	// Skip drops the field from the layout: it consumes no column and is
	// never written.
	Skip bool

	// HideHeaders suppresses the header row for the whole registration
	// batch when set on any descriptor in it. Data rows then start at the
	// registration row instead of one below it.
	HideHeaders bool
}

func (d FieldDescriptor) displayName() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.FieldName
}
