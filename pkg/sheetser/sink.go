package sheetser

// StyleHandle is an opaque formatting reference attached to header or data
// cells. The engine never inspects it; it is passed through to the sink
// unchanged. Sinks define what a handle means (for the excelize-backed sink
// this is a style ID or a style template).
type StyleHandle interface{}

// GridSink is the cell-storage collaborator the serializer writes through.
// It owns the physical grid, its bounds, and its content limits.
type GridSink interface {
	// InBounds reports whether the zero-indexed cell is addressable.
	InBounds(row, col int) bool

	// Write commits a typed value to the zero-indexed cell, applying the
	// style when non-nil. It must wrap ErrBounds and ErrLength for the
	// corresponding failures so they survive propagation unchanged.
	Write(row, col int, value interface{}, style StyleHandle) error
}
