package sheetser

// headerKey identifies one registered field of one struct type. Fields with
// identical names on different struct types map to independent entries,
// which is what lets separately laid-out regions coexist on one sheet.
type headerKey struct {
	structName string
	fieldName  string
}

// layoutEntry is the registry record for one non-skipped field. col is
// fixed at registration; row is the cursor for the next data write and
// advances by one after every successful write to this field.
type layoutEntry struct {
	fieldName   string
	displayName string
	headerStyle StyleHandle
	cellStyle   StyleHandle
	row         int
	col         int
}

// purgeStruct removes every entry registered under structName so that
// re-registration is last-wins rather than a merge with stale fields.
func purgeStruct(headers map[headerKey]*layoutEntry, structName string) {
	for key := range headers {
		if key.structName == structName {
			delete(headers, key)
		}
	}
}
