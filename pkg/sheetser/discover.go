package sheetser

import (
	"fmt"
	"reflect"
)

// headerScan is the discovery-pass visitor. It records the struct type name
// and the ordered field names of one sample value without writing anything
// to the grid: enterField refuses descent so field values are never read.
type headerScan struct {
	structName string
	fieldNames []string
}

func (h *headerScan) enterStruct(name string) {
	h.structName = name
}

func (h *headerScan) enterField(name string) bool {
	h.fieldNames = append(h.fieldNames, name)
	return false
}

func (h *headerScan) clearField() {}

func (h *headerScan) scalar(interface{}) error { return nil }

func (h *headerScan) blank() error { return nil }

// discoverHeaders runs the discovery pass over one sample record. The root
// must be a named struct (optionally behind pointers); bare scalars,
// sequences and unit values are rejected before the pass runs.
func discoverHeaders(sample interface{}) (*headerScan, error) {
	v := reflect.ValueOf(sample)
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, fmt.Errorf("header discovery: nil sample: %w", ErrInvalidLayout)
		}
		v = v.Elem()
	}
	if !v.IsValid() || v.Kind() != reflect.Struct || v.Type() == timeType || v.Type().Name() == "" {
		return nil, fmt.Errorf("header discovery: sample must be a named struct: %w", ErrInvalidLayout)
	}

	scan := &headerScan{}
	if err := walk(v, scan); err != nil {
		return nil, err
	}
	if scan.structName == "" {
		return nil, fmt.Errorf("header discovery: could not determine a struct name: %w", ErrInvalidLayout)
	}
	return scan, nil
}
