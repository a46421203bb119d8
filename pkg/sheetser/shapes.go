package sheetser

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Variant marks a value as a member of a closed sum type. The grid has no
// representation for variants, so the traversal drops them entirely rather
// than guessing at a cell encoding.
type Variant interface {
	VariantName() string
}

var (
	variantType = reflect.TypeOf((*Variant)(nil)).Elem()
	timeType    = reflect.TypeOf(time.Time{})
)

// visitor receives the traversal events shared by the header-discovery pass
// and the data pass. The two passes use one shape dispatch (walk) and differ
// only in how they react: discovery records names and never descends into
// field values, the data pass resolves fields against the registry and
// writes scalars.
type visitor interface {
	enterStruct(name string)
	// enterField reports whether the walker should descend into the
	// field's value.
	enterField(name string) bool
	// clearField drops the active field context. Used for map entries,
	// which must never resolve against the registry.
	clearField()
	scalar(value interface{}) error
	// blank handles absent values: nil pointers, unit structs and nil
	// interfaces all become an empty-text scalar so registered columns
	// keep their row cadence across records.
	blank() error
}

// walk dispatches one structured value to the visitor. The shape set is
// closed: scalars, time.Time, pointers/interfaces (optional values and
// transparent wrappers), structs, byte slices, sequences, arrays, maps and
// Variant values. Anything else is unrepresentable and fails traversal.
func walk(v reflect.Value, vis visitor) error {
	if !v.IsValid() {
		return vis.blank()
	}
	if v.Type().Implements(variantType) {
		return nil
	}

	switch v.Kind() {
	case reflect.Bool:
		return vis.scalar(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return vis.scalar(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return vis.scalar(v.Uint())
	case reflect.Float32, reflect.Float64:
		return vis.scalar(v.Float())
	case reflect.String:
		return vis.scalar(v.String())

	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return vis.blank()
		}
		return walk(v.Elem(), vis)

	case reflect.Struct:
		if v.Type() == timeType {
			return vis.scalar(v.Interface())
		}
		if v.NumField() == 0 {
			// Unit struct: behaves like an absent value without
			// touching the struct context.
			return vis.blank()
		}
		return walkStruct(v, vis)

	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			// Byte sequences have no grid representation.
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			if err := walk(v.Index(i), vis); err != nil {
				return err
			}
		}
		return nil

	case reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			if err := walk(v.Index(i), vis); err != nil {
				return err
			}
		}
		return nil

	case reflect.Map:
		// Maps are unsupported: entries are traversed with no field
		// context so every contained value drops.
		vis.clearField()
		iter := v.MapRange()
		for iter.Next() {
			if err := walk(iter.Key(), vis); err != nil {
				return err
			}
			if err := walk(iter.Value(), vis); err != nil {
				return err
			}
		}
		return nil

	default:
		return &TraversalError{Msg: fmt.Sprintf("cannot serialize a value of kind %s", v.Kind())}
	}
}

func walkStruct(v reflect.Value, vis visitor) error {
	t := v.Type()
	vis.enterStruct(t.Name())

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			// Unexported.
			continue
		}
		name, skip := fieldName(f)
		if skip {
			continue
		}
		if !vis.enterField(name) {
			continue
		}
		if err := walk(v.Field(i), vis); err != nil {
			return err
		}
	}
	return nil
}

// fieldName resolves the serialized name of a struct field, honoring the
// `sheet` tag: `sheet:"Name"` renames the field and `sheet:"-"` removes it
// from serialization entirely.
func fieldName(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("sheet")
	if tag == "-" {
		return "", true
	}
	if tag != "" {
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		if tag != "" {
			return tag, false
		}
	}
	return f.Name, false
}
