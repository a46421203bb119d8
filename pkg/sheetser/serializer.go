package sheetser

import (
	"fmt"
	"reflect"

	"github.com/rs/zerolog"
)

// Serializer maps structured records onto the 2D grid of one sheet. It owns
// the header registry populated by the Register* calls and a transient
// cursor used during Serialize. A Serializer is bound to exactly one
// GridSink and assumes a single writer; interleaving Serialize calls from
// multiple goroutines on the same instance is not supported.
type Serializer struct {
	sink    GridSink
	headers map[headerKey]*layoutEntry
	state   traversalState
	log     zerolog.Logger
}

// traversalState is the call-scoped cursor of one Serialize invocation:
// which struct type and field the walker is currently inside. It is reset
// on entry and carries no meaning between calls.
type traversalState struct {
	structName string
	fieldName  string
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithLogger attaches a logger for debug traces of registration and
// serialization. The default logger discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Serializer) {
		s.log = log
	}
}

// New returns a Serializer writing through the given sink.
func New(sink GridSink, opts ...Option) *Serializer {
	s := &Serializer{
		sink:    sink,
		headers: make(map[headerKey]*layoutEntry),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterHeaders discovers the struct name and field order from sample and
// registers a default layout at the zero-indexed start cell: headers
// visible, no renames, no styles, no skips.
func (s *Serializer) RegisterHeaders(row, col int, sample interface{}) error {
	return s.RegisterHeadersWithFormat(row, col, sample, nil)
}

// RegisterHeadersWithFormat is RegisterHeaders with one style applied to
// every discovered header cell.
func (s *Serializer) RegisterHeadersWithFormat(row, col int, sample interface{}, headerStyle StyleHandle) error {
	scan, err := discoverHeaders(sample)
	if err != nil {
		return err
	}

	descriptors := make([]FieldDescriptor, 0, len(scan.fieldNames))
	for _, name := range scan.fieldNames {
		descriptors = append(descriptors, FieldDescriptor{
			FieldName:   name,
			HeaderStyle: headerStyle,
		})
	}
	return s.RegisterHeadersWithOptions(row, col, scan.structName, descriptors)
}

// RegisterHeadersWithOptions registers an explicit layout for structName at
// the zero-indexed start cell. Descriptors are assigned columns in order;
// skipped descriptors consume no column and are never registered. If any
// descriptor hides headers the header row is suppressed for the whole batch
// and data starts at row, otherwise headers are written at row and data
// starts one row below. Registering a name again replaces its previous
// layout; other struct types are untouched.
func (s *Serializer) RegisterHeadersWithOptions(row, col int, structName string, descriptors []FieldDescriptor) error {
	if !s.sink.InBounds(row, col) {
		return fmt.Errorf("register %q at (%d,%d): %w", structName, row, col, ErrBounds)
	}
	if structName == "" {
		return fmt.Errorf("struct name cannot be empty: %w", ErrInvalidLayout)
	}

	hidden := false
	for _, d := range descriptors {
		if !d.Skip && d.FieldName == "" {
			return fmt.Errorf("descriptor with empty field name for %q: %w", structName, ErrInvalidLayout)
		}
		if d.HideHeaders {
			hidden = true
		}
	}

	purgeStruct(s.headers, structName)

	nextCol := col
	for _, d := range descriptors {
		if d.Skip {
			continue
		}

		entry := &layoutEntry{
			fieldName:   d.FieldName,
			displayName: d.displayName(),
			headerStyle: d.HeaderStyle,
			cellStyle:   d.CellStyle,
			row:         row,
			col:         nextCol,
		}
		if !hidden {
			if err := s.sink.Write(row, nextCol, entry.displayName, d.HeaderStyle); err != nil {
				return err
			}
			entry.row = row + 1
		}

		s.headers[headerKey{structName: structName, fieldName: d.FieldName}] = entry
		nextCol++
	}

	s.log.Debug().
		Str("struct", structName).
		Int("row", row).
		Int("col", col).
		Int("fields", nextCol-col).
		Bool("headers_hidden", hidden).
		Msg("registered serialization layout")
	return nil
}

// Serialize writes one record, or one batch of records when value is a
// slice or array, into the columns registered for the record's struct type.
// Fields without a registered layout entry are dropped without error. The
// first sink error aborts the call; cells already written stay written.
func (s *Serializer) Serialize(value interface{}) error {
	s.state = traversalState{}
	return walk(reflect.ValueOf(value), s)
}

// The Serializer itself is the data-pass visitor: the same shape dispatch
// as discovery, plus registry resolution and cell writes.

func (s *Serializer) enterStruct(name string) {
	s.state.structName = name
}

func (s *Serializer) enterField(name string) bool {
	s.state.fieldName = name
	return true
}

func (s *Serializer) clearField() {
	s.state.fieldName = ""
}

func (s *Serializer) scalar(value interface{}) error {
	entry, ok := s.headers[headerKey{structName: s.state.structName, fieldName: s.state.fieldName}]
	if !ok {
		// Unregistered fields drop silently; selective serialization
		// of large types depends on this.
		return nil
	}

	if err := s.sink.Write(entry.row, entry.col, value, entry.cellStyle); err != nil {
		return err
	}
	entry.row++
	return nil
}

func (s *Serializer) blank() error {
	return s.scalar("")
}
