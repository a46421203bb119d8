// Package source provides record sources that feed grid serialization.
// A Source yields one struct record at a time; Export drains a source
// through a serializer until it is exhausted.
package source

import (
	"github.com/structsheet/structsheet/pkg/sheetser"
)

// Source is a pull-based stream of records. Next returns the next record
// and true, or a zero value and false once the stream is exhausted.
type Source interface {
	Next() (interface{}, bool, error)
	Close() error
}

// Export drains src through ser and reports how many records were written.
// The first serialization or source error aborts the export.
func Export(ser *sheetser.Serializer, src Source) (int, error) {
	count := 0
	for {
		record, ok, err := src.Next()
		if err != nil {
			return count, err
		}
		if !ok {
			return count, nil
		}
		if err := ser.Serialize(record); err != nil {
			return count, err
		}
		count++
	}
}

// SliceSource yields the elements of an in-memory slice in order.
type SliceSource struct {
	records []interface{}
	pos     int
}

// NewSliceSource copies records into a source. Elements should be structs
// (or pointers to structs) of a registered layout.
func NewSliceSource(records ...interface{}) *SliceSource {
	return &SliceSource{records: records}
}

func (s *SliceSource) Next() (interface{}, bool, error) {
	if s.pos >= len(s.records) {
		return nil, false, nil
	}
	record := s.records[s.pos]
	s.pos++
	return record, true, nil
}

func (s *SliceSource) Close() error { return nil }
