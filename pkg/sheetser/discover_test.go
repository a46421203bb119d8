package sheetser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structsheet/structsheet/pkg/sheetser"
)

func TestDiscoveryFieldOrderMatchesDeclaration(t *testing.T) {
	type Shipment struct {
		ID       int
		Carrier  string
		Weight   float64
		Delivery string
	}

	sink := newMemSink()
	ser := sheetser.New(sink)
	require.NoError(t, ser.RegisterHeaders(0, 0, Shipment{}))

	assert.Equal(t, "ID", sink.cell(0, 0))
	assert.Equal(t, "Carrier", sink.cell(0, 1))
	assert.Equal(t, "Weight", sink.cell(0, 2))
	assert.Equal(t, "Delivery", sink.cell(0, 3))
}

func TestDiscoveryAcceptsPointerSample(t *testing.T) {
	sink := newMemSink()
	ser := sheetser.New(sink)
	require.NoError(t, ser.RegisterHeaders(0, 0, &Produce{}))

	assert.Equal(t, "Fruit", sink.cell(0, 0))
}

func TestDiscoveryDoesNotReadFieldValues(t *testing.T) {
	type Lazy struct {
		Name string
		Next *Lazy
	}

	sink := newMemSink()
	ser := sheetser.New(sink)

	// A self-referential sample must not be followed into.
	sample := &Lazy{Name: "a"}
	sample.Next = sample
	require.NoError(t, ser.RegisterHeaders(0, 0, sample))

	assert.Equal(t, "Name", sink.cell(0, 0))
	assert.Equal(t, "Next", sink.cell(0, 1))
}

func TestDiscoveryRejectsNonStructRoots(t *testing.T) {
	ser := sheetser.New(newMemSink())

	assert.ErrorIs(t, ser.RegisterHeaders(0, 0, 42), sheetser.ErrInvalidLayout)
	assert.ErrorIs(t, ser.RegisterHeaders(0, 0, "text"), sheetser.ErrInvalidLayout)
	assert.ErrorIs(t, ser.RegisterHeaders(0, 0, []Produce{{}}), sheetser.ErrInvalidLayout)
	assert.ErrorIs(t, ser.RegisterHeaders(0, 0, nil), sheetser.ErrInvalidLayout)
	assert.ErrorIs(t, ser.RegisterHeaders(0, 0, (*Produce)(nil)), sheetser.ErrInvalidLayout)
	assert.ErrorIs(t, ser.RegisterHeaders(0, 0, struct{}{}), sheetser.ErrInvalidLayout)
}

func TestDiscoveryHonorsTags(t *testing.T) {
	type Invoice struct {
		Number string `sheet:"Invoice No"`
		Total  float64
		Draft  bool `sheet:"-"`
	}

	sink := newMemSink()
	ser := sheetser.New(sink)
	require.NoError(t, ser.RegisterHeaders(0, 0, Invoice{}))

	assert.Equal(t, "Invoice No", sink.cell(0, 0))
	assert.Equal(t, "Total", sink.cell(0, 1))
	assert.Nil(t, sink.cell(0, 2))
}
