package sheetser_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structsheet/structsheet/pkg/sheetser"
)

// memSink is a minimal in-memory grid used to observe exactly what the
// serializer writes and where.
type memSink struct {
	maxRows int
	maxCols int
	cells   map[[2]int]interface{}
	styles  map[[2]int]sheetser.StyleHandle
	failOn  map[[2]int]error
}

func newMemSink() *memSink {
	return &memSink{
		maxRows: 1 << 20,
		maxCols: 1 << 14,
		cells:   make(map[[2]int]interface{}),
		styles:  make(map[[2]int]sheetser.StyleHandle),
		failOn:  make(map[[2]int]error),
	}
}

func (m *memSink) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < m.maxRows && col < m.maxCols
}

func (m *memSink) Write(row, col int, value interface{}, style sheetser.StyleHandle) error {
	if err, ok := m.failOn[[2]int{row, col}]; ok {
		return err
	}
	if !m.InBounds(row, col) {
		return fmt.Errorf("cell (%d,%d): %w", row, col, sheetser.ErrBounds)
	}
	m.cells[[2]int{row, col}] = value
	if style != nil {
		m.styles[[2]int{row, col}] = style
	}
	return nil
}

func (m *memSink) cell(row, col int) interface{} {
	return m.cells[[2]int{row, col}]
}

type Produce struct {
	Fruit string
	Cost  float64
}

func TestRegisterHeadersWritesHeaderRow(t *testing.T) {
	sink := newMemSink()
	ser := sheetser.New(sink)

	require.NoError(t, ser.RegisterHeaders(0, 0, Produce{}))

	assert.Equal(t, "Fruit", sink.cell(0, 0))
	assert.Equal(t, "Cost", sink.cell(0, 1))
}

func TestRowAdvancePerRecord(t *testing.T) {
	sink := newMemSink()
	ser := sheetser.New(sink)
	require.NoError(t, ser.RegisterHeaders(0, 0, Produce{}))

	items := []Produce{
		{Fruit: "Peach", Cost: 1.05},
		{Fruit: "Plum", Cost: 0.15},
		{Fruit: "Pear", Cost: 0.75},
	}
	for _, item := range items {
		require.NoError(t, ser.Serialize(item))
	}

	for i, item := range items {
		assert.Equal(t, item.Fruit, sink.cell(1+i, 0), "row %d", 1+i)
		assert.Equal(t, item.Cost, sink.cell(1+i, 1), "row %d", 1+i)
	}
}

func TestSerializeSliceAdvancesPerElement(t *testing.T) {
	sink := newMemSink()
	ser := sheetser.New(sink)
	require.NoError(t, ser.RegisterHeaders(0, 0, Produce{}))

	items := []Produce{
		{Fruit: "Peach", Cost: 1.05},
		{Fruit: "Plum", Cost: 0.15},
		{Fruit: "Pear", Cost: 0.75},
	}
	require.NoError(t, ser.Serialize(items))

	assert.Equal(t, "Peach", sink.cell(1, 0))
	assert.Equal(t, "Plum", sink.cell(2, 0))
	assert.Equal(t, "Pear", sink.cell(3, 0))
	assert.Nil(t, sink.cell(4, 0))
}

func TestColumnStabilityAcrossReregistration(t *testing.T) {
	sink := newMemSink()
	ser := sheetser.New(sink)

	descriptors := []sheetser.FieldDescriptor{
		{FieldName: "Fruit"},
		{FieldName: "Cost"},
	}
	require.NoError(t, ser.RegisterHeadersWithOptions(0, 2, "Produce", descriptors))
	require.NoError(t, ser.Serialize(Produce{Fruit: "Peach", Cost: 1.05}))

	require.NoError(t, ser.RegisterHeadersWithOptions(0, 2, "Produce", descriptors))
	require.NoError(t, ser.Serialize(Produce{Fruit: "Plum", Cost: 0.15}))

	// Same columns both times; re-registration reset the rows.
	assert.Equal(t, "Plum", sink.cell(1, 2))
	assert.Equal(t, 0.15, sink.cell(1, 3))
}

func TestSkipOmitsColumn(t *testing.T) {
	type Record struct {
		A string
		B string
		C string
	}

	sink := newMemSink()
	ser := sheetser.New(sink)
	require.NoError(t, ser.RegisterHeadersWithOptions(0, 0, "Record", []sheetser.FieldDescriptor{
		{FieldName: "A"},
		{FieldName: "B", Skip: true},
		{FieldName: "C"},
	}))
	require.NoError(t, ser.Serialize(Record{A: "a", B: "b", C: "c"}))

	// C shifts left into the slot B would have used.
	assert.Equal(t, "A", sink.cell(0, 0))
	assert.Equal(t, "C", sink.cell(0, 1))
	assert.Equal(t, "a", sink.cell(1, 0))
	assert.Equal(t, "c", sink.cell(1, 1))
	assert.Nil(t, sink.cell(0, 2))
	assert.Nil(t, sink.cell(1, 2))
}

func TestUnknownFieldDropsSilently(t *testing.T) {
	type Wide struct {
		Name   string
		Secret string
	}

	sink := newMemSink()
	ser := sheetser.New(sink)
	require.NoError(t, ser.RegisterHeadersWithOptions(0, 0, "Wide", []sheetser.FieldDescriptor{
		{FieldName: "Name"},
	}))
	require.NoError(t, ser.Serialize(Wide{Name: "n", Secret: "s"}))

	assert.Equal(t, "n", sink.cell(1, 0))
	assert.Len(t, sink.cells, 2) // header + one data cell
}

func TestHiddenHeadersStartDataAtRegistrationRow(t *testing.T) {
	sink := newMemSink()
	ser := sheetser.New(sink)
	require.NoError(t, ser.RegisterHeadersWithOptions(0, 0, "Produce", []sheetser.FieldDescriptor{
		{FieldName: "Fruit", HideHeaders: true},
		{FieldName: "Cost"},
	}))
	require.NoError(t, ser.Serialize(Produce{Fruit: "Peach", Cost: 1.05}))

	assert.Equal(t, "Peach", sink.cell(0, 0))
	assert.Equal(t, 1.05, sink.cell(0, 1))
	assert.Len(t, sink.cells, 2) // no header cells at all
}

func TestIndependentRegionsInterleave(t *testing.T) {
	type Order struct {
		ID int64
	}
	type Customer struct {
		Name string
	}

	sink := newMemSink()
	ser := sheetser.New(sink)
	require.NoError(t, ser.RegisterHeaders(0, 0, Order{}))
	require.NoError(t, ser.RegisterHeaders(0, 5, Customer{}))

	require.NoError(t, ser.Serialize(Order{ID: 1}))
	require.NoError(t, ser.Serialize(Customer{Name: "a"}))
	require.NoError(t, ser.Serialize(Order{ID: 2}))
	require.NoError(t, ser.Serialize(Customer{Name: "b"}))
	require.NoError(t, ser.Serialize(Order{ID: 3}))

	assert.Equal(t, int64(1), sink.cell(1, 0))
	assert.Equal(t, int64(2), sink.cell(2, 0))
	assert.Equal(t, int64(3), sink.cell(3, 0))
	assert.Equal(t, "a", sink.cell(1, 5))
	assert.Equal(t, "b", sink.cell(2, 5))
	assert.Nil(t, sink.cell(3, 5))
}

func TestEmptyStructNameRejected(t *testing.T) {
	ser := sheetser.New(newMemSink())
	err := ser.RegisterHeadersWithOptions(0, 0, "", []sheetser.FieldDescriptor{{FieldName: "A"}})
	assert.ErrorIs(t, err, sheetser.ErrInvalidLayout)
}

func TestEmptyFieldNameRejected(t *testing.T) {
	ser := sheetser.New(newMemSink())
	err := ser.RegisterHeadersWithOptions(0, 0, "Produce", []sheetser.FieldDescriptor{{}})
	assert.ErrorIs(t, err, sheetser.ErrInvalidLayout)
}

func TestRegisterOutOfBounds(t *testing.T) {
	sink := newMemSink()
	sink.maxRows = 10
	ser := sheetser.New(sink)

	err := ser.RegisterHeaders(10, 0, Produce{})
	assert.ErrorIs(t, err, sheetser.ErrBounds)
}

func TestAbsentOptionPreservesAlignment(t *testing.T) {
	type Reading struct {
		Sensor string
		Value  *float64
	}

	sink := newMemSink()
	ser := sheetser.New(sink)
	require.NoError(t, ser.RegisterHeaders(0, 0, Reading{}))

	v := 21.5
	require.NoError(t, ser.Serialize(Reading{Sensor: "s1", Value: &v}))
	require.NoError(t, ser.Serialize(Reading{Sensor: "s2", Value: nil}))
	require.NoError(t, ser.Serialize(Reading{Sensor: "s3", Value: &v}))

	// The absent value still consumed row 2 in its column.
	assert.Equal(t, 21.5, sink.cell(1, 1))
	assert.Equal(t, "", sink.cell(2, 1))
	assert.Equal(t, 21.5, sink.cell(3, 1))
	assert.Equal(t, "s3", sink.cell(3, 0))
}

func TestTagRenameAndSkip(t *testing.T) {
	type Account struct {
		Owner    string `sheet:"Holder"`
		Balance  float64
		password string
		Token    string `sheet:"-"`
	}
	_ = Account{}.password

	sink := newMemSink()
	ser := sheetser.New(sink)
	require.NoError(t, ser.RegisterHeaders(0, 0, Account{}))
	require.NoError(t, ser.Serialize(Account{Owner: "ann", Balance: 3.5, Token: "t"}))

	assert.Equal(t, "Holder", sink.cell(0, 0))
	assert.Equal(t, "Balance", sink.cell(0, 1))
	assert.Equal(t, "ann", sink.cell(1, 0))
	assert.Equal(t, 3.5, sink.cell(1, 1))
	// The tagged-out field neither registered nor wrote.
	assert.Len(t, sink.cells, 4)
}

func TestTimeSerializesAsScalar(t *testing.T) {
	type Event struct {
		Name string
		At   time.Time
	}

	sink := newMemSink()
	ser := sheetser.New(sink)
	require.NoError(t, ser.RegisterHeaders(0, 0, Event{}))

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, ser.Serialize(Event{Name: "launch", At: at}))

	assert.Equal(t, at, sink.cell(1, 1))
}

type shippingState struct{ name string }

func (s shippingState) VariantName() string { return s.name }

func TestUnsupportedShapesDrop(t *testing.T) {
	type Record struct {
		Name  string
		Raw   []byte
		Tags  map[string]string
		State shippingState
	}

	sink := newMemSink()
	ser := sheetser.New(sink)
	require.NoError(t, ser.RegisterHeadersWithOptions(0, 0, "Record", []sheetser.FieldDescriptor{
		{FieldName: "Name"},
		{FieldName: "Raw"},
		{FieldName: "Tags"},
		{FieldName: "State"},
	}))
	require.NoError(t, ser.Serialize(Record{
		Name:  "n",
		Raw:   []byte("ignored"),
		Tags:  map[string]string{"k": "v"},
		State: shippingState{name: "shipped"},
	}))

	assert.Equal(t, "n", sink.cell(1, 0))
	// Bytes, map entries and variants all dropped: only the four header
	// cells and Name's data cell exist.
	assert.Len(t, sink.cells, 5)
}

func TestUnrepresentableShapeFailsTraversal(t *testing.T) {
	type Bad struct {
		C chan int
	}

	ser := sheetser.New(newMemSink())
	require.NoError(t, ser.RegisterHeadersWithOptions(0, 0, "Bad", []sheetser.FieldDescriptor{
		{FieldName: "C"},
	}))

	err := ser.Serialize(Bad{C: make(chan int)})
	var terr *sheetser.TraversalError
	assert.ErrorAs(t, err, &terr)
}

func TestSinkErrorAbortsWithoutRollback(t *testing.T) {
	type Pair struct {
		A string
		B string
	}

	sink := newMemSink()
	ser := sheetser.New(sink)
	require.NoError(t, ser.RegisterHeaders(0, 0, Pair{}))

	sink.failOn[[2]int{1, 1}] = fmt.Errorf("cell (1,1): %w", sheetser.ErrLength)
	err := ser.Serialize(Pair{A: "a", B: "b"})
	assert.ErrorIs(t, err, sheetser.ErrLength)

	// The write that succeeded before the failure stays committed.
	assert.Equal(t, "a", sink.cell(1, 0))
	assert.Nil(t, sink.cell(1, 1))
}

func TestStyleHandlesThreadThrough(t *testing.T) {
	sink := newMemSink()
	ser := sheetser.New(sink)

	header := "header-style"
	cell := "cell-style"
	require.NoError(t, ser.RegisterHeadersWithOptions(0, 0, "Produce", []sheetser.FieldDescriptor{
		{FieldName: "Fruit", DisplayName: "Item", HeaderStyle: header, CellStyle: cell},
	}))
	require.NoError(t, ser.Serialize(Produce{Fruit: "Peach"}))

	assert.Equal(t, "Item", sink.cell(0, 0))
	assert.Equal(t, header, sink.styles[[2]int{0, 0}])
	assert.Equal(t, cell, sink.styles[[2]int{1, 0}])
}
