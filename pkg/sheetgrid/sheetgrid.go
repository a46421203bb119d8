package sheetgrid

import (
	"fmt"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"

	"github.com/structsheet/structsheet/pkg/sheetser"
)

// Excel worksheet limits enforced by the sink.
const (
	MaxRows      = 1048576
	MaxCols      = 16384
	MaxCellChars = 32767
)

// Column width bounds used by FitColumns.
const (
	minColWidth = 8.0
	maxColWidth = 80.0
	colPadding  = 2.0
)

// Sheet adapts one worksheet of an excelize file to the sheetser.GridSink
// contract. It enforces grid bounds and the cell text-length limit, compiles
// style templates to excelize style IDs through a cache, and optionally
// tracks written cell widths so columns can be fitted to their content.
type Sheet struct {
	file *excelize.File
	name string

	styleCache   map[string]int
	colNameCache map[int]string

	fitColumns bool
	colWidths  map[int]float64
}

// New binds a Sheet to the named worksheet, creating the worksheet if it
// does not exist yet.
func New(f *excelize.File, name string) (*Sheet, error) {
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", name, err)
	}
	if idx == -1 {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", name, err)
		}
	}
	return &Sheet{
		file:         f,
		name:         name,
		styleCache:   make(map[string]int),
		colNameCache: make(map[int]string),
		colWidths:    make(map[int]float64),
	}, nil
}

// File returns the underlying excelize file, for saving or streaming once
// serialization is done.
func (s *Sheet) File() *excelize.File {
	return s.file
}

// Name returns the worksheet name.
func (s *Sheet) Name() string {
	return s.name
}

// TrackWidths enables column-width tracking: every Write records the
// rendered width of the value so FitColumns can size the columns afterward.
func (s *Sheet) TrackWidths() {
	s.fitColumns = true
}

// InBounds reports whether the zero-indexed cell fits the worksheet grid.
func (s *Sheet) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < MaxRows && col < MaxCols
}

// Write commits value to the zero-indexed cell, applying style when
// non-nil. A style may be an int style ID (as returned by Style) or a
// *StyleTemplate, which is compiled on the fly.
func (s *Sheet) Write(row, col int, value interface{}, style sheetser.StyleHandle) error {
	if !s.InBounds(row, col) {
		return fmt.Errorf("cell (%d,%d) on sheet %q: %w", row, col, s.name, sheetser.ErrBounds)
	}
	if text, ok := value.(string); ok && utf8.RuneCountInString(text) > MaxCellChars {
		return fmt.Errorf("cell (%d,%d) on sheet %q: %d characters: %w",
			row, col, s.name, utf8.RuneCountInString(text), sheetser.ErrLength)
	}

	cell := s.cellName(row, col)
	if err := s.file.SetCellValue(s.name, cell, value); err != nil {
		return fmt.Errorf("write cell %s: %w", cell, err)
	}

	styleID, err := s.resolveStyle(style)
	if err != nil {
		return err
	}
	if styleID != 0 {
		if err := s.file.SetCellStyle(s.name, cell, cell, styleID); err != nil {
			return fmt.Errorf("style cell %s: %w", cell, err)
		}
	}

	if s.fitColumns {
		w := float64(runewidth.StringWidth(fmt.Sprint(value))) + colPadding
		if w > s.colWidths[col] {
			s.colWidths[col] = w
		}
	}
	return nil
}

// FitColumns applies the widths tracked since TrackWidths was enabled.
func (s *Sheet) FitColumns() error {
	for col, width := range s.colWidths {
		if width < minColWidth {
			width = minColWidth
		}
		if width > maxColWidth {
			width = maxColWidth
		}
		name := s.colName(col)
		if err := s.file.SetColWidth(s.name, name, name, width); err != nil {
			return fmt.Errorf("fit column %s: %w", name, err)
		}
	}
	return nil
}

func (s *Sheet) resolveStyle(style sheetser.StyleHandle) (int, error) {
	switch st := style.(type) {
	case nil:
		return 0, nil
	case int:
		return st, nil
	case *StyleTemplate:
		return s.Style(st)
	case StyleTemplate:
		return s.Style(&st)
	default:
		return 0, fmt.Errorf("unsupported style handle type %T: %w", style, sheetser.ErrInvalidLayout)
	}
}

func (s *Sheet) colName(col int) string {
	if name, ok := s.colNameCache[col]; ok {
		return name
	}
	name, _ := excelize.ColumnNumberToName(col + 1)
	s.colNameCache[col] = name
	return name
}

func (s *Sheet) cellName(row, col int) string {
	return fmt.Sprintf("%s%d", s.colName(col), row+1)
}
