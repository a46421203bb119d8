package sheetgrid

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// StyleTemplate is the YAML-facing description of a cell style. Compiled
// styles are cached on the Sheet by fingerprint so repeated use of the
// same template costs one excelize style.
type StyleTemplate struct {
	Font      *FontTemplate      `yaml:"font"`
	Fill      *FillTemplate      `yaml:"fill"`
	Alignment *AlignmentTemplate `yaml:"alignment"`
	NumFormat string             `yaml:"num_format"`
}

type FontTemplate struct {
	Bold   bool    `yaml:"bold"`
	Italic bool    `yaml:"italic"`
	Color  string  `yaml:"color"`
	Size   float64 `yaml:"size"`
}

type FillTemplate struct {
	Color string `yaml:"color"`
}

type AlignmentTemplate struct {
	Horizontal string `yaml:"horizontal"`
	Vertical   string `yaml:"vertical"`
}

// Style compiles a template into an excelize style ID. The returned ID is a
// valid sheetser.StyleHandle for this sheet's writes.
func (s *Sheet) Style(tmpl *StyleTemplate) (int, error) {
	if tmpl == nil {
		return 0, nil
	}

	key := tmpl.fingerprint()
	if id, ok := s.styleCache[key]; ok {
		return id, nil
	}

	style := &excelize.Style{}
	if tmpl.Font != nil {
		style.Font = &excelize.Font{
			Bold:   tmpl.Font.Bold,
			Italic: tmpl.Font.Italic,
			Color:  strings.TrimPrefix(tmpl.Font.Color, "#"),
			Size:   tmpl.Font.Size,
		}
	}
	if tmpl.Fill != nil {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{strings.TrimPrefix(tmpl.Fill.Color, "#")},
			Pattern: 1,
		}
	}
	if tmpl.Alignment != nil {
		style.Alignment = &excelize.Alignment{
			Horizontal: tmpl.Alignment.Horizontal,
			Vertical:   tmpl.Alignment.Vertical,
		}
	}
	if tmpl.NumFormat != "" {
		numFmt := tmpl.NumFormat
		style.CustomNumFmt = &numFmt
	}

	id, err := s.file.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("compile style: %w", err)
	}
	s.styleCache[key] = id
	return id, nil
}

func (t *StyleTemplate) fingerprint() string {
	var sb strings.Builder
	if t.Font != nil {
		fmt.Fprintf(&sb, "f:%v:%v:%s:%v|", t.Font.Bold, t.Font.Italic, t.Font.Color, t.Font.Size)
	}
	if t.Fill != nil {
		fmt.Fprintf(&sb, "i:%s|", t.Fill.Color)
	}
	if t.Alignment != nil {
		fmt.Fprintf(&sb, "a:%s:%s|", t.Alignment.Horizontal, t.Alignment.Vertical)
	}
	if t.NumFormat != "" {
		fmt.Fprintf(&sb, "n:%s|", t.NumFormat)
	}
	return sb.String()
}
