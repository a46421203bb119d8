package sheetgrid

import (
	"fmt"

	"gopkg.in/yaml.v2"

	"github.com/structsheet/structsheet/pkg/sheetser"
)

// LayoutConfig is the YAML form of one struct type's serialization layout:
// which struct it targets, where the region starts, and how each field is
// rendered. It mirrors what sheetser.RegisterHeadersWithOptions takes
// programmatically.
type LayoutConfig struct {
	Struct      string         `yaml:"struct"`
	Row         int            `yaml:"row"`
	Col         int            `yaml:"col"`
	HideHeaders bool           `yaml:"hide_headers"`
	HeaderStyle *StyleTemplate `yaml:"header_style"`
	Fields      []FieldConfig  `yaml:"fields"`
}

// FieldConfig is one field entry of a LayoutConfig. A field-level header
// style overrides the layout-level one.
type FieldConfig struct {
	Field       string         `yaml:"field"`
	Rename      string         `yaml:"rename"`
	Skip        bool           `yaml:"skip"`
	HeaderStyle *StyleTemplate `yaml:"header_style"`
	CellStyle   *StyleTemplate `yaml:"cell_style"`
}

// ParseLayout decodes one YAML layout document.
func ParseLayout(data []byte) (*LayoutConfig, error) {
	var cfg LayoutConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode layout yaml: %w", err)
	}
	if cfg.Struct == "" {
		return nil, fmt.Errorf("layout yaml: missing struct name: %w", sheetser.ErrInvalidLayout)
	}
	if len(cfg.Fields) == 0 {
		return nil, fmt.Errorf("layout yaml: no fields for %q: %w", cfg.Struct, sheetser.ErrInvalidLayout)
	}
	return &cfg, nil
}

// RegisterLayout compiles the config's styles against this sheet and
// registers the layout on the serializer.
func (s *Sheet) RegisterLayout(ser *sheetser.Serializer, cfg *LayoutConfig) error {
	descriptors := make([]sheetser.FieldDescriptor, 0, len(cfg.Fields))
	for i, f := range cfg.Fields {
		headerStyle := f.HeaderStyle
		if headerStyle == nil {
			headerStyle = cfg.HeaderStyle
		}

		d := sheetser.FieldDescriptor{
			FieldName:   f.Field,
			DisplayName: f.Rename,
			Skip:        f.Skip,
		}
		if i == 0 && cfg.HideHeaders {
			d.HideHeaders = true
		}
		if headerStyle != nil {
			id, err := s.Style(headerStyle)
			if err != nil {
				return err
			}
			d.HeaderStyle = id
		}
		if f.CellStyle != nil {
			id, err := s.Style(f.CellStyle)
			if err != nil {
				return err
			}
			d.CellStyle = id
		}
		descriptors = append(descriptors, d)
	}

	return ser.RegisterHeadersWithOptions(cfg.Row, cfg.Col, cfg.Struct, descriptors)
}
