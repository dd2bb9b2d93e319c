package openapi

import (
	"fmt"

	"github.com/athenianco/especifico/internal/types"
	"github.com/athenianco/especifico/pkg/schema"
	"github.com/mitchellh/mapstructure"
)

// Parameter is a declared operation parameter.
// Schema is the nested OpenAPI 3 (or Swagger 2 body) schema; Inline keeps
// the remaining top-level keywords, which carry the schema of Swagger 2
// non-body parameters (type, items, enum, default, x-nullable...).
type Parameter struct {
	Name             string        `mapstructure:"name"`
	In               Location      `mapstructure:"in"`
	Required         bool          `mapstructure:"required"`
	Style            string        `mapstructure:"style"`
	Explode          *bool         `mapstructure:"explode"`
	CollectionFormat string        `mapstructure:"collectionFormat"`
	Schema           schema.Schema `mapstructure:"schema"`
	Inline           schema.Schema `mapstructure:",remain"`
}

// ParseParameter decodes a raw parameter declaration.
func ParseParameter(raw map[string]any) (*Parameter, error) {
	param := &Parameter{}
	if err := mapstructure.Decode(raw, param); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	if param.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidParameter)
	}
	return param, nil
}

// MustParseParameter is like ParseParameter but panics on error.
func MustParseParameter(raw map[string]any) *Parameter {
	param, err := ParseParameter(raw)
	if err != nil {
		panic(err)
	}
	return param
}

// EffectiveSchema prefers the nested schema over the legacy top-level keywords.
func (p *Parameter) EffectiveSchema() schema.Schema {
	if p.Schema != nil {
		return p.Schema
	}
	if p.Inline == nil {
		return schema.Schema{}
	}
	return p.Inline
}

// Type is the declared type of the parameter value.
func (p *Parameter) Type() string {
	return p.EffectiveSchema().Type()
}

// IsNullable reports whether null is an accepted value.
func (p *Parameter) IsNullable() bool {
	return p.Inline.Bool("x-nullable") || p.EffectiveSchema().IsNullable()
}

// IsFile reports whether the parameter is an uploaded file.
func (p *Parameter) IsFile() bool {
	s := p.EffectiveSchema()
	return s.Type() == types.TypeFile || s.Format() == "binary"
}

// Default returns the declared default value.
func (p *Parameter) Default() (any, bool) {
	return p.EffectiveSchema().Default()
}

var defaultStyles = map[Location]string{
	InPath:     "simple",
	InHeader:   "simple",
	InQuery:    "form",
	InCookie:   "form",
	InFormData: "form",
}

var styleDelimiters = map[string]string{
	"spaceDelimited": " ",
	"pipeDelimited":  "|",
	"simple":         ",",
	"form":           ",",
}

var collectionDelimiters = map[string]string{
	"csv":   ",",
	"ssv":   " ",
	"tsv":   "\t",
	"pipes": "|",
	"multi": ",",
}

// EffectiveStyle is the declared style or the default one of the location.
func (p *Parameter) EffectiveStyle() string {
	if p.Style != "" {
		return p.Style
	}
	return defaultStyles[p.In]
}

// Exploded reports whether the parameter is exploded; form style defaults to true.
func (p *Parameter) Exploded() bool {
	if p.Explode != nil {
		return *p.Explode
	}
	return p.EffectiveStyle() == "form"
}

// IsDeepObject reports whether the parameter uses the deepObject style.
func (p *Parameter) IsDeepObject() bool {
	return p.Style == "deepObject"
}

// Delimiter separates array items in a single serialized value.
func (p *Parameter) Delimiter() string {
	if p.CollectionFormat != "" {
		if d, ok := collectionDelimiters[p.CollectionFormat]; ok {
			return d
		}
	}
	if d, ok := styleDelimiters[p.EffectiveStyle()]; ok {
		return d
	}
	return ","
}

// ObjectDefault builds a default object out of property defaults.
func ObjectDefault(s schema.Schema) (map[string]any, bool) {
	if def, ok := s.Default(); ok {
		m, isMap := def.(map[string]any)
		return m, isMap
	}
	props := s.Properties()
	if len(props) == 0 {
		return nil, false
	}

	res := make(map[string]any)
	for name, prop := range props {
		if prop.Type() == types.TypeObject {
			if nested, ok := ObjectDefault(prop); ok {
				res[name] = nested
			}
			continue
		}
		if def, ok := prop.Default(); ok {
			res[name] = def
		}
	}
	return res, len(res) > 0
}
