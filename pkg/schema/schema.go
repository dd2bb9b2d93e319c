// Package schema validates JSON values against OpenAPI schema nodes.
//
// Schema nodes are kept the way they are written in the document, so the
// OpenAPI relaxations on top of JSON Schema can be applied before handing
// the node to kin-openapi:
//   - x-nullable and nullable accept null regardless of type and enum;
//   - request validation rejects readOnly values and does not require
//     readOnly properties;
//   - response validation rejects writeOnly values and does not require
//     writeOnly properties.
package schema

import "github.com/athenianco/especifico/internal/types"

// Schema is a raw schema node as decoded from the document.
type Schema map[string]any

// AsSchema returns v as a schema node, or nil when it is not an object.
func AsSchema(v any) Schema {
	switch s := v.(type) {
	case Schema:
		return s
	case map[string]any:
		return s
	}
	return nil
}

// Type returns the declared type or an empty string.
func (s Schema) Type() string {
	t, _ := s["type"].(string)
	return t
}

// Format returns the declared format or an empty string.
func (s Schema) Format() string {
	f, _ := s["format"].(string)
	return f
}

// Items returns the items schema of an array node.
func (s Schema) Items() Schema {
	return AsSchema(s["items"])
}

// Properties returns the property schemas of an object node.
func (s Schema) Properties() map[string]Schema {
	raw, ok := s["properties"].(map[string]any)
	if !ok {
		if typed, ok := s["properties"].(map[string]Schema); ok {
			return typed
		}
		return nil
	}
	res := make(map[string]Schema, len(raw))
	for name, prop := range raw {
		if ps := AsSchema(prop); ps != nil {
			res[name] = ps
		}
	}
	return res
}

// AdditionalProperties returns whether extra properties are allowed and their
// schema when one is declared. Absent means allowed.
func (s Schema) AdditionalProperties() (bool, Schema) {
	switch v := s["additionalProperties"].(type) {
	case nil:
		return true, nil
	case bool:
		return v, nil
	default:
		return true, AsSchema(v)
	}
}

// Bool returns a boolean keyword, false when absent.
func (s Schema) Bool(key string) bool {
	b, _ := s[key].(bool)
	return b
}

// IsNullable reports whether the node is flagged nullable or x-nullable.
func (s Schema) IsNullable() bool {
	return s.Bool("nullable") || s.Bool("x-nullable")
}

// Default returns the declared default value.
func (s Schema) Default() (any, bool) {
	v, ok := s["default"]
	return types.DeepCopy(v), ok
}

// Example returns the declared example value.
func (s Schema) Example() (any, bool) {
	v, ok := s["example"]
	return v, ok
}

// List returns the sub-schemas of a composition keyword like allOf.
func (s Schema) List(key string) []Schema {
	raw, ok := s[key].([]any)
	if !ok {
		return nil
	}
	res := make([]Schema, 0, len(raw))
	for _, item := range raw {
		if sub := AsSchema(item); sub != nil {
			res = append(res, sub)
		}
	}
	return res
}

// Without returns a shallow copy of the node without the given keywords.
func (s Schema) Without(keys ...string) Schema {
	res := make(Schema, len(s))
	for k, v := range s {
		res[k] = v
	}
	for _, k := range keys {
		delete(res, k)
	}
	return res
}
