package schema

import (
	"reflect"

	"github.com/goccy/go-json"
)

var subSchemaKeys = []string{"items", "additionalProperties", "not"}

var subSchemaListKeys = []string{"allOf", "anyOf", "oneOf"}

// normalize returns a copy of s rewritten into what kin-openapi understands
// for the given direction.
func normalize(s Schema, dir Direction) map[string]any {
	res := make(map[string]any, len(s))
	for k, v := range s {
		res[k] = v
	}

	// file parameters are checked for presence only
	if res["type"] == "file" {
		delete(res, "type")
	}
	delete(res, "$ref")

	if xn, ok := res["x-nullable"].(bool); ok {
		if xn {
			res["nullable"] = true
		}
		delete(res, "x-nullable")
	}

	if enum, ok := res["enum"].([]any); ok && res["nullable"] == true && !containsNil(enum) {
		withNull := make([]any, len(enum), len(enum)+1)
		copy(withNull, enum)
		res["enum"] = append(withNull, nil)
	}

	props := s.Properties()
	if len(props) > 0 {
		normalized := make(map[string]any, len(props))
		for name, prop := range props {
			normalized[name] = normalize(prop, dir)
		}
		res["properties"] = normalized
	}

	switch required := res["required"].(type) {
	case []any:
		res["required"] = filterRequired(toStrings(required), props, dir)
		if len(res["required"].([]string)) == 0 {
			delete(res, "required")
		}
	case []string:
		res["required"] = filterRequired(required, props, dir)
		if len(res["required"].([]string)) == 0 {
			delete(res, "required")
		}
	case nil:
	default:
		// Swagger 2 parameter-level "required: true" is not a schema keyword
		delete(res, "required")
	}

	for _, key := range subSchemaKeys {
		if sub := AsSchema(res[key]); sub != nil {
			res[key] = normalize(sub, dir)
		}
	}

	for _, key := range subSchemaListKeys {
		subs := s.List(key)
		if len(subs) == 0 {
			continue
		}
		normalized := make([]any, len(subs))
		for i, sub := range subs {
			normalized[i] = normalize(sub, dir)
		}
		res[key] = normalized
	}

	return res
}

// filterRequired drops properties that may not appear in the given direction.
func filterRequired(required []string, props map[string]Schema, dir Direction) []string {
	res := make([]string, 0, len(required))
	for _, name := range required {
		if prop, ok := props[name]; ok && !dir.allows(prop) {
			continue
		}
		res = append(res, name)
	}
	return res
}

func toStrings(values []any) []string {
	res := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			res = append(res, s)
		}
	}
	return res
}

func containsNil(values []any) bool {
	for _, v := range values {
		if v == nil {
			return true
		}
	}
	return false
}

// NormalizeValue converts Go values into the JSON data model: numbers
// become float64, typed slices and maps become []any and map[string]any.
func NormalizeValue(value any) any {
	switch v := value.(type) {
	case nil, bool, string, float64:
		return v
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case float32:
		return float64(v)
	case []any:
		res := make([]any, len(v))
		for i, item := range v {
			res[i] = NormalizeValue(item)
		}
		return res
	case []string:
		res := make([]any, len(v))
		for i, item := range v {
			res[i] = item
		}
		return res
	case map[string]any:
		res := make(map[string]any, len(v))
		for k, item := range v {
			res[k] = NormalizeValue(item)
		}
		return res
	case Schema:
		return NormalizeValue(map[string]any(v))
	case map[string]string:
		res := make(map[string]any, len(v))
		for k, item := range v {
			res[k] = item
		}
		return res
	case map[string][]string:
		res := make(map[string]any, len(v))
		for k, item := range v {
			res[k] = NormalizeValue(item)
		}
		return res
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		res := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			res[i] = NormalizeValue(rv.Index(i).Interface())
		}
		return res
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return value
		}
		res := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			res[iter.Key().String()] = NormalizeValue(iter.Value().Interface())
		}
		return res
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return NormalizeValue(rv.Elem().Interface())
	}
	return value
}
