package openapi

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/athenianco/especifico/internal/types"
	"github.com/athenianco/especifico/pkg/schema"
	"github.com/goccy/go-json"
)

var ErrConversion = errors.New("conversion failed")

// MakeType converts a wire value into the Go value of an OpenAPI primitive
// type. Values that cannot be interpreted as the type at all (objects for
// numbers, for example) are returned unchanged so that schema validation
// reports them; values that look convertible but are malformed fail.
func MakeType(value any, typ string) (any, error) {
	switch typ {
	case types.TypeInteger:
		return makeInteger(value)
	case types.TypeNumber:
		return makeNumber(value)
	case types.TypeBoolean:
		return makeBoolean(value)
	default:
		return value, nil
	}
}

func makeInteger(value any) (any, error) {
	switch v := value.(type) {
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return value, fmt.Errorf("%w: invalid literal for integer: %q", ErrConversion, v)
		}
		return i, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		if f, err := v.Float64(); err == nil && isInt64(f) {
			return int64(f), nil
		}
		return value, nil
	case float64:
		if isInt64(v) {
			return int64(v), nil
		}
		return value, nil
	default:
		return value, nil
	}
}

// isInt64 reports whether f is a whole number within the int64 range.
func isInt64(f float64) bool {
	return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64
}

func makeNumber(value any) (any, error) {
	switch v := value.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return value, fmt.Errorf("%w: could not convert string to number: %q", ErrConversion, v)
		}
		return f, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f, nil
		}
		return value, nil
	default:
		return value, nil
	}
}

func makeBoolean(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(v) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return value, fmt.Errorf("%w: invalid boolean value", ErrConversion)
}

// CoerceLeaves converts the properties of an object value according to
// their schema. Unknown keys and failed conversions keep the raw value.
func CoerceLeaves(value map[string]any, s schema.Schema) map[string]any {
	props := s.Properties()
	res := make(map[string]any, len(value))
	for key, v := range value {
		prop, ok := props[key]
		if !ok {
			res[key] = v
			continue
		}
		res[key] = CoerceValue(v, prop)
	}
	return res
}

// CoerceValue converts a value according to the schema, recursing into
// arrays and objects. It never fails; unconvertible parts stay raw.
func CoerceValue(value any, s schema.Schema) any {
	switch s.Type() {
	case types.TypeArray:
		items := s.Items()
		var list []any
		switch v := value.(type) {
		case []any:
			list = v
		case []string:
			list = make([]any, len(v))
			for i, item := range v {
				list[i] = item
			}
		default:
			return value
		}
		res := make([]any, len(list))
		for i, item := range list {
			res[i] = CoerceValue(item, items)
		}
		return res
	case types.TypeObject:
		if m, ok := value.(map[string]any); ok {
			return CoerceLeaves(m, s)
		}
		return value
	default:
		converted, err := MakeType(value, s.Type())
		if err != nil {
			return value
		}
		return converted
	}
}
