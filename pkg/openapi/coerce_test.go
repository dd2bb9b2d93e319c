package openapi

import (
	"errors"
	"math"
	"testing"

	"github.com/athenianco/especifico/pkg/schema"
	"github.com/goccy/go-json"
	assert2 "github.com/stretchr/testify/assert"
)

func TestMakeType(t *testing.T) {
	assert := assert2.New(t)

	tests := []struct {
		name     string
		value    any
		typ      string
		expected any
		fails    bool
	}{
		{"integer from string", "12", "integer", int64(12), false},
		{"integer from float", float64(3), "integer", int64(3), false},
		{"integer from fraction", 3.5, "integer", 3.5, false},
		{"integer above int64 range", 1e19, "integer", 1e19, false},
		{"integer far above int64 range", 1e300, "integer", 1e300, false},
		{"integer below int64 range", -1e19, "integer", -1e19, false},
		{"integer at int64 minimum", float64(math.MinInt64), "integer", int64(math.MinInt64), false},
		{"integer from json number", json.Number("9007199254740993"), "integer", int64(9007199254740993), false},
		{"integer from json exponent", json.Number("3e2"), "integer", int64(300), false},
		{"integer from huge json number", json.Number("1e19"), "integer", json.Number("1e19"), false},
		{"integer from fractional json number", json.Number("1.5"), "integer", json.Number("1.5"), false},
		{"integer from garbage", "x", "integer", "x", true},
		{"integer from object", map[string]any{"a": 1}, "integer", map[string]any{"a": 1}, false},
		{"number from string", "1.5", "number", 1.5, false},
		{"number from int", 2, "number", float64(2), false},
		{"number from json number", json.Number("1.25"), "number", 1.25, false},
		{"number from garbage", "1.5.1", "number", "1.5.1", true},
		{"boolean true", "TRUE", "boolean", true, false},
		{"boolean false", "false", "boolean", false, false},
		{"boolean native", true, "boolean", true, false},
		{"boolean from garbage", "yes", "boolean", "yes", true},
		{"boolean from number", 1, "boolean", 1, true},
		{"string untouched", "123", "string", "123", false},
		{"untyped untouched", "123", "", "123", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := MakeType(tc.value, tc.typ)
			if tc.fails {
				assert.True(errors.Is(err, ErrConversion))
			} else {
				assert.NoError(err)
			}
			assert.Equal(tc.expected, res)
		})
	}
}

func TestCoerceValue(t *testing.T) {
	assert := assert2.New(t)

	t.Run("array items keep failures raw", func(t *testing.T) {
		s := schema.Schema{"type": "array", "items": map[string]any{"type": "integer"}}
		assert.Equal([]any{int64(1), "x"}, CoerceValue([]string{"1", "x"}, s))
	})

	t.Run("object leaves", func(t *testing.T) {
		s := schema.Schema{
			"type": "object",
			"properties": map[string]any{
				"age":    map[string]any{"type": "integer"},
				"active": map[string]any{"type": "boolean"},
			},
		}
		res := CoerceValue(map[string]any{"age": "3", "active": "true", "other": "1"}, s)
		assert.Equal(map[string]any{"age": int64(3), "active": true, "other": "1"}, res)
	})

	t.Run("non-list for array", func(t *testing.T) {
		s := schema.Schema{"type": "array", "items": map[string]any{"type": "integer"}}
		assert.Equal("1", CoerceValue("1", s))
	})
}
