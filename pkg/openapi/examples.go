package openapi

import (
	"net/http"
	"strconv"

	"github.com/athenianco/especifico/internal/types"
	"github.com/athenianco/especifico/pkg/schema"
)

// ExampleResponse returns the example body of the response with the lowest
// declared status code together with that code. Non-numeric codes such as
// default map to 200. The body is nil when no example can be found.
func (op *Operation) ExampleResponse() (any, int) {
	if len(op.Responses) == 0 {
		return nil, http.StatusOK
	}

	key := types.GetSortedMapKeys(op.Responses)[0]

	status, err := strconv.Atoi(key)
	if err != nil {
		status = http.StatusOK
	}

	resp := op.Responses[key]
	if op.Dialect == Swagger2 {
		return swagger2Example(resp, op.Mimetype()), status
	}
	return openapi3Example(resp, op.Mimetype()), status
}

func openapi3Example(resp *Response, mimetype string) any {
	mt, ok := resp.Content[mimetype]
	if !ok {
		return nil
	}
	if len(mt.Examples) > 0 {
		first := mt.Examples[types.GetSortedMapKeys(mt.Examples)[0]]
		if obj, ok := first.(map[string]any); ok {
			if value, ok := obj["value"]; ok {
				return value
			}
		}
		return first
	}
	if mt.Example != nil {
		return mt.Example
	}
	if example, ok := mt.Schema.Example(); ok {
		return example
	}
	example, _ := NestedExample(mt.Schema)
	return example
}

func swagger2Example(resp *Response, mimetype string) any {
	if example, ok := resp.Examples[mimetype]; ok {
		return example
	}
	if len(resp.Examples) > 0 {
		return resp.Examples[types.GetSortedMapKeys(resp.Examples)[0]]
	}
	if example, ok := resp.Schema.Example(); ok {
		return example
	}
	example, _ := NestedExample(resp.Schema)
	return example
}

// NestedExample builds an example from the examples of the schema properties
// or items. It fails when any leaf has no example.
func NestedExample(s schema.Schema) (any, bool) {
	if s == nil {
		return nil, false
	}
	if example, ok := s.Example(); ok {
		return example, true
	}

	switch s.Type() {
	case types.TypeArray:
		item, ok := NestedExample(s.Items())
		if !ok {
			return nil, false
		}
		return []any{item}, true
	case types.TypeObject, "":
		props := s.Properties()
		if len(props) == 0 {
			return nil, false
		}
		res := make(map[string]any, len(props))
		for name, prop := range props {
			example, ok := NestedExample(prop)
			if !ok {
				return nil, false
			}
			res[name] = example
		}
		return res, true
	default:
		return nil, false
	}
}
