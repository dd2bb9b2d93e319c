package openapi

import (
	"testing"

	"github.com/athenianco/especifico/pkg/schema"
	assert2 "github.com/stretchr/testify/assert"
)

func arrayParam(in Location, name string) *Parameter {
	return &Parameter{
		Name:   name,
		In:     in,
		Schema: schema.Schema{"type": "array", "items": map[string]any{"type": "string"}},
	}
}

func TestURIParserOpenAPI3(t *testing.T) {
	assert := assert2.New(t)

	exploded := arrayParam(InQuery, "tags")
	joined := arrayParam(InQuery, "ids")
	joined.Explode = boolPtr(false)
	spaced := arrayParam(InQuery, "words")
	spaced.Style = "spaceDelimited"
	piped := arrayParam(InPath, "parts")
	piped.Style = "pipeDelimited"

	op := &Operation{
		Dialect: OpenAPI3,
		Parameters: []*Parameter{
			exploded, joined, spaced, piped,
			{Name: "limit", In: InQuery, Schema: schema.Schema{"type": "integer"}},
			{Name: "filter", In: InQuery, Style: "deepObject", Schema: schema.Schema{"type": "object"}},
		},
	}
	parser := op.URIParser()

	t.Run("query", func(t *testing.T) {
		res := parser.ResolveQuery(map[string][]string{
			"tags":  {"a", "b"},
			"ids":   {"1,2", "3,4"},
			"words": {"x y"},
			"limit": {"1", "2"},
			"other": {"o"},
		})
		assert.Equal(map[string]any{
			"tags":  []string{"a", "b"},
			"ids":   []string{"3", "4"},
			"words": []string{"x", "y"},
			"limit": "2",
			"other": []string{"o"},
		}, res)
	})

	t.Run("deep object", func(t *testing.T) {
		res := parser.ResolveQuery(map[string][]string{
			"filter[name]":     {"rex", "tom"},
			"filter[age][min]": {"1"},
			"filter[age][max]": {"5"},
			"unknown[key]":     {"u"},
		})
		assert.Equal(map[string]any{
			"filter": map[string]any{
				"name": "rex",
				"age":  map[string]any{"min": "1", "max": "5"},
			},
			"unknown[key]": []string{"u"},
		}, res)
	})

	t.Run("path", func(t *testing.T) {
		res := parser.ResolvePath(map[string]string{"parts": "a|b", "id": "7"})
		assert.Equal(map[string]any{"parts": []string{"a", "b"}, "id": []string{"7"}}, res)
	})
}

func TestURIParserSwagger2(t *testing.T) {
	assert := assert2.New(t)

	multi := arrayParam(InQuery, "tags")
	multi.CollectionFormat = "multi"
	pipes := arrayParam(InQuery, "ids")
	pipes.CollectionFormat = "pipes"
	csv := arrayParam(InFormData, "names")

	op := &Operation{
		Dialect:    Swagger2,
		Parameters: []*Parameter{multi, pipes, csv},
	}
	parser := op.URIParser()

	res := parser.ResolveQuery(map[string][]string{
		"tags": {"a", "b,c"},
		"ids":  {"1|2", "3|4"},
	})
	assert.Equal(map[string]any{
		"tags": []string{"a", "b", "c"},
		"ids":  []string{"3", "4"},
	}, res)

	form := parser.ResolveForm(map[string][]string{"names": {"x,y"}})
	assert.Equal(map[string]any{"names": []string{"x", "y"}}, form)
}

func TestURIParserOpenAPI3Form(t *testing.T) {
	assert := assert2.New(t)

	op := &Operation{
		Dialect: OpenAPI3,
		Method:  "POST",
		RequestBody: &RequestBody{
			Content: map[string]*MediaType{
				"application/x-www-form-urlencoded": {
					Schema: schema.Schema{
						"type": "object",
						"properties": map[string]any{
							"tags": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
							"name": map[string]any{"type": "string"},
						},
					},
				},
			},
		},
		Consumes: []string{"application/x-www-form-urlencoded"},
	}

	res := op.URIParser().ResolveForm(map[string][]string{
		"tags": {"a", "b"},
		"name": {"first", "last"},
	})
	assert.Equal(map[string]any{"tags": []string{"a", "b"}, "name": "last"}, res)
}

func TestSplitHeader(t *testing.T) {
	assert := assert2.New(t)

	op := &Operation{Dialect: OpenAPI3}
	param := arrayParam(InHeader, "X-Ids")
	assert.Equal([]string{"1", "2"}, op.URIParser().SplitHeader(param, "1,2"))
}
