package openapi

import (
	"strconv"
	"sync"

	"github.com/athenianco/especifico/internal/types"
	"github.com/athenianco/especifico/pkg/schema"
)

// MediaType is an OpenAPI 3 media type object.
type MediaType struct {
	Schema   schema.Schema
	Example  any
	Examples map[string]any
	Encoding map[string]any
}

// RequestBody is an OpenAPI 3 request body.
type RequestBody struct {
	Required bool
	Content  map[string]*MediaType
	BodyName string
}

// Response is a declared response. OpenAPI 3 responses describe their
// payloads per media type in Content; Swagger 2 ones use Schema and Examples.
type Response struct {
	Description string
	Content     map[string]*MediaType
	Schema      schema.Schema
	Examples    map[string]any
	Headers     map[string]any
}

// SchemaFor returns the payload schema for the media type. Unknown media types
// fall back to the first JSON content.
func (r *Response) SchemaFor(mediaType string) schema.Schema {
	if r == nil {
		return nil
	}
	if r.Content == nil {
		return r.Schema
	}
	if mt, ok := r.Content[types.BaseMediaType(mediaType)]; ok {
		return mt.Schema
	}
	for _, name := range types.GetSortedMapKeys(r.Content) {
		if types.IsJSONMediaType(name) {
			return r.Content[name].Schema
		}
	}
	return nil
}

// Operation is an immutable description of one path and method pair.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Dialect     Dialect
	Parameters  []*Parameter
	RequestBody *RequestBody
	Consumes    []string
	Produces    []string
	Responses   map[string]*Response

	parserOnce sync.Once
	parser     *URIParser
}

// ConsumedTypes returns the request media types of the operation.
func (op *Operation) ConsumedTypes() []string {
	if len(op.Consumes) == 0 {
		return []string{types.ContentTypeJSON}
	}
	return op.Consumes
}

// Mimetype is the media type responses are rendered with.
func (op *Operation) Mimetype() string {
	for _, mt := range op.Produces {
		if types.IsJSONMediaType(mt) {
			return mt
		}
	}
	if len(op.Produces) > 0 {
		return op.Produces[0]
	}
	return types.ContentTypeJSON
}

// BodyKind is the representation handlers receive the body in.
func (op *Operation) BodyKind() BodyKind {
	return BodyKindFor(op.ConsumedTypes())
}

// URIParser returns the parser of the operation parameters.
func (op *Operation) URIParser() *URIParser {
	op.parserOnce.Do(func() {
		op.parser = NewURIParser(op)
	})
	return op.parser
}

// ParametersIn returns the parameters declared at the location.
func (op *Operation) ParametersIn(loc Location) []*Parameter {
	var res []*Parameter
	for _, param := range op.Parameters {
		if param.In == loc {
			res = append(res, param)
		}
	}
	return res
}

// Parameter finds a declared parameter by location and name.
func (op *Operation) Parameter(loc Location, name string) *Parameter {
	for _, param := range op.Parameters {
		if param.In == loc && param.Name == name {
			return param
		}
	}
	return nil
}

// BodyParameter is the Swagger 2 body parameter, if declared.
func (op *Operation) BodyParameter() *Parameter {
	params := op.ParametersIn(InBody)
	if len(params) == 0 {
		return nil
	}
	return params[0]
}

// BodySchema is the schema of the request body for the first consumed type.
func (op *Operation) BodySchema() schema.Schema {
	if op.Dialect == Swagger2 {
		if param := op.BodyParameter(); param != nil {
			return param.Schema
		}
		return nil
	}
	if op.RequestBody == nil {
		return nil
	}
	if mt, ok := op.RequestBody.Content[op.ConsumedTypes()[0]]; ok {
		return mt.Schema
	}
	return nil
}

// BodyRequired reports whether a request body must be present.
func (op *Operation) BodyRequired() bool {
	if op.Dialect == Swagger2 {
		param := op.BodyParameter()
		return param != nil && param.Required
	}
	return op.RequestBody != nil && op.RequestBody.Required
}

// Response finds the declared response for a status code: an exact match,
// then a range such as 2XX, then default.
func (op *Operation) Response(status int) *Response {
	code := strconv.Itoa(status)
	if resp, ok := op.Responses[code]; ok {
		return resp
	}
	if resp, ok := op.Responses[code[:1]+"XX"]; ok {
		return resp
	}
	if resp, ok := op.Responses[code[:1]+"xx"]; ok {
		return resp
	}
	return op.Responses["default"]
}

// ResponseSchema is the payload schema of the response for a status code.
func (op *Operation) ResponseSchema(status int) schema.Schema {
	return op.Response(status).SchemaFor(op.Mimetype())
}
