// Package openapi holds the immutable, spec-derived description of operations
// and the dialect-specific logic that turns wire values into handler
// arguments. Swagger 2 and OpenAPI 3 documents share the model and differ in
// where parameters, bodies and examples come from.
package openapi

import (
	"errors"
	"strings"

	"github.com/athenianco/especifico/internal/types"
)

var (
	ErrUnsupportedVersion = errors.New("unsupported specification version")
	ErrInvalidDocument    = errors.New("invalid specification document")
	ErrInvalidParameter   = errors.New("invalid parameter declaration")
)

// Dialect is the specification flavor an operation comes from.
type Dialect string

const (
	Swagger2 Dialect = "swagger2"
	OpenAPI3 Dialect = "openapi3"
)

// Location is where a parameter travels in a request.
type Location string

const (
	InPath     Location = "path"
	InQuery    Location = "query"
	InHeader   Location = "header"
	InCookie   Location = "cookie"
	InFormData Location = "formData"
	InBody     Location = "body"
)

// Label is the lower-cased name of the location used in messages.
func (l Location) Label() string {
	return strings.ToLower(string(l))
}

// BodyKind is the representation of the request body handed to handlers.
// It is decided once per operation from its consumed media types.
type BodyKind int

const (
	BodyJSON BodyKind = iota
	BodyForm
	BodyRaw
)

func (k BodyKind) String() string {
	switch k {
	case BodyJSON:
		return "json"
	case BodyForm:
		return "form"
	default:
		return "raw"
	}
}

// BodyKindFor selects JSON when every consumed type is JSON, form fields when
// the first consumed type is a form type and raw bytes otherwise.
func BodyKindFor(consumes []string) BodyKind {
	if types.AllJSON(consumes) {
		return BodyJSON
	}
	if types.IsFormMediaType(consumes[0]) {
		return BodyForm
	}
	return BodyRaw
}

var methodsWithBody = []string{"PATCH", "POST", "PUT"}

// HasBody reports whether requests with the method carry a body.
func HasBody(method string) bool {
	return types.SliceContains(methodsWithBody, strings.ToUpper(method))
}
