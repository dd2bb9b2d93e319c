package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/athenianco/especifico/pkg/openapi"
)

// Kind classifies a parameter validation failure.
type Kind int

const (
	MissingParameter Kind = iota + 1
	TypeMismatch
	SchemaViolation
	StrictModeViolation
)

func (k Kind) String() string {
	switch k {
	case MissingParameter:
		return "MissingParameter"
	case TypeMismatch:
		return "TypeMismatch"
	case SchemaViolation:
		return "SchemaViolation"
	case StrictModeViolation:
		return "StrictModeViolation"
	default:
		return "Unknown"
	}
}

// ParameterError is a rejected request parameter. Extra lists undeclared
// names for strict mode violations; Cause holds the *schema.ValidationError
// of schema violations.
type ParameterError struct {
	Kind     Kind
	Location openapi.Location
	Name     string
	Message  string
	Extra    []string
	Cause    error
}

func (e *ParameterError) Error() string {
	return e.Message
}

func (e *ParameterError) Unwrap() error {
	return e.Cause
}

func missingParameter(loc openapi.Location, name string) *ParameterError {
	return &ParameterError{
		Kind:     MissingParameter,
		Location: loc,
		Name:     name,
		Message:  fmt.Sprintf("Missing %s parameter '%s'", loc.Label(), name),
	}
}

func typeMismatch(loc openapi.Location, param *openapi.Parameter) *ParameterError {
	return &ParameterError{
		Kind:     TypeMismatch,
		Location: loc,
		Name:     param.Name,
		Message:  fmt.Sprintf("Wrong type, expected '%s' for %s parameter '%s'", param.Type(), loc.Label(), param.Name),
	}
}

func extraParameters(loc openapi.Location, names []string) *ParameterError {
	return &ParameterError{
		Kind:     StrictModeViolation,
		Location: loc,
		Message:  fmt.Sprintf("Extra %s parameter(s) %s not in spec", loc, strings.Join(names, ", ")),
		Extra:    names,
	}
}

var ErrBodyRequired = errors.New("request body is required")

// BodyError is a request body that does not match its schema.
type BodyError struct {
	Message string
	Cause   error
}

func (e *BodyError) Error() string {
	return e.Message
}

func (e *BodyError) Unwrap() error {
	return e.Cause
}

// ResponseError is a handler response that does not match its schema.
type ResponseError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *ResponseError) Error() string {
	return e.Message
}

func (e *ResponseError) Unwrap() error {
	return e.Cause
}
