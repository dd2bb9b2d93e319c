package validation

import (
	"errors"
	"log/slog"

	"github.com/athenianco/especifico/internal/types"
	"github.com/athenianco/especifico/pkg/openapi"
	"github.com/athenianco/especifico/pkg/schema"
)

// ResponseValidator validates handler responses against the declared
// response schema of their status code.
type ResponseValidator struct {
	op        *openapi.Operation
	validator *schema.Validator
}

func NewResponseValidator(op *openapi.Operation) *ResponseValidator {
	return &ResponseValidator{
		op:        op,
		validator: schema.NewResponseValidator(),
	}
}

// Validate checks a response body. Undeclared status codes, non-JSON media
// types and responses without a schema pass.
func (r *ResponseValidator) Validate(status int, mediaType string, body any) error {
	if mediaType == "" {
		mediaType = r.op.Mimetype()
	}
	if !types.IsJSONMediaType(mediaType) {
		return nil
	}

	s := r.op.Response(status).SchemaFor(mediaType)
	if s == nil {
		return nil
	}

	err := r.validator.Validate(s, body)
	if err == nil {
		return nil
	}

	msg := err.Error()
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		msg = verr.Format()
	}
	slog.Error("Response body does not conform to specification",
		"operation", r.op.ID, "status", status, "error", err.Error())
	return &ResponseError{StatusCode: status, Message: msg, Cause: err}
}
