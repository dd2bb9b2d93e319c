package validation

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/athenianco/especifico/internal/types"
	"github.com/athenianco/especifico/pkg/openapi"
	"github.com/athenianco/especifico/pkg/request"
	"github.com/athenianco/especifico/pkg/schema"
)

// BodyValidator validates request bodies against the request body schema.
type BodyValidator struct {
	op        *openapi.Operation
	strict    bool
	validator *schema.Validator
}

// NewBodyValidator creates a body validator for op. In strict mode form
// fields missing from the body schema properties are rejected.
func NewBodyValidator(op *openapi.Operation, strict bool) *BodyValidator {
	return &BodyValidator{
		op:        op,
		strict:    strict,
		validator: schema.NewRequestValidator(),
	}
}

// Validate checks the body of req. Missing optional bodies are not validated.
func (b *BodyValidator) Validate(req *request.Request) error {
	empty := len(bytes.TrimSpace(req.Body)) == 0 && len(req.Form) == 0 && len(req.Files) == 0
	if empty {
		if b.op.BodyRequired() {
			return &BodyError{Message: "Request body is required", Cause: ErrBodyRequired}
		}
		return nil
	}

	s := b.op.BodySchema()
	if s == nil {
		return nil
	}

	switch b.op.BodyKind() {
	case openapi.BodyJSON:
		return b.validate(s, req.JSON)
	case openapi.BodyForm:
		if b.op.Dialect == openapi.Swagger2 {
			return nil
		}
		data, err := b.formData(s, req)
		if err != nil {
			return err
		}
		return b.validate(s, data)
	default:
		return nil
	}
}

func (b *BodyValidator) formData(s schema.Schema, req *request.Request) (map[string]any, error) {
	props := s.Properties()
	if b.strict {
		if extra := types.SliceDifference(types.GetSortedMapKeys(req.Form), types.GetSortedMapKeys(props)); len(extra) > 0 {
			return nil, extraParameters(openapi.InFormData, extra)
		}
	}

	data := b.op.URIParser().ResolveForm(req.Form)
	for name := range req.Files {
		data[name] = ""
	}

	var errs []string
	for _, name := range types.GetSortedMapKeys(props) {
		value, ok := data[name]
		if !ok {
			continue
		}
		converted, err := coerce(props[name], value, ",")
		if err != nil {
			errs = append(errs, fmt.Sprintf("Wrong type, expected '%s' for requestBody parameter '%s'", props[name].Type(), name))
			continue
		}
		data[name] = converted
	}
	if len(errs) > 0 {
		return nil, &BodyError{Message: strings.Join(errs, "; ")}
	}
	return data, nil
}

func (b *BodyValidator) validate(s schema.Schema, data any) error {
	err := b.validator.Validate(s, data)
	if err == nil {
		return nil
	}

	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		return &BodyError{Message: err.Error(), Cause: err}
	}

	msg := verr.Message
	if len(verr.Path) > 0 {
		msg = fmt.Sprintf("%s - '%s'", msg, strings.Join(verr.Path, "."))
	}
	slog.Error("Request body does not match its schema", "operation", b.op.ID, "error", msg)
	return &BodyError{Message: msg, Cause: verr}
}
