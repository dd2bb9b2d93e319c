// Package validation checks requests against the declarations of an
// operation and handler responses against the declared response schemas.
package validation

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/athenianco/especifico/internal/types"
	"github.com/athenianco/especifico/pkg/openapi"
	"github.com/athenianco/especifico/pkg/request"
	"github.com/athenianco/especifico/pkg/schema"
)

var validationOrder = []openapi.Location{
	openapi.InPath,
	openapi.InQuery,
	openapi.InHeader,
	openapi.InCookie,
	openapi.InFormData,
}

// ParameterValidator validates the discrete parameters of an operation.
type ParameterValidator struct {
	op        *openapi.Operation
	params    map[openapi.Location][]*openapi.Parameter
	strict    bool
	validator *schema.Validator
}

// NewParameterValidator creates a validator for the parameters of op.
// In strict mode undeclared query and form parameters are rejected.
func NewParameterValidator(op *openapi.Operation, strict bool) *ParameterValidator {
	params := make(map[openapi.Location][]*openapi.Parameter)
	for _, param := range op.Parameters {
		params[param.In] = append(params[param.In], param)
	}
	return &ParameterValidator{
		op:        op,
		params:    params,
		strict:    strict,
		validator: schema.NewRequestValidator(),
	}
}

// ValidateRequest runs the strict mode checks and then validates every
// declared parameter. The first failure is returned.
func (v *ParameterValidator) ValidateRequest(req *request.Request) error {
	if v.strict {
		if err := v.ValidateQueryParameterList(req); err != nil {
			return err
		}
		if err := v.ValidateFormDataParameterList(req); err != nil {
			return err
		}
	}

	values := v.resolve(req)
	for _, loc := range validationOrder {
		for _, param := range v.params[loc] {
			if err := v.ValidateParameter(loc, values.get(loc, param, req), param); err != nil {
				return err
			}
		}
	}
	return nil
}

// ValidateParameter validates a single value; nil means absent.
func (v *ParameterValidator) ValidateParameter(loc openapi.Location, value any, param *openapi.Parameter) error {
	if value == nil {
		if param.Required {
			return missingParameter(loc, param.Name)
		}
		return nil
	}

	if param.IsNullable() && types.IsNull(value) {
		return nil
	}
	if param.IsFile() {
		return nil
	}

	converted, err := coerce(param.EffectiveSchema(), value, param.Delimiter())
	if err != nil {
		return typeMismatch(loc, param)
	}

	if err := v.validator.Validate(param.EffectiveSchema(), converted); err != nil {
		var verr *schema.ValidationError
		if !errors.As(err, &verr) {
			return &ParameterError{
				Kind:     SchemaViolation,
				Location: loc,
				Name:     param.Name,
				Message:  err.Error(),
				Cause:    err,
			}
		}
		slog.Info("Parameter value does not match its declaration",
			"location", loc.Label(), "name", param.Name, "value", converted, "error", verr.Message)
		return &ParameterError{
			Kind:     SchemaViolation,
			Location: loc,
			Name:     param.Name,
			Message:  verr.Format(),
			Cause:    verr,
		}
	}
	return nil
}

// ValidateQueryParameterList rejects query keys that are not declared.
// Keys of deepObject parameters count as their root name.
func (v *ParameterValidator) ValidateQueryParameterList(req *request.Request) error {
	var declared []string
	deep := make(map[string]bool)
	for _, param := range v.params[openapi.InQuery] {
		declared = append(declared, param.Name)
		if param.IsDeepObject() {
			deep[param.Name] = true
		}
	}

	var keys []string
	for key := range request.Lists(req.Query) {
		if root, _, found := strings.Cut(key, "["); found && deep[root] {
			key = root
		}
		keys = append(keys, key)
	}

	if extra := types.SliceDifference(keys, declared); len(extra) > 0 {
		return extraParameters(openapi.InQuery, extra)
	}
	return nil
}

// ValidateFormDataParameterList rejects form fields that are not declared.
// It is a no-op when no formData parameters are declared, as for OpenAPI 3
// operations whose form fields are described by the request body.
func (v *ParameterValidator) ValidateFormDataParameterList(req *request.Request) error {
	params := v.params[openapi.InFormData]
	if len(params) == 0 {
		return nil
	}

	declared := make([]string, 0, len(params))
	for _, param := range params {
		declared = append(declared, param.Name)
	}

	if extra := types.SliceDifference(types.GetSortedMapKeys(req.Form), declared); len(extra) > 0 {
		return extraParameters(openapi.InFormData, extra)
	}
	return nil
}

type resolvedValues struct {
	parser *openapi.URIParser
	path   map[string]any
	query  map[string]any
	form   map[string]any
}

func (v *ParameterValidator) resolve(req *request.Request) resolvedValues {
	parser := v.op.URIParser()
	return resolvedValues{
		parser: parser,
		path:   parser.ResolvePath(req.PathParams),
		query:  parser.ResolveQuery(request.Lists(req.Query)),
		form:   parser.ResolveForm(req.Form),
	}
}

func (r resolvedValues) get(loc openapi.Location, param *openapi.Parameter, req *request.Request) any {
	var (
		value any
		ok    bool
	)
	switch loc {
	case openapi.InPath:
		value, ok = r.path[param.Name]
	case openapi.InQuery:
		value, ok = r.query[param.Name]
	case openapi.InHeader:
		values := req.Headers.Values(param.Name)
		if len(values) == 0 {
			break
		}
		joined := strings.Join(values, ",")
		if param.Type() == types.TypeArray {
			value, ok = r.parser.SplitHeader(param, joined), true
			break
		}
		value, ok = joined, true
	case openapi.InCookie:
		value, ok = req.Cookies[param.Name]
	case openapi.InFormData:
		if param.IsFile() {
			if files := req.Files[param.Name]; len(files) > 0 {
				value, ok = files, true
			}
			break
		}
		value, ok = r.form[param.Name]
	}
	if !ok {
		return nil
	}
	return value
}

// coerce converts wire values into the declared type before validation.
// Array items and object leaves that do not convert stay raw for the
// schema check to report; a malformed scalar is a type mismatch.
func coerce(s schema.Schema, value any, delimiter string) (any, error) {
	switch s.Type() {
	case types.TypeArray:
		if raw, ok := value.(string); ok {
			value = strings.Split(raw, delimiter)
		}
		return openapi.CoerceValue(value, s), nil
	case types.TypeObject:
		if m, ok := value.(map[string]any); ok && len(s.Properties()) > 0 {
			return openapi.CoerceLeaves(m, s), nil
		}
		return value, nil
	default:
		return openapi.MakeType(value, s.Type())
	}
}
