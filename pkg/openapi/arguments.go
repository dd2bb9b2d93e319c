package openapi

import (
	"log/slog"
	"mime/multipart"

	"github.com/athenianco/especifico/internal/types"
	"github.com/athenianco/especifico/pkg/handler"
	"github.com/athenianco/especifico/pkg/sanitize"
	"github.com/athenianco/especifico/pkg/schema"
)

// ArgumentInput is the request data arguments are resolved from.
// Query holds every occurrence of each key. Body is the decoded JSON value,
// the form fields (map[string][]string) or the raw bytes, per BodyKind.
type ArgumentInput struct {
	PathParams map[string]string
	Query      map[string][]string
	Body       any
	Files      map[string][]*multipart.FileHeader
	Signature  handler.Signature
	Sanitize   sanitize.Func
}

func (in ArgumentInput) sanitize(name string) string {
	if in.Sanitize == nil {
		return sanitize.Plain(name)
	}
	return in.Sanitize(name)
}

// Arguments computes the handler keyword arguments for a request: path
// parameters, query parameters with defaults and, for methods with a body,
// the body (or form fields) and uploaded files.
func (op *Operation) Arguments(in ArgumentInput) map[string]any {
	res := make(map[string]any)
	for k, v := range op.pathArguments(in) {
		res[k] = v
	}
	for k, v := range op.queryArguments(in) {
		res[k] = v
	}

	if HasBody(op.Method) {
		var body map[string]any
		if op.Dialect == Swagger2 {
			body = op.swagger2BodyArguments(in)
		} else {
			body = op.openapi3BodyArguments(in)
		}
		for k, v := range body {
			res[k] = v
		}
		for k, v := range op.fileArguments(in) {
			res[k] = v
		}
	}
	return res
}

func (op *Operation) pathArguments(in ArgumentInput) map[string]any {
	resolved := op.URIParser().ResolvePath(in.PathParams)

	res := make(map[string]any, len(in.PathParams))
	for key, raw := range in.PathParams {
		name := in.sanitize(key)
		if param := op.Parameter(InPath, key); param != nil {
			res[name] = valueFromParam(resolved[key], param)
			continue
		}
		res[name] = raw
	}
	return res
}

func (op *Operation) queryArguments(in ArgumentInput) map[string]any {
	defns := make(map[string]*Parameter)
	query := make(map[string]any)
	for _, param := range op.ParametersIn(InQuery) {
		defns[in.sanitize(param.Name)] = param
		if def, ok := queryDefault(param); ok {
			query[param.Name] = def
		}
	}
	types.DeepMerge(query, op.URIParser().ResolveQuery(in.Query))

	res := make(map[string]any, len(query))
	for key, value := range query {
		name := in.sanitize(key)
		if !in.Signature.Accepts(name) {
			slog.Debug("Query parameter not in function arguments", "key", key, "name", name)
			continue
		}
		param, ok := defns[name]
		if !ok {
			slog.Error("Function argument not defined in specification", "name", name, "key", key)
			continue
		}
		res[name] = valueFromParam(value, param)
	}
	return res
}

func queryDefault(param *Parameter) (any, bool) {
	s := param.EffectiveSchema()
	if s.Type() == types.TypeObject {
		return ObjectDefault(s)
	}
	return s.Default()
}

func (op *Operation) fileArguments(in ArgumentInput) map[string]any {
	res := make(map[string]any)
	for name, files := range in.Files {
		if !in.Signature.Accepts(name) || len(files) == 0 {
			continue
		}
		if len(files) == 1 {
			res[name] = files[0]
			continue
		}
		res[name] = files
	}
	return res
}

func (op *Operation) openapi3BodyArguments(in ArgumentInput) map[string]any {
	if len(in.Signature.Args) == 0 && !in.Signature.AcceptsExtra {
		return nil
	}

	bodySchema := op.BodySchema()
	bodyName := "body"
	if op.RequestBody != nil && op.RequestBody.BodyName != "" {
		bodyName = op.RequestBody.BodyName
	} else if name, ok := bodySchema["x-body-name"].(string); ok && name != "" {
		bodyName = name
	}
	bodyName = in.sanitize(bodyName)

	bind := func(value any) map[string]any {
		if !in.Signature.Accepts(bodyName) {
			return nil
		}
		return map[string]any{bodyName: value}
	}

	body := in.Body
	if form, ok := body.(map[string][]string); ok {
		body = op.URIParser().ResolveForm(form)
	}
	if bodySchema.IsNullable() && types.IsNull(body) {
		return bind(nil)
	}

	if body == nil {
		def, _ := bodySchema.Default()
		body = def
	}
	if bodySchema.Type() != types.TypeObject {
		return bind(body)
	}
	bodyMap, ok := body.(map[string]any)
	if body != nil && !ok {
		return bind(body)
	}

	merged := make(map[string]any)
	if def, ok := bodySchema.Default(); ok {
		if defMap, isMap := def.(map[string]any); isMap {
			merged = defMap
		}
	}
	for k, v := range bodyMap {
		merged[k] = v
	}
	return bind(typedBodyValues(merged, bodySchema))
}

func typedBodyValues(body map[string]any, s schema.Schema) map[string]any {
	props := s.Properties()
	additional, additionalSchema := s.AdditionalProperties()

	res := make(map[string]any, len(body))
	for key, value := range body {
		if prop, ok := props[key]; ok {
			res[key] = valueFromSchema(value, prop, prop.IsNullable())
			continue
		}
		if !additional {
			slog.Error("Body property not defined in specification", "name", key)
			continue
		}
		if additionalSchema != nil {
			res[key] = valueFromSchema(value, additionalSchema, additionalSchema.IsNullable())
			continue
		}
		res[key] = value
	}
	return res
}

func (op *Operation) swagger2BodyArguments(in ArgumentInput) map[string]any {
	res := make(map[string]any)

	body := in.Body
	if bodyParam := op.BodyParameter(); bodyParam != nil {
		if body == nil {
			body, _ = bodyParam.Schema.Default()
		}
		name := in.sanitize(bodyParam.Name)
		if in.Signature.Accepts(name) {
			res[name] = body
		}
	}

	formParams := op.ParametersIn(InFormData)
	defns := make(map[string]*Parameter, len(formParams))
	form := make(map[string]any)
	for _, param := range formParams {
		defns[param.Name] = param
		if def, ok := param.Default(); ok {
			form[param.Name] = def
		}
	}
	if fields, ok := in.Body.(map[string][]string); ok && len(defns) > 0 {
		for k, v := range op.URIParser().ResolveForm(fields) {
			form[k] = v
		}
	}

	for key, value := range form {
		name := in.sanitize(key)
		if !in.Signature.Accepts(name) {
			slog.Debug("FormData parameter not in function arguments", "key", key, "name", name)
			continue
		}
		param, ok := defns[key]
		if !ok {
			slog.Error("Function argument not defined in specification", "name", name, "key", key)
			continue
		}
		if param.IsFile() {
			continue
		}
		res[name] = valueFromParam(value, param)
	}
	return res
}

func valueFromParam(value any, param *Parameter) any {
	return valueFromSchema(value, param.EffectiveSchema(), param.IsNullable())
}

func valueFromSchema(value any, s schema.Schema, nullable bool) any {
	if nullable && types.IsNull(value) {
		return nil
	}
	return CoerceValue(value, s)
}
