package openapi

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/athenianco/especifico/internal/types"
	"github.com/athenianco/especifico/pkg/schema"
	"gopkg.in/yaml.v3"
)

var documentMethods = []string{
	http.MethodGet,
	http.MethodPut,
	http.MethodPost,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodHead,
	http.MethodPatch,
	http.MethodTrace,
}

// Document is a loaded specification with its operations.
type Document struct {
	Dialect    Dialect
	Version    string
	BasePath   string
	Raw        map[string]any
	operations []*Operation
}

// Operations returns the operations ordered by path and method.
func (d *Document) Operations() []*Operation {
	return d.operations
}

// Operation finds an operation by method and path template.
func (d *Document) Operation(method, path string) *Operation {
	method = strings.ToUpper(method)
	for _, op := range d.operations {
		if op.Method == method && op.Path == path {
			return op
		}
	}
	return nil
}

// OperationByID finds an operation by its operationId.
func (d *Document) OperationByID(id string) *Operation {
	for _, op := range d.operations {
		if op.ID == id {
			return op
		}
	}
	return nil
}

// Load parses a YAML or JSON document, resolves local references and builds
// its operations.
func Load(data []byte) (*Document, error) {
	var parsed any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	raw, ok := stringKeys(parsed).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level must be an object", ErrInvalidDocument)
	}

	doc := &Document{Raw: raw}
	switch {
	case types.SliceContains([]string{"2", "2.0"}, types.ToString(raw["swagger"])):
		doc.Dialect = Swagger2
		doc.Version = "2.0"
		doc.BasePath, _ = raw["basePath"].(string)
	case strings.HasPrefix(types.ToString(raw["openapi"]), "3."):
		doc.Dialect = OpenAPI3
		doc.Version = types.ToString(raw["openapi"])
		doc.BasePath = serverBasePath(raw["servers"])
	default:
		return nil, ErrUnsupportedVersion
	}

	resolved, ok := resolveRefs(raw, raw, nil).(map[string]any)
	if !ok {
		return nil, ErrInvalidDocument
	}

	paths, _ := resolved["paths"].(map[string]any)
	for _, path := range types.GetSortedMapKeys(paths) {
		item, ok := paths[path].(map[string]any)
		if !ok {
			continue
		}
		for _, method := range documentMethods {
			rawOp, ok := item[strings.ToLower(method)].(map[string]any)
			if !ok {
				continue
			}
			op, err := doc.buildOperation(resolved, path, method, item, rawOp)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", method, path, err)
			}
			doc.operations = append(doc.operations, op)
		}
	}
	return doc, nil
}

func (d *Document) buildOperation(root map[string]any, path, method string, item, rawOp map[string]any) (*Operation, error) {
	op := &Operation{
		ID:        types.ToString(rawOp["operationId"]),
		Method:    method,
		Path:      path,
		Dialect:   d.Dialect,
		Responses: make(map[string]*Response),
	}

	params, err := mergeParameters(item["parameters"], rawOp["parameters"])
	if err != nil {
		return nil, err
	}
	op.Parameters = params

	if d.Dialect == Swagger2 {
		op.Consumes = stringList(rawOp["consumes"], root["consumes"])
		op.Produces = stringList(rawOp["produces"], root["produces"])
	} else if rb, ok := rawOp["requestBody"].(map[string]any); ok {
		op.RequestBody = &RequestBody{
			Required: rb["required"] == true,
			Content:  parseContent(rb["content"]),
			BodyName: types.ToString(rb["x-body-name"]),
		}
		op.Consumes = types.GetSortedMapKeys(op.RequestBody.Content)
	}

	responses, _ := rawOp["responses"].(map[string]any)
	var produces []string
	for code, value := range responses {
		rawResp, ok := value.(map[string]any)
		if !ok {
			continue
		}
		resp := &Response{
			Description: types.ToString(rawResp["description"]),
			Schema:      schema.AsSchema(rawResp["schema"]),
		}
		resp.Headers, _ = rawResp["headers"].(map[string]any)
		resp.Examples, _ = rawResp["examples"].(map[string]any)
		if d.Dialect == OpenAPI3 {
			resp.Content = parseContent(rawResp["content"])
			if resp.Content == nil {
				resp.Content = make(map[string]*MediaType)
			}
			produces = append(produces, types.GetSortedMapKeys(resp.Content)...)
		}
		op.Responses[code] = resp
	}
	if d.Dialect == OpenAPI3 {
		op.Produces = types.SliceUnique(produces)
		sort.Strings(op.Produces)
	}
	return op, nil
}

// mergeParameters overlays operation parameters on path item parameters,
// identified by location and name.
// serverBasePath is the path of the first server URL without its trailing slash.
func serverBasePath(servers any) string {
	list, _ := servers.([]any)
	if len(list) == 0 {
		return ""
	}
	server, _ := list[0].(map[string]any)
	u, err := url.Parse(types.ToString(server["url"]))
	if err != nil {
		return ""
	}
	return strings.TrimRight(u.Path, "/")
}

func mergeParameters(pathLevel, opLevel any) ([]*Parameter, error) {
	var res []*Parameter
	index := make(map[string]int)
	for _, group := range []any{pathLevel, opLevel} {
		list, _ := group.([]any)
		for _, raw := range list {
			m, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: not an object", ErrInvalidParameter)
			}
			param, err := ParseParameter(m)
			if err != nil {
				return nil, err
			}
			key := string(param.In) + ":" + param.Name
			if i, seen := index[key]; seen {
				res[i] = param
				continue
			}
			index[key] = len(res)
			res = append(res, param)
		}
	}
	return res, nil
}

func parseContent(raw any) map[string]*MediaType {
	content, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	res := make(map[string]*MediaType, len(content))
	for name, value := range content {
		m, _ := value.(map[string]any)
		mt := &MediaType{
			Schema:  schema.AsSchema(m["schema"]),
			Example: m["example"],
		}
		mt.Examples, _ = m["examples"].(map[string]any)
		mt.Encoding, _ = m["encoding"].(map[string]any)
		res[name] = mt
	}
	return res
}

func stringList(values ...any) []string {
	for _, value := range values {
		list, ok := value.([]any)
		if !ok || len(list) == 0 {
			continue
		}
		res := make([]string, 0, len(list))
		for _, item := range list {
			res = append(res, types.ToString(item))
		}
		return res
	}
	return nil
}

// stringKeys converts YAML mappings with non-string keys, such as numeric
// response codes, into string keyed maps.
func stringKeys(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for k, item := range v {
			v[k] = stringKeys(item)
		}
		return v
	case map[any]any:
		res := make(map[string]any, len(v))
		for k, item := range v {
			res[types.ToString(k)] = stringKeys(item)
		}
		return res
	case []any:
		for i, item := range v {
			v[i] = stringKeys(item)
		}
		return v
	default:
		return value
	}
}

// resolveRefs inlines local `#/...` references. A reference met again while
// it is being resolved is left in place.
func resolveRefs(node any, root map[string]any, stack []string) any {
	switch v := node.(type) {
	case map[string]any:
		if ref, ok := v["$ref"].(string); ok && strings.HasPrefix(ref, "#/") {
			if types.SliceContains(stack, ref) {
				return v
			}
			target, ok := lookupPointer(root, ref[2:])
			if !ok {
				return v
			}
			return resolveRefs(target, root, append(stack, ref))
		}
		res := make(map[string]any, len(v))
		for k, item := range v {
			res[k] = resolveRefs(item, root, stack)
		}
		return res
	case []any:
		res := make([]any, len(v))
		for i, item := range v {
			res[i] = resolveRefs(item, root, stack)
		}
		return res
	default:
		return node
	}
}

func lookupPointer(root map[string]any, pointer string) (any, bool) {
	var current any = root
	for _, part := range strings.Split(pointer, "/") {
		part = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = m[part]; !ok {
			return nil, false
		}
	}
	return current, true
}
