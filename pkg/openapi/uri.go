package openapi

import (
	"regexp"
	"strings"

	"github.com/athenianco/especifico/internal/types"
)

var deepObjectKey = regexp.MustCompile(`\[([^\[\]]*)\]`)

// URIParser resolves raw multi-valued wire parameters into one value per
// parameter: arrays are split by the declared style or collection format,
// scalars keep the last occurrence and deepObject keys are folded into
// nested maps. Undeclared keys keep their raw list of values.
type URIParser struct {
	dialect Dialect
	params  map[Location]map[string]*Parameter
	form    map[string]*Parameter
}

// NewURIParser indexes the parameters of an operation.
func NewURIParser(op *Operation) *URIParser {
	p := &URIParser{
		dialect: op.Dialect,
		params:  make(map[Location]map[string]*Parameter),
		form:    make(map[string]*Parameter),
	}
	for _, param := range op.Parameters {
		if p.params[param.In] == nil {
			p.params[param.In] = make(map[string]*Parameter)
		}
		p.params[param.In][param.Name] = param
	}
	for name, param := range p.params[InFormData] {
		p.form[name] = param
	}

	if op.Dialect == OpenAPI3 {
		// form body properties behave like exploded form parameters
		bodySchema := op.BodySchema()
		if bodySchema.Type() == types.TypeObject {
			for name, prop := range bodySchema.Properties() {
				p.form[name] = &Parameter{Name: name, In: InFormData, Schema: prop}
			}
		}
	}
	return p
}

// ResolveQuery resolves query string values.
func (p *URIParser) ResolveQuery(query map[string][]string) map[string]any {
	if p.dialect != OpenAPI3 {
		return p.resolve(query, p.params[InQuery])
	}

	rest, deep := p.splitDeepObjects(query)
	res := p.resolve(rest, p.params[InQuery])
	for root, obj := range deep {
		res[root] = obj
	}
	return res
}

// ResolvePath resolves path parameter values.
func (p *URIParser) ResolvePath(path map[string]string) map[string]any {
	values := make(map[string][]string, len(path))
	for k, v := range path {
		values[k] = []string{v}
	}
	return p.resolve(values, p.params[InPath])
}

// ResolveForm resolves form fields of urlencoded or multipart bodies.
func (p *URIParser) ResolveForm(form map[string][]string) map[string]any {
	return p.resolve(form, p.form)
}

// SplitHeader splits a serialized header value declared as an array.
func (p *URIParser) SplitHeader(param *Parameter, value string) []string {
	return strings.Split(value, param.Delimiter())
}

func (p *URIParser) resolve(values map[string][]string, defns map[string]*Parameter) map[string]any {
	res := make(map[string]any, len(values))
	for key, vals := range values {
		param, ok := defns[key]
		if !ok {
			res[key] = vals
			continue
		}
		if len(vals) == 0 {
			continue
		}

		switch {
		case param.Type() == types.TypeArray:
			res[key] = p.splitArray(param, vals)
		default:
			res[key] = vals[len(vals)-1]
		}
	}
	return res
}

func (p *URIParser) splitArray(param *Parameter, values []string) []string {
	if p.dialect == Swagger2 {
		if param.CollectionFormat == "multi" {
			return strings.Split(strings.Join(values, ","), ",")
		}
		return strings.Split(values[len(values)-1], param.Delimiter())
	}

	if param.EffectiveStyle() == "form" && param.Exploded() {
		return values
	}
	return strings.Split(values[len(values)-1], param.Delimiter())
}

// splitDeepObjects folds `root[a][b]=v` keys of deepObject parameters into
// nested maps keyed by root. The first value of a key wins.
func (p *URIParser) splitDeepObjects(query map[string][]string) (map[string][]string, map[string]map[string]any) {
	defns := p.params[InQuery]
	var deep map[string]map[string]any

	res := make(map[string][]string, len(query))
	for key, values := range query {
		if _, declared := defns[key]; declared || !strings.Contains(key, "[") {
			res[key] = values
			continue
		}
		root, _, _ := strings.Cut(key, "[")
		param, ok := defns[root]
		if !ok || !param.IsDeepObject() || len(values) == 0 {
			res[key] = values
			continue
		}

		path := deepObjectKey.FindAllStringSubmatch(key, -1)
		node := map[string]any{}
		leaf := node
		for i, m := range path {
			if i == len(path)-1 {
				leaf[m[1]] = values[0]
				break
			}
			next := map[string]any{}
			leaf[m[1]] = next
			leaf = next
		}
		if deep == nil {
			deep = make(map[string]map[string]any)
		}
		if deep[root] == nil {
			deep[root] = make(map[string]any)
		}
		types.DeepMerge(deep[root], node)
	}
	return res, deep
}
