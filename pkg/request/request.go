// Package request holds the framework-neutral view of an incoming request
// that validators and the argument binder work on.
package request

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/athenianco/especifico/internal/types"
	"github.com/athenianco/especifico/pkg/jsonifier"
	"github.com/go-chi/chi/v5"
)

const maxMultipartMemory = 32 << 20

var ErrInvalidBody = errors.New("invalid request body")

// Values is a flat view of request values.
type Values interface {
	Items() map[string]string
}

// MultiValues also exposes every occurrence of each key.
type MultiValues interface {
	Values
	Lists() map[string][]string
}

// QueryValues adapts url.Values; the flat view keeps the first occurrence.
type QueryValues url.Values

func (q QueryValues) Items() map[string]string {
	res := make(map[string]string, len(q))
	for k, v := range q {
		if len(v) > 0 {
			res[k] = v[0]
		}
	}
	return res
}

func (q QueryValues) Lists() map[string][]string {
	return q
}

// FlatValues holds exactly one value per key.
type FlatValues map[string]string

func (f FlatValues) Items() map[string]string {
	return f
}

// Lists exports values as multi-valued when the source supports it and falls
// back to one-element lists otherwise.
func Lists(v Values) map[string][]string {
	if v == nil {
		return map[string][]string{}
	}
	if multi, ok := v.(MultiValues); ok {
		return multi.Lists()
	}
	items := v.Items()
	res := make(map[string][]string, len(items))
	for k, item := range items {
		res[k] = []string{item}
	}
	return res
}

// Request is an incoming request.
// JSON is set for JSON bodies; Form and Files for form bodies.
// Context carries per-request values handlers may ask for by name.
type Request struct {
	Method      string
	Path        string
	PathParams  map[string]string
	Query       Values
	Headers     http.Header
	Cookies     map[string]string
	ContentType string
	Body        []byte
	JSON        any
	Form        map[string][]string
	Files       map[string][]*multipart.FileHeader
	Context     map[string]any
}

// FromHTTP reads an http.Request. Path parameters come from the chi route
// context; the body is decoded according to its content type.
func FromHTTP(r *http.Request, codec jsonifier.Codec) (*Request, error) {
	req := &Request{
		Method:     r.Method,
		Path:       r.URL.Path,
		PathParams: pathParams(r),
		Query:      QueryValues(r.URL.Query()),
		Headers:    r.Header,
		Cookies:    make(map[string]string),
		Context:    ContextValues(r.Context()),
	}
	for _, c := range r.Cookies() {
		req.Cookies[c.Name] = c.Value
	}

	if r.Body == nil {
		return req, nil
	}

	contentType := r.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(contentType)
	req.ContentType = mediaType

	if types.IsFormMediaType(mediaType) {
		if err := readForm(r, req); err != nil {
			return nil, err
		}
		return req, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	req.Body = body

	if (mediaType == "" && len(body) > 0) || types.IsJSONMediaType(mediaType) {
		decoded, err := codec.Decode(body)
		if err != nil {
			if mediaType == "" {
				return req, nil
			}
			return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
		req.JSON = decoded
	}
	return req, nil
}

func readForm(r *http.Request, req *Request) error {
	if types.BaseMediaType(req.ContentType) == types.ContentTypeMultipart {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
		req.Form = r.MultipartForm.Value
		req.Files = r.MultipartForm.File
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	req.Form = r.PostForm
	return nil
}

func pathParams(r *http.Request) map[string]string {
	res := make(map[string]string)
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return res
	}
	for i, key := range rctx.URLParams.Keys {
		if key == "*" || i >= len(rctx.URLParams.Values) {
			continue
		}
		res[key] = rctx.URLParams.Values[i]
	}
	return res
}

type contextKey struct{}

// WithValue returns a context whose request context map holds key.
func WithValue(ctx context.Context, key string, value any) context.Context {
	current := ContextValues(ctx)
	next := make(map[string]any, len(current)+1)
	for k, v := range current {
		next[k] = v
	}
	next[key] = value
	return context.WithValue(ctx, contextKey{}, next)
}

// ContextValues returns a copy of the request context map.
func ContextValues(ctx context.Context) map[string]any {
	values, _ := ctx.Value(contextKey{}).(map[string]any)
	res := make(map[string]any, len(values))
	for k, v := range values {
		res[k] = v
	}
	return res
}
