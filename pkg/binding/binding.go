// Package binding turns a validated request into handler keyword arguments
// and invokes the handler with them.
package binding

import (
	"context"
	"log/slog"

	"github.com/athenianco/especifico/pkg/handler"
	"github.com/athenianco/especifico/pkg/openapi"
	"github.com/athenianco/especifico/pkg/request"
	"github.com/athenianco/especifico/pkg/sanitize"
)

// Operation is the part of an operation the binder relies on.
type Operation interface {
	ConsumedTypes() []string
	Arguments(in openapi.ArgumentInput) map[string]any
}

// Func is a handler bound to an operation.
type Func func(ctx context.Context, req *request.Request) (any, error)

type options struct {
	idiomatic  bool
	contextArg string
}

// Option configures ParameterToArg.
type Option func(*options)

// WithIdiomaticParams converts argument names to snake_case and suffixes
// names shadowing Go keywords or predeclared identifiers.
func WithIdiomaticParams() Option {
	return func(o *options) {
		o.idiomatic = true
	}
}

// WithContextArg passes the whole request context map as the named argument
// when the handler accepts it.
func WithContextArg(name string) Option {
	return func(o *options) {
		o.contextArg = name
	}
}

// ParameterToArg wraps h so that it is called with the arguments op resolves
// from each request. The body representation is chosen once from the
// consumed media types. Context values the handler does not accept are
// dropped; arguments the handler cannot take fail the call with
// handler.ErrArgumentMismatch.
func ParameterToArg(op Operation, h *handler.Handler, opts ...Option) Func {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	sanitizeFn := sanitize.Plain
	if o.idiomatic {
		sanitizeFn = sanitize.Idiomatic
	}
	kind := openapi.BodyKindFor(op.ConsumedTypes())
	sig := h.Signature

	return func(ctx context.Context, req *request.Request) (any, error) {
		slog.Debug("Function arguments", "handler", h.Name, "args", sig.Args, "extra", sig.AcceptsExtra)

		var body any
		switch kind {
		case openapi.BodyJSON:
			body = req.JSON
		case openapi.BodyForm:
			body = req.Form
		default:
			if len(req.Body) > 0 {
				body = req.Body
			}
		}

		resolved := op.Arguments(openapi.ArgumentInput{
			PathParams: req.PathParams,
			Query:      request.Lists(req.Query),
			Body:       body,
			Files:      req.Files,
			Signature:  sig,
			Sanitize:   sanitizeFn,
		})

		args := make(handler.Arguments, len(resolved))
		for key, value := range resolved {
			if o.idiomatic {
				key = sanitize.Idiomatic(key)
			}
			args[key] = value
		}

		for key, value := range req.Context {
			if !sig.Accepts(key) {
				slog.Debug("Context parameter not in function arguments", "handler", h.Name, "key", key)
				continue
			}
			args[key] = value
		}

		if o.contextArg != "" && sig.Accepts(o.contextArg) {
			args[o.contextArg] = req.Context
		}

		return h.Call(ctx, args)
	}
}
