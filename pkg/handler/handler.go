// Package handler describes the functions operations are dispatched to: their
// call signature, their keyword arguments and the response they produce.
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
)

// ErrArgumentMismatch is returned when a handler is called with a keyword
// argument its signature does not accept.
var ErrArgumentMismatch = errors.New("argument mismatch")

// Arguments are the keyword arguments a handler is invoked with.
type Arguments map[string]any

// Func is the function behind a Handler.
type Func func(ctx context.Context, args Arguments) (any, error)

// Signature is computed once when a handler is registered and never
// re-derived per request.
// Args are the bound argument names in declaration order.
// AcceptsExtra reports whether the handler takes arbitrary extra keyword arguments.
type Signature struct {
	Args         []string
	AcceptsExtra bool
}

// Has reports whether name is one of the bound argument names.
func (s Signature) Has(name string) bool {
	for _, arg := range s.Args {
		if arg == name {
			return true
		}
	}
	return false
}

// Accepts reports whether name may be passed to the handler.
func (s Signature) Accepts(name string) bool {
	return s.AcceptsExtra || s.Has(name)
}

// Handler is a named function with its signature.
type Handler struct {
	Name      string
	Signature Signature
	fn        Func
}

// New creates a handler bound to exactly the given argument names.
func New(name string, fn Func, args ...string) *Handler {
	return &Handler{
		Name:      name,
		Signature: Signature{Args: args},
		fn:        fn,
	}
}

// NewVariadic creates a handler that accepts the given argument names and
// any other keyword argument.
func NewVariadic(name string, fn Func, args ...string) *Handler {
	return &Handler{
		Name:      name,
		Signature: Signature{Args: args, AcceptsExtra: true},
		fn:        fn,
	}
}

// Call invokes the handler. Arguments outside the signature are a
// programming error and fail with ErrArgumentMismatch before the function runs.
func (h *Handler) Call(ctx context.Context, args Arguments) (any, error) {
	if !h.Signature.AcceptsExtra {
		var unexpected []string
		for name := range args {
			if !h.Signature.Has(name) {
				unexpected = append(unexpected, name)
			}
		}
		if len(unexpected) > 0 {
			sort.Strings(unexpected)
			return nil, &ArgumentMismatchError{Handler: h.Name, Argument: unexpected[0]}
		}
	}
	return h.fn(ctx, args)
}

// ArgumentMismatchError names the first unexpected keyword argument.
type ArgumentMismatchError struct {
	Handler  string
	Argument string
}

func (e *ArgumentMismatchError) Error() string {
	return fmt.Sprintf("%s() got an unexpected keyword argument '%s'", e.Handler, e.Argument)
}

func (e *ArgumentMismatchError) Unwrap() error {
	return ErrArgumentMismatch
}

// Response is a response-shaped handler result.
// A zero StatusCode is written as 200.
type Response struct {
	Body       any
	StatusCode int
	Headers    http.Header
}

// NewResponse creates a response with the given body and status code.
func NewResponse(body any, statusCode int) *Response {
	return &Response{Body: body, StatusCode: statusCode}
}
