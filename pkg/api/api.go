// Package api exposes operations of a loaded document as net/http handlers.
// Mounting the routes on a router is up to the caller.
package api

import (
	"fmt"
	"net/http"

	"github.com/athenianco/especifico/pkg/config"
	"github.com/athenianco/especifico/pkg/middleware"
	"github.com/athenianco/especifico/pkg/openapi"
	"github.com/athenianco/especifico/pkg/resolver"
)

// Route is an operation served under Method and Path.
// Path carries the document base path and keeps {name} placeholders.
type Route struct {
	Method      string
	Path        string
	OperationID string
	Handler     http.Handler
}

// API holds the routes of a document.
type API struct {
	doc    *openapi.Document
	routes []Route
}

// New resolves every operation of doc. A resolution failure is returned
// unless res recovers it, as the mock resolver does.
func New(doc *openapi.Document, res resolver.Resolver, cfg *config.Config) (*API, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	a := &API{doc: doc}
	for _, op := range doc.Operations() {
		resolution, err := res.Resolve(op)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", op.Method, op.Path, err)
		}
		a.routes = append(a.routes, Route{
			Method:      op.Method,
			Path:        doc.BasePath + op.Path,
			OperationID: resolution.OperationID,
			Handler:     middleware.Logger(resolution.OperationID)(NewOperationHandler(op, resolution, cfg)),
		})
	}
	return a, nil
}

// Routes returns the routes ordered by path and method.
func (a *API) Routes() []Route {
	return a.routes
}

// NewResolver picks the resolver the config asks for: the mock resolver when
// mocking is enabled, the registry otherwise.
func NewResolver(cfg *config.Config, registry *resolver.Registry) resolver.Resolver {
	if cfg != nil && cfg.Mock.Enabled {
		return resolver.NewMockResolver(cfg.Mock.All, registry)
	}
	return resolver.NewFunctionResolver(registry)
}
