// Package resolver maps operations to the handlers implementing them.
package resolver

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/athenianco/especifico/pkg/handler"
	"github.com/athenianco/especifico/pkg/openapi"
)

var ErrResolution = errors.New("cannot resolve operation")

// Resolution is a resolved handler and the operation id it was found by.
type Resolution struct {
	Handler     *handler.Handler
	OperationID string
}

// Resolver finds the handler of an operation.
type Resolver interface {
	Resolve(op *openapi.Operation) (*Resolution, error)
}

// ResolutionError explains why no handler was found.
type ResolutionError struct {
	OperationID string
	Reason      string
}

func (e *ResolutionError) Error() string {
	return e.Reason
}

func (e *ResolutionError) Unwrap() error {
	return ErrResolution
}

// Registry holds handlers by operation id.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]*handler.Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]*handler.Handler)}
}

// Register adds a handler under an operation id, replacing any previous one.
func (r *Registry) Register(operationID string, h *handler.Handler) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[operationID] = h
	return r
}

// Lookup returns the handler registered under the operation id.
func (r *Registry) Lookup(operationID string) (*handler.Handler, error) {
	if r == nil {
		return nil, &ResolutionError{OperationID: operationID, Reason: "no handlers registered"}
	}
	if operationID == "" {
		return nil, &ResolutionError{Reason: "empty operationId"}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[operationID]
	if !ok {
		return nil, &ResolutionError{
			OperationID: operationID,
			Reason:      fmt.Sprintf("cannot resolve operationId %q", operationID),
		}
	}
	return h, nil
}

// FunctionResolver resolves operations by their declared operation id.
type FunctionResolver struct {
	registry *Registry
}

func NewFunctionResolver(registry *Registry) *FunctionResolver {
	return &FunctionResolver{registry: registry}
}

func (f *FunctionResolver) Resolve(op *openapi.Operation) (*Resolution, error) {
	h, err := f.registry.Lookup(op.ID)
	if err != nil {
		return nil, err
	}
	return &Resolution{Handler: h, OperationID: op.ID}, nil
}

var restyPath = regexp.MustCompile(`^/?([\w\-]*)(/*)(.*)$`)

// RestyResolver derives missing operation ids from the path and method:
// GET /pets is "<prefix>.pets.search", GET /pets/{id} is "<prefix>.pets.get"
// and POST /pets is "<prefix>.pets.post".
type RestyResolver struct {
	prefix         string
	collectionName string
	registry       *Registry
}

func NewRestyResolver(prefix string, registry *Registry) *RestyResolver {
	return &RestyResolver{prefix: prefix, collectionName: "search", registry: registry}
}

// OperationID returns the declared operation id or the derived one.
func (r *RestyResolver) OperationID(op *openapi.Operation) string {
	if op.ID != "" {
		return op.ID
	}

	m := restyPath.FindStringSubmatch(op.Path)
	resource, extended := "", ""
	if m != nil {
		resource, extended = m[1], m[3]
	}

	name := r.prefix
	if resource != "" {
		name += "." + strings.ReplaceAll(resource, "-", "_")
	}

	function := strings.ToLower(op.Method)
	if function == "get" && resource != "" && extended == "" {
		function = r.collectionName
	}
	return name + "." + function
}

func (r *RestyResolver) Resolve(op *openapi.Operation) (*Resolution, error) {
	id := r.OperationID(op)
	h, err := r.registry.Lookup(id)
	if err != nil {
		return nil, err
	}
	slog.Debug("Resolved operation", "path", op.Path, "method", op.Method, "operationId", id)
	return &Resolution{Handler: h, OperationID: id}, nil
}
