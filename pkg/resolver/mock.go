package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/athenianco/especifico/pkg/handler"
	"github.com/athenianco/especifico/pkg/openapi"
)

const noExampleMessage = "No example response was defined."

// MockResolver serves the declared example responses of operations that
// have no handler, or of every operation when mockAll is set.
// Operations without an operation id get a sequential "mock-<n>" id.
type MockResolver struct {
	mockAll  bool
	registry *Registry
	counter  atomic.Int64
}

func NewMockResolver(mockAll bool, registry *Registry) *MockResolver {
	return &MockResolver{mockAll: mockAll, registry: registry}
}

func (m *MockResolver) Resolve(op *openapi.Operation) (*Resolution, error) {
	id := op.ID
	if id == "" {
		id = fmt.Sprintf("mock-%d", m.counter.Add(1))
	}

	mock := MockHandler(op)
	if m.mockAll {
		return &Resolution{Handler: mock, OperationID: id}, nil
	}

	h, err := m.registry.Lookup(id)
	if err != nil {
		reason := err.Error()
		var rerr *ResolutionError
		if errors.As(err, &rerr) {
			reason = rerr.Reason
		}
		slog.Debug("Mock function is used for this operation", "operationId", id, "reason", reason)
		return &Resolution{Handler: mock, OperationID: id}, nil
	}

	slog.Debug("Successfully resolved operationId, mock is not used", "operationId", id)
	return &Resolution{Handler: h, OperationID: id}, nil
}

// MockHandler returns a handler answering with the example response of op.
func MockHandler(op *openapi.Operation) *handler.Handler {
	return handler.NewVariadic("mock", func(context.Context, handler.Arguments) (any, error) {
		body, status := op.ExampleResponse()
		if body == nil {
			body = noExampleMessage
		}
		return handler.NewResponse(body, status), nil
	})
}
