package api

import (
	"log/slog"
	"net/http"

	"github.com/athenianco/especifico/internal/types"
	"github.com/athenianco/especifico/pkg/binding"
	"github.com/athenianco/especifico/pkg/config"
	"github.com/athenianco/especifico/pkg/handler"
	"github.com/athenianco/especifico/pkg/jsonifier"
	"github.com/athenianco/especifico/pkg/openapi"
	"github.com/athenianco/especifico/pkg/request"
	"github.com/athenianco/especifico/pkg/resolver"
	"github.com/athenianco/especifico/pkg/validation"
	chiMw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// OperationHandler serves a single operation: it validates the request,
// invokes the resolved handler with the bound arguments and writes its result.
type OperationHandler struct {
	op          *openapi.Operation
	operationID string
	call        binding.Func
	params      *validation.ParameterValidator
	body        *validation.BodyValidator
	response    *validation.ResponseValidator
	codec       jsonifier.Codec
}

// NewOperationHandler creates the handler of op. A nil cfg uses the defaults.
func NewOperationHandler(op *openapi.Operation, res *resolver.Resolution, cfg *config.Config) *OperationHandler {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	var opts []binding.Option
	if cfg.IdiomaticParams {
		opts = append(opts, binding.WithIdiomaticParams())
	}
	if cfg.PassContextArgName != "" {
		opts = append(opts, binding.WithContextArg(cfg.PassContextArgName))
	}

	h := &OperationHandler{
		op:          op,
		operationID: res.OperationID,
		call:        binding.ParameterToArg(op, res.Handler, opts...),
		params:      validation.NewParameterValidator(op, cfg.StrictValidation),
		body:        validation.NewBodyValidator(op, cfg.StrictValidation),
		codec:       jsonifier.New(),
	}
	if cfg.ValidateResponses {
		h.response = validation.NewResponseValidator(op)
	}
	return h
}

func (h *OperationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := request.FromHTTP(r, h.codec)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.params.ValidateRequest(req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.body.Validate(req); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.call(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	body, status, headers := unpackResult(result)
	mediaType := types.BaseMediaType(headers.Get("Content-Type"))
	if mediaType == "" {
		mediaType = h.op.Mimetype()
	}

	if h.response != nil {
		if err := h.response.Validate(status, mediaType, body); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	NewJSONResponse(w, h.codec).
		WithContentType(mediaType).
		WithHeaders(headers).
		WithStatusCode(status).
		Send(body)
}

func (h *OperationHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	p := ProblemFromError(err)
	p.Instance = requestID(r)

	if p.Status >= http.StatusInternalServerError {
		slog.Error("Operation failed", "operationId", h.operationID, "instance", p.Instance, "error", err)
	} else {
		slog.Debug("Invalid request", "operationId", h.operationID, "instance", p.Instance, "error", err)
	}
	p.Send(w, h.codec)
}

func unpackResult(result any) (any, int, http.Header) {
	resp, ok := result.(*handler.Response)
	if !ok {
		return result, http.StatusOK, make(http.Header)
	}
	if resp == nil {
		return nil, http.StatusOK, make(http.Header)
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	headers := resp.Headers
	if headers == nil {
		headers = make(http.Header)
	}
	return resp.Body, status, headers
}

// requestID prefers the id assigned by the chi RequestID middleware.
func requestID(r *http.Request) string {
	if id := chiMw.GetReqID(r.Context()); id != "" {
		return id
	}
	return uuid.NewString()
}
