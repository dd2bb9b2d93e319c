package api

import (
	"log/slog"
	"net/http"

	"github.com/athenianco/especifico/internal/types"
	"github.com/athenianco/especifico/pkg/jsonifier"
)

// JSONResponse is a response builder serializing JSON media types with a codec.
// Other media types are written as is.
type JSONResponse struct {
	w           http.ResponseWriter
	codec       jsonifier.Codec
	statusCode  int
	contentType string
	headers     http.Header
}

// NewJSONResponse creates a new JSONResponse instance.
func NewJSONResponse(w http.ResponseWriter, codec jsonifier.Codec) *JSONResponse {
	return &JSONResponse{
		w:           w,
		codec:       codec,
		contentType: "application/json",
		headers:     make(http.Header),
	}
}

// WithHeader sets a header of the response.
func (r *JSONResponse) WithHeader(key string, value string) *JSONResponse {
	r.headers.Set(key, value)
	return r
}

// WithHeaders adds all values of headers.
func (r *JSONResponse) WithHeaders(headers http.Header) *JSONResponse {
	for key, values := range headers {
		for _, value := range values {
			r.headers.Add(key, value)
		}
	}
	return r
}

// WithStatusCode sets the status code of the response.
func (r *JSONResponse) WithStatusCode(code int) *JSONResponse {
	r.statusCode = code
	return r
}

// WithContentType sets the content type used when no Content-Type header is given.
func (r *JSONResponse) WithContentType(contentType string) *JSONResponse {
	if contentType != "" {
		r.contentType = contentType
	}
	return r
}

// Send writes data to the client. A nil data writes no body.
func (r *JSONResponse) Send(data any) {
	statusCode := r.statusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}

	header := r.w.Header()
	for k, v := range r.headers {
		header[k] = v
	}
	if header.Get("Content-Type") == "" {
		header.Set("Content-Type", r.contentType)
	}

	if data == nil {
		r.w.WriteHeader(statusCode)
		return
	}

	payload, err := r.encode(header.Get("Content-Type"), data)
	if err != nil {
		slog.Error("Failed to serialize response", "error", err)
		header.Set("Content-Type", "application/json")
		r.w.WriteHeader(http.StatusInternalServerError)
		_, _ = r.w.Write([]byte(`{"error":"failed to marshal response"}`))
		return
	}

	r.w.WriteHeader(statusCode)
	_, _ = r.w.Write(payload)
}

func (r *JSONResponse) encode(contentType string, data any) ([]byte, error) {
	if types.IsJSONMediaType(contentType) {
		return r.codec.Encode(data)
	}

	switch v := data.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return []byte(types.ToString(v)), nil
	}
}
