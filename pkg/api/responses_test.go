package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/athenianco/especifico/pkg/jsonifier"
	assert2 "github.com/stretchr/testify/assert"
)

func TestJSONResponse_Send(t *testing.T) {
	assert := assert2.New(t)
	codec := jsonifier.New()

	t.Run("json defaults to 200", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewJSONResponse(w, codec).Send(map[string]any{"name": "Rex"})

		assert.Equal(http.StatusOK, w.Code)
		assert.Equal("application/json", w.Header().Get("Content-Type"))
		assert.Equal("{\"name\":\"Rex\"}\n", w.Body.String())
	})

	t.Run("nil writes no body", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewJSONResponse(w, codec).WithStatusCode(http.StatusNoContent).Send(nil)

		assert.Equal(http.StatusNoContent, w.Code)
		assert.Empty(w.Body.String())
	})

	t.Run("text is written as is", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewJSONResponse(w, codec).WithContentType("text/plain").Send("hello")

		assert.Equal("text/plain", w.Header().Get("Content-Type"))
		assert.Equal("hello", w.Body.String())
	})

	t.Run("bytes are written as is", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewJSONResponse(w, codec).WithContentType("application/octet-stream").Send([]byte{1, 2})

		assert.Equal([]byte{1, 2}, w.Body.Bytes())
	})

	t.Run("scalars are stringified", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewJSONResponse(w, codec).WithContentType("text/plain").Send(42)

		assert.Equal("42", w.Body.String())
	})

	t.Run("content type header wins", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewJSONResponse(w, codec).
			WithContentType("application/json").
			WithHeader("Content-Type", "text/csv").
			Send("a,b")

		assert.Equal("text/csv", w.Header().Get("Content-Type"))
		assert.Equal("a,b", w.Body.String())
	})

	t.Run("headers", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewJSONResponse(w, codec).
			WithHeader("X-Custom", "old").
			WithHeader("X-Custom", "new").
			WithHeaders(http.Header{"X-Multi": []string{"a", "b"}}).
			Send(true)

		assert.Equal("new", w.Header().Get("X-Custom"))
		assert.Equal([]string{"a", "b"}, w.Header().Values("X-Multi"))
		assert.Equal("true\n", w.Body.String())
	})

	t.Run("unserializable", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewJSONResponse(w, codec).Send(make(chan int))

		assert.Equal(http.StatusInternalServerError, w.Code)
		assert.Contains(w.Body.String(), "failed to marshal response")
	})
}
