package request

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/athenianco/especifico/pkg/jsonifier"
	"github.com/go-chi/chi/v5"
	assert2 "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValues(t *testing.T) {
	assert := assert2.New(t)

	q := QueryValues(url.Values{"a": {"1", "2"}, "b": {"3"}, "c": {}})
	assert.Equal(map[string]string{"a": "1", "b": "3"}, q.Items())
	assert.Equal(map[string][]string{"a": {"1", "2"}, "b": {"3"}, "c": {}}, Lists(q))

	flat := FlatValues{"a": "1"}
	assert.Equal(map[string]string{"a": "1"}, flat.Items())
	assert.Equal(map[string][]string{"a": {"1"}}, Lists(flat))
	assert.Equal(map[string][]string{}, Lists(nil))
}

func TestFromHTTP(t *testing.T) {
	assert := assert2.New(t)
	codec := jsonifier.New()

	t.Run("json body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/pets?limit=5&tag=a&tag=b", strings.NewReader(`{"name":"Rex"}`))
		r.Header.Set("Content-Type", "application/json; charset=utf-8")
		r.AddCookie(&http.Cookie{Name: "session", Value: "abc"})

		req, err := FromHTTP(r, codec)
		require.NoError(t, err)
		assert.Equal("POST", req.Method)
		assert.Equal("/pets", req.Path)
		assert.Equal("application/json", req.ContentType)
		assert.Equal(map[string]any{"name": "Rex"}, req.JSON)
		assert.Equal([]byte(`{"name":"Rex"}`), req.Body)
		assert.Equal([]string{"a", "b"}, Lists(req.Query)["tag"])
		assert.Equal("abc", req.Cookies["session"])
	})

	t.Run("invalid json body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/pets", strings.NewReader(`{"name":`))
		r.Header.Set("Content-Type", "application/json")

		_, err := FromHTTP(r, codec)
		assert.True(errors.Is(err, ErrInvalidBody))
	})

	t.Run("untyped body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/pets", strings.NewReader(`plain`))

		req, err := FromHTTP(r, codec)
		require.NoError(t, err)
		assert.Nil(req.JSON)
		assert.Equal([]byte("plain"), req.Body)
	})

	t.Run("urlencoded form", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/pets", strings.NewReader("name=Rex&tag=a&tag=b"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		req, err := FromHTTP(r, codec)
		require.NoError(t, err)
		assert.Equal(map[string][]string{"name": {"Rex"}, "tag": {"a", "b"}}, req.Form)
	})

	t.Run("multipart form", func(t *testing.T) {
		body := &bytes.Buffer{}
		mw := multipart.NewWriter(body)
		require.NoError(t, mw.WriteField("caption", "hi"))
		fw, err := mw.CreateFormFile("photo", "rex.png")
		require.NoError(t, err)
		_, _ = fw.Write([]byte("png"))
		require.NoError(t, mw.Close())

		r := httptest.NewRequest(http.MethodPost, "/pets/1/photos", body)
		r.Header.Set("Content-Type", mw.FormDataContentType())

		req, err := FromHTTP(r, codec)
		require.NoError(t, err)
		assert.Equal([]string{"hi"}, req.Form["caption"])
		require.Len(t, req.Files["photo"], 1)
		assert.Equal("rex.png", req.Files["photo"][0].Filename)
	})

	t.Run("path parameters and context", func(t *testing.T) {
		var got *Request
		router := chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(WithValue(r.Context(), "user", "alice")))
			})
		})
		router.Get("/pets/{petId}", func(w http.ResponseWriter, r *http.Request) {
			req, err := FromHTTP(r, codec)
			require.NoError(t, err)
			got = req
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/pets/42", nil))
		require.NotNil(t, got)
		assert.Equal(map[string]string{"petId": "42"}, got.PathParams)
		assert.Equal(map[string]any{"user": "alice"}, got.Context)
	})
}

func TestContextValues(t *testing.T) {
	assert := assert2.New(t)

	ctx := WithValue(context.Background(), "a", 1)
	child := WithValue(ctx, "b", 2)

	assert.Equal(map[string]any{"a": 1}, ContextValues(ctx))
	assert.Equal(map[string]any{"a": 1, "b": 2}, ContextValues(child))

	values := ContextValues(child)
	values["c"] = 3
	assert.NotContains(ContextValues(child), "c")
	assert.Empty(ContextValues(context.Background()))
}
