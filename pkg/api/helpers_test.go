package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/athenianco/especifico/pkg/config"
	"github.com/athenianco/especifico/pkg/openapi"
	"github.com/athenianco/especifico/pkg/resolver"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
)

func loadTestDocument(t *testing.T) *openapi.Document {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", "pets.yml"))
	require.NoError(t, err)

	doc, err := openapi.Load(data)
	require.NoError(t, err)
	return doc
}

// newTestRouter mounts every route of the pets document on a chi router.
func newTestRouter(t *testing.T, res resolver.Resolver, cfg *config.Config, mws ...func(http.Handler) http.Handler) chi.Router {
	t.Helper()

	a, err := New(loadTestDocument(t), res, cfg)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(mws...)
	for _, route := range a.Routes() {
		r.Method(route.Method, route.Path, route.Handler)
	}
	return r
}

func serve(router http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
