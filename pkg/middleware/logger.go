// Package middleware holds net/http middleware wrapped around operation handlers.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	chiMw "github.com/go-chi/chi/v5/middleware"
)

// Logger logs every request served for the operation at debug level.
func Logger(operationID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chiMw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			slog.Debug(fmt.Sprintf("Incoming HTTP request: %s", r.URL.String()),
				slog.String("operationId", operationID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.String("duration", time.Since(start).String()),
			)
		})
	}
}
