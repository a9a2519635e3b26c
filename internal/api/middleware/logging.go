// SPDX-License-Identifier: MIT
package middleware

import (
	"net/http"
	"time"

	"github.com/nvoronin/golab/internal/log"
)

// Logging returns a middleware that logs one line per request with method,
// path, status, size and latency.
func Logging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(sw, r)

			logger := log.WithComponentFromContext(r.Context(), "http")
			logger.Info().
				Str(log.FieldEvent, "http.request").
				Str("method", r.Method).
				Str(log.FieldPath, r.URL.Path).
				Str(log.FieldRemoteAddr, r.RemoteAddr).
				Int("status", sw.statusCode).
				Int64("bytes", sw.written).
				Dur("duration", time.Since(start)).
				Msg("request handled")
		})
	}
}
