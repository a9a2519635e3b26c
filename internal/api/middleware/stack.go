// SPDX-License-Identifier: MIT

// Package middleware holds the canonical HTTP ingress middleware stack so
// cross-cutting concerns cannot drift between routers.
package middleware

import (
	"github.com/go-chi/chi/v5"
)

// StackConfig configures the canonical HTTP ingress middleware stack.
type StackConfig struct {
	// Observability
	EnableMetrics bool
	EnableLogging bool

	// Rate limiting: requests per minute per client IP. Zero disables it.
	RateLimitRPM int
}

// NewRouter constructs a chi router with the canonical middleware stack applied.
func NewRouter(cfg StackConfig) *chi.Mux {
	r := chi.NewRouter()
	ApplyStack(r, cfg)
	return r
}

// ApplyStack applies the canonical middleware stack to r.
func ApplyStack(r chi.Router, cfg StackConfig) {
	// 1. Recoverer (outermost safety net)
	r.Use(Recoverer)
	// 2. RequestID (correlation early)
	r.Use(RequestID)
	// 3. Metrics (track all requests)
	if cfg.EnableMetrics {
		r.Use(Metrics())
	}
	// 4. Logging (wraps handlers, captures full latency)
	if cfg.EnableLogging {
		r.Use(Logging())
	}
	// 5. Rate limit (global protection)
	if cfg.RateLimitRPM > 0 {
		r.Use(RateLimit(RateLimitConfig{RequestLimit: cfg.RateLimitRPM}))
	}
}
