// SPDX-License-Identifier: MIT

// Package api provides the HTTP surface of the daemon: user store CRUD,
// device control, alert reporting and the operational endpoints.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/nvoronin/golab/internal/api/middleware"
	"github.com/nvoronin/golab/internal/cache"
	"github.com/nvoronin/golab/internal/config"
	"github.com/nvoronin/golab/internal/device"
	"github.com/nvoronin/golab/internal/health"
	"github.com/nvoronin/golab/internal/log"
	"github.com/nvoronin/golab/internal/metrics"
	"github.com/nvoronin/golab/internal/store"
	"github.com/nvoronin/golab/internal/vault"
)

// Server holds the HTTP handler dependencies.
type Server struct {
	cfg     config.Config
	repo    store.Repository
	cache   cache.Cache
	vault   *vault.Vault
	devices *device.Registry
	monitor *metrics.Monitor
	health  *health.Manager
	logger  zerolog.Logger
}

// New constructs a server. Any nil dependency disables its routes, which
// tests use to exercise handlers in isolation.
func New(cfg config.Config, repo store.Repository, c cache.Cache, v *vault.Vault, devices *device.Registry, monitor *metrics.Monitor, hm *health.Manager) *Server {
	return &Server{
		cfg:     cfg,
		repo:    repo,
		cache:   c,
		vault:   v,
		devices: devices,
		monitor: monitor,
		health:  hm,
		logger:  log.WithComponent("api"),
	}
}

// Router builds the chi router with the canonical middleware stack and all
// registered routes.
func (s *Server) Router() *chi.Mux {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableMetrics: true,
		EnableLogging: true,
		RateLimitRPM:  s.cfg.Server.RateLimitRPM,
	})

	if s.health != nil {
		r.Get("/healthz", s.health.ServeHealth)
		r.Get("/readyz", s.health.ServeReady)
	}
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if s.repo != nil {
			r.Route("/users", func(r chi.Router) {
				r.Get("/", s.handleListUsers)
				r.Post("/", s.handleCreateUser)
				r.Post("/pair", s.handleCreatePair)
				r.Get("/{id}", s.handleGetUser)
				r.Put("/{id}", s.handleUpdateUser)
				r.Delete("/{id}", s.handleDeleteUser)
			})
		}
		if s.devices != nil {
			r.Route("/devices", func(r chi.Router) {
				r.Get("/", s.handleListDevices)
				r.Get("/{id}", s.handleGetDevice)
				r.Post("/{id}/transition", s.handleDeviceTransition)
			})
		}
		if s.vault != nil {
			r.Route("/secrets", func(r chi.Router) {
				r.Put("/{id}", s.handlePutSecret)
				r.Get("/{id}", s.handleGetSecret)
				r.Delete("/{id}", s.handleDeleteSecret)
			})
		}
		if s.monitor != nil {
			r.Get("/alerts", s.handleAlerts)
		}
		if s.cache != nil {
			r.Get("/cache/stats", s.handleCacheStats)
		}
	})

	return r
}

// Serve runs the HTTP server until ctx is cancelled, then drains it within
// the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str(log.FieldAddr, srv.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn().Err(err).Msg("http shutdown incomplete, closing")
		_ = srv.Close()
		return err
	}
	s.logger.Info().Msg("http server stopped")
	return nil
}
