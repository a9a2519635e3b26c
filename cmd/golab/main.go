// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nvoronin/golab/internal/api"
	"github.com/nvoronin/golab/internal/cache"
	"github.com/nvoronin/golab/internal/config"
	"github.com/nvoronin/golab/internal/device"
	"github.com/nvoronin/golab/internal/echo"
	"github.com/nvoronin/golab/internal/health"
	"github.com/nvoronin/golab/internal/log"
	"github.com/nvoronin/golab/internal/metrics"
	"github.com/nvoronin/golab/internal/store/sqlite"
	"github.com/nvoronin/golab/internal/vault"
	"github.com/nvoronin/golab/internal/worker"
)

var (
	version   = "v0.3.0"
	commit    = "none"
	buildDate = "unknown"
)

// defaultDevices are registered at startup so the device API has something
// to drive out of the box.
var defaultDevices = []string{"dev-0", "dev-1", "dev-2"}

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Safe defaults until config is loaded.
	log.Configure(log.Config{Level: "info", Service: "golab"})
	logger := log.WithComponent("daemon")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("config load failed")
	}
	log.Configure(log.Config{Level: cfg.Log.Level, Service: cfg.Log.Service})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *configPath); err != nil {
		logger.Fatal().Err(err).Msg("daemon exited with error")
	}
	logger.Info().Msg("daemon stopped")
}

func run(ctx context.Context, cfg config.Config, configPath string) error {
	logger := log.WithComponent("daemon")
	logger.Info().
		Str("version", version).
		Str(log.FieldAddr, cfg.Server.Addr).
		Msg("starting")

	repo, err := sqlite.NewRepository(cfg.Store.Path, sqlite.DefaultConfig())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = repo.Close() }()

	c, closeCache, err := newCache(cfg)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer closeCache()

	v, err := vault.Open(cfg.Vault.Path, cfg.Vault.Passphrase)
	if err != nil {
		return fmt.Errorf("open vault: %w", err)
	}
	defer func() { _ = v.Close() }()

	registry := device.NewRegistry()
	for _, id := range defaultDevices {
		registry.Add(device.New(id))
	}

	monitor := metrics.NewMonitor()
	monitor.Watch("cache_misses", 1000)
	monitor.Watch("users_total", 10000)

	pool := worker.NewPool(worker.PoolConfig{Workers: 2, QueueSize: 16})
	defer pool.Stop()

	hm := health.NewManager(version)
	hm.RegisterChecker(health.NewStoreChecker(repo.DB(), cfg.Store.Path))
	hm.RegisterChecker(health.NewCacheChecker(c))
	hm.RegisterChecker(health.NewVaultChecker(v))

	apiServer := api.New(cfg, repo, c, v, registry, monitor, hm)
	tcpEcho := echo.NewTCPServer(echo.TCPConfig{
		Addr:           cfg.Server.EchoTCPAddr,
		ReadsPerSecond: cfg.Server.EchoReadsPerSec,
	})
	udpEcho := echo.NewUDPServer(echo.UDPConfig{Addr: cfg.Server.EchoUDPAddr})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return apiServer.Serve(ctx) })
	g.Go(func() error { return tcpEcho.Serve(ctx) })
	g.Go(func() error { return udpEcho.Serve(ctx) })

	// Alert sampler: feeds the threshold monitor through the worker pool.
	g.Go(func() error {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				err := pool.Submit(func(ctx context.Context) error {
					stats := c.Stats()
					monitor.Observe("cache_misses", float64(stats.Misses))
					n, err := repo.Count(ctx)
					if err != nil {
						return err
					}
					monitor.Observe("users_total", float64(n))
					metrics.SetUsersTotal(n)
					return nil
				})
				if err != nil {
					logger.Warn().Err(err).Msg("sampler job rejected")
				}
			}
		}
	})

	// Config watcher is best-effort: a reload failure keeps the last good
	// config and only the log level is applied at runtime.
	if configPath != "" {
		g.Go(func() error {
			err := config.Watch(ctx, configPath, func(next config.Config) {
				log.Configure(log.Config{Level: next.Log.Level, Service: next.Log.Service})
				logger.Info().Str("level", next.Log.Level).Msg("config reloaded")
			})
			if err != nil {
				logger.Warn().Err(err).Msg("config watcher failed")
			}
			return nil
		})
	}

	err = g.Wait()
	if err != nil && ctx.Err() != nil {
		// Shutdown was requested; listener close errors are expected.
		return nil
	}
	return err
}

// newCache builds the configured cache backend and its cleanup function.
func newCache(cfg config.Config) (cache.Cache, func(), error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		r, err := cache.NewRedis(cache.RedisConfig{
			Addr: cfg.Cache.RedisAddr,
			DB:   cfg.Cache.RedisDB,
		}, log.WithComponent("cache"))
		if err != nil {
			return nil, nil, err
		}
		return r, func() { _ = r.Close() }, nil
	default:
		m := cache.NewMemory(cfg.Cache.TTL)
		return m, m.Stop, nil
	}
}
