// SPDX-License-Identifier: MIT

// Package config loads and validates the golab daemon configuration.
// Precedence: environment > config file > defaults.
package config

import (
	"fmt"
	"net"
	"time"
)

// Config is the root configuration for the daemon.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Cache  CacheConfig  `yaml:"cache"`
	Vault  VaultConfig  `yaml:"vault"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig holds listener addresses and HTTP behaviour.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	EchoTCPAddr     string        `yaml:"echo_tcp_addr"`
	EchoUDPAddr     string        `yaml:"echo_udp_addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RateLimitRPM    int           `yaml:"rate_limit_rpm"`

	// EchoReadsPerSec throttles reads per TCP echo connection. Zero
	// disables the limiter.
	EchoReadsPerSec float64 `yaml:"echo_reads_per_second"`
}

// StoreConfig holds the SQLite store location.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig selects and tunes the cache backend.
type CacheConfig struct {
	Backend   string        `yaml:"backend"` // "memory" or "redis"
	RedisAddr string        `yaml:"redis_addr"`
	RedisDB   int           `yaml:"redis_db"`
	TTL       time.Duration `yaml:"ttl"`
}

// VaultConfig holds the encrypted blob store settings.
type VaultConfig struct {
	Path       string `yaml:"path"`
	Passphrase string `yaml:"passphrase"`
}

// LogConfig tunes structured logging.
type LogConfig struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// Cache backend names accepted by Validate.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Defaults returns the baseline configuration before file and env overrides.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			EchoTCPAddr:     ":7070",
			EchoUDPAddr:     ":7071",
			ShutdownTimeout: 10 * time.Second,
			RateLimitRPM:    120,
		},
		Store: StoreConfig{
			Path: "golab.sqlite",
		},
		Cache: CacheConfig{
			Backend: CacheBackendMemory,
			TTL:     5 * time.Minute,
		},
		Vault: VaultConfig{
			Path: "vault",
		},
		Log: LogConfig{
			Level:   "info",
			Service: "golab",
		},
	}
}

// Load composes defaults, file and environment into a validated Config.
// An empty path skips the file layer; a missing explicit file is an error.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks structural invariants of the configuration.
func (c Config) Validate() error {
	for name, addr := range map[string]string{
		"server.addr":          c.Server.Addr,
		"server.echo_tcp_addr": c.Server.EchoTCPAddr,
		"server.echo_udp_addr": c.Server.EchoUDPAddr,
	} {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return fmt.Errorf("%s: invalid listen address %q: %w", name, addr, err)
		}
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive (got %s)", c.Server.ShutdownTimeout)
	}
	if c.Server.RateLimitRPM <= 0 {
		return fmt.Errorf("server.rate_limit_rpm must be positive (got %d)", c.Server.RateLimitRPM)
	}
	if c.Server.EchoReadsPerSec < 0 {
		return fmt.Errorf("server.echo_reads_per_second must not be negative (got %g)", c.Server.EchoReadsPerSec)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	switch c.Cache.Backend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache.redis_addr required for redis backend")
		}
	default:
		return fmt.Errorf("cache.backend must be %q or %q (got %q)",
			CacheBackendMemory, CacheBackendRedis, c.Cache.Backend)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive (got %s)", c.Cache.TTL)
	}
	if c.Vault.Path == "" {
		return fmt.Errorf("vault.path must not be empty")
	}
	return nil
}
