package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Defaults(), cfg); diff != "" {
		t.Errorf("Load(\"\") differs from Defaults() (-want +got):\n%s", diff)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "golab.yaml")
	body := []byte(`
server:
  addr: ":9090"
  rate_limit_rpm: 30
cache:
  backend: redis
  redis_addr: "localhost:6379"
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Server.RateLimitRPM != 30 {
		t.Errorf("RateLimitRPM = %d, want 30", cfg.Server.RateLimitRPM)
	}
	if cfg.Cache.Backend != CacheBackendRedis {
		t.Errorf("Backend = %q, want redis", cfg.Cache.Backend)
	}
	// Untouched sections keep their defaults.
	if cfg.Server.EchoTCPAddr != Defaults().Server.EchoTCPAddr {
		t.Errorf("EchoTCPAddr = %q, want default", cfg.Server.EchoTCPAddr)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "golab.yaml")
	if err := os.WriteFile(path, []byte("servr:\n  addr: ':1'\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown top-level key")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "golab.yaml")
	if err := os.WriteFile(path, []byte("server:\n  addr: ':9090'\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAddr, ":9191")
	t.Setenv(EnvCacheTTL, "90s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9191" {
		t.Errorf("Addr = %q, want env value :9191", cfg.Server.Addr)
	}
	if cfg.Cache.TTL != 90*time.Second {
		t.Errorf("TTL = %s, want 90s", cfg.Cache.TTL)
	}
}

func TestEnvEchoReadsPerSecond(t *testing.T) {
	t.Setenv(EnvEchoReadsPerSec, "2.5")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.EchoReadsPerSec != 2.5 {
		t.Errorf("EchoReadsPerSec = %g, want 2.5", cfg.Server.EchoReadsPerSec)
	}

	t.Setenv(EnvEchoReadsPerSec, "fast")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for malformed GOLAB_ECHO_READS_PER_SECOND")
	}
}

func TestEnvMalformedIntegerIsError(t *testing.T) {
	t.Setenv(EnvRateLimitRPM, "not-a-number")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for malformed GOLAB_RATE_LIMIT_RPM")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults pass", func(c *Config) {}, false},
		{"bad addr", func(c *Config) { c.Server.Addr = "no-port" }, true},
		{"zero shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }, true},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "memcached" }, true},
		{"redis without addr", func(c *Config) { c.Cache.Backend = CacheBackendRedis }, true},
		{"empty store path", func(c *Config) { c.Store.Path = "" }, true},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }, true},
		{"negative echo read rate", func(c *Config) { c.Server.EchoReadsPerSec = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingExplicitFileIsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
