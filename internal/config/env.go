package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variable names. ENV wins over file and defaults.
const (
	EnvAddr            = "GOLAB_ADDR"
	EnvEchoTCPAddr     = "GOLAB_ECHO_TCP_ADDR"
	EnvEchoUDPAddr     = "GOLAB_ECHO_UDP_ADDR"
	EnvShutdownTimeout = "GOLAB_SHUTDOWN_TIMEOUT"
	EnvRateLimitRPM    = "GOLAB_RATE_LIMIT_RPM"
	EnvEchoReadsPerSec = "GOLAB_ECHO_READS_PER_SECOND"
	EnvStorePath       = "GOLAB_STORE_PATH"
	EnvCacheBackend    = "GOLAB_CACHE_BACKEND"
	EnvRedisAddr       = "GOLAB_REDIS_ADDR"
	EnvRedisDB         = "GOLAB_REDIS_DB"
	EnvCacheTTL        = "GOLAB_CACHE_TTL"
	EnvVaultPath       = "GOLAB_VAULT_PATH"
	EnvVaultPassphrase = "GOLAB_VAULT_PASSPHRASE"
	EnvLogLevel        = "GOLAB_LOG_LEVEL"
	EnvLogService      = "GOLAB_LOG_SERVICE"
)

// mergeEnv overlays GOLAB_* environment variables onto cfg. Malformed values
// are errors rather than silent fallbacks.
func mergeEnv(cfg *Config) error {
	setString(&cfg.Server.Addr, EnvAddr)
	setString(&cfg.Server.EchoTCPAddr, EnvEchoTCPAddr)
	setString(&cfg.Server.EchoUDPAddr, EnvEchoUDPAddr)
	setString(&cfg.Store.Path, EnvStorePath)
	setString(&cfg.Cache.Backend, EnvCacheBackend)
	setString(&cfg.Cache.RedisAddr, EnvRedisAddr)
	setString(&cfg.Vault.Path, EnvVaultPath)
	setString(&cfg.Vault.Passphrase, EnvVaultPassphrase)
	setString(&cfg.Log.Level, EnvLogLevel)
	setString(&cfg.Log.Service, EnvLogService)

	if err := setInt(&cfg.Server.RateLimitRPM, EnvRateLimitRPM); err != nil {
		return err
	}
	if err := setInt(&cfg.Cache.RedisDB, EnvRedisDB); err != nil {
		return err
	}
	if err := setFloat(&cfg.Server.EchoReadsPerSec, EnvEchoReadsPerSec); err != nil {
		return err
	}
	if err := setDuration(&cfg.Server.ShutdownTimeout, EnvShutdownTimeout); err != nil {
		return err
	}
	if err := setDuration(&cfg.Cache.TTL, EnvCacheTTL); err != nil {
		return err
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: invalid integer %q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: invalid number %q: %w", key, v, err)
	}
	*dst = f
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q: %w", key, v, err)
	}
	*dst = d
	return nil
}
