// SPDX-License-Identifier: MIT
package health

import (
	"bytes"
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/nvoronin/golab/internal/cache"
	"github.com/nvoronin/golab/internal/store/sqlite"
	"github.com/nvoronin/golab/internal/vault"
)

// StoreChecker pings the user database and runs a quick integrity check
// against the database file, so structural corruption flips readiness.
type StoreChecker struct {
	db   *sql.DB
	path string
}

// NewStoreChecker creates a checker for the user store at path.
func NewStoreChecker(db *sql.DB, path string) *StoreChecker {
	return &StoreChecker{db: db, path: path}
}

func (c *StoreChecker) Name() string {
	return "store"
}

func (c *StoreChecker) Check(ctx context.Context) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.db.PingContext(ctx); err != nil {
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  err.Error(),
		}
	}

	issues, err := sqlite.VerifyIntegrity(c.path, "quick")
	if err != nil {
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  err.Error(),
		}
	}
	if len(issues) > 0 {
		return CheckResult{
			Status:  StatusUnhealthy,
			Error:   "integrity check failed",
			Message: strings.Join(issues, "; "),
		}
	}

	return CheckResult{
		Status:  StatusHealthy,
		Message: "database reachable and intact",
	}
}

// CacheChecker performs a set/get round trip against the cache backend.
// A failed round trip degrades the service rather than making it unready:
// the store still serves reads when the cache is down.
type CacheChecker struct {
	cache cache.Cache
}

// NewCacheChecker creates a checker for the cache backend.
func NewCacheChecker(c cache.Cache) *CacheChecker {
	return &CacheChecker{cache: c}
}

func (c *CacheChecker) Name() string {
	return "cache"
}

func (c *CacheChecker) Check(ctx context.Context) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	const key = "health:probe"
	want := []byte("ok")

	c.cache.Set(ctx, key, want, 10*time.Second)
	got, hit := c.cache.Get(ctx, key)
	c.cache.Delete(ctx, key)

	if !hit || !bytes.Equal(got, want) {
		return CheckResult{
			Status:  StatusDegraded,
			Message: "cache round trip failed",
		}
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: "cache round trip ok",
	}
}

// VaultChecker verifies the vault store is reachable and the encryption key
// still authenticates.
type VaultChecker struct {
	vault *vault.Vault
}

// NewVaultChecker creates a checker for the secret vault.
func NewVaultChecker(v *vault.Vault) *VaultChecker {
	return &VaultChecker{vault: v}
}

func (c *VaultChecker) Name() string {
	return "vault"
}

func (c *VaultChecker) Check(_ context.Context) CheckResult {
	if err := c.vault.Verify(); err != nil {
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  err.Error(),
		}
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: "vault accessible",
	}
}
