// SPDX-License-Identifier: MIT
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store metrics
	usersTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "golab_users_total",
		Help: "Number of user rows in the store",
	})

	storeOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "golab_store_operations_total",
		Help: "Store operations by kind and outcome",
	}, []string{"op", "outcome"}) // op=create|get|update|delete|list|pair outcome=success|failure

	// Cache metrics
	cacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "golab_cache_hits_total",
		Help: "Cache hits by backend",
	}, []string{"backend"})

	cacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "golab_cache_misses_total",
		Help: "Cache misses by backend",
	}, []string{"backend"})

	// Echo server metrics
	echoConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "golab_echo_connections",
		Help: "Currently open TCP echo connections",
	})

	echoBytesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "golab_echo_bytes_total",
		Help: "Bytes echoed by protocol",
	}, []string{"proto"}) // proto=tcp|udp

	// Worker pool metrics
	poolJobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "golab_pool_jobs_total",
		Help: "Worker pool jobs by outcome",
	}, []string{"outcome"}) // outcome=processed|failed|rejected

	// Device metrics
	deviceStates = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "golab_device_states",
		Help: "Devices per state",
	}, []string{"state"})

	// Vault metrics
	vaultOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "golab_vault_operations_total",
		Help: "Vault operations by kind and outcome",
	}, []string{"op", "outcome"}) // op=put|get|delete
)

// SetUsersTotal records the current user row count.
func SetUsersTotal(n int) {
	usersTotal.Set(float64(n))
}

// StoreOp records a store operation outcome.
func StoreOp(op string, err error) {
	storeOpsTotal.WithLabelValues(op, outcome(err)).Inc()
}

// CacheHit records a cache hit for the given backend.
func CacheHit(backend string) {
	cacheHitsTotal.WithLabelValues(backend).Inc()
}

// CacheMiss records a cache miss for the given backend.
func CacheMiss(backend string) {
	cacheMissesTotal.WithLabelValues(backend).Inc()
}

// EchoConnOpened increments the open TCP connection gauge.
func EchoConnOpened() { echoConnections.Inc() }

// EchoConnClosed decrements the open TCP connection gauge.
func EchoConnClosed() { echoConnections.Dec() }

// EchoBytes adds echoed bytes for the given protocol ("tcp" or "udp").
func EchoBytes(proto string, n int) {
	echoBytesTotal.WithLabelValues(proto).Add(float64(n))
}

// PoolJob records a worker pool job outcome ("processed", "failed", "rejected").
func PoolJob(result string) {
	poolJobsTotal.WithLabelValues(result).Inc()
}

// SetDeviceState records how many devices are in the given state.
func SetDeviceState(state string, n int) {
	deviceStates.WithLabelValues(state).Set(float64(n))
}

// VaultOp records a vault operation outcome.
func VaultOp(op string, err error) {
	vaultOpsTotal.WithLabelValues(op, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
