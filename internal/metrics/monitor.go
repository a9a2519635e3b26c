package metrics

import (
	"sync"

	"github.com/nvoronin/golab/internal/log"
)

// Alert describes a threshold that was exceeded at Check time.
type Alert struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
}

// Monitor tracks named observations against configured thresholds. It is the
// poll-driven counterpart to the Prometheus metrics: Check compares the most
// recent value of each watched series and returns those above threshold.
type Monitor struct {
	mu         sync.RWMutex
	values     map[string]float64
	thresholds map[string]float64
}

// NewMonitor returns an empty Monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		values:     make(map[string]float64),
		thresholds: make(map[string]float64),
	}
}

// Observe records the latest value for name.
func (m *Monitor) Observe(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[name] = value
}

// Watch registers (or replaces) an alert threshold for name.
func (m *Monitor) Watch(name string, threshold float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.thresholds[name] = threshold
}

// Check returns an Alert for every watched series whose latest observation
// exceeds its threshold. Series with no observation yet are skipped.
func (m *Monitor) Check() []Alert {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var triggered []Alert
	logger := log.WithComponent("monitor")
	for name, threshold := range m.thresholds {
		value, seen := m.values[name]
		if !seen || value <= threshold {
			continue
		}
		triggered = append(triggered, Alert{Name: name, Value: value, Threshold: threshold})
		logger.Warn().
			Str("metric", name).
			Float64("value", value).
			Float64("threshold", threshold).
			Msg("alert threshold exceeded")
	}
	return triggered
}
