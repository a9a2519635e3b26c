// SPDX-License-Identifier: MIT
package device

import (
	"sort"
	"sync"

	"github.com/nvoronin/golab/internal/metrics"
)

// Registry holds the known devices. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	devices map[string]*Device
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{devices: make(map[string]*Device)}
}

// Add registers a device under its ID, replacing any previous entry.
func (r *Registry) Add(d *Device) {
	r.mu.Lock()
	r.devices[d.ID()] = d
	r.mu.Unlock()
	r.publishCounts()
}

// Get returns the device with the given ID, or nil.
func (r *Registry) Get(id string) *Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.devices[id]
}

// List returns all devices sorted by ID.
func (r *Registry) List() []*Device {
	r.mu.RLock()
	out := make([]*Device, 0, len(r.devices))
	for _, d := range r.devices {
		out = append(out, d)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Transition moves the device with the given ID to the requested state and
// refreshes the per-state gauges. Returns nil, false when the ID is unknown.
func (r *Registry) Transition(id string, to State) (*Device, bool, error) {
	d := r.Get(id)
	if d == nil {
		return nil, false, nil
	}
	err := d.Transition(to)
	if err == nil {
		r.publishCounts()
	}
	return d, true, err
}

func (r *Registry) publishCounts() {
	counts := map[State]int{
		StateOff:   0,
		StateInit:  0,
		StateReady: 0,
		StateBusy:  0,
		StateFault: 0,
	}
	r.mu.RLock()
	for _, d := range r.devices {
		counts[d.State()]++
	}
	r.mu.RUnlock()
	for state, n := range counts {
		metrics.SetDeviceState(string(state), n)
	}
}
