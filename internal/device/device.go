// SPDX-License-Identifier: MIT
package device

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nvoronin/golab/internal/log"
)

// State is one of the device lifecycle states.
type State string

const (
	StateOff   State = "off"
	StateInit  State = "init"
	StateReady State = "ready"
	StateBusy  State = "busy"
	StateFault State = "fault"
)

// ErrInvalidTransition is returned when a requested state change is not
// allowed by the lifecycle.
type ErrInvalidTransition struct {
	From State
	To   State
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("device: invalid transition %s -> %s", e.From, e.To)
}

// transitions holds the legal state changes. Fault is reachable from every
// state and is handled separately in Transition.
var transitions = map[State][]State{
	StateOff:   {StateInit},
	StateInit:  {StateReady},
	StateReady: {StateBusy},
	StateBusy:  {StateReady},
	StateFault: {StateOff},
}

func legal(from, to State) bool {
	if to == StateFault {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidState reports whether s names a known lifecycle state.
func ValidState(s State) bool {
	switch s {
	case StateOff, StateInit, StateReady, StateBusy, StateFault:
		return true
	}
	return false
}

// Device is one simulated device. All methods are safe for concurrent use.
type Device struct {
	mu     sync.Mutex
	id     string
	state  State
	status BitField
	logger zerolog.Logger
}

// New returns a device in the Off state.
func New(id string) *Device {
	return &Device{
		id:     id,
		state:  StateOff,
		logger: log.WithComponent("device").With().Str(log.FieldDeviceID, id).Logger(),
	}
}

// ID returns the device identifier.
func (d *Device) ID() string { return d.id }

// State returns the current lifecycle state.
func (d *Device) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Status exposes the device's control register.
func (d *Device) Status() *BitField { return &d.status }

// Transition moves the device to the given state. Any state may move to
// Fault; all other changes must follow the lifecycle, otherwise
// *ErrInvalidTransition is returned and the state is unchanged.
func (d *Device) Transition(to State) error {
	if !ValidState(to) {
		return &ErrInvalidTransition{From: d.State(), To: to}
	}

	d.mu.Lock()
	from := d.state
	if !legal(from, to) {
		d.mu.Unlock()
		return &ErrInvalidTransition{From: from, To: to}
	}
	d.state = to
	d.mu.Unlock()

	d.logger.Info().
		Str(log.FieldOldState, string(from)).
		Str(log.FieldNewState, string(to)).
		Msg("device state changed")
	return nil
}
