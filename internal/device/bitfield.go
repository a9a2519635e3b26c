// SPDX-License-Identifier: MIT

// Package device simulates a small fleet of stateful devices: a 32-bit
// control register, a state machine with legal transitions, and a registry
// the API serves.
package device

import "sync/atomic"

// BitField is a 32-bit register with atomic bit operations.
type BitField struct {
	bits atomic.Uint32
}

// Set turns on bit pos (0-31). Out-of-range positions are ignored.
func (b *BitField) Set(pos uint) {
	if pos > 31 {
		return
	}
	for {
		old := b.bits.Load()
		if b.bits.CompareAndSwap(old, old|(1<<pos)) {
			return
		}
	}
}

// Clear turns off bit pos (0-31). Out-of-range positions are ignored.
func (b *BitField) Clear(pos uint) {
	if pos > 31 {
		return
	}
	for {
		old := b.bits.Load()
		if b.bits.CompareAndSwap(old, old&^(1<<pos)) {
			return
		}
	}
}

// Test reports whether bit pos is set.
func (b *BitField) Test(pos uint) bool {
	if pos > 31 {
		return false
	}
	return b.bits.Load()&(1<<pos) != 0
}

// Value returns the whole register.
func (b *BitField) Value() uint32 {
	return b.bits.Load()
}
