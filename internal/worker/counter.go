// SPDX-License-Identifier: MIT

// Package worker provides the concurrency building blocks used by the
// daemon: an atomic counter, a bounded worker pool and small helpers for
// parallel execution with deadlines.
package worker

import "sync/atomic"

// Counter is a lock-free monotonic counter safe for concurrent use.
type Counter struct {
	value atomic.Int64
}

// Inc increments the counter by one.
func (c *Counter) Inc() {
	c.value.Add(1)
}

// Add increments the counter by delta.
func (c *Counter) Add(delta int64) {
	c.value.Add(delta)
}

// Value returns the current counter value.
func (c *Counter) Value() int64 {
	return c.value.Load()
}
