// SPDX-License-Identifier: MIT
package device

import "time"

// Interval fires once a fixed duration has elapsed since the last reset.
// The zero value is not usable; use NewInterval.
type Interval struct {
	period time.Duration
	last   time.Time
	now    func() time.Time
}

// NewInterval returns an interval that elapses period after creation or the
// most recent Reset.
func NewInterval(period time.Duration) *Interval {
	i := &Interval{period: period, now: time.Now}
	i.last = i.now()
	return i
}

// Elapsed reports whether the period has passed since the last reset.
func (i *Interval) Elapsed() bool {
	return i.now().Sub(i.last) >= i.period
}

// Reset restarts the interval from now.
func (i *Interval) Reset() {
	i.last = i.now()
}
