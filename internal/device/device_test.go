// SPDX-License-Identifier: MIT
package device

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitFieldSetClearTest(t *testing.T) {
	var b BitField

	b.Set(0)
	b.Set(3)
	b.Set(31)

	assert.True(t, b.Test(0))
	assert.True(t, b.Test(3))
	assert.True(t, b.Test(31))
	assert.False(t, b.Test(1))
	assert.Equal(t, uint32(1|1<<3|1<<31), b.Value())

	b.Clear(3)
	assert.False(t, b.Test(3))
	assert.Equal(t, uint32(1|1<<31), b.Value())
}

func TestBitFieldOutOfRange(t *testing.T) {
	var b BitField
	b.Set(32)
	assert.Equal(t, uint32(0), b.Value())
	assert.False(t, b.Test(64))
}

func TestBitFieldConcurrent(t *testing.T) {
	var b BitField
	var wg sync.WaitGroup
	for pos := uint(0); pos < 32; pos++ {
		wg.Add(1)
		go func(p uint) {
			defer wg.Done()
			b.Set(p)
		}(pos)
	}
	wg.Wait()
	assert.Equal(t, ^uint32(0), b.Value())
}

func TestDeviceLifecycle(t *testing.T) {
	d := New("dev-1")
	assert.Equal(t, StateOff, d.State())

	for _, to := range []State{StateInit, StateReady, StateBusy, StateReady} {
		require.NoError(t, d.Transition(to))
		assert.Equal(t, to, d.State())
	}
}

func TestDeviceInvalidTransition(t *testing.T) {
	d := New("dev-1")

	err := d.Transition(StateBusy)
	require.Error(t, err)

	var inv *ErrInvalidTransition
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, StateOff, inv.From)
	assert.Equal(t, StateBusy, inv.To)
	assert.Equal(t, StateOff, d.State())
}

func TestDeviceFaultFromAnywhere(t *testing.T) {
	for _, start := range []State{StateOff, StateInit, StateReady, StateBusy} {
		d := New("dev-1")
		d.state = start
		require.NoError(t, d.Transition(StateFault))
		assert.Equal(t, StateFault, d.State())

		// fault recovers only through off
		require.NoError(t, d.Transition(StateOff))
	}
}

func TestDeviceUnknownState(t *testing.T) {
	d := New("dev-1")
	err := d.Transition(State("warp"))
	var inv *ErrInvalidTransition
	require.True(t, errors.As(err, &inv))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Add(New("b"))
	r.Add(New("a"))

	assert.Nil(t, r.Get("missing"))
	require.NotNil(t, r.Get("a"))

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID())
	assert.Equal(t, "b", list[1].ID())
}

func TestRegistryTransition(t *testing.T) {
	r := NewRegistry()
	r.Add(New("a"))

	d, ok, err := r.Transition("a", StateInit)
	require.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, StateInit, d.State())

	_, ok, _ = r.Transition("missing", StateInit)
	assert.False(t, ok)

	_, ok, err = r.Transition("a", StateBusy)
	require.True(t, ok)
	require.Error(t, err)
}

func TestInterval(t *testing.T) {
	i := NewInterval(50 * time.Millisecond)
	now := time.Now()
	i.now = func() time.Time { return now }
	i.Reset()

	assert.False(t, i.Elapsed())

	now = now.Add(50 * time.Millisecond)
	assert.True(t, i.Elapsed())

	i.Reset()
	assert.False(t, i.Elapsed())
}
