package ui

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_OnlyLastFires(t *testing.T) {
	loop := NewLoop(16)
	go loop.Run()
	defer loop.Stop()

	clk := clock.NewMock()
	d := NewDebouncer(clk, 500*time.Millisecond, loop)

	var fired atomic.Int32
	var last atomic.Int32
	for i := int32(1); i <= 3; i++ {
		onLoop(loop, func() {
			d.Schedule(func() {
				fired.Add(1)
				last.Store(i)
			})
		})
		clk.Add(100 * time.Millisecond)
	}

	onLoop(loop, func() { assert.True(t, d.pending()) })

	clk.Add(500 * time.Millisecond)
	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, time.Millisecond)

	clk.Add(time.Second)
	onLoop(loop, func() { assert.False(t, d.pending()) })
	assert.Equal(t, int32(1), fired.Load())
	assert.Equal(t, int32(3), last.Load())
}

func TestDebouncer_Cancel(t *testing.T) {
	loop := NewLoop(16)
	go loop.Run()
	defer loop.Stop()

	clk := clock.NewMock()
	d := NewDebouncer(clk, 500*time.Millisecond, loop)

	var fired atomic.Int32
	onLoop(loop, func() {
		d.Schedule(func() { fired.Add(1) })
		d.Cancel()
		assert.False(t, d.pending())
	})

	clk.Add(time.Second)
	onLoop(loop, func() {})
	assert.Zero(t, fired.Load())
}

func TestLoop_PostAfterStopIsDropped(t *testing.T) {
	loop := NewLoop(1)
	go loop.Run()
	loop.Stop()

	ran := make(chan struct{}, 1)
	loop.Post(func() { ran <- struct{}{} })
	loop.Go(func() func() { return func() { ran <- struct{}{} } })

	select {
	case <-ran:
		t.Fatal("work ran after stop")
	case <-time.After(20 * time.Millisecond):
	}
}
