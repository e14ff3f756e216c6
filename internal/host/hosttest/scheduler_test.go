package hosttest_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/inveropulse/interact/internal/host/hosttest"
)

func TestScheduler_TimersFireInOrder(t *testing.T) {
	s := hosttest.New()
	var got []string
	s.AfterFunc(30*time.Millisecond, func() { got = append(got, "b") })
	s.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	s.AfterFunc(30*time.Millisecond, func() { got = append(got, "c") })

	s.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, hosttest.Epoch.Add(20*time.Millisecond), s.Now())

	s.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Zero(t, s.PendingTimers())
}

func TestScheduler_CancelTimer(t *testing.T) {
	s := hosttest.New()
	fired := false
	cancel := s.AfterFunc(time.Millisecond, func() { fired = true })
	cancel()
	s.Advance(time.Second)
	assert.False(t, fired)
}

func TestScheduler_FramesOnBoundaries(t *testing.T) {
	s := hosttest.New()
	s.Advance(5 * time.Millisecond)

	var at time.Time
	s.RequestFrame(func(ts time.Time) { at = ts })
	assert.Equal(t, 1, s.PendingFrames())

	s.NextFrame()
	assert.Equal(t, hosttest.Epoch.Add(16*time.Millisecond), at)
	assert.Zero(t, s.PendingFrames())
}

func TestScheduler_FrameRequestedInFrameWaitsForNext(t *testing.T) {
	s := hosttest.New()
	var stamps []time.Time
	var tick func(time.Time)
	tick = func(ts time.Time) {
		stamps = append(stamps, ts)
		if len(stamps) < 3 {
			s.RequestFrame(tick)
		}
	}
	s.RequestFrame(tick)

	s.Advance(100 * time.Millisecond)
	assert.Equal(t, []time.Time{
		hosttest.Epoch.Add(16 * time.Millisecond),
		hosttest.Epoch.Add(32 * time.Millisecond),
		hosttest.Epoch.Add(48 * time.Millisecond),
	}, stamps)
}

func TestScheduler_Posted(t *testing.T) {
	s := hosttest.New()
	ran := 0
	go s.Post(func() { ran++ })

	assert.True(t, s.AwaitPosted(time.Second))
	assert.Equal(t, 1, ran)
	assert.False(t, s.AwaitPosted(10*time.Millisecond))
}

func TestCapabilities(t *testing.T) {
	heap := &hosttest.Heap{Used: 30, Limit: 100}
	used, limit, ok := heap.HeapUsage()
	assert.True(t, ok)
	assert.Equal(t, uint64(30), used)
	assert.Equal(t, uint64(100), limit)

	heap.Unavailable = true
	_, _, ok = heap.HeapUsage()
	assert.False(t, ok)
}
