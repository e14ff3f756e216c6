package host_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inveropulse/interact/internal/host"
)

func TestLoop_RunsPostedInOrder(t *testing.T) {
	loop := host.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())

	var got []int
	for i := range 3 {
		loop.Post(func() { got = append(got, i) })
	}
	loop.Post(cancel)

	err := loop.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestLoop_TimersAndFrames(t *testing.T) {
	loop := host.NewLoop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		timerFired bool
		frameAt    time.Time
	)
	loop.Post(func() {
		loop.AfterFunc(20*time.Millisecond, func() { timerFired = true })
		loop.RequestFrame(func(ts time.Time) {
			frameAt = ts
			loop.AfterFunc(50*time.Millisecond, cancel)
		})
	})

	err := loop.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, timerFired)
	assert.False(t, frameAt.IsZero())
}

func TestLoop_CancelledTimerDoesNotFire(t *testing.T) {
	loop := host.NewLoop()
	fired := false
	loop.Post(func() {
		stop := loop.AfterFunc(10*time.Millisecond, func() { fired = true })
		stop()
	})

	require.NoError(t, loop.RunFor(context.Background(), 60*time.Millisecond))
	assert.False(t, fired)
}

func TestLoop_RunForReturnsNilOnExpiry(t *testing.T) {
	loop := host.NewLoop()
	start := time.Now()
	require.NoError(t, loop.RunFor(context.Background(), 30*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestLoop_DropsPostsAfterRun(t *testing.T) {
	loop := host.NewLoop()
	require.NoError(t, loop.RunFor(context.Background(), time.Millisecond))

	done := make(chan struct{})
	go func() {
		for range 1000 {
			loop.Post(func() {})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Post blocked after the loop stopped")
	}
}

func TestRuntime_FramesShareOneTick(t *testing.T) {
	var dispatched atomic.Int32
	calls := make(chan func(), 8)
	rt := host.NewRuntime(func(fn func()) {
		dispatched.Add(1)
		calls <- fn
	})
	defer rt.Stop()

	var stamps []time.Time
	rt.RequestFrame(func(ts time.Time) { stamps = append(stamps, ts) })
	rt.RequestFrame(func(ts time.Time) { stamps = append(stamps, ts) })
	cancelled := rt.RequestFrame(func(ts time.Time) { stamps = append(stamps, ts) })
	cancelled()

	select {
	case fn := <-calls:
		fn()
	case <-time.After(time.Second):
		t.Fatal("frame never dispatched")
	}

	assert.Equal(t, int32(1), dispatched.Load())
	require.Len(t, stamps, 2)
	assert.Equal(t, stamps[0], stamps[1])
}

func TestRuntime_StopCancelsFrames(t *testing.T) {
	calls := make(chan func(), 1)
	rt := host.NewRuntime(func(fn func()) { calls <- fn })

	rt.RequestFrame(func(time.Time) { t.Error("frame ran after Stop") })
	rt.Stop()

	select {
	case fn := <-calls:
		fn()
	case <-time.After(3 * host.FrameInterval):
	}
}

func TestRuntimeHeap(t *testing.T) {
	used, limit, ok := host.RuntimeHeap{Limit: 1 << 40}.HeapUsage()
	require.True(t, ok)
	assert.Equal(t, uint64(1<<40), limit)
	assert.Positive(t, used)
}
