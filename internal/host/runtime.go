package host

import (
	"sync"
	"sync/atomic"
	"time"
)

// Runtime implements Scheduler on the wall clock. Timers and frames fire on
// background goroutines and are handed to dispatch, which must deliver them
// to the UI goroutine (a Loop queue, a bubbletea program, ...).
type Runtime struct {
	dispatch func(func())
	interval time.Duration

	mu         sync.Mutex
	frames     []*scheduled
	frameTimer *time.Timer
}

type scheduled struct {
	fn        func(time.Time)
	cancelled atomic.Bool
}

// NewRuntime returns a Runtime delivering callbacks through dispatch.
func NewRuntime(dispatch func(func())) *Runtime {
	return &Runtime{dispatch: dispatch, interval: FrameInterval}
}

// Now implements Scheduler.
func (r *Runtime) Now() time.Time {
	return time.Now()
}

// AfterFunc implements Scheduler.
func (r *Runtime) AfterFunc(d time.Duration, fn func()) CancelFunc {
	s := &scheduled{}
	t := time.AfterFunc(d, func() {
		r.dispatch(func() {
			if !s.cancelled.Load() {
				fn()
			}
		})
	})
	return Once(func() {
		s.cancelled.Store(true)
		t.Stop()
	})
}

// RequestFrame implements Scheduler. All frames requested within one
// interval share a single timer and run in request order.
func (r *Runtime) RequestFrame(fn func(time.Time)) CancelFunc {
	s := &scheduled{fn: fn}

	r.mu.Lock()
	r.frames = append(r.frames, s)
	if r.frameTimer == nil {
		r.frameTimer = time.AfterFunc(r.interval, r.flushFrames)
	}
	r.mu.Unlock()

	return Once(func() {
		s.cancelled.Store(true)
	})
}

// Post implements Scheduler.
func (r *Runtime) Post(fn func()) {
	r.dispatch(fn)
}

func (r *Runtime) flushFrames() {
	r.mu.Lock()
	batch := r.frames
	r.frames = nil
	r.frameTimer = nil
	r.mu.Unlock()

	r.dispatch(func() {
		now := time.Now()
		for _, s := range batch {
			if !s.cancelled.Load() {
				s.fn(now)
			}
		}
	})
}

// Stop cancels every pending frame. Timers already handed out keep their
// own CancelFunc.
func (r *Runtime) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.frames {
		s.cancelled.Store(true)
	}
	r.frames = nil
	if r.frameTimer != nil {
		r.frameTimer.Stop()
		r.frameTimer = nil
	}
}
