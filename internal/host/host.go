// Package host defines the runtime capabilities the interaction engine
// consumes: a clock with timers, frame scheduling, dispatch onto the UI
// goroutine, tactile feedback and heap statistics.
//
// Every engine component receives these capabilities explicitly so tests
// can substitute the deterministic scheduler in package hosttest.
package host

import (
	"sync"
	"time"
)

// FrameInterval is the nominal frame period used by real schedulers (60Hz).
const FrameInterval = time.Second / 60

// CancelFunc cancels a scheduled callback. Calling it more than once, or
// after the callback has already run, is a no-op.
type CancelFunc func()

// Scheduler is the single-threaded event loop contract. Callbacks passed to
// AfterFunc, RequestFrame and Post always run on the UI goroutine, one at a
// time, so engine components never need locks for their own state.
type Scheduler interface {
	// Now returns the current time of the scheduler's clock.
	Now() time.Time

	// AfterFunc runs fn on the UI goroutine once d has elapsed.
	AfterFunc(d time.Duration, fn func()) CancelFunc

	// RequestFrame runs fn on the UI goroutine at the next frame boundary.
	RequestFrame(fn func(frameTime time.Time)) CancelFunc

	// Post enqueues fn onto the UI goroutine. It is safe to call from any
	// goroutine and is how asynchronous work reports completion.
	Post(fn func())
}

// Haptics emits tactile feedback pulses. Hosts without support pass nil.
type Haptics interface {
	Vibrate(d time.Duration)
}

// HeapSource reports heap usage and the heap limit in bytes. ok is false
// when the host cannot introspect memory.
type HeapSource interface {
	HeapUsage() (used, limit uint64, ok bool)
}

// Pulse emits a haptic pulse when h is non-nil.
func Pulse(h Haptics, d time.Duration) {
	if h == nil {
		return
	}
	h.Vibrate(d)
}

// Once wraps cancel so repeated calls only reach it once.
func Once(cancel func()) CancelFunc {
	var once sync.Once
	return func() {
		once.Do(cancel)
	}
}

// Noop is a CancelFunc that does nothing.
func Noop() {}
