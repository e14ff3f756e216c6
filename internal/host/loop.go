package host

import (
	"context"
	"errors"
	"time"
)

// defaultQueueSize bounds the number of callbacks waiting for the loop.
const defaultQueueSize = 256

// Loop is a standalone UI goroutine: Run drains a callback queue until its
// context ends. It implements Scheduler for hosts that are not driven by a
// terminal program.
type Loop struct {
	*Runtime

	queue chan func()
	done  chan struct{}
}

// NewLoop creates a Loop. Callbacks posted before Run starts wait in the
// queue.
func NewLoop() *Loop {
	l := &Loop{
		queue: make(chan func(), defaultQueueSize),
		done:  make(chan struct{}),
	}
	l.Runtime = NewRuntime(l.enqueue)
	return l
}

func (l *Loop) enqueue(fn func()) {
	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// Post implements Scheduler. Callbacks posted after Run has returned are
// dropped.
func (l *Loop) Post(fn func()) {
	l.enqueue(fn)
}

// Run executes queued callbacks on the calling goroutine until ctx is done.
// It returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		l.Runtime.Stop()
		close(l.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

// RunFor is Run bounded by d.
func (l *Loop) RunFor(ctx context.Context, d time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	err := l.Run(ctx)
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil
	}
	return err
}
