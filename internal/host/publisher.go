package host

import "time"

// Publisher delivers the latest value of some state to a listener at most
// once per frame. Values set between frames overwrite each other; only the
// last one is delivered.
type Publisher[T any] struct {
	sched   Scheduler
	listen  func(T)
	pending T
	cancel  CancelFunc
}

// NewPublisher returns a publisher that calls listen on frame boundaries.
// A nil listen makes every operation a no-op.
func NewPublisher[T any](sched Scheduler, listen func(T)) *Publisher[T] {
	return &Publisher[T]{sched: sched, listen: listen}
}

// Set records v and schedules delivery if none is pending.
func (p *Publisher[T]) Set(v T) {
	if p.listen == nil || p.sched == nil {
		return
	}
	p.pending = v
	if p.cancel != nil {
		return
	}
	p.cancel = p.sched.RequestFrame(func(time.Time) {
		p.cancel = nil
		p.listen(p.pending)
	})
}

// Pending reports whether a delivery is scheduled.
func (p *Publisher[T]) Pending() bool {
	return p.cancel != nil
}

// Cancel drops any scheduled delivery.
func (p *Publisher[T]) Cancel() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	p.cancel = nil
}
