package visibility

import (
	"time"

	"github.com/inveropulse/interact/internal/host"
)

// DefaultStaggerDelay separates consecutive reveals.
const DefaultStaggerDelay = 100 * time.Millisecond

// StaggerOptions configures a StaggerReveal.
type StaggerOptions struct {
	Count        int
	StaggerDelay time.Duration

	Threshold  float64
	RootMargin float64
	// Delay postpones the whole cascade after the container is visible.
	Delay time.Duration

	// OnReveal runs once per element index, in index order.
	OnReveal func(index int)
}

// StaggerReveal reveals an ordered group of elements one after another,
// index*StaggerDelay after their container first becomes visible.
type StaggerReveal struct {
	opts     StaggerOptions
	sched    host.Scheduler
	sub      *Subscription
	revealed []bool
	timers   []host.CancelFunc
	started  bool
}

// NewStaggerReveal observes container. Without a visibility source every
// element is revealed immediately.
func NewStaggerReveal(t *Trigger, sched host.Scheduler, container ElementID, opts StaggerOptions) *StaggerReveal {
	if opts.StaggerDelay <= 0 {
		opts.StaggerDelay = DefaultStaggerDelay
	}
	r := &StaggerReveal{
		opts:     opts,
		sched:    sched,
		revealed: make([]bool, max(0, opts.Count)),
	}
	if !t.Available() {
		r.RevealAll()
		return r
	}
	r.sub = t.Subscribe(container, Options{
		Threshold:   opts.Threshold,
		RootMargin:  opts.RootMargin,
		TriggerOnce: true,
		Delay:       opts.Delay,
	}, r.start, nil)
	return r
}

// Revealed reports whether element i is revealed.
func (r *StaggerReveal) Revealed(i int) bool {
	return i >= 0 && i < len(r.revealed) && r.revealed[i]
}

// Started reports whether the cascade has begun.
func (r *StaggerReveal) Started() bool { return r.started }

// RevealAll reveals every remaining element now, skipping the animation.
func (r *StaggerReveal) RevealAll() {
	r.cancelTimers()
	r.started = true
	for i := range r.revealed {
		r.reveal(i)
	}
}

// Close unsubscribes and cancels pending reveals.
func (r *StaggerReveal) Close() {
	r.sub.Unsubscribe()
	r.cancelTimers()
}

func (r *StaggerReveal) start() {
	r.started = true
	for i := range r.revealed {
		d := time.Duration(i) * r.opts.StaggerDelay
		if d == 0 {
			r.reveal(i)
			continue
		}
		r.timers = append(r.timers, r.sched.AfterFunc(d, func() { r.reveal(i) }))
	}
}

func (r *StaggerReveal) reveal(i int) {
	if r.revealed[i] {
		return
	}
	r.revealed[i] = true
	if r.opts.OnReveal != nil {
		r.opts.OnReveal(i)
	}
}

func (r *StaggerReveal) cancelTimers() {
	for _, cancel := range r.timers {
		cancel()
	}
	r.timers = nil
}
