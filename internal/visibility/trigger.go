// Package visibility turns a host's intersection notifications into
// "element became visible" callbacks, and builds infinite scroll, lazy image
// loading and staggered reveal on top of them.
package visibility

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/inveropulse/interact/internal/host"
)

// ElementID identifies an observed element.
type ElementID string

// Entry is one intersection notification.
type Entry struct {
	Element        ElementID
	IsIntersecting bool
	// Ratio is the visible fraction of the element, 0..1.
	Ratio float64
}

// ObserveOptions is passed through to the Source.
type ObserveOptions struct {
	Threshold float64
	// RootMargin grows (or shrinks, when negative) the viewport on both
	// ends, in pixels.
	RootMargin float64
}

// Source is the host's intersection-observation primitive. Observe starts
// delivering entries for el to fn on the UI goroutine; the returned stop
// function ends delivery.
type Source interface {
	Observe(el ElementID, opts ObserveOptions, fn func(Entry)) (stop func())
}

// Options configures a subscription.
type Options struct {
	Threshold   float64
	RootMargin  float64
	TriggerOnce bool
	// Delay postpones onVisible after the element becomes visible.
	Delay time.Duration
}

// Trigger creates subscriptions against a Source. A Trigger without a Source
// hands out inert subscriptions.
type Trigger struct {
	src   Source
	sched host.Scheduler
	log   zerolog.Logger
}

// NewTrigger returns a Trigger. src may be nil when the host has no
// intersection primitive.
func NewTrigger(src Source, sched host.Scheduler, logger zerolog.Logger) *Trigger {
	return &Trigger{
		src:   src,
		sched: sched,
		log:   logger.With().Str("component", "visibility").Logger(),
	}
}

// Available reports whether visibility notifications will ever arrive.
func (t *Trigger) Available() bool {
	return t != nil && t.src != nil
}

// Subscription is the record of one observed element.
type Subscription struct {
	trig      *Trigger
	el        ElementID
	opts      Options
	onVisible func()
	onHidden  func()

	visible     bool
	hasFired    bool
	closed      bool
	stop        func()
	cancelDelay host.CancelFunc
}

// Subscribe starts observing el. onVisible runs when el becomes visible
// with a ratio of at least Threshold (after Delay, if set). onHidden, which
// may be nil, runs when a repeating subscription becomes hidden again.
// Callers must Unsubscribe on teardown.
func (t *Trigger) Subscribe(el ElementID, opts Options, onVisible, onHidden func()) *Subscription {
	s := &Subscription{
		trig:      t,
		el:        el,
		opts:      opts,
		onVisible: onVisible,
		onHidden:  onHidden,
	}
	if !t.Available() {
		return s
	}
	s.stop = t.src.Observe(el, ObserveOptions{Threshold: opts.Threshold, RootMargin: opts.RootMargin}, s.handle)
	return s
}

// Element returns the observed element.
func (s *Subscription) Element() ElementID { return s.el }

// Visible reports the last known visibility.
func (s *Subscription) Visible() bool { return s.visible }

// HasFired reports whether a trigger-once subscription has fired.
func (s *Subscription) HasFired() bool { return s.hasFired }

// Unsubscribe stops observation and cancels a pending delayed callback.
// It is safe to call any number of times.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	s.cancelPending()
	s.stopObserving()
}

func (s *Subscription) handle(e Entry) {
	if s.closed || (s.opts.TriggerOnce && s.hasFired) {
		return
	}

	visible := e.IsIntersecting && e.Ratio >= s.opts.Threshold
	if visible == s.visible {
		return
	}
	s.visible = visible

	if !visible {
		s.cancelPending()
		if s.onHidden != nil && !s.opts.TriggerOnce {
			s.onHidden()
		}
		return
	}

	if s.opts.TriggerOnce {
		s.hasFired = true
		s.stopObserving()
	}
	if s.opts.Delay > 0 && s.trig.sched != nil {
		s.cancelDelay = s.trig.sched.AfterFunc(s.opts.Delay, func() {
			s.cancelDelay = nil
			s.fire()
		})
		return
	}
	s.fire()
}

func (s *Subscription) fire() {
	if s.closed {
		return
	}
	s.trig.log.Debug().Str("element", string(s.el)).Msg("element visible")
	if s.onVisible != nil {
		s.onVisible()
	}
}

func (s *Subscription) cancelPending() {
	if s.cancelDelay != nil {
		s.cancelDelay()
		s.cancelDelay = nil
	}
}

func (s *Subscription) stopObserving() {
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}
