// Package gesture recognises single-pointer horizontal swipes over a list
// item and resolves them into at most one swipe action.
package gesture

import (
	"fmt"
	"math"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/inveropulse/interact/internal/host"
)

const (
	// DefaultThreshold is the swipe distance in pixels that arms the first action.
	DefaultThreshold = 80.0

	// claimDistance is the horizontal travel required before a gesture is
	// treated as a swipe rather than a vertical scroll.
	claimDistance = 10.0

	// flickVelocity in px/ms triggers the armed action regardless of distance.
	flickVelocity = 0.5

	claimPulse   = 10 * time.Millisecond
	triggerPulse = 50 * time.Millisecond
)

// Phase is the tracker's state.
type Phase int

const (
	// Idle means no pointer is down.
	Idle Phase = iota
	// Tracking means a session exists, claimed or not.
	Tracking
)

// String returns the phase name.
func (p Phase) String() string {
	if p == Tracking {
		return "tracking"
	}
	return "idle"
}

// Session is the record of one press-to-release interaction.
type Session struct {
	ID      ulid.ULID
	StartX  float64
	StartY  float64
	Start   time.Time
	Claimed bool

	dx float64
}

// Options configures a Tracker.
type Options struct {
	// LeftActions are revealed by swiping right (positive offset), nearest
	// first.
	LeftActions []Action
	// RightActions are revealed by swiping left (negative offset).
	RightActions []Action

	// Threshold defaults to DefaultThreshold when <= 0.
	Threshold float64
	Disabled  bool

	OnSwipeStart func()
	OnSwipeEnd   func()
	// OnChange receives the latest State once per frame while it changes.
	OnChange func(State)

	Haptics host.Haptics
	Logger  zerolog.Logger
}

// Tracker is the swipe recogniser. It must only be used from the UI
// goroutine of its scheduler.
type Tracker struct {
	opts  Options
	sched host.Scheduler
	log   zerolog.Logger

	session *Session
	state   State
	pub     *host.Publisher[State]
}

// New creates an idle Tracker.
func New(sched host.Scheduler, opts Options) *Tracker {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	return &Tracker{
		opts:  opts,
		sched: sched,
		log:   opts.Logger.With().Str("component", "gesture").Logger(),
		pub:   host.NewPublisher(sched, opts.OnChange),
	}
}

// Threshold returns the effective swipe threshold.
func (t *Tracker) Threshold() float64 {
	return t.opts.Threshold
}

// Phase returns Tracking while a session exists.
func (t *Tracker) Phase() Phase {
	if t.session != nil {
		return Tracking
	}
	return Idle
}

// State returns the live swipe state.
func (t *Tracker) State() State {
	return t.state
}

// Session returns a copy of the active session.
func (t *Tracker) Session() (Session, bool) {
	if t.session == nil {
		return Session{}, false
	}
	return *t.session, true
}

// SetActions replaces both action sequences.
func (t *Tracker) SetActions(left, right []Action) {
	t.opts.LeftActions = left
	t.opts.RightActions = right
}

// SetDisabled toggles input handling. Disabling mid-gesture cancels it.
func (t *Tracker) SetDisabled(disabled bool) {
	t.opts.Disabled = disabled
	if disabled {
		t.Cancel()
	}
}

// Down implements pointer.Handler.
func (t *Tracker) Down(x, y float64) {
	if t.opts.Disabled {
		return
	}
	if t.session != nil {
		t.reset()
	}
	t.pub.Cancel()

	now := t.sched.Now()
	t.session = &Session{
		ID:     ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()),
		StartX: x,
		StartY: y,
		Start:  now,
	}
}

// Move implements pointer.Handler. It reports false until the gesture has
// been claimed as horizontal.
func (t *Tracker) Move(x, y float64) bool {
	s := t.session
	if s == nil || t.opts.Disabled {
		return false
	}

	dx := x - s.StartX
	dy := math.Abs(y - s.StartY)
	s.dx = dx

	if !s.Claimed {
		if math.Abs(dx) <= dy || math.Abs(dx) <= claimDistance {
			return false
		}
		s.Claimed = true
		host.Pulse(t.opts.Haptics, claimPulse)
		t.log.Debug().Str("session", s.ID.String()).Float64("dx", dx).Msg("swipe claimed")
		if t.opts.OnSwipeStart != nil {
			t.opts.OnSwipeStart()
		}
	}

	limit := 2 * t.opts.Threshold
	offset := math.Max(-limit, math.Min(limit, dx))
	t.state = State{
		Offset:       offset,
		IsActive:     true,
		ActiveAction: t.resolve(offset),
	}
	t.pub.Set(t.state)
	return true
}

// Up implements pointer.Handler. The armed action fires when the swipe
// travelled at least one threshold or was released faster than 0.5px/ms.
// Errors from the action are returned after the tracker has reset; panics
// propagate the same way.
func (t *Tracker) Up() error {
	s := t.session
	if s == nil {
		return nil
	}
	defer t.reset()

	elapsed := float64(t.sched.Now().Sub(s.Start)) / float64(time.Millisecond)
	if elapsed < 1 {
		elapsed = 1
	}
	velocity := math.Abs(s.dx) / elapsed

	action := t.state.ActiveAction
	if action == nil {
		return nil
	}
	if math.Abs(t.state.Offset) < t.opts.Threshold && velocity <= flickVelocity {
		return nil
	}

	host.Pulse(t.opts.Haptics, triggerPulse)
	t.log.Debug().
		Str("session", s.ID.String()).
		Str("action", action.ID).
		Float64("offset", t.state.Offset).
		Float64("velocity", velocity).
		Msg("swipe action triggered")

	if action.OnAction == nil {
		return nil
	}
	if err := action.OnAction(); err != nil {
		return fmt.Errorf("swipe action %q: %w", action.ID, err)
	}
	return nil
}

// Cancel implements pointer.Handler.
func (t *Tracker) Cancel() {
	if t.session == nil {
		return
	}
	t.reset()
}

// Close drops the session and any scheduled notification.
func (t *Tracker) Close() {
	t.session = nil
	t.state = State{}
	t.pub.Cancel()
}

func (t *Tracker) reset() {
	claimed := t.session != nil && t.session.Claimed
	t.session = nil
	t.state = State{}
	t.pub.Set(t.state)
	if claimed && t.opts.OnSwipeEnd != nil {
		t.opts.OnSwipeEnd()
	}
}

func (t *Tracker) resolve(offset float64) *Action {
	if math.Abs(offset) <= t.opts.Threshold {
		return nil
	}
	seq := t.opts.RightActions
	if offset > 0 {
		seq = t.opts.LeftActions
	}
	if len(seq) == 0 {
		return nil
	}
	bucket := int(math.Floor(math.Abs(offset)/t.opts.Threshold)) - 1
	bucket = max(0, min(bucket, len(seq)-1))
	return &seq[bucket]
}
