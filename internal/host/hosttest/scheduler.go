// Package hosttest provides a deterministic host.Scheduler for tests: a
// manually advanced clock that fires timers and frames in time order on the
// calling goroutine.
package hosttest

import (
	"sort"
	"sync"
	"time"

	"github.com/inveropulse/interact/internal/host"
)

// Epoch is the fake clock's starting time.
//
//nolint:gochecknoglobals // fixed reference instant for deterministic tests
var Epoch = time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

// Scheduler is a fake host.Scheduler. Only Post may be called from other
// goroutines; everything else belongs to the test goroutine.
type Scheduler struct {
	// FrameInterval is the spacing of frame boundaries measured from Epoch.
	FrameInterval time.Duration

	now    time.Time
	seq    uint64
	timers []*timer
	frames []*frame

	mu      sync.Mutex
	posted  []func()
	postSig chan struct{}
}

type timer struct {
	due time.Time
	seq uint64
	fn  func()
}

type frame struct {
	fn        func(time.Time)
	cancelled bool
}

// New returns a scheduler at Epoch with 16ms frames.
func New() *Scheduler {
	return &Scheduler{
		FrameInterval: 16 * time.Millisecond,
		now:           Epoch,
		postSig:       make(chan struct{}, 1),
	}
}

var _ host.Scheduler = (*Scheduler)(nil)

// Now implements host.Scheduler.
func (s *Scheduler) Now() time.Time {
	return s.now
}

// AfterFunc implements host.Scheduler.
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) host.CancelFunc {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &timer{due: s.now.Add(d), seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return host.Once(func() { s.removeTimer(t) })
}

// RequestFrame implements host.Scheduler.
func (s *Scheduler) RequestFrame(fn func(time.Time)) host.CancelFunc {
	f := &frame{fn: fn}
	s.frames = append(s.frames, f)
	return host.Once(func() { s.removeFrame(f) })
}

// Post implements host.Scheduler. Safe for concurrent use.
func (s *Scheduler) Post(fn func()) {
	s.mu.Lock()
	s.posted = append(s.posted, fn)
	s.mu.Unlock()

	select {
	case s.postSig <- struct{}{}:
	default:
	}
}

// Advance moves the clock forward by d, firing posted callbacks, timers and
// frames in time order.
func (s *Scheduler) Advance(d time.Duration) {
	target := s.now.Add(d)
	for {
		s.RunPosted()

		next, ok := s.nextEvent()
		if !ok || next.After(target) {
			break
		}
		s.now = next
		s.fireDue()
	}
	s.now = target
	s.RunPosted()
}

// NextFrame advances to the next frame boundary and runs pending frames.
func (s *Scheduler) NextFrame() {
	s.Advance(s.nextBoundary().Sub(s.now))
}

// RunPosted runs every callback posted so far, including ones posted by
// those callbacks.
func (s *Scheduler) RunPosted() int {
	ran := 0
	for {
		s.mu.Lock()
		batch := s.posted
		s.posted = nil
		s.mu.Unlock()

		if len(batch) == 0 {
			return ran
		}
		for _, fn := range batch {
			fn()
			ran++
		}
	}
}

// AwaitPosted blocks until at least one callback has been posted or timeout
// elapses, then runs the posted callbacks. It reports whether anything ran.
func (s *Scheduler) AwaitPosted(timeout time.Duration) bool {
	deadline := time.After(timeout)
	for {
		if s.RunPosted() > 0 {
			return true
		}
		select {
		case <-s.postSig:
		case <-deadline:
			return s.RunPosted() > 0
		}
	}
}

// PendingTimers returns the number of scheduled, uncancelled timers.
func (s *Scheduler) PendingTimers() int {
	return len(s.timers)
}

// PendingFrames returns the number of requested, uncancelled frames.
func (s *Scheduler) PendingFrames() int {
	return len(s.frames)
}

func (s *Scheduler) nextBoundary() time.Time {
	elapsed := s.now.Sub(Epoch)
	k := elapsed/s.FrameInterval + 1
	return Epoch.Add(k * s.FrameInterval)
}

func (s *Scheduler) nextEvent() (time.Time, bool) {
	var next time.Time
	found := false
	for _, t := range s.timers {
		if !found || t.due.Before(next) {
			next = t.due
			found = true
		}
	}
	if len(s.frames) > 0 {
		b := s.nextBoundary()
		if !found || b.Before(next) {
			next = b
			found = true
		}
	}
	return next, found
}

func (s *Scheduler) fireDue() {
	sort.SliceStable(s.timers, func(i, j int) bool {
		if s.timers[i].due.Equal(s.timers[j].due) {
			return s.timers[i].seq < s.timers[j].seq
		}
		return s.timers[i].due.Before(s.timers[j].due)
	})

	var due []*timer
	for _, t := range s.timers {
		if !t.due.After(s.now) {
			due = append(due, t)
		}
	}
	for _, t := range due {
		if s.removeTimer(t) {
			t.fn()
		}
	}

	if len(s.frames) > 0 && s.now.Sub(Epoch)%s.FrameInterval == 0 {
		batch := s.frames
		s.frames = nil
		for _, f := range batch {
			if !f.cancelled {
				f.fn(s.now)
			}
		}
	}
}

func (s *Scheduler) removeTimer(t *timer) bool {
	for i, c := range s.timers {
		if c == t {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Scheduler) removeFrame(f *frame) {
	f.cancelled = true
	for i, c := range s.frames {
		if c == f {
			s.frames = append(s.frames[:i], s.frames[i+1:]...)
			return
		}
	}
}
