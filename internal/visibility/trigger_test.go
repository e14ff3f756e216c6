package visibility_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inveropulse/interact/internal/host/hosttest"
	"github.com/inveropulse/interact/internal/visibility"
)

// fakeSource is a manually triggered visibility source.
type fakeSource struct {
	observers map[visibility.ElementID][]*fakeObserver
	stops     int
}

type fakeObserver struct {
	fn      func(visibility.Entry)
	stopped bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{observers: make(map[visibility.ElementID][]*fakeObserver)}
}

func (f *fakeSource) Observe(el visibility.ElementID, _ visibility.ObserveOptions, fn func(visibility.Entry)) func() {
	o := &fakeObserver{fn: fn}
	f.observers[el] = append(f.observers[el], o)
	return func() {
		if !o.stopped {
			o.stopped = true
			f.stops++
		}
	}
}

func (f *fakeSource) emit(el visibility.ElementID, intersecting bool, ratio float64) {
	for _, o := range f.observers[el] {
		if !o.stopped {
			o.fn(visibility.Entry{Element: el, IsIntersecting: intersecting, Ratio: ratio})
		}
	}
}

func (f *fakeSource) live(el visibility.ElementID) int {
	n := 0
	for _, o := range f.observers[el] {
		if !o.stopped {
			n++
		}
	}
	return n
}

func newTrigger(src visibility.Source) (*visibility.Trigger, *hosttest.Scheduler) {
	sched := hosttest.New()
	return visibility.NewTrigger(src, sched, zerolog.Nop()), sched
}

// TestTrigger_OnceOnly fires exactly once for repeated notifications.
func TestTrigger_OnceOnly(t *testing.T) {
	src := newFakeSource()
	trig, _ := newTrigger(src)

	fired := 0
	sub := trig.Subscribe("card", visibility.Options{TriggerOnce: true, Threshold: 0.5}, func() { fired++ }, nil)

	src.emit("card", true, 0.2)
	assert.Equal(t, 0, fired, "below threshold")

	src.emit("card", true, 0.8)
	src.emit("card", false, 0)
	src.emit("card", true, 1)
	src.emit("card", true, 1)

	assert.Equal(t, 1, fired)
	assert.True(t, sub.HasFired())
	assert.Equal(t, 0, src.live("card"), "observation stops after firing")
}

// TestTrigger_RepeatingCallsHidden toggles on both transitions.
func TestTrigger_RepeatingCallsHidden(t *testing.T) {
	src := newFakeSource()
	trig, _ := newTrigger(src)

	var events []string
	trig.Subscribe("row", visibility.Options{}, func() { events = append(events, "visible") }, func() { events = append(events, "hidden") })

	src.emit("row", false, 0)
	src.emit("row", true, 0.1)
	src.emit("row", true, 0.6)
	src.emit("row", false, 0)
	src.emit("row", true, 1)

	assert.Equal(t, []string{"visible", "hidden", "visible"}, events)
}

// TestTrigger_Delay schedules the callback and cancels it on hide.
func TestTrigger_Delay(t *testing.T) {
	src := newFakeSource()
	trig, sched := newTrigger(src)

	fired := 0
	trig.Subscribe("banner", visibility.Options{Delay: 200 * time.Millisecond}, func() { fired++ }, nil)

	src.emit("banner", true, 1)
	sched.Advance(199 * time.Millisecond)
	assert.Equal(t, 0, fired)
	sched.Advance(time.Millisecond)
	assert.Equal(t, 1, fired)

	src.emit("banner", false, 0)
	src.emit("banner", true, 1)
	sched.Advance(100 * time.Millisecond)
	src.emit("banner", false, 0)
	sched.Advance(time.Second)
	assert.Equal(t, 1, fired, "hidden before the delay elapsed")
	assert.Equal(t, 0, sched.PendingTimers())
}

// TestTrigger_UnsubscribeIdempotent never throws and never fires.
func TestTrigger_UnsubscribeIdempotent(t *testing.T) {
	src := newFakeSource()
	trig, sched := newTrigger(src)

	fired := 0
	sub := trig.Subscribe("avatar", visibility.Options{Delay: 50 * time.Millisecond}, func() { fired++ }, nil)

	assert.NotPanics(t, func() {
		sub.Unsubscribe()
		sub.Unsubscribe()
	})
	src.emit("avatar", true, 1)
	sched.Advance(time.Second)

	assert.Equal(t, 0, fired)
	assert.Equal(t, 1, src.stops)
}

// TestTrigger_UnsubscribeCancelsPendingDelay covers early teardown.
func TestTrigger_UnsubscribeCancelsPendingDelay(t *testing.T) {
	src := newFakeSource()
	trig, sched := newTrigger(src)

	fired := 0
	sub := trig.Subscribe("panel", visibility.Options{Delay: 300 * time.Millisecond, TriggerOnce: true}, func() { fired++ }, nil)
	src.emit("panel", true, 1)
	require.Equal(t, 1, sched.PendingTimers())

	sub.Unsubscribe()
	sched.Advance(time.Second)
	assert.Equal(t, 0, fired)
	assert.Equal(t, 0, sched.PendingTimers())
}

// TestTrigger_NoSourceIsInert degrades silently.
func TestTrigger_NoSourceIsInert(t *testing.T) {
	trig, _ := newTrigger(nil)
	assert.False(t, trig.Available())

	sub := trig.Subscribe("x", visibility.Options{}, func() { t.Fatal("must not fire") }, nil)
	assert.NotPanics(t, sub.Unsubscribe)

	var nilSub *visibility.Subscription
	assert.NotPanics(t, nilSub.Unsubscribe)
}
