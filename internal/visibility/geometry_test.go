package visibility_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inveropulse/interact/internal/host/hosttest"
	"github.com/inveropulse/interact/internal/visibility"
)

// TestIntersect covers overlap ratios, margins and edges.
func TestIntersect(t *testing.T) {
	viewport := visibility.Span{Top: 0, Height: 200}

	tests := []struct {
		name      string
		el        visibility.Span
		margin    float64
		wantIn    bool
		wantRatio float64
	}{
		{name: "fully inside", el: visibility.Span{Top: 100, Height: 50}, wantIn: true, wantRatio: 1},
		{name: "half inside", el: visibility.Span{Top: 180, Height: 40}, wantIn: true, wantRatio: 0.5},
		{name: "below", el: visibility.Span{Top: 250, Height: 50}},
		{name: "touching bottom edge", el: visibility.Span{Top: 200, Height: 50}},
		{name: "margin pulls it in", el: visibility.Span{Top: 250, Height: 50}, margin: 100, wantIn: true, wantRatio: 1},
		{name: "negative margin pushes it out", el: visibility.Span{Top: 0, Height: 40}, margin: -50},
		{name: "zero height inside", el: visibility.Span{Top: 200}, wantIn: true, wantRatio: 1},
		{name: "zero height outside", el: visibility.Span{Top: 201}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, ratio := visibility.Intersect(tt.el, viewport, tt.margin)
			assert.Equal(t, tt.wantIn, in)
			assert.InDelta(t, tt.wantRatio, ratio, 1e-9)
		})
	}
}

// TestGeometrySource_DeliversChangesPerFrame reports only on change.
func TestGeometrySource_DeliversChangesPerFrame(t *testing.T) {
	sched := hosttest.New()
	g := visibility.NewGeometrySource(sched)
	g.SetViewport(0, 100)
	g.SetBounds("a", 0, 50)

	var got []visibility.Entry
	stop := g.Observe("a", visibility.ObserveOptions{}, func(e visibility.Entry) { got = append(got, e) })
	assert.Empty(t, got, "first entry waits for a frame")

	sched.NextFrame()
	require.Len(t, got, 1)
	assert.Equal(t, visibility.Entry{Element: "a", IsIntersecting: true, Ratio: 1}, got[0])

	g.SetViewport(25, 100)
	g.SetViewport(300, 100)
	sched.NextFrame()
	require.Len(t, got, 2, "viewport changes coalesce into one evaluation")
	assert.False(t, got[1].IsIntersecting)

	g.SetViewport(310, 100)
	sched.NextFrame()
	assert.Len(t, got, 2, "unchanged entries are not redelivered")

	stop()
	stop()
	assert.Equal(t, 0, g.Observed())
	assert.Equal(t, 0, sched.PendingFrames())
}

// TestGeometrySource_RemoveBounds reports a removed element as hidden.
func TestGeometrySource_RemoveBounds(t *testing.T) {
	sched := hosttest.New()
	g := visibility.NewGeometrySource(sched)
	g.SetViewport(0, 100)
	g.SetBounds("row-1", 10, 20)

	var last visibility.Entry
	g.Observe("row-1", visibility.ObserveOptions{}, func(e visibility.Entry) { last = e })
	g.Flush()
	require.True(t, last.IsIntersecting)

	g.RemoveBounds("row-1")
	sched.NextFrame()
	assert.False(t, last.IsIntersecting)
}

// TestGeometrySource_DrivesLazyImage loads an image once it scrolls in.
func TestGeometrySource_DrivesLazyImage(t *testing.T) {
	sched := hosttest.New()
	g := visibility.NewGeometrySource(sched)
	g.SetViewport(0, 300)
	g.SetBounds("img", 500, 100)

	trig := visibility.NewTrigger(g, sched, zerolog.Nop())
	img := visibility.NewLazyImage(trig, "img", visibility.LazyImageOptions{Src: "full.jpg", Placeholder: "thumb.jpg"})

	sched.NextFrame()
	assert.False(t, img.Loaded())

	g.SetViewport(250, 300)
	sched.NextFrame()
	assert.True(t, img.Loaded())
	assert.Equal(t, 0, g.Observed(), "trigger-once subscriptions stop observing")

	g.Close()
	assert.Equal(t, 0, sched.PendingFrames())
}
