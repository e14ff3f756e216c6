package visibility

import (
	"sort"
	"time"

	"github.com/inveropulse/interact/internal/host"
)

// Span is a vertical extent in scroll-content coordinates.
type Span struct {
	Top    float64
	Height float64
}

// Bottom returns Top+Height.
func (s Span) Bottom() float64 { return s.Top + s.Height }

// Intersect computes the entry for an element spanning el inside viewport
// grown by margin on both ends.
func Intersect(el, viewport Span, margin float64) (bool, float64) {
	rootTop := viewport.Top - margin
	rootBottom := viewport.Bottom() + margin
	if rootBottom < rootTop {
		return false, 0
	}

	if el.Height <= 0 {
		inside := el.Top >= rootTop && el.Top <= rootBottom
		if inside {
			return true, 1
		}
		return false, 0
	}

	overlap := min(el.Bottom(), rootBottom) - max(el.Top, rootTop)
	if overlap <= 0 {
		return false, 0
	}
	return true, min(1, overlap/el.Height)
}

// GeometrySource is a Source for hosts that know their layout: element
// extents are registered with SetBounds and the scroll viewport with
// SetViewport. Changes are evaluated once per frame and an entry is
// delivered whenever an element's intersection changes.
type GeometrySource struct {
	sched    host.Scheduler
	viewport Span
	bounds   map[ElementID]Span

	observers map[uint64]*observer
	nextID    uint64
	pending   host.CancelFunc
}

type observer struct {
	id        uint64
	el        ElementID
	opts      ObserveOptions
	fn        func(Entry)
	last      Entry
	delivered bool
}

// NewGeometrySource returns an empty source.
func NewGeometrySource(sched host.Scheduler) *GeometrySource {
	return &GeometrySource{
		sched:     sched,
		bounds:    make(map[ElementID]Span),
		observers: make(map[uint64]*observer),
	}
}

// Observe implements Source. The first entry is delivered on the next frame.
func (g *GeometrySource) Observe(el ElementID, opts ObserveOptions, fn func(Entry)) func() {
	g.nextID++
	o := &observer{id: g.nextID, el: el, opts: opts, fn: fn}
	g.observers[o.id] = o
	g.invalidate()

	return host.Once(func() {
		delete(g.observers, o.id)
		if len(g.observers) == 0 && g.pending != nil {
			g.pending()
			g.pending = nil
		}
	})
}

// SetViewport updates the scroll viewport.
func (g *GeometrySource) SetViewport(top, height float64) {
	v := Span{Top: top, Height: height}
	if v == g.viewport {
		return
	}
	g.viewport = v
	g.invalidate()
}

// Viewport returns the current viewport.
func (g *GeometrySource) Viewport() Span { return g.viewport }

// SetBounds records the extent of el.
func (g *GeometrySource) SetBounds(el ElementID, top, height float64) {
	s := Span{Top: top, Height: height}
	if cur, ok := g.bounds[el]; ok && cur == s {
		return
	}
	g.bounds[el] = s
	g.invalidate()
}

// RemoveBounds forgets el; it is reported as not intersecting.
func (g *GeometrySource) RemoveBounds(el ElementID) {
	if _, ok := g.bounds[el]; !ok {
		return
	}
	delete(g.bounds, el)
	g.invalidate()
}

// Observed returns the number of live observers.
func (g *GeometrySource) Observed() int { return len(g.observers) }

// Flush evaluates every observer immediately.
func (g *GeometrySource) Flush() {
	if g.pending != nil {
		g.pending()
		g.pending = nil
	}

	ids := make([]uint64, 0, len(g.observers))
	for id := range g.observers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		o, ok := g.observers[id]
		if !ok {
			continue
		}
		e := g.entry(o)
		if o.delivered && e == o.last {
			continue
		}
		o.last = e
		o.delivered = true
		o.fn(e)
	}
}

// Close drops every observer and the pending evaluation.
func (g *GeometrySource) Close() {
	if g.pending != nil {
		g.pending()
		g.pending = nil
	}
	g.observers = make(map[uint64]*observer)
}

func (g *GeometrySource) entry(o *observer) Entry {
	b, ok := g.bounds[o.el]
	if !ok {
		return Entry{Element: o.el}
	}
	in, ratio := Intersect(b, g.viewport, o.opts.RootMargin)
	return Entry{Element: o.el, IsIntersecting: in, Ratio: ratio}
}

func (g *GeometrySource) invalidate() {
	if g.pending != nil || len(g.observers) == 0 || g.sched == nil {
		return
	}
	g.pending = g.sched.RequestFrame(func(time.Time) {
		g.pending = nil
		g.Flush()
	})
}
