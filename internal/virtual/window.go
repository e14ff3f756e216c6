// Package virtual computes which slice of a fixed-row-height list has to be
// rendered for a given scroll position.
package virtual

import "math"

// DefaultOverscan is the number of extra rows rendered above and below the
// viewport.
const DefaultOverscan = 5

// Params is the geometry of a scrolled list. Heights and offsets are in
// pixels (or rows for terminal hosts).
type Params struct {
	ItemHeight      float64
	ContainerHeight float64
	Overscan        int
	ItemCount       int
	ScrollTop       float64
}

// Window is the index range to render and where to place it.
type Window struct {
	StartIndex  int
	EndIndex    int
	OffsetY     float64
	TotalHeight float64
}

// Len returns the number of rendered rows, 0 for an empty list.
func (w Window) Len() int {
	if w.TotalHeight == 0 {
		return 0
	}
	return w.EndIndex - w.StartIndex + 1
}

// Contains reports whether index i is rendered.
func (w Window) Contains(i int) bool {
	return w.Len() > 0 && i >= w.StartIndex && i <= w.EndIndex
}

// Compute returns the window for p. Invalid geometry is clamped rather
// than rejected: negative counts become 0 and non-positive item heights
// become 1.
func Compute(p Params) Window {
	p = sanitize(p)
	if p.ItemCount == 0 {
		return Window{}
	}

	visibleCount := int(math.Ceil(p.ContainerHeight / p.ItemHeight))
	start := max(0, int(math.Floor(p.ScrollTop/p.ItemHeight))-p.Overscan)
	start = min(start, p.ItemCount-1)
	end := min(p.ItemCount-1, start+visibleCount+2*p.Overscan)

	return Window{
		StartIndex:  start,
		EndIndex:    end,
		OffsetY:     float64(start) * p.ItemHeight,
		TotalHeight: float64(p.ItemCount) * p.ItemHeight,
	}
}

// Full returns the window covering every item, used when virtualization is
// disabled.
func Full(itemHeight float64, itemCount int) Window {
	p := sanitize(Params{ItemHeight: itemHeight, ItemCount: itemCount})
	if p.ItemCount == 0 {
		return Window{}
	}
	return Window{
		StartIndex:  0,
		EndIndex:    p.ItemCount - 1,
		TotalHeight: float64(p.ItemCount) * p.ItemHeight,
	}
}

// Slice returns the items inside w.
func Slice[T any](items []T, w Window) []T {
	if w.Len() == 0 || w.StartIndex >= len(items) {
		return nil
	}
	end := min(w.EndIndex+1, len(items))
	return items[w.StartIndex:end]
}

func sanitize(p Params) Params {
	if p.ItemCount < 0 {
		p.ItemCount = 0
	}
	if p.ItemHeight <= 0 || math.IsNaN(p.ItemHeight) {
		p.ItemHeight = 1
	}
	if p.ContainerHeight < 0 || math.IsNaN(p.ContainerHeight) {
		p.ContainerHeight = 0
	}
	if p.ScrollTop < 0 || math.IsNaN(p.ScrollTop) {
		p.ScrollTop = 0
	}
	if p.Overscan < 0 {
		p.Overscan = 0
	}
	return p
}
