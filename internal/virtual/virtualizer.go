package virtual

import (
	"github.com/inveropulse/interact/internal/host"
)

// DefaultDisableBelow is the item count at or under which windowing is
// skipped and the whole list is rendered.
const DefaultDisableBelow = 100

// Config configures a Virtualizer.
type Config struct {
	ItemHeight      float64
	ContainerHeight float64
	// Overscan defaults to DefaultOverscan when nil.
	Overscan *int
	// DisableBelow defaults to DefaultDisableBelow when 0; negative never
	// disables.
	DisableBelow int
}

// Virtualizer keeps the last known scroll offset and recomputes the window
// on every change. It has no other state.
type Virtualizer struct {
	cfg       Config
	itemCount int
	scrollTop float64
	forced    *bool
}

// New creates a Virtualizer for itemCount items.
func New(cfg Config, itemCount int) *Virtualizer {
	if cfg.Overscan == nil {
		o := DefaultOverscan
		cfg.Overscan = &o
	}
	if cfg.DisableBelow == 0 {
		cfg.DisableBelow = DefaultDisableBelow
	}
	return &Virtualizer{cfg: cfg, itemCount: itemCount}
}

// Enabled reports whether windowing is applied.
func (v *Virtualizer) Enabled() bool {
	if v.forced != nil {
		return *v.forced
	}
	return v.itemCount > v.cfg.DisableBelow
}

// SetEnabled forces windowing on or off, overriding the item count rule.
// Either mode renders the same rows at the same positions; only the number
// of rows materialised changes.
func (v *Virtualizer) SetEnabled(enabled bool) {
	v.forced = &enabled
}

// ClearEnabled restores the item count rule.
func (v *Virtualizer) ClearEnabled() {
	v.forced = nil
}

// SetItemCount updates the list length.
func (v *Virtualizer) SetItemCount(n int) {
	v.itemCount = max(0, n)
}

// ItemCount returns the list length.
func (v *Virtualizer) ItemCount() int {
	return v.itemCount
}

// Resize updates the container height.
func (v *Virtualizer) Resize(containerHeight float64) {
	v.cfg.ContainerHeight = containerHeight
}

// ScrollTop returns the last scroll offset seen.
func (v *Virtualizer) ScrollTop() float64 {
	return v.scrollTop
}

// MaxScrollTop returns the largest meaningful scroll offset.
func (v *Virtualizer) MaxScrollTop() float64 {
	total := Full(v.cfg.ItemHeight, v.itemCount).TotalHeight
	return max(0, total-v.cfg.ContainerHeight)
}

// OnScroll records scrollTop and returns the new window.
func (v *Virtualizer) OnScroll(scrollTop float64) Window {
	v.scrollTop = scrollTop
	return v.Window()
}

// Window returns the window for the current state.
func (v *Virtualizer) Window() Window {
	if !v.Enabled() {
		return Full(v.cfg.ItemHeight, v.itemCount)
	}
	return Compute(Params{
		ItemHeight:      v.cfg.ItemHeight,
		ContainerHeight: v.cfg.ContainerHeight,
		Overscan:        *v.cfg.Overscan,
		ItemCount:       v.itemCount,
		ScrollTop:       v.scrollTop,
	})
}

// ScrollAdapter feeds scroll notifications into a Virtualizer, coalescing
// bursts so the window is recomputed at most once per frame.
type ScrollAdapter struct {
	v   *Virtualizer
	pub *host.Publisher[float64]
}

// NewScrollAdapter calls onWindow with the window for the latest scroll
// offset on each frame that saw scrolling.
func NewScrollAdapter(sched host.Scheduler, v *Virtualizer, onWindow func(Window)) *ScrollAdapter {
	a := &ScrollAdapter{v: v}
	a.pub = host.NewPublisher(sched, func(scrollTop float64) {
		onWindow(v.OnScroll(scrollTop))
	})
	return a
}

// Scroll records a scroll notification.
func (a *ScrollAdapter) Scroll(scrollTop float64) {
	a.pub.Set(scrollTop)
}

// Close drops any pending recomputation.
func (a *ScrollAdapter) Close() {
	a.pub.Cancel()
}
