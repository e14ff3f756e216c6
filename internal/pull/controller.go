// Package pull implements pull-to-refresh: a vertical pull that is only
// allowed while the container is scrolled to its top, damped by elastic
// resistance and completed by an asynchronous refresh.
package pull

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/inveropulse/interact/internal/host"
)

// Defaults for Options.
const (
	DefaultThreshold          = 80.0
	DefaultPullDistance       = 120.0
	DefaultMinRefreshDuration = 500 * time.Millisecond
)

const (
	// topTolerance absorbs sub-pixel rounding of scrollTop.
	topTolerance  = 5.0
	minResistance = 0.3
)

// Indicator labels.
const (
	LabelPull       = "Pull to refresh"
	LabelRelease    = "Release to refresh"
	LabelRefreshing = "Refreshing…"
)

// Options configures a Controller.
type Options struct {
	// OnRefresh runs on its own goroutine. The context is cancelled when the
	// controller is closed.
	OnRefresh func(ctx context.Context) error

	Threshold          float64
	PullDistance       float64
	MinRefreshDuration time.Duration
	Disabled           bool

	// ScrollTop reads the container's scroll offset. Nil means the
	// container never scrolls.
	ScrollTop func() float64

	OnChange func(State)
	// OnError receives refresh errors. When nil they are logged.
	OnError func(error)

	Logger zerolog.Logger
}

// Controller is the pull-to-refresh state machine. All methods must be
// called from the scheduler's UI goroutine.
type Controller struct {
	opts  Options
	sched host.Scheduler
	log   zerolog.Logger
	pub   *host.Publisher[State]

	state  State
	startY float64

	refreshStart  time.Time
	cancelRefresh context.CancelFunc
	cancelReset   host.CancelFunc
	generation    uint64
}

// New creates an idle Controller.
func New(sched host.Scheduler, opts Options) *Controller {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.PullDistance <= 0 {
		opts.PullDistance = DefaultPullDistance
	}
	if opts.MinRefreshDuration <= 0 {
		opts.MinRefreshDuration = DefaultMinRefreshDuration
	}
	return &Controller{
		opts:  opts,
		sched: sched,
		log:   opts.Logger.With().Str("component", "pull").Logger(),
		pub:   host.NewPublisher(sched, opts.OnChange),
	}
}

// State returns the live state.
func (c *Controller) State() State { return c.state }

// Offset returns the published pull offset.
func (c *Controller) Offset() float64 { return c.state.Offset }

// IsPulling reports whether a pull is in progress.
func (c *Controller) IsPulling() bool { return c.state.Phase == Pulling }

// IsRefreshing reports whether a refresh is in flight or finishing.
func (c *Controller) IsRefreshing() bool { return c.state.Phase == Refreshing }

// Threshold returns the effective refresh threshold.
func (c *Controller) Threshold() float64 { return c.opts.Threshold }

// PullDistance returns the effective offset cap.
func (c *Controller) PullDistance() float64 { return c.opts.PullDistance }

// Progress returns offset/threshold capped at 1.
func (c *Controller) Progress() float64 {
	return math.Min(c.state.Offset/c.opts.Threshold, 1)
}

// ShouldShowIndicator reports whether the pull indicator is visible.
func (c *Controller) ShouldShowIndicator() bool {
	return c.state.Offset > 0 || c.state.Phase == Refreshing
}

// Label returns the indicator text for the current state.
func (c *Controller) Label() string {
	switch {
	case c.state.Phase == Refreshing:
		return LabelRefreshing
	case c.Progress() >= 1:
		return LabelRelease
	default:
		return LabelPull
	}
}

// SetDisabled toggles input handling. An active pull is cancelled; an
// in-flight refresh is left to finish.
func (c *Controller) SetDisabled(disabled bool) {
	c.opts.Disabled = disabled
	if disabled {
		c.Cancel()
	}
}

// Down implements pointer.Handler. The pull arms only when the container
// is at its top and no refresh is running.
func (c *Controller) Down(_, y float64) {
	if c.opts.Disabled || c.state.Phase == Refreshing {
		return
	}
	if !c.atTop() {
		c.set(State{Phase: Idle})
		return
	}
	c.startY = y
	c.set(State{Phase: CanPull})
}

// Move implements pointer.Handler. It reports true while it is consuming
// downward movement.
func (c *Controller) Move(_, y float64) bool {
	if c.state.Phase != CanPull && c.state.Phase != Pulling {
		return false
	}
	if !c.atTop() {
		c.escape()
		return false
	}

	deltaY := y - c.startY
	if deltaY <= 0 {
		return false
	}

	resistance := math.Max(minResistance, 1-deltaY/c.opts.PullDistance)
	offset := math.Min(deltaY*resistance, c.opts.PullDistance)
	c.set(State{Phase: Pulling, Offset: offset})
	return true
}

// Up implements pointer.Handler. A release past the threshold starts the
// refresh; anything else returns to Idle. Refresh errors are reported
// asynchronously, so Up itself never fails.
func (c *Controller) Up() error {
	switch c.state.Phase {
	case CanPull:
		c.set(State{Phase: Idle})
	case Pulling:
		if c.state.Offset >= c.opts.Threshold {
			c.Trigger()
			return nil
		}
		c.set(State{Phase: Idle})
	case Idle, Refreshing:
	}
	return nil
}

// Cancel implements pointer.Handler.
func (c *Controller) Cancel() {
	if c.state.Phase == CanPull || c.state.Phase == Pulling {
		c.set(State{Phase: Idle})
	}
}

// Scroll tells the controller the container scrolled. Leaving the top
// while pulling cancels the pull.
func (c *Controller) Scroll(scrollTop float64) {
	if scrollTop <= topTolerance {
		return
	}
	if c.state.Phase == CanPull || c.state.Phase == Pulling {
		c.escape()
	}
}

// Trigger starts a refresh as if the user had released past the
// threshold. It returns false when a refresh is already running.
func (c *Controller) Trigger() bool {
	if c.state.Phase == Refreshing {
		return false
	}

	c.generation++
	gen := c.generation
	c.refreshStart = c.sched.Now()
	c.set(State{Phase: Refreshing, Offset: math.Min(c.opts.Threshold, c.opts.PullDistance)})
	c.log.Debug().Msg("refresh started")

	if c.opts.OnRefresh == nil {
		c.complete(gen, nil, nil)
		return true
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancelRefresh = cancel
	refresh := c.opts.OnRefresh
	go func() {
		var (
			err      error
			panicked any
		)
		func() {
			defer func() { panicked = recover() }()
			err = refresh(ctx)
		}()
		c.sched.Post(func() { c.complete(gen, err, panicked) })
	}()
	return true
}

// Close cancels the in-flight refresh context, the pending reset and any
// scheduled notification, and returns to Idle.
func (c *Controller) Close() {
	c.generation++
	if c.cancelRefresh != nil {
		c.cancelRefresh()
		c.cancelRefresh = nil
	}
	if c.cancelReset != nil {
		c.cancelReset()
		c.cancelReset = nil
	}
	c.pub.Cancel()
	c.state = State{Phase: Idle}
}

// complete runs on the UI goroutine once OnRefresh returned. The
// Refreshing phase lasts at least MinRefreshDuration from its start.
func (c *Controller) complete(gen uint64, err error, panicked any) {
	if gen != c.generation || c.state.Phase != Refreshing {
		return
	}
	if c.cancelRefresh != nil {
		c.cancelRefresh()
		c.cancelRefresh = nil
	}

	elapsed := c.sched.Now().Sub(c.refreshStart)
	if remaining := c.opts.MinRefreshDuration - elapsed; remaining > 0 {
		c.cancelReset = c.sched.AfterFunc(remaining, c.finish)
	} else {
		c.finish()
	}

	if err != nil {
		c.report(fmt.Errorf("refresh failed: %w", err))
	}
	if panicked != nil {
		panic(panicked)
	}
}

func (c *Controller) finish() {
	c.cancelReset = nil
	c.set(State{Phase: Idle})
	c.log.Debug().Dur("elapsed", c.sched.Now().Sub(c.refreshStart)).Msg("refresh finished")
}

func (c *Controller) report(err error) {
	if c.opts.OnError != nil {
		c.opts.OnError(err)
		return
	}
	c.log.Warn().Err(err).Msg("refresh callback returned an error")
}

func (c *Controller) escape() {
	c.log.Debug().Float64("offset", c.state.Offset).Msg("pull cancelled by scroll")
	c.set(State{Phase: Idle})
}

func (c *Controller) atTop() bool {
	if c.opts.ScrollTop == nil {
		return true
	}
	return c.opts.ScrollTop() <= topTolerance
}

func (c *Controller) set(s State) {
	if s == c.state {
		return
	}
	c.state = s
	c.pub.Set(s)
}
