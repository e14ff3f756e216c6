package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inveropulse/interact/internal/config"
	"github.com/inveropulse/interact/internal/gesture"
	"github.com/inveropulse/interact/internal/host/hosttest"
	"github.com/inveropulse/interact/internal/logging"
	"github.com/inveropulse/interact/internal/pointer"
	"github.com/inveropulse/interact/internal/pull"
)

// Trace kinds.
const (
	TraceSwipe = "swipe"
	TracePull  = "pull"
)

// settleTime lets frame-coalesced notifications drain after the last event.
const settleTime = 100 * time.Millisecond

// maxRefreshWait bounds how long a replay waits for a refresh to finish.
const maxRefreshWait = 5 * time.Second

// Trace is a recorded single-pointer interaction.
type Trace struct {
	Kind string `yaml:"kind"`
	// Threshold overrides the configured threshold when positive.
	Threshold float64 `yaml:"threshold,omitempty"`
	// ScrollTop is the container offset during a pull trace.
	ScrollTop float64      `yaml:"scroll_top,omitempty"`
	Events    []TraceEvent `yaml:"events"`
}

// TraceEvent is one pointer sample, T milliseconds after the trace start.
type TraceEvent struct {
	T    int64   `yaml:"t"`
	Kind string  `yaml:"kind"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// ReplayResult summarises a replay.
type ReplayResult struct {
	States    int
	Actions   []string
	Refreshes int
	Pulses    []time.Duration
}

// LoadTrace reads and validates a YAML trace file.
func LoadTrace(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	var tr Trace
	if err := yaml.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("parsing trace %s: %w", path, err)
	}
	if err := tr.Validate(); err != nil {
		return nil, fmt.Errorf("invalid trace %s: %w", path, err)
	}
	return &tr, nil
}

// Validate checks the kind, the event kinds and their ordering.
func (t *Trace) Validate() error {
	if t.Kind != TraceSwipe && t.Kind != TracePull {
		return fmt.Errorf("%w: %q", ErrUnknownTraceKind, t.Kind)
	}
	if len(t.Events) == 0 {
		return ErrEmptyTrace
	}
	var last int64
	for i, ev := range t.Events {
		if _, err := pointer.ParseKind(ev.Kind); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		if ev.T < last {
			return fmt.Errorf("%w: event %d at %dms follows %dms", ErrTraceOrder, i, ev.T, last)
		}
		last = ev.T
	}
	return nil
}

// NewReplayCmd creates the replay command.
func NewReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <trace.yaml>",
		Short: "Replay a recorded pointer trace",
		Long: `Feeds a recorded pointer trace through the swipe tracker or the pull
controller on a simulated clock and prints every published state and
triggered action.

Trace format:

  kind: swipe          # or pull
  threshold: 80        # optional
  scroll_top: 0        # pull only
  events:
    - {t: 0, kind: down, x: 10, y: 10}
    - {t: 16, kind: move, x: 60, y: 12}
    - {t: 120, kind: up}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := LoadTrace(args[0])
			if err != nil {
				return err
			}
			log := *logging.FromContext(cmd.Context())
			_, err = Replay(cmd.OutOrStdout(), config.GetGlobalConfig(), tr, log)
			return err
		},
	}
}

// Replay runs tr on a fake clock and writes a line per event, state change
// and action to w.
func Replay(w io.Writer, cfg *config.Config, tr *Trace, log zerolog.Logger) (*ReplayResult, error) {
	r := &replayer{w: w, sched: hosttest.New(), res: &ReplayResult{}}

	var (
		h       pointer.Handler
		waitFor func() bool
	)
	switch tr.Kind {
	case TraceSwipe:
		h = r.swipeTracker(cfg, tr, log)
	case TracePull:
		c := r.pullController(cfg, tr, log)
		h, waitFor = c, c.IsRefreshing
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTraceKind, tr.Kind)
	}

	r.printf("replaying %s trace: %d events\n", tr.Kind, len(tr.Events))
	for _, ev := range tr.Events {
		kind, err := pointer.ParseKind(ev.Kind)
		if err != nil {
			return r.res, err
		}
		r.advanceTo(time.Duration(ev.T) * time.Millisecond)

		claimed, err := pointer.Dispatch(h, pointer.Event{Kind: kind, X: ev.X, Y: ev.Y})
		suffix := ""
		if claimed {
			suffix = "  claimed"
		}
		r.printf("%6dms  %-6s x=%.0f y=%.0f%s\n", ev.T, kind, ev.X, ev.Y, suffix)
		if err != nil {
			r.printf("%6dms  error   %v\n", ev.T, err)
			return r.res, fmt.Errorf("replaying event at %dms: %w", ev.T, err)
		}
	}

	if waitFor != nil {
		deadline := time.Now().Add(maxRefreshWait)
		for waitFor() && time.Now().Before(deadline) {
			r.sched.AwaitPosted(settleTime)
			r.sched.Advance(settleTime)
		}
	}
	r.sched.Advance(settleTime)
	r.res.Refreshes = int(r.refreshes.Load())

	for _, p := range r.res.Pulses {
		r.printf("haptic  %s\n", p)
	}
	return r.res, nil
}

type replayer struct {
	w     io.Writer
	sched *hosttest.Scheduler
	res   *ReplayResult

	// refreshes is written from the refresh goroutine.
	refreshes atomic.Int32
}

func (r *replayer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.w, format, args...)
}

func (r *replayer) elapsed() int64 {
	return r.sched.Now().Sub(hosttest.Epoch).Milliseconds()
}

func (r *replayer) advanceTo(offset time.Duration) {
	if d := hosttest.Epoch.Add(offset).Sub(r.sched.Now()); d > 0 {
		r.sched.Advance(d)
	}
}

func (r *replayer) swipeTracker(cfg *config.Config, tr *Trace, log zerolog.Logger) *gesture.Tracker {
	haptics := &recordingHaptics{res: r.res}
	opts := cfg.GestureOptions(haptics, log)
	if tr.Threshold > 0 {
		opts.Threshold = tr.Threshold
	}

	action := func(id, label string, c gesture.Color) gesture.Action {
		return gesture.Action{ID: id, Label: label, Color: c, OnAction: func() error {
			r.res.Actions = append(r.res.Actions, id)
			r.printf("%6dms  action  %s\n", r.elapsed(), id)
			return nil
		}}
	}
	opts.LeftActions = []gesture.Action{
		action("confirm", "Confirm", gesture.ColorSuccess),
		action("reschedule", "Reschedule", gesture.ColorWarning),
	}
	opts.RightActions = []gesture.Action{
		action("cancel", "Cancel", gesture.ColorDanger),
		action("archive", "Archive", gesture.ColorPrimary),
	}
	opts.OnSwipeStart = func() { r.printf("%6dms  swipe start\n", r.elapsed()) }
	opts.OnSwipeEnd = func() { r.printf("%6dms  swipe end\n", r.elapsed()) }
	opts.OnChange = func(s gesture.State) {
		r.res.States++
		armed := "-"
		if s.ActiveAction != nil {
			armed = s.ActiveAction.ID
		}
		r.printf("%6dms  state   offset=%.1f active=%t armed=%s\n", r.elapsed(), s.Offset, s.IsActive, armed)
	}
	return gesture.New(r.sched, opts)
}

func (r *replayer) pullController(cfg *config.Config, tr *Trace, log zerolog.Logger) *pull.Controller {
	opts := cfg.PullOptions(log)
	if tr.Threshold > 0 {
		opts.Threshold = tr.Threshold
		opts.PullDistance = max(opts.PullDistance, tr.Threshold)
	}
	scrollTop := tr.ScrollTop
	opts.ScrollTop = func() float64 { return scrollTop }
	opts.OnRefresh = func(_ context.Context) error {
		r.refreshes.Add(1)
		return nil
	}
	opts.OnChange = func(s pull.State) {
		r.res.States++
		r.printf("%6dms  state   phase=%s offset=%.1f\n", r.elapsed(), s.Phase, s.Offset)
	}
	return pull.New(r.sched, opts)
}

// recordingHaptics collects pulses into the result.
type recordingHaptics struct {
	res *ReplayResult
}

func (h *recordingHaptics) Vibrate(d time.Duration) {
	h.res.Pulses = append(h.res.Pulses, d)
}
