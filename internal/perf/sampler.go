// Package perf samples frame rate, heap pressure and render duration into a
// single "is performance optimal" signal. Sampling is observational: it never
// changes what the host renders.
package perf

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/inveropulse/interact/internal/host"
)

// Optimality thresholds.
const (
	MinOptimalFPS     = 55.0
	MaxMemoryRatio    = 70.0
	FrameBudgetMs     = 16.67
	FPSWindow         = time.Second
	MemoryInterval    = 2 * time.Second
	HistorySize       = 10
	initialFPS        = 60.0
	millisPerDuration = float64(time.Millisecond)
)

// Metrics is a snapshot of the sampler's view of performance.
type Metrics struct {
	// FPS is the mean of the recorded one-second windows. It reads 60 until
	// the first window completes.
	FPS float64
	// MemoryRatio is heap used over heap limit, in percent. Only meaningful
	// when HasMemory is set.
	MemoryRatio      float64
	HasMemory        bool
	RenderDurationMs float64
	IsOptimal        bool
}

// Optimal reports whether m meets every threshold.
func (m Metrics) Optimal() bool {
	if m.FPS < MinOptimalFPS {
		return false
	}
	if m.HasMemory && m.MemoryRatio >= MaxMemoryRatio {
		return false
	}
	return m.RenderDurationMs < FrameBudgetMs
}

// Options configures a Sampler.
type Options struct {
	TrackFPS        bool
	TrackMemory     bool
	TrackRenderTime bool

	// Heap supplies memory statistics. nil disables memory sampling.
	Heap host.HeapSource

	// OnMetricsUpdate runs on the UI goroutine after every change.
	OnMetricsUpdate func(Metrics)

	Logger zerolog.Logger
}

// DefaultOptions tracks everything.
func DefaultOptions() Options {
	return Options{TrackFPS: true, TrackMemory: true, TrackRenderTime: true, Logger: zerolog.Nop()}
}

// Sampler collects performance samples on the UI goroutine. Metrics may be
// read from any goroutine.
type Sampler struct {
	sched host.Scheduler
	opts  Options
	log   zerolog.Logger

	running     bool
	frameCancel host.CancelFunc
	memCancel   host.CancelFunc

	frames      int
	windowStart time.Time
	history     []float64

	renderStart time.Time
	rendering   bool

	current  Metrics
	snapshot atomic.Pointer[Metrics]
}

// New returns a stopped sampler.
func New(sched host.Scheduler, opts Options) *Sampler {
	s := &Sampler{
		sched: sched,
		opts:  opts,
		log:   opts.Logger.With().Str("component", "perf").Logger(),
	}
	s.current = Metrics{FPS: initialFPS}
	s.current.IsOptimal = s.current.Optimal()
	m := s.current
	s.snapshot.Store(&m)
	return s
}

// Start begins sampling. Starting a running sampler is a no-op.
func (s *Sampler) Start() {
	if s.running {
		return
	}
	s.running = true

	if s.opts.TrackFPS {
		s.frames = 0
		s.windowStart = s.sched.Now()
		s.frameCancel = s.sched.RequestFrame(s.onFrame)
	}
	if s.opts.TrackMemory && s.opts.Heap != nil {
		s.sampleMemory()
	}
	s.log.Debug().
		Bool("fps", s.opts.TrackFPS).
		Bool("memory", s.opts.TrackMemory).
		Bool("render", s.opts.TrackRenderTime).
		Msg("sampler started")
}

// Stop cancels every pending frame and timer.
func (s *Sampler) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.rendering = false
	if s.frameCancel != nil {
		s.frameCancel()
		s.frameCancel = nil
	}
	if s.memCancel != nil {
		s.memCancel()
		s.memCancel = nil
	}
	s.log.Debug().Msg("sampler stopped")
}

// Running reports whether Start has been called without a matching Stop.
func (s *Sampler) Running() bool { return s.running }

// StartRender marks the beginning of a render.
func (s *Sampler) StartRender() {
	if !s.opts.TrackRenderTime {
		return
	}
	s.renderStart = s.sched.Now()
	s.rendering = true
}

// EndRender records the duration since StartRender. Without a matching
// StartRender it does nothing.
func (s *Sampler) EndRender() {
	if !s.rendering {
		return
	}
	s.rendering = false
	d := s.sched.Now().Sub(s.renderStart)
	s.current.RenderDurationMs = float64(d) / millisPerDuration
	s.publish()
}

// Metrics returns the latest snapshot.
func (s *Sampler) Metrics() Metrics {
	return *s.snapshot.Load()
}

// IsOptimal reports the latest optimality verdict.
func (s *Sampler) IsOptimal() bool {
	return s.Metrics().IsOptimal
}

// History returns a copy of the recorded per-window frame rates, oldest first.
func (s *Sampler) History() []float64 {
	return append([]float64(nil), s.history...)
}

func (s *Sampler) onFrame(ts time.Time) {
	s.frameCancel = nil
	if !s.running {
		return
	}
	s.frames++

	elapsed := ts.Sub(s.windowStart)
	if elapsed >= FPSWindow {
		fps := float64(s.frames) * 1000 / (float64(elapsed) / millisPerDuration)
		s.history = append(s.history, fps)
		if len(s.history) > HistorySize {
			s.history = s.history[len(s.history)-HistorySize:]
		}
		s.frames = 0
		s.windowStart = ts
		s.current.FPS = mean(s.history)
		s.publish()
	}

	s.frameCancel = s.sched.RequestFrame(s.onFrame)
}

func (s *Sampler) sampleMemory() {
	used, limit, ok := s.opts.Heap.HeapUsage()
	if ok && limit > 0 {
		s.current.MemoryRatio = float64(used) / float64(limit) * 100
		s.current.HasMemory = true
	} else {
		s.current.MemoryRatio = 0
		s.current.HasMemory = false
	}
	s.publish()

	s.memCancel = s.sched.AfterFunc(MemoryInterval, func() {
		s.memCancel = nil
		if s.running {
			s.sampleMemory()
		}
	})
}

func (s *Sampler) publish() {
	s.current.IsOptimal = s.current.Optimal()
	m := s.current
	prev := s.snapshot.Swap(&m)
	if prev != nil && prev.IsOptimal != m.IsOptimal {
		s.log.Info().
			Bool("optimal", m.IsOptimal).
			Float64("fps", m.FPS).
			Float64("render_ms", m.RenderDurationMs).
			Msg("performance state changed")
	}
	if s.opts.OnMetricsUpdate != nil {
		s.opts.OnMetricsUpdate(m)
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
