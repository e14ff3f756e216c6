package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/inveropulse/interact/internal/config"
	"github.com/inveropulse/interact/internal/host"
	"github.com/inveropulse/interact/internal/logging"
	"github.com/inveropulse/interact/internal/perf"
)

// meterName scopes the instruments registered by the sample command.
const meterName = "github.com/inveropulse/interact"

// sampleFlags holds the flags of the sample command.
type sampleFlags struct {
	duration time.Duration
	work     time.Duration
}

// SampleReport is the outcome of a sampling run.
type SampleReport struct {
	Metrics perf.Metrics
	History []float64
	// Gauges holds the last exported value of every perf instrument.
	Gauges map[string]float64
}

// NewSampleCmd creates the sample command.
func NewSampleCmd() *cobra.Command {
	var flags sampleFlags

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Sample frame rate, memory and render time under a synthetic load",
		Long: `Runs the performance sampler on a standalone UI loop while a workload
renders once per frame, then prints the sampled metrics and the values
exported through the OpenTelemetry instruments.`,
		Example: `  # Five seconds of light rendering
  interact sample --duration 5s

  # Over budget: 20ms per render
  interact sample --duration 3s --work 20ms`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := RunSample(cmd.Context(), config.GetGlobalConfig(), flags.duration, flags.work)
			if err != nil {
				return err
			}
			writeSampleReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().DurationVar(&flags.duration, "duration", 3*time.Second, "how long to sample")
	cmd.Flags().DurationVar(&flags.work, "work", 2*time.Millisecond, "simulated render cost per frame")

	return cmd
}

// RunSample samples a synthetic render workload for d. Each frame's render
// spins for work on the UI loop.
func RunSample(ctx context.Context, cfg *config.Config, d, work time.Duration) (*SampleReport, error) {
	log := *logging.FromContext(ctx)
	loop := host.NewLoop()
	sampler := perf.New(loop, cfg.SamplerOptions(log))

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(context.WithoutCancel(ctx)) }()

	reg, err := perf.RegisterInstruments(provider.Meter(meterName), sampler)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reg.Unregister() }()

	loop.Post(sampler.Start)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.RunFor(gctx, d)
	})
	g.Go(func() error {
		workCtx, cancel := context.WithTimeout(gctx, d)
		defer cancel()
		renderLoop(workCtx, loop, sampler, work)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sampling: %w", err)
	}

	// The loop has exited, so this goroutine now owns the sampler.
	sampler.Stop()

	gauges, err := collectGauges(ctx, reader)
	if err != nil {
		return nil, err
	}
	logger.Debug().Ctx(ctx).Dur("duration", d).Dur("work", work).Msg("sampling finished")

	return &SampleReport{
		Metrics: sampler.Metrics(),
		History: sampler.History(),
		Gauges:  gauges,
	}, nil
}

// renderLoop posts one measured render per frame interval until ctx ends.
func renderLoop(ctx context.Context, loop *host.Loop, sampler *perf.Sampler, work time.Duration) {
	ticker := time.NewTicker(host.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			loop.Post(func() {
				sampler.StartRender()
				spin(work)
				sampler.EndRender()
			})
		}
	}
}

// spin busy-waits for d, standing in for layout and paint.
func spin(d time.Duration) {
	for start := time.Now(); time.Since(start) < d; { //nolint:revive // busy wait
	}
}

func collectGauges(ctx context.Context, reader *sdkmetric.ManualReader) (map[string]float64, error) {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("collecting metrics: %w", err)
	}

	gauges := make(map[string]float64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Gauge[float64]:
				for _, dp := range data.DataPoints {
					gauges[m.Name] = dp.Value
				}
			case metricdata.Gauge[int64]:
				for _, dp := range data.DataPoints {
					gauges[m.Name] = float64(dp.Value)
				}
			}
		}
	}
	return gauges, nil
}

func writeSampleReport(w io.Writer, r *SampleReport) {
	p := message.NewPrinter(language.English)
	m := r.Metrics

	_, _ = p.Fprintf(w, "%-10s %.1f\n", "fps", m.FPS)
	if m.HasMemory {
		_, _ = p.Fprintf(w, "%-10s %.1f%%\n", "memory", m.MemoryRatio)
	} else {
		_, _ = p.Fprintf(w, "%-10s n/a\n", "memory")
	}
	_, _ = p.Fprintf(w, "%-10s %.2fms\n", "render", m.RenderDurationMs)
	_, _ = p.Fprintf(w, "%-10s %t\n", "optimal", m.IsOptimal)
	_, _ = p.Fprintf(w, "%-10s %d windows\n", "history", len(r.History))

	if len(r.Gauges) == 0 {
		return
	}
	names := make([]string, 0, len(r.Gauges))
	for name := range r.Gauges {
		names = append(names, name)
	}
	sort.Strings(names)
	_, _ = p.Fprintln(w, "\nexported:")
	for _, name := range names {
		_, _ = p.Fprintf(w, "  %-32s %.2f\n", name, r.Gauges[name])
	}
}
