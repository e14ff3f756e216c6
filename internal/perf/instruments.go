package perf

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// Instrument names.
const (
	MetricFPS            = "interact.perf.fps"
	MetricMemoryRatio    = "interact.perf.memory.ratio"
	MetricRenderDuration = "interact.perf.render.duration"
	MetricOptimal        = "interact.perf.optimal"
)

// RegisterInstruments exposes the sampler's metrics as observable gauges on
// meter. The memory gauge is only observed while memory is available.
// Unregister the returned registration before discarding the sampler.
func RegisterInstruments(meter metric.Meter, s *Sampler) (metric.Registration, error) {
	fps, err := meter.Float64ObservableGauge(MetricFPS,
		metric.WithDescription("Mean frames per second over recent one-second windows"),
		metric.WithUnit("{frame}/s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fps gauge: %w", err)
	}

	mem, err := meter.Float64ObservableGauge(MetricMemoryRatio,
		metric.WithDescription("Heap usage as a percentage of the heap limit"),
		metric.WithUnit("%"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating memory gauge: %w", err)
	}

	render, err := meter.Float64ObservableGauge(MetricRenderDuration,
		metric.WithDescription("Duration of the last measured render"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating render gauge: %w", err)
	}

	optimal, err := meter.Int64ObservableGauge(MetricOptimal,
		metric.WithDescription("1 when every performance threshold is met"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating optimal gauge: %w", err)
	}

	reg, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		m := s.Metrics()
		o.ObserveFloat64(fps, m.FPS)
		if m.HasMemory {
			o.ObserveFloat64(mem, m.MemoryRatio)
		}
		o.ObserveFloat64(render, m.RenderDurationMs)
		var flag int64
		if m.IsOptimal {
			flag = 1
		}
		o.ObserveInt64(optimal, flag)
		return nil
	}, fps, mem, render, optimal)
	if err != nil {
		return nil, fmt.Errorf("registering perf callback: %w", err)
	}
	return reg, nil
}
