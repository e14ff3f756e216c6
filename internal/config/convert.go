package config

import (
	"github.com/rs/zerolog"

	"github.com/inveropulse/interact/internal/gesture"
	"github.com/inveropulse/interact/internal/host"
	"github.com/inveropulse/interact/internal/perf"
	"github.com/inveropulse/interact/internal/pull"
	"github.com/inveropulse/interact/internal/virtual"
	"github.com/inveropulse/interact/internal/visibility"
)

const bytesPerMB = 1 << 20

// GestureOptions returns tracker options carrying the configured threshold.
// haptics is only attached when enabled in the config. Callers add actions
// and callbacks.
func (c *Config) GestureOptions(haptics host.Haptics, logger zerolog.Logger) gesture.Options {
	opts := gesture.Options{
		Threshold: c.Gesture.Threshold,
		Logger:    logger,
	}
	if c.Gesture.Haptics {
		opts.Haptics = haptics
	}
	return opts
}

// PullOptions returns controller options carrying the configured geometry.
func (c *Config) PullOptions(logger zerolog.Logger) pull.Options {
	return pull.Options{
		Threshold:          c.Pull.Threshold,
		PullDistance:       c.Pull.PullDistance,
		MinRefreshDuration: c.Pull.MinRefreshDuration,
		Logger:             logger,
	}
}

// VirtualizerConfig returns the virtualizer configuration for a container of
// the given height.
func (c *Config) VirtualizerConfig(containerHeight float64) virtual.Config {
	cfg := virtual.Config{
		ItemHeight:      c.Virtual.ItemHeight,
		ContainerHeight: containerHeight,
		DisableBelow:    c.Virtual.DisableBelow,
	}
	if c.Virtual.Overscan != nil {
		o := *c.Virtual.Overscan
		cfg.Overscan = &o
	}
	return cfg
}

// InfiniteScrollOptions returns the sentinel thresholds. Callers add the
// paging callbacks.
func (c *Config) InfiniteScrollOptions() visibility.InfiniteScrollOptions {
	return visibility.InfiniteScrollOptions{
		Threshold:  c.Visibility.Threshold,
		RootMargin: c.Visibility.RootMargin,
	}
}

// StaggerOptions returns stagger options for count elements.
func (c *Config) StaggerOptions(count int) visibility.StaggerOptions {
	return visibility.StaggerOptions{
		Count:        count,
		StaggerDelay: c.Visibility.StaggerDelay,
		Threshold:    c.Visibility.Threshold,
		RootMargin:   c.Visibility.RootMargin,
	}
}

// SamplerOptions returns sampler options. A configured memory limit replaces
// the runtime's own soft limit.
func (c *Config) SamplerOptions(logger zerolog.Logger) perf.Options {
	opts := perf.Options{
		TrackFPS:        c.Perf.TrackFPS,
		TrackMemory:     c.Perf.TrackMemory,
		TrackRenderTime: c.Perf.TrackRenderTime,
		Logger:          logger,
	}
	if c.Perf.TrackMemory {
		opts.Heap = host.RuntimeHeap{Limit: c.Perf.MemoryLimitMB * bytesPerMB}
	}
	return opts
}
