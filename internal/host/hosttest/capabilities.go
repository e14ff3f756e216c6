package hosttest

import "time"

// Haptics records every pulse it is asked to emit.
type Haptics struct {
	Pulses []time.Duration
}

// Vibrate implements host.Haptics.
func (h *Haptics) Vibrate(d time.Duration) {
	h.Pulses = append(h.Pulses, d)
}

// Heap is a scripted host.HeapSource.
type Heap struct {
	Used, Limit uint64
	Unavailable bool
}

// HeapUsage implements host.HeapSource.
func (h *Heap) HeapUsage() (uint64, uint64, bool) {
	if h.Unavailable || h.Limit == 0 {
		return 0, 0, false
	}
	return h.Used, h.Limit, true
}
