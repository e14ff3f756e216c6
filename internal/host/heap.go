package host

import (
	"math"
	"runtime/debug"
	"runtime/metrics"
)

const heapObjectsMetric = "/memory/classes/heap/objects:bytes"

// RuntimeHeap reports Go heap usage against the process memory limit.
// Limit overrides the limit read from debug.SetMemoryLimit; when neither is
// set the heap signal is unavailable.
type RuntimeHeap struct {
	Limit uint64
}

// HeapUsage implements HeapSource.
func (h RuntimeHeap) HeapUsage() (uint64, uint64, bool) {
	limit := h.Limit
	if limit == 0 {
		l := debug.SetMemoryLimit(-1)
		if l <= 0 || l == math.MaxInt64 {
			return 0, 0, false
		}
		limit = uint64(l)
	}

	sample := []metrics.Sample{{Name: heapObjectsMetric}}
	metrics.Read(sample)
	if sample[0].Value.Kind() != metrics.KindUint64 {
		return 0, 0, false
	}
	return sample[0].Value.Uint64(), limit, true
}
