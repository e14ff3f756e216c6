package virtual_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/inveropulse/interact/internal/virtual"
)

// TestCompute covers the documented example and edge geometry.
func TestCompute(t *testing.T) {
	tests := []struct {
		name string
		p    virtual.Params
		want virtual.Window
	}{
		{
			name: "documented example",
			p:    virtual.Params{ItemHeight: 50, ContainerHeight: 500, Overscan: 5, ItemCount: 1000, ScrollTop: 2000},
			want: virtual.Window{StartIndex: 35, EndIndex: 55, OffsetY: 1750, TotalHeight: 50000},
		},
		{
			name: "top of list",
			p:    virtual.Params{ItemHeight: 50, ContainerHeight: 500, Overscan: 5, ItemCount: 1000},
			want: virtual.Window{StartIndex: 0, EndIndex: 20, OffsetY: 0, TotalHeight: 50000},
		},
		{
			name: "end of list clamps end index",
			p:    virtual.Params{ItemHeight: 50, ContainerHeight: 500, Overscan: 5, ItemCount: 1000, ScrollTop: 49500},
			want: virtual.Window{StartIndex: 985, EndIndex: 999, OffsetY: 49250, TotalHeight: 50000},
		},
		{
			name: "fractional container rounds up",
			p:    virtual.Params{ItemHeight: 40, ContainerHeight: 410, Overscan: 0, ItemCount: 100, ScrollTop: 95},
			want: virtual.Window{StartIndex: 2, EndIndex: 13, OffsetY: 80, TotalHeight: 4000},
		},
		{
			name: "empty list",
			p:    virtual.Params{ItemHeight: 50, ContainerHeight: 500, Overscan: 5, ItemCount: 0, ScrollTop: 300},
			want: virtual.Window{},
		},
		{
			name: "negative count treated as empty",
			p:    virtual.Params{ItemHeight: 50, ContainerHeight: 500, Overscan: 5, ItemCount: -3},
			want: virtual.Window{},
		},
		{
			name: "zero item height treated as 1",
			p:    virtual.Params{ItemHeight: 0, ContainerHeight: 10, Overscan: 1, ItemCount: 100, ScrollTop: 20},
			want: virtual.Window{StartIndex: 19, EndIndex: 31, OffsetY: 19, TotalHeight: 100},
		},
		{
			name: "scroll past the end",
			p:    virtual.Params{ItemHeight: 10, ContainerHeight: 50, Overscan: 2, ItemCount: 5, ScrollTop: 10000},
			want: virtual.Window{StartIndex: 4, EndIndex: 4, OffsetY: 40, TotalHeight: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := virtual.Compute(tt.p)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Compute() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestSlice returns exactly the windowed items.
func TestSlice(t *testing.T) {
	items := make([]int, 30)
	for i := range items {
		items[i] = i
	}

	w := virtual.Window{StartIndex: 10, EndIndex: 14, TotalHeight: 30}
	assert.Equal(t, []int{10, 11, 12, 13, 14}, virtual.Slice(items, w))
	assert.Nil(t, virtual.Slice(items, virtual.Window{}))
	assert.Equal(t, []int{28, 29}, virtual.Slice(items, virtual.Window{StartIndex: 28, EndIndex: 40, TotalHeight: 41}))
}

// TestComputeProperties checks containment and bounds for arbitrary input.
func TestComputeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	geometry := func(itemHeight, containerHeight float64, overscan, itemCount int, scrollTop float64) virtual.Params {
		return virtual.Params{
			ItemHeight:      itemHeight,
			ContainerHeight: containerHeight,
			Overscan:        overscan,
			ItemCount:       itemCount,
			ScrollTop:       scrollTop,
		}
	}

	properties.Property("window contains the first visible index", prop.ForAll(
		func(itemHeight, containerHeight float64, overscan, itemCount int, scrollTop float64) bool {
			p := geometry(itemHeight, containerHeight, overscan, itemCount, scrollTop)
			w := virtual.Compute(p)
			first := int(math.Floor(scrollTop / itemHeight))
			if first >= itemCount {
				return true
			}
			return w.StartIndex <= first && first <= w.EndIndex
		},
		gen.Float64Range(0.5, 200),
		gen.Float64Range(0.5, 2000),
		gen.IntRange(0, 20),
		gen.IntRange(0, 100000),
		gen.Float64Range(0, 1e6),
	))

	properties.Property("bounds and derived fields hold", prop.ForAll(
		func(itemHeight, containerHeight float64, overscan, itemCount int, scrollTop float64) bool {
			p := geometry(itemHeight, containerHeight, overscan, itemCount, scrollTop)
			w := virtual.Compute(p)
			n := max(0, itemCount)
			h := itemHeight
			if h <= 0 {
				h = 1
			}
			return 0 <= w.StartIndex &&
				w.StartIndex <= w.EndIndex &&
				w.EndIndex <= max(0, n-1) &&
				w.OffsetY == float64(w.StartIndex)*h &&
				w.TotalHeight == float64(n)*h
		},
		gen.Float64Range(-10, 200),
		gen.Float64Range(0, 2000),
		gen.IntRange(0, 20),
		gen.IntRange(-10, 100000),
		gen.Float64Range(0, 1e6),
	))

	properties.TestingRun(t)
}
