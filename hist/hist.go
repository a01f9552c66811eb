// Package hist holds clamped k-mer frequency histograms and their file
// form. A histogram covers the count range [Low, High]; counts at or
// below Low land in the Low bucket, counts at or above High in the High
// bucket. Both Venn subset histograms and standalone count histograms
// use this shape.
package hist

import (
	"fmt"
)

// CountCap is the largest representable count; histogram bounds must
// stay at or below it.
const CountCap = 0x7fff

// Histogram is a clamped frequency histogram over [Low, High].
type Histogram struct {
	K    int
	Low  int
	High int

	// Buckets has High-Low+1 cells; index 0 holds frequency Low.
	Buckets []int64
}

// New creates an empty histogram for k-mers of length k over the count
// range [low, high].
func New(k, low, high int) (*Histogram, error) {
	if low < 1 || low > high || high > CountCap {
		return nil, fmt.Errorf("hist: range [%d,%d] is invalid", low, high)
	}
	return &Histogram{
		K:       k,
		Low:     low,
		High:    high,
		Buckets: make([]int64, high-low+1),
	}, nil
}

func (h *Histogram) clamp(count int) int {
	if count <= h.Low {
		return 0
	}
	if count >= h.High {
		return h.High - h.Low
	}
	return count - h.Low
}

// Bump records one observation of the given count.
func (h *Histogram) Bump(count int) {
	h.Buckets[h.clamp(count)]++
}

// Add records n observations of the given count.
func (h *Histogram) Add(count int, n int64) {
	h.Buckets[h.clamp(count)] += n
}

// Get returns the bucket the given count falls into.
func (h *Histogram) Get(count int) int64 {
	return h.Buckets[h.clamp(count)]
}

// Total returns the sum over all buckets.
func (h *Histogram) Total() int64 {
	var t int64
	for _, n := range h.Buckets {
		t += n
	}
	return t
}

// Modify narrows the histogram to [low, high] in place, folding the
// cells outside the new range into its boundary buckets. If unique is
// false the cells are additionally converted from distinct-k-mer counts
// to instance counts by weighting each cell with its frequency; for the
// clamped boundary cells the boundary frequency is used, a floor of the
// true instance total.
func (h *Histogram) Modify(low, high int, unique bool) error {
	if low < h.Low || high > h.High || low > high {
		return fmt.Errorf("hist: range [%d,%d] does not fall within [%d,%d]", low, high, h.Low, h.High)
	}

	buckets := make([]int64, high-low+1)
	for j := h.Low; j <= h.High; j++ {
		n := h.Buckets[j-h.Low]
		switch {
		case j <= low:
			buckets[0] += n
		case j >= high:
			buckets[high-low] += n
		default:
			buckets[j-low] = n
		}
	}
	if !unique {
		for j := low; j <= high; j++ {
			buckets[j-low] *= int64(j)
		}
	}

	h.Low = low
	h.High = high
	h.Buckets = buckets
	return nil
}
