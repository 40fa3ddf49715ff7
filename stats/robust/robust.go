// Package robust provides the order-statistic primitives the RFI
// detectors calibrate their thresholds with: medians, percentiles, median
// absolute deviation, and a constant-edge median filter.
//
// All functions treat the input as a sample, leave it unmodified, and
// return NaN for empty input, so callers can thread empty selections
// through without special cases.
package robust

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean of x, or NaN for empty input.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

// Std returns the population standard deviation of x, or NaN for empty
// input.
func Std(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	mean := Mean(x)
	ss := 0.0
	for _, v := range x {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(x)))
}

// Median returns the sample median of x, or NaN for empty input. x is not
// modified.
func Median(x []float64) float64 {
	return Percentile(x, 50)
}

// MAD returns the median absolute deviation of x about its median, or NaN
// for empty input.
func MAD(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	med := Median(x)
	dev := make([]float64, len(x))
	for i, v := range x {
		dev[i] = math.Abs(v - med)
	}
	return Median(dev)
}

// Percentile returns the p-th percentile of x (p in [0, 100]) using linear
// interpolation between closest ranks. Returns NaN for empty input; p is
// clamped to [0, 100]. x is not modified.
func Percentile(x []float64, p float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}

	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)

	pos := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// MedianFilter1D returns x filtered with a running median of the given
// odd window size, extending the signal at both edges by repeating the
// boundary samples. Window sizes below 2 return a copy of x; even sizes
// are rounded up to the next odd size.
func MedianFilter1D(x []float64, window int) []float64 {
	out := append([]float64(nil), x...)
	if window < 2 || len(x) == 0 {
		return out
	}
	if window%2 == 0 {
		window++
	}

	half := window / 2
	buf := make([]float64, window)
	for i := range x {
		for j := 0; j < window; j++ {
			k := i - half + j
			if k < 0 {
				k = 0
			}
			if k >= len(x) {
				k = len(x) - 1
			}
			buf[j] = x[k]
		}
		sort.Float64s(buf)
		out[i] = buf[half]
	}
	return out
}
