package recurrence

import "math"

// Norm measures the distance between two embedded vectors of equal
// length.
type Norm func(a, b []float64) float64

// L1 is the Manhattan distance.
func L1(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}

// L2 is the Euclidean distance.
func L2(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// LInf is the maximum (Chebyshev) distance.
func LInf(a, b []float64) float64 {
	max := 0.0
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > max {
			max = d
		}
	}
	return max
}
