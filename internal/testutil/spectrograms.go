// Package testutil provides deterministic spectrogram builders and flag
// matrix assertions shared by the detector tests.
package testutil

import (
	"math"
	"math/rand"
	"testing"
)

// NoiseFloor returns a rows x cols row-major spectrogram of Gaussian
// noise around the given floor, generated from a fixed seed.
func NoiseFloor(seed int64, rows, cols int, floor, sigma float64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, rows*cols)
	for i := range out {
		out[i] = floor + sigma*rng.NormFloat64()
	}
	return out
}

// InjectSpike adds a narrow-band spike of the given amplitude into data
// at time row r and channel c.
func InjectSpike(data []float64, cols, r, c int, amplitude float64) {
	data[r*cols+c] += amplitude
}

// InjectBurst adds amplitude to channel c over time rows [r0, r1).
func InjectBurst(data []float64, cols, r0, r1, c int, amplitude float64) {
	for r := r0; r < r1; r++ {
		data[r*cols+c] += amplitude
	}
}

// InjectPulsedChannel adds a square pulse train of the given period (in
// rows) and amplitude to channel c across all rows.
func InjectPulsedChannel(data []float64, rows, cols, c, period int, amplitude float64) {
	for r := 0; r < rows; r++ {
		if (r/(period/2))%2 == 0 {
			data[r*cols+c] += amplitude
		}
	}
}

// FlaggedCells returns the flagged (row, channel) pairs of a row-major
// byte matrix.
func FlaggedCells(flags []byte, cols int) [][2]int {
	var out [][2]int
	for i, v := range flags {
		if v != 0 {
			out = append(out, [2]int{i / cols, i % cols})
		}
	}
	return out
}

// RequireSameFlags fails t if two flag buffers differ anywhere.
func RequireSameFlags(t *testing.T, got, want []byte) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("flag %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}
