package dwt

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func maxAbsDiff(a, b []float64) float64 {
	m := 0.0
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > m {
			m = d
		}
	}
	return m
}

func randomSignal(seed int64, n int) []float64 {
	rng := rand.New(rand.NewSource(seed))
	x := make([]float64, n)
	for i := range x {
		x[i] = rng.NormFloat64()
	}
	return x
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		w     Wavelet
		n     int
		level int
	}{
		{"haar pow2", Haar(), 64, 0},
		{"haar odd", Haar(), 61, 0},
		{"haar shallow", Haar(), 100, 3},
		{"db4 even", DB4(), 48, 0},
		{"db4 odd", DB4(), 37, 2},
	}

	for _, c := range cases {
		x := randomSignal(1, c.n)

		coeffs, err := Wavedec(x, c.w, c.level)
		if err != nil {
			t.Fatalf("%s: Wavedec: %v", c.name, err)
		}

		rec := coeffs.Reconstruct(c.w)
		if len(rec) != c.n {
			t.Fatalf("%s: len = %d, want %d", c.name, len(rec), c.n)
		}
		if d := maxAbsDiff(rec, x); d > 1e-10 {
			t.Fatalf("%s: round-trip error %v", c.name, d)
		}
	}
}

func TestComponentsSumToSignal(t *testing.T) {
	x := randomSignal(2, 32)
	w := Haar()

	coeffs, err := Wavedec(x, w, 0)
	if err != nil {
		t.Fatalf("Wavedec: %v", err)
	}

	sum := make([]float64, len(x))
	for band := 0; band <= coeffs.Levels(); band++ {
		comp := coeffs.Component(w, band)
		for i := range sum {
			sum[i] += comp[i]
		}
	}
	if d := maxAbsDiff(sum, x); d > 1e-10 {
		t.Fatalf("component sum error %v", d)
	}
}

func TestReconstructUpTo(t *testing.T) {
	x := randomSignal(3, 64)
	w := Haar()

	coeffs, err := Wavedec(x, w, 0)
	if err != nil {
		t.Fatalf("Wavedec: %v", err)
	}

	full := coeffs.ReconstructUpTo(w, coeffs.Levels())
	if d := maxAbsDiff(full, x); d > 1e-10 {
		t.Fatalf("full ReconstructUpTo error %v", d)
	}

	// Band 0 is the approximation alone: for Haar at max depth this is
	// the signal mean everywhere.
	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))

	approxOnly := coeffs.ReconstructUpTo(w, 0)
	for i, v := range approxOnly {
		if math.Abs(v-mean) > 1e-10 {
			t.Fatalf("approx reconstruction[%d] = %v, want mean %v", i, v, mean)
		}
	}
}

func TestEnergyPreserved(t *testing.T) {
	x := randomSignal(4, 128)
	w := DB4()

	coeffs, err := Wavedec(x, w, 0)
	if err != nil {
		t.Fatalf("Wavedec: %v", err)
	}

	sig := 0.0
	for _, v := range x {
		sig += v * v
	}

	coef := 0.0
	for _, v := range coeffs.Approx() {
		coef += v * v
	}
	for k := 1; k <= coeffs.Levels(); k++ {
		for _, v := range coeffs.Detail(k) {
			coef += v * v
		}
	}

	if math.Abs(sig-coef) > 1e-8*sig {
		t.Fatalf("energy %v != coefficient energy %v", sig, coef)
	}
}

func TestSpikeLandsInFinestDetail(t *testing.T) {
	x := make([]float64, 64)
	x[40] = 10

	w := Haar()
	coeffs, err := Wavedec(x, w, 0)
	if err != nil {
		t.Fatalf("Wavedec: %v", err)
	}

	finest := coeffs.Detail(coeffs.Levels())
	peak, pos := 0.0, -1
	for i, v := range finest {
		if math.Abs(v) > peak {
			peak, pos = math.Abs(v), i
		}
	}
	if pos != 20 {
		t.Fatalf("finest-detail peak at %d, want 20", pos)
	}
	if math.Abs(peak-10/math.Sqrt2) > 1e-10 {
		t.Fatalf("peak = %v, want %v", peak, 10/math.Sqrt2)
	}
}

func TestMaxLevel(t *testing.T) {
	cases := []struct {
		n    int
		w    Wavelet
		want int
	}{
		{64, Haar(), 6},
		{61, Haar(), 5},
		{1, Haar(), 0},
		{48, DB4(), 4},
		{5, DB4(), 0},
	}
	for _, c := range cases {
		if got := MaxLevel(c.n, c.w); got != c.want {
			t.Fatalf("MaxLevel(%d, %s) = %d, want %d", c.n, c.w.Name(), got, c.want)
		}
	}
}

func TestWavedecErrors(t *testing.T) {
	if _, err := Wavedec(nil, Haar(), 0); !errors.Is(err, ErrEmptySignal) {
		t.Fatalf("empty: err = %v, want ErrEmptySignal", err)
	}
	if _, err := Wavedec(make([]float64, 8), Haar(), 4); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("too deep: err = %v, want ErrInvalidLevel", err)
	}
	if _, err := Wavedec(make([]float64, 8), Haar(), -1); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("negative: err = %v, want ErrInvalidLevel", err)
	}
}
