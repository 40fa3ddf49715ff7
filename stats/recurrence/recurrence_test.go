package recurrence

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-rfi/internal/testutil"
)

func TestConstantSeriesMeasures(t *testing.T) {
	x := make([]float64, 8)
	for i := range x {
		x[i] = 3
	}
	p, err := New(x, WithThreshold(0.1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := p.RR(); got != 1 {
		t.Fatalf("RR = %v, want 1", got)
	}
	if got := p.VMax(); got != 8 {
		t.Fatalf("VMax = %d, want 8", got)
	}
	if got := p.LMax(); got != 7 {
		t.Fatalf("LMax = %d, want 7", got)
	}
	if got := p.TT(2); got != 8 {
		t.Fatalf("TT = %v, want 8", got)
	}
	if got := p.LAM(2); got != 1 {
		t.Fatalf("LAM = %v, want 1", got)
	}
	// Off-diagonal lines have lengths 1..7, twice each.
	if got, want := p.L(2), 54.0/12.0; math.Abs(got-want) > 1e-12 {
		t.Fatalf("L = %v, want %v", got, want)
	}
	if got, want := p.DET(2), 54.0/56.0; math.Abs(got-want) > 1e-12 {
		t.Fatalf("DET = %v, want %v", got, want)
	}
	if got, want := p.Div(), 1.0/7.0; math.Abs(got-want) > 1e-12 {
		t.Fatalf("Div = %v, want %v", got, want)
	}
}

func TestPeriodicSignalIsDeterministic(t *testing.T) {
	const n = 200
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * float64(i) / 20)
	}

	p, err := New(x, WithEmbedding(2, 5), WithThreshold(0.2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if p.N() != n-5 {
		t.Fatalf("N = %d, want %d", p.N(), n-5)
	}
	// Symmetry of the self plot.
	for i := 0; i < p.N(); i += 7 {
		for j := 0; j < p.N(); j += 11 {
			if p.At(i, j) != p.At(j, i) {
				t.Fatalf("asymmetric at (%d, %d)", i, j)
			}
		}
	}
	// The signal repeats exactly every 20 samples, so full diagonals
	// recur at every multiple of 20.
	if got := p.LMax(); got < 100 {
		t.Fatalf("LMax = %d, want >= 100", got)
	}
	if got := p.DET(2); got < 0.8 {
		t.Fatalf("DET = %v, want >= 0.8", got)
	}
}

func TestNoiseHasLowRecurrence(t *testing.T) {
	x := testutil.NoiseFloor(61, 200, 1, 0, 1)

	p, err := New(x, WithEmbedding(2, 1), WithThreshold(0.2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := p.RR(); got > 0.1 {
		t.Fatalf("RR = %v, want <= 0.1 for white noise", got)
	}
	if got := p.DET(2); got > 0.5 {
		t.Fatalf("DET = %v, want <= 0.5 for white noise", got)
	}
}

func TestCrossPlotIdenticalSeries(t *testing.T) {
	x := testutil.NoiseFloor(62, 50, 1, 0, 1)

	p, err := Cross(x, x, WithThreshold(1e-9))
	if err != nil {
		t.Fatalf("Cross: %v", err)
	}
	for i := 0; i < p.N(); i++ {
		if !p.At(i, i) {
			t.Fatalf("diagonal cell %d not recurrent", i)
		}
	}
}

func TestWorkersDoNotChangePlot(t *testing.T) {
	x := testutil.NoiseFloor(63, 120, 1, 0, 1)

	serial, err := New(x, WithEmbedding(3, 2), WithThreshold(0.5), WithWorkers(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	para, err := New(x, WithEmbedding(3, 2), WithThreshold(0.5), WithWorkers(4))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < serial.N(); i++ {
		for j := 0; j < serial.N(); j++ {
			if serial.At(i, j) != para.At(i, j) {
				t.Fatalf("plots differ at (%d, %d)", i, j)
			}
		}
	}
}

func TestInvalidArguments(t *testing.T) {
	x := []float64{1, 2, 3, 4}

	if _, err := New(x, WithThreshold(0)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("eps=0: err = %v, want ErrInvalidArgument", err)
	}
	if _, err := New(x, WithEmbedding(0, 1)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("dim=0: err = %v, want ErrInvalidArgument", err)
	}
	if _, err := New(x, WithEmbedding(5, 3)); !errors.Is(err, ErrTooShort) {
		t.Fatalf("short series: err = %v, want ErrTooShort", err)
	}
	if _, err := Cross(x, x[:3]); !errors.Is(err, ErrTooShort) {
		t.Fatalf("length mismatch: err = %v, want ErrTooShort", err)
	}
}
