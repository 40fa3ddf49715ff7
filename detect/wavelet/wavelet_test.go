package wavelet

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-rfi/detect"
	"github.com/cwbudde/algo-rfi/flagging"
	"github.com/cwbudde/algo-rfi/internal/testutil"
	"github.com/cwbudde/algo-rfi/spectrogram"
)

const (
	testRows = 256
	testCols = 4
)

// spikeSetup builds a noise spectrogram with one strong narrow-band spike
// and a registry routing the requested band product to slot 0.
func spikeSetup(t *testing.T, band, nBands, spikeRow, spikeCol int) (*spectrogram.Spectrogram, *flagging.Registry, *flagging.Matrix) {
	t.Helper()

	data := testutil.NoiseFloor(21, testRows, testCols, 0, 1)
	testutil.InjectSpike(data, testCols, spikeRow, spikeCol, 100)

	s, err := spectrogram.New(data, testRows, testCols)
	if err != nil {
		t.Fatalf("spectrogram.New: %v", err)
	}

	var reg flagging.Registry
	if err := reg.Allocate(1); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	m, err := flagging.NewMatrix(testRows, testCols)
	if err != nil {
		t.Fatalf("NewMatrix: %v", err)
	}
	if err := reg.SetSlot(m, 0); err != nil {
		t.Fatalf("SetSlot: %v", err)
	}

	products := make([]flagging.Slot, nBands)
	products[band] = flagging.SlotAt(0)
	if err := reg.SetProducts(products, []int{band}); err != nil {
		t.Fatalf("SetProducts: %v", err)
	}
	return s, &reg, m
}

func TestSpikeFlaggedAtInjection(t *testing.T) {
	const (
		spikeRow = 100
		spikeCol = 2
	)

	// ThresholdK values bracketing the spike magnitude from below.
	for _, k := range []float64{1, 2} {
		s, reg, m := spikeSetup(t, 7, 8, spikeRow, spikeCol)

		rep, err := Flag(s, reg, WithThresholdK(k), WithSeed(5), WithBootstrap(300, 10))
		if err != nil {
			t.Fatalf("k=%v: Flag: %v", k, err)
		}
		if rep.Cells == 0 {
			t.Fatalf("k=%v: nothing flagged", k)
		}

		if m.At(spikeRow, spikeCol) != flagging.Flagged {
			t.Fatalf("k=%v: spike cell not flagged", k)
		}

		// The transform attributes a spike to its dyadic neighborhood,
		// so allow the spike's block, but nothing in other channels and
		// nothing far from the spike.
		for _, cell := range testutil.FlaggedCells(m.Data(), testCols) {
			if cell[1] != spikeCol {
				t.Fatalf("k=%v: flag in clean channel %d (row %d)", k, cell[1], cell[0])
			}
			if cell[0] < spikeRow-2 || cell[0] > spikeRow+2 {
				t.Fatalf("k=%v: flag at row %d, far from spike row %d", k, cell[0], spikeRow)
			}
		}
	}
}

func TestHighThresholdFlagsNothing(t *testing.T) {
	s, reg, m := spikeSetup(t, 7, 8, 100, 2)

	rep, err := Flag(s, reg, WithThresholdK(1000), WithSeed(5), WithBootstrap(300, 10))
	if err != nil {
		t.Fatalf("Flag: %v", err)
	}
	if rep.Cells != 0 || m.Count() != 0 {
		t.Fatalf("flagged %d cells with threshold far above spike", m.Count())
	}
}

func TestBurstFlaggedInMidBand(t *testing.T) {
	data := testutil.NoiseFloor(31, testRows, testCols, 0, 1)
	testutil.InjectBurst(data, testCols, 64, 96, 1, 50)

	s, err := spectrogram.New(data, testRows, testCols)
	if err != nil {
		t.Fatalf("spectrogram.New: %v", err)
	}

	var reg flagging.Registry
	if err := reg.Allocate(1); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	m, _ := flagging.NewMatrix(testRows, testCols)
	if err := reg.SetSlot(m, 0); err != nil {
		t.Fatalf("SetSlot: %v", err)
	}
	products := make([]flagging.Slot, 8)
	products[4] = flagging.SlotAt(0)
	if err := reg.SetProducts(products, []int{4}); err != nil {
		t.Fatalf("SetProducts: %v", err)
	}

	if _, err := Flag(s, &reg, WithThresholdK(1), WithSeed(9), WithBootstrap(300, 10)); err != nil {
		t.Fatalf("Flag: %v", err)
	}

	// The 32-row burst dominates the mid-band reconstruction of its
	// channel; most of the burst span must be flagged, nothing outside
	// the channel.
	flaggedInBurst := 0
	for _, cell := range testutil.FlaggedCells(m.Data(), testCols) {
		if cell[1] != 1 {
			t.Fatalf("flag in clean channel %d", cell[1])
		}
		if cell[0] >= 64 && cell[0] < 96 {
			flaggedInBurst++
		}
	}
	if flaggedInBurst < 24 {
		t.Fatalf("only %d of 32 burst rows flagged", flaggedInBurst)
	}
}

func TestIdempotent(t *testing.T) {
	s, reg, m := spikeSetup(t, 7, 8, 100, 2)

	opts := []Option{WithThresholdK(1), WithSeed(5), WithBootstrap(200, 10), WithWorkers(3)}
	if _, err := Flag(s, reg, opts...); err != nil {
		t.Fatalf("Flag: %v", err)
	}
	first := append([]byte(nil), m.Data()...)

	m.Reset()
	if _, err := Flag(s, reg, opts...); err != nil {
		t.Fatalf("Flag: %v", err)
	}
	testutil.RequireSameFlags(t, m.Data(), first)
}

func TestUnrequestedBandUntouched(t *testing.T) {
	s, reg, m := spikeSetup(t, 7, 8, 100, 2)

	// Re-route the table so no band has a slot.
	if err := reg.SetProducts(make([]flagging.Slot, 8), []int{0}); err != nil {
		t.Fatalf("SetProducts: %v", err)
	}

	rep, err := Flag(s, reg, WithThresholdK(1), WithSeed(5))
	if err != nil {
		t.Fatalf("Flag: %v", err)
	}
	if rep.Cells != 0 || m.Count() != 0 {
		t.Fatalf("unrequested run wrote %d cells", m.Count())
	}
}

func TestInvalidThresholdK(t *testing.T) {
	s, reg, _ := spikeSetup(t, 7, 8, 100, 2)

	for _, k := range []float64{0, -1} {
		if _, err := Flag(s, reg, WithThresholdK(k)); !errors.Is(err, detect.ErrInvalidArgument) {
			t.Fatalf("k=%v: err = %v, want ErrInvalidArgument", k, err)
		}
	}
}

func TestInvalidLevel(t *testing.T) {
	s, reg, _ := spikeSetup(t, 7, 8, 100, 2)

	if _, err := Flag(s, reg, WithLevel(20)); !errors.Is(err, detect.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}
