// Package periodic implements detection of periodically pulsed RFI
// (radar-like interferers that switch on and off at a fixed rate).
//
// Each channel's time series is Hann-windowed, transformed with an FFT,
// and reduced to power bins. A pulsed interferer concentrates power at
// its repetition rate, so the peak non-DC bin of a contaminated channel
// towers over the channel's median bin power; channels whose peak-to-
// median ratio exceeds ThresholdK are flagged whole.
package periodic

import (
	"fmt"
	"math"
	"time"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-rfi/detect"
	"github.com/cwbudde/algo-rfi/flagging"
	"github.com/cwbudde/algo-rfi/internal/parallel"
	"github.com/cwbudde/algo-rfi/spectrogram"
	"github.com/cwbudde/algo-rfi/stats/robust"
)

// Product is the detector's single flag product.
const Product = 0

const defaultThresholdK = 50.0

// Config holds the pulsed-RFI detector settings.
type Config struct {
	detect.Config

	// ThresholdK is the peak-to-median spectral power ratio above which
	// a channel counts as pulsed. Must be positive. White noise stays
	// around ten even in the tail, so the default keeps a wide margin.
	ThresholdK float64
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the defaults.
func DefaultConfig() Config {
	return Config{Config: detect.DefaultConfig(), ThresholdK: defaultThresholdK}
}

// WithThresholdK sets the peak-to-median detection ratio.
func WithThresholdK(k float64) Option {
	return func(cfg *Config) { cfg.ThresholdK = k }
}

// WithWorkers bounds the number of parallel workers.
func WithWorkers(n int) Option {
	return func(cfg *Config) { cfg.Workers = n }
}

// WithClock injects the clock used for the elapsed-time report.
func WithClock(clock func() time.Time) Option {
	return func(cfg *Config) {
		if clock != nil {
			cfg.Clock = clock
		}
	}
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Flag scans every channel for pulsed interference and writes flagged
// channels' full columns into the destination of Product. Channels are
// examined on independent workers, each with its own FFT plan and
// scratch buffers.
func Flag(s *spectrogram.Spectrogram, reg *flagging.Registry, opts ...Option) (detect.Report, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if s == nil || reg == nil {
		return detect.Report{}, detect.ErrNilInput
	}
	if cfg.ThresholdK <= 0 {
		return detect.Report{}, fmt.Errorf("%w: ThresholdK %v", detect.ErrInvalidArgument, cfg.ThresholdK)
	}

	elapsed := cfg.Stopwatch()

	rows, cols := s.Rows(), s.Cols()
	m, ok := reg.Matrix(Product)
	if !ok || rows < 8 || cols == 0 {
		return detect.Report{Elapsed: elapsed()}, nil
	}

	fftSize := nextPowerOf2(rows)
	half := fftSize / 2

	// Hann window over the actual row count; the zero-padded tail stays
	// zero.
	window := make([]float64, rows)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(rows-1)))
	}

	var (
		planErr error
		counts  = make([]int, cols)
	)
	parallel.For(cfg.Workers, cols, func(start, end int) {
		plan, err := algofft.NewPlan64(fftSize)
		if err != nil {
			planErr = err
			return
		}

		var (
			col   = make([]float64, rows)
			in    = make([]complex128, fftSize)
			out   = make([]complex128, fftSize)
			re    = make([]float64, half)
			im    = make([]float64, half)
			power = make([]float64, half)
		)

		for c := start; c < end; c++ {
			col = s.Column(col, c)

			// Remove the mean so the interesting power is not hidden
			// under the DC bin's leakage.
			mean := robust.Mean(col)
			for i := 0; i < rows; i++ {
				in[i] = complex((col[i]-mean)*window[i], 0)
			}
			for i := rows; i < fftSize; i++ {
				in[i] = 0
			}

			if err := plan.Forward(out, in); err != nil {
				planErr = err
				return
			}

			// Power of the positive-frequency bins, excluding DC.
			for i := 1; i < half; i++ {
				re[i] = real(out[i])
				im[i] = imag(out[i])
			}
			re[0], im[0] = 0, 0
			vecmath.Power(power, re, im)

			peak := 0.0
			for _, p := range power[1:] {
				if p > peak {
					peak = p
				}
			}
			med := robust.Median(power[1:])

			if med > 0 && peak > cfg.ThresholdK*med {
				for r := 0; r < rows; r++ {
					m.Set(r, c, flagging.Flagged)
				}
				counts[c] = rows
			}
		}
	})

	if planErr != nil {
		return detect.Report{}, planErr
	}

	cells := 0
	for _, n := range counts {
		cells += n
	}
	return detect.Report{Elapsed: elapsed(), Cells: cells}, nil
}
