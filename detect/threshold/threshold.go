// Package threshold implements the simplest flag product: a global
// median threshold. The spread of the matrix is estimated as the rms
// deviation from the median, restricted to samples above a power floor
// so that blanked or pathological samples do not drag the estimate down,
// and every sample more than NumRMS spreads above the median is flagged.
package threshold

import (
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-rfi/detect"
	"github.com/cwbudde/algo-rfi/flagging"
	"github.com/cwbudde/algo-rfi/internal/parallel"
	"github.com/cwbudde/algo-rfi/spectrogram"
	"github.com/cwbudde/algo-rfi/stats/robust"
)

// Product is the detector's single flag product.
const Product = 0

const (
	defaultNumRMS   = 2.0
	defaultMinPower = 10.0
)

// Config holds the threshold detector settings.
type Config struct {
	detect.Config

	// NumRMS is the number of rms deviations above the median a sample
	// must reach to be flagged. Must be positive.
	NumRMS float64

	// MinPower is the floor below which samples are excluded from the
	// median/rms estimation.
	MinPower float64
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the defaults.
func DefaultConfig() Config {
	return Config{
		Config:   detect.DefaultConfig(),
		NumRMS:   defaultNumRMS,
		MinPower: defaultMinPower,
	}
}

// WithNumRMS sets the flagging sensitivity.
func WithNumRMS(k float64) Option {
	return func(cfg *Config) { cfg.NumRMS = k }
}

// WithMinPower sets the estimation floor.
func WithMinPower(p float64) Option {
	return func(cfg *Config) { cfg.MinPower = p }
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

// Flag thresholds the whole matrix against median + NumRMS*rms and
// writes the result into the destination of Product. Rows are flagged on
// independent workers; each owns a disjoint row span of the destination.
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
	if cfg.NumRMS <= 0 {
		return detect.Report{}, fmt.Errorf("%w: NumRMS %v", detect.ErrInvalidArgument, cfg.NumRMS)
	}

	elapsed := cfg.Stopwatch()

	m, ok := reg.Matrix(Product)
	if !ok {
		return detect.Report{Elapsed: elapsed()}, nil
	}

	// Estimate location and spread from samples above the floor.
	var est []float64
	for _, v := range s.Data() {
		if v > cfg.MinPower {
			est = append(est, v)
		}
	}
	if len(est) == 0 {
		return detect.Report{Elapsed: elapsed()}, nil
	}

	med := robust.Median(est)
	ss := 0.0
	for _, v := range est {
		d := v - med
		ss += d * d
	}
	rms := math.Sqrt(ss / float64(len(est)))
	limit := med + cfg.NumRMS*rms

	var cells int64
	counts := make([]int64, s.Rows())
	parallel.For(cfg.Workers, s.Rows(), func(start, end int) {
		for r := start; r < end; r++ {
			row := s.Row(r)
			out := m.Row(r)
			for c, v := range row {
				if v > limit {
					out[c] = flagging.Flagged
					counts[r]++
				}
			}
		}
	})
	for _, n := range counts {
		cells += n
	}

	return detect.Report{Elapsed: elapsed(), Cells: int(cells)}, nil
}
