// Package fullchan implements detection of continuously interfered
// channels.
//
// The matrix is flattened along frequency first: a per-row median filter
// removes the spectral baseline, and the median over time of each
// channel's residual forms a channel profile. Channels whose profile
// exceeds a robust threshold (a multiple of the median of sliding-window
// upper percentiles) are candidates; a normality test on the candidate's
// residual time series decides the product. Persistent RFI leaves a
// non-Gaussian residual, so channels failing the test are flagged in the
// not-normal product, the rest in the normal product.
package fullchan

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-rfi/detect"
	"github.com/cwbudde/algo-rfi/flagging"
	"github.com/cwbudde/algo-rfi/internal/parallel"
	"github.com/cwbudde/algo-rfi/spectrogram"
	"github.com/cwbudde/algo-rfi/stats/normality"
	"github.com/cwbudde/algo-rfi/stats/robust"
)

// Flag products.
const (
	ProductNotNormal = 0
	ProductNormal    = 1
)

const (
	defaultMedianSizeFreq = 5
	defaultWindowLen      = 10
	defaultPercentile     = 90.0
	defaultThresholdK     = 10.0
	defaultPValue         = 0.01
)

// Config holds the interfered-channel detector settings.
type Config struct {
	detect.Config

	// MedianSizeFreq is the window of the per-row median filter along
	// frequency.
	MedianSizeFreq int

	// WindowLen and Percentile shape the sliding robust threshold over
	// the channel profile.
	WindowLen  int
	Percentile float64

	// ThresholdK scales the profile threshold. Must be positive.
	ThresholdK float64

	// PValue is the normality-test significance below which a candidate
	// channel counts as interfered. Must be in (0, 1].
	PValue float64
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the defaults.
func DefaultConfig() Config {
	return Config{
		Config:         detect.DefaultConfig(),
		MedianSizeFreq: defaultMedianSizeFreq,
		WindowLen:      defaultWindowLen,
		Percentile:     defaultPercentile,
		ThresholdK:     defaultThresholdK,
		PValue:         defaultPValue,
	}
}

// WithThresholdK scales the profile threshold.
func WithThresholdK(k float64) Option {
	return func(cfg *Config) { cfg.ThresholdK = k }
}

// WithPValue sets the normality significance level.
func WithPValue(p float64) Option {
	return func(cfg *Config) { cfg.PValue = p }
}

// WithMedianSizeFreq sets the baseline median-filter window.
func WithMedianSizeFreq(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.MedianSizeFreq = n
		}
	}
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

// Flag classifies whole channels and writes each interfered channel's
// full column into the selected product's matrix. Candidate channels are
// tested on independent workers; each writes only its own column.
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
	if cfg.PValue <= 0 || cfg.PValue > 1 {
		return detect.Report{}, fmt.Errorf("%w: PValue %v", detect.ErrInvalidArgument, cfg.PValue)
	}

	elapsed := cfg.Stopwatch()

	rows, cols := s.Rows(), s.Cols()
	notNormal, wantNotNormal := reg.Matrix(ProductNotNormal)
	normal, wantNormal := reg.Matrix(ProductNormal)
	if !wantNotNormal && !wantNormal {
		return detect.Report{Elapsed: elapsed()}, nil
	}
	if rows < 8 {
		return detect.Report{}, fmt.Errorf("%w: %d rows, normality test needs 8", detect.ErrInvalidArgument, rows)
	}
	if cols < cfg.WindowLen {
		// Too few channels to form the sliding threshold.
		return detect.Report{Elapsed: elapsed()}, nil
	}

	// Residual: data minus the per-row spectral baseline.
	residual := make([]float64, rows*cols)
	parallel.For(cfg.Workers, rows, func(start, end int) {
		for r := start; r < end; r++ {
			row := s.Row(r)
			base := robust.MedianFilter1D(row, cfg.MedianSizeFreq)
			out := residual[r*cols : (r+1)*cols]
			for c := range row {
				out[c] = row[c] - base[c]
			}
		}
	})

	// Channel profile: median residual over time.
	profile := make([]float64, cols)
	parallel.For(cfg.Workers, cols, func(start, end int) {
		col := make([]float64, rows)
		for c := start; c < end; c++ {
			for r := 0; r < rows; r++ {
				col[r] = residual[r*cols+c]
			}
			profile[c] = robust.Median(col)
		}
	})

	// Sliding-window upper percentiles of the profile, reduced to one
	// robust threshold.
	nWin := cols - cfg.WindowLen + 1
	upper := make([]float64, nWin)
	for i := 0; i < nWin; i++ {
		upper[i] = robust.Percentile(profile[i:i+cfg.WindowLen], cfg.Percentile)
	}
	limit := cfg.ThresholdK * robust.Median(upper)

	var candidates []int
	for c := 0; c < cols; c++ {
		if profile[c] > limit {
			candidates = append(candidates, c)
		}
	}

	var (
		cells  int
		counts = make([]int, len(candidates))
		errs   = make([]error, len(candidates))
	)
	parallel.For(cfg.Workers, len(candidates), func(start, end int) {
		col := make([]float64, rows)
		for i := start; i < end; i++ {
			c := candidates[i]
			for r := 0; r < rows; r++ {
				col[r] = residual[r*cols+c]
			}

			_, p, err := normality.KSquared(col)
			if err != nil {
				errs[i] = err
				continue
			}

			dst := normal
			if p < cfg.PValue {
				dst = notNormal
			}
			if dst == nil {
				continue
			}
			for r := 0; r < rows; r++ {
				dst.Set(r, c, flagging.Flagged)
			}
			counts[i] = rows
		}
	})

	for i, err := range errs {
		if err != nil {
			return detect.Report{}, err
		}
		cells += counts[i]
	}
	return detect.Report{Elapsed: elapsed(), Cells: cells}, nil
}
