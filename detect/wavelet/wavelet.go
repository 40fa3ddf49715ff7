// Package wavelet implements the DWT-based detector for intermittent and
// narrow-band RFI.
//
// Each frequency channel is treated as a time series and decomposed with
// a multilevel discrete wavelet transform. A per-band noise level is
// calibrated by bootstrap: the finest detail component is resampled many
// times, the standard deviation of each resample forms an empirical
// distribution, and its median becomes the spread estimate for the finest
// band, scaled down by 1/sqrt(2) per coarser band. Samples whose partial
// reconstruction exceeds ThresholdK times the band's calibrated level,
// after baseline removal, are flagged.
//
// Flag products are detail bands: product p receives the flags derived
// from the reconstruction using detail bands up to p, so the registry's
// product table selects which decomposition depths are emitted.
package wavelet

import (
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-rfi/detect"
	"github.com/cwbudde/algo-rfi/dwt"
	"github.com/cwbudde/algo-rfi/flagging"
	"github.com/cwbudde/algo-rfi/internal/parallel"
	"github.com/cwbudde/algo-rfi/spectrogram"
	"github.com/cwbudde/algo-rfi/stats/bootstrap"
	"github.com/cwbudde/algo-rfi/stats/robust"
)

const (
	defaultBootstrapDraws = 1000
	defaultBootstrapLen   = 10
	defaultNoiseK         = 10.0
	bandDecay             = 0.7071067811865476 // 1/sqrt(2), noise decay per coarser band
)

// Config holds the wavelet detector settings.
type Config struct {
	detect.Config

	// ThresholdK scales the calibrated per-band noise level into the
	// flagging threshold. Smaller values flag more aggressively. Must be
	// positive.
	ThresholdK float64

	// Level is the decomposition depth; 0 selects the maximum for the
	// row count.
	Level int

	// Wavelet is the transform basis.
	Wavelet dwt.Wavelet

	// BootstrapDraws and BootstrapLen size the resampling of the noise
	// statistic.
	BootstrapDraws int
	BootstrapLen   int

	// NoiseK inflates the raw spread estimate into a band noise level.
	NoiseK float64

	// Seed bases the per-channel random streams, keeping runs
	// reproducible independent of the worker count.
	Seed int64
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the defaults: Haar basis at maximum depth,
// threshold factor 1.
func DefaultConfig() Config {
	return Config{
		Config:         detect.DefaultConfig(),
		ThresholdK:     1,
		Wavelet:        dwt.Haar(),
		BootstrapDraws: defaultBootstrapDraws,
		BootstrapLen:   defaultBootstrapLen,
		NoiseK:         defaultNoiseK,
	}
}

// WithThresholdK sets the flagging sensitivity.
func WithThresholdK(k float64) Option {
	return func(cfg *Config) { cfg.ThresholdK = k }
}

// WithLevel sets the decomposition depth (0 = maximum).
func WithLevel(level int) Option {
	return func(cfg *Config) { cfg.Level = level }
}

// WithWavelet sets the transform basis.
func WithWavelet(w dwt.Wavelet) Option {
	return func(cfg *Config) { cfg.Wavelet = w }
}

// WithBootstrap sizes the calibration resampling.
func WithBootstrap(draws, sampleLen int) Option {
	return func(cfg *Config) {
		if draws > 0 {
			cfg.BootstrapDraws = draws
		}
		if sampleLen > 0 {
			cfg.BootstrapLen = sampleLen
		}
	}
}

// WithSeed bases the calibration random streams.
func WithSeed(seed int64) Option {
	return func(cfg *Config) { cfg.Seed = seed }
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

// bandThresholds calibrates one channel's per-band noise levels from its
// decomposition. Index b holds the level for band b; the approximation
// band gets zero.
func bandThresholds(coeffs *dwt.Coeffs, w dwt.Wavelet, rng *rand.Rand, cfg Config) ([]float64, error) {
	levels := coeffs.Levels()
	finest := coeffs.Component(w, levels)

	dist, err := bootstrap.StdDistribution(rng, finest, cfg.BootstrapLen, cfg.BootstrapDraws)
	if err != nil {
		return nil, err
	}

	th := make([]float64, levels+1)
	spread := robust.Median(dist)
	for b := levels; b >= 1; b-- {
		th[b] = spread
		spread *= bandDecay
	}
	th[0] = 0
	vecmath.ScaleBlock(th, th, cfg.NoiseK)
	return th, nil
}

// Flag runs the detector over every channel of s, writing flags for each
// band product that has a registry slot. Channels are processed on
// independent workers; a worker owns one column of every destination
// matrix, so no locking is needed.
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
	if rows == 0 || cols == 0 {
		return detect.Report{Elapsed: elapsed()}, nil
	}

	level := cfg.Level
	if level == 0 {
		level = dwt.MaxLevel(rows, cfg.Wavelet)
	}
	if level < 1 || level > dwt.MaxLevel(rows, cfg.Wavelet) {
		return detect.Report{}, fmt.Errorf("%w: level %d for %d rows", detect.ErrInvalidArgument, level, rows)
	}

	// Resolve the requested band products once; absent products cost
	// nothing per channel.
	dests := make([]*flagging.Matrix, level)
	anyDest := false
	for band := range dests {
		if m, ok := reg.Matrix(band); ok {
			dests[band] = m
			anyDest = true
		}
	}
	if !anyDest {
		return detect.Report{Elapsed: elapsed()}, nil
	}

	var (
		cells  int64
		errMu  sync.Mutex
		runErr error
	)
	fail := func(err error) {
		errMu.Lock()
		if runErr == nil {
			runErr = err
		}
		errMu.Unlock()
	}

	parallel.For(cfg.Workers, cols, func(start, end int) {
		col := make([]float64, rows)
		var marked int64
		for c := start; c < end; c++ {
			col = s.Column(col, c)

			coeffs, err := dwt.Wavedec(col, cfg.Wavelet, level)
			if err != nil {
				fail(err)
				return
			}

			// Channel-indexed stream: results do not depend on the
			// worker count.
			rng := rand.New(rand.NewSource(cfg.Seed + int64(c)))
			th, err := bandThresholds(coeffs, cfg.Wavelet, rng, cfg)
			if err != nil {
				fail(err)
				return
			}

			baseline := minOf(coeffs.ReconstructUpTo(cfg.Wavelet, (level+1)/2))

			for band := 0; band < level; band++ {
				m := dests[band]
				if m == nil {
					continue
				}
				recon := coeffs.ReconstructUpTo(cfg.Wavelet, band)
				limit := cfg.ThresholdK * th[band]
				for r := 0; r < rows; r++ {
					if recon[r]-baseline > limit {
						m.Set(r, c, flagging.Flagged)
						marked++
					}
				}
			}
		}
		atomic.AddInt64(&cells, marked)
	})

	if runErr != nil {
		return detect.Report{}, runErr
	}
	return detect.Report{Elapsed: elapsed(), Cells: int(cells)}, nil
}

func minOf(x []float64) float64 {
	m := x[0]
	for _, v := range x[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
