// Package parity implements the even/odd channel reference detector. It
// exists to validate the parallel-execution and product-indirection
// machinery: its output is trivially predictable, and its two products
// write to disjoint column sets so the passes can run concurrently
// without synchronization.
package parity

import (
	"time"

	"github.com/cwbudde/algo-rfi/detect"
	"github.com/cwbudde/algo-rfi/flagging"
	"github.com/cwbudde/algo-rfi/internal/parallel"
	"github.com/cwbudde/algo-rfi/spectrogram"
)

// Flag products. Channels are counted from 1, so the odd product covers
// columns 0, 2, 4, ... and the even product columns 1, 3, 5, ...
const (
	ProductOdd  = 0
	ProductEven = 1
)

// Config holds the parity detector settings.
type Config struct {
	detect.Config
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the defaults.
func DefaultConfig() Config {
	return Config{Config: detect.DefaultConfig()}
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

// Flag marks every sample of every odd channel in the odd product's
// destination matrix and likewise for even channels. Products without a
// registry assignment are skipped entirely; their matrices are never
// touched. Within one product the loop parallelizes over channels, since
// each channel's writes land in a disjoint column of the destination.
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

	elapsed := cfg.Stopwatch()

	rows := s.Rows()
	cells := 0
	for _, pass := range [...]struct{ product, firstCol int }{
		{ProductOdd, 0},
		{ProductEven, 1},
	} {
		m, ok := reg.Matrix(pass.product)
		if !ok {
			continue
		}

		firstCol := pass.firstCol
		nch := (s.Cols() - firstCol + 1) / 2
		parallel.For(cfg.Workers, nch, func(start, end int) {
			for i := start; i < end; i++ {
				c := firstCol + 2*i
				for r := 0; r < rows; r++ {
					m.Set(r, c, flagging.Flagged)
				}
			}
		})
		cells += nch * rows
	}

	return detect.Report{Elapsed: elapsed(), Cells: cells}, nil
}
