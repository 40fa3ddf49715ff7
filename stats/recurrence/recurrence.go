// Package recurrence computes recurrence plots and recurrence
// quantification analysis (RQA) measures over scalar time series. RQA
// measures separate deterministic structure (laminar interference,
// repeating pulse patterns) from stochastic noise, which makes them a
// useful diagnostic companion to the flagging detectors.
package recurrence

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-rfi/internal/parallel"
)

var (
	// ErrInvalidArgument indicates a non-positive embedding parameter or
	// threshold.
	ErrInvalidArgument = errors.New("recurrence: invalid argument")

	// ErrTooShort indicates a series shorter than one embedded vector.
	ErrTooShort = errors.New("recurrence: series too short for embedding")
)

// Config holds the plot construction settings.
type Config struct {
	// Dim and Delay define the time-delay embedding.
	Dim   int
	Delay int

	// Threshold is the recurrence distance eps.
	Threshold float64

	// Norm measures the distance between embedded vectors.
	Norm Norm

	// Workers bounds the construction parallelism.
	Workers int
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns a plain non-embedded configuration with the L2
// norm.
func DefaultConfig() Config {
	return Config{Dim: 1, Delay: 1, Threshold: 0.1, Norm: L2}
}

// WithEmbedding sets the delay-embedding dimension and delay.
func WithEmbedding(dim, delay int) Option {
	return func(cfg *Config) {
		cfg.Dim = dim
		cfg.Delay = delay
	}
}

// WithThreshold sets the recurrence distance.
func WithThreshold(eps float64) Option {
	return func(cfg *Config) { cfg.Threshold = eps }
}

// WithNorm sets the distance norm.
func WithNorm(n Norm) Option {
	return func(cfg *Config) {
		if n != nil {
			cfg.Norm = n
		}
	}
}

// WithWorkers bounds the construction parallelism.
func WithWorkers(n int) Option {
	return func(cfg *Config) { cfg.Workers = n }
}

// Plot is a binary recurrence matrix.
type Plot struct {
	n     int
	cells []byte
}

// embed returns the delay-embedded vectors of x as a strided accessor.
func embed(x []float64, dim, delay int) [][]float64 {
	n := len(x) - (dim-1)*delay
	out := make([][]float64, n)
	for i := range out {
		v := make([]float64, dim)
		for d := 0; d < dim; d++ {
			v[d] = x[i+d*delay]
		}
		out[i] = v
	}
	return out
}

func build(x, y []float64, cfg Config) (*Plot, error) {
	if cfg.Dim < 1 || cfg.Delay < 1 || cfg.Threshold <= 0 {
		return nil, fmt.Errorf("%w: dim %d delay %d eps %v", ErrInvalidArgument, cfg.Dim, cfg.Delay, cfg.Threshold)
	}
	span := (cfg.Dim-1)*cfg.Delay + 1
	if len(x) < span || len(y) < span || len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d and %d samples for span %d", ErrTooShort, len(x), len(y), span)
	}

	vx := embed(x, cfg.Dim, cfg.Delay)
	vy := embed(y, cfg.Dim, cfg.Delay)
	n := len(vx)

	p := &Plot{n: n, cells: make([]byte, n*n)}
	norm := cfg.Norm
	eps := cfg.Threshold
	parallel.For(cfg.Workers, n, func(start, end int) {
		for i := start; i < end; i++ {
			row := p.cells[i*n : (i+1)*n]
			for j := 0; j < n; j++ {
				if norm(vx[i], vy[j]) <= eps {
					row[j] = 1
				}
			}
		}
	})
	return p, nil
}

// New builds the self-recurrence plot of x.
func New(x []float64, opts ...Option) (*Plot, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return build(x, x, cfg)
}

// Cross builds the cross-recurrence plot of two equal-length series.
func Cross(x, y []float64, opts ...Option) (*Plot, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return build(x, y, cfg)
}

// N returns the plot's side length.
func (p *Plot) N() int { return p.n }

// At reports whether (i, j) is recurrent.
func (p *Plot) At(i, j int) bool { return p.cells[i*p.n+j] != 0 }
