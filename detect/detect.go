// Package detect holds what the flagging detectors share: the common run
// configuration, the run report, and the error sentinels of the detector
// contract.
package detect

import (
	"errors"
	"time"
)

var (
	// ErrNilInput indicates a nil spectrogram or registry.
	ErrNilInput = errors.New("detect: nil spectrogram or registry")

	// ErrInvalidArgument indicates an out-of-domain tuning parameter.
	ErrInvalidArgument = errors.New("detect: invalid argument")
)

// Config defines the run settings every detector understands.
type Config struct {
	// Workers bounds the fork-join parallelism; <= 0 selects GOMAXPROCS.
	Workers int

	// Clock supplies wall time for the elapsed-time report. Injectable so
	// tests can pin it.
	Clock func() time.Time
}

// DefaultConfig returns the shared defaults.
func DefaultConfig() Config {
	return Config{Clock: time.Now}
}

// Report describes a completed detector run. Elapsed is advisory
// instrumentation, not part of the functional contract.
type Report struct {
	Elapsed time.Duration
	Cells   int // cells newly marked by this run
}

// Stopwatch starts timing against the configured clock and returns a
// function yielding the elapsed time.
func (c Config) Stopwatch() func() time.Duration {
	clock := c.Clock
	if clock == nil {
		clock = time.Now
	}
	start := clock()
	return func() time.Duration { return clock().Sub(start) }
}
