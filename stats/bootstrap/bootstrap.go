// Package bootstrap implements non-parametric resampling with
// replacement. It is the calibration primitive the wavelet detector uses
// to build an empirical distribution of a noise statistic without
// assuming a parametric noise model.
package bootstrap

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/cwbudde/algo-rfi/stats/robust"
)

// ErrInvalidArgument indicates a non-positive source length or draw
// count.
var ErrInvalidArgument = errors.New("bootstrap: invalid argument")

// Resample returns lenOut indices drawn independently and uniformly from
// [0, lenIn). The output holds indices, not data values; callers apply
// them to whatever source array the statistic is computed from. rng may
// be nil, in which case the shared global source is used.
func Resample(rng *rand.Rand, lenIn, lenOut int) ([]int, error) {
	if lenIn <= 0 {
		return nil, fmt.Errorf("%w: source length %d", ErrInvalidArgument, lenIn)
	}
	if lenOut < 0 {
		return nil, fmt.Errorf("%w: output length %d", ErrInvalidArgument, lenOut)
	}

	out := make([]int, lenOut)
	for i := range out {
		if rng != nil {
			out[i] = rng.Intn(lenIn)
		} else {
			out[i] = rand.Intn(lenIn)
		}
	}
	return out, nil
}

// Sample returns n values resampled with replacement from src.
func Sample(rng *rand.Rand, src []float64, n int) ([]float64, error) {
	idx, err := Resample(rng, len(src), n)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i, j := range idx {
		out[i] = src[j]
	}
	return out, nil
}

// StdDistribution draws `draws` bootstrap subsets of sampleLen values
// from src and returns the standard deviation of each subset. The result
// is the empirical distribution a caller reduces (typically by median) to
// a calibrated spread estimate.
func StdDistribution(rng *rand.Rand, src []float64, sampleLen, draws int) ([]float64, error) {
	if draws <= 0 || sampleLen <= 0 {
		return nil, fmt.Errorf("%w: %d draws of %d samples", ErrInvalidArgument, draws, sampleLen)
	}
	if len(src) == 0 {
		return nil, fmt.Errorf("%w: empty source", ErrInvalidArgument)
	}

	out := make([]float64, draws)
	buf := make([]float64, sampleLen)
	for d := range out {
		for i := range buf {
			if rng != nil {
				buf[i] = src[rng.Intn(len(src))]
			} else {
				buf[i] = src[rand.Intn(len(src))]
			}
		}
		out[d] = robust.Std(buf)
	}
	return out, nil
}
