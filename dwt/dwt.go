package dwt

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

var (
	// ErrInvalidLevel indicates a negative level or one deeper than the
	// signal supports.
	ErrInvalidLevel = errors.New("dwt: invalid decomposition level")

	// ErrEmptySignal indicates an empty input signal.
	ErrEmptySignal = errors.New("dwt: empty signal")
)

// Coeffs holds a multilevel decomposition. details is stored finest band
// first (build order); lens records the signal length entering each step
// so reconstruction can trim padding again.
type Coeffs struct {
	approx  []float64
	details [][]float64
	lens    []int
}

// Levels returns the number of detail bands.
func (c *Coeffs) Levels() int { return len(c.details) }

// Approx returns the final approximation band.
func (c *Coeffs) Approx() []float64 { return c.approx }

// Detail returns detail band k, k in [1, Levels()], coarsest first.
func (c *Coeffs) Detail(k int) []float64 {
	return c.details[len(c.details)-k]
}

// analyzeStep splits x into approximation and detail coefficients.
// Odd-length input is extended by its last sample first.
func (w Wavelet) analyzeStep(x []float64) (a, d []float64) {
	n := len(x)
	if n%2 == 1 {
		padded := make([]float64, n+1)
		copy(padded, x)
		padded[n] = x[n-1]
		x = padded
		n++
	}

	half := n / 2
	a = make([]float64, half)
	d = make([]float64, half)
	flen := len(w.dec)
	for k := 0; k < half; k++ {
		var sa, sd float64
		for m := 0; m < flen; m++ {
			v := x[(2*k+m)%n]
			sa += w.dec[m] * v
			sd += w.wav[m] * v
		}
		a[k] = sa
		d[k] = sd
	}
	return a, d
}

// synthesizeStep inverts analyzeStep. For orthogonal filters over a
// periodized signal the analysis operator is orthonormal, so the inverse
// is its transpose. The result is trimmed to outLen, dropping the pad
// sample when the analyzed signal was odd.
func (w Wavelet) synthesizeStep(a, d []float64, outLen int) []float64 {
	n := 2 * len(a)
	xa := make([]float64, n)
	xd := make([]float64, n)
	flen := len(w.dec)
	for k := range a {
		for m := 0; m < flen; m++ {
			i := (2*k + m) % n
			xa[i] += w.dec[m] * a[k]
			xd[i] += w.wav[m] * d[k]
		}
	}
	vecmath.AddBlockInPlace(xa, xd)
	return xa[:outLen]
}

// Wavedec decomposes x to the given level. level 0 selects MaxLevel.
func Wavedec(x []float64, w Wavelet, level int) (*Coeffs, error) {
	if len(x) == 0 {
		return nil, ErrEmptySignal
	}

	maxLevel := MaxLevel(len(x), w)
	if level == 0 {
		level = maxLevel
	}
	if level < 0 || level > maxLevel {
		return nil, fmt.Errorf("%w: %d (max %d for %d samples)", ErrInvalidLevel, level, maxLevel, len(x))
	}

	c := &Coeffs{
		details: make([][]float64, 0, level),
		lens:    make([]int, 0, level),
	}
	cur := x
	for lev := 0; lev < level; lev++ {
		c.lens = append(c.lens, len(cur))
		a, d := w.analyzeStep(cur)
		c.details = append(c.details, d)
		cur = a
	}
	c.approx = append([]float64(nil), cur...)
	return c, nil
}

// reconstruct runs the synthesis cascade, keeping detail bands with
// keep(band) true (band numbered coarse-to-fine from 1) and the
// approximation scaled by approxGain (1 keeps it, 0 drops it).
func (c *Coeffs) reconstruct(w Wavelet, approxGain float64, keep func(band int) bool) []float64 {
	levels := len(c.details)
	cur := make([]float64, len(c.approx))
	vecmath.ScaleBlock(cur, c.approx, approxGain)

	for i := levels - 1; i >= 0; i-- {
		band := levels - i // coarse-to-fine numbering
		d := c.details[i]
		if !keep(band) {
			d = make([]float64, len(c.details[i]))
		}
		cur = w.synthesizeStep(cur, d, c.lens[i])
	}
	return cur
}

// Reconstruct inverts the full decomposition.
func (c *Coeffs) Reconstruct(w Wavelet) []float64 {
	return c.reconstruct(w, 1, func(int) bool { return true })
}

// ReconstructUpTo rebuilds the signal from the approximation plus the
// `band` coarsest detail bands. band 0 yields the approximation alone;
// band Levels() is the full reconstruction.
func (c *Coeffs) ReconstructUpTo(w Wavelet, band int) []float64 {
	return c.reconstruct(w, 1, func(b int) bool { return b <= band })
}

// Component rebuilds the contribution of a single band: band 0 is the
// approximation, bands 1..Levels() the detail bands coarsest first.
func (c *Coeffs) Component(w Wavelet, band int) []float64 {
	gain := 0.0
	if band == 0 {
		gain = 1
	}
	return c.reconstruct(w, gain, func(b int) bool { return b == band })
}
