package dwt

import "math"

// Wavelet is an orthogonal wavelet defined by its scaling (low-pass)
// filter; the wavelet (high-pass) filter is the quadrature mirror.
type Wavelet struct {
	name string
	dec  []float64 // scaling filter
	wav  []float64 // wavelet filter, QMF of dec
}

// newOrthogonal derives the high-pass filter g[m] = (-1)^m h[L-1-m] from
// the scaling filter h.
func newOrthogonal(name string, h []float64) Wavelet {
	g := make([]float64, len(h))
	for m := range h {
		g[m] = h[len(h)-1-m]
		if m%2 == 1 {
			g[m] = -g[m]
		}
	}
	return Wavelet{name: name, dec: h, wav: g}
}

// Haar returns the Haar wavelet, the basis the RFI detectors default to.
func Haar() Wavelet {
	s := 1 / math.Sqrt2
	return newOrthogonal("haar", []float64{s, s})
}

// DB4 returns the Daubechies 4-tap wavelet.
func DB4() Wavelet {
	r3 := math.Sqrt(3)
	d := 4 * math.Sqrt2
	return newOrthogonal("db4", []float64{
		(1 + r3) / d,
		(3 + r3) / d,
		(3 - r3) / d,
		(1 - r3) / d,
	})
}

// Name returns the wavelet's name.
func (w Wavelet) Name() string { return w.name }

// FilterLen returns the analysis filter length.
func (w Wavelet) FilterLen() int { return len(w.dec) }

// MaxLevel returns the deepest useful decomposition level for a signal of
// length n, after pywt's convention: floor(log2(n / (filterLen - 1))),
// with a floor of zero.
func MaxLevel(n int, w Wavelet) int {
	den := w.FilterLen() - 1
	if den < 1 {
		den = 1
	}
	if n < 2*den {
		return 0
	}
	return int(math.Floor(math.Log2(float64(n) / float64(den))))
}
