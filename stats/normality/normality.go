// Package normality implements D'Agostino's K-squared omnibus test. The
// interfered-channel detector uses it to decide whether a channel's
// residual distribution departs from Gaussian noise.
package normality

import (
	"errors"
	"fmt"
	"math"
)

// ErrSampleSize indicates too few samples for the test to be defined.
var ErrSampleSize = errors.New("normality: at least 8 samples required")

// moments returns the sample mean and the second to fourth central
// moments of x, accumulated with Welford updates for numerical stability
// on the higher orders.
func moments(x []float64) (mean, m2, m3, m4 float64) {
	for i, v := range x {
		ni := float64(i + 1)
		delta := v - mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(i)

		// M4 before M3, M3 before M2.
		m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*m2 - 4*deltaN*m3
		m3 += term1*deltaN*(float64(i)-1) - 3*deltaN*m2
		m2 += term1
		mean += deltaN
	}
	n := float64(len(x))
	return mean, m2 / n, m3 / n, m4 / n
}

// skewZ is the transformed skewness statistic (D'Agostino 1970),
// approximately standard normal under the null.
func skewZ(b1 float64, n int) float64 {
	fn := float64(n)
	y := b1 * math.Sqrt((fn+1)*(fn+3)/(6*(fn-2)))
	beta2 := 3 * (fn*fn + 27*fn - 70) * (fn + 1) * (fn + 3) /
		((fn - 2) * (fn + 5) * (fn + 7) * (fn + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	delta := 1 / math.Sqrt(0.5*math.Log(w2))
	alpha := math.Sqrt(2 / (w2 - 1))
	if y == 0 {
		y = 1
	}
	return delta * math.Log(y/alpha+math.Sqrt((y/alpha)*(y/alpha)+1))
}

// kurtZ is the transformed kurtosis statistic (Anscombe & Glynn 1983),
// approximately standard normal under the null.
func kurtZ(b2 float64, n int) float64 {
	fn := float64(n)
	e := 3 * (fn - 1) / (fn + 1)
	varB2 := 24 * fn * (fn - 2) * (fn - 3) / ((fn + 1) * (fn + 1) * (fn + 3) * (fn + 5))
	x := (b2 - e) / math.Sqrt(varB2)

	sqrtBeta1 := 6 * (fn*fn - 5*fn + 2) / ((fn + 7) * (fn + 9)) *
		math.Sqrt(6*(fn+3)*(fn+5)/(fn*(fn-2)*(fn-3)))
	a := 6 + 8/sqrtBeta1*(2/sqrtBeta1+math.Sqrt(1+4/(sqrtBeta1*sqrtBeta1)))

	term1 := 1 - 2/(9*a)
	denom := 1 + x*math.Sqrt(2/(a-4))
	term2 := math.Copysign(math.Cbrt((1-2/a)/math.Abs(denom)), denom)
	return (term1 - term2) / math.Sqrt(2/(9*a))
}

// KSquared runs D'Agostino's omnibus normality test on x and returns the
// K-squared statistic with its p-value. Under the null hypothesis of
// normality the statistic is chi-square distributed with two degrees of
// freedom, so p = exp(-k2/2). Small p indicates departure from normality.
func KSquared(x []float64) (stat, p float64, err error) {
	if len(x) < 8 {
		return 0, 0, fmt.Errorf("%w: have %d", ErrSampleSize, len(x))
	}

	_, m2, m3, m4 := moments(x)
	if m2 == 0 {
		// Constant input: no spread, maximally non-normal.
		return math.Inf(1), 0, nil
	}

	b1 := m3 / math.Pow(m2, 1.5)
	b2 := m4 / (m2 * m2)

	zs := skewZ(b1, len(x))
	zk := kurtZ(b2, len(x))
	stat = zs*zs + zk*zk
	p = math.Exp(-stat / 2)
	return stat, p, nil
}
