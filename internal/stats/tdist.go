package stats

import (
	"fmt"
	"math"
)

// TQuantile returns the Student-t quantile for cumulative probability p with
// df degrees of freedom, by bisecting the CDF. The CDF is evaluated through
// the regularized incomplete beta function, so no external statistics
// dependency is needed. Accurate to roughly 1e-10.
func TQuantile(p float64, df int) (float64, error) {
	if df < 1 {
		return 0, fmt.Errorf("degrees of freedom must be >= 1, got %d", df)
	}
	if p <= 0 || p >= 1 {
		return 0, fmt.Errorf("probability must be in (0, 1), got %g", p)
	}
	if p == 0.5 {
		return 0, nil
	}
	if p < 0.5 {
		q, err := TQuantile(1-p, df)
		return -q, err
	}

	// Expand an upper bracket, then bisect. The t CDF is strictly
	// increasing, so this always converges.
	lo, hi := 0.0, 2.0
	for tCDF(hi, df) < p {
		hi *= 2
		if hi > 1e12 {
			return 0, fmt.Errorf("t quantile did not bracket for p=%g df=%d", p, df)
		}
	}
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		if tCDF(mid, df) < p {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo < 1e-12*(1+hi) {
			break
		}
	}
	return (lo + hi) / 2, nil
}

// tCDF is the Student-t cumulative distribution for x >= 0:
// 1 - I_{df/(df+x^2)}(df/2, 1/2) / 2.
func tCDF(x float64, df int) float64 {
	if x < 0 {
		return 1 - tCDF(-x, df)
	}
	v := float64(df)
	return 1 - 0.5*regIncBeta(v/2, 0.5, v/(v+x*x))
}

// regIncBeta is the regularized incomplete beta function I_x(a, b), computed
// with the continued fraction expansion.
func regIncBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}

	lgab, _ := math.Lgamma(a + b)
	lga, _ := math.Lgamma(a)
	lgb, _ := math.Lgamma(b)
	front := math.Exp(lgab - lga - lgb + a*math.Log(x) + b*math.Log(1-x))

	// The continued fraction converges fastest for x below the split point;
	// above it, use the symmetry I_x(a,b) = 1 - I_{1-x}(b,a).
	if x < (a+1)/(a+b+2) {
		return front * betaCF(a, b, x) / a
	}
	return 1 - front*betaCF(b, a, 1-x)/b
}

// betaCF evaluates the incomplete beta continued fraction by the modified
// Lentz method.
func betaCF(a, b, x float64) float64 {
	const (
		maxIter = 300
		eps     = 1e-15
		tiny    = 1e-30
	)

	qab := a + b
	qap := a + 1
	qam := a - 1

	c := 1.0
	d := 1 - qab*x/qap
	if math.Abs(d) < tiny {
		d = tiny
	}
	d = 1 / d
	h := d

	for m := 1; m <= maxIter; m++ {
		fm := float64(m)
		m2 := 2 * fm

		aa := fm * (b - fm) * x / ((qam + m2) * (a + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		h *= d * c

		aa = -(a + fm) * (qab + fm) * x / ((a + m2) * (qap + m2))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		del := d * c
		h *= del

		if math.Abs(del-1) < eps {
			break
		}
	}
	return h
}
