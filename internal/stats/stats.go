package stats

import (
	"fmt"
	"math"
	"sort"
)

// Interval is a two-sided confidence interval around a sample mean.
type Interval struct {
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
	HalfWidth float64 `json:"half_width"`
}

// Mean returns the arithmetic average, or 0 for an empty slice.
func Mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range samples {
		sum += v
	}
	return sum / float64(len(samples))
}

// StdDev returns the sample standard deviation (n-1 denominator), or 0 when
// fewer than two samples exist.
func StdDev(samples []float64) float64 {
	n := len(samples)
	if n < 2 {
		return 0
	}
	mean := Mean(samples)
	sum := 0.0
	for _, v := range samples {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(n-1))
}

// ConfidenceInterval returns the two-sided Student-t interval at the given
// confidence level (e.g. 0.95). The critical value is taken at cumulative
// probability (level+1)/2 with n-1 degrees of freedom. Fails explicitly with
// fewer than two samples, where the standard deviation is undefined.
func ConfidenceInterval(samples []float64, level float64) (Interval, error) {
	n := len(samples)
	if n < 2 {
		return Interval{}, fmt.Errorf("confidence interval requires at least 2 samples, got %d", n)
	}
	if level <= 0 || level >= 1 {
		return Interval{}, fmt.Errorf("confidence level must be in (0, 1), got %g", level)
	}

	critical, err := TQuantile((level+1)/2, n-1)
	if err != nil {
		return Interval{}, err
	}

	mean := Mean(samples)
	half := critical * StdDev(samples) / math.Sqrt(float64(n))
	return Interval{Lower: mean - half, Upper: mean + half, HalfWidth: half}, nil
}

// Exceedance returns the fraction of samples strictly greater than threshold.
func Exceedance(samples []float64, threshold float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	over := 0
	for _, v := range samples {
		if v > threshold {
			over++
		}
	}
	return float64(over) / float64(len(samples))
}

// Percentile returns the p-th percentile using linear interpolation between
// order statistics at position p/100 * (n-1).
func Percentile(samples []float64, p float64) (float64, error) {
	if len(samples) == 0 {
		return 0, fmt.Errorf("percentile of empty sample set")
	}
	if p < 0 || p > 100 {
		return 0, fmt.Errorf("percentile must be in [0, 100], got %g", p)
	}

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	pos := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower], nil
	}
	weight := pos - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight, nil
}
