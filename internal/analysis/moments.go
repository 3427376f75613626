package analysis

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// centralMoments returns the mean and the biased second, third and fourth central moments
func centralMoments(data []float64) (mean, m2, m3, m4 float64) {
	n := float64(len(data))
	mean, _ = stats.Mean(data)
	for _, x := range data {
		d := x - mean
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	return mean, m2 / n, m3 / n, m4 / n
}

// Skewness computes the adjusted Fisher-Pearson coefficient G1.
// NaN below three observations, 0 for a constant sample.
func Skewness(data []float64) float64 {
	if len(data) < 3 {
		return math.NaN()
	}
	n := float64(len(data))
	_, m2, m3, _ := centralMoments(data)
	if m2 == 0 {
		return 0
	}
	g1 := m3 / math.Pow(m2, 1.5)
	return g1 * math.Sqrt(n*(n-1)) / (n - 2)
}

// Kurtosis computes bias-corrected excess kurtosis G2.
// NaN below four observations, 0 for a constant sample.
func Kurtosis(data []float64) float64 {
	if len(data) < 4 {
		return math.NaN()
	}
	n := float64(len(data))
	_, m2, _, m4 := centralMoments(data)
	if m2 == 0 {
		return 0
	}
	g2 := m4/(m2*m2) - 3
	return ((n+1)*g2 + 6) * (n - 1) / ((n - 2) * (n - 3))
}

// NormalityTest runs D'Agostino's K² omnibus test and returns K² and its p-value.
// Samples under eight observations or without variance report NaN.
func NormalityTest(data []float64) (k2, pValue float64) {
	if len(data) < 8 {
		return math.NaN(), math.NaN()
	}
	n := float64(len(data))
	_, m2, m3, m4 := centralMoments(data)
	if m2 == 0 {
		return math.NaN(), math.NaN()
	}
	b1 := m3 / math.Pow(m2, 1.5)
	b2 := m4 / (m2 * m2)

	// Skewness transform (D'Agostino)
	y := b1 * math.Sqrt((n+1)*(n+3)/(6*(n-2)))
	beta2 := 3 * (n*n + 27*n - 70) * (n + 1) * (n + 3) / ((n - 2) * (n + 5) * (n + 7) * (n + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	delta := 1 / math.Sqrt(math.Log(math.Sqrt(w2)))
	alpha := math.Sqrt(2 / (w2 - 1))
	ay := y / alpha
	z1 := delta * math.Log(ay+math.Sqrt(ay*ay+1))

	// Kurtosis transform (Anscombe-Glynn)
	e := 3 * (n - 1) / (n + 1)
	v := 24 * n * (n - 2) * (n - 3) / ((n + 1) * (n + 1) * (n + 3) * (n + 5))
	x := (b2 - e) / math.Sqrt(v)
	sqrtBeta1 := 6 * (n*n - 5*n + 2) / ((n + 7) * (n + 9)) * math.Sqrt(6*(n+3)*(n+5)/(n*(n-2)*(n-3)))
	a := 6 + 8/sqrtBeta1*(2/sqrtBeta1+math.Sqrt(1+4/(sqrtBeta1*sqrtBeta1)))
	den := 1 + x*math.Sqrt(2/(a-4))
	if den <= 0 {
		return math.Inf(1), 0
	}
	z2 := (1 - 2/(9*a) - math.Cbrt((1-2/a)/den)) / math.Sqrt(2/(9*a))

	k2 = z1*z1 + z2*z2
	chi2 := distuv.ChiSquared{K: 2}
	return k2, chi2.Survival(k2)
}

// Quantile interpolates linearly between closest ranks of sorted data
// (position (n-1)*p), the convention of most dataframe libraries.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// sortedCopy returns an ascending copy of data
func sortedCopy(data []float64) []float64 {
	out := append([]float64(nil), data...)
	sort.Float64s(out)
	return out
}

// median returns NaN for an empty sample
func median(data []float64) float64 {
	m, err := stats.Median(data)
	if err != nil {
		return math.NaN()
	}
	return m
}
