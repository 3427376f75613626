package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// labelPrecision is the number of digits kept in bin labels
const labelPrecision = 3

// Binning is an equal-width partition of a numeric column into right-closed intervals
type Binning struct {
	Edges  []float64 // len(Labels)+1 ascending boundaries
	Labels []string  // "(lo, hi]" per bin
	Assign []int     // bin per row, -1 for missing values
}

// Counts returns the number of rows in each bin
func (b *Binning) Counts() []int {
	counts := make([]int, len(b.Labels))
	for _, bin := range b.Assign {
		if bin >= 0 {
			counts[bin]++
		}
	}
	return counts
}

// CutEqualWidth splits the observed range of values into bins intervals of equal width.
// The lowest edge is pushed down by 0.1% of the range so the minimum falls inside the
// first (lo, hi] interval; a constant column gets a ±0.1% window around its value.
func CutEqualWidth(values []float64, bins int) (*Binning, error) {
	if bins < 1 {
		return nil, fmt.Errorf("bins must be positive, got %d", bins)
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return nil, fmt.Errorf("cannot bin a column without values")
	}

	edges := make([]float64, bins+1)
	if lo == hi {
		pad := 0.001 * math.Abs(lo)
		if lo == 0 {
			pad = 0.001
		}
		floats.Span(edges, lo-pad, hi+pad)
	} else {
		floats.Span(edges, lo, hi)
		edges[0] -= (hi - lo) * 0.001
	}

	labels := intervalLabels(edges)
	if labels == nil {
		return nil, fmt.Errorf("cannot label %d bins over range [%g, %g]: edges are indistinguishable", bins, lo, hi)
	}

	b := &Binning{Edges: edges, Labels: labels, Assign: make([]int, len(values))}
	upper := edges[1:]
	for i, v := range values {
		if math.IsNaN(v) {
			b.Assign[i] = -1
			continue
		}
		bin := sort.SearchFloat64s(upper, v)
		if bin >= bins {
			bin = bins - 1
		}
		b.Assign[i] = bin
	}
	return b, nil
}

// intervalLabels formats "(lo, hi]" labels, raising precision until labels are distinct
func intervalLabels(edges []float64) []string {
	for precision := labelPrecision; precision < 16; precision++ {
		labels := make([]string, len(edges)-1)
		seen := make(map[string]bool, len(labels))
		distinct := true
		for i := range labels {
			labels[i] = "(" + formatEdge(roundFrac(edges[i], precision)) + ", " +
				formatEdge(roundFrac(edges[i+1], precision)) + "]"
			if seen[labels[i]] {
				distinct = false
			}
			seen[labels[i]] = true
		}
		if distinct {
			return labels
		}
	}
	return nil
}

// roundFrac keeps precision decimals for values with an integer part, and precision
// significant digits for pure fractions.
func roundFrac(x float64, precision int) float64 {
	if x == 0 || math.IsInf(x, 0) || math.IsNaN(x) {
		return x
	}
	whole, frac := math.Modf(x)
	digits := precision
	if whole == 0 {
		digits = -int(math.Floor(math.Log10(math.Abs(frac)))) - 1 + precision
	}
	scale := math.Pow(10, float64(digits))
	return math.Round(x*scale) / scale
}

// formatEdge prints the shortest representation, always with a decimal point
func formatEdge(x float64) string {
	s := strconv.FormatFloat(x, 'f', -1, 64)
	if x == math.Trunc(x) {
		s += ".0"
	}
	return s
}
