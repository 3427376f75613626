package analysis

import (
	"fmt"
	"math"
	"sort"

	"diamondeda/domain/dataset"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// FrequencyColumns are the categorical columns whose value counts are reported
var FrequencyColumns = []string{"cut", "color", "clarity"}

// ValueCount pairs a categorical column with its frequency table
type ValueCount struct {
	Column string
	Frame  *dataset.Frame
}

// Bundle is the fixed battery of descriptive statistics computed once per run
type Bundle struct {
	Rows        int
	Cols        int
	Columns     []string
	Missing     *dataset.Frame
	Describe    *dataset.Frame
	Skewness    *dataset.Frame
	Kurtosis    *dataset.Frame
	Normality   *dataset.Frame
	ValueCounts []ValueCount
	Correlation *dataset.Frame

	// CorrMatrix holds the same coefficients as Correlation, indexed like CorrLabels
	CorrMatrix *mat.SymDense
	CorrLabels []string
}

// Shape formats the row and column counts as "(rows, cols)"
func (b *Bundle) Shape() string {
	return fmt.Sprintf("(%d, %d)", b.Rows, b.Cols)
}

// ComputeBundle computes every statistic of the bundle. It only reads the table.
func ComputeBundle(t *dataset.Table) (*Bundle, error) {
	b := &Bundle{
		Rows:    t.Rows(),
		Cols:    len(t.Columns()),
		Columns: t.Names(),
	}

	b.Missing = MissingCounts(t)
	b.Describe = Describe(t)
	b.Skewness, b.Kurtosis, b.Normality = shapeTables(t)

	for _, name := range FrequencyColumns {
		col, err := t.Categorical(name)
		if err != nil {
			return nil, fmt.Errorf("value counts: %w", err)
		}
		b.ValueCounts = append(b.ValueCounts, ValueCount{Column: name, Frame: ValueCounts(col)})
	}

	b.CorrMatrix, b.CorrLabels = CorrelationMatrix(t)
	b.Correlation = matrixFrame(b.CorrMatrix, b.CorrLabels)
	return b, nil
}

// MissingCounts counts missing entries for every column
func MissingCounts(t *dataset.Table) *dataset.Frame {
	frame := dataset.NewFrame("column", "missing")
	for _, col := range t.Columns() {
		_ = frame.AddRow(col.Name, dataset.Int(col.MissingCount()))
	}
	return frame
}

// describeRows is the row order of the describe table
var describeRows = []string{"count", "unique", "top", "freq", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Describe summarizes every column. Numeric columns fill the moment and quantile rows,
// categorical columns fill unique, top and freq; the rest stay blank.
func Describe(t *dataset.Table) *dataset.Frame {
	columns := t.Columns()
	cells := make([][]dataset.Cell, len(describeRows))
	for i := range cells {
		cells[i] = make([]dataset.Cell, len(columns))
		for j := range cells[i] {
			cells[i][j] = dataset.Empty()
		}
	}

	for j, col := range columns {
		if col.Kind == dataset.KindCategorical {
			counts := levelCounts(col)
			present := col.Len() - col.MissingCount()
			cells[0][j] = dataset.Int(present)
			unique, top, freq := 0, -1, 0
			for level, n := range counts {
				if n == 0 {
					continue
				}
				unique++
				if n > freq {
					top, freq = level, n
				}
			}
			cells[1][j] = dataset.Int(unique)
			if top >= 0 {
				cells[2][j] = dataset.Text(col.Levels[top])
				cells[3][j] = dataset.Int(freq)
			}
			continue
		}

		values := col.Present()
		cells[0][j] = dataset.Int(len(values))
		if len(values) == 0 {
			continue
		}
		sorted := sortedCopy(values)
		mean, std := stat.MeanStdDev(values, nil)
		minV, _ := stats.Min(values)
		maxV, _ := stats.Max(values)
		cells[4][j] = dataset.Float(mean)
		cells[5][j] = dataset.Float(std)
		cells[6][j] = dataset.Float(minV)
		cells[7][j] = dataset.Float(Quantile(sorted, 0.25))
		cells[8][j] = dataset.Float(Quantile(sorted, 0.50))
		cells[9][j] = dataset.Float(Quantile(sorted, 0.75))
		cells[10][j] = dataset.Float(maxV)
	}

	frame := dataset.NewFrame("", t.Names()...)
	for i, label := range describeRows {
		_ = frame.AddRow(label, cells[i]...)
	}
	return frame
}

// shapeTables computes skewness, kurtosis and the normality test for numeric columns
func shapeTables(t *dataset.Table) (skew, kurt, normality *dataset.Frame) {
	skew = dataset.NewFrame("column", "skewness")
	kurt = dataset.NewFrame("column", "kurtosis")
	normality = dataset.NewFrame("column", "k2", "p_value")
	for _, col := range t.NumericColumns() {
		values := col.Present()
		_ = skew.AddRow(col.Name, dataset.Float(Skewness(values)))
		_ = kurt.AddRow(col.Name, dataset.Float(Kurtosis(values)))
		k2, p := NormalityTest(values)
		_ = normality.AddRow(col.Name, dataset.Float(k2), dataset.Float(p))
	}
	return skew, kurt, normality
}

// levelCounts counts occurrences of each level of a categorical column
func levelCounts(col *dataset.Column) []int {
	counts := make([]int, len(col.Levels))
	for _, code := range col.Codes {
		if code != dataset.MissingCode {
			counts[code]++
		}
	}
	return counts
}

// ValueCounts tabulates a categorical column by descending frequency; ties keep
// level order and levels that never occur are left out.
func ValueCounts(col *dataset.Column) *dataset.Frame {
	counts := levelCounts(col)
	order := make([]int, 0, len(counts))
	for level, n := range counts {
		if n > 0 {
			order = append(order, level)
		}
	}
	sort.SliceStable(order, func(a, b int) bool { return counts[order[a]] > counts[order[b]] })

	frame := dataset.NewFrame(col.Name, "count")
	for _, level := range order {
		_ = frame.AddRow(col.Levels[level], dataset.Int(counts[level]))
	}
	return frame
}

// CorrelationMatrix computes pairwise Pearson correlation over numeric columns,
// using rows where both values are present.
func CorrelationMatrix(t *dataset.Table) (*mat.SymDense, []string) {
	cols := t.NumericColumns()
	labels := make([]string, len(cols))
	for i, c := range cols {
		labels[i] = c.Name
	}
	if len(cols) == 0 {
		return nil, labels
	}

	m := mat.NewSymDense(len(cols), nil)
	for i := range cols {
		for j := i; j < len(cols); j++ {
			x, y := pairedValues(cols[i].Values, cols[j].Values)
			m.SetSym(i, j, pearson(x, y, i == j))
		}
	}
	return m, labels
}

func pairedValues(a, b []float64) (x, y []float64) {
	for k := range a {
		if math.IsNaN(a[k]) || math.IsNaN(b[k]) {
			continue
		}
		x = append(x, a[k])
		y = append(y, b[k])
	}
	return x, y
}

func pearson(x, y []float64, diagonal bool) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	if diagonal {
		return 1
	}
	return stat.Correlation(x, y, nil)
}

// matrixFrame renders a symmetric matrix as a square frame
func matrixFrame(m *mat.SymDense, labels []string) *dataset.Frame {
	frame := dataset.NewFrame("", labels...)
	for i, label := range labels {
		row := make([]dataset.Cell, len(labels))
		for j := range labels {
			row[j] = dataset.Float(m.At(i, j))
		}
		_ = frame.AddRow(label, row...)
	}
	return frame
}
