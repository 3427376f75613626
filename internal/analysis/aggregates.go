package analysis

import (
	"fmt"
	"math"

	"diamondeda/domain/dataset"

	"gonum.org/v1/gonum/stat"
)

const (
	PriceBins     = 10
	CaratBins     = 6
	CaratBinName  = "carat_bin"
	PivotDecimals = 2
	CorrDecimals  = 3
)

// PriceBinCounts counts rows in each of ten equal-width price intervals.
// Every interval is listed, including empty ones; rows without a price are excluded.
func PriceBinCounts(t *dataset.Table) (*dataset.Frame, error) {
	price, err := t.Numeric("price")
	if err != nil {
		return nil, err
	}
	bins, err := CutEqualWidth(price, PriceBins)
	if err != nil {
		return nil, fmt.Errorf("price bins: %w", err)
	}

	frame := dataset.NewFrame("price", "count")
	for i, n := range bins.Counts() {
		_ = frame.AddRow(bins.Labels[i], dataset.Int(n))
	}
	return frame, nil
}

// GroupPriceStats reports count, mean, median and sample standard deviation of price
// for each observed level of a categorical column, in level order.
func GroupPriceStats(t *dataset.Table, by string) (*dataset.Frame, error) {
	price, err := t.Numeric("price")
	if err != nil {
		return nil, err
	}
	col, err := t.Categorical(by)
	if err != nil {
		return nil, err
	}

	groups := make([][]float64, len(col.Levels))
	observed := make([]bool, len(col.Levels))
	for i, code := range col.Codes {
		if code == dataset.MissingCode {
			continue
		}
		observed[code] = true
		if !math.IsNaN(price[i]) {
			groups[code] = append(groups[code], price[i])
		}
	}

	frame := dataset.NewFrame(by, "count", "mean", "median", "std")
	for level, values := range groups {
		if !observed[level] {
			continue
		}
		mean, std := math.NaN(), math.NaN()
		if len(values) > 0 {
			mean, std = stat.MeanStdDev(values, nil)
		}
		_ = frame.AddRow(col.Levels[level],
			dataset.Int(len(values)), dataset.Float(mean), dataset.Float(median(values)), dataset.Float(std))
	}
	return frame, nil
}

// EnsureCaratBins adds the carat_bin column (six equal-width carat intervals) unless
// it is already present, and returns it.
func EnsureCaratBins(t *dataset.Table) (*dataset.Column, error) {
	if col, ok := t.Column(CaratBinName); ok {
		return col, nil
	}
	carat, err := t.Numeric("carat")
	if err != nil {
		return nil, err
	}
	bins, err := CutEqualWidth(carat, CaratBins)
	if err != nil {
		return nil, fmt.Errorf("carat bins: %w", err)
	}
	if err := t.AddCategorical(CaratBinName, bins.Labels, bins.Assign); err != nil {
		return nil, err
	}
	col, _ := t.Column(CaratBinName)
	return col, nil
}

// CaratClarityPivot tabulates mean price by carat_bin (rows) and clarity (columns),
// rounded to two decimals. Bins and clarity levels without rows are dropped;
// combinations without rows print as nan.
func CaratClarityPivot(t *dataset.Table) (*dataset.Frame, error) {
	bins, err := EnsureCaratBins(t)
	if err != nil {
		return nil, err
	}
	clarity, err := t.Categorical("clarity")
	if err != nil {
		return nil, err
	}
	price, err := t.Numeric("price")
	if err != nil {
		return nil, err
	}

	rows, cols := len(bins.Levels), len(clarity.Levels)
	sum := make([][]float64, rows)
	count := make([][]int, rows)
	for r := range sum {
		sum[r] = make([]float64, cols)
		count[r] = make([]int, cols)
	}
	rowUsed := make([]bool, rows)
	colUsed := make([]bool, cols)
	for i := range price {
		r, c := bins.Codes[i], clarity.Codes[i]
		if r == dataset.MissingCode || c == dataset.MissingCode || math.IsNaN(price[i]) {
			continue
		}
		sum[r][c] += price[i]
		count[r][c]++
		rowUsed[r], colUsed[c] = true, true
	}

	var headers []string
	var keep []int
	for c, used := range colUsed {
		if used {
			headers = append(headers, clarity.Levels[c])
			keep = append(keep, c)
		}
	}
	frame := dataset.NewFrame(CaratBinName, headers...)
	for r, used := range rowUsed {
		if !used {
			continue
		}
		cells := make([]dataset.Cell, len(keep))
		for k, c := range keep {
			if count[r][c] == 0 {
				cells[k] = dataset.Float(math.NaN())
				continue
			}
			cells[k] = dataset.Float(sum[r][c] / float64(count[r][c]))
		}
		_ = frame.AddRow(bins.Levels[r], cells...)
	}
	return frame.Round(PivotDecimals), nil
}

// Crosstab counts rows for every observed combination of two categorical columns
func Crosstab(t *dataset.Table, rowName, colName string) (*dataset.Frame, error) {
	rowCol, err := t.Categorical(rowName)
	if err != nil {
		return nil, err
	}
	colCol, err := t.Categorical(colName)
	if err != nil {
		return nil, err
	}

	counts := make([][]int, len(rowCol.Levels))
	for r := range counts {
		counts[r] = make([]int, len(colCol.Levels))
	}
	rowTotals := make([]int, len(rowCol.Levels))
	colTotals := make([]int, len(colCol.Levels))
	for i := range rowCol.Codes {
		r, c := rowCol.Codes[i], colCol.Codes[i]
		if r == dataset.MissingCode || c == dataset.MissingCode {
			continue
		}
		counts[r][c]++
		rowTotals[r]++
		colTotals[c]++
	}

	var headers []string
	var keep []int
	for c, total := range colTotals {
		if total > 0 {
			headers = append(headers, colCol.Levels[c])
			keep = append(keep, c)
		}
	}
	frame := dataset.NewFrame(rowName, headers...)
	for r, total := range rowTotals {
		if total == 0 {
			continue
		}
		cells := make([]dataset.Cell, len(keep))
		for k, c := range keep {
			cells[k] = dataset.Int(counts[r][c])
		}
		_ = frame.AddRow(rowCol.Levels[r], cells...)
	}
	return frame, nil
}

// RoundedCorrelation is the correlation matrix rounded for the heatmap's companion table
func RoundedCorrelation(b *Bundle) *dataset.Frame {
	return b.Correlation.Round(CorrDecimals)
}
