package analysis

import (
	"math"
	"testing"

	"diamondeda/domain/dataset"
	"diamondeda/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumColumn(frame *dataset.Frame, column string) int {
	j := frame.ColumnIndex(column)
	total := 0
	for _, row := range frame.Cells {
		total += int(row[j].Num)
	}
	return total
}

func TestPriceBinCounts_PartitionIsExhaustive(t *testing.T) {
	table := generate(t, testkit.DiamondsGeneratorConfig{Rows: 250, Seed: 11})

	frame, err := PriceBinCounts(table)
	require.NoError(t, err)

	assert.Equal(t, PriceBins, frame.NumRows())
	assert.Equal(t, "price", frame.IndexName)
	assert.Equal(t, 250, sumColumn(frame, "count"))
}

func TestPriceBinCounts_ExcludesMissingPrice(t *testing.T) {
	table := generate(t, testkit.DiamondsGeneratorConfig{Rows: 120, Seed: 5, MissingPrice: 6})

	frame, err := PriceBinCounts(table)
	require.NoError(t, err)
	assert.Equal(t, 114, sumColumn(frame, "count"))
}

func TestCutEqualWidth_EdgesAndLabels(t *testing.T) {
	bins, err := CutEqualWidth([]float64{0, 5, 10, math.NaN()}, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"(-0.01, 5.0]", "(5.0, 10.0]"}, bins.Labels)
	assert.Equal(t, []int{0, 0, 1, -1}, bins.Assign)
	assert.Equal(t, []int{2, 1}, bins.Counts())

	bins, err = CutEqualWidth([]float64{326, 18823}, 10)
	require.NoError(t, err)
	assert.Equal(t, "(307.503, 2175.7]", bins.Labels[0])
	assert.Equal(t, "(16973.3, 18823.0]", bins.Labels[9])

	bins, err = CutEqualWidth([]float64{2, 2, 2}, 3)
	require.NoError(t, err)
	counts := bins.Counts()
	assert.Equal(t, 3, counts[0]+counts[1]+counts[2])

	_, err = CutEqualWidth([]float64{math.NaN()}, 3)
	assert.Error(t, err)
	_, err = CutEqualWidth([]float64{1}, 0)
	assert.Error(t, err)
}

func TestCutEqualWidth_IndistinguishableEdges(t *testing.T) {
	bins, err := CutEqualWidth([]float64{1, 1 + 1e-15}, 10)
	assert.Error(t, err)
	assert.Nil(t, bins)
}

func TestRoundFrac(t *testing.T) {
	assert.Equal(t, 0.000123, roundFrac(0.00012345, 3))
	assert.Equal(t, 2175.7, roundFrac(2175.7, 3))
	assert.Equal(t, 307.503, roundFrac(307.503, 3))
	assert.Equal(t, 0.0, roundFrac(0, 3))
}

func TestGroupPriceStats(t *testing.T) {
	table := dataset.NewTable()
	require.NoError(t, table.AddNumeric("price", []float64{100, 200, 300, 1000, math.NaN()}))
	require.NoError(t, table.AddCategorical("cut", dataset.CutLevels, []int{0, 0, 0, 4, 4}))

	frame, err := GroupPriceStats(table, "cut")
	require.NoError(t, err)

	assert.Equal(t, []string{"Ideal", "Fair"}, frame.Index)
	assert.Equal(t, []string{"count", "mean", "median", "std"}, frame.Columns)

	records := frame.Records()
	assert.Equal(t, []string{"Ideal", "3", "200", "200", "100"}, records[1])
	assert.Equal(t, []string{"Fair", "1", "1000", "1000", "nan"}, records[2])

	_, err = GroupPriceStats(table, "price")
	assert.Error(t, err)
}

func TestCaratClarityPivot_ReusesBinColumn(t *testing.T) {
	table := generate(t, testkit.DiamondsGeneratorConfig{Rows: 400, Seed: 9})

	pivot, err := CaratClarityPivot(table)
	require.NoError(t, err)

	col, ok := table.Column(CaratBinName)
	require.True(t, ok)
	assert.Len(t, col.Levels, CaratBins)
	assert.Equal(t, CaratBinName, pivot.IndexName)
	assert.LessOrEqual(t, pivot.NumRows(), CaratBins)
	assert.Equal(t, 11, len(table.Columns()))

	again, err := CaratClarityPivot(table)
	require.NoError(t, err)
	assert.Equal(t, pivot.Records(), again.Records())
	assert.Equal(t, 11, len(table.Columns()))

	for _, row := range pivot.Cells {
		for _, cell := range row {
			if math.IsNaN(cell.Num) {
				assert.Equal(t, "nan", cell.String())
				continue
			}
			assert.InDelta(t, math.Round(cell.Num*100)/100, cell.Num, 1e-9)
		}
	}
}

func TestCaratClarityPivot_MeanPerCell(t *testing.T) {
	table := dataset.NewTable()
	require.NoError(t, table.AddNumeric("carat", []float64{0.2, 0.2, 1.4, 0.3}))
	require.NoError(t, table.AddCategorical("clarity", dataset.ClarityLevels, []int{0, 0, 7, 7}))
	require.NoError(t, table.AddNumeric("price", []float64{300, 401, 5000, 500}))

	pivot, err := CaratClarityPivot(table)
	require.NoError(t, err)

	assert.Equal(t, []string{"IF", "I1"}, pivot.Columns)
	require.Equal(t, 2, pivot.NumRows())
	records := pivot.Records()
	assert.Equal(t, "350.5", records[1][1])
	assert.Equal(t, "500", records[1][2])
	assert.Equal(t, "nan", records[2][1])
	assert.Equal(t, "5000", records[2][2])
}

func TestCrosstab_CountsEveryRow(t *testing.T) {
	table := generate(t, testkit.DiamondsGeneratorConfig{Rows: 180, Seed: 13})

	frame, err := Crosstab(table, "clarity", "cut")
	require.NoError(t, err)

	assert.Equal(t, "clarity", frame.IndexName)
	total := 0
	for _, column := range frame.Columns {
		total += sumColumn(frame, column)
	}
	assert.Equal(t, 180, total)
}

func TestAggregates_Deterministic(t *testing.T) {
	build := func() [][][]string {
		table := generate(t, testkit.DefaultDiamondsConfig())
		bundle, err := ComputeBundle(table)
		require.NoError(t, err)
		bins, err := PriceBinCounts(table)
		require.NoError(t, err)
		cut, err := GroupPriceStats(table, "cut")
		require.NoError(t, err)
		pivot, err := CaratClarityPivot(table)
		require.NoError(t, err)
		color, err := GroupPriceStats(table, "color")
		require.NoError(t, err)
		cross, err := Crosstab(table, "clarity", "cut")
		require.NoError(t, err)
		return [][][]string{bins.Records(), cut.Records(), pivot.Records(), color.Records(),
			RoundedCorrelation(bundle).Records(), cross.Records()}
	}

	assert.Equal(t, build(), build())
}
