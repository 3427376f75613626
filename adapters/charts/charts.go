package charts

import (
	"fmt"
	"image/color"
	"math"

	"diamondeda/domain/dataset"
	"diamondeda/domain/run"
	"diamondeda/internal/analysis"
	"diamondeda/internal/errors"

	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Image names, also used as the alt text of the report embeds
const (
	PriceHistName      = run.ChartPriceHist
	PriceByCutBoxName  = run.ChartPriceByCut
	CaratPriceName     = run.ChartCaratPrice
	PriceByColorName   = run.ChartPriceByColor
	CorrHeatmapName    = run.ChartCorrHeatmap
	ClarityCountName   = run.ChartClarityCount
	histogramBins      = 50
	scatterAlpha       = 153 // 0.6 opacity
	heatmapPaletteSize = 255
)

// PriceHistogram draws the price distribution with a kernel density curve scaled to counts
func (r *Renderer) PriceHistogram(t *dataset.Table) (Artifact, error) {
	col, ok := t.Column("price")
	if !ok || col.Kind != dataset.KindNumeric {
		return Artifact{}, errors.RenderFailed(PriceHistName, fmt.Errorf("numeric price column not found"))
	}
	prices := col.Present()
	if len(prices) == 0 {
		return Artifact{}, errors.RenderFailed(PriceHistName, fmt.Errorf("no price values"))
	}

	p := newPlot("Price Distribution", "price", "Count")
	hist, err := plotter.NewHist(plotter.Values(prices), histogramBins)
	if err != nil {
		return Artifact{}, errors.RenderFailed(PriceHistName, err)
	}
	hist.FillColor = withAlpha(0, 170)
	hist.LineStyle.Width = vg.Points(0.5)
	p.Add(hist)

	lo, hi := floats.Min(prices), floats.Max(prices)
	if hi > lo {
		kde := &stats.KDE{Sample: stats.Sample{Xs: prices}}
		scale := float64(len(prices)) * hist.Width
		curve := plotter.NewFunction(func(x float64) float64 {
			d := kde.PDF(x)
			if math.IsNaN(d) || math.IsInf(d, 0) {
				return 0
			}
			return d * scale
		})
		curve.XMin, curve.XMax = lo, hi
		curve.Samples = 200
		curve.Color = plotutil.Color(0)
		curve.Width = vg.Points(1.5)
		p.Add(curve)
	}

	return r.save(PriceHistName, p, 8*vg.Inch, 4*vg.Inch)
}

// PriceByCutBox draws one box plot of price per observed cut level
func (r *Renderer) PriceByCutBox(t *dataset.Table) (Artifact, error) {
	groups, err := groupValues(t, "cut", "price")
	if err != nil {
		return Artifact{}, errors.RenderFailed(PriceByCutBoxName, err)
	}

	p := newPlot("Price by Cut (Boxplot)", "cut", "price")
	names := make([]string, len(groups))
	for i, g := range groups {
		box, err := plotter.NewBoxPlot(vg.Points(28), float64(i), g.values)
		if err != nil {
			return Artifact{}, errors.RenderFailed(PriceByCutBoxName, err)
		}
		box.FillColor = withAlpha(i, 200)
		p.Add(box)
		names[i] = g.level
	}
	p.NominalX(names...)

	return r.save(PriceByCutBoxName, p, 8*vg.Inch, 4*vg.Inch)
}

// CaratPriceScatter draws carat against price, one translucent series per clarity level
func (r *Renderer) CaratPriceScatter(t *dataset.Table) (Artifact, error) {
	clarity, err := t.Categorical("clarity")
	if err != nil {
		return Artifact{}, errors.RenderFailed(CaratPriceName, err)
	}
	carat, err := t.Numeric("carat")
	if err != nil {
		return Artifact{}, errors.RenderFailed(CaratPriceName, err)
	}
	price, err := t.Numeric("price")
	if err != nil {
		return Artifact{}, errors.RenderFailed(CaratPriceName, err)
	}

	series := make([]plotter.XYs, len(clarity.Levels))
	for i, code := range clarity.Codes {
		if code == dataset.MissingCode || math.IsNaN(carat[i]) || math.IsNaN(price[i]) {
			continue
		}
		series[code] = append(series[code], plotter.XY{X: carat[i], Y: price[i]})
	}

	p := newPlot("Carat vs Price by Clarity", "carat", "price")
	p.Legend.Top = true
	p.Legend.Left = true
	drawn := 0
	for code, xys := range series {
		if len(xys) == 0 {
			continue
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return Artifact{}, errors.RenderFailed(CaratPriceName, err)
		}
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(1.6)
		s.GlyphStyle.Color = withAlpha(code, scatterAlpha)
		p.Add(s)
		p.Legend.Add(clarity.Levels[code], s)
		drawn++
	}
	if drawn == 0 {
		return Artifact{}, errors.RenderFailed(CaratPriceName, fmt.Errorf("no complete carat/price pairs"))
	}

	return r.save(CaratPriceName, p, 8*vg.Inch, 6*vg.Inch)
}

// PriceByColorViolin draws one violin of price per observed color level
func (r *Renderer) PriceByColorViolin(t *dataset.Table) (Artifact, error) {
	groups, err := groupValues(t, "color", "price")
	if err != nil {
		return Artifact{}, errors.RenderFailed(PriceByColorName, err)
	}

	p := newPlot("Price by Color (Violin)", "color", "price")
	names := make([]string, len(groups))
	for i, g := range groups {
		p.Add(newViolin(float64(i), g.values, withAlpha(i, 200)))
		names[i] = g.level
	}
	p.NominalX(names...)

	return r.save(PriceByColorName, p, 8*vg.Inch, 5*vg.Inch)
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ with the first label on top
type corrGrid struct {
	m *mat.SymDense
}

func (g corrGrid) Dims() (c, r int) {
	n := g.m.SymmetricDim()
	return n, n
}

func (g corrGrid) Z(c, r int) float64 {
	n := g.m.SymmetricDim()
	return g.m.At(n-1-r, c)
}

func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

// CorrHeatmap draws the correlation matrix on a blue to red scale fixed to [-1, 1],
// each cell annotated with its value to two decimals.
func (r *Renderer) CorrHeatmap(m *mat.SymDense, labels []string) (Artifact, error) {
	if m == nil || m.SymmetricDim() == 0 || m.SymmetricDim() != len(labels) {
		return Artifact{}, errors.RenderFailed(CorrHeatmapName, fmt.Errorf("correlation matrix does not match %d labels", len(labels)))
	}
	n := len(labels)
	grid := corrGrid{m: m}

	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)
	heat := plotter.NewHeatMap(grid, cmap.Palette(heatmapPaletteSize))
	heat.Min, heat.Max = -1, 1
	heat.NaN = color.Gray{Y: 230}

	var points plotter.XYs
	var texts []string
	for row := 0; row < n; row++ {
		for c := 0; c < n; c++ {
			v := grid.Z(c, row)
			label := "nan"
			if !math.IsNaN(v) {
				label = fmt.Sprintf("%.2f", v)
			}
			points = append(points, plotter.XY{X: float64(c), Y: float64(row)})
			texts = append(texts, label)
		}
	}
	annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: points, Labels: texts})
	if err != nil {
		return Artifact{}, errors.RenderFailed(CorrHeatmapName, err)
	}
	for i := range annotations.TextStyle {
		annotations.TextStyle[i].XAlign = text.XCenter
		annotations.TextStyle[i].YAlign = text.YCenter
		annotations.TextStyle[i].Font.Size = vg.Points(7)
	}

	xTicks := make([]plot.Tick, n)
	yTicks := make([]plot.Tick, n)
	for i, label := range labels {
		xTicks[i] = plot.Tick{Value: float64(i), Label: label}
		yTicks[i] = plot.Tick{Value: float64(n - 1 - i), Label: label}
	}

	p := newPlot("Numeric Feature Correlation", "", "")
	p.Add(heat, annotations)
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	p.X.Min, p.X.Max = -0.5, float64(n)-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(n)-0.5

	return r.save(CorrHeatmapName, p, 6*vg.Inch, 5*vg.Inch)
}

// ClarityCount draws clarity frequencies as bars, most frequent first
func (r *Renderer) ClarityCount(t *dataset.Table) (Artifact, error) {
	col, err := t.Categorical("clarity")
	if err != nil {
		return Artifact{}, errors.RenderFailed(ClarityCountName, err)
	}
	counts := analysis.ValueCounts(col)
	if counts.NumRows() == 0 {
		return Artifact{}, errors.RenderFailed(ClarityCountName, fmt.Errorf("no clarity values"))
	}

	values := make(plotter.Values, counts.NumRows())
	for i, row := range counts.Cells {
		values[i] = row[0].Num
	}
	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return Artifact{}, errors.RenderFailed(ClarityCountName, err)
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = vg.Length(0)

	p := newPlot("Clarity Counts", "clarity", "count")
	p.Add(bars)
	p.NominalX(counts.Index...)

	return r.save(ClarityCountName, p, 6*vg.Inch, 4*vg.Inch)
}
