package charts

import (
	"image/color"
	"math"
	"sort"

	"diamondeda/internal/analysis"

	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const violinSamples = 100

// violin draws one mirrored kernel density outline at a nominal x position,
// with dashed lines at the quartiles.
type violin struct {
	loc  float64
	half float64 // half width in data units at peak density

	ys      []float64
	density []float64 // scaled to a peak of 1

	quartiles [3]float64

	fill          color.Color
	outline       draw.LineStyle
	quartileStyle draw.LineStyle
	medianStyle   draw.LineStyle
}

func newViolin(loc float64, values []float64, fill color.Color) *violin {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	v := &violin{
		loc:  loc,
		half: 0.4,
		fill: fill,
		outline: draw.LineStyle{
			Color: color.Gray{Y: 60},
			Width: vg.Points(0.8),
		},
		quartileStyle: draw.LineStyle{
			Color:  color.Gray{Y: 40},
			Width:  vg.Points(0.7),
			Dashes: []vg.Length{vg.Points(2), vg.Points(2)},
		},
		medianStyle: draw.LineStyle{
			Color:  color.Gray{Y: 40},
			Width:  vg.Points(0.9),
			Dashes: []vg.Length{vg.Points(5), vg.Points(2)},
		},
	}
	for i, p := range []float64{0.25, 0.5, 0.75} {
		v.quartiles[i] = analysis.Quantile(sorted, p)
	}

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if hi == lo {
		v.ys = []float64{lo, hi}
		v.density = []float64{1, 1}
		return v
	}

	kde := &stats.KDE{Sample: stats.Sample{Xs: sorted}}
	pad := (hi - lo) * 0.05
	lo, hi = lo-pad, hi+pad
	step := (hi - lo) / (violinSamples - 1)
	peak := 0.0
	v.ys = make([]float64, violinSamples)
	v.density = make([]float64, violinSamples)
	for i := range v.ys {
		y := lo + float64(i)*step
		d := kde.PDF(y)
		if math.IsNaN(d) || math.IsInf(d, 0) {
			d = 0
		}
		v.ys[i], v.density[i] = y, d
		peak = math.Max(peak, d)
	}
	if peak > 0 {
		for i := range v.density {
			v.density[i] /= peak
		}
	}
	return v
}

// widthAt interpolates the scaled density at y
func (v *violin) widthAt(y float64) float64 {
	i := sort.SearchFloat64s(v.ys, y)
	switch {
	case i == 0:
		return v.density[0]
	case i >= len(v.ys):
		return v.density[len(v.ys)-1]
	}
	x0, x1 := v.ys[i-1], v.ys[i]
	if x1 == x0 {
		return v.density[i]
	}
	f := (y - x0) / (x1 - x0)
	return v.density[i-1] + f*(v.density[i]-v.density[i-1])
}

// Plot implements plot.Plotter
func (v *violin) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	pts := make([]vg.Point, 0, 2*len(v.ys)+1)
	for i, y := range v.ys {
		pts = append(pts, vg.Point{X: trX(v.loc + v.half*v.density[i]), Y: trY(y)})
	}
	for i := len(v.ys) - 1; i >= 0; i-- {
		pts = append(pts, vg.Point{X: trX(v.loc - v.half*v.density[i]), Y: trY(v.ys[i])})
	}
	c.FillPolygon(v.fill, c.ClipPolygonXY(pts))
	c.StrokeLines(v.outline, c.ClipLinesXY(append(pts, pts[0]))...)

	for i, q := range v.quartiles {
		w := v.half * v.widthAt(q)
		line := []vg.Point{{X: trX(v.loc - w), Y: trY(q)}, {X: trX(v.loc + w), Y: trY(q)}}
		style := v.quartileStyle
		if i == 1 {
			style = v.medianStyle
		}
		c.StrokeLines(style, c.ClipLinesXY(line)...)
	}
}

// DataRange implements plot.DataRanger
func (v *violin) DataRange() (xmin, xmax, ymin, ymax float64) {
	return v.loc - v.half, v.loc + v.half, v.ys[0], v.ys[len(v.ys)-1]
}
