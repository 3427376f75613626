package charts

import (
	"image/color"
	"math"
	"os"
	"path"
	"path/filepath"

	"diamondeda/domain/dataset"
	"diamondeda/domain/run"
	"diamondeda/internal"
	"diamondeda/internal/config"
	"diamondeda/internal/errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// DPI is the resolution every chart is rasterized at
const DPI = 150

// Artifact is one written chart image
type Artifact = run.ChartArtifact

// Renderer draws the report charts as PNG files into the images directory.
// Each chart gets its own canvas, dropped once the file is written.
type Renderer struct {
	dir    string
	relDir string
	dpi    int
	logger *internal.Logger
}

// NewRenderer creates a renderer writing into out's images directory
func NewRenderer(out config.OutputConfig, logger *internal.Logger) *Renderer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Renderer{
		dir:    out.ImagesDir(),
		relDir: config.ImagesDirName,
		dpi:    DPI,
		logger: logger.With("charts"),
	}
}

// Dir returns the directory images are written to
func (r *Renderer) Dir() string {
	return r.dir
}

func (r *Renderer) save(name string, p *plot.Plot, width, height vg.Length) (Artifact, error) {
	art := Artifact{
		Name:    name,
		RelPath: path.Join(r.relDir, name+".png"),
		Path:    filepath.Join(r.dir, name+".png"),
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return Artifact{}, errors.WriteFailed(r.dir, err)
	}

	canvas := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(r.dpi))
	p.Draw(draw.New(canvas))

	f, err := os.Create(art.Path)
	if err != nil {
		return Artifact{}, errors.WriteFailed(art.Path, err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(f); err != nil {
		f.Close()
		return Artifact{}, errors.RenderFailed(name, err)
	}
	if err := f.Close(); err != nil {
		return Artifact{}, errors.WriteFailed(art.Path, err)
	}

	r.logger.Debug("Wrote %s (%v x %v at %d dpi)", art.Path, width, height, r.dpi)
	return art, nil
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

// group is the non-missing values of one observed category level
type group struct {
	level  string
	values plotter.Values
}

// groupValues splits a numeric column by a categorical one, keeping level order
// and dropping levels with no values.
func groupValues(t *dataset.Table, by, value string) ([]group, error) {
	col, err := t.Categorical(by)
	if err != nil {
		return nil, err
	}
	values, err := t.Numeric(value)
	if err != nil {
		return nil, err
	}

	buckets := make([]plotter.Values, len(col.Levels))
	for i, code := range col.Codes {
		if code == dataset.MissingCode || math.IsNaN(values[i]) {
			continue
		}
		buckets[code] = append(buckets[code], values[i])
	}

	var groups []group
	for code, bucket := range buckets {
		if len(bucket) > 0 {
			groups = append(groups, group{level: col.Levels[code], values: bucket})
		}
	}
	if len(groups) == 0 {
		return nil, errors.InvalidInput("no " + value + " values grouped by " + by)
	}
	return groups, nil
}

// withAlpha returns the palette color i with the given opacity
func withAlpha(i int, alpha uint8) color.Color {
	c := color.NRGBAModel.Convert(plotutil.Color(i)).(color.NRGBA)
	c.A = alpha
	return c
}
