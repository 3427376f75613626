package testkit

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"

	"diamondeda/domain/dataset"
)

// DiamondsGeneratorConfig configures the synthetic diamonds generator
type DiamondsGeneratorConfig struct {
	Rows           int      `json:"rows"`
	Seed           int64    `json:"seed"`
	MissingPrice   int      `json:"missing_price"`   // rows whose price is left missing
	ExcludeColors  []string `json:"exclude_colors"`  // color levels never generated
	ExcludeClarity []string `json:"exclude_clarity"` // clarity levels never generated
}

// DefaultDiamondsConfig returns a small, fully populated dataset configuration
func DefaultDiamondsConfig() DiamondsGeneratorConfig {
	return DiamondsGeneratorConfig{
		Rows: 100,
		Seed: 42,
	}
}

// DiamondsGenerator produces diamonds-shaped tables with realistic price structure
type DiamondsGenerator struct {
	config DiamondsGeneratorConfig
	rng    *rand.Rand
}

// NewDiamondsGenerator creates a new generator
func NewDiamondsGenerator(config DiamondsGeneratorConfig) *DiamondsGenerator {
	return &DiamondsGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Row is one generated diamond
type Row struct {
	Carat   float64
	Cut     string
	Color   string
	Clarity string
	Depth   float64
	Table   float64
	Price   float64
	X, Y, Z float64
}

// GenerateRows produces the configured number of rows
func (g *DiamondsGenerator) GenerateRows() []Row {
	colors := allowed(dataset.ColorLevels, g.config.ExcludeColors)
	clarities := allowed(dataset.ClarityLevels, g.config.ExcludeClarity)

	rows := make([]Row, g.config.Rows)
	for i := range rows {
		// Carat is right-skewed, most stones under one carat
		carat := math.Round((0.2+g.rng.ExpFloat64()*0.6)*100) / 100
		if carat > 5.01 {
			carat = 5.01
		}
		cutIdx := g.rng.Intn(len(dataset.CutLevels))
		color := colors[g.rng.Intn(len(colors))]
		clarity := clarities[g.rng.Intn(len(clarities))]

		grade := 1.0 - 0.04*float64(cutIdx) - 0.03*float64(indexOf(dataset.ColorLevels, color)) -
			0.05*float64(indexOf(dataset.ClarityLevels, clarity))
		price := math.Round(math.Max(326, 4000*math.Pow(carat, 1.7)*grade*(0.85+0.3*g.rng.Float64())))

		depth := math.Round((61.7+g.rng.NormFloat64()*1.4)*10) / 10
		table := math.Round(57.5 + g.rng.NormFloat64()*2.2)
		x := math.Round(6.45*math.Cbrt(carat)*100) / 100
		y := math.Round((x+g.rng.NormFloat64()*0.03)*100) / 100
		z := math.Round(x*depth/100*100) / 100

		rows[i] = Row{
			Carat:   carat,
			Cut:     dataset.CutLevels[cutIdx],
			Color:   color,
			Clarity: clarity,
			Depth:   depth,
			Table:   table,
			Price:   price,
			X:       x,
			Y:       y,
			Z:       z,
		}
	}

	for i := 0; i < g.config.MissingPrice && i < len(rows); i++ {
		rows[i].Price = math.NaN()
	}
	return rows
}

// GenerateTable produces a Table in dataset.DiamondsSchema order
func (g *DiamondsGenerator) GenerateTable() (*dataset.Table, error) {
	return ToTable(g.GenerateRows())
}

// ToTable converts rows into a Table in dataset.DiamondsSchema order
func ToTable(rows []Row) (*dataset.Table, error) {
	n := len(rows)
	carat, depth, tbl, price := make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	x, y, z := make([]float64, n), make([]float64, n), make([]float64, n)
	cut, color, clarity := make([]int, n), make([]int, n), make([]int, n)
	for i, r := range rows {
		carat[i], depth[i], tbl[i], price[i] = r.Carat, r.Depth, r.Table, r.Price
		x[i], y[i], z[i] = r.X, r.Y, r.Z
		cut[i] = indexOf(dataset.CutLevels, r.Cut)
		color[i] = indexOf(dataset.ColorLevels, r.Color)
		clarity[i] = indexOf(dataset.ClarityLevels, r.Clarity)
	}

	t := dataset.NewTable()
	adds := []error{
		t.AddNumeric("carat", carat),
		t.AddCategorical("cut", dataset.CutLevels, cut),
		t.AddCategorical("color", dataset.ColorLevels, color),
		t.AddCategorical("clarity", dataset.ClarityLevels, clarity),
		t.AddNumeric("depth", depth),
		t.AddNumeric("table", tbl),
		t.AddNumeric("price", price),
		t.AddNumeric("x", x),
		t.AddNumeric("y", y),
		t.AddNumeric("z", z),
	}
	for _, err := range adds {
		if err != nil {
			return nil, fmt.Errorf("build synthetic table: %w", err)
		}
	}
	return t, nil
}

// WriteCSV writes rows in the published diamonds.csv layout
func WriteCSV(path string, rows []Row) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(dataset.DiamondsSchema.Names()); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			formatNum(r.Carat), r.Cut, r.Color, r.Clarity,
			formatNum(r.Depth), formatNum(r.Table), formatNum(r.Price),
			formatNum(r.X), formatNum(r.Y), formatNum(r.Z),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatNum(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func allowed(levels, excluded []string) []string {
	var out []string
	for _, level := range levels {
		if indexOf(excluded, level) < 0 {
			out = append(out, level)
		}
	}
	return out
}

func indexOf(levels []string, v string) int {
	for i, level := range levels {
		if level == v {
			return i
		}
	}
	return -1
}
