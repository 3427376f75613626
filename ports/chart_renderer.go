package ports

import (
	"diamondeda/domain/dataset"
	"diamondeda/domain/run"

	"gonum.org/v1/gonum/mat"
)

// ChartRenderer draws the six report charts, one image file each
type ChartRenderer interface {
	PriceHistogram(t *dataset.Table) (run.ChartArtifact, error)
	PriceByCutBox(t *dataset.Table) (run.ChartArtifact, error)
	CaratPriceScatter(t *dataset.Table) (run.ChartArtifact, error)
	PriceByColorViolin(t *dataset.Table) (run.ChartArtifact, error)
	CorrHeatmap(m *mat.SymDense, labels []string) (run.ChartArtifact, error)
	ClarityCount(t *dataset.Table) (run.ChartArtifact, error)
	Dir() string
}
