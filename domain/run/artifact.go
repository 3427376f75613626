package run

// Chart image names, shared by the renderer and the run fingerprint
const (
	ChartPriceHist    = "price_hist"
	ChartPriceByCut   = "price_by_cut_box"
	ChartCaratPrice   = "carat_price_scatter"
	ChartPriceByColor = "price_by_color_violin"
	ChartCorrHeatmap  = "corr_heatmap"
	ChartClarityCount = "clarity_count"
)

// ChartArtifact is one chart image written during a run
type ChartArtifact struct {
	Name    string
	RelPath string // relative to the report, forward slashes
	Path    string
}
