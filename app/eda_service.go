package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"diamondeda/adapters/excel"
	"diamondeda/domain/core"
	"diamondeda/domain/dataset"
	"diamondeda/domain/run"
	"diamondeda/internal"
	"diamondeda/internal/analysis"
	"diamondeda/internal/config"
	"diamondeda/internal/errors"
	"diamondeda/internal/report"
	"diamondeda/ports"
)

// EDAService runs the report pipeline: load, statistics, six chart and aggregate
// pairs, then the report and its supplemental outputs. Every step runs in order
// on the calling goroutine.
type EDAService struct {
	cfg      *config.Config
	loader   ports.DatasetLoader
	renderer ports.ChartRenderer
	logger   *internal.Logger
}

// NewEDAService creates the service
func NewEDAService(cfg *config.Config, loader ports.DatasetLoader, renderer ports.ChartRenderer, logger *internal.Logger) *EDAService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &EDAService{
		cfg:      cfg,
		loader:   loader,
		renderer: renderer,
		logger:   logger.With("eda"),
	}
}

// RunResult describes a completed run
type RunResult struct {
	RunID      core.RunID
	ReportPath string
	ImagesDir  string
	Charts     []run.ChartArtifact
	Manifest   *run.Manifest
}

// chartStep pairs a chart with the aggregate printed beneath it
type chartStep struct {
	heading        string
	aggregateTitle string
	sheet          string
	render         func() (run.ChartArtifact, error)
	aggregate      func() (*dataset.Frame, error)
}

// ChartPlan lists the chart names in report order
var ChartPlan = []string{
	run.ChartPriceHist,
	run.ChartPriceByCut,
	run.ChartCaratPrice,
	run.ChartPriceByColor,
	run.ChartCorrHeatmap,
	run.ChartClarityCount,
}

func (s *EDAService) chartSteps(t *dataset.Table, b *analysis.Bundle) []chartStep {
	return []chartStep{
		{
			heading:        "Price Distribution (Histogram)",
			aggregateTitle: "Counts per price bin",
			sheet:          "price_bins",
			render:         func() (run.ChartArtifact, error) { return s.renderer.PriceHistogram(t) },
			aggregate:      func() (*dataset.Frame, error) { return analysis.PriceBinCounts(t) },
		},
		{
			heading:        "Price by Cut (Boxplot)",
			aggregateTitle: "Price statistics by cut",
			sheet:          "price_by_cut",
			render:         func() (run.ChartArtifact, error) { return s.renderer.PriceByCutBox(t) },
			aggregate:      func() (*dataset.Frame, error) { return analysis.GroupPriceStats(t, "cut") },
		},
		{
			heading:        "Carat vs Price (color: Clarity)",
			aggregateTitle: "Mean price by carat_bin x clarity",
			sheet:          "carat_clarity_pivot",
			render:         func() (run.ChartArtifact, error) { return s.renderer.CaratPriceScatter(t) },
			aggregate:      func() (*dataset.Frame, error) { return analysis.CaratClarityPivot(t) },
		},
		{
			heading:        "Price by Color (Violin)",
			aggregateTitle: "Price statistics by color",
			sheet:          "price_by_color",
			render:         func() (run.ChartArtifact, error) { return s.renderer.PriceByColorViolin(t) },
			aggregate:      func() (*dataset.Frame, error) { return analysis.GroupPriceStats(t, "color") },
		},
		{
			heading:        "Numeric Feature Correlation (Heatmap)",
			aggregateTitle: "Correlation matrix (numeric)",
			sheet:          "correlation",
			render:         func() (run.ChartArtifact, error) { return s.renderer.CorrHeatmap(b.CorrMatrix, b.CorrLabels) },
			aggregate:      func() (*dataset.Frame, error) { return analysis.RoundedCorrelation(b), nil },
		},
		{
			heading:        "Clarity Frequency (Countplot)",
			aggregateTitle: "Clarity x Cut crosstab",
			sheet:          "clarity_by_cut",
			render:         func() (run.ChartArtifact, error) { return s.renderer.ClarityCount(t) },
			aggregate:      func() (*dataset.Frame, error) { return analysis.Crosstab(t, "clarity", "cut") },
		},
	}
}

// statisticsSheets lists the descriptive tables for the workbook
func statisticsSheets(b *analysis.Bundle) []excel.Sheet {
	sheets := []excel.Sheet{
		{Name: "describe", Frame: b.Describe},
		{Name: "skewness", Frame: b.Skewness},
		{Name: "kurtosis", Frame: b.Kurtosis},
		{Name: "normality", Frame: b.Normality},
		{Name: "missing", Frame: b.Missing},
	}
	for _, vc := range b.ValueCounts {
		sheets = append(sheets, excel.Sheet{Name: "counts_" + vc.Column, Frame: vc.Frame})
	}
	return sheets
}

// Run executes the pipeline once. A failure at any step, supplemental outputs
// included, stops the run before the report is written.
func (s *EDAService) Run(ctx context.Context) (*RunResult, error) {
	runID := core.NewRunID()
	out := s.cfg.Output
	s.logger.Info("Starting run %s for dataset %s", runID, s.cfg.Data.Name)

	table, err := s.loader.Load(ctx, s.cfg.Data.Name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Loaded %d rows x %d columns", table.Rows(), len(table.Columns()))

	// carat_bin is added later by the pivot step, so shape and fingerprint come first
	fingerprint := run.NewRunFingerprint(s.cfg.Data.Name, table.Fingerprint(), ChartPlan, run.CodeVersion)

	bundle, err := analysis.ComputeBundle(table)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute statistics")
	}
	manifest := run.NewManifest(runID, fingerprint, bundle.Rows, bundle.Cols)

	doc := report.NewDocument(s.logger)
	doc.AddSummary(bundle)
	doc.AddStatistics(bundle)
	sheets := statisticsSheets(bundle)

	var charts []run.ChartArtifact
	for i, step := range s.chartSteps(table, bundle) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		art, err := step.render()
		if err != nil {
			return nil, err
		}
		s.logger.Debug("Rendered %s", art.Path)

		frame, err := step.aggregate()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to compute aggregate for %s", art.Name)
		}

		doc.AddChartSection(report.ChartSection{
			Heading:        fmt.Sprintf("%d) %s", i+1, step.heading),
			ImageName:      art.Name,
			ImagePath:      art.RelPath,
			AggregateTitle: step.aggregateTitle,
			Aggregate:      frame,
		})
		sheets = append(sheets, excel.Sheet{Name: step.sheet, Frame: frame})
		charts = append(charts, art)
		if err := s.record(manifest, art.Name, run.ArtifactChart, art.Path); err != nil {
			return nil, err
		}
	}

	// The report is written last: any earlier failure leaves none behind.
	reportPath := out.ReportPath()
	content := doc.Bytes()
	s.recordContent(manifest, "eda_report", run.ArtifactReport, reportPath, content)

	if out.HTML {
		if err := doc.WriteHTML(out.HTMLPath()); err != nil {
			return nil, err
		}
		if err := s.record(manifest, "eda_report_html", run.ArtifactHTML, out.HTMLPath()); err != nil {
			return nil, err
		}
	}

	if out.Workbook {
		if err := excel.WriteWorkbook(out.WorkbookPath(), sheets); err != nil {
			return nil, errors.WriteFailed(out.WorkbookPath(), err)
		}
		if err := s.record(manifest, "eda_tables", run.ArtifactWorkbook, out.WorkbookPath()); err != nil {
			return nil, err
		}
	}

	if out.Manifest {
		if err := s.writeManifest(manifest, out.ManifestPath()); err != nil {
			return nil, err
		}
	}

	if err := doc.WriteFile(reportPath); err != nil {
		return nil, err
	}
	s.logger.Info("Wrote report %s", reportPath)
	s.logger.Info("Run %s complete: %d charts, fingerprint %s", runID, len(charts), fingerprint.Fingerprint.Short())
	return &RunResult{
		RunID:      runID,
		ReportPath: reportPath,
		ImagesDir:  s.renderer.Dir(),
		Charts:     charts,
		Manifest:   manifest,
	}, nil
}

// record hashes a written file into the manifest, keyed by its path under the output directory
func (s *EDAService) record(m *run.Manifest, name string, kind run.ArtifactKind, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.WriteFailed(path, err)
	}
	s.recordContent(m, name, kind, path, content)
	return nil
}

// recordContent hashes content that is about to be written to path
func (s *EDAService) recordContent(m *run.Manifest, name string, kind run.ArtifactKind, path string, content []byte) {
	rel, err := filepath.Rel(s.cfg.Output.Dir, path)
	if err != nil {
		rel = path
	}
	m.Record(name, kind, filepath.ToSlash(rel), content)
}

func (s *EDAService) writeManifest(m *run.Manifest, path string) error {
	if err := m.Validate(); err != nil {
		return errors.WithCode(errors.CodeInternalError, err)
	}
	data, err := m.Encode()
	if err != nil {
		return errors.WithCode(errors.CodeInternalError, err)
	}
	return report.WriteBytes(path, data)
}
