package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"diamondeda/adapters/charts"
	datasetadapter "diamondeda/adapters/dataset"
	"diamondeda/domain/dataset"
	"diamondeda/domain/run"
	"diamondeda/internal"
	"diamondeda/internal/config"
	"diamondeda/internal/errors"
	"diamondeda/internal/report"
	"diamondeda/internal/testkit"
	"diamondeda/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func quietLogger() *internal.Logger {
	return internal.NewLoggerTo(&bytes.Buffer{}, internal.LogLevelError)
}

// testConfig writes a generated dataset to a temp dir and points the config at it
func testConfig(t *testing.T, gen testkit.DiamondsGeneratorConfig) *config.Config {
	t.Helper()
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "diamonds.csv")
	require.NoError(t, testkit.WriteCSV(csvPath, testkit.NewDiamondsGenerator(gen).GenerateRows()))

	cfg := config.Default()
	cfg.Data.File = csvPath
	cfg.Data.Home = filepath.Join(dir, "cache")
	cfg.Output.Dir = filepath.Join(dir, "diamond")
	return cfg
}

func newService(cfg *config.Config, renderer ports.ChartRenderer) *EDAService {
	loader := datasetadapter.NewLoader(cfg.Data, dataset.DiamondsSchema).WithLogger(quietLogger())
	if renderer == nil {
		renderer = charts.NewRenderer(cfg.Output, quietLogger())
	}
	return NewEDAService(cfg, loader, renderer, quietLogger())
}

func TestEDAService_Run_HundredRows(t *testing.T) {
	cfg := testConfig(t, testkit.DefaultDiamondsConfig())

	result, err := newService(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, cfg.Output.ReportPath(), result.ReportPath)
	assert.Equal(t, cfg.Output.ImagesDir(), result.ImagesDir)
	require.Len(t, result.Charts, 6)
	for i, art := range result.Charts {
		assert.Equal(t, ChartPlan[i], art.Name)
		assert.FileExists(t, art.Path)
	}

	data, err := os.ReadFile(result.ReportPath)
	require.NoError(t, err)
	text := string(data)

	assert.True(t, strings.HasPrefix(text, "# "+report.Title+"\n\n"))
	assert.Contains(t, text, "- Rows/Columns: (100, 10)")
	assert.Contains(t, text, "- Columns: carat, cut, color, clarity, depth, table, price, x, y, z")

	visuals := strings.Index(text, report.VisualizationsHeading)
	require.Greater(t, visuals, strings.Index(text, report.StatisticsHeading))
	previous := visuals
	for i, name := range ChartPlan {
		heading := strings.Index(text, fmt.Sprintf("### %d) ", i+1))
		embed := strings.Index(text, "!["+name+"](images/"+name+".png)")
		require.Greater(t, heading, previous, "chart %s heading out of order", name)
		require.Greater(t, embed, heading)
		previous = embed
	}
}

func TestEDAService_Run_SupplementalOutputs(t *testing.T) {
	cfg := testConfig(t, testkit.DefaultDiamondsConfig())

	result, err := newService(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	html, err := os.ReadFile(cfg.Output.HTMLPath())
	require.NoError(t, err)
	assert.Contains(t, string(html), `src="images/clarity_count.png"`)

	wb, err := excelize.OpenFile(cfg.Output.WorkbookPath())
	require.NoError(t, err)
	defer wb.Close()
	sheets := wb.GetSheetList()
	assert.Equal(t, "describe", sheets[0])
	assert.Contains(t, sheets, "carat_clarity_pivot")
	assert.Contains(t, sheets, "clarity_by_cut")

	raw, err := os.ReadFile(cfg.Output.ManifestPath())
	require.NoError(t, err)
	var manifest run.Manifest
	require.NoError(t, json.Unmarshal(raw, &manifest))
	assert.Equal(t, result.RunID, manifest.RunID)
	assert.Equal(t, 100, manifest.Rows)
	assert.Equal(t, 10, manifest.Columns)
	assert.Equal(t, 6, manifest.Count(run.ArtifactChart))
	assert.Equal(t, 1, manifest.Count(run.ArtifactReport))
	assert.Equal(t, ChartPlan, manifest.Fingerprint.ChartPlan)
	assert.Equal(t, "images/price_hist.png", manifest.Artifacts[0].Path)
}

func TestEDAService_Run_Deterministic(t *testing.T) {
	cfg := testConfig(t, testkit.DiamondsGeneratorConfig{Rows: 150, Seed: 8, MissingPrice: 3})
	cfg.Output.HTML, cfg.Output.Workbook, cfg.Output.Manifest = false, false, false
	svc := newService(cfg, nil)

	first, err := svc.Run(context.Background())
	require.NoError(t, err)
	a, err := os.ReadFile(first.ReportPath)
	require.NoError(t, err)

	second, err := svc.Run(context.Background())
	require.NoError(t, err)
	b, err := os.ReadFile(second.ReportPath)
	require.NoError(t, err)

	assert.Equal(t, string(a), string(b))
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.NoFileExists(t, cfg.Output.ManifestPath())
}

// failingRenderer fails the third chart
type failingRenderer struct {
	ports.ChartRenderer
}

func (failingRenderer) CaratPriceScatter(*dataset.Table) (run.ChartArtifact, error) {
	return run.ChartArtifact{}, errors.RenderFailed("carat_price_scatter", fmt.Errorf("boom"))
}

func TestEDAService_Run_ChartFailureStopsBeforeReport(t *testing.T) {
	cfg := testConfig(t, testkit.DefaultDiamondsConfig())
	renderer := failingRenderer{ChartRenderer: charts.NewRenderer(cfg.Output, quietLogger())}

	_, err := newService(cfg, renderer).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeRenderFailed))

	assert.NoFileExists(t, cfg.Output.ReportPath())
	assert.FileExists(t, filepath.Join(cfg.Output.ImagesDir(), "price_by_cut_box.png"))
	assert.NoFileExists(t, filepath.Join(cfg.Output.ImagesDir(), "price_by_color_violin.png"))
}

func TestEDAService_Run_SupplementalFailureLeavesNoReport(t *testing.T) {
	cfg := testConfig(t, testkit.DefaultDiamondsConfig())
	require.NoError(t, os.MkdirAll(cfg.Output.HTMLPath(), 0o755))

	_, err := newService(cfg, nil).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeWriteFailed))
	assert.NoFileExists(t, cfg.Output.ReportPath())
	assert.NoFileExists(t, cfg.Output.ManifestPath())
}

func TestEDAService_Run_ManifestHashesWrittenReport(t *testing.T) {
	cfg := testConfig(t, testkit.DefaultDiamondsConfig())

	result, err := newService(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	_, mismatches, err := VerifyManifest(cfg.Output.ManifestPath())
	require.NoError(t, err)
	assert.Empty(t, mismatches)
	assert.FileExists(t, result.ReportPath)
}

func TestEDAService_Run_DataUnavailable(t *testing.T) {
	cfg := testConfig(t, testkit.DefaultDiamondsConfig())
	cfg.Data.File = filepath.Join(t.TempDir(), "missing.csv")

	_, err := newService(cfg, nil).Run(context.Background())
	assert.True(t, errors.HasCode(err, errors.CodeDataUnavailable))
	assert.NoFileExists(t, cfg.Output.ReportPath())
	assert.NoDirExists(t, cfg.Output.ImagesDir())
}

func TestEDAService_Run_Cancelled(t *testing.T) {
	cfg := testConfig(t, testkit.DefaultDiamondsConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newService(cfg, nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, cfg.Output.ReportPath())
}
