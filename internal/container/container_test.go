package container

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"diamondeda/internal"
	"diamondeda/internal/config"
	"diamondeda/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestContainer_RunsService(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "diamonds.csv")
	rows := testkit.NewDiamondsGenerator(testkit.DefaultDiamondsConfig()).GenerateRows()
	require.NoError(t, testkit.WriteCSV(csvPath, rows))

	cfg := config.Default()
	cfg.Data.File = csvPath
	cfg.Output.Dir = filepath.Join(dir, "diamond")
	cfg.Output.HTML, cfg.Output.Workbook, cfg.Output.Manifest = false, false, false

	c, err := New(cfg)
	require.NoError(t, err)
	c.WithLogger(internal.NewLoggerTo(&bytes.Buffer{}, internal.LogLevelError))

	require.NotNil(t, c.Loader)
	assert.Equal(t, cfg.Output.ImagesDir(), c.Renderer.Dir())

	result, err := c.EDAService.Run(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, result.ReportPath)
	assert.Len(t, result.Charts, 6)
}
