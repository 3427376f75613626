package config

import (
	"path/filepath"
	"testing"
	"time"

	"diamondeda/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"DATASET_NAME", "DATA_FILE", "DATA_HOME", "DATA_BASE_URL", "DATA_TIMEOUT",
		"OUTPUT_DIR", "REPORT_HTML", "REPORT_WORKBOOK", "REPORT_MANIFEST", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoad_DefaultsMatchFixedLayout(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "diamonds", cfg.Data.Name)
	assert.Equal(t, DefaultBaseURL, cfg.Data.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Data.Timeout)
	assert.Equal(t, filepath.Join("diamond", "eda_report.md"), cfg.Output.ReportPath())
	assert.Equal(t, filepath.Join("diamond", "images"), cfg.Output.ImagesDir())
	assert.True(t, cfg.Output.HTML)
	assert.True(t, cfg.Output.Workbook)
	assert.True(t, cfg.Output.Manifest)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OUTPUT_DIR", "out")
	t.Setenv("DATA_BASE_URL", "http://mirror.local/data/")
	t.Setenv("DATA_TIMEOUT", "5s")
	t.Setenv("REPORT_WORKBOOK", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://mirror.local/data", cfg.Data.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Data.Timeout)
	assert.Equal(t, filepath.Join("out", "eda_manifest.json"), cfg.Output.ManifestPath())
	assert.False(t, cfg.Output.Workbook)
}

func TestLoad_RejectsPathLikeDatasetName(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATASET_NAME", "../etc/passwd")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, validateConfig(Default()))
}
