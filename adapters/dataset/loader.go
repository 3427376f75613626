package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"diamondeda/adapters/excel"
	domain "diamondeda/domain/dataset"
	"diamondeda/internal"
	"diamondeda/internal/config"
	"diamondeda/internal/errors"
)

// Loader resolves a dataset by name: an explicit file first, then the local
// cache, then a download into the cache.
type Loader struct {
	cfg    config.DataConfig
	schema domain.Schema
	client *http.Client
	logger *internal.Logger
}

// NewLoader creates a loader for datasets following schema
func NewLoader(cfg config.DataConfig, schema domain.Schema) *Loader {
	return &Loader{
		cfg:    cfg,
		schema: schema,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: internal.DefaultLogger.With("loader"),
	}
}

// WithLogger replaces the logger
func (l *Loader) WithLogger(logger *internal.Logger) *Loader {
	l.logger = logger.With("loader")
	return l
}

// Load returns the named dataset as a Table. Every failure is DATA_UNAVAILABLE.
func (l *Loader) Load(ctx context.Context, name string) (*domain.Table, error) {
	path, err := l.resolve(ctx, name)
	if err != nil {
		return nil, errors.DataUnavailable(name, err)
	}

	table, err := excel.NewDataReader(path).ReadTable(l.schema)
	if err != nil {
		return nil, errors.DataUnavailable(name, err)
	}
	l.logger.Info("Loaded %s from %s (%d rows, %d columns)", name, path, table.Rows(), len(table.Columns()))
	return table, nil
}

// resolve returns a local file path holding the dataset
func (l *Loader) resolve(ctx context.Context, name string) (string, error) {
	if l.cfg.File != "" {
		return l.cfg.File, nil
	}

	cached := l.CachePath(name)
	if info, err := os.Stat(cached); err == nil && info.Size() > 0 {
		l.logger.Debug("Using cached copy %s", cached)
		return cached, nil
	}

	if err := l.download(ctx, name, cached); err != nil {
		return "", err
	}
	return cached, nil
}

// CachePath is where a downloaded dataset is kept
func (l *Loader) CachePath(name string) string {
	return filepath.Join(l.cfg.Home, name+".csv")
}

// download fetches <BaseURL>/<name>.csv and moves it into place once complete
func (l *Loader) download(ctx context.Context, name, dest string) error {
	url := strings.TrimRight(l.cfg.BaseURL, "/") + "/" + name + ".csv"
	l.logger.Info("Downloading %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), name+"-*.partial")
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("download %s: %w", url, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("store cache file: %w", err)
	}
	return nil
}
