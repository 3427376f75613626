package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"diamondeda/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data   DataConfig
	Output OutputConfig
	Log    LogConfig
}

// DataConfig controls where the dataset is resolved from
type DataConfig struct {
	Name    string        // dataset name, e.g. "diamonds"
	File    string        // explicit CSV/XLSX file, bypasses cache and download
	Home    string        // cache directory for downloaded datasets
	BaseURL string        // remote directory holding <name>.csv
	Timeout time.Duration // download timeout
}

// OutputConfig holds output paths and the supplemental output switches
type OutputConfig struct {
	Dir      string
	HTML     bool
	Workbook bool
	Manifest bool
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

const (
	DefaultDatasetName = "diamonds"
	DefaultBaseURL     = "https://raw.githubusercontent.com/mwaskom/seaborn-data/master"
	DefaultOutputDir   = "diamond"

	ReportFileName   = "eda_report.md"
	HTMLFileName     = "eda_report.html"
	WorkbookFileName = "eda_tables.xlsx"
	ManifestFileName = "eda_manifest.json"
	ImagesDirName    = "images"
)

// ReportPath is the Markdown report location
func (o OutputConfig) ReportPath() string { return filepath.Join(o.Dir, ReportFileName) }

// ImagesDir is the directory charts are written to
func (o OutputConfig) ImagesDir() string { return filepath.Join(o.Dir, ImagesDirName) }

// HTMLPath is the rendered HTML report location
func (o OutputConfig) HTMLPath() string { return filepath.Join(o.Dir, HTMLFileName) }

// WorkbookPath is the aggregate workbook location
func (o OutputConfig) WorkbookPath() string { return filepath.Join(o.Dir, WorkbookFileName) }

// ManifestPath is the run manifest location
func (o OutputConfig) ManifestPath() string { return filepath.Join(o.Dir, ManifestFileName) }

// Load reads configuration from environment variables and validates it.
// With no environment set it yields the fixed diamonds/diamond layout.
func Load() (*Config, error) {
	config := &Config{
		Data:   loadDataConfig(),
		Output: loadOutputConfig(),
		Log:    LogConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Name:    DefaultDatasetName,
			Home:    defaultDataHome(),
			BaseURL: DefaultBaseURL,
			Timeout: 60 * time.Second,
		},
		Output: OutputConfig{
			Dir:      DefaultOutputDir,
			HTML:     true,
			Workbook: true,
			Manifest: true,
		},
		Log: LogConfig{Level: "INFO"},
	}
}

func loadDataConfig() DataConfig {
	return DataConfig{
		Name:    getEnvOrDefault("DATASET_NAME", DefaultDatasetName),
		File:    getEnvOrDefault("DATA_FILE", ""),
		Home:    getEnvOrDefault("DATA_HOME", defaultDataHome()),
		BaseURL: strings.TrimRight(getEnvOrDefault("DATA_BASE_URL", DefaultBaseURL), "/"),
		Timeout: getEnvDurationOrDefault("DATA_TIMEOUT", 60*time.Second),
	}
}

func loadOutputConfig() OutputConfig {
	return OutputConfig{
		Dir:      getEnvOrDefault("OUTPUT_DIR", DefaultOutputDir),
		HTML:     getEnvBoolOrDefault("REPORT_HTML", true),
		Workbook: getEnvBoolOrDefault("REPORT_WORKBOOK", true),
		Manifest: getEnvBoolOrDefault("REPORT_MANIFEST", true),
	}
}

// defaultDataHome mirrors the conventional ~/seaborn-data cache
func defaultDataHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "seaborn-data"
	}
	return filepath.Join(home, "seaborn-data")
}

func validateConfig(config *Config) error {
	if config.Data.Name == "" {
		return errors.ConfigInvalid("dataset name is required")
	}
	if strings.ContainsAny(config.Data.Name, `/\`) {
		return errors.ConfigInvalid("dataset name must not contain path separators")
	}
	if config.Data.File == "" && config.Data.Home == "" {
		return errors.ConfigInvalid("DATA_HOME is required when DATA_FILE is not set")
	}
	if config.Data.Timeout <= 0 {
		return errors.ConfigInvalid("DATA_TIMEOUT must be positive")
	}
	if config.Output.Dir == "" {
		return errors.ConfigInvalid("OUTPUT_DIR is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
