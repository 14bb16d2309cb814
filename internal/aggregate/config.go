// Package aggregate orchestrates a full aggregation pass: load replicate
// result files, align them to a common length, and export stacked data,
// overlay figures, and summaries.
package aggregate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rheiland/persistentcell/internal/figure"
)

// DefaultCatalogPath is the default location of the run catalog database.
const DefaultCatalogPath = "aggregation_runs.db"

// Config holds the resolved settings for one aggregation pass.
type Config struct {
	ResultsDir string
	OutputDir  string

	ExportSSR     bool
	ExportFigures bool
	ExportClean   bool
	ExportSummary bool

	DPI         int
	SeriesNames []string
	FigWidth    float64 // inches
	FigHeight   float64 // inches
	LineAlpha   float64
	LineColor   string

	// CatalogPath, when non-empty, records the run in the catalog database.
	CatalogPath string
}

// DefaultConfig returns a Config with standard rendering parameters. The
// results and output directories have no defaults and must be supplied.
func DefaultConfig() Config {
	return Config{
		DPI:       figure.DefaultDPI,
		FigWidth:  figure.DefaultWidth,
		FigHeight: figure.DefaultHeight,
		LineAlpha: figure.DefaultAlpha,
		LineColor: figure.DefaultColor,
	}
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.ResultsDir == "" {
		return fmt.Errorf("results directory is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", c.DPI)
	}
	if c.FigWidth <= 0 || c.FigHeight <= 0 {
		return fmt.Errorf("figure size must be positive, got %gx%g", c.FigWidth, c.FigHeight)
	}
	if c.LineAlpha < 0 || c.LineAlpha > 1 {
		return fmt.Errorf("alpha must be between 0 and 1, got %g", c.LineAlpha)
	}
	if _, err := figure.ParseColor(c.LineColor); err != nil {
		return fmt.Errorf("invalid color: %w", err)
	}
	return nil
}

// figureConfig translates the aggregation settings into rendering settings.
func (c *Config) figureConfig() figure.Config {
	return figure.Config{
		DPI:    c.DPI,
		Width:  c.FigWidth,
		Height: c.FigHeight,
		Alpha:  c.LineAlpha,
		Color:  c.LineColor,
		Names:  c.SeriesNames,
	}
}

// FileConfig is the JSON file form of Config. Fields omitted from the file
// leave the corresponding Config value untouched, so partial configs are
// safe.
type FileConfig struct {
	ResultsDir    *string  `json:"results_dir,omitempty"`
	OutputDir     *string  `json:"output_dir,omitempty"`
	ExportSSR     *bool    `json:"export_ssr,omitempty"`
	ExportFigures *bool    `json:"export_figures,omitempty"`
	ExportClean   *bool    `json:"export_clean,omitempty"`
	ExportSummary *bool    `json:"export_summary,omitempty"`
	DPI           *int     `json:"dpi,omitempty"`
	SeriesNames   []string `json:"series_names,omitempty"`
	FigWidth      *float64 `json:"fig_width,omitempty"`
	FigHeight     *float64 `json:"fig_height,omitempty"`
	LineAlpha     *float64 `json:"line_alpha,omitempty"`
	LineColor     *string  `json:"line_color,omitempty"`
	CatalogPath   *string  `json:"catalog_path,omitempty"`
}

// LoadFileConfig loads a FileConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the
// max file size.
func LoadFileConfig(path string) (*FileConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Apply overlays any set fields onto cfg.
func (f *FileConfig) Apply(cfg *Config) {
	if f.ResultsDir != nil {
		cfg.ResultsDir = *f.ResultsDir
	}
	if f.OutputDir != nil {
		cfg.OutputDir = *f.OutputDir
	}
	if f.ExportSSR != nil {
		cfg.ExportSSR = *f.ExportSSR
	}
	if f.ExportFigures != nil {
		cfg.ExportFigures = *f.ExportFigures
	}
	if f.ExportClean != nil {
		cfg.ExportClean = *f.ExportClean
	}
	if f.ExportSummary != nil {
		cfg.ExportSummary = *f.ExportSummary
	}
	if f.DPI != nil {
		cfg.DPI = *f.DPI
	}
	if len(f.SeriesNames) > 0 {
		cfg.SeriesNames = f.SeriesNames
	}
	if f.FigWidth != nil {
		cfg.FigWidth = *f.FigWidth
	}
	if f.FigHeight != nil {
		cfg.FigHeight = *f.FigHeight
	}
	if f.LineAlpha != nil {
		cfg.LineAlpha = *f.LineAlpha
	}
	if f.LineColor != nil {
		cfg.LineColor = *f.LineColor
	}
	if f.CatalogPath != nil {
		cfg.CatalogPath = *f.CatalogPath
	}
}
