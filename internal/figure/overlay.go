// Package figure renders per-series overlay plots: one PNG per series, one
// line per replicate, so overlapping trajectories accumulate visual density.
package figure

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/rheiland/persistentcell/internal/progress"
	"github.com/rheiland/persistentcell/internal/security"
	"github.com/rheiland/persistentcell/internal/simdata"
)

// Rendering defaults, matching the aggregation CLI defaults.
const (
	DefaultDPI    = 300
	DefaultWidth  = 6.0
	DefaultHeight = 6.0
	DefaultAlpha  = 0.1
	DefaultColor  = "gray"
)

// Config controls overlay rendering.
type Config struct {
	DPI    int
	Width  float64 // inches
	Height float64 // inches
	Alpha  float64
	Color  string
	Names  []string // optional series filter; empty renders every series
}

// DefaultConfig returns the standard rendering parameters.
func DefaultConfig() Config {
	return Config{
		DPI:    DefaultDPI,
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Alpha:  DefaultAlpha,
		Color:  DefaultColor,
	}
}

// RenderOverlays writes one overlay PNG per series into outputDir and
// returns the written paths. Filenames are <prefix>_<series>.png, or
// <series>.png when prefix is empty. The output directory must already
// exist; a missing directory is reported as simdata.ErrNotDirectory.
//
// Runs keep their native lengths here: a raw collection plots every sample
// each run recorded, an aligned collection plots the common prefix.
func RenderOverlays(c *simdata.RunCollection, outputDir, prefix string, cfg Config) ([]string, error) {
	info, err := os.Stat(outputDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("output directory %s: %w", outputDir, simdata.ErrNotDirectory)
	}
	if c == nil || c.Len() == 0 {
		return nil, fmt.Errorf("render overlays: %w", simdata.ErrEmptyCollection)
	}

	names := cfg.Names
	if len(names) == 0 {
		names = c.First().Series.Names()
	} else {
		// A caller-supplied filter may name the time axis; drop it rather
		// than plot time against itself.
		filtered := make([]string, 0, len(names))
		for _, name := range names {
			if name == "time" {
				continue
			}
			filtered = append(filtered, name)
		}
		names = filtered
	}

	base, err := ParseColor(cfg.Color)
	if err != nil {
		return nil, fmt.Errorf("render overlays: %w", err)
	}
	lineColor := WithAlpha(base, cfg.Alpha)

	written := make([]string, 0, len(names))
	for _, name := range names {
		p := plot.New()
		p.X.Label.Text = "time"
		p.Y.Label.Text = name

		for _, rec := range c.Records() {
			vals, ok := rec.Series[name]
			if !ok {
				return written, fmt.Errorf("render overlays: run %d missing series %q", rec.ID, name)
			}
			pts := make(plotter.XYs, len(vals))
			for i, v := range vals {
				pts[i] = plotter.XY{X: float64(rec.Time[i]), Y: v}
			}
			line, err := plotter.NewLine(pts)
			if err != nil {
				return written, fmt.Errorf("series %q run %d: %w", name, rec.ID, err)
			}
			line.Color = lineColor
			line.Width = vg.Points(1)
			p.Add(line)
		}

		filename := security.SanitizeFilename(name) + ".png"
		if prefix != "" {
			filename = prefix + "_" + filename
		}
		path := filepath.Join(outputDir, filename)
		if err := security.EnsureWithinDirectory(path, outputDir); err != nil {
			return written, fmt.Errorf("series %q: %w", name, err)
		}

		progress.Logf("Saving %s: %s", name, path)
		if err := savePNG(p, path, cfg); err != nil {
			return written, fmt.Errorf("series %q: %w", name, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// savePNG renders the plot at the configured size and DPI. plot.Save only
// writes at the default resolution, so the canvas is built explicitly.
func savePNG(p *plot.Plot, path string, cfg Config) error {
	canvas := vgimg.NewWith(
		vgimg.UseWH(vg.Length(cfg.Width)*vg.Inch, vg.Length(cfg.Height)*vg.Inch),
		vgimg.UseDPI(cfg.DPI),
	)
	p.Draw(draw.New(canvas))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create figure file: %w", err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: canvas}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write figure: %w", err)
	}
	return nil
}
