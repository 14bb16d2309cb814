package aggregate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rheiland/persistentcell/internal/export"
	"github.com/rheiland/persistentcell/internal/figure"
	"github.com/rheiland/persistentcell/internal/progress"
	"github.com/rheiland/persistentcell/internal/simdata"
)

// Outcome reports what an aggregation pass produced.
type Outcome struct {
	NumReps  int
	MinSteps int
	Series   []string
	Outputs  []string
}

// Run performs one aggregation pass over cfg.ResultsDir, writing everything
// into cfg.OutputDir. The results directory must exist; the output directory
// is created if absent.
func Run(cfg Config) (*Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// The results directory is checked before the output directory is
	// created, so a bad invocation leaves no empty directories behind.
	info, err := os.Stat(cfg.ResultsDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", simdata.ErrNotDirectory, cfg.ResultsDir)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	progress.Logf("Results directory: %s", cfg.ResultsDir)
	progress.Logf("Output directory : %s", cfg.OutputDir)
	progress.Logf("Export SSR data  : %v", cfg.ExportSSR)
	progress.Logf("Export figures   : %v", cfg.ExportFigures)
	renderClean := cfg.ExportClean
	if cfg.ExportFigures {
		progress.Logf("Render clean     : %v", renderClean)
	} else {
		// Clean rendering does nothing without figure export.
		renderClean = false
	}

	progress.Logf("Loading results...")
	collection, err := simdata.LoadResults(cfg.ResultsDir)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{NumReps: collection.Len()}
	if first := collection.First(); first != nil {
		outcome.Series = first.Series.Names()
	}

	var cleaned *simdata.RunCollection
	if cfg.ExportSSR || renderClean || cfg.ExportSummary {
		progress.Logf("Cleaning data...")
		var minSteps int
		cleaned, minSteps, err = simdata.Align(collection)
		if err != nil {
			return nil, err
		}
		outcome.MinSteps = minSteps
	}

	var stacked *simdata.StackedResults
	if cfg.ExportSSR || cfg.ExportSummary {
		stacked, err = simdata.Stack(cleaned, true)
		if err != nil {
			return nil, err
		}
	}

	if cfg.ExportSSR {
		progress.Logf("Exporting ssr data...")
		ssrPath := filepath.Join(cfg.OutputDir, export.SSRFileName)
		progress.Logf("\t%s", ssrPath)
		if err := export.WriteSSR(ssrPath, stacked); err != nil {
			return nil, err
		}
		outcome.Outputs = append(outcome.Outputs, ssrPath)
	}

	if cfg.ExportFigures {
		progress.Logf("Exporting rendered data...")
		figCfg := cfg.figureConfig()
		rawPaths, err := figure.RenderOverlays(collection, cfg.OutputDir, "raw", figCfg)
		if err != nil {
			return nil, err
		}
		outcome.Outputs = append(outcome.Outputs, rawPaths...)

		if renderClean {
			progress.Logf("Exporting rendered clean data...")
			cleanPaths, err := figure.RenderOverlays(cleaned, cfg.OutputDir, "clean", figCfg)
			if err != nil {
				return nil, err
			}
			outcome.Outputs = append(outcome.Outputs, cleanPaths...)
		}
	}

	if cfg.ExportSummary {
		progress.Logf("Summarising series...")
		csvPath := filepath.Join(cfg.OutputDir, export.SummaryFileName)
		progress.Logf("\t%s", csvPath)
		if err := export.WriteSummaryCSV(csvPath, simdata.Summarise(stacked)); err != nil {
			return nil, err
		}
		outcome.Outputs = append(outcome.Outputs, csvPath)
	}

	return outcome, nil
}
