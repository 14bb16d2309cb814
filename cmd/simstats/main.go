// Command simstats aggregates replicate simulation results: it loads
// sim_<N>.json files from a results directory, aligns them to a common
// length, and exports stacked data, overlay figures, and summaries.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/rheiland/persistentcell/internal/aggregate"
	"github.com/rheiland/persistentcell/internal/catalog"
	"github.com/rheiland/persistentcell/internal/figure"
	"github.com/rheiland/persistentcell/internal/version"
)

var (
	resultsDir  = flag.String("results-dir", "", "Path to the results set")
	outputDir   = flag.String("output-dir", "", "Path of the output directory")
	exportSSR   = flag.Bool("ssr", false, "Export stacked simulation results")
	exportFigs  = flag.Bool("export-figs", false, "Export overlay figures")
	exportClean = flag.Bool("export-clean", false, "Also export figures of clean data. Does nothing without exporting figures.")
	summary     = flag.Bool("summary", false, "Export a per-series summary CSV")
	dpi         = flag.Int("dpi", figure.DefaultDPI, "DPI for exported figures")
	names       = flag.String("names", "", "Comma-separated series names to render")
	figWidth    = flag.Float64("fig-width", figure.DefaultWidth, "Figure width in inches")
	figHeight   = flag.Float64("fig-height", figure.DefaultHeight, "Figure height in inches")
	alpha       = flag.Float64("alpha", figure.DefaultAlpha, "Alpha value of plotted trajectories")
	color       = flag.String("color", figure.DefaultColor, "Color of plotted trajectories")
	catalogPath = flag.String("catalog", "", "Catalog database to record this run in (optional)")
	configPath  = flag.String("config", "", "JSON config file; explicit flags take precedence")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

// parseCSVStringSlice parses a comma-separated list of names
func parseCSVStringSlice(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// resolveConfig layers defaults, the optional config file, and explicit
// flags, in that order.
func resolveConfig() aggregate.Config {
	cfg := aggregate.DefaultConfig()

	if *configPath != "" {
		fileCfg, err := aggregate.LoadFileConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config file: %v", err)
		}
		fileCfg.Apply(&cfg)
	}

	// Only flags the user actually set override the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "results-dir":
			cfg.ResultsDir = *resultsDir
		case "output-dir":
			cfg.OutputDir = *outputDir
		case "ssr":
			cfg.ExportSSR = *exportSSR
		case "export-figs":
			cfg.ExportFigures = *exportFigs
		case "export-clean":
			cfg.ExportClean = *exportClean
		case "summary":
			cfg.ExportSummary = *summary
		case "dpi":
			cfg.DPI = *dpi
		case "names":
			cfg.SeriesNames = parseCSVStringSlice(*names)
		case "fig-width":
			cfg.FigWidth = *figWidth
		case "fig-height":
			cfg.FigHeight = *figHeight
		case "alpha":
			cfg.LineAlpha = *alpha
		case "color":
			cfg.LineColor = *color
		case "catalog":
			cfg.CatalogPath = *catalogPath
		}
	})

	return cfg
}

// runMigrateSubcommand parses 'simstats migrate [-catalog path] <action>'.
func runMigrateSubcommand(args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	dbPath := fs.String("catalog", aggregate.DefaultCatalogPath, "Path to catalog database file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	catalog.RunMigrateCommand(fs.Args(), *dbPath)
}

func main() {
	// Subcommand dispatch happens before flag parsing so 'simstats migrate up'
	// is not swallowed by the flag package.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrateSubcommand(os.Args[2:])
		return
	}

	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg := resolveConfig()

	if cfg.CatalogPath != "" {
		db, err := catalog.Open(cfg.CatalogPath)
		if err != nil {
			log.Fatalf("Failed to connect to catalog database: %v", err)
		}
		defer db.Close()

		runID, _, err := aggregate.NewRunManager(db).Run(cfg)
		if err != nil {
			log.Fatalf("Aggregation failed (run %s): %v", runID, err)
		}
		return
	}

	if _, err := aggregate.Run(cfg); err != nil {
		log.Fatalf("Aggregation failed: %v", err)
	}
}
