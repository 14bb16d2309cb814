// Command simreport serves exported aggregation results over HTTP:
// the stacked JSON, interactive charts per series, and the run catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rheiland/persistentcell/internal/catalog"
	"github.com/rheiland/persistentcell/internal/report"
	"github.com/rheiland/persistentcell/internal/version"
)

var (
	listen      = flag.String("listen", ":8080", "HTTP listen address")
	outputDir   = flag.String("output-dir", "", "Directory holding exported aggregation data")
	catalogPath = flag.String("catalog", "", "Catalog database to serve run history from (optional)")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if *outputDir == "" {
		log.Fatal("Output directory is required")
	}

	var store *catalog.RunStore
	if *catalogPath != "" {
		db, err := catalog.Open(*catalogPath)
		if err != nil {
			log.Fatalf("Failed to connect to catalog database: %v", err)
		}
		defer db.Close()
		store = catalog.NewRunStore(db.DB)
	}

	var wg sync.WaitGroup

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := report.NewServer(*outputDir, store).ServeMux()
		server := &http.Server{Addr: *listen, Handler: mux}

		go func() {
			log.Printf("report server listening on %s", *listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
			if err := server.Close(); err != nil {
				log.Printf("HTTP server force close error: %v", err)
			}
		}
		log.Printf("HTTP server routine stopped")
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
