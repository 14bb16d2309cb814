// Package report serves aggregated results over HTTP: the stacked results
// JSON, the run catalog, and rendered charts.
package report

import (
	"fmt"
	"html"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rheiland/persistentcell/internal/catalog"
	"github.com/rheiland/persistentcell/internal/export"
	"github.com/rheiland/persistentcell/internal/httputil"
	"github.com/rheiland/persistentcell/internal/simdata"
)

// defaultRunsLimit caps /api/runs responses unless the caller asks for more.
const defaultRunsLimit = 50

// Server serves the contents of one output directory, plus the run catalog
// when one is configured.
type Server struct {
	outputDir string
	store     *catalog.RunStore
}

// NewServer creates a report server over outputDir. store may be nil when no
// catalog database is configured.
func NewServer(outputDir string, store *catalog.RunStore) *Server {
	return &Server{
		outputDir: outputDir,
		store:     store,
	}
}

// ServeMux returns the route table for the report server.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/ssr", s.handleSSR)
	mux.HandleFunc("/api/runs", s.handleRuns)
	mux.HandleFunc("/charts/series", s.handleSeriesChart)
	mux.HandleFunc("/charts/summary", s.handleSummaryChart)
	return mux
}

// loadStacked reads the exported ssr.json from the output directory. The
// file is re-read on every request so a re-run of the aggregation shows up
// without restarting the server.
func (s *Server) loadStacked() (*simdata.StackedResults, error) {
	return export.ReadSSR(filepath.Join(s.outputDir, export.SSRFileName))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		httputil.NotFound(w, "page not found")
		return
	}
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><title>Aggregated Results</title></head><body>\n")
	b.WriteString("<h1>Aggregated Results</h1>\n")
	b.WriteString(fmt.Sprintf("<p>Output directory: %s</p>\n", html.EscapeString(s.outputDir)))
	b.WriteString("<ul>\n")
	b.WriteString("<li><a href=\"/api/ssr\">Stacked results (JSON)</a></li>\n")
	if s.store != nil {
		b.WriteString("<li><a href=\"/api/runs\">Run catalog (JSON)</a></li>\n")
	}
	b.WriteString("</ul>\n")

	if stacked, err := s.loadStacked(); err == nil {
		b.WriteString(fmt.Sprintf("<p>%d replicates, %d steps</p>\n<ul>\n",
			stacked.NumReps, len(stacked.Times)))
		for _, name := range stacked.SeriesNames() {
			safeName := html.EscapeString(name)
			qs := url.QueryEscape(name)
			b.WriteString(fmt.Sprintf(
				"<li>%s: <a href=\"/charts/series?name=%s\">replicates</a> | <a href=\"/charts/summary?name=%s\">summary</a></li>\n",
				safeName, qs, qs))
		}
		b.WriteString("</ul>\n")
	} else {
		b.WriteString("<p>No stacked results exported yet.</p>\n")
	}

	b.WriteString("</body></html>\n")
	httputil.WriteHTML(w, []byte(b.String()))
}

func (s *Server) handleSSR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	stacked, err := s.loadStacked()
	if err != nil {
		if os.IsNotExist(err) || strings.Contains(err.Error(), "no such file") {
			httputil.NotFound(w, "no stacked results exported")
			return
		}
		httputil.InternalServerError(w, fmt.Sprintf("failed to load stacked results: %v", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stacked)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.store == nil {
		httputil.NotFound(w, "run catalog not configured")
		return
	}

	limit := defaultRunsLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			httputil.BadRequest(w, "invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	runs, err := s.store.List(limit)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to list runs: %v", err))
		return
	}
	if runs == nil {
		runs = []*catalog.AggregationRun{}
	}
	httputil.WriteJSON(w, http.StatusOK, runs)
}

func (s *Server) handleSeriesChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		httputil.BadRequest(w, "missing 'name' parameter")
		return
	}

	stacked, err := s.loadStacked()
	if err != nil {
		httputil.NotFound(w, "no stacked results exported")
		return
	}
	if _, ok := stacked.Results[name]; !ok {
		httputil.NotFound(w, fmt.Sprintf("no series named %q", name))
		return
	}

	body, err := renderSeriesChart(name, stacked)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	httputil.WriteHTML(w, body)
}

func (s *Server) handleSummaryChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		httputil.BadRequest(w, "missing 'name' parameter")
		return
	}

	stacked, err := s.loadStacked()
	if err != nil {
		httputil.NotFound(w, "no stacked results exported")
		return
	}
	if _, ok := stacked.Results[name]; !ok {
		httputil.NotFound(w, fmt.Sprintf("no series named %q", name))
		return
	}

	body, err := renderSummaryChart(name, stacked)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	httputil.WriteHTML(w, body)
}
