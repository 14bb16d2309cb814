package report

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rheiland/persistentcell/internal/catalog"
	"github.com/rheiland/persistentcell/internal/export"
	"github.com/rheiland/persistentcell/internal/simdata"
	"github.com/rheiland/persistentcell/internal/testutil"
)

// writeStackedFixture exports a small two-series ssr.json into dir.
func writeStackedFixture(t *testing.T, dir string) {
	t.Helper()
	stacked := &simdata.StackedResults{
		NumReps: 2,
		Times:   []int64{0, 1, 2},
		Results: map[string][][]float64{
			"com_1": {{1, 5}, {2, 6}, {3, 7}},
			"com_2": {{10, 50}, {20, 60}, {30, 70}},
		},
	}
	if err := export.WriteSSR(filepath.Join(dir, export.SSRFileName), stacked); err != nil {
		t.Fatalf("writing ssr fixture: %v", err)
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	writeStackedFixture(t, dir)
	return NewServer(dir, nil)
}

func newTestServerWithCatalog(t *testing.T) (*Server, *catalog.RunStore) {
	t.Helper()
	dir := t.TempDir()
	writeStackedFixture(t, dir)

	db, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("opening catalog: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := catalog.NewRunStore(db.DB)
	return NewServer(dir, store), store
}

func TestIndexListsSeries(t *testing.T) {
	server := newTestServer(t)
	rec := testutil.GetRecorded(server.ServeMux(), "/")

	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	testutil.AssertContentType(t, rec, "text/html")

	body := rec.Body.String()
	for _, want := range []string{
		"/api/ssr",
		"/charts/series?name=com_1",
		"/charts/summary?name=com_2",
		"2 replicates, 3 steps",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("index body missing %q", want)
		}
	}
	// No catalog configured, so the runs link is absent.
	if strings.Contains(body, "/api/runs") {
		t.Error("index should not link the run catalog when none is configured")
	}
}

func TestIndexWithoutStackedResults(t *testing.T) {
	server := NewServer(t.TempDir(), nil)
	rec := testutil.GetRecorded(server.ServeMux(), "/")

	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "No stacked results") {
		t.Error("expected placeholder text without ssr.json")
	}
}

func TestIndexUnknownPath(t *testing.T) {
	server := newTestServer(t)
	rec := testutil.GetRecorded(server.ServeMux(), "/nope")
	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)
}

func TestSSREndpoint(t *testing.T) {
	server := newTestServer(t)
	rec := testutil.GetRecorded(server.ServeMux(), "/api/ssr")

	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	testutil.AssertContentType(t, rec, "application/json")

	var stacked simdata.StackedResults
	testutil.DecodeJSON(t, rec, &stacked)
	if stacked.NumReps != 2 {
		t.Errorf("expected 2 reps, got %d", stacked.NumReps)
	}
	if len(stacked.Results) != 2 {
		t.Errorf("expected 2 series, got %d", len(stacked.Results))
	}
}

func TestSSREndpointMissing(t *testing.T) {
	server := NewServer(t.TempDir(), nil)
	rec := testutil.GetRecorded(server.ServeMux(), "/api/ssr")
	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)
}

func TestSSREndpointMethodNotAllowed(t *testing.T) {
	server := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/ssr", nil)
	rec := httptest.NewRecorder()
	server.ServeMux().ServeHTTP(rec, req)
	testutil.AssertStatusCode(t, rec.Code, http.StatusMethodNotAllowed)
}

func TestRunsEndpoint(t *testing.T) {
	server, store := newTestServerWithCatalog(t)
	if err := store.Insert(&catalog.AggregationRun{ResultsDir: "r", OutputDir: "o"}); err != nil {
		t.Fatalf("inserting run: %v", err)
	}

	rec := testutil.GetRecorded(server.ServeMux(), "/api/runs")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	testutil.AssertContentType(t, rec, "application/json")

	var runs []*catalog.AggregationRun
	testutil.DecodeJSON(t, rec, &runs)
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Status != catalog.StatusRunning {
		t.Errorf("expected running status, got %q", runs[0].Status)
	}
}

func TestRunsEndpointEmptyCatalog(t *testing.T) {
	server, _ := newTestServerWithCatalog(t)
	rec := testutil.GetRecorded(server.ServeMux(), "/api/runs")

	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected empty array, got %q", body)
	}
}

func TestRunsEndpointWithoutCatalog(t *testing.T) {
	server := newTestServer(t)
	rec := testutil.GetRecorded(server.ServeMux(), "/api/runs")
	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)
}

func TestRunsEndpointBadLimit(t *testing.T) {
	server, _ := newTestServerWithCatalog(t)
	for _, limit := range []string{"abc", "0", "-3"} {
		rec := testutil.GetRecorded(server.ServeMux(), "/api/runs?limit="+limit)
		testutil.AssertStatusCode(t, rec.Code, http.StatusBadRequest)
	}
}

func TestSeriesChart(t *testing.T) {
	server := newTestServer(t)
	rec := testutil.GetRecorded(server.ServeMux(), "/charts/series?name=com_1")

	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	testutil.AssertContentType(t, rec, "text/html")
	if !strings.Contains(rec.Body.String(), "echarts") {
		t.Error("expected an echarts document")
	}
}

func TestSeriesChartMissingName(t *testing.T) {
	server := newTestServer(t)
	rec := testutil.GetRecorded(server.ServeMux(), "/charts/series")
	testutil.AssertStatusCode(t, rec.Code, http.StatusBadRequest)
}

func TestSeriesChartUnknownSeries(t *testing.T) {
	server := newTestServer(t)
	rec := testutil.GetRecorded(server.ServeMux(), "/charts/series?name=volume")
	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)
}

func TestSummaryChart(t *testing.T) {
	server := newTestServer(t)
	rec := testutil.GetRecorded(server.ServeMux(), "/charts/summary?name=com_2")

	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	testutil.AssertContentType(t, rec, "text/html")
	body := rec.Body.String()
	if !strings.Contains(body, "echarts") {
		t.Error("expected an echarts document")
	}
	if !strings.Contains(body, "mean") {
		t.Error("expected mean series in chart")
	}
}

func TestSummaryChartUnknownSeries(t *testing.T) {
	server := newTestServer(t)
	rec := testutil.GetRecorded(server.ServeMux(), "/charts/summary?name=volume")
	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)
}
