package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/rheiland/persistentcell/internal/simdata"
)

// SummaryFileName is the canonical file name for the per-series summary CSV
// inside an output directory.
const SummaryFileName = "summary.csv"

// SummaryWriter wraps csv.Writer with methods for summary output.
type SummaryWriter struct {
	w *csv.Writer
}

// NewSummaryWriter creates a SummaryWriter over the given writer.
func NewSummaryWriter(w io.Writer) *SummaryWriter {
	return &SummaryWriter{w: csv.NewWriter(w)}
}

// WriteHeader writes the summary CSV header row.
func (s *SummaryWriter) WriteHeader() {
	s.w.Write([]string{"series", "time", "mean", "stddev", "min", "max"})
}

// WriteSeries writes one row per time step for the given series summary.
func (s *SummaryWriter) WriteSeries(sum simdata.SeriesSummary) {
	for i, t := range sum.Times {
		row := []string{
			sum.Name,
			fmt.Sprintf("%d", t),
			fmt.Sprintf("%.6f", sum.Mean[i]),
			fmt.Sprintf("%.6f", sum.Stddev[i]),
			fmt.Sprintf("%.6f", sum.Min[i]),
			fmt.Sprintf("%.6f", sum.Max[i]),
		}
		s.w.Write(row)
	}
	s.w.Flush()
}

// Flush flushes buffered rows to the underlying writer.
func (s *SummaryWriter) Flush() {
	s.w.Flush()
}

// Error reports any error that occurred during a previous Write or Flush.
func (s *SummaryWriter) Error() error {
	return s.w.Error()
}

// WriteSummaryCSV writes per-series summaries to path as CSV.
func WriteSummaryCSV(path string, summaries []simdata.SeriesSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	sw := NewSummaryWriter(f)
	sw.WriteHeader()
	for _, sum := range summaries {
		sw.WriteSeries(sum)
	}
	sw.Flush()
	if err := sw.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
