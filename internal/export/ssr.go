// Package export writes aggregated simulation data to disk: the stacked
// results JSON consumed by downstream tooling and a per-series summary CSV.
package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rheiland/persistentcell/internal/simdata"
)

// SSRFileName is the canonical file name for stacked simulation results
// inside an output directory.
const SSRFileName = "ssr.json"

// WriteSSR marshals stacked results to path as four-space-indented JSON.
func WriteSSR(path string, stacked *simdata.StackedResults) error {
	if stacked == nil {
		return fmt.Errorf("nil stacked results")
	}
	data, err := json.MarshalIndent(stacked, "", "    ")
	if err != nil {
		return fmt.Errorf("JSON marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadSSR loads a stacked-results file previously written by WriteSSR.
func ReadSSR(path string) (*simdata.StackedResults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var stacked simdata.StackedResults
	if err := json.Unmarshal(data, &stacked); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &stacked, nil
}
