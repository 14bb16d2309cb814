package simdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	runFilePrefix = "sim_"
	runFileSuffix = ".json"
)

// runFile mirrors the on-disk result layout produced per replicate.
type runFile struct {
	Time []int64   `json:"time"`
	Com1 []float64 `json:"com_1"`
	Com2 []float64 `json:"com_2"`
}

// parseRunID extracts the run id from a results filename. Names that do not
// carry the sim_<N>.json shape are skipped (ok=false); a matching name whose
// middle is not an integer is an error, aborting the load.
func parseRunID(name string) (id int, ok bool, err error) {
	if !strings.HasPrefix(name, runFilePrefix) || !strings.HasSuffix(name, runFileSuffix) {
		return 0, false, nil
	}
	middle := strings.TrimSuffix(strings.TrimPrefix(name, runFilePrefix), runFileSuffix)
	id, err = strconv.Atoi(middle)
	if err != nil {
		return 0, false, fmt.Errorf("result file %s: invalid run id %q: %w", name, middle, err)
	}
	return id, true, nil
}

// LoadResults scans dir for sim_<N>.json files and builds a collection of
// run records keyed by N. The whole load fails on the first malformed file;
// there are no partial results. A directory with no matching files yields an
// empty collection, surfaced as an error only when alignment or stacking is
// attempted.
func LoadResults(dir string) (*RunCollection, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("results directory %s: %w", dir, ErrNotDirectory)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read results directory %s: %w", dir, err)
	}

	collection := NewRunCollection()
	for _, entry := range entries {
		name := entry.Name()
		id, ok, err := parseRunID(name)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		rec, err := loadRunFile(filepath.Join(dir, name), id)
		if err != nil {
			return nil, err
		}
		if err := collection.Add(rec); err != nil {
			return nil, fmt.Errorf("result file %s: %w", name, err)
		}
	}
	return collection, nil
}

// loadRunFile parses one result file into a run record.
func loadRunFile(path string, id int) (*RunRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read result file %s: %w", path, err)
	}

	var rf runFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse result file %s: %w", path, err)
	}
	if rf.Time == nil {
		return nil, fmt.Errorf("result file %s: missing field %q", path, "time")
	}
	if rf.Com1 == nil {
		return nil, fmt.Errorf("result file %s: missing field %q", path, "com_1")
	}
	if rf.Com2 == nil {
		return nil, fmt.Errorf("result file %s: missing field %q", path, "com_2")
	}

	rec := &RunRecord{
		ID:   id,
		Time: rf.Time,
		Series: SeriesMap{
			"com_1": rf.Com1,
			"com_2": rf.Com2,
		},
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("result file %s: %w", path, err)
	}
	return rec, nil
}
