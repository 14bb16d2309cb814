package simdata

import (
	"fmt"
	"sort"
)

// StackedResults is the stacked form of a run collection: one matrix per
// series, sharing a single time axis. Matrix shape is (common length ×
// run count); column i holds the i-th run in collection iteration order,
// which is ascending run id.
type StackedResults struct {
	NumReps int                    `json:"num_reps"`
	Times   []int64                `json:"times"`
	Results map[string][][]float64 `json:"results"`
}

// SeriesNames returns the stacked series names in sorted order.
func (s *StackedResults) SeriesNames() []string {
	names := make([]string, 0, len(s.Results))
	for name := range s.Results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stack reshapes a collection into per-series matrices. When alreadyAligned
// is false the collection is aligned first. When it is true the caller
// asserts uniform lengths; the copy still verifies each run against the
// first record's length and errors on a mismatch instead of producing a
// ragged matrix.
//
// The shared time axis and the series set are taken from the first
// (lowest-id) record. Stacking an empty collection returns
// ErrEmptyCollection.
func Stack(c *RunCollection, alreadyAligned bool) (*StackedResults, error) {
	if c == nil || c.Len() == 0 {
		return nil, fmt.Errorf("stack: %w", ErrEmptyCollection)
	}

	work := c
	var minSteps int
	if alreadyAligned {
		minSteps = c.First().Steps()
	} else {
		var err error
		work, minSteps, err = Align(c)
		if err != nil {
			return nil, err
		}
	}

	first := work.First()
	names := first.Series.Names()
	numReps := work.Len()

	results := make(map[string][][]float64, len(names))
	for _, name := range names {
		matrix := make([][]float64, minSteps)
		for step := range matrix {
			matrix[step] = make([]float64, numReps)
		}
		results[name] = matrix
	}

	for col, rec := range work.Records() {
		for _, name := range names {
			vals, ok := rec.Series[name]
			if !ok {
				return nil, fmt.Errorf("stack: run %d missing series %q", rec.ID, name)
			}
			if len(vals) != minSteps {
				return nil, fmt.Errorf("stack: run %d series %q has %d steps, want %d",
					rec.ID, name, len(vals), minSteps)
			}
			for step := 0; step < minSteps; step++ {
				results[name][step][col] = vals[step]
			}
		}
	}

	return &StackedResults{
		NumReps: numReps,
		Times:   first.Time[:minSteps],
		Results: results,
	}, nil
}
