// Package simdata loads, aligns and stacks per-replicate simulation result
// series. A replicate ("run") is one result file holding a time axis and
// named scalar series; a collection of runs is truncated to the shortest
// time axis and reshaped into per-series matrices for export and plotting.
package simdata

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNotDirectory reports a results path that does not exist or is not
	// a directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrEmptyCollection reports an operation that needs at least one run
	// record. Aligning or stacking an empty collection is always an error,
	// never an empty result.
	ErrEmptyCollection = errors.New("empty run collection")
)

// SeriesMap maps series names to their per-step values. The time axis is
// held separately on the record, so every entry here is a plottable series.
// Invariant: all value slices share the record's time-axis length.
type SeriesMap map[string][]float64

// Names returns the series names in sorted order. Sorted order is the fixed
// iteration order wherever series order matters (figure output, stacking,
// summaries), keeping exports deterministic.
func (m SeriesMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunRecord is one simulation replicate: an integer run id parsed from the
// filename, the step axis, and the recorded series.
type RunRecord struct {
	ID     int
	Time   []int64
	Series SeriesMap
}

// Steps returns the number of recorded time steps.
func (r *RunRecord) Steps() int {
	return len(r.Time)
}

// Validate checks that every series has exactly one value per time step.
func (r *RunRecord) Validate() error {
	for _, name := range r.Series.Names() {
		if got := len(r.Series[name]); got != len(r.Time) {
			return fmt.Errorf("run %d: series %q has %d values for %d time steps",
				r.ID, name, got, len(r.Time))
		}
	}
	return nil
}

// truncate returns a record limited to the first n steps. The returned
// record shares backing arrays with the receiver; callers treat records as
// read-only after loading.
func (r *RunRecord) truncate(n int) *RunRecord {
	out := &RunRecord{ID: r.ID, Time: r.Time[:n], Series: make(SeriesMap, len(r.Series))}
	for name, vals := range r.Series {
		out.Series[name] = vals[:n]
	}
	return out
}

// RunCollection holds run records keyed by run id. Iteration order is
// ascending run id; stacked column order follows it.
type RunCollection struct {
	ids     []int
	records map[int]*RunRecord
}

// NewRunCollection returns an empty collection.
func NewRunCollection() *RunCollection {
	return &RunCollection{records: make(map[int]*RunRecord)}
}

// Add inserts a record. Run ids are unique; adding a duplicate is an error.
func (c *RunCollection) Add(rec *RunRecord) error {
	if _, exists := c.records[rec.ID]; exists {
		return fmt.Errorf("duplicate run id %d", rec.ID)
	}
	i := sort.SearchInts(c.ids, rec.ID)
	c.ids = append(c.ids, 0)
	copy(c.ids[i+1:], c.ids[i:])
	c.ids[i] = rec.ID
	c.records[rec.ID] = rec
	return nil
}

// Len returns the number of runs in the collection.
func (c *RunCollection) Len() int {
	return len(c.ids)
}

// IDs returns the run ids in ascending order.
func (c *RunCollection) IDs() []int {
	out := make([]int, len(c.ids))
	copy(out, c.ids)
	return out
}

// Get returns the record for a run id.
func (c *RunCollection) Get(id int) (*RunRecord, bool) {
	rec, ok := c.records[id]
	return rec, ok
}

// Records returns the records in ascending run-id order.
func (c *RunCollection) Records() []*RunRecord {
	out := make([]*RunRecord, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.records[id])
	}
	return out
}

// First returns the lowest-id record, or nil for an empty collection. After
// alignment all records share one time axis, so the first record stands in
// for the whole collection.
func (c *RunCollection) First() *RunRecord {
	if len(c.ids) == 0 {
		return nil
	}
	return c.records[c.ids[0]]
}
