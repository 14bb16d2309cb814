package simdata

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStackTruncatesAndStacks(t *testing.T) {
	c := NewRunCollection()
	mustAdd(t, c, &RunRecord{
		ID:     0,
		Time:   []int64{0, 1, 2, 3},
		Series: SeriesMap{"com_1": {1, 2, 3, 4}},
	})
	mustAdd(t, c, &RunRecord{
		ID:     1,
		Time:   []int64{0, 1, 2},
		Series: SeriesMap{"com_1": {5, 6, 7}},
	})

	stacked, err := Stack(c, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stacked.NumReps != 2 {
		t.Errorf("expected 2 reps, got %d", stacked.NumReps)
	}
	if diff := cmp.Diff([]int64{0, 1, 2}, stacked.Times); diff != "" {
		t.Errorf("time axis mismatch (-want +got):\n%s", diff)
	}
	want := [][]float64{{1, 5}, {2, 6}, {3, 7}}
	if diff := cmp.Diff(want, stacked.Results["com_1"]); diff != "" {
		t.Errorf("stacked com_1 mismatch (-want +got):\n%s", diff)
	}
}

func TestStackShape(t *testing.T) {
	c := NewRunCollection()
	for id := 0; id < 3; id++ {
		mustAdd(t, c, &RunRecord{
			ID:   id,
			Time: []int64{0, 1, 2, 3},
			Series: SeriesMap{
				"com_1": {1, 2, 3, 4},
				"com_2": {5, 6, 7, 8},
			},
		})
	}

	stacked, err := Stack(c, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff([]string{"com_1", "com_2"}, stacked.SeriesNames()); diff != "" {
		t.Errorf("series names mismatch (-want +got):\n%s", diff)
	}
	for _, name := range stacked.SeriesNames() {
		matrix := stacked.Results[name]
		if len(matrix) != 4 {
			t.Errorf("series %q: expected 4 rows, got %d", name, len(matrix))
		}
		for step, reps := range matrix {
			if len(reps) != 3 {
				t.Errorf("series %q step %d: expected 3 columns, got %d", name, step, len(reps))
			}
		}
	}
}

func TestStackColumnOrderFollowsRunIDs(t *testing.T) {
	c := NewRunCollection()
	mustAdd(t, c, &RunRecord{ID: 5, Time: []int64{0}, Series: SeriesMap{"com_1": {50}}})
	mustAdd(t, c, &RunRecord{ID: 2, Time: []int64{0}, Series: SeriesMap{"com_1": {20}}})
	mustAdd(t, c, &RunRecord{ID: 8, Time: []int64{0}, Series: SeriesMap{"com_1": {80}}})

	stacked, err := Stack(c, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Column order is ascending run id: 2, 5, 8.
	want := [][]float64{{20, 50, 80}}
	if diff := cmp.Diff(want, stacked.Results["com_1"]); diff != "" {
		t.Errorf("column order mismatch (-want +got):\n%s", diff)
	}
}

func TestStackTimeAxisFromFirstRecord(t *testing.T) {
	c := NewRunCollection()
	mustAdd(t, c, &RunRecord{ID: 4, Time: []int64{0, 10}, Series: SeriesMap{"com_1": {1, 2}}})
	mustAdd(t, c, &RunRecord{ID: 1, Time: []int64{0, 5}, Series: SeriesMap{"com_1": {3, 4}}})

	stacked, err := Stack(c, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Lowest id (1) is the first record; its axis wins.
	if diff := cmp.Diff([]int64{0, 5}, stacked.Times); diff != "" {
		t.Errorf("time axis mismatch (-want +got):\n%s", diff)
	}
}

func TestStackAlreadyAlignedVerifiesLengths(t *testing.T) {
	c := NewRunCollection()
	mustAdd(t, c, &RunRecord{ID: 0, Time: []int64{0, 1}, Series: SeriesMap{"com_1": {1, 2}}})
	mustAdd(t, c, &RunRecord{ID: 1, Time: []int64{0, 1, 2}, Series: SeriesMap{"com_1": {3, 4, 5}}})

	if _, err := Stack(c, true); err == nil {
		t.Error("expected length mismatch error for ragged collection, got nil")
	}

	// The same collection stacks fine when alignment is requested.
	if _, err := Stack(c, false); err != nil {
		t.Errorf("unexpected error with alignment: %v", err)
	}
}

func TestStackMissingSeries(t *testing.T) {
	c := NewRunCollection()
	mustAdd(t, c, &RunRecord{ID: 0, Time: []int64{0}, Series: SeriesMap{"com_1": {1}, "com_2": {2}}})
	mustAdd(t, c, &RunRecord{ID: 1, Time: []int64{0}, Series: SeriesMap{"com_1": {3}}})

	if _, err := Stack(c, true); err == nil {
		t.Error("expected missing series error, got nil")
	}
}

func TestStackEmptyCollection(t *testing.T) {
	if _, err := Stack(NewRunCollection(), false); !errors.Is(err, ErrEmptyCollection) {
		t.Errorf("expected ErrEmptyCollection, got %v", err)
	}
	if _, err := Stack(nil, true); !errors.Is(err, ErrEmptyCollection) {
		t.Errorf("expected ErrEmptyCollection for nil collection, got %v", err)
	}
}
