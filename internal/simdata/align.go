package simdata

import "fmt"

// Align truncates every record to the shortest time-axis length in the
// collection and returns the result as a new collection together with that
// common length. Truncation keeps the prefix [0, minSteps): all runs start
// synchronised at step zero, so dropping the tail aligns them.
//
// Aligning an empty collection returns ErrEmptyCollection rather than an
// empty result.
func Align(c *RunCollection) (*RunCollection, int, error) {
	if c == nil || c.Len() == 0 {
		return nil, 0, fmt.Errorf("align: %w", ErrEmptyCollection)
	}

	minSteps := -1
	for _, rec := range c.Records() {
		if minSteps < 0 || rec.Steps() < minSteps {
			minSteps = rec.Steps()
		}
	}

	aligned := NewRunCollection()
	for _, rec := range c.Records() {
		if err := aligned.Add(rec.truncate(minSteps)); err != nil {
			return nil, 0, fmt.Errorf("align: %w", err)
		}
	}
	return aligned, minSteps, nil
}
