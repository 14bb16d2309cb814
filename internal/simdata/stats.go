package simdata

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SeriesSummary holds per-step aggregate statistics for one series across
// all replicates. Slices share the stacked time axis' length.
type SeriesSummary struct {
	Name   string
	Times  []int64
	Mean   []float64
	Stddev []float64
	Min    []float64
	Max    []float64
}

// Summarise computes per-step mean, sample standard deviation, min and max
// for every stacked series, ordered by series name. A single-replicate
// collection reports zero standard deviation.
func Summarise(s *StackedResults) []SeriesSummary {
	summaries := make([]SeriesSummary, 0, len(s.Results))
	for _, name := range s.SeriesNames() {
		matrix := s.Results[name]
		sum := SeriesSummary{
			Name:   name,
			Times:  s.Times,
			Mean:   make([]float64, len(matrix)),
			Stddev: make([]float64, len(matrix)),
			Min:    make([]float64, len(matrix)),
			Max:    make([]float64, len(matrix)),
		}
		for step, reps := range matrix {
			sum.Mean[step] = stat.Mean(reps, nil)
			if len(reps) > 1 {
				sum.Stddev[step] = stat.StdDev(reps, nil)
			}
			sum.Min[step] = floats.Min(reps)
			sum.Max[step] = floats.Max(reps)
		}
		summaries = append(summaries, sum)
	}
	return summaries
}
