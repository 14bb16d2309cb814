package report

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/rheiland/persistentcell/internal/simdata"
)

// timeAxis formats the shared time axis as chart categories.
func timeAxis(times []int64) []string {
	axis := make([]string, len(times))
	for i, t := range times {
		axis[i] = strconv.FormatInt(t, 10)
	}
	return axis
}

// renderSeriesChart renders an HTML line chart overlaying every replicate of
// the named series, mirroring the PNG overlay figures.
func renderSeriesChart(name string, stacked *simdata.StackedResults) ([]byte, error) {
	matrix := stacked.Results[name]

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: name + " replicates",
			Theme:     "dark",
			Width:     "900px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    name,
			Subtitle: fmt.Sprintf("reps=%d steps=%d", stacked.NumReps, len(stacked.Times)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: name}),
		// One legend entry per replicate is just noise at high rep counts.
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)

	line.SetXAxis(timeAxis(stacked.Times))
	for rep := 0; rep < stacked.NumReps; rep++ {
		data := make([]opts.LineData, len(matrix))
		for step := range matrix {
			data[step] = opts.LineData{Value: matrix[step][rep]}
		}
		line.AddSeries(fmt.Sprintf("rep %d", rep+1), data)
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderSummaryChart renders an HTML line chart of the named series' mean
// with a stddev band around it.
func renderSummaryChart(name string, stacked *simdata.StackedResults) ([]byte, error) {
	var summary *simdata.SeriesSummary
	for _, s := range simdata.Summarise(stacked) {
		if s.Name == name {
			summary = &s
			break
		}
	}
	if summary == nil {
		return nil, fmt.Errorf("no summary for series %q", name)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: name + " summary",
			Theme:     "dark",
			Width:     "900px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    name + " summary",
			Subtitle: fmt.Sprintf("reps=%d steps=%d", stacked.NumReps, len(stacked.Times)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: name}),
	)

	steps := len(summary.Times)
	mean := make([]opts.LineData, steps)
	upper := make([]opts.LineData, steps)
	lower := make([]opts.LineData, steps)
	for i := 0; i < steps; i++ {
		mean[i] = opts.LineData{Value: summary.Mean[i]}
		upper[i] = opts.LineData{Value: summary.Mean[i] + summary.Stddev[i]}
		lower[i] = opts.LineData{Value: summary.Mean[i] - summary.Stddev[i]}
	}

	line.SetXAxis(timeAxis(summary.Times))
	line.AddSeries("mean", mean)
	line.AddSeries("mean+stddev", upper)
	line.AddSeries("mean-stddev", lower)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
