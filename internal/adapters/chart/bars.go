package chart

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"balancehealth/internal/application/report"
	"balancehealth/internal/domain/activity"
)

// DailyCountsPNG draws one bar per day with the number of feet-together attempts.
// PRE: counts is non-empty; otherwise returns report.ErrNoData
func (r *Renderer) DailyCountsPNG(counts []report.DayCount) ([]byte, error) {
	defer r.timed(NameDailyCounts)()
	if len(counts) == 0 {
		return nil, report.ErrNoData
	}

	values := make(plotter.Values, len(counts))
	labels := make([]string, len(counts))
	for i, dc := range counts {
		values[i] = float64(dc.Count)
		labels[i] = dc.Date.Format("01-02")
	}

	p := plot.New()
	p.Title.Text = "Daily attempts: " + activity.LabelFeetTogether
	p.Y.Label.Text = "Attempts"
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return nil, fmt.Errorf("chart: daily counts: %w", err)
	}
	bars.Color = colorSignal
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)

	return encode(p, Width, Height)
}

// CompletionPNG draws grouped completed / not completed bars per activity.
// PRE: breakdown is non-empty; otherwise returns report.ErrNoData
func (r *Renderer) CompletionPNG(breakdown []report.CompletionCount) ([]byte, error) {
	defer r.timed(NameCompletion)()
	if len(breakdown) == 0 {
		return nil, report.ErrNoData
	}

	done := make(plotter.Values, len(breakdown))
	missed := make(plotter.Values, len(breakdown))
	labels := make([]string, len(breakdown))
	for i, c := range breakdown {
		done[i] = float64(c.Completed)
		missed[i] = float64(c.NotCompleted)
		labels[i] = shortLabel(c.Activity)
	}

	p := plot.New()
	p.Title.Text = "Completion by activity"
	p.Y.Label.Text = "Attempts"
	p.Y.Min = 0

	w := vg.Points(18)
	doneBars, err := plotter.NewBarChart(done, w)
	if err != nil {
		return nil, fmt.Errorf("chart: completion: %w", err)
	}
	doneBars.Color = colorCompleted
	doneBars.LineStyle.Width = 0
	doneBars.Offset = -w / 2

	missedBars, err := plotter.NewBarChart(missed, w)
	if err != nil {
		return nil, fmt.Errorf("chart: completion: %w", err)
	}
	missedBars.Color = colorNotCompleted
	missedBars.LineStyle.Width = 0
	missedBars.Offset = w / 2

	p.Add(doneBars, missedBars)
	p.Legend.Add(report.LabelCompleted, doneBars)
	p.Legend.Add(report.LabelNotCompleted, missedBars)
	p.Legend.Top = true
	p.NominalX(labels...)

	return encode(p, Width, Height)
}

// shortLabel keeps axis labels readable for the long activity names.
func shortLabel(name string) string {
	switch activity.ParseLabel(name) {
	case activity.KindFeetTogether:
		return "Feet together"
	case activity.KindOneFoot:
		return "One foot"
	default:
		return name
	}
}
