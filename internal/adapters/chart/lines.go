package chart

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"balancehealth/internal/application/report"
)

// Signal grid layout.
const (
	gridCols   = 2
	cellHeight = 6 * vg.Centimeter
)

// TrendPNG draws the average and maximum value of each attempt, oldest first.
// PRE: points is non-empty; otherwise returns report.ErrNoData
func (r *Renderer) TrendPNG(title string, points []report.TrendPoint) ([]byte, error) {
	defer r.timed(NameTrend)()
	if len(points) == 0 {
		return nil, report.ErrNoData
	}

	avg := make(plotter.XYs, len(points))
	peak := make(plotter.XYs, len(points))
	for i, pt := range points {
		x := float64(pt.Date.Unix())
		avg[i] = plotter.XY{X: x, Y: pt.Avg}
		peak[i] = plotter.XY{X: x, Y: pt.Max}
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Value"
	p.X.Tick.Marker = plot.TimeTicks{Format: "01-02"}

	avgLine, avgPoints, err := plotter.NewLinePoints(avg)
	if err != nil {
		return nil, fmt.Errorf("chart: trend: %w", err)
	}
	avgLine.Color = colorSignal
	avgPoints.Color = colorSignal

	maxLine, maxPoints, err := plotter.NewLinePoints(peak)
	if err != nil {
		return nil, fmt.Errorf("chart: trend: %w", err)
	}
	maxLine.Color = colorCompleted
	maxPoints.Color = colorCompleted

	p.Add(avgLine, avgPoints, maxLine, maxPoints)
	p.Legend.Add("Average", avgLine, avgPoints)
	p.Legend.Add("Maximum", maxLine, maxPoints)
	p.Legend.Top = true

	return encode(p, Width, Height)
}

// SignalGridPNG draws one raw-sample line per attempt in a two-column grid.
// Attempts that were not completed are drawn in red.
// PRE: signals is non-empty; otherwise returns report.ErrNoData
func (r *Renderer) SignalGridPNG(signals []report.Signal) ([]byte, error) {
	defer r.timed(NameSignals)()
	if len(signals) == 0 {
		return nil, report.ErrNoData
	}

	rows := (len(signals) + gridCols - 1) / gridCols
	plots := make([][]*plot.Plot, rows)
	for i := range plots {
		plots[i] = make([]*plot.Plot, gridCols)
	}
	for i, s := range signals {
		p, err := signalPlot(s)
		if err != nil {
			return nil, err
		}
		plots[i/gridCols][i%gridCols] = p
	}

	img := vgimg.New(Width, cellHeight*vg.Length(rows))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows, Cols: gridCols,
		PadX: vg.Millimeter, PadY: vg.Millimeter,
		PadTop: vg.Points(2), PadBottom: vg.Points(2),
		PadLeft: vg.Points(2), PadRight: vg.Points(2),
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j, p := range plots[i] {
			if p != nil {
				p.Draw(canvases[i][j])
			}
		}
	}

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("chart: signals: %w", err)
	}
	return buf.Bytes(), nil
}

func signalPlot(s report.Signal) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = s.Title
	p.X.Label.Text = "Sample"

	if len(s.Samples) == 0 {
		return p, nil
	}
	xys := make(plotter.XYs, len(s.Samples))
	for i, v := range s.Samples {
		xys[i] = plotter.XY{X: float64(i), Y: v}
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("chart: signal %q: %w", s.Title, err)
	}
	line.Color = colorSignal
	if !s.Completed {
		line.Color = colorNotCompleted
	}
	p.Add(line)
	return p, nil
}
