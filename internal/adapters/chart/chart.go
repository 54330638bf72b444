// Package chart renders report data as PNG images with gonum/plot.
// Every function returns the encoded bytes; nothing is written to disk.
package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"balancehealth/internal/adapters/http/perf"
)

// Default image sizes.
const (
	Width  = 16 * vg.Centimeter
	Height = 10 * vg.Centimeter
)

// Names of the rendered artifacts, used as artifact key suffixes.
const (
	NameDailyCounts = "daily_counts"
	NameCompletion  = "completion"
	NameSunburst    = "sunburst"
	NameTrend       = "trend"
	NameSignals     = "signals"
)

var (
	colorCompleted    = color.RGBA{R: 46, G: 139, B: 87, A: 255}
	colorNotCompleted = color.RGBA{R: 200, G: 40, B: 40, A: 255}
	colorSignal       = color.RGBA{R: 31, G: 119, B: 180, A: 255}
)

// Renderer draws charts and records render timings.
type Renderer struct {
	perf *perf.Collector
}

// NewRenderer returns a Renderer. collector may be nil.
func NewRenderer(collector *perf.Collector) *Renderer {
	return &Renderer{perf: collector}
}

// encode writes p as a PNG of the given size.
func encode(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("chart: encode: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("chart: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) timed(name string) func() {
	start := time.Now()
	return func() { r.perf.Time(perf.KindRender, "chart."+name, start) }
}
