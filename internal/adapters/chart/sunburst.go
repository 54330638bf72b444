package chart

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"balancehealth/internal/application/report"
)

// SunburstPNG draws the activity → date → completion hierarchy as concentric rings.
// PRE: nodes has a positive total count; otherwise returns report.ErrNoData
func (r *Renderer) SunburstPNG(title string, nodes []report.Node) ([]byte, error) {
	defer r.timed(NameSunburst)()
	total := 0
	for _, n := range nodes {
		total += n.Count
	}
	if total == 0 {
		return nil, report.ErrNoData
	}

	p := plot.New()
	p.Title.Text = title
	p.HideAxes()
	p.Add(&sunburst{nodes: nodes, total: total})

	return encode(p, Height, Height)
}

// sunburst implements plot.Plotter. Ring 1 is the activity, ring 2 the date,
// ring 3 the completion split.
type sunburst struct {
	nodes []report.Node
	total int
}

func (s *sunburst) Plot(c draw.Canvas, plt *plot.Plot) {
	center := vg.Point{X: (c.Min.X + c.Max.X) / 2, Y: (c.Min.Y + c.Max.Y) / 2}
	radius := min(c.Max.X-c.Min.X, c.Max.Y-c.Min.Y) / 2
	ring := radius / 4

	sty := plt.Legend.TextStyle
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YCenter
	sty.Font.Size = vg.Points(7)

	start := math.Pi / 2
	for i, act := range s.nodes {
		sweep := s.angle(act.Count)
		base := plotutil.Color(i)
		segment(c, center, ring, 2*ring, start, sweep, base)
		if sweep > 0.3 {
			mid := start + sweep/2
			c.FillText(sty, polar(center, 1.5*ring, mid), shortLabel(act.Label))
		}

		dateStart := start
		for j, d := range act.Children {
			dateSweep := s.angle(d.Count)
			segment(c, center, 2*ring, 3*ring, dateStart, dateSweep, shade(base, j))

			doneStart := dateStart
			for _, leaf := range d.Children {
				leafSweep := s.angle(leaf.Count)
				col := colorCompleted
				if leaf.Label == report.LabelNotCompleted {
					col = colorNotCompleted
				}
				segment(c, center, 3*ring, 4*ring, doneStart, leafSweep, col)
				doneStart += leafSweep
			}
			dateStart += dateSweep
		}
		start += sweep
	}
}

func (s *sunburst) angle(count int) float64 {
	return 2 * math.Pi * float64(count) / float64(s.total)
}

// segment fills the annulus sector between inner and outer radius.
func segment(c draw.Canvas, center vg.Point, inner, outer vg.Length, start, sweep float64, col color.Color) {
	if sweep <= 0 {
		return
	}
	var path vg.Path
	path.Move(polar(center, outer, start))
	path.Arc(center, outer, start, sweep)
	path.Line(polar(center, inner, start+sweep))
	path.Arc(center, inner, start+sweep, -sweep)
	path.Close()

	c.SetColor(col)
	c.Fill(path)
	c.SetLineWidth(vg.Points(0.5))
	c.SetColor(color.White)
	c.Stroke(path)
}

func polar(center vg.Point, r vg.Length, angle float64) vg.Point {
	return vg.Point{
		X: center.X + r*vg.Length(math.Cos(angle)),
		Y: center.Y + r*vg.Length(math.Sin(angle)),
	}
}

// shade lightens base progressively for successive children.
func shade(base color.Color, i int) color.Color {
	r, g, b, _ := base.RGBA()
	f := 0.35 + 0.1*float64(i%5)
	mix := func(v uint32) uint8 {
		c := float64(v >> 8)
		return uint8(c + (255-c)*f)
	}
	return color.RGBA{R: mix(r), G: mix(g), B: mix(b), A: 255}
}
