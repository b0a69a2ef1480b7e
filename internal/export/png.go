package export

import (
	"bufio"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/kinorrt/internal/viz"
)

var (
	treeColor     = color.RGBA{R: 58, G: 106, B: 138, A: 255}
	obstacleColor = color.RGBA{R: 255, G: 68, B: 68, A: 255}
	obstacleFill  = color.RGBA{R: 255, G: 68, B: 68, A: 90}
	goalColor     = color.RGBA{R: 230, G: 170, B: 0, A: 255}
	pathColor     = color.RGBA{R: 0, G: 160, B: 80, A: 255}
	startColor    = color.RGBA{R: 0, G: 150, B: 220, A: 255}
)

// edgePlotter strokes every tree edge as its own polyline.
type edgePlotter struct {
	edges orb.MultiLineString
	style draw.LineStyle
}

func (e edgePlotter) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	for _, ls := range e.edges {
		pts := make([]vg.Point, len(ls))
		for i, q := range ls {
			pts[i] = vg.Point{X: trX(q.X()), Y: trY(q.Y())}
		}
		c.StrokeLines(e.style, c.ClipLinesXY(pts)...)
	}
}

func circleXYs(center orb.Point, r float64) plotter.XYs {
	const steps = 64
	pts := make(plotter.XYs, steps)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / steps
		pts[i].X = center.X() + r*math.Cos(a)
		pts[i].Y = center.Y() + r*math.Sin(a)
	}
	return pts
}

func pointXYs(pts ...orb.Point) plotter.XYs {
	out := make(plotter.XYs, len(pts))
	for i, p := range pts {
		out[i].X, out[i].Y = p.X(), p.Y()
	}
	return out
}

// ScenePlot builds a gonum plot of the scene in world coordinates.
func ScenePlot(sc viz.Scene) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = sc.Title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	b := sc.Bounds()
	p.X.Min, p.X.Max = b.Min.X(), b.Max.X()
	p.Y.Min, p.Y.Max = b.Min.Y(), b.Max.Y()
	p.Add(plotter.NewGrid())

	if len(sc.Edges) > 0 {
		p.Add(edgePlotter{
			edges: sc.Edges,
			style: draw.LineStyle{Color: treeColor, Width: vg.Points(0.5)},
		})
	}

	for _, o := range sc.Obstacles {
		poly, err := plotter.NewPolygon(circleXYs(o.Center, o.Radius))
		if err != nil {
			return nil, fmt.Errorf("obstacle at %v: %w", o.Center, err)
		}
		poly.Color = obstacleFill
		poly.LineStyle.Color = obstacleColor
		p.Add(poly)
	}

	if sc.GoalRadius > 0 {
		region, err := plotter.NewPolygon(circleXYs(sc.Goal, sc.GoalRadius))
		if err != nil {
			return nil, fmt.Errorf("goal region: %w", err)
		}
		region.Color = nil
		region.LineStyle.Color = goalColor
		region.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(region)
	}

	if len(sc.Path) >= 2 {
		line, err := plotter.NewLine(pointXYs(sc.Path...))
		if err != nil {
			return nil, fmt.Errorf("path: %w", err)
		}
		line.LineStyle.Color = pathColor
		line.LineStyle.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add("path", line)
	}

	for _, m := range []struct {
		name  string
		at    orb.Point
		color color.Color
	}{
		{"start", sc.Start, startColor},
		{"goal", sc.Goal, goalColor},
	} {
		s, err := plotter.NewScatter(pointXYs(m.at))
		if err != nil {
			return nil, fmt.Errorf("%s marker: %w", m.name, err)
		}
		s.GlyphStyle.Color = m.color
		s.GlyphStyle.Radius = vg.Points(4)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(m.name, s)
	}
	p.Legend.Top = true

	return p, nil
}

// ScenePNG renders the scene to a PNG file of the given size in inches.
func ScenePNG(sc viz.Scene, widthIn, heightIn float64, filename string) error {
	p, err := ScenePlot(sc)
	if err != nil {
		return err
	}
	return savePlotPNG(p, widthIn, heightIn, filename)
}

func savePlotPNG(p *plot.Plot, widthIn, heightIn float64, filename string) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create output dir: %w", err)
		}
	}

	w := vg.Length(widthIn) * vg.Inch
	h := vg.Length(heightIn) * vg.Inch

	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(150))
	dc := draw.New(c)
	p.Draw(dc)

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create file: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	defer bw.Flush()

	png := vgimg.PngCanvas{Canvas: c}
	if _, err := png.WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}
