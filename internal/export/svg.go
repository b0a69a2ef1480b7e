package export

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"

	"github.com/san-kum/kinorrt/internal/viz"
)

// svgFrame maps world coordinates onto an SVG viewport with y up and a
// margin on every side.
type svgFrame struct {
	world         orb.Bound
	width, height float64
	margin        float64
}

func (f svgFrame) point(p orb.Point) (float64, float64) {
	w := f.width - 2*f.margin
	h := f.height - 2*f.margin
	x := f.margin + (p.X()-f.world.Min.X())/(f.world.Max.X()-f.world.Min.X())*w
	y := f.height - f.margin - (p.Y()-f.world.Min.Y())/(f.world.Max.Y()-f.world.Min.Y())*h
	return x, y
}

// scale converts a world length along x to pixels.
func (f svgFrame) scale(d float64) float64 {
	return d / (f.world.Max.X() - f.world.Min.X()) * (f.width - 2*f.margin)
}

// SceneToSVG draws the workspace, obstacles, tree and path of a run.
func SceneToSVG(sc viz.Scene, width, height int) string {
	f := svgFrame{world: sc.Bounds(), width: float64(width), height: float64(height), margin: 10}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	x0, y0 := f.point(f.world.Min)
	x1, y1 := f.point(f.world.Max)
	sb.WriteString(fmt.Sprintf(`<rect class="workspace" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#444466"/>
`, x0, y1, x1-x0, y0-y1))

	if sc.Title != "" {
		sb.WriteString(fmt.Sprintf("<title>%s</title>\n", escape(sc.Title)))
	}

	if len(sc.Edges) > 0 {
		sb.WriteString(`<path class="tree" fill="none" stroke="#3a6a8a" stroke-width="0.8" d="`)
		for i, e := range sc.Edges {
			ax, ay := f.point(e[0])
			bx, by := f.point(e[len(e)-1])
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(fmt.Sprintf("M%.1f,%.1f L%.1f,%.1f", ax, ay, bx, by))
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString(`<g class="obstacles" fill="#ff4444" fill-opacity="0.35" stroke="#ff4444">` + "\n")
	for _, o := range sc.Obstacles {
		cx, cy := f.point(o.Center)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, f.scale(o.Radius)))
	}
	sb.WriteString("</g>\n")

	gx, gy := f.point(sc.Goal)
	if sc.GoalRadius > 0 {
		sb.WriteString(fmt.Sprintf(`<circle class="goal-region" cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#ffcc00" stroke-dasharray="4 3"/>
`, gx, gy, f.scale(sc.GoalRadius)))
	}
	sb.WriteString(fmt.Sprintf(`<circle class="goal" cx="%.1f" cy="%.1f" r="3" fill="#ffcc00"/>
`, gx, gy))

	if len(sc.Path) >= 2 {
		sb.WriteString(`<path class="path" fill="none" stroke="#00ff88" stroke-width="2" d="M`)
		for i, p := range sc.Path {
			x, y := f.point(p)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sx, sy := f.point(sc.Start)
	sb.WriteString(fmt.Sprintf(`<circle class="start" cx="%.1f" cy="%.1f" r="3" fill="#00ccff"/>
`, sx, sy))

	sb.WriteString("</svg>")
	return sb.String()
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string {
	return xmlEscaper.Replace(s)
}
