package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Ink tags what was drawn into a cell. A cell keeps the highest ink drawn
// into it, so the path stays visible over the tree.
type Ink uint8

const (
	InkNone Ink = iota
	InkTree
	InkObstacle
	InkGoal
	InkPath
	InkStart
)

// Canvas is a Braille pixel grid mapped onto a rectangle of the plane.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Ink           [][]Ink

	world orb.Bound
}

func NewCanvas(w, h int, world orb.Bound) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Ink:    make([][]Ink, h),
		world:  world,
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Ink[i] = make([]Ink, w)
	}
	c.Clear()
	return c
}

// Set sets a pixel at (x, y) in sub-pixel coordinates. The canvas is
// (Width*2) x (Height*4) sub-pixels; y grows downwards.
func (c *Canvas) Set(x, y int, ink Ink) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if ink > c.Ink[row][col] {
		c.Ink[row][col] = ink
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Ink[i][j] = InkNone
		}
	}
}

// Project maps a world point to sub-pixel coordinates with y up.
func (c *Canvas) Project(p orb.Point) (int, int) {
	pw, ph := float64(c.Width*2-1), float64(c.Height*4-1)
	sx := (p.X() - c.world.Min.X()) / (c.world.Max.X() - c.world.Min.X())
	sy := (p.Y() - c.world.Min.Y()) / (c.world.Max.Y() - c.world.Min.Y())
	return int(math.Round(sx * pw)), int(math.Round((1 - sy) * ph))
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, ink Ink) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, ink)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Segment draws a world-space segment.
func (c *Canvas) Segment(a, b orb.Point, ink Ink) {
	x0, y0 := c.Project(a)
	x1, y1 := c.Project(b)
	c.DrawLine(x0, y0, x1, y1, ink)
}

// Circle outlines a world-space circle as a 48-gon.
func (c *Canvas) Circle(center orb.Point, r float64, ink Ink) {
	const steps = 48
	prev := orb.Point{center.X() + r, center.Y()}
	for i := 1; i <= steps; i++ {
		a := 2 * math.Pi * float64(i) / steps
		next := orb.Point{center.X() + r*math.Cos(a), center.Y() + r*math.Sin(a)}
		c.Segment(prev, next, ink)
		prev = next
	}
}

// Dot marks a world point with a 3x3 block of sub-pixels.
func (c *Canvas) Dot(p orb.Point, ink Ink) {
	x, y := c.Project(p)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c.Set(x+dx, y+dy, ink)
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Styled renders the grid with one colour per ink.
func (c *Canvas) Styled() string {
	var b strings.Builder
	for i, row := range c.Grid {
		for j, r := range row {
			style, ok := inkStyles[c.Ink[i][j]]
			if !ok {
				b.WriteRune(r)
				continue
			}
			b.WriteString(style.Render(string(r)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

var inkStyles = map[Ink]lipgloss.Style{
	InkTree:     TreeInk,
	InkObstacle: ObstacleInk,
	InkGoal:     GoalInk,
	InkPath:     PathInk,
	InkStart:    StartInk,
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
