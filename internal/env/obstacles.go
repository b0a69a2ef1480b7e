package env

import (
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/san-kum/kinorrt/internal/dynamo"
)

// ForestRadius is the clearance radius of every forest obstacle.
const ForestRadius = 1.0

// Obstacle is a disc the planar position must stay out of. A position at
// exactly Radius from the centre is free.
type Obstacle struct {
	Center orb.Point
	Radius float64
}

func (o Obstacle) Blocks(p orb.Point) bool {
	return planar.Distance(o.Center, p) < o.Radius
}

// ForestLayout is three staggered rows of ten discs over the 10x10 workspace.
func ForestLayout() []Obstacle {
	centers := []orb.Point{
		{2, 2}, {5, 2}, {8, 2},
		{0.5, 5}, {3.5, 5}, {6.5, 5}, {9.5, 5},
		{2, 8}, {5, 8}, {8, 8},
	}
	out := make([]Obstacle, len(centers))
	for i, c := range centers {
		out[i] = Obstacle{Center: c, Radius: ForestRadius}
	}
	return out
}

type obstacleEntry struct {
	obstacle Obstacle
	bbox     rtreego.Rect
}

func (e *obstacleEntry) Bounds() rtreego.Rect {
	return e.bbox
}

// Field indexes obstacles by bounding box. Queries fetch the candidate discs
// whose box contains the point, then apply the exact distance test.
type Field struct {
	obstacles []Obstacle
	tree      *rtreego.Rtree
}

func NewField(obstacles []Obstacle) (*Field, error) {
	tree := rtreego.NewTree(2, 25, 50)
	kept := make([]Obstacle, 0, len(obstacles))

	for i, o := range obstacles {
		if !(o.Radius > 0) || math.IsInf(o.Radius, 0) {
			return nil, fmt.Errorf("obstacle %d: %w: radius %g", i, dynamo.ErrParameterBounds, o.Radius)
		}
		bbox, err := rtreego.NewRect(
			rtreego.Point{o.Center.X() - o.Radius, o.Center.Y() - o.Radius},
			[]float64{2 * o.Radius, 2 * o.Radius},
		)
		if err != nil {
			return nil, fmt.Errorf("obstacle %d: %w", i, err)
		}
		tree.Insert(&obstacleEntry{obstacle: o, bbox: bbox})
		kept = append(kept, o)
	}

	return &Field{obstacles: kept, tree: tree}, nil
}

func (f *Field) Len() int {
	return len(f.obstacles)
}

// Obstacles returns a copy of the indexed obstacles in insertion order.
func (f *Field) Obstacles() []Obstacle {
	out := make([]Obstacle, len(f.obstacles))
	copy(out, f.obstacles)
	return out
}

// Free reports whether p keeps at least each obstacle's radius of clearance.
func (f *Field) Free(p orb.Point) bool {
	if len(f.obstacles) == 0 {
		return true
	}
	query := rtreego.Point{p.X(), p.Y()}.ToRect(1e-9)
	for _, item := range f.tree.SearchIntersect(query) {
		if item.(*obstacleEntry).obstacle.Blocks(p) {
			return false
		}
	}
	return true
}

// Clearance is the smallest distance from p to any obstacle boundary.
// It is +Inf for an empty field.
func (f *Field) Clearance(p orb.Point) float64 {
	best := math.Inf(1)
	for _, o := range f.obstacles {
		if d := planar.Distance(o.Center, p) - o.Radius; d < best {
			best = d
		}
	}
	return best
}
