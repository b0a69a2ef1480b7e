package space

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/san-kum/kinorrt/internal/dynamo"
)

// StateSpace is a bounded box of states. The first two coordinates are the
// planar position.
type StateSpace struct {
	box[dynamo.State]
	posNorm float64
}

func NewStateSpace(coords []Coordinate) (*StateSpace, error) {
	if len(coords) < 2 {
		return nil, fmt.Errorf("state space: %w: need x and y, got %d coordinates", dynamo.ErrDimensionMismatch, len(coords))
	}
	b, err := newBox[dynamo.State](coords)
	if err != nil {
		return nil, fmt.Errorf("state space: %w", err)
	}
	return &StateSpace{
		box:     b,
		posNorm: math.Hypot(coords[0].Bounds.Span(), coords[1].Bounds.Span()),
	}, nil
}

// WithBounds returns a copy with the named coordinate intervals replaced.
func (s *StateSpace) WithBounds(overrides map[string]Interval) (*StateSpace, error) {
	coords, err := s.withBounds(overrides)
	if err != nil {
		return nil, fmt.Errorf("state space: %w", err)
	}
	return NewStateSpace(coords)
}

// Distance is a normalised ranking heuristic, not a metric. The positional
// term is scaled by the diagonal of the workspace, angular terms by half their
// span and every other coordinate by its span.
func (s *StateSpace) Distance(a, b dynamo.State) float64 {
	d := dynamo.Euclidean(b[0]-a[0], b[1]-a[1]) / s.posNorm
	for i := 2; i < len(s.coords); i++ {
		c := s.coords[i]
		if c.Angular {
			d += dynamo.Angular(a[i], b[i]) / (c.Bounds.Span() / 2)
		} else {
			d += math.Abs(b[i]-a[i]) / c.Bounds.Span()
		}
	}
	return d
}

func (s *StateSpace) Position(x dynamo.State) orb.Point {
	return orb.Point{x[0], x[1]}
}

// Workspace is the planar extent of the position coordinates.
func (s *StateSpace) Workspace() orb.Bound {
	x, y := s.coords[0].Bounds, s.coords[1].Bounds
	return orb.Bound{Min: orb.Point{x.Min, y.Min}, Max: orb.Point{x.Max, y.Max}}
}

// ControlSpace is a bounded box of controls.
type ControlSpace struct {
	box[dynamo.Control]
}

func NewControlSpace(coords []Coordinate) (*ControlSpace, error) {
	if len(coords) == 0 {
		return nil, fmt.Errorf("control space: %w: no coordinates", dynamo.ErrDimensionMismatch)
	}
	b, err := newBox[dynamo.Control](coords)
	if err != nil {
		return nil, fmt.Errorf("control space: %w", err)
	}
	return &ControlSpace{box: b}, nil
}
