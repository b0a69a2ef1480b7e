package space

import (
	"fmt"
	"math/rand"

	"go.uber.org/multierr"

	"github.com/san-kum/kinorrt/internal/dynamo"
)

type box[T ~[]float64] struct {
	coords []Coordinate
}

func newBox[T ~[]float64](coords []Coordinate) (box[T], error) {
	var err error
	for i, c := range coords {
		if c.Bounds.degenerate() {
			err = multierr.Append(err, &dynamo.CoordError{
				Index:   i,
				Name:    c.Name,
				Wrapped: fmt.Errorf("%w: [%g, %g]", dynamo.ErrDegenerateBounds, c.Bounds.Min, c.Bounds.Max),
			})
		}
	}
	if err != nil {
		return box[T]{}, err
	}
	cp := make([]Coordinate, len(coords))
	copy(cp, coords)
	return box[T]{coords: cp}, nil
}

func (b box[T]) Dim() int {
	return len(b.coords)
}

// Coordinates returns a copy of the axis descriptions.
func (b box[T]) Coordinates() []Coordinate {
	out := make([]Coordinate, len(b.coords))
	copy(out, b.coords)
	return out
}

// Index returns the position of the named coordinate, or -1.
func (b box[T]) Index(name string) int {
	for i, c := range b.coords {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (b box[T]) Min() T {
	out := make(T, len(b.coords))
	for i, c := range b.coords {
		out[i] = c.Bounds.Min
	}
	return out
}

func (b box[T]) Max() T {
	out := make(T, len(b.coords))
	for i, c := range b.coords {
		out[i] = c.Bounds.Max
	}
	return out
}

func (b box[T]) Span() T {
	out := make(T, len(b.coords))
	for i, c := range b.coords {
		out[i] = c.Bounds.Span()
	}
	return out
}

// Sample draws every coordinate independently and uniformly.
func (b box[T]) Sample(r *rand.Rand) T {
	out := make(T, len(b.coords))
	for i, c := range b.coords {
		out[i] = c.Bounds.Sample(r)
	}
	return out
}

// Clamp saturates each coordinate into its interval. Angular coordinates
// are saturated too, not wrapped.
func (b box[T]) Clamp(v T) T {
	out := make(T, len(v))
	copy(out, v)
	for i := range out {
		if i < len(b.coords) {
			out[i] = b.coords[i].Bounds.Clamp(out[i])
		}
	}
	return out
}

func (b box[T]) Contains(v T) bool {
	if len(v) != len(b.coords) {
		return false
	}
	for i, c := range b.coords {
		if !c.Bounds.Contains(v[i]) {
			return false
		}
	}
	return true
}

func (b box[T]) withBounds(overrides map[string]Interval) ([]Coordinate, error) {
	coords := b.Coordinates()
	var err error
	for name, iv := range overrides {
		idx := b.Index(name)
		if idx < 0 {
			err = multierr.Append(err, fmt.Errorf("%w: no coordinate named %q", dynamo.ErrDimensionMismatch, name))
			continue
		}
		coords[idx].Bounds = iv
	}
	return coords, err
}
