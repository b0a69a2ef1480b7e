package space

import (
	"math"
	"math/rand"
)

// Interval is a closed range [Min, Max].
type Interval struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

func (i Interval) Span() float64 {
	return i.Max - i.Min
}

func (i Interval) Contains(v float64) bool {
	return v >= i.Min && v <= i.Max
}

func (i Interval) Clamp(v float64) float64 {
	return math.Max(i.Min, math.Min(i.Max, v))
}

func (i Interval) Sample(r *rand.Rand) float64 {
	return i.Min + r.Float64()*i.Span()
}

func (i Interval) degenerate() bool {
	s := i.Span()
	return !(s > 0) || math.IsInf(s, 0)
}

// Coordinate names one axis of a state or control vector.
type Coordinate struct {
	Name    string
	Bounds  Interval
	Angular bool
}
