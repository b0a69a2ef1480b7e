package models

import (
	"math"

	"github.com/san-kum/kinorrt/internal/dynamo"
)

// Geometric is a holonomic point that moves at unit speed along the control
// heading.
//
// State: [x, y]
// Control: [θ]
type Geometric struct {
	base
}

func (g *Geometric) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{math.Cos(u[0]), math.Sin(u[0])}
}

// Propagate is closed form for every integration method.
func (g *Geometric) Propagate(x dynamo.State, u dynamo.Control, dt float64) dynamo.State {
	out := x.Clone()
	if dt == 0 {
		return out
	}
	out[0] += dt * math.Cos(u[0])
	out[1] += dt * math.Sin(u[0])
	return out
}

func (g *Geometric) Steer(from, to dynamo.State) dynamo.Control {
	u := dynamo.Control{math.Atan2(to[1]-from[1], to[0]-from[0])}
	return g.controls.Clamp(u)
}
