package models

import (
	"math"

	"github.com/san-kum/kinorrt/internal/dynamo"
)

// VelocityUnicycle turns at rate ω while driving at speed v.
//
// State: [x, y, θ]
// Control: [ω, v]
type VelocityUnicycle struct {
	base
}

const (
	velTheta = 2

	ctlOmega = 0
	ctlLin   = 1
)

func (m *VelocityUnicycle) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	theta := x[velTheta]
	v := u[ctlLin]
	return dynamo.State{v * math.Cos(theta), v * math.Sin(theta), u[ctlOmega]}
}

func (m *VelocityUnicycle) Propagate(x dynamo.State, u dynamo.Control, dt float64) dynamo.State {
	if dt == 0 {
		return x.Clone()
	}

	var out dynamo.State
	if q := m.method.Quadrature(m.n); q != nil {
		omega, v := u[ctlOmega], u[ctlLin]
		theta := func(s float64) float64 {
			return x[velTheta] + q.Integrate(func(float64) float64 { return omega }, 0, s)
		}
		out = dynamo.State{
			x[0] + q.Integrate(func(s float64) float64 { return v * math.Cos(theta(s)) }, 0, dt),
			x[1] + q.Integrate(func(s float64) float64 { return v * math.Sin(theta(s)) }, 0, dt),
			theta(dt),
		}
	} else {
		out = m.integrate(m, x, u, dt)
	}

	out[velTheta] = dynamo.Wrap(out[velTheta])
	return out
}

func (m *VelocityUnicycle) Steer(from, to dynamo.State) dynamo.Control {
	dx, dy := to[0]-from[0], to[1]-from[1]
	u := dynamo.Control{
		dynamo.SignedAngleDiff(from[velTheta], math.Atan2(dy, dx)),
		dynamo.Euclidean(dx, dy),
	}
	return m.controls.Clamp(u)
}

// AccelerationUnicycle turns at rate ω and changes speed at rate a.
//
// State: [x, y, v, θ]
// Control: [ω, a]
type AccelerationUnicycle struct {
	base
}

const (
	accSpeed = 2
	accTheta = 3
)

func (m *AccelerationUnicycle) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	v, theta := x[accSpeed], x[accTheta]
	return dynamo.State{v * math.Cos(theta), v * math.Sin(theta), u[ctlLin], u[ctlOmega]}
}

// Propagate wraps the heading but leaves speed unsaturated. A speed outside
// the state bounds fails validity instead.
func (m *AccelerationUnicycle) Propagate(x dynamo.State, u dynamo.Control, dt float64) dynamo.State {
	if dt == 0 {
		return x.Clone()
	}

	var out dynamo.State
	if q := m.method.Quadrature(m.n); q != nil {
		omega, a := u[ctlOmega], u[ctlLin]
		theta := func(s float64) float64 {
			return x[accTheta] + q.Integrate(func(float64) float64 { return omega }, 0, s)
		}
		speed := func(s float64) float64 {
			return x[accSpeed] + q.Integrate(func(float64) float64 { return a }, 0, s)
		}
		out = dynamo.State{
			x[0] + q.Integrate(func(s float64) float64 { return speed(s) * math.Cos(theta(s)) }, 0, dt),
			x[1] + q.Integrate(func(s float64) float64 { return speed(s) * math.Sin(theta(s)) }, 0, dt),
			speed(dt),
			theta(dt),
		}
	} else {
		out = m.integrate(m, x, u, dt)
	}

	out[accTheta] = dynamo.Wrap(out[accTheta])
	return out
}

func (m *AccelerationUnicycle) Steer(from, to dynamo.State) dynamo.Control {
	dx, dy := to[0]-from[0], to[1]-from[1]
	u := dynamo.Control{
		dynamo.SignedAngleDiff(from[accTheta], math.Atan2(dy, dx)),
		dynamo.Euclidean(dx, dy) - from[accSpeed],
	}
	return m.controls.Clamp(u)
}
