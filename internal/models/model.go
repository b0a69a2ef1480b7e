package models

import (
	"fmt"

	"github.com/san-kum/kinorrt/internal/dynamo"
	"github.com/san-kum/kinorrt/internal/integrators"
	"github.com/san-kum/kinorrt/internal/space"
)

// Model couples a state space and a control space with the propagation and
// steering primitives the planner needs.
type Model interface {
	dynamo.System
	Kind() dynamo.Kind
	States() *space.StateSpace
	Controls() *space.ControlSpace
	Method() integrators.Method
	Subintervals() int
	// Propagate integrates the model under a constant control for dt.
	// It must not modify x.
	Propagate(x dynamo.State, u dynamo.Control, dt float64) dynamo.State
	// Steer returns the clamped control heading from toward to.
	Steer(from, to dynamo.State) dynamo.Control
}

type Options struct {
	Method       integrators.Method
	Subintervals int
	StateBounds  map[string]space.Interval
}

func DefaultOptions() Options {
	return Options{
		Method:       integrators.MethodTrapezoid,
		Subintervals: integrators.DefaultSubintervals,
	}
}

// New builds the model of the given kind.
func New(kind dynamo.Kind, opts Options) (Model, error) {
	var stateCoords, controlCoords []space.Coordinate
	switch kind {
	case dynamo.Geometric:
		stateCoords, controlCoords = space.GeometricStates(), space.GeometricControls()
	case dynamo.Velocity:
		stateCoords, controlCoords = space.VelocityStates(), space.VelocityControls()
	case dynamo.Acceleration:
		stateCoords, controlCoords = space.AccelerationStates(), space.AccelerationControls()
	default:
		return nil, fmt.Errorf("%w: %v", dynamo.ErrUnknownModel, kind)
	}

	b, err := newBase(kind, stateCoords, controlCoords, opts)
	if err != nil {
		return nil, fmt.Errorf("%s model: %w", kind, err)
	}

	switch kind {
	case dynamo.Geometric:
		return &Geometric{base: b}, nil
	case dynamo.Velocity:
		return &VelocityUnicycle{base: b}, nil
	default:
		return &AccelerationUnicycle{base: b}, nil
	}
}

type base struct {
	kind     dynamo.Kind
	states   *space.StateSpace
	controls *space.ControlSpace
	method   integrators.Method
	n        int
}

func newBase(kind dynamo.Kind, stateCoords, controlCoords []space.Coordinate, opts Options) (base, error) {
	method, err := integrators.ParseMethod(string(opts.Method))
	if err != nil {
		return base{}, err
	}
	n := opts.Subintervals
	if n == 0 {
		n = integrators.DefaultSubintervals
	}
	if n < 1 {
		return base{}, fmt.Errorf("%w: subintervals %d", dynamo.ErrParameterBounds, n)
	}

	states, err := space.NewStateSpace(stateCoords)
	if err != nil {
		return base{}, err
	}
	if len(opts.StateBounds) > 0 {
		if states, err = states.WithBounds(opts.StateBounds); err != nil {
			return base{}, err
		}
	}
	controls, err := space.NewControlSpace(controlCoords)
	if err != nil {
		return base{}, err
	}

	return base{kind: kind, states: states, controls: controls, method: method, n: n}, nil
}

func (b *base) Kind() dynamo.Kind             { return b.kind }
func (b *base) States() *space.StateSpace     { return b.states }
func (b *base) Controls() *space.ControlSpace { return b.controls }
func (b *base) StateDim() int                 { return b.states.Dim() }
func (b *base) ControlDim() int               { return b.controls.Dim() }
func (b *base) Method() integrators.Method    { return b.method }
func (b *base) Subintervals() int             { return b.n }

// integrate runs a stepping method over the system's right-hand side. A fresh
// stepper per call keeps Propagate safe for concurrent trials.
func (b *base) integrate(sys dynamo.System, x dynamo.State, u dynamo.Control, dt float64) dynamo.State {
	return integrators.Advance(b.method.Stepper(), sys, x, u, dt, b.n)
}
