package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/kinorrt/internal/dynamo"
)

// DefaultSubintervals is the number of equal subintervals each quadrature
// uses. Higher values trade propagation cost for accuracy in sharp turns.
const DefaultSubintervals = 10

// Integrator advances an ODE system by one step.
type Integrator interface {
	Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64, dt float64) dynamo.State
}

// Method names how a model propagates: either nested quadrature of the
// closed-form integrals, or stepping the ODE right-hand side.
type Method string

const (
	MethodTrapezoid Method = "trapezoid"
	MethodSimpson   Method = "simpson"
	MethodRK4       Method = "rk4"
	MethodEuler     Method = "euler"
)

var quadratures = map[Method]func(n int) Quadrature{
	MethodTrapezoid: func(n int) Quadrature { return NewTrapezoid(n) },
	MethodSimpson:   func(n int) Quadrature { return NewSimpson(n) },
}

var steppers = map[Method]func() Integrator{
	MethodRK4:   func() Integrator { return NewRK4() },
	MethodEuler: func() Integrator { return NewEuler() },
}

// Methods lists the registered method names, sorted.
func Methods() []string {
	names := make([]string, 0, len(quadratures)+len(steppers))
	for m := range quadratures {
		names = append(names, string(m))
	}
	for m := range steppers {
		names = append(names, string(m))
	}
	sort.Strings(names)
	return names
}

// ParseMethod validates a method name. The empty string selects trapezoid.
func ParseMethod(name string) (Method, error) {
	m := Method(name)
	if name == "" {
		m = MethodTrapezoid
	}
	if _, ok := quadratures[m]; ok {
		return m, nil
	}
	if _, ok := steppers[m]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q (available: %v)", dynamo.ErrUnknownMethod, name, Methods())
}

// Quadrature returns the rule for a quadrature method, or nil for steppers.
func (m Method) Quadrature(n int) Quadrature {
	if fn, ok := quadratures[m]; ok {
		return fn(n)
	}
	return nil
}

// Stepper returns a fresh integrator for a stepping method, or nil for quadratures.
func (m Method) Stepper() Integrator {
	if fn, ok := steppers[m]; ok {
		return fn()
	}
	return nil
}

// Advance integrates dyn over [0, duration] in n equal steps.
func Advance(integ Integrator, dyn dynamo.System, x dynamo.State, u dynamo.Control, duration float64, n int) dynamo.State {
	if duration == 0 {
		return x.Clone()
	}
	if n < 1 {
		n = 1
	}
	dt := duration / float64(n)
	out := x.Clone()
	for i := 0; i < n; i++ {
		out = integ.Step(dyn, out, u, float64(i)*dt, dt)
	}
	return out
}
