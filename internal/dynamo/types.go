package dynamo

import (
	"fmt"
	"math"
	"strings"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Equal reports whether both states have the same dimension and coordinates.
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

func (s State) String() string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = fmt.Sprintf("%.4f", v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

type Control []float64

func (u Control) Clone() Control {
	c := make(Control, len(u))
	copy(c, u)
	return c
}

// System is the continuous-time right-hand side of a model, used by the
// stepping integrators.
type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// Kind tags one of the supported dynamical models.
type Kind int

const (
	Geometric Kind = iota + 1
	Velocity
	Acceleration
)

var kindNames = map[Kind]string{
	Geometric:    "geometric",
	Velocity:     "velocity",
	Acceleration: "acceleration",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Kinds lists every supported model kind in declaration order.
func Kinds() []Kind {
	return []Kind{Geometric, Velocity, Acceleration}
}

// ParseKind accepts the full kind name or its three-letter short form.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "geometric", "geo":
		return Geometric, nil
	case "velocity", "vel":
		return Velocity, nil
	case "acceleration", "acc":
		return Acceleration, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownModel, name)
}
