package env

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/paulmach/orb"
	"go.uber.org/multierr"

	"github.com/san-kum/kinorrt/internal/dynamo"
	"github.com/san-kum/kinorrt/internal/space"
)

// Environment binds a state space to a fixed start, a goal disc and a
// validity rule. It is not modified after construction.
type Environment struct {
	name       string
	states     *space.StateSpace
	initial    dynamo.State
	goal       dynamo.State
	goalRadius float64
	obstacles  []Obstacle
	field      *Field
}

type Option func(*Environment)

// WithObstacles adds discs to the validity rule.
func WithObstacles(obstacles ...Obstacle) Option {
	return func(e *Environment) {
		e.obstacles = append(e.obstacles, obstacles...)
	}
}

func WithName(name string) Option {
	return func(e *Environment) {
		e.name = name
	}
}

func New(states *space.StateSpace, initial, goal dynamo.State, goalRadius float64, opts ...Option) (*Environment, error) {
	if states == nil {
		return nil, fmt.Errorf("environment: %w: nil state space", dynamo.ErrDimensionMismatch)
	}
	e := &Environment{
		states:     states,
		initial:    initial.Clone(),
		goal:       goal.Clone(),
		goalRadius: goalRadius,
	}
	for _, opt := range opts {
		opt(e)
	}

	var err error
	if len(initial) != states.Dim() {
		err = multierr.Append(err, fmt.Errorf("initial state: %w: got %d coordinates, want %d", dynamo.ErrDimensionMismatch, len(initial), states.Dim()))
	}
	if len(goal) != states.Dim() {
		err = multierr.Append(err, fmt.Errorf("goal state: %w: got %d coordinates, want %d", dynamo.ErrDimensionMismatch, len(goal), states.Dim()))
	}
	if !(goalRadius > 0) || math.IsInf(goalRadius, 0) {
		err = multierr.Append(err, fmt.Errorf("goal radius: %w: %g", dynamo.ErrParameterBounds, goalRadius))
	}
	if err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	field, err := NewField(e.obstacles)
	if err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	e.field = field
	return e, nil
}

// NewSimple is bounds-only validity.
func NewSimple(states *space.StateSpace, initial, goal dynamo.State, goalRadius float64) (*Environment, error) {
	return New(states, initial, goal, goalRadius, WithName("simple"))
}

// NewForest adds the forest layout to the bounds check.
func NewForest(states *space.StateSpace, initial, goal dynamo.State, goalRadius float64) (*Environment, error) {
	return New(states, initial, goal, goalRadius, WithName("forest"), WithObstacles(ForestLayout()...))
}

func (e *Environment) Name() string               { return e.name }
func (e *Environment) States() *space.StateSpace  { return e.states }
func (e *Environment) GoalRadius() float64        { return e.goalRadius }
func (e *Environment) InitialState() dynamo.State { return e.initial.Clone() }
func (e *Environment) SampleGoal() dynamo.State   { return e.goal.Clone() }
func (e *Environment) GoalPosition() orb.Point    { return e.states.Position(e.goal) }
func (e *Environment) Obstacles() []Obstacle      { return e.field.Obstacles() }

func (e *Environment) SampleState(r *rand.Rand) dynamo.State {
	return e.states.Sample(r)
}

// IsGoal tests position only; heading and speed are ignored.
func (e *Environment) IsGoal(s dynamo.State) bool {
	return dynamo.Euclidean(e.goal[0]-s[0], e.goal[1]-s[1]) < e.goalRadius
}

// IsValid reports whether s is finite, inside the state bounds and clear of
// every obstacle.
func (e *Environment) IsValid(s dynamo.State) bool {
	if !s.IsValid() || !e.states.Contains(s) {
		return false
	}
	return e.field.Free(e.states.Position(s))
}

// Clone returns an independent environment with its own obstacle index.
func (e *Environment) Clone() *Environment {
	field, err := NewField(e.obstacles)
	if err != nil {
		// Obstacles were validated in New.
		panic(err)
	}
	return &Environment{
		name:       e.name,
		states:     e.states,
		initial:    e.initial.Clone(),
		goal:       e.goal.Clone(),
		goalRadius: e.goalRadius,
		obstacles:  append([]Obstacle(nil), e.obstacles...),
		field:      field,
	}
}
