package planner

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/san-kum/kinorrt/internal/dynamo"
	"github.com/san-kum/kinorrt/internal/env"
	"github.com/san-kum/kinorrt/internal/models"
)

type Options struct {
	// StepSize is the propagation duration of one extension step.
	StepSize float64
	// MaxDist caps the propagated duration of one outer iteration.
	MaxDist float64
	// Bias is the probability of steering toward the exact goal state.
	Bias float64
	Seed int64
}

func DefaultOptions() Options {
	return Options{
		StepSize: 0.15,
		MaxDist:  1.0,
		Bias:     0.05,
		Seed:     42,
	}
}

func (o Options) Validate() error {
	var err error
	if !(o.StepSize > 0) || math.IsInf(o.StepSize, 0) {
		err = multierr.Append(err, fmt.Errorf("step size: %w: %g", dynamo.ErrParameterBounds, o.StepSize))
	}
	if !(o.MaxDist > 0) || math.IsInf(o.MaxDist, 0) {
		err = multierr.Append(err, fmt.Errorf("max dist: %w: %g", dynamo.ErrParameterBounds, o.MaxDist))
	}
	if !(o.Bias >= 0 && o.Bias <= 1) {
		err = multierr.Append(err, fmt.Errorf("bias: %w: %g not in [0, 1]", dynamo.ErrParameterBounds, o.Bias))
	}
	return err
}

// RRT grows a single tree from the environment's initial state. It is not
// safe for concurrent use; run independent planners for parallel trials.
type RRT struct {
	model  models.Model
	env    *env.Environment
	opts   Options
	rng    *rand.Rand
	logger *zap.SugaredLogger

	tree       *Tree
	iterations int
	goal       int
}

func New(model models.Model, environment *env.Environment, opts Options, logger *zap.SugaredLogger) (*RRT, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("planner options: %w", err)
	}
	if model.StateDim() != environment.States().Dim() {
		return nil, fmt.Errorf("planner: %w: %s model has %d state coordinates, environment has %d",
			dynamo.ErrDimensionMismatch, model.Kind(), model.StateDim(), environment.States().Dim())
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	p := &RRT{
		model:  model,
		env:    environment,
		opts:   opts,
		rng:    rand.New(rand.NewSource(opts.Seed)),
		logger: logger,
	}
	p.Reset()
	return p, nil
}

// Reset discards the tree and starts over from the initial state. The random
// stream is not rewound.
func (p *RRT) Reset() {
	p.tree = NewTree(p.env.InitialState())
	p.iterations = 0
	p.goal = -1
}

func (p *RRT) Tree() *Tree {
	return p.tree
}

func (p *RRT) Iterations() int {
	return p.iterations
}

func (p *RRT) Reached() bool {
	return p.goal >= 0
}

func (p *RRT) Environment() *env.Environment {
	return p.env
}

// Extend runs one outer iteration: sample, pick the nearest node, steer once,
// then keep propagating under that control until the new state is invalid,
// the distance cap is hit or the goal is reached. It reports whether the goal
// has been reached; once it has, further calls do nothing.
func (p *RRT) Extend() bool {
	if p.goal >= 0 {
		return true
	}
	p.iterations++

	var sample dynamo.State
	if p.rng.Float64() < p.opts.Bias {
		sample = p.env.SampleGoal()
	} else {
		sample = p.env.SampleState(p.rng)
	}

	states := p.model.States()
	near := p.tree.Nearest(sample, states.Distance)
	u := p.model.Steer(p.tree.state(near), sample)

	next := p.model.Propagate(p.tree.state(near), u, p.opts.StepSize)
	total := p.opts.StepSize
	for p.env.IsValid(next) && total < p.opts.MaxDist {
		near = p.tree.Add(next, near)
		if p.env.IsGoal(next) {
			p.goal = near
			return true
		}
		next = p.model.Propagate(next, u, p.opts.StepSize)
		total += p.opts.StepSize
	}
	return false
}

// Solve restarts the tree and extends it until the goal is reached or the
// budget runs out. The deadline is checked before every outer iteration, so
// the last extension always completes. Running out of budget is a normal
// unsuccessful outcome; the error is only set when ctx is cancelled.
func (p *RRT) Solve(ctx context.Context, budget time.Duration) (*Solution, error) {
	p.Reset()
	start := time.Now()

	for time.Since(start) < budget {
		if err := ctx.Err(); err != nil {
			return p.Solution(time.Since(start)), err
		}
		if p.Extend() {
			sol := p.Solution(time.Since(start))
			p.logger.Debugw("goal reached",
				"iterations", sol.Iterations,
				"tree_size", sol.TreeSize,
				"path_length", sol.PathLength(),
				"elapsed", sol.Elapsed)
			return sol, nil
		}
	}

	sol := p.Solution(time.Since(start))
	p.logger.Debugw("budget exhausted",
		"iterations", sol.Iterations,
		"tree_size", sol.TreeSize,
		"budget", budget)
	return sol, nil
}

// Solution snapshots the current state of the search.
func (p *RRT) Solution(elapsed time.Duration) *Solution {
	sol := &Solution{
		Success:    p.goal >= 0,
		Elapsed:    elapsed,
		TreeSize:   p.tree.Len(),
		Iterations: p.iterations,
	}
	if !sol.Success {
		return sol
	}

	states := p.model.States()
	for _, idx := range p.tree.PathTo(p.goal) {
		s := p.tree.state(idx)
		sol.States = append(sol.States, s.Clone())
		sol.Path = append(sol.Path, states.Position(s))
	}
	return sol
}
