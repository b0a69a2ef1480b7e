package experiment

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb"
	"go.uber.org/multierr"

	"github.com/san-kum/kinorrt/internal/config"
	"github.com/san-kum/kinorrt/internal/dynamo"
	"github.com/san-kum/kinorrt/internal/env"
	"github.com/san-kum/kinorrt/internal/integrators"
	"github.com/san-kum/kinorrt/internal/models"
	"github.com/san-kum/kinorrt/internal/planner"
)

type Registry struct {
	layouts map[string]func() []env.Obstacle
}

func NewRegistry() *Registry {
	r := &Registry{
		layouts: make(map[string]func() []env.Obstacle),
	}

	r.layouts["none"] = func() []env.Obstacle { return nil }
	r.layouts["forest"] = env.ForestLayout

	return r
}

// RegisterLayout adds or replaces a named obstacle layout.
func (r *Registry) RegisterLayout(name string, fn func() []env.Obstacle) {
	r.layouts[name] = fn
}

func (r *Registry) GetLayout(name string) ([]env.Obstacle, error) {
	if name == "" {
		name = "none"
	}
	fn, ok := r.layouts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", dynamo.ErrUnknownLayout, name, r.ListLayouts())
	}
	return fn(), nil
}

func (r *Registry) ListLayouts() []string {
	names := make([]string, 0, len(r.layouts))
	for name := range r.layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, 3)
	for _, k := range dynamo.Kinds() {
		names = append(names, k.String())
	}
	return names
}

func (r *Registry) ListMethods() []string {
	return integrators.Methods()
}

// Build assembles a runnable scenario from a configuration.
func (r *Registry) Build(cfg *config.Config) (*Scenario, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	kind, err := dynamo.ParseKind(cfg.Model)
	if err != nil {
		return nil, err
	}
	model, err := models.New(kind, models.Options{
		Method:       integrators.Method(cfg.Integration.Method),
		Subintervals: cfg.Integration.Subintervals,
		StateBounds:  cfg.Bounds,
	})
	if err != nil {
		return nil, err
	}

	obstacles, err := r.GetLayout(cfg.Layout)
	if err != nil {
		return nil, err
	}
	for _, o := range cfg.Obstacles {
		obstacles = append(obstacles, env.Obstacle{Center: orb.Point{o.X, o.Y}, Radius: o.Radius})
	}

	environment, err := env.New(model.States(), cfg.Start, cfg.Goal, cfg.GoalRadius,
		env.WithName(cfg.Name), env.WithObstacles(obstacles...))
	if err != nil {
		return nil, err
	}

	start := environment.InitialState()
	goal := environment.SampleGoal()
	if !environment.IsValid(start) {
		err = multierr.Append(err, fmt.Errorf("start %v: %w: outside the free space", start, dynamo.ErrParameterBounds))
	}
	if !model.States().Contains(goal) {
		err = multierr.Append(err, fmt.Errorf("goal %v: %w: outside the state space", goal, dynamo.ErrParameterBounds))
	}
	if err != nil {
		return nil, err
	}

	return &Scenario{
		Name:   cfg.Name,
		Config: cfg,
		Model:  model,
		Env:    environment,
		Options: planner.Options{
			StepSize: cfg.Planner.StepSize,
			MaxDist:  cfg.Planner.MaxDist,
			Bias:     cfg.Planner.Bias,
			Seed:     cfg.Seed,
		},
		Budget: cfg.Planner.Budget,
	}, nil
}
