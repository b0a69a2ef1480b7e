package experiment

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/kinorrt/internal/config"
	"github.com/san-kum/kinorrt/internal/env"
	"github.com/san-kum/kinorrt/internal/models"
	"github.com/san-kum/kinorrt/internal/planner"
	"github.com/san-kum/kinorrt/internal/storage"
)

// Scenario is everything one planning run needs.
type Scenario struct {
	Name    string
	Config  *config.Config
	Model   models.Model
	Env     *env.Environment
	Options planner.Options
	Budget  time.Duration
}

// Metadata describes the scenario for the run store. Outcome fields are
// filled by storage.Store.Save.
func (s *Scenario) Metadata() storage.RunMetadata {
	meta := storage.RunMetadata{
		Scenario:     s.Name,
		Model:        s.Model.Kind().String(),
		Layout:       s.Config.Layout,
		Seed:         s.Options.Seed,
		StepSize:     s.Options.StepSize,
		MaxDist:      s.Options.MaxDist,
		Bias:         s.Options.Bias,
		Budget:       s.Budget,
		Method:       string(s.Model.Method()),
		Subintervals: s.Model.Subintervals(),
		Start:        s.Env.InitialState(),
		Goal:         s.Env.SampleGoal(),
		GoalRadius:   s.Env.GoalRadius(),
		Workspace:    s.Env.States().Workspace(),
	}
	for _, o := range s.Env.Obstacles() {
		meta.Obstacles = append(meta.Obstacles, storage.ObstacleRecord{X: o.Center.X(), Y: o.Center.Y(), Radius: o.Radius})
	}
	for _, c := range s.Model.States().Coordinates() {
		meta.StateNames = append(meta.StateNames, c.Name)
	}
	return meta
}

type Experiment struct {
	scenario *Scenario
	logger   *zap.SugaredLogger
	planner  *planner.RRT
}

func New(sc *Scenario, logger *zap.SugaredLogger) *Experiment {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Experiment{scenario: sc, logger: logger.With("scenario", sc.Name)}
}

func (e *Experiment) Scenario() *Scenario {
	return e.scenario
}

// Setup creates a fresh planner. Run calls it when needed.
func (e *Experiment) Setup() error {
	p, err := planner.New(e.scenario.Model, e.scenario.Env, e.scenario.Options, e.logger)
	if err != nil {
		return err
	}
	e.planner = p
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*planner.Solution, error) {
	if e.planner == nil {
		if err := e.Setup(); err != nil {
			return nil, err
		}
	}
	e.logger.Infow("planning",
		"model", e.scenario.Model.Kind(),
		"obstacles", len(e.scenario.Env.Obstacles()),
		"budget", e.scenario.Budget)
	return e.planner.Solve(ctx, e.scenario.Budget)
}

// Planner returns the planner of the last Run, for exporting its tree.
func (e *Experiment) Planner() *planner.RRT {
	return e.planner
}

// Bench runs independent trials of the scenario.
func (e *Experiment) Bench(ctx context.Context, trials, workers int) ([]*planner.Solution, error) {
	if trials < 1 {
		return nil, fmt.Errorf("trials must be positive, got %d", trials)
	}
	e.logger.Infow("benchmark", "trials", trials, "workers", workers, "budget", e.scenario.Budget)
	ens := planner.NewEnsemble(e.scenario.Model, e.scenario.Env, e.scenario.Options, workers, e.logger)
	return ens.Run(ctx, trials, e.scenario.Budget)
}
