package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/kinorrt/internal/dynamo"
	"github.com/san-kum/kinorrt/internal/integrators"
	"github.com/san-kum/kinorrt/internal/space"
)

const (
	DefaultStepSize   = 0.15
	DefaultMaxDist    = 1.0
	DefaultBias       = 0.05
	DefaultBudget     = time.Second
	DefaultGoalRadius = 0.5
	DefaultSeed       = 42
	DefaultTrials     = 100
	DefaultWorkers    = 1
)

type Config struct {
	Name        string                    `yaml:"name"`
	Model       string                    `yaml:"model"`
	Layout      string                    `yaml:"layout"`
	Obstacles   []ObstacleConfig          `yaml:"obstacles,omitempty"`
	Start       []float64                 `yaml:"start"`
	Goal        []float64                 `yaml:"goal"`
	GoalRadius  float64                   `yaml:"goal_radius"`
	Bounds      map[string]space.Interval `yaml:"bounds,omitempty"`
	Planner     PlannerConfig             `yaml:"planner"`
	Integration IntegrationConfig         `yaml:"integration"`
	Seed        int64                     `yaml:"seed"`
	Trials      int                       `yaml:"trials"`
	Workers     int                       `yaml:"workers"`
}

type ObstacleConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
}

type PlannerConfig struct {
	StepSize float64       `yaml:"step_size"`
	MaxDist  float64       `yaml:"max_dist"`
	Bias     float64       `yaml:"bias"`
	Budget   time.Duration `yaml:"budget"`
}

type IntegrationConfig struct {
	Method       string `yaml:"method"`
	Subintervals int    `yaml:"subintervals"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "simplegeo",
		Model:      dynamo.Geometric.String(),
		Layout:     "none",
		Start:      []float64{0, 0},
		Goal:       []float64{9.5, 9.5},
		GoalRadius: DefaultGoalRadius,
		Planner: PlannerConfig{
			StepSize: DefaultStepSize,
			MaxDist:  DefaultMaxDist,
			Bias:     DefaultBias,
			Budget:   DefaultBudget,
		},
		Integration: IntegrationConfig{
			Method:       string(integrators.MethodTrapezoid),
			Subintervals: integrators.DefaultSubintervals,
		},
		Seed:    DefaultSeed,
		Trials:  DefaultTrials,
		Workers: DefaultWorkers,
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Obstacles = append([]ObstacleConfig(nil), c.Obstacles...)
	out.Start = append([]float64(nil), c.Start...)
	out.Goal = append([]float64(nil), c.Goal...)
	if c.Bounds != nil {
		out.Bounds = make(map[string]space.Interval, len(c.Bounds))
		for k, v := range c.Bounds {
			out.Bounds[k] = v
		}
	}
	return &out
}

// Load reads a YAML file on top of DefaultConfig.
func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto reads a YAML file on top of a copy of base. Keys missing from the
// file keep the value from base.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the fields that do not need a built model. Dimension
// checks against the model happen when the scenario is assembled.
func (c *Config) Validate() error {
	var err error
	if _, e := dynamo.ParseKind(c.Model); e != nil {
		err = multierr.Append(err, e)
	}
	if _, e := integrators.ParseMethod(c.Integration.Method); e != nil {
		err = multierr.Append(err, e)
	}
	if c.Integration.Subintervals < 0 {
		err = multierr.Append(err, fmt.Errorf("subintervals: %w: %d", dynamo.ErrParameterBounds, c.Integration.Subintervals))
	}
	if len(c.Start) == 0 {
		err = multierr.Append(err, fmt.Errorf("start: %w: empty", dynamo.ErrDimensionMismatch))
	}
	if len(c.Goal) == 0 {
		err = multierr.Append(err, fmt.Errorf("goal: %w: empty", dynamo.ErrDimensionMismatch))
	}
	if c.GoalRadius <= 0 {
		err = multierr.Append(err, fmt.Errorf("goal_radius: %w: %g", dynamo.ErrParameterBounds, c.GoalRadius))
	}
	if c.Planner.StepSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("planner.step_size: %w: %g", dynamo.ErrParameterBounds, c.Planner.StepSize))
	}
	if c.Planner.MaxDist <= 0 {
		err = multierr.Append(err, fmt.Errorf("planner.max_dist: %w: %g", dynamo.ErrParameterBounds, c.Planner.MaxDist))
	}
	if c.Planner.Bias < 0 || c.Planner.Bias > 1 {
		err = multierr.Append(err, fmt.Errorf("planner.bias: %w: %g", dynamo.ErrParameterBounds, c.Planner.Bias))
	}
	if c.Planner.Budget < 0 {
		err = multierr.Append(err, fmt.Errorf("planner.budget: %w: %v", dynamo.ErrParameterBounds, c.Planner.Budget))
	}
	if c.Trials < 1 {
		err = multierr.Append(err, fmt.Errorf("trials: %w: %d", dynamo.ErrParameterBounds, c.Trials))
	}
	if c.Workers < 1 {
		err = multierr.Append(err, fmt.Errorf("workers: %w: %d", dynamo.ErrParameterBounds, c.Workers))
	}
	for i, o := range c.Obstacles {
		if o.Radius <= 0 {
			err = multierr.Append(err, fmt.Errorf("obstacles[%d].radius: %w: %g", i, dynamo.ErrParameterBounds, o.Radius))
		}
	}
	return err
}
