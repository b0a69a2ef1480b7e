package optim

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/san-kum/kinorrt/internal/config"
	"github.com/san-kum/kinorrt/internal/experiment"
	"github.com/san-kum/kinorrt/internal/metrics"
)

// Param is one swept planner setting and the values it takes.
type Param struct {
	Name   string
	Values []float64
}

var setters = map[string]func(cfg *config.Config, v float64){
	"step_size":    func(cfg *config.Config, v float64) { cfg.Planner.StepSize = v },
	"max_dist":     func(cfg *config.Config, v float64) { cfg.Planner.MaxDist = v },
	"bias":         func(cfg *config.Config, v float64) { cfg.Planner.Bias = v },
	"goal_radius":  func(cfg *config.Config, v float64) { cfg.GoalRadius = v },
	"subintervals": func(cfg *config.Config, v float64) { cfg.Integration.Subintervals = int(v) },
}

// ParamNames lists the settings a sweep can vary.
func ParamNames() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseParam reads "name=v1,v2,...".
func ParseParam(arg string) (Param, error) {
	name, list, ok := strings.Cut(arg, "=")
	if !ok || name == "" || list == "" {
		return Param{}, fmt.Errorf("param %q: expected name=v1,v2,...", arg)
	}
	p := Param{Name: strings.TrimSpace(name)}
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return Param{}, fmt.Errorf("param %s: %w", p.Name, err)
		}
		p.Values = append(p.Values, v)
	}
	return p, nil
}

// Objective scores a benchmark summary. Lower is better.
type Objective func(metrics.Summary) float64

var objectives = map[string]Objective{
	"success":  func(s metrics.Summary) float64 { return -s.SuccessRate },
	"duration": func(s metrics.Summary) float64 { return s.MeanDuration.Seconds() },
	"tree":     func(s metrics.Summary) float64 { return s.MeanTreeSize },
	"length": func(s metrics.Summary) float64 {
		if math.IsNaN(s.MeanPathLength) {
			return math.Inf(1)
		}
		return s.MeanPathLength
	},
}

func GetObjective(name string) (Objective, error) {
	obj, ok := objectives[name]
	if !ok {
		names := make([]string, 0, len(objectives))
		for n := range objectives {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown objective %q (available: %v)", name, names)
	}
	return obj, nil
}

// Result is one grid point and its benchmark outcome.
type Result struct {
	Params  map[string]float64
	Summary metrics.Summary
	Score   float64
}

type GridSearch struct {
	params   []Param
	registry *experiment.Registry
	logger   *zap.SugaredLogger
}

func NewGridSearch(registry *experiment.Registry, logger *zap.SugaredLogger, params ...Param) (*GridSearch, error) {
	var err error
	for _, p := range params {
		if _, ok := setters[p.Name]; !ok {
			err = multierr.Append(err, fmt.Errorf("unknown param %q (available: %v)", p.Name, ParamNames()))
		}
		if len(p.Values) == 0 {
			err = multierr.Append(err, fmt.Errorf("param %q has no values", p.Name))
		}
	}
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &GridSearch{params: params, registry: registry, logger: logger}, nil
}

// Search benchmarks base.Trials trials at every grid point and returns the
// results in grid order with the index of the best one. Grid points whose
// configuration does not build are skipped and reported in the error; the
// first point with the lowest score wins ties.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, objective Objective) ([]Result, int, error) {
	var (
		results []Result
		errs    error
	)
	if err := g.searchRecursive(ctx, 0, base, make(map[string]float64), objective, &results, &errs); err != nil {
		return results, bestIndex(results), err
	}
	return results, bestIndex(results), errs
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	base *config.Config,
	current map[string]float64,
	objective Objective,
	results *[]Result,
	errs *error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.params) {
		cfg := base.Clone()
		for name, v := range current {
			setters[name](cfg, v)
		}

		sc, err := g.registry.Build(cfg)
		if err != nil {
			*errs = multierr.Append(*errs, fmt.Errorf("%v: %w", current, err))
			return nil
		}

		runs, err := experiment.New(sc, g.logger).Bench(ctx, cfg.Trials, cfg.Workers)
		if err != nil {
			return err
		}

		sum := metrics.Summarize(runs)
		res := Result{Params: current, Summary: sum, Score: objective(sum)}
		g.logger.Debugw("grid point", "params", current, "score", res.Score, "success_rate", sum.SuccessRate)
		*results = append(*results, res)
		return nil
	}

	p := g.params[depth]
	for _, val := range p.Values {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[p.Name] = val

		if err := g.searchRecursive(ctx, depth+1, base, newParams, objective, results, errs); err != nil {
			return err
		}
	}
	return nil
}

func bestIndex(results []Result) int {
	best := -1
	for i, r := range results {
		if best < 0 || r.Score < results[best].Score {
			best = i
		}
	}
	return best
}
