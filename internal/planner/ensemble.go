package planner

import (
	"context"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/san-kum/kinorrt/internal/env"
	"github.com/san-kum/kinorrt/internal/models"
)

// Ensemble runs independent trials of one scenario. Trial i gets its own
// environment clone, its own planner and seed Seed+i.
type Ensemble struct {
	model   models.Model
	env     *env.Environment
	opts    Options
	workers int
	logger  *zap.SugaredLogger
}

func NewEnsemble(model models.Model, environment *env.Environment, opts Options, workers int, logger *zap.SugaredLogger) *Ensemble {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Ensemble{model: model, env: environment, opts: opts, workers: workers, logger: logger}
}

// Run plans the scenario numRuns times, at most workers at a time. Results
// are in trial order. The wall-clock budget of each trial is shared with the
// other workers' CPU time, so more workers can lower per-trial success.
// Once ctx is done no further trials start; the trials that finished are
// returned together with the error.
func (e *Ensemble) Run(ctx context.Context, numRuns int, budget time.Duration) ([]*Solution, error) {
	results := make([]*Solution, numRuns)
	errs := make([]error, numRuns)
	sem := make(chan struct{}, e.workers)

	var (
		wg       sync.WaitGroup
		launched int
	)
	for ; launched < numRuns; launched++ {
		sem <- struct{}{}
		if ctx.Err() != nil {
			<-sem
			break
		}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			opts := e.opts
			opts.Seed = e.opts.Seed + int64(idx)

			p, err := New(e.model, e.env.Clone(), opts, e.logger)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = p.Solve(ctx, budget)
			e.logger.Debugw("trial finished",
				"trial", idx,
				"success", results[idx].Success,
				"tree_size", results[idx].TreeSize,
				"elapsed", results[idx].Elapsed)
		}(launched)
	}

	wg.Wait()

	finished := make([]*Solution, 0, launched)
	for i := 0; i < launched; i++ {
		if errs[i] == nil {
			finished = append(finished, results[i])
		}
	}
	err := multierr.Combine(errs...)
	if launched < numRuns && err == nil {
		err = ctx.Err()
	}
	return finished, err
}
