package optim

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"

	"github.com/san-kum/kinorrt/internal/config"
	"github.com/san-kum/kinorrt/internal/experiment"
	"github.com/san-kum/kinorrt/internal/metrics"
)

func TestParseParam(t *testing.T) {
	p, err := ParseParam("bias=0.05, 0.1,0.5")
	require.NoError(t, err)
	assert.Equal(t, "bias", p.Name)
	assert.Equal(t, []float64{0.05, 0.1, 0.5}, p.Values)

	for _, bad := range []string{"bias", "=1", "bias=", "bias=a,b"} {
		_, err := ParseParam(bad)
		assert.Error(t, err, bad)
	}
}

func TestNewGridSearchValidates(t *testing.T) {
	_, err := NewGridSearch(experiment.NewRegistry(), nil,
		Param{Name: "temperature", Values: []float64{1}},
		Param{Name: "bias"},
	)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
}

func TestObjectives(t *testing.T) {
	s := metrics.Summary{SuccessRate: 0.8, MeanDuration: 250 * time.Millisecond, MeanTreeSize: 120, MeanPathLength: math.NaN()}

	tests := map[string]float64{
		"success":  -0.8,
		"duration": 0.25,
		"tree":     120,
		"length":   math.Inf(1),
	}
	for name, want := range tests {
		obj, err := GetObjective(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, obj(s), name)
	}

	_, err := GetObjective("energy")
	assert.Error(t, err)
}

func TestSearchEnumeratesGrid(t *testing.T) {
	base := config.GetPreset("simplegeo")
	base.Trials = 2
	base.Planner.Budget = 2 * time.Second

	g, err := NewGridSearch(experiment.NewRegistry(), zaptest.NewLogger(t).Sugar(),
		Param{Name: "bias", Values: []float64{0.05, 1}},
		Param{Name: "step_size", Values: []float64{0.15, 0.3}},
	)
	require.NoError(t, err)

	obj, err := GetObjective("tree")
	require.NoError(t, err)

	results, best, err := g.Search(context.Background(), base, obj)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, map[string]float64{"bias": 0.05, "step_size": 0.15}, results[0].Params)
	assert.Equal(t, map[string]float64{"bias": 1, "step_size": 0.3}, results[3].Params)
	for i, r := range results {
		assert.Equal(t, 2, r.Summary.Trials)
		assert.LessOrEqual(t, results[best].Score, r.Score, "result %d beats the reported best", i)
	}
	assert.Equal(t, 0.15, base.Planner.StepSize, "Search must not modify its base config")
}

func TestSearchSkipsInvalidPoints(t *testing.T) {
	base := config.GetPreset("simplegeo")
	base.Trials = 1

	g, err := NewGridSearch(experiment.NewRegistry(), nil,
		Param{Name: "bias", Values: []float64{2, 1}},
	)
	require.NoError(t, err)

	obj, _ := GetObjective("success")
	results, best, err := g.Search(context.Background(), base, obj)
	assert.Error(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, best)
	assert.Equal(t, 1.0, results[0].Params["bias"])
}

func TestSearchCancelled(t *testing.T) {
	g, err := NewGridSearch(experiment.NewRegistry(), nil, Param{Name: "bias", Values: []float64{0.1}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	obj, _ := GetObjective("tree")
	results, best, err := g.Search(ctx, config.GetPreset("simplegeo"), obj)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
	assert.Equal(t, -1, best)
}
