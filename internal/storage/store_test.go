package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/kinorrt/internal/dynamo"
	"github.com/san-kum/kinorrt/internal/planner"
)

func sampleRun() (RunMetadata, *planner.Solution, *planner.Tree) {
	tree := planner.NewTree(dynamo.State{0, 0, 0.785398})
	a := tree.Add(dynamo.State{0.1, 0.1, 0.785398}, 0)
	tree.Add(dynamo.State{0.5, 0, 0}, 0)
	b := tree.Add(dynamo.State{0.2, 0.2, 0.785398}, a)

	var states []dynamo.State
	var path orb.LineString
	for _, idx := range tree.PathTo(b) {
		s := tree.Node(idx).State
		states = append(states, s)
		path = append(path, orb.Point{s[0], s[1]})
	}

	sol := &planner.Solution{
		Success:    true,
		Elapsed:    120 * time.Millisecond,
		TreeSize:   tree.Len(),
		Iterations: 2,
		Path:       path,
		States:     states,
	}
	meta := RunMetadata{
		Scenario:   "simplevel",
		Model:      "velocity",
		Layout:     "none",
		Seed:       42,
		StepSize:   0.15,
		MaxDist:    1,
		Bias:       0.05,
		Budget:     time.Second,
		Method:     "trapezoid",
		Start:      []float64{0, 0, 0.785398},
		Goal:       []float64{9.5, 9.5, 0},
		GoalRadius: 0.5,
		Obstacles:  []ObstacleRecord{{X: 2, Y: 2, Radius: 1}},
		StateNames: []string{"x", "y", "theta"},
		Workspace:  orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}},
	}
	return meta, sol, tree
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	meta, sol, tree := sampleRun()
	runID, err := st.Save(meta, sol, tree)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "simplevel_"), "run id %q", runID)

	loaded, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, loaded.ID)
	assert.Equal(t, "velocity", loaded.Model)
	assert.Equal(t, int64(42), loaded.Seed)
	assert.Equal(t, time.Second, loaded.Budget)
	assert.True(t, loaded.Success)
	assert.Equal(t, 4, loaded.TreeSize)
	assert.Equal(t, 2, loaded.Iterations)
	assert.InDelta(t, sol.PathLength(), loaded.PathLength, 1e-12)
	assert.Equal(t, meta.Obstacles, loaded.Obstacles)
	assert.Equal(t, meta.Workspace, loaded.Workspace)

	path, err := st.LoadPath(runID)
	require.NoError(t, err)
	require.Len(t, path, 3)
	assert.Equal(t, sol.Path, path)

	states, err := st.LoadStates(runID)
	require.NoError(t, err)
	require.Len(t, states, 3)
	assert.Len(t, states[0], 3)
	assert.Equal(t, sol.States, states)

	nodes, err := st.LoadTree(runID)
	require.NoError(t, err)
	require.Len(t, nodes, 4)
	assert.Equal(t, -1, nodes[0].Parent)
	assert.Equal(t, 1, nodes[3].Parent)
	assert.Equal(t, 0.5, nodes[2].X)
	assert.Equal(t, 0.0, nodes[2].Y)
}

func TestStoreStateHeader(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	meta, sol, tree := sampleRun()
	runID, err := st.Save(meta, sol, tree)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, runID, statesFile))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "x,y,theta\n"))

	data, err = os.ReadFile(filepath.Join(dir, runID, pathFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, []string{"x,y", "0,0", "0.1,0.1", "0.2,0.2"}, lines)
}

func TestStoreExactRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	meta, _, _ := sampleRun()

	// Just outside a unit disc at (2, 2); six decimals would round it onto
	// the boundary.
	p := orb.Point{1.0000001234567, 2.9999996}
	tree := planner.NewTree(dynamo.State{p[0], p[1], -3.0915926535897933})
	sol := &planner.Solution{
		Success:  true,
		TreeSize: 1,
		Path:     orb.LineString{p},
		States:   []dynamo.State{tree.Node(0).State},
	}

	runID, err := st.Save(meta, sol, tree)
	require.NoError(t, err)

	path, err := st.LoadPath(runID)
	require.NoError(t, err)
	assert.Equal(t, orb.LineString{p}, path)

	states, err := st.LoadStates(runID)
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, dynamo.State{p[0], p[1], -3.0915926535897933}, states[0])

	nodes, err := st.LoadTree(runID)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, p[0], nodes[0].X)
	assert.Equal(t, p[1], nodes[0].Y)
}

func TestStoreFailedRun(t *testing.T) {
	st := New(t.TempDir())
	meta, _, tree := sampleRun()
	sol := &planner.Solution{Success: false, Elapsed: time.Second, TreeSize: tree.Len(), Iterations: 9}

	runID, err := st.Save(meta, sol, tree)
	require.NoError(t, err)

	loaded, err := st.Load(runID)
	require.NoError(t, err)
	assert.False(t, loaded.Success)
	assert.Zero(t, loaded.PathLength)

	path, err := st.LoadPath(runID)
	require.NoError(t, err)
	assert.Empty(t, path)

	states, err := st.LoadStates(runID)
	require.NoError(t, err)
	assert.Empty(t, states)

	nodes, err := st.LoadTree(runID)
	require.NoError(t, err)
	assert.Len(t, nodes, tree.Len())
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	meta, sol, tree := sampleRun()
	first, err := st.Save(meta, sol, tree)
	require.NoError(t, err)
	meta.Scenario = "forestvel"
	second, err := st.Save(meta, sol, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first, runs[0].ID)
	assert.Equal(t, second, runs[1].ID)
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = st.Load("nope")
	assert.Error(t, err)
}

func TestWriteJSONReportsErrors(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	assert.Error(t, writeJSON("/dev/full", RunMetadata{ID: "full"}))
	assert.Error(t, writeJSON(filepath.Join(t.TempDir(), "missing", "metadata.json"), RunMetadata{}))

	out := filepath.Join(t.TempDir(), "metadata.json")
	require.NoError(t, writeJSON(out, RunMetadata{ID: "ok"}))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id": "ok"`)
}
