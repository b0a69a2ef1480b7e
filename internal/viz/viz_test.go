package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/kinorrt/internal/dynamo"
	"github.com/san-kum/kinorrt/internal/env"
	"github.com/san-kum/kinorrt/internal/models"
	"github.com/san-kum/kinorrt/internal/planner"
	"github.com/san-kum/kinorrt/internal/storage"
)

var unitWorld = orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}

func TestCanvasProject(t *testing.T) {
	c := NewCanvas(10, 5, unitWorld)

	x, y := c.Project(orb.Point{0, 0})
	assert.Equal(t, 0, x)
	assert.Equal(t, 19, y)

	x, y = c.Project(orb.Point{10, 10})
	assert.Equal(t, 19, x)
	assert.Equal(t, 0, y)
}

func TestCanvasInkPriority(t *testing.T) {
	c := NewCanvas(4, 2, unitWorld)
	c.Set(0, 0, InkPath)
	c.Set(1, 0, InkTree)
	assert.Equal(t, InkPath, c.Ink[0][0])
	assert.Equal(t, rune(blank|0x1|0x8), c.Grid[0][0])

	c.Set(-1, 3, InkTree)
	c.Set(100, 0, InkTree)
	assert.Equal(t, InkNone, c.Ink[0][3])

	c.Clear()
	assert.Equal(t, rune(blank), c.Grid[0][0])
	assert.Equal(t, InkNone, c.Ink[0][0])
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2, unitWorld)
	c.Segment(orb.Point{0, 0}, orb.Point{10, 10}, InkPath)
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, 3, len([]rune(lines[0])))
	assert.NotEqual(t, rune(blank), c.Grid[1][0])
	assert.NotEqual(t, rune(blank), c.Grid[0][2])
}

func TestSceneFromRun(t *testing.T) {
	meta := &storage.RunMetadata{
		ID:         "simplegeo_1234abcd",
		Start:      []float64{0, 0},
		Goal:       []float64{9.5, 9.5},
		GoalRadius: 0.5,
		Obstacles:  []storage.ObstacleRecord{{X: 5, Y: 5, Radius: 1}},
		Workspace:  unitWorld,
	}
	nodes := []storage.TreeRecord{{X: 0, Y: 0, Parent: -1}, {X: 1, Y: 1, Parent: 0}, {X: 2, Y: 1, Parent: 1}}
	path := orb.LineString{{0, 0}, {1, 1}}

	sc := SceneFromRun(meta, nodes, path)
	assert.Equal(t, meta.ID, sc.Title)
	assert.Len(t, sc.Nodes, 3)
	require.Len(t, sc.Edges, 2)
	assert.Equal(t, orb.LineString{{1, 1}, {2, 1}}, sc.Edges[1])
	assert.Equal(t, orb.Point{9.5, 9.5}, sc.Goal)
	assert.Equal(t, unitWorld, sc.Bounds())
	require.Len(t, sc.Obstacles, 1)

	c := Render(sc, 40, 20)
	gx, gy := c.Project(sc.Goal)
	assert.Equal(t, InkGoal, c.Ink[gy/4][gx/2])
	sx, sy := c.Project(sc.Start)
	assert.Equal(t, InkStart, c.Ink[sy/4][sx/2])
}

func TestSceneBoundsWithoutWorkspace(t *testing.T) {
	sc := Scene{
		Start:     orb.Point{1, 1},
		Goal:      orb.Point{4, 2},
		Obstacles: []env.Obstacle{{Center: orb.Point{3, 5}, Radius: 1}},
	}
	b := sc.Bounds()
	assert.Equal(t, orb.Point{1, 1}, b.Min)
	assert.Equal(t, orb.Point{4, 6}, b.Max)
}

func newLive(t *testing.T) Live {
	t.Helper()
	m, err := models.New(dynamo.Geometric, models.DefaultOptions())
	require.NoError(t, err)
	e, err := env.New(m.States(), dynamo.State{0, 0}, dynamo.State{9.5, 9.5}, 0.5)
	require.NoError(t, err)
	opts := planner.DefaultOptions()
	opts.Bias = 1
	p, err := planner.New(m, e, opts, nil)
	require.NoError(t, err)
	return NewLive(p, "simplegeo")
}

func press(m Live, key tea.KeyMsg) (Live, tea.Cmd) {
	next, cmd := m.Update(key)
	return next.(Live), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLiveKeys(t *testing.T) {
	m := newLive(t)
	assert.Equal(t, 1, m.batch)

	m, _ = press(m, runes("+"))
	m, _ = press(m, runes("+"))
	assert.Equal(t, 4, m.batch)
	m, _ = press(m, runes("-"))
	assert.Equal(t, 2, m.batch)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.running)
	next, _ := m.Update(TickMsg{})
	m = next.(Live)
	assert.Equal(t, 1, m.rrt.Tree().Len(), "paused search must not grow")

	_, cmd := press(m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestLiveGrowsToGoal(t *testing.T) {
	m := newLive(t)
	m.batch = 8
	for i := 0; i < 100 && m.sol == nil; i++ {
		next, _ := m.Update(TickMsg{})
		m = next.(Live)
	}
	require.NotNil(t, m.sol, "straight-line search should reach the goal")
	assert.True(t, m.sol.Success)
	assert.NotEmpty(t, m.sizes)
	assert.Contains(t, m.View(), "GOAL REACHED")

	m, _ = press(m, runes("r"))
	assert.Nil(t, m.sol)
	assert.Equal(t, 1, m.rrt.Tree().Len())
	assert.Contains(t, m.View(), "SEARCHING")
}
