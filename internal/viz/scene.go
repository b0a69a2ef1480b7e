package viz

import (
	"github.com/paulmach/orb"

	"github.com/san-kum/kinorrt/internal/env"
	"github.com/san-kum/kinorrt/internal/planner"
	"github.com/san-kum/kinorrt/internal/storage"
)

// Scene is the planar picture of a run: the workspace, its obstacles, the
// tree and the path if one was found. It is shared by the terminal views and
// the file exporters.
type Scene struct {
	Title      string
	Workspace  orb.Bound
	Obstacles  []env.Obstacle
	Start      orb.Point
	Goal       orb.Point
	GoalRadius float64
	Nodes      []orb.Point
	Edges      orb.MultiLineString
	Path       orb.LineString
}

// SceneFromPlanner captures the current tree of p. sol may be nil.
func SceneFromPlanner(title string, p *planner.RRT, sol *planner.Solution) Scene {
	e := p.Environment()
	sc := Scene{
		Title:      title,
		Workspace:  e.States().Workspace(),
		Obstacles:  e.Obstacles(),
		Start:      e.States().Position(e.InitialState()),
		Goal:       e.GoalPosition(),
		GoalRadius: e.GoalRadius(),
		Nodes:      p.Tree().Positions(),
		Edges:      p.Tree().Edges(),
	}
	if sol != nil && sol.Success {
		sc.Path = sol.Path
	}
	return sc
}

// SceneFromRun rebuilds a scene from a saved run.
func SceneFromRun(meta *storage.RunMetadata, nodes []storage.TreeRecord, path orb.LineString) Scene {
	sc := Scene{
		Title:      meta.ID,
		Workspace:  meta.Workspace,
		GoalRadius: meta.GoalRadius,
		Path:       path,
	}
	if len(meta.Start) >= 2 {
		sc.Start = orb.Point{meta.Start[0], meta.Start[1]}
	}
	if len(meta.Goal) >= 2 {
		sc.Goal = orb.Point{meta.Goal[0], meta.Goal[1]}
	}
	for _, o := range meta.Obstacles {
		sc.Obstacles = append(sc.Obstacles, env.Obstacle{Center: orb.Point{o.X, o.Y}, Radius: o.Radius})
	}

	sc.Nodes = make([]orb.Point, len(nodes))
	for i, n := range nodes {
		sc.Nodes[i] = orb.Point{n.X, n.Y}
	}
	for i, n := range nodes {
		if n.Parent < 0 || n.Parent >= len(nodes) {
			continue
		}
		sc.Edges = append(sc.Edges, orb.LineString{sc.Nodes[n.Parent], sc.Nodes[i]})
	}
	return sc
}

// Bounds is the workspace, grown to cover every node and obstacle when the
// workspace is unset.
func (s Scene) Bounds() orb.Bound {
	if s.Workspace.Max.X() > s.Workspace.Min.X() && s.Workspace.Max.Y() > s.Workspace.Min.Y() {
		return s.Workspace
	}
	b := orb.Bound{Min: s.Start, Max: s.Start}.Extend(s.Goal)
	for _, p := range s.Nodes {
		b = b.Extend(p)
	}
	for _, o := range s.Obstacles {
		b = b.Union(o.Center.Bound().Pad(o.Radius))
	}
	if b.Max.X() == b.Min.X() || b.Max.Y() == b.Min.Y() {
		b = b.Pad(1)
	}
	return b
}

// Draw paints the scene onto c, back to front.
func (s Scene) Draw(c *Canvas) {
	c.Clear()
	for _, e := range s.Edges {
		c.Segment(e[0], e[len(e)-1], InkTree)
	}
	for _, o := range s.Obstacles {
		c.Circle(o.Center, o.Radius, InkObstacle)
	}
	if s.GoalRadius > 0 {
		c.Circle(s.Goal, s.GoalRadius, InkGoal)
	}
	c.Dot(s.Goal, InkGoal)
	for i := 1; i < len(s.Path); i++ {
		c.Segment(s.Path[i-1], s.Path[i], InkPath)
	}
	c.Dot(s.Start, InkStart)
}

// Render draws the scene onto a fresh w x h cell canvas.
func Render(s Scene, w, h int) *Canvas {
	c := NewCanvas(w, h, s.Bounds())
	s.Draw(c)
	return c
}
