package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/kinorrt/internal/planner"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	maxBatch        = 4096
)

type TickMsg time.Time

// Live grows an RRT a batch of extensions per frame and draws it.
type Live struct {
	rrt     *planner.RRT
	title   string
	canvas  *Canvas
	running bool
	batch   int

	elapsed time.Duration
	sizes   []float64
	sol     *planner.Solution
}

func NewLive(p *planner.RRT, title string) Live {
	sc := SceneFromPlanner(title, p, nil)
	return Live{
		rrt:     p,
		title:   title,
		canvas:  NewCanvas(width, height, sc.Bounds()),
		running: true,
		batch:   1,
		sizes:   make([]float64, 0, historyCapacity),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Live) Init() tea.Cmd {
	return tick()
}

func (m Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			if m.batch < maxBatch {
				m.batch *= 2
			}
		case "-", "_":
			if m.batch > 1 {
				m.batch /= 2
			}
		}
	case TickMsg:
		if m.running && !m.rrt.Reached() {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

// step runs one batch of extensions and records the tree size.
func (m *Live) step() {
	start := time.Now()
	for i := 0; i < m.batch; i++ {
		if m.rrt.Extend() {
			break
		}
	}
	m.elapsed += time.Since(start)

	m.sizes = append(m.sizes, float64(m.rrt.Tree().Len()))
	if len(m.sizes) > historyCapacity {
		m.sizes = m.sizes[1:]
	}
	if m.rrt.Reached() {
		m.sol = m.rrt.Solution(m.elapsed)
	}
}

func (m *Live) reset() {
	m.rrt.Reset()
	m.elapsed = 0
	m.sizes = m.sizes[:0]
	m.sol = nil
}

func (m Live) status() string {
	switch {
	case m.sol != nil:
		return StatusDone.Render("GOAL REACHED")
	case !m.running:
		return StatusPaused.Render("PAUSED")
	default:
		return StatusRunning.Render("SEARCHING")
	}
}

func (m Live) View() string {
	SceneFromPlanner(m.title, m.rrt, m.sol).Draw(m.canvas)
	canvasView := canvasStyle.Render(m.canvas.Styled())

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(m.title)) + "\n\n")
	s.WriteString(m.status() + "\n\n")
	s.WriteString(Metric("Nodes", fmt.Sprintf("%d", m.rrt.Tree().Len())))
	s.WriteString(Metric("Iterations", fmt.Sprintf("%d", m.rrt.Iterations())))
	s.WriteString(Metric("Batch", fmt.Sprintf("%d/frame", m.batch)))
	s.WriteString(Metric("Elapsed", m.elapsed.Round(time.Millisecond).String()))
	if m.sol != nil {
		s.WriteString(Metric("Path", fmt.Sprintf("%d nodes, %.2f", len(m.sol.Path), m.sol.PathLength())))
	}
	if len(m.sizes) > 1 {
		chart := asciigraph.Plot(m.sizes, asciigraph.Height(5), asciigraph.Width(28), asciigraph.Caption("Tree size"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString("\n" + Separator(30) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause R:Restart Q:Quit\n+/-:Batch size"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}
