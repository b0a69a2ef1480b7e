package planner

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/san-kum/kinorrt/internal/dynamo"
)

// Node is a tree vertex. Parent is -1 for the root.
type Node struct {
	State  dynamo.State
	Parent int
}

// Tree is an append-only parent-pointer tree. Index 0 is the root and every
// parent index is smaller than its child's index.
type Tree struct {
	nodes []Node
}

func NewTree(root dynamo.State) *Tree {
	return &Tree{nodes: []Node{{State: root.Clone(), Parent: -1}}}
}

func (t *Tree) Len() int {
	return len(t.nodes)
}

// Add appends a copy of s as a child of parent and returns its index.
// It panics if parent is not already in the tree.
func (t *Tree) Add(s dynamo.State, parent int) int {
	if parent < 0 || parent >= len(t.nodes) {
		panic(fmt.Sprintf("planner: parent %d out of range [0, %d)", parent, len(t.nodes)))
	}
	t.nodes = append(t.nodes, Node{State: s.Clone(), Parent: parent})
	return len(t.nodes) - 1
}

// Node returns node i with a copy of its state.
func (t *Tree) Node(i int) Node {
	n := t.nodes[i]
	return Node{State: n.State.Clone(), Parent: n.Parent}
}

func (t *Tree) state(i int) dynamo.State {
	return t.nodes[i].State
}

// Nearest is a linear scan under dist. The lowest index wins ties.
func (t *Tree) Nearest(target dynamo.State, dist func(a, b dynamo.State) float64) int {
	best, bestDist := 0, dist(t.nodes[0].State, target)
	for i := 1; i < len(t.nodes); i++ {
		if d := dist(t.nodes[i].State, target); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// PathTo walks parent pointers from i and returns the indices root first.
func (t *Tree) PathTo(i int) []int {
	var rev []int
	for ; i >= 0; i = t.nodes[i].Parent {
		rev = append(rev, i)
	}
	out := make([]int, len(rev))
	for k, idx := range rev {
		out[len(rev)-1-k] = idx
	}
	return out
}

// Depth is the number of edges between node i and the root.
func (t *Tree) Depth(i int) int {
	d := 0
	for ; t.nodes[i].Parent >= 0; i = t.nodes[i].Parent {
		d++
	}
	return d
}

// Positions projects every node to the plane, in insertion order.
func (t *Tree) Positions() []orb.Point {
	out := make([]orb.Point, len(t.nodes))
	for i, n := range t.nodes {
		out[i] = orb.Point{n.State[0], n.State[1]}
	}
	return out
}

// Edges returns one segment per non-root node, parent to child.
func (t *Tree) Edges() orb.MultiLineString {
	out := make(orb.MultiLineString, 0, len(t.nodes)-1)
	for _, n := range t.nodes[1:] {
		p := t.nodes[n.Parent].State
		out = append(out, orb.LineString{{p[0], p[1]}, {n.State[0], n.State[1]}})
	}
	return out
}

// Parents lists the parent index of every node.
func (t *Tree) Parents() []int {
	out := make([]int, len(t.nodes))
	for i, n := range t.nodes {
		out[i] = n.Parent
	}
	return out
}
