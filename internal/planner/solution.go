package planner

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/san-kum/kinorrt/internal/dynamo"
)

// Solution is the outcome of one planning run. Path and States are empty
// unless Success is set.
type Solution struct {
	Success    bool
	Elapsed    time.Duration
	TreeSize   int
	Iterations int
	Path       orb.LineString
	States     []dynamo.State
}

// PathLength sums the Euclidean lengths of consecutive path segments.
func (s *Solution) PathLength() float64 {
	if len(s.Path) < 2 {
		return 0
	}
	return planar.Length(s.Path)
}
