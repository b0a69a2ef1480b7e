package metrics

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/kinorrt/internal/planner"
)

// Metric reduces a sequence of planning outcomes to one number.
type Metric interface {
	Name() string
	Observe(sol *planner.Solution)
	Value() float64
	Reset()
}

// sampler keeps raw observations so means come from gonum/stat.
type sampler struct {
	name    string
	samples []float64
}

func (s *sampler) Name() string { return s.name }

func (s *sampler) Reset() {
	s.samples = s.samples[:0]
}

// Value is NaN when nothing has been observed.
func (s *sampler) Value() float64 {
	if len(s.samples) == 0 {
		return math.NaN()
	}
	return stat.Mean(s.samples, nil)
}

type SuccessRate struct{ sampler }

func NewSuccessRate() *SuccessRate {
	return &SuccessRate{sampler{name: "success_rate"}}
}

func (m *SuccessRate) Observe(sol *planner.Solution) {
	v := 0.0
	if sol.Success {
		v = 1
	}
	m.samples = append(m.samples, v)
}

// MeanDuration averages elapsed seconds over every trial.
type MeanDuration struct{ sampler }

func NewMeanDuration() *MeanDuration {
	return &MeanDuration{sampler{name: "mean_duration_s"}}
}

func (m *MeanDuration) Observe(sol *planner.Solution) {
	m.samples = append(m.samples, sol.Elapsed.Seconds())
}

// MeanPathLength averages over successful trials only.
type MeanPathLength struct{ sampler }

func NewMeanPathLength() *MeanPathLength {
	return &MeanPathLength{sampler{name: "mean_path_length"}}
}

func (m *MeanPathLength) Observe(sol *planner.Solution) {
	if sol.Success {
		m.samples = append(m.samples, sol.PathLength())
	}
}

type MeanTreeSize struct{ sampler }

func NewMeanTreeSize() *MeanTreeSize {
	return &MeanTreeSize{sampler{name: "mean_tree_size"}}
}

func (m *MeanTreeSize) Observe(sol *planner.Solution) {
	m.samples = append(m.samples, float64(sol.TreeSize))
}

// Standard returns the benchmark metrics in report order.
func Standard() []Metric {
	return []Metric{NewSuccessRate(), NewMeanDuration(), NewMeanPathLength(), NewMeanTreeSize()}
}

type Summary struct {
	Trials         int
	Successes      int
	SuccessRate    float64
	MeanDuration   time.Duration
	MeanPathLength float64
	MeanTreeSize   float64
	StdTreeSize    float64
}

// Summarize reduces a batch of trials. MeanPathLength is NaN when no trial
// succeeded.
func Summarize(results []*planner.Solution) Summary {
	rate, dur, length, size := NewSuccessRate(), NewMeanDuration(), NewMeanPathLength(), NewMeanTreeSize()
	for _, sol := range results {
		for _, m := range []Metric{rate, dur, length, size} {
			m.Observe(sol)
		}
	}

	s := Summary{
		Trials:         len(results),
		Successes:      len(length.samples),
		SuccessRate:    rate.Value(),
		MeanPathLength: length.Value(),
		MeanTreeSize:   size.Value(),
	}
	if len(results) == 0 {
		s.SuccessRate, s.MeanTreeSize = 0, 0
		return s
	}
	s.MeanDuration = time.Duration(math.Round(dur.Value() * float64(time.Second)))
	if len(size.samples) > 1 {
		s.StdTreeSize = stat.StdDev(size.samples, nil)
	}
	return s
}

// TreeSizes lists the final tree size of every trial, in trial order.
func TreeSizes(results []*planner.Solution) []float64 {
	out := make([]float64, len(results))
	for i, sol := range results {
		out[i] = float64(sol.TreeSize)
	}
	return out
}
