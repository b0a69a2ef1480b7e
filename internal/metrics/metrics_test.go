package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"github.com/san-kum/kinorrt/internal/planner"
)

func trials() []*planner.Solution {
	return []*planner.Solution{
		{Success: true, Elapsed: 100 * time.Millisecond, TreeSize: 100, Path: orb.LineString{{0, 0}, {3, 4}}},
		{Success: false, Elapsed: time.Second, TreeSize: 900},
		{Success: true, Elapsed: 200 * time.Millisecond, TreeSize: 200, Path: orb.LineString{{0, 0}, {6, 8}, {6, 9}}},
		{Success: false, Elapsed: time.Second, TreeSize: 800},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(trials())

	if s.Trials != 4 || s.Successes != 2 {
		t.Errorf("expected 4 trials and 2 successes, got %d and %d", s.Trials, s.Successes)
	}
	if math.Abs(s.SuccessRate-0.5) > 1e-12 {
		t.Errorf("expected success rate 0.5, got %f", s.SuccessRate)
	}
	if s.MeanDuration != 575*time.Millisecond {
		t.Errorf("expected mean duration 575ms, got %v", s.MeanDuration)
	}
	// Failed trials do not contribute to the path length.
	if math.Abs(s.MeanPathLength-8) > 1e-12 {
		t.Errorf("expected mean path length 8, got %f", s.MeanPathLength)
	}
	if math.Abs(s.MeanTreeSize-500) > 1e-12 {
		t.Errorf("expected mean tree size 500, got %f", s.MeanTreeSize)
	}
	if s.StdTreeSize <= 0 {
		t.Errorf("expected positive tree size spread, got %f", s.StdTreeSize)
	}
}

func TestSummarizeNoSuccess(t *testing.T) {
	s := Summarize([]*planner.Solution{{TreeSize: 10, Elapsed: time.Second}})
	if s.SuccessRate != 0 {
		t.Errorf("expected zero success rate, got %f", s.SuccessRate)
	}
	if !math.IsNaN(s.MeanPathLength) {
		t.Errorf("expected NaN path length, got %f", s.MeanPathLength)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Trials != 0 || s.SuccessRate != 0 || s.MeanTreeSize != 0 {
		t.Errorf("unexpected summary for no trials: %+v", s)
	}
}

func TestMetricReset(t *testing.T) {
	for _, m := range Standard() {
		for _, sol := range trials() {
			m.Observe(sol)
		}
		if math.IsNaN(m.Value()) {
			t.Errorf("%s: expected a value after observing trials", m.Name())
		}
		m.Reset()
		if !math.IsNaN(m.Value()) {
			t.Errorf("%s: expected NaN after reset, got %f", m.Name(), m.Value())
		}
	}
}

func TestTreeSizes(t *testing.T) {
	got := TreeSizes(trials())
	want := []float64{100, 900, 200, 800}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, expected %v", got, want)
		}
	}
}
