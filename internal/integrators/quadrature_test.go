package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/kinorrt/internal/dynamo"
)

func TestTrapezoidalExactForLinear(t *testing.T) {
	f := func(x float64) float64 { return 3*x + 1 }
	got := Trapezoidal(f, 0, 2, 10)
	if math.Abs(got-8) > 1e-12 {
		t.Errorf("expected 8, got %.12f", got)
	}
}

func TestTrapezoidalConstant(t *testing.T) {
	got := Trapezoidal(func(float64) float64 { return 0.5 }, 0, 0.15, 10)
	if math.Abs(got-0.075) > 1e-15 {
		t.Errorf("expected 0.075, got %.15f", got)
	}
}

func TestTrapezoidalEmptyInterval(t *testing.T) {
	calls := 0
	got := Trapezoidal(func(float64) float64 { calls++; return 1 }, 1.5, 1.5, 10)
	if got != 0 {
		t.Errorf("expected 0 for empty interval, got %v", got)
	}
	if calls != 0 {
		t.Errorf("expected no evaluations, got %d", calls)
	}
}

func TestTrapezoidalNonPositiveN(t *testing.T) {
	f := func(x float64) float64 { return x }
	if got := Trapezoidal(f, 0, 1, 0); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("n=0 should behave as n=1, got %v", got)
	}
}

func TestQuadratureConvergence(t *testing.T) {
	exact := 1 - math.Cos(1.0)

	tests := []struct {
		name string
		q    Quadrature
		tol  float64
	}{
		{"trapezoid n=10", NewTrapezoid(10), 1e-3},
		{"trapezoid n=100", NewTrapezoid(100), 1e-5},
		{"simpson n=10", NewSimpson(10), 1e-6},
		{"simpson odd n", NewSimpson(9), 1e-6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.q.Integrate(math.Sin, 0, 1)
			if math.Abs(got-exact) > tt.tol {
				t.Errorf("got %.9f, expected %.9f", got, exact)
			}
		})
	}
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("")
	if err != nil || m != MethodTrapezoid {
		t.Fatalf("empty method should default to trapezoid, got %q (%v)", m, err)
	}

	for _, name := range Methods() {
		m, err := ParseMethod(name)
		if err != nil {
			t.Errorf("ParseMethod(%q) failed: %v", name, err)
			continue
		}
		hasQuad := m.Quadrature(DefaultSubintervals) != nil
		hasStep := m.Stepper() != nil
		if hasQuad == hasStep {
			t.Errorf("method %q must be exactly one of quadrature or stepper", name)
		}
	}

	if _, err := ParseMethod("leapfrog"); !errors.Is(err, dynamo.ErrUnknownMethod) {
		t.Errorf("expected ErrUnknownMethod, got %v", err)
	}
}
