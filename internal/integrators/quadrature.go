package integrators

// Quadrature approximates the definite integral of f over [a, b].
type Quadrature interface {
	Integrate(f func(float64) float64, a, b float64) float64
}

// Trapezoid is the composite trapezoidal rule over N equal subintervals.
type Trapezoid struct {
	N int
}

func NewTrapezoid(n int) *Trapezoid {
	return &Trapezoid{N: n}
}

func (q *Trapezoid) Integrate(f func(float64) float64, a, b float64) float64 {
	return Trapezoidal(f, a, b, q.N)
}

// Trapezoidal sums per-subinterval trapezoid areas using endpoint evaluations.
// n below one is treated as one; an empty interval integrates to zero.
func Trapezoidal(f func(float64) float64, a, b float64, n int) float64 {
	if a == b {
		return 0
	}
	if n < 1 {
		n = 1
	}
	h := (b - a) / float64(n)
	sum := 0.0
	for i := 0; i < n; i++ {
		x0 := a + float64(i)*h
		x1 := a + float64(i+1)*h
		sum += 0.5 * h * (f(x0) + f(x1))
	}
	return sum
}

// Simpson is the composite Simpson rule. N is rounded up to an even count.
type Simpson struct {
	N int
}

func NewSimpson(n int) *Simpson {
	return &Simpson{N: n}
}

func (q *Simpson) Integrate(f func(float64) float64, a, b float64) float64 {
	if a == b {
		return 0
	}
	n := q.N
	if n < 2 {
		n = 2
	}
	if n%2 != 0 {
		n++
	}
	h := (b - a) / float64(n)
	sum := f(a) + f(b)
	for i := 1; i < n; i++ {
		w := 2.0
		if i%2 != 0 {
			w = 4.0
		}
		sum += w * f(a+float64(i)*h)
	}
	return sum * h / 3
}
