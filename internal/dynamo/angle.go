package dynamo

import "math"

const twoPi = 2 * math.Pi

// Wrap normalizes an angle into (-π, π].
func Wrap(a float64) float64 {
	// Remainder is exact, so already wrapped values come back unchanged.
	out := math.Remainder(a, twoPi)
	if out <= -math.Pi {
		out += twoPi
	}
	return out
}

// SignedAngleDiff returns the smaller of wrap(desired-actual) and
// wrap(desired-actual+π). A unicycle may treat a heading and its reverse as
// equivalent, so the magnitude never exceeds π/2.
func SignedAngleDiff(actual, desired float64) float64 {
	forward := Wrap(desired - actual)
	reverse := Wrap(desired - actual + math.Pi)
	if math.Abs(forward) < math.Abs(reverse) {
		return forward
	}
	return reverse
}

// Euclidean returns the two-norm of (dx, dy).
func Euclidean(dx, dy float64) float64 {
	return math.Hypot(dx, dy)
}

// Angular is the unsigned heading distance used by the distance heuristic.
func Angular(a, b float64) float64 {
	return math.Abs(SignedAngleDiff(a, b))
}
