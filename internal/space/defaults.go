package space

import "math"

var (
	workspace = Interval{Min: 0, Max: 10}
	heading   = Interval{Min: -math.Pi, Max: math.Pi}
)

func GeometricStates() []Coordinate {
	return []Coordinate{
		{Name: "x", Bounds: workspace},
		{Name: "y", Bounds: workspace},
	}
}

func VelocityStates() []Coordinate {
	return []Coordinate{
		{Name: "x", Bounds: workspace},
		{Name: "y", Bounds: workspace},
		{Name: "theta", Bounds: heading, Angular: true},
	}
}

func AccelerationStates() []Coordinate {
	return []Coordinate{
		{Name: "x", Bounds: workspace},
		{Name: "y", Bounds: workspace},
		{Name: "v", Bounds: Interval{Min: 0, Max: 2}},
		{Name: "theta", Bounds: heading, Angular: true},
	}
}

func GeometricControls() []Coordinate {
	return []Coordinate{
		{Name: "theta", Bounds: heading, Angular: true},
	}
}

func VelocityControls() []Coordinate {
	return []Coordinate{
		{Name: "omega", Bounds: Interval{Min: -1, Max: 1}},
		{Name: "v", Bounds: Interval{Min: 0, Max: 1}},
	}
}

func AccelerationControls() []Coordinate {
	return []Coordinate{
		{Name: "omega", Bounds: Interval{Min: -1, Max: 1}},
		{Name: "a", Bounds: Interval{Min: -0.5, Max: 0.5}},
	}
}
