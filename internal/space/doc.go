// Package space implements bounded state and control spaces.
//
// Both spaces are described by data: an ordered list of named coordinates
// with closed intervals. Sampling is uniform per coordinate, clamping
// saturates per coordinate, and containment is inclusive. StateSpace also
// provides the normalised distance heuristic used for nearest-neighbour
// ranking and the projection to a planar position.
//
//	ss, _ := space.NewStateSpace(space.VelocityStates())
//	d := ss.Distance(dynamo.State{0, 0, 0}, dynamo.State{3, 4, math.Pi / 2})
package space
