// Package dynamo provides the core primitives shared by every planning model.
//
// The package defines the vector types and helpers the rest of the module is
// built on:
//
//   - [State]: point in a bounded state manifold (x, y, ...)
//   - [Control]: point in a bounded control manifold
//   - [Kind]: the closed set of dynamical models (geometric, velocity, acceleration)
//   - [System]: ODE right-hand side dX/dt = f(X, u, t), used by stepping integrators
//   - [Wrap], [SignedAngleDiff]: heading arithmetic
//
// # Example
//
//	bearing := math.Atan2(to[1]-from[1], to[0]-from[0])
//	omega := dynamo.SignedAngleDiff(from[2], bearing)
//
// # Thread Safety
//
// All functions are pure. States and controls are plain slices; callers that
// store them must [State.Clone] first.
package dynamo
