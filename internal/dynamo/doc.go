// Package dynamo provides the core primitives of the ODE integration engine.
//
// The package defines the value types shared by every integrator:
//
//   - [State]: vector representing system state
//   - [Field]: vector field dx/dt = f(t, x) with parameters bound at construction
//   - [Config]: typed description of one integration run
//   - [Trajectory]: ordered, queryable record of (time, state) samples
//   - [Observer]: hooks invoked on accepted and rejected steps
//
// # Example
//
//	type decay struct{ Tau float64 }
//	f := dynamo.MakeField(func(t float64, x dynamo.State, p decay) dynamo.State {
//	    return dynamo.State{-x[0] / p.Tau}
//	}, decay{Tau: 2})
//	tr, err := sim.Integrate(f, cfg)
//	states, err := tr.EvaluateAt([]float64{0.5, 1.5})
//
// # Thread Safety
//
// A Trajectory is written only by the run that produces it. Once returned to
// the caller it is never mutated again and may be read from any goroutine.
package dynamo
