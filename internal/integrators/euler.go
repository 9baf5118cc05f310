package integrators

import (
	"github.com/san-kum/odekit/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// Euler is the forward Euler method: x' = x + dt*f(t, x).
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return dynamo.MethodEuler }
func (e *Euler) Order() int   { return 1 }

func (e *Euler) Step(f dynamo.Field, t float64, x dynamo.State, dt float64) dynamo.State {
	dx := f(t, x)
	result := make(dynamo.State, len(x))
	floats.AddScaledTo(result, x, dt, dx)
	return result
}

// Heun is the modified Euler method. Both slopes are taken before any
// component is corrected: the predictor state is a full Euler step, and the
// update uses the mean of the slopes at the start and at the predictor.
type Heun struct {
	pred dynamo.State
}

func NewHeun() *Heun {
	return &Heun{}
}

func (h *Heun) Name() string { return dynamo.MethodHeun }
func (h *Heun) Order() int   { return 2 }

func (h *Heun) Step(f dynamo.Field, t float64, x dynamo.State, dt float64) dynamo.State {
	n := len(x)
	if len(h.pred) != n {
		h.pred = make(dynamo.State, n)
	}

	k1 := f(t, x)
	floats.AddScaledTo(h.pred, x, dt, k1)
	k2 := f(t+dt, h.pred)

	result := make(dynamo.State, n)
	halfDt := 0.5 * dt
	for i := 0; i < n; i++ {
		result[i] = x[i] + halfDt*(k1[i]+k2[i])
	}
	return result
}
