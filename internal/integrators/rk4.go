package integrators

import (
	"github.com/san-kum/odekit/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// RK4 is the classic fourth-order Runge-Kutta method.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return dynamo.MethodRK4 }
func (r *RK4) Order() int   { return 4 }

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) Step(f dynamo.Field, t float64, x dynamo.State, dt float64) dynamo.State {
	n := len(x)
	r.ensureScratch(n)
	halfDt := 0.5 * dt

	copy(r.k1, f(t, x))

	floats.AddScaledTo(r.scratch, x, halfDt, r.k1)
	copy(r.k2, f(t+halfDt, r.scratch))

	floats.AddScaledTo(r.scratch, x, halfDt, r.k2)
	copy(r.k3, f(t+halfDt, r.scratch))

	floats.AddScaledTo(r.scratch, x, dt, r.k3)
	copy(r.k4, f(t+dt, r.scratch))

	result := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
	return result
}
