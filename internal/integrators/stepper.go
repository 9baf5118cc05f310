package integrators

import (
	"fmt"
	"maps"
	"slices"

	"github.com/san-kum/odekit/internal/dynamo"
)

// Stepper advances a state by one explicit step of size dt.
type Stepper interface {
	Name() string
	Order() int
	Step(f dynamo.Field, t float64, x dynamo.State, dt float64) dynamo.State
}

var steppers = map[string]func() Stepper{
	dynamo.MethodEuler: func() Stepper { return NewEuler() },
	dynamo.MethodHeun:  func() Stepper { return NewHeun() },
	dynamo.MethodRK4:   func() Stepper { return NewRK4() },
	dynamo.MethodRK45:  func() Stepper { return NewRK45() },
}

// New returns the stepper registered under method. An empty method selects
// forward Euler.
func New(method string) (Stepper, error) {
	if method == "" {
		method = dynamo.MethodEuler
	}
	fn, ok := steppers[method]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", method)
	}
	return fn(), nil
}

// Methods lists the names New accepts, sorted.
func Methods() []string {
	return slices.Sorted(maps.Keys(steppers))
}

type counter struct {
	f dynamo.Field
	n int
}

func (c *counter) eval(t float64, x dynamo.State) dynamo.State {
	c.n++
	return c.f(t, x)
}

// probe evaluates the field once at the initial point and checks its shape.
func probe(f dynamo.Field, t float64, x dynamo.State, validate bool) (dynamo.State, error) {
	dx := f(t, x)
	if len(dx) != len(x) {
		return nil, fmt.Errorf("%w: field returned %d components for a %d-dimensional state",
			dynamo.ErrDimensionMismatch, len(dx), len(x))
	}
	if validate && !dx.IsValid() {
		return nil, fmt.Errorf("derivative at t=%g: %w", t, dynamo.ErrInvalidState)
	}
	return dx, nil
}
