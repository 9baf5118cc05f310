package dynamo

// Field is a vector field: it returns dx/dt at (t, x) with the same
// dimension as x. A Field must not mutate x or any state it closes over.
type Field func(t float64, x State) State

// MakeField binds params to fn. The params value is copied at construction,
// so later changes made by the caller are not seen by running integrations.
func MakeField[P any](fn func(t float64, x State, p P) State, params P) Field {
	return func(t float64, x State) State {
		return fn(t, x, params)
	}
}

// Eval calls the field.
func (f Field) Eval(t float64, x State) State {
	return f(t, x)
}

// Observer receives integration events as they happen. Implementations must
// not retain x; the integrator may reuse it.
type Observer interface {
	OnAccept(step int, t float64, x State, dt float64)
	OnReject(step int, t float64, dt, errNorm float64)
}

// Stats summarises the work done by one run.
type Stats struct {
	Steps       int     `json:"steps"`
	Rejected    int     `json:"rejected"`
	Evaluations int     `json:"evaluations"`
	LastDt      float64 `json:"last_dt"`
}
