// Package models provides the physical systems used by the odekit runs. Each
// model owns typed parameters and binds them into a dynamo.Field on demand,
// so later parameter changes never affect a field that is already in use.
package models

import (
	"fmt"
	"sort"

	"github.com/san-kum/odekit/internal/dynamo"
)

// Model is a parameterised first-order system.
type Model interface {
	Name() string
	Dim() int
	Field() dynamo.Field
	DefaultState() dynamo.State
	// DefaultSpan is the time interval the model is usually run over.
	DefaultSpan() (t0, tf float64)
	Params() map[string]float64
	SetParam(name string, value float64) error
}

// Exact is implemented by models with a closed-form solution.
type Exact interface {
	// Exact returns the state at time t of the solution that passes
	// through x0 at time t0.
	Exact(t0 float64, x0 dynamo.State, t float64) dynamo.State
}

// Energy is implemented by oscillators with a natural energy function.
type Energy interface {
	Energy(x dynamo.State) float64
}

// ApplyParams sets every entry of params on m, stopping at the first
// unknown name.
func ApplyParams(m Model, params map[string]float64) error {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := m.SetParam(k, params[k]); err != nil {
			return err
		}
	}
	return nil
}

func unknownParam(model, name string) error {
	return fmt.Errorf("%w: %s has no parameter %q", dynamo.ErrUnknownParam, model, name)
}
