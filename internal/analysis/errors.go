package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/odekit/internal/dynamo"
)

// ExactFunc returns the true state at time t.
type ExactFunc func(t float64) dynamo.State

// ErrorSeries returns, for every sample, the largest absolute component
// error against exact.
func ErrorSeries(tr *dynamo.Trajectory, exact ExactFunc) ([]float64, error) {
	out := make([]float64, tr.Len())
	for i := range out {
		s := tr.At(i)
		e, err := stateError(s.X, exact(s.T))
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		out[i] = e
	}
	return out, nil
}

// MaxError is the largest entry of ErrorSeries.
func MaxError(tr *dynamo.Trajectory, exact ExactFunc) (float64, error) {
	series, err := ErrorSeries(tr, exact)
	if err != nil {
		return 0, err
	}
	m := 0.0
	for _, e := range series {
		m = math.Max(m, e)
	}
	return m, nil
}

func stateError(got, want dynamo.State) (float64, error) {
	if len(got) != len(want) {
		return 0, fmt.Errorf("%w: %d vs %d", dynamo.ErrDimensionMismatch, len(got), len(want))
	}
	m := 0.0
	for i := range got {
		m = math.Max(m, math.Abs(got[i]-want[i]))
	}
	return m, nil
}
