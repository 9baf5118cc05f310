package analysis

import (
	"math"

	"github.com/san-kum/odekit/internal/dynamo"
)

// EnergyFunc evaluates an energy on a state.
type EnergyFunc func(x dynamo.State) float64

// Drift describes how an energy moves along a trajectory.
type Drift struct {
	Initial float64
	Final   float64
	// Series[i] is the drift at sample i, relative to Initial when that is
	// non-zero and absolute otherwise.
	Series []float64
	Max    float64
}

func EnergyDrift(tr *dynamo.Trajectory, energy EnergyFunc) Drift {
	d := Drift{Series: make([]float64, tr.Len())}
	if tr.Len() == 0 {
		return d
	}

	d.Initial = energy(tr.First().X)
	for i := range d.Series {
		e := energy(tr.At(i).X)
		drift := math.Abs(e - d.Initial)
		if d.Initial != 0 {
			drift /= math.Abs(d.Initial)
		}
		d.Series[i] = drift
		d.Max = math.Max(d.Max, drift)
		d.Final = e
	}
	return d
}
