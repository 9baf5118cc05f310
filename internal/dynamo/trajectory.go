package dynamo

import (
	"fmt"
	"sort"
)

// Sample is one (time, state) point of a trajectory.
type Sample struct {
	T float64
	X State
}

// Trajectory is the ordered record of samples produced by one run.
//
// Sample times are strictly increasing. Producers build it with Append; after
// the run returns, consumers only read it.
//
// Values between samples are obtained by componentwise linear interpolation.
// This is a deliberate simplification: no higher-order dense output is kept,
// so accuracy between samples is O(dt^2) regardless of the integrator order.
type Trajectory struct {
	times  []float64
	states []State
	dim    int
	stats  Stats
}

// NewTrajectory returns an empty trajectory for states of dimension dim,
// with room for capacity samples.
func NewTrajectory(dim, capacity int) *Trajectory {
	if capacity < 0 {
		capacity = 0
	}
	return &Trajectory{
		times:  make([]float64, 0, capacity),
		states: make([]State, 0, capacity),
		dim:    dim,
	}
}

// Append records a sample. It is meant for integrators only. x is copied.
func (tr *Trajectory) Append(t float64, x State) error {
	if len(x) != tr.dim {
		return fmt.Errorf("%w: sample has %d components, trajectory %d", ErrDimensionMismatch, len(x), tr.dim)
	}
	if n := len(tr.times); n > 0 && !(t > tr.times[n-1]) {
		return fmt.Errorf("%w: t=%g after t=%g", ErrNotIncreasing, t, tr.times[n-1])
	}
	tr.times = append(tr.times, t)
	tr.states = append(tr.states, x.Clone())
	return nil
}

// SetStats records run statistics. It is meant for integrators only.
func (tr *Trajectory) SetStats(s Stats) { tr.stats = s }

func (tr *Trajectory) Stats() Stats { return tr.stats }

func (tr *Trajectory) Len() int { return len(tr.times) }

func (tr *Trajectory) Dim() int { return tr.dim }

// Degenerate reports whether the trajectory holds only its initial sample.
func (tr *Trajectory) Degenerate() bool { return len(tr.times) == 1 }

// At returns sample i. The returned state is a copy.
func (tr *Trajectory) At(i int) Sample {
	return Sample{T: tr.times[i], X: tr.states[i].Clone()}
}

func (tr *Trajectory) First() Sample { return tr.At(0) }

func (tr *Trajectory) Last() Sample { return tr.At(len(tr.times) - 1) }

// Times returns a copy of the sample times in order.
func (tr *Trajectory) Times() []float64 {
	out := make([]float64, len(tr.times))
	copy(out, tr.times)
	return out
}

// States returns copies of the sample states in order.
func (tr *Trajectory) States() []State {
	out := make([]State, len(tr.states))
	for i, s := range tr.states {
		out[i] = s.Clone()
	}
	return out
}

// Component returns component k of every sample, in order.
func (tr *Trajectory) Component(k int) []float64 {
	out := make([]float64, len(tr.states))
	for i, s := range tr.states {
		out[i] = s[k]
	}
	return out
}

// EvaluateAt returns the state at each requested time by linear
// interpolation between the bracketing samples. A time equal to a stored
// sample time returns that sample's state exactly. Any time outside
// [First().T, Last().T] fails with ErrOutOfRange; the trajectory itself is
// unaffected.
func (tr *Trajectory) EvaluateAt(times []float64) ([]State, error) {
	out := make([]State, len(times))
	for i, t := range times {
		x, err := tr.evaluate(t)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

func (tr *Trajectory) evaluate(t float64) (State, error) {
	n := len(tr.times)
	if n == 0 || !(t >= tr.times[0]) || !(t <= tr.times[n-1]) {
		return nil, fmt.Errorf("%w: t=%g not in [%g, %g]", ErrOutOfRange, t, tr.firstTime(), tr.lastTime())
	}

	// first index with times[j] >= t
	j := sort.SearchFloat64s(tr.times, t)
	if tr.times[j] == t {
		return tr.states[j].Clone(), nil
	}

	t0, t1 := tr.times[j-1], tr.times[j]
	return Lerp(tr.states[j-1], tr.states[j], (t-t0)/(t1-t0)), nil
}

// Resample returns a new trajectory holding the interpolated states at the
// given strictly increasing times. Stats are carried over.
func (tr *Trajectory) Resample(times []float64) (*Trajectory, error) {
	states, err := tr.EvaluateAt(times)
	if err != nil {
		return nil, err
	}
	out := NewTrajectory(tr.dim, len(times))
	for i, t := range times {
		if err := out.Append(t, states[i]); err != nil {
			return nil, err
		}
	}
	out.stats = tr.stats
	return out, nil
}

func (tr *Trajectory) firstTime() float64 {
	if len(tr.times) == 0 {
		return 0
	}
	return tr.times[0]
}

func (tr *Trajectory) lastTime() float64 {
	if len(tr.times) == 0 {
		return 0
	}
	return tr.times[len(tr.times)-1]
}
