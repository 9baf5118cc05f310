package dynamo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// State is an ordered, fixed-length vector of reals.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// Dim returns the number of components.
func (s State) Dim() int { return len(s) }

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	if len(s) == 0 {
		return 0
	}
	return floats.Norm(s, 2)
}

// Add returns s + other. Both must have the same dimension.
func (s State) Add(other State) State {
	result := make(State, len(s))
	floats.AddTo(result, s, other)
	return result
}

// Sub returns s - other. Both must have the same dimension.
func (s State) Sub(other State) State {
	result := make(State, len(s))
	floats.SubTo(result, s, other)
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	floats.ScaleTo(result, factor, s)
	return result
}

// AddScaled returns s + alpha*dir.
func (s State) AddScaled(alpha float64, dir State) State {
	result := make(State, len(s))
	floats.AddScaledTo(result, s, alpha, dir)
	return result
}

// Lerp interpolates componentwise between a and b with weight w in [0, 1].
// w == 0 returns an exact copy of a and w == 1 an exact copy of b.
func Lerp(a, b State, w float64) State {
	switch w {
	case 0:
		return a.Clone()
	case 1:
		return b.Clone()
	}
	result := make(State, len(a))
	for i := range a {
		result[i] = a[i] + w*(b[i]-a[i])
	}
	return result
}
