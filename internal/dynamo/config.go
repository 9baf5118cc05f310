package dynamo

import (
	"fmt"
	"math"
)

// Method names understood by the integrators.
const (
	MethodEuler = "euler"
	MethodHeun  = "heun"
	MethodRK4   = "rk4"
	MethodRK45  = "rk45"
)

// Config describes one integration run.
//
// Fixed-step mode uses Dt as the step size h. Adaptive mode uses Dt as the
// initial step guess (0 selects one automatically) together with the
// tolerances and the [MinDt, MaxDt] step bounds.
type Config struct {
	T0 float64
	TF float64
	X0 State

	// Method selects the stepping scheme in fixed-step mode.
	Method string

	Dt       float64
	Adaptive bool

	AbsTol float64
	RelTol float64
	MinDt  float64
	MaxDt  float64

	// MaxSteps caps accepted plus rejected attempts. Zero means no cap.
	MaxSteps int

	// EvalTimes, when set, resamples the result onto these times.
	EvalTimes []float64

	// ValidateState aborts the run when a derivative or state turns NaN/Inf.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		T0:            0,
		TF:            10.0,
		Method:        MethodEuler,
		Dt:            0.01,
		AbsTol:        1e-6,
		RelTol:        1e-6,
		MinDt:         1e-10,
		MaxDt:         math.Inf(1),
		ValidateState: true,
	}
}

// Span returns TF - T0.
func (c Config) Span() float64 { return c.TF - c.T0 }

// Validate reports the first problem with c, wrapped in ErrInvalidConfig.
// TF == T0 is valid and yields a single-sample trajectory.
func (c Config) Validate() error {
	if math.IsNaN(c.T0) || math.IsNaN(c.TF) || math.IsInf(c.T0, 0) || math.IsInf(c.TF, 0) {
		return fmt.Errorf("%w: time span must be finite, got [%g, %g]", ErrInvalidConfig, c.T0, c.TF)
	}
	if c.TF < c.T0 {
		return fmt.Errorf("%w: end time %g before start time %g", ErrInvalidConfig, c.TF, c.T0)
	}
	if len(c.X0) == 0 {
		return fmt.Errorf("%w: initial state is empty", ErrInvalidConfig)
	}
	if !c.X0.IsValid() {
		return fmt.Errorf("%w: initial state %v", ErrInvalidConfig, ErrInvalidState)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("%w: max steps must not be negative, got %d", ErrInvalidConfig, c.MaxSteps)
	}

	if c.Adaptive {
		if err := c.validateAdaptive(); err != nil {
			return err
		}
	} else {
		if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
			return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
		}
		switch c.Method {
		case "", MethodEuler, MethodHeun, MethodRK4, MethodRK45:
		default:
			return fmt.Errorf("%w: unknown method %q", ErrInvalidConfig, c.Method)
		}
	}

	return c.validateEvalTimes()
}

func (c Config) validateAdaptive() error {
	if !(c.AbsTol > 0) {
		return fmt.Errorf("%w: absolute tolerance must be positive, got %g", ErrInvalidConfig, c.AbsTol)
	}
	if !(c.RelTol > 0) {
		return fmt.Errorf("%w: relative tolerance must be positive, got %g", ErrInvalidConfig, c.RelTol)
	}
	if !(c.MinDt > 0) {
		return fmt.Errorf("%w: min dt must be positive, got %g", ErrInvalidConfig, c.MinDt)
	}
	if !(c.MaxDt >= c.MinDt) {
		return fmt.Errorf("%w: max dt %g below min dt %g", ErrInvalidConfig, c.MaxDt, c.MinDt)
	}
	if c.Dt < 0 || math.IsNaN(c.Dt) {
		return fmt.Errorf("%w: initial dt must not be negative, got %g", ErrInvalidConfig, c.Dt)
	}
	return nil
}

func (c Config) validateEvalTimes() error {
	if len(c.EvalTimes) == 0 {
		return nil
	}
	for i := 1; i < len(c.EvalTimes); i++ {
		if !(c.EvalTimes[i] > c.EvalTimes[i-1]) {
			return fmt.Errorf("%w: evaluation times must be strictly increasing", ErrInvalidConfig)
		}
	}
	first, last := c.EvalTimes[0], c.EvalTimes[len(c.EvalTimes)-1]
	if !(first >= c.T0) || !(last <= c.TF) {
		return fmt.Errorf("%w: evaluation times [%g, %g] outside span [%g, %g]",
			ErrInvalidConfig, first, last, c.T0, c.TF)
	}
	return nil
}

// Linspace returns n evenly spaced times from t0 to tf inclusive. The end
// points are exact.
func Linspace(t0, tf float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{t0}
	}
	out := make([]float64, n)
	step := (tf - t0) / float64(n-1)
	for i := range out {
		out[i] = t0 + float64(i)*step
	}
	out[n-1] = tf
	return out
}
