package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/odekit/internal/dynamo"
)

// gridEps absorbs rounding in span/dt so that a span that is an exact
// multiple of dt does not grow a spurious extra step.
const gridEps = 1e-9

// GridSteps returns the number of steps on the grid t0, t0+dt, ... that
// reaches tf. The last grid point is clamped to tf. Zero when tf <= t0.
func GridSteps(t0, tf, dt float64) int {
	if !(tf > t0) {
		return 0
	}
	n := int(math.Ceil((tf-t0)/dt - gridEps))
	if n < 1 {
		n = 1
	}
	return n
}

// RunFixed integrates f over [cfg.T0, cfg.TF] with constant step cfg.Dt.
//
// Grid points are computed as T0 + i*Dt rather than accumulated, and the
// final point is exactly TF. The initial condition is the first sample. When
// TF <= T0 the result is the single initial sample.
func RunFixed(s Stepper, f dynamo.Field, cfg dynamo.Config, observers ...dynamo.Observer) (*dynamo.Trajectory, error) {
	if !(cfg.Dt > 0) {
		return nil, fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrInvalidConfig, cfg.Dt)
	}

	x := cfg.X0.Clone()
	n := GridSteps(cfg.T0, cfg.TF, cfg.Dt)
	if cfg.MaxSteps > 0 && n > cfg.MaxSteps {
		return nil, fmt.Errorf("%w: grid needs %d steps, max %d", dynamo.ErrInvalidConfig, n, cfg.MaxSteps)
	}

	tr := dynamo.NewTrajectory(len(x), n+1)
	if err := tr.Append(cfg.T0, x); err != nil {
		return nil, err
	}
	if n == 0 {
		return tr, nil
	}

	c := &counter{f: f}
	if _, err := probe(c.eval, cfg.T0, x, cfg.ValidateState); err != nil {
		return nil, &dynamo.IntegrationError{Time: cfg.T0, Dt: cfg.Dt, Wrapped: err}
	}

	t, lastDt := cfg.T0, 0.0
	for i := 1; i <= n; i++ {
		next := cfg.T0 + float64(i)*cfg.Dt
		if i == n {
			next = cfg.TF
		}
		dt := next - t

		newX := s.Step(c.eval, t, x, dt)
		if len(newX) != len(x) {
			return nil, &dynamo.IntegrationError{Step: i, Time: t, Dt: dt, Partial: tr, Wrapped: dynamo.ErrDimensionMismatch}
		}
		if cfg.ValidateState && !newX.IsValid() {
			return nil, &dynamo.IntegrationError{Step: i, Time: t, Dt: dt, Partial: tr, Wrapped: dynamo.ErrInvalidState}
		}

		x, t, lastDt = newX, next, dt
		if err := tr.Append(t, x); err != nil {
			return nil, &dynamo.IntegrationError{Step: i, Time: t, Dt: dt, Partial: tr, Wrapped: err}
		}
		for _, o := range observers {
			o.OnAccept(i, t, x, dt)
		}
	}

	tr.SetStats(dynamo.Stats{Steps: n, Evaluations: c.n, LastDt: lastDt})
	return tr, nil
}
