package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/integrators"
)

// LyapunovExponent estimates the largest Lyapunov exponent of f along the
// orbit starting at cfg.X0. A positive value indicates chaos.
//
// Two orbits separated by perturbation are stepped together with s on the
// fixed grid of cfg; after every step the separation is measured and the
// perturbed orbit is pulled back to distance perturbation:
//
//	λ ≈ (1/T) Σ ln(|δx_k| / δ0)
func LyapunovExponent(s integrators.Stepper, f dynamo.Field, cfg dynamo.Config, perturbation float64) (float64, error) {
	if !(perturbation > 0) {
		return 0, fmt.Errorf("%w: perturbation must be positive", dynamo.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	x := cfg.X0.Clone()
	xp := cfg.X0.Clone()
	xp[0] += perturbation

	n := integrators.GridSteps(cfg.T0, cfg.TF, cfg.Dt)
	t, sumLog := cfg.T0, 0.0
	for i := 1; i <= n; i++ {
		next := cfg.T0 + float64(i)*cfg.Dt
		if i == n {
			next = cfg.TF
		}
		dt := next - t
		x = s.Step(f, t, x, dt)
		xp = s.Step(f, t, xp, dt)
		t = next

		sep := xp.Sub(x).Norm()
		if !(sep > 0) || math.IsInf(sep, 0) {
			return 0, &dynamo.IntegrationError{Step: i, Time: t, Dt: dt, Wrapped: dynamo.ErrInvalidState}
		}
		sumLog += math.Log(sep / perturbation)
		xp = x.AddScaled(perturbation/sep, xp.Sub(x))
	}

	if n == 0 {
		return 0, nil
	}
	return sumLog / (t - cfg.T0), nil
}
