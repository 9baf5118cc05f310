package integrators

import (
	"math"

	"github.com/san-kum/odekit/internal/dynamo"
)

func constantField(c float64) dynamo.Field {
	return func(t float64, x dynamo.State) dynamo.State {
		return dynamo.State{c}
	}
}

func decayField(tau float64) dynamo.Field {
	return dynamo.MakeField(func(t float64, x dynamo.State, tau float64) dynamo.State {
		return dynamo.State{-x[0] / tau}
	}, tau)
}

// x' = v, v' = -x
func oscillatorField(t float64, x dynamo.State) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func fixedConfig(t0, tf, dt float64, x0 ...float64) dynamo.Config {
	cfg := dynamo.DefaultConfig()
	cfg.T0, cfg.TF, cfg.Dt = t0, tf, dt
	cfg.X0 = dynamo.State(x0)
	return cfg
}

func adaptiveConfig(t0, tf, tol float64, x0 ...float64) dynamo.Config {
	cfg := dynamo.DefaultConfig()
	cfg.T0, cfg.TF = t0, tf
	cfg.X0 = dynamo.State(x0)
	cfg.Adaptive = true
	cfg.Dt = 0
	cfg.AbsTol, cfg.RelTol = tol, tol
	cfg.MinDt = 1e-12
	cfg.MaxDt = math.Inf(1)
	return cfg
}

type recordingObserver struct {
	accepted []float64
	rejected int
}

func (r *recordingObserver) OnAccept(step int, t float64, x dynamo.State, dt float64) {
	r.accepted = append(r.accepted, t)
}

func (r *recordingObserver) OnReject(step int, t float64, dt, errNorm float64) {
	r.rejected++
}
