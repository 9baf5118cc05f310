package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/odekit/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	// fifth-order minus embedded fourth-order weights
	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// errExponent is -1/(q+1) for the embedded order q = 4.
const errExponent = -1.0 / 5.0

// StepResult is one trial step of the embedded pair.
type StepResult struct {
	X     dynamo.State // fifth-order solution
	Low   dynamo.State // embedded fourth-order solution
	Err   dynamo.State // X - Low
	Deriv dynamo.State // f(t+dt, X), reused as the first stage of the next step
}

// RK45 is the Dormand-Prince 5(4) embedded Runge-Kutta pair with step size
// control.
type RK45 struct {
	safety    float64
	minShrink float64
	maxGrowth float64
}

func NewRK45() *RK45 {
	return &RK45{
		safety:    0.9,
		minShrink: 0.2,
		maxGrowth: 10.0,
	}
}

func (r *RK45) Name() string { return dynamo.MethodRK45 }
func (r *RK45) Order() int   { return 5 }

// Step takes one unchecked step and returns the fifth-order solution, so
// RK45 can also serve as a fixed-step method.
func (r *RK45) Step(f dynamo.Field, t float64, x dynamo.State, dt float64) dynamo.State {
	return r.Attempt(f, t, x, dt).X
}

// Attempt computes both estimates of x(t+dt) without accepting or rejecting.
func (r *RK45) Attempt(f dynamo.Field, t float64, x dynamo.State, dt float64) StepResult {
	return r.attempt(f, t, x, f(t, x), dt)
}

func (r *RK45) attempt(f dynamo.Field, t float64, x, k1 dynamo.State, dt float64) StepResult {
	n := len(x)
	stage := make(dynamo.State, n)

	for i := 0; i < n; i++ {
		stage[i] = x[i] + dt*b21*k1[i]
	}
	k2 := f(t+a2*dt, stage)

	for i := 0; i < n; i++ {
		stage[i] = x[i] + dt*(b31*k1[i]+b32*k2[i])
	}
	k3 := f(t+a3*dt, stage)

	for i := 0; i < n; i++ {
		stage[i] = x[i] + dt*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4 := f(t+a4*dt, stage)

	for i := 0; i < n; i++ {
		stage[i] = x[i] + dt*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5 := f(t+a5*dt, stage)

	for i := 0; i < n; i++ {
		stage[i] = x[i] + dt*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6 := f(t+dt, stage)

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}

	k7 := f(t+dt, xNew)

	errEst := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		errEst[i] = dt * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
	}

	low := make(dynamo.State, n)
	floats.SubTo(low, xNew, errEst)

	return StepResult{X: xNew, Low: low, Err: errEst, Deriv: k7}
}

// ErrorNorm is the RMS of the error estimate weighted by
// atol + rtol*max(|x_i|, |x_new_i|). A step is acceptable when it is <= 1.
func ErrorNorm(x dynamo.State, res StepResult, atol, rtol float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		scale := atol + rtol*math.Max(math.Abs(x[i]), math.Abs(res.X[i]))
		e := res.Err[i] / scale
		sum += e * e
	}
	return math.Sqrt(sum / float64(n))
}

// growth returns the factor applied to dt after a step with the given error
// norm. NaN norms shrink as hard as allowed.
func (r *RK45) growth(errNorm float64) float64 {
	switch {
	case math.IsNaN(errNorm) || math.IsInf(errNorm, 1):
		return r.minShrink
	case errNorm == 0:
		return r.maxGrowth
	}
	factor := r.safety * math.Pow(errNorm, errExponent)
	return math.Max(r.minShrink, math.Min(r.maxGrowth, factor))
}

// Run integrates f adaptively over [cfg.T0, cfg.TF].
//
// Accepted steps are appended to the trajectory; rejected steps are retried
// from the same point with a smaller dt. The final step is shortened to land
// exactly on TF. A step rejected at cfg.MinDt aborts the run with
// ErrNonConvergence; the accepted prefix is attached to the returned
// *dynamo.IntegrationError.
func (r *RK45) Run(f dynamo.Field, cfg dynamo.Config, observers ...dynamo.Observer) (*dynamo.Trajectory, error) {
	if !(cfg.AbsTol > 0) || !(cfg.RelTol > 0) || !(cfg.MinDt > 0) || !(cfg.MaxDt >= cfg.MinDt) {
		return nil, fmt.Errorf("%w: adaptive run needs positive tolerances and 0 < min dt <= max dt",
			dynamo.ErrInvalidConfig)
	}

	x := cfg.X0.Clone()
	tr := dynamo.NewTrajectory(len(x), 64)
	if err := tr.Append(cfg.T0, x); err != nil {
		return nil, err
	}
	if !(cfg.TF > cfg.T0) {
		return tr, nil
	}

	c := &counter{f: f}
	k1, err := probe(c.eval, cfg.T0, x, cfg.ValidateState)
	if err != nil {
		return nil, &dynamo.IntegrationError{Time: cfg.T0, Dt: cfg.Dt, Wrapped: err}
	}

	dt := cfg.Dt
	if dt <= 0 {
		dt = r.initialStep(c.eval, cfg, k1)
	}
	dt = clamp(dt, cfg.MinDt, cfg.MaxDt)

	// steps closer than this to TF are stretched to land on it
	tEps := 1e-12 * math.Max(1, math.Abs(cfg.TF))

	t := cfg.T0
	stats := dynamo.Stats{}
	fail := func(wrapped error) (*dynamo.Trajectory, error) {
		stats.Evaluations = c.n
		tr.SetStats(stats)
		return nil, &dynamo.IntegrationError{
			Step:    stats.Steps + stats.Rejected,
			Time:    t,
			Dt:      dt,
			Partial: tr,
			Wrapped: wrapped,
		}
	}

	for t < cfg.TF {
		if cfg.MaxSteps > 0 && stats.Steps+stats.Rejected >= cfg.MaxSteps {
			return fail(fmt.Errorf("%w: exceeded %d steps", dynamo.ErrNonConvergence, cfg.MaxSteps))
		}

		last := false
		if t+dt >= cfg.TF-tEps {
			dt = cfg.TF - t
			last = true
		}

		res := r.attempt(c.eval, t, x, k1, dt)
		errNorm := ErrorNorm(x, res, cfg.AbsTol, cfg.RelTol)
		if cfg.ValidateState && !(res.X.IsValid() && res.Deriv.IsValid()) {
			errNorm = math.Inf(1)
		}

		if errNorm <= 1 {
			if last {
				t = cfg.TF
			} else {
				t += dt
			}
			x, k1 = res.X, res.Deriv
			stats.Steps++
			stats.LastDt = dt

			if err := tr.Append(t, x); err != nil {
				return fail(err)
			}
			for _, o := range observers {
				o.OnAccept(stats.Steps, t, x, dt)
			}

			if !last {
				dt = clamp(dt*r.growth(errNorm), cfg.MinDt, cfg.MaxDt)
			}
			continue
		}

		stats.Rejected++
		for _, o := range observers {
			o.OnReject(stats.Steps+stats.Rejected, t, dt, errNorm)
		}
		if dt <= cfg.MinDt {
			return fail(fmt.Errorf("%w: step rejected at minimum dt %g (error norm %.3g)",
				dynamo.ErrNonConvergence, cfg.MinDt, errNorm))
		}
		dt = math.Max(dt*r.growth(errNorm), cfg.MinDt)
	}

	stats.Evaluations = c.n
	tr.SetStats(stats)
	return tr, nil
}

// initialStep picks a starting dt from the scale of the solution and of its
// first two derivatives (Hairer, Norsett & Wanner, Solving ODEs I, II.4).
func (r *RK45) initialStep(f dynamo.Field, cfg dynamo.Config, f0 dynamo.State) float64 {
	x0 := cfg.X0
	n := len(x0)
	scale := make(dynamo.State, n)
	for i := range x0 {
		scale[i] = cfg.AbsTol + cfg.RelTol*math.Abs(x0[i])
	}

	d0 := rmsScaled(x0, scale)
	d1 := rmsScaled(f0, scale)

	h0 := 1e-6
	if d0 >= 1e-5 && d1 >= 1e-5 {
		h0 = 0.01 * d0 / d1
	}
	h0 = math.Min(h0, cfg.Span())

	x1 := x0.AddScaled(h0, f0)
	f1 := f(cfg.T0+h0, x1)
	d2 := rmsScaled(f1.Sub(f0), scale) / h0

	var h1 float64
	if d1 <= 1e-15 && d2 <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/math.Max(d1, d2), 1.0/5.0)
	}

	return math.Min(math.Min(100*h0, h1), cfg.Span())
}

func rmsScaled(v, scale dynamo.State) float64 {
	if len(v) == 0 {
		return 0
	}
	w := make(dynamo.State, len(v))
	floats.DivTo(w, v, scale)
	return floats.Norm(w, 2) / math.Sqrt(float64(len(v)))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
