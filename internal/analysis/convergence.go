package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/integrators"
)

// Study is the outcome of a step-halving convergence run.
type Study struct {
	Method string
	Dts    []float64
	// Errors[i] is the final-time error with step Dts[i].
	Errors []float64
	// Ratios[i] is log2(Errors[i]/Errors[i+1]), the order seen between
	// consecutive levels.
	Ratios []float64
	// Order is the least-squares slope of log(error) against log(dt).
	Order float64
}

// Convergence integrates f with s at cfg.Dt, cfg.Dt/2, ... for the given
// number of levels and compares the state at cfg.TF with exact.
func Convergence(s integrators.Stepper, f dynamo.Field, exact ExactFunc, cfg dynamo.Config, levels int) (*Study, error) {
	if levels < 2 {
		return nil, fmt.Errorf("%w: convergence needs at least 2 levels, got %d", dynamo.ErrInvalidConfig, levels)
	}
	if !(cfg.TF > cfg.T0) {
		return nil, fmt.Errorf("%w: convergence needs a non-empty span", dynamo.ErrInvalidConfig)
	}

	want := exact(cfg.TF)
	study := &Study{
		Method: s.Name(),
		Dts:    make([]float64, 0, levels),
		Errors: make([]float64, 0, levels),
	}

	dt := cfg.Dt
	for i := 0; i < levels; i++ {
		run := cfg
		run.Dt = dt
		run.EvalTimes = nil
		tr, err := integrators.RunFixed(s, f, run)
		if err != nil {
			return nil, fmt.Errorf("dt=%g: %w", dt, err)
		}
		e, err := stateError(tr.Last().X, want)
		if err != nil {
			return nil, err
		}
		study.Dts = append(study.Dts, dt)
		study.Errors = append(study.Errors, e)
		dt /= 2
	}

	logDt := make([]float64, 0, levels)
	logErr := make([]float64, 0, levels)
	for i, e := range study.Errors {
		if i > 0 {
			study.Ratios = append(study.Ratios, math.Log2(study.Errors[i-1]/e))
		}
		if e > 0 {
			logDt = append(logDt, math.Log(study.Dts[i]))
			logErr = append(logErr, math.Log(e))
		}
	}
	if len(logDt) >= 2 {
		_, study.Order = stat.LinearRegression(logDt, logErr, nil, false)
	}
	return study, nil
}
