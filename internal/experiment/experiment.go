package experiment

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/san-kum/odekit/internal/config"
	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/models"
	"github.com/san-kum/odekit/internal/sim"
)

// Experiment is a fully resolved run: a model with its parameters applied
// and the engine configuration derived from the run file.
type Experiment struct {
	Name   string
	Run    *config.Run
	Model  models.Model
	Config dynamo.Config
}

// Result is the outcome of one experiment.
type Result struct {
	Experiment *Experiment
	Trajectory *dynamo.Trajectory
	Elapsed    time.Duration
}

// Build resolves run against the registry.
func Build(reg *Registry, run *config.Run) (*Experiment, error) {
	model, err := reg.GetModel(run.Model)
	if err != nil {
		return nil, err
	}
	if err := models.ApplyParams(model, run.Params); err != nil {
		return nil, err
	}
	if !run.Adaptive {
		if _, err := reg.GetMethod(run.Method); err != nil {
			return nil, fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, err)
		}
	}

	t0, tf := model.DefaultSpan()
	cfg := run.ToDynamo(model.DefaultState(), t0, tf)
	if len(cfg.X0) != model.Dim() {
		return nil, fmt.Errorf("%w: %s needs %d initial values, got %d",
			dynamo.ErrDimensionMismatch, model.Name(), model.Dim(), len(cfg.X0))
	}

	return &Experiment{
		Name:   model.Name(),
		Run:    run,
		Model:  model,
		Config: cfg,
	}, nil
}

// Execute integrates the experiment with solver.
func (e *Experiment) Execute(solver *sim.Solver) (*Result, error) {
	start := time.Now()
	tr, err := solver.Integrate(e.Model.Field(), e.Config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Name, err)
	}
	return &Result{Experiment: e, Trajectory: tr, Elapsed: time.Since(start)}, nil
}

// Job converts the experiment into a sweep job.
func (e *Experiment) Job() sim.Job {
	return sim.Job{Name: e.Name, Field: e.Model.Field(), Config: e.Config}
}

// Method describes how the experiment steps, for display.
func (e *Experiment) Method() string {
	if e.Config.Adaptive {
		return "rk45 (adaptive)"
	}
	return e.Config.Method
}

// Expand builds one experiment per value of param, all derived from base.
func Expand(reg *Registry, base *config.Run, param string, values []float64) ([]*Experiment, error) {
	exps := make([]*Experiment, 0, len(values))
	for _, v := range values {
		run := base.Clone()
		if run.Params == nil {
			run.Params = make(map[string]float64)
		}
		run.Params[param] = v

		exp, err := Build(reg, run)
		if err != nil {
			return nil, err
		}
		exp.Name = fmt.Sprintf("%s[%s=%s]", exp.Name, param, strconv.FormatFloat(v, 'g', -1, 64))
		exps = append(exps, exp)
	}
	return exps, nil
}

// Sweep runs exps concurrently and pairs each trajectory with its
// experiment, in order.
func Sweep(ctx context.Context, solver *sim.Solver, exps []*Experiment, limit int) ([]*Result, error) {
	jobs := make([]sim.Job, len(exps))
	for i, e := range exps {
		jobs[i] = e.Job()
	}

	start := time.Now()
	trs, err := solver.Sweep(ctx, jobs, limit)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	results := make([]*Result, len(exps))
	for i, tr := range trs {
		results[i] = &Result{Experiment: exps[i], Trajectory: tr, Elapsed: elapsed}
	}
	return results, nil
}

// BuildScenario resolves every run of sc. Runs are named after their
// position so repeated models stay distinguishable.
func BuildScenario(reg *Registry, sc *config.Scenario) ([]*Experiment, error) {
	exps := make([]*Experiment, 0, len(sc.Runs))
	for i := range sc.Runs {
		exp, err := Build(reg, &sc.Runs[i])
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
		exp.Name = fmt.Sprintf("%s#%d", exp.Name, i+1)
		exps = append(exps, exp)
	}
	return exps, nil
}
