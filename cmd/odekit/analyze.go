package main

import (
	"context"
	"fmt"
	"math"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/odekit/internal/analysis"
	"github.com/san-kum/odekit/internal/config"
	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/experiment"
	"github.com/san-kum/odekit/internal/models"
	"github.com/san-kum/odekit/internal/viz"
)

// compareMethods runs the model once per fixed-step method, plus the
// adaptive integrator, and tabulates cost against accuracy.
func compareMethods(cmd *cobra.Command, args []string) error {
	reg := newRegistry()
	methods := args[1:]
	if len(methods) == 0 {
		methods = reg.ListMethods()
	}

	base, err := resolveRun(cmd, args[0])
	if err != nil {
		return err
	}

	type entry struct {
		label string
		run   func() (*experiment.Experiment, error)
	}
	entries := make([]entry, 0, len(methods)+1)
	for _, m := range methods {
		entries = append(entries, entry{m, func() (*experiment.Experiment, error) {
			r := base.Clone()
			r.Method, r.Adaptive = m, false
			return experiment.Build(reg, r)
		}})
	}
	entries = append(entries, entry{"rk45 (adaptive)", func() (*experiment.Experiment, error) {
		r := base.Clone()
		r.Adaptive = true
		return experiment.Build(reg, r)
	}})

	solver := newSolver()
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		exp, err := e.run()
		if err != nil {
			return err
		}
		res, err := exp.Execute(solver)
		if err != nil {
			rows = append(rows, []string{e.label, "-", "-", "-", viz.StatusFailed.Render(err.Error()), "-"})
			continue
		}
		tr := res.Trajectory
		errCol := "n/a"
		if ex, ok := exp.Model.(models.Exact); ok {
			if m, err := analysis.MaxError(tr, exactFor(ex, exp.Config)); err == nil {
				errCol = fmt.Sprintf("%.3e", m)
			}
		}
		rows = append(rows, []string{
			e.label,
			strconv.Itoa(tr.Len()),
			strconv.Itoa(tr.Stats().Evaluations),
			errCol,
			fmt.Sprintf("%.6g", tr.Last().X),
			res.Elapsed.String(),
		})
	}

	fmt.Println(viz.Table([]string{"method", "samples", "evals", "max error", "final state", "elapsed"}, rows))
	return nil
}

func convergenceStudy(cmd *cobra.Command, args []string) error {
	reg := newRegistry()
	run, err := resolveRun(cmd, args[0])
	if err != nil {
		return err
	}
	run.Adaptive = false
	exp, err := experiment.Build(reg, run)
	if err != nil {
		return err
	}
	ex, ok := exp.Model.(models.Exact)
	if !ok {
		return fmt.Errorf("model %s has no exact solution", exp.Name)
	}
	stepper, err := reg.GetMethod(exp.Config.Method)
	if err != nil {
		return err
	}

	study, err := analysis.Convergence(stepper, exp.Model.Field(), exactFor(ex, exp.Config), exp.Config, levels)
	if err != nil {
		return err
	}

	rows := make([][]string, len(study.Dts))
	for i := range study.Dts {
		ratio := "-"
		if i > 0 {
			ratio = fmt.Sprintf("%.3f", study.Ratios[i-1])
		}
		rows[i] = []string{fmt.Sprintf("%g", study.Dts[i]), fmt.Sprintf("%.6e", study.Errors[i]), ratio}
	}
	fmt.Println(viz.Table([]string{"dt", "error at tf", "observed order"}, rows))
	fmt.Printf("%s: estimated order %s (nominal %d)\n",
		study.Method, viz.MetricValue.Render(fmt.Sprintf("%.3f", study.Order)), stepper.Order())

	// Error along the coarsest run.
	tr, err := newSolver().Integrate(exp.Model.Field(), exp.Config)
	if err != nil {
		return err
	}
	series, err := analysis.ErrorSeries(tr, exactFor(ex, exp.Config))
	if err != nil {
		return err
	}
	fmt.Println(viz.PlotSeries(series, fmt.Sprintf("absolute error, dt=%g", exp.Config.Dt), 70, 10))
	return nil
}

func sweepParameter(cmd *cobra.Command, args []string) error {
	reg := newRegistry()
	base, err := resolveRun(cmd, args[0])
	if err != nil {
		return err
	}
	values := sweepVals
	if sweepSteps > 0 {
		values = dynamo.Linspace(sweepFrom, sweepTo, sweepSteps)
	}
	if len(values) == 0 {
		return fmt.Errorf("sweep needs --values or --from/--to/--steps")
	}
	exps, err := experiment.Expand(reg, base, sweepParam, values)
	if err != nil {
		return err
	}
	return runBatch(exps)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := config.LoadScenario(args[0])
	if err != nil {
		return err
	}
	exps, err := experiment.BuildScenario(newRegistry(), sc)
	if err != nil {
		return err
	}
	if sc.Name != "" {
		fmt.Println(viz.Title.Render(sc.Name))
	}
	if sc.Description != "" {
		fmt.Println(viz.Subtle.Render(sc.Description))
	}
	return runBatch(exps)
}

// runBatch integrates exps concurrently, stores them unless --no-save is
// set, and prints one row per run.
func runBatch(exps []*experiment.Experiment) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	results, err := experiment.Sweep(ctx, newSolver(), exps, limit)
	if err != nil {
		return err
	}

	if !noSave {
		if err := store.Init(); err != nil {
			return err
		}
	}

	rows := make([][]string, 0, len(results))
	for _, res := range results {
		tr := res.Trajectory
		id := "-"
		if !noSave {
			metrics := runMetrics(res.Experiment, tr)
			if id, err = store.Save(metadataFor(res.Experiment, metrics), tr); err != nil {
				return err
			}
		}
		rows = append(rows, []string{
			res.Experiment.Name,
			strconv.Itoa(tr.Len()),
			strconv.Itoa(tr.Stats().Evaluations),
			fmt.Sprintf("%.6g", peak(tr)),
			fmt.Sprintf("%.6g", tr.Last().X),
			id,
		})
	}
	fmt.Println(viz.Table([]string{"run", "samples", "evals", "peak |x0|", "final state", "id"}, rows))
	fmt.Printf("%d runs finished in %v\n", len(results), results[0].Elapsed)
	return nil
}

func peak(tr *dynamo.Trajectory) float64 {
	return floats.Norm(tr.Component(0), math.Inf(1))
}
