package main

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/san-kum/odekit/internal/analysis"
	"github.com/san-kum/odekit/internal/config"
	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/experiment"
	"github.com/san-kum/odekit/internal/models"
	"github.com/san-kum/odekit/internal/storage"
	"github.com/san-kum/odekit/internal/viz"
)

// resolveRun layers the run description: preset, then run file, then any
// flag the user set explicitly.
func resolveRun(cmd *cobra.Command, model string) (*config.Run, error) {
	run := config.DefaultRun()
	run.Model = model

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		run = p
	}

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.Model != model {
			return nil, fmt.Errorf("config %s is for model %q, not %q", configFile, cfg.Model, model)
		}
		run = cfg
	}

	f := cmd.Flags()
	if f.Changed("method") {
		run.Method = method
	}
	if f.Changed("adaptive") {
		run.Adaptive = adaptive
	}
	if f.Changed("dt") {
		run.Dt = dt
	}
	if f.Changed("t0") {
		v := t0
		run.T0 = &v
	}
	if f.Changed("tf") {
		v := tf
		run.TF = &v
	}
	if f.Changed("atol") {
		run.AbsTol = absTol
	}
	if f.Changed("rtol") {
		run.RelTol = relTol
	}
	if f.Changed("min-dt") {
		run.MinDt = minDt
	}
	if f.Changed("max-dt") {
		run.MaxDt = maxDt
	}
	if f.Changed("max-steps") {
		run.MaxSteps = maxSteps
	}
	if f.Changed("x0") {
		run.InitState = append([]float64(nil), x0...)
	}
	if f.Changed("eval-points") {
		run.EvalPoints = evalPoints
	}
	if len(params) > 0 {
		if run.Params == nil {
			run.Params = make(map[string]float64, len(params))
		}
		for k, s := range params {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %w", k, err)
			}
			run.Params[k] = v
		}
	}
	return run, nil
}

func runModel(cmd *cobra.Command, args []string) error {
	run, err := resolveRun(cmd, args[0])
	if err != nil {
		return err
	}
	exp, err := experiment.Build(newRegistry(), run)
	if err != nil {
		return err
	}

	fmt.Printf("running %s with %s...\n", exp.Name, exp.Method())
	res, err := exp.Execute(newSolver())
	if err != nil {
		var ie *dynamo.IntegrationError
		if errors.As(err, &ie) && ie.Partial != nil && ie.Partial.Len() > 0 {
			fmt.Fprintf(os.Stderr, "%s: %d samples accepted, last at t=%.6g\n",
				viz.StatusFailed.Render("failed"), ie.Partial.Len(), ie.Partial.Last().T)
		}
		return err
	}

	fmt.Printf("completed in %v\n", res.Elapsed)
	fmt.Println(viz.RunSummary(exp.Name, exp.Method(), res.Trajectory))

	metrics := runMetrics(exp, res.Trajectory)
	for _, name := range slices.Sorted(maps.Keys(metrics)) {
		fmt.Printf("  %s: %.6g\n", name, metrics[name])
	}

	if !noSave {
		if err := store.Init(); err != nil {
			return err
		}
		runID, err := store.Save(metadataFor(exp, metrics), res.Trajectory)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	if showPlot {
		chart, err := viz.Plot(res.Trajectory, viz.PlotOptions{Caption: exp.Name})
		if err != nil {
			return err
		}
		fmt.Println(chart)
	}
	return nil
}

// runMetrics measures what the model allows: error against the exact
// solution and energy drift.
func runMetrics(exp *experiment.Experiment, tr *dynamo.Trajectory) map[string]float64 {
	metrics := make(map[string]float64)
	if ex, ok := exp.Model.(models.Exact); ok {
		if m, err := analysis.MaxError(tr, exactFor(ex, exp.Config)); err == nil {
			metrics["max_error"] = m
		}
	}
	if en, ok := exp.Model.(models.Energy); ok {
		metrics["energy_drift"] = analysis.EnergyDrift(tr, en.Energy).Max
	}
	return metrics
}

func exactFor(ex models.Exact, cfg dynamo.Config) analysis.ExactFunc {
	x0 := cfg.X0.Clone()
	return func(t float64) dynamo.State { return ex.Exact(cfg.T0, x0, t) }
}

func metadataFor(exp *experiment.Experiment, metrics map[string]float64) storage.RunMetadata {
	return storage.RunMetadata{
		Model:    exp.Model.Name(),
		Method:   exp.Config.Method,
		Adaptive: exp.Config.Adaptive,
		Dt:       exp.Config.Dt,
		T0:       exp.Config.T0,
		TF:       exp.Config.TF,
		AbsTol:   exp.Config.AbsTol,
		RelTol:   exp.Config.RelTol,
		Params:   exp.Model.Params(),
		Metrics:  metrics,
	}
}
