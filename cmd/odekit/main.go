package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/san-kum/odekit/internal/config"
	"github.com/san-kum/odekit/internal/experiment"
	"github.com/san-kum/odekit/internal/output"
	"github.com/san-kum/odekit/internal/sim"
	"github.com/san-kum/odekit/internal/storage"
)

var (
	dataDir  string
	logLevel string
	envFile  string

	// run, compare, convergence and sweep
	configFile string
	preset     string
	method     string
	adaptive   bool
	dt         float64
	t0         float64
	tf         float64
	absTol     float64
	relTol     float64
	minDt      float64
	maxDt      float64
	maxSteps   int
	x0         []float64
	params     map[string]string
	evalPoints int
	noSave     bool
	showPlot   bool

	// plotting
	components []int
	xAxis      int
	yAxis      int
	outFile    string

	// analysis
	levels     int
	sweepParam string
	sweepVals  []float64
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int
	limit      int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "odekit",
		Short:         "ordinary differential equation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default $ODEKIT_DATA or .odekit)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "integrate a model and store the run",
		Args:  cobra.ExactArgs(1),
		RunE:  runModel,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "plot the trajectory after the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot state components against time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntSliceVar(&components, "components", nil, "state components to plot (default all)")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for y-axis")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and samples to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "save the component chart as an SVG figure",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntSliceVar(&components, "components", nil, "state components to draw (default all)")

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "step through a stored run interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [model] [method...]",
		Short: "compare stepping methods on the same model",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareMethods,
	}
	addRunFlags(compareCmd)

	convergenceCmd := &cobra.Command{
		Use:   "convergence [model]",
		Short: "estimate the order of a method by step halving",
		Args:  cobra.ExactArgs(1),
		RunE:  convergenceStudy,
	}
	addRunFlags(convergenceCmd)
	convergenceCmd.Flags().IntVar(&levels, "levels", 5, "number of step halvings")

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "run a model over several values of one parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepParameter,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "vary", "", "parameter to vary")
	sweepCmd.Flags().Float64SliceVar(&sweepVals, "values", nil, "parameter values")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first value of an evenly spaced range")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 0, "last value of an evenly spaced range")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 0, "number of values in the range")
	sweepCmd.Flags().IntVar(&limit, "limit", 0, "maximum concurrent runs (0 = no limit)")
	sweepCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")
	sweepCmd.MarkFlagsMutuallyExclusive("values", "steps")
	_ = sweepCmd.MarkFlagRequired("vary")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every entry of a scenario file concurrently",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().IntVar(&limit, "limit", 0, "maximum concurrent runs (0 = no limit)")
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE:  listPresets,
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list models, their parameters and methods",
		Args:  cobra.NoArgs,
		RunE:  listModels,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, phaseCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd,
		replayCmd, compareCmd, convergenceCmd, sweepCmd, scenarioCmd, presetsCmd, modelsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "run file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&method, "method", config.DefaultMethod, "fixed-step method: euler, heun, rk4, rk45")
	cmd.Flags().BoolVar(&adaptive, "adaptive", false, "adaptive RK45 with error control")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "step size (adaptive: initial step, 0 = automatic)")
	cmd.Flags().Float64Var(&t0, "t0", 0, "start time (default model span)")
	cmd.Flags().Float64Var(&tf, "tf", 0, "end time (default model span)")
	cmd.Flags().Float64Var(&absTol, "atol", config.DefaultTol, "absolute tolerance")
	cmd.Flags().Float64Var(&relTol, "rtol", config.DefaultTol, "relative tolerance")
	cmd.Flags().Float64Var(&minDt, "min-dt", config.DefaultMinDt, "smallest adaptive step")
	cmd.Flags().Float64Var(&maxDt, "max-dt", 0, "largest adaptive step (0 = unbounded)")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "step budget (0 = unlimited)")
	cmd.Flags().Float64SliceVar(&x0, "x0", nil, "initial state (default model state)")
	cmd.Flags().StringToStringVar(&params, "param", nil, "model parameter name=value")
	cmd.Flags().IntVar(&evalPoints, "eval-points", 0, "resample onto this many evenly spaced times")
}

var (
	logger *slog.Logger
	store  *storage.Store
)

// setup loads the environment, builds the logger and opens the store.
// Flags win over the environment.
func setup(cmd *cobra.Command) error {
	env, err := config.LoadEnv(envFile)
	if err != nil {
		return err
	}

	level := env.LogLevel
	if cmd.Flags().Changed("log-level") {
		level = logLevel
	}
	logger, err = output.NewLogger(level, env.LogFormat, os.Stderr)
	if err != nil {
		return err
	}
	output.SetLogger(logger)

	dir := dataDir
	if dir == "" {
		dir = env.DataDir
	}
	if dir == "" {
		dir = ".odekit"
	}
	store = storage.New(filepath.Clean(dir))
	return nil
}

func newSolver() *sim.Solver {
	return sim.New(sim.WithLogger(logger))
}

func newRegistry() *experiment.Registry {
	return experiment.NewRegistry()
}
