package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/san-kum/odekit/internal/storage"
	"github.com/san-kum/odekit/internal/viz"
)

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		m := r.Method
		if r.Adaptive {
			m = "rk45 (adaptive)"
		}
		rows = append(rows, []string{
			r.ID,
			r.Model,
			m,
			fmt.Sprintf("[%g, %g]", r.T0, r.TF),
			strconv.Itoa(r.Samples),
			strconv.Itoa(r.Stats.Evaluations),
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
		})
	}
	fmt.Println(viz.Table([]string{"id", "model", "method", "span", "samples", "evals", "time"}, rows))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	tr, err := store.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	chart, err := viz.Plot(tr, viz.PlotOptions{Components: components, Caption: args[0]})
	if err != nil {
		return err
	}
	fmt.Println(chart)
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	tr, err := store.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	out, err := viz.PhasePortrait(tr, xAxis, yAxis, 60, 20)
	if err != nil {
		return err
	}
	fmt.Println(viz.Title.Render(fmt.Sprintf("x%d vs x%d", yAxis, xAxis)))
	fmt.Print(out)
	return nil
}

// withOutput runs fn against the --out file, or stdout when none is set.
func withOutput(path string, fn func(io.Writer) error) error {
	if path == "" {
		return fn(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", path)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	tr, err := store.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return withOutput(outFile, func(w io.Writer) error {
		return storage.WriteCSV(w, tr)
	})
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	tr, err := store.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return withOutput(outFile, func(w io.Writer) error {
		return storage.ExportJSON(w, *meta, tr)
	})
}

func exportSVG(cmd *cobra.Command, args []string) error {
	tr, err := store.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	path := outFile
	if path == "" {
		path = args[0] + ".svg"
	}
	return withOutput(path, func(w io.Writer) error {
		return viz.WriteSVG(w, tr, components, 800, 400)
	})
}

func replayRun(cmd *cobra.Command, args []string) error {
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	tr, err := store.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return viz.RunReplay(fmt.Sprintf("%s  %s", meta.Model, meta.ID), tr)
}
