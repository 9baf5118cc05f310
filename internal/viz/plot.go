package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/odekit/internal/dynamo"
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Cyan, asciigraph.Yellow, asciigraph.Green, asciigraph.Magenta, asciigraph.Red,
}

type PlotOptions struct {
	Width, Height int
	// Components to draw; all of them when empty.
	Components []int
	Caption    string
}

// Plot charts the selected components of tr against time. The trajectory is
// first resampled onto Width evenly spaced times, so adaptive runs are
// drawn on a true time axis.
func Plot(tr *dynamo.Trajectory, opts PlotOptions) (string, error) {
	if tr.Len() == 0 {
		return "", fmt.Errorf("%w: empty trajectory", dynamo.ErrOutOfRange)
	}
	if opts.Width <= 0 {
		opts.Width = 70
	}
	if opts.Height <= 0 {
		opts.Height = 15
	}
	comps := opts.Components
	if len(comps) == 0 {
		for k := 0; k < tr.Dim(); k++ {
			comps = append(comps, k)
		}
	}
	for _, k := range comps {
		if k < 0 || k >= tr.Dim() {
			return "", fmt.Errorf("%w: component %d of a %d-dimensional trajectory",
				dynamo.ErrDimensionMismatch, k, tr.Dim())
		}
	}

	resampled := tr
	if !tr.Degenerate() {
		var err error
		resampled, err = tr.Resample(dynamo.Linspace(tr.First().T, tr.Last().T, opts.Width))
		if err != nil {
			return "", err
		}
	}

	series := make([][]float64, len(comps))
	names := make([]string, len(comps))
	for i, k := range comps {
		series[i] = resampled.Component(k)
		names[i] = fmt.Sprintf("x%d", k)
	}

	caption := fmt.Sprintf("t ∈ [%.4g, %.4g]  %s", tr.First().T, tr.Last().T, strings.Join(names, " "))
	if opts.Caption != "" {
		caption = opts.Caption + "  " + caption
	}

	return asciigraph.PlotMany(series,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.SeriesColors(seriesColors[:min(len(series), len(seriesColors))]...),
		asciigraph.Caption(caption),
	), nil
}

// PlotSeries charts a single series such as an error curve.
func PlotSeries(values []float64, caption string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
