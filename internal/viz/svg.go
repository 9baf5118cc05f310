package viz

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/odekit/internal/dynamo"
)

var svgColors = []string{"#00ccff", "#ffcc00", "#00ff88", "#ff00ff", "#ff4444"}

// WriteSVG draws the selected components of tr against time as an SVG
// figure of the given pixel size. All components are drawn when comps is
// empty.
func WriteSVG(w io.Writer, tr *dynamo.Trajectory, comps []int, width, height int) error {
	if tr.Len() < 2 {
		return fmt.Errorf("%w: need at least two samples to draw", dynamo.ErrOutOfRange)
	}
	if len(comps) == 0 {
		for k := 0; k < tr.Dim(); k++ {
			comps = append(comps, k)
		}
	}

	times := tr.Times()
	tmin, tmax := times[0], times[len(times)-1]
	var all []float64
	for _, k := range comps {
		if k < 0 || k >= tr.Dim() {
			return fmt.Errorf("%w: component %d", dynamo.ErrDimensionMismatch, k)
		}
		all = append(all, tr.Component(k)...)
	}
	ymin, ymax := bounds(all)
	pad := (ymax - ymin) * 0.1
	ymin, ymax = ymin-pad, ymax+pad

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for i, k := range comps {
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, svgColors[i%len(svgColors)])
		for j, v := range tr.Component(k) {
			x := (times[j] - tmin) / (tmax - tmin) * float64(width)
			y := float64(height) - (v-ymin)/(ymax-ymin)*float64(height)
			if j == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
