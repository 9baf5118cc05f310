package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/odekit/internal/dynamo"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a grid of braille cells addressed in sub-cell dots; it is
// Width*2 dots wide and Height*4 dots tall.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = []rune(strings.Repeat(string(rune(brailleBlank)), w))
	}
	return c
}

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

// DrawLine uses Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// PhasePortrait draws component j against component i of tr on a canvas
// of w by h cells.
func PhasePortrait(tr *dynamo.Trajectory, i, j, w, h int) (string, error) {
	if i < 0 || j < 0 || i >= tr.Dim() || j >= tr.Dim() {
		return "", fmt.Errorf("%w: components %d,%d of a %d-dimensional trajectory",
			dynamo.ErrDimensionMismatch, i, j, tr.Dim())
	}
	if tr.Len() == 0 {
		return "", fmt.Errorf("%w: empty trajectory", dynamo.ErrOutOfRange)
	}
	xs, ys := tr.Component(i), tr.Component(j)
	xmin, xmax := bounds(xs)
	ymin, ymax := bounds(ys)

	c := NewCanvas(w, h)
	dotW, dotH := float64(w*2-1), float64(h*4-1)
	px := func(k int) (int, int) {
		x := (xs[k] - xmin) / (xmax - xmin) * dotW
		y := dotH - (ys[k]-ymin)/(ymax-ymin)*dotH
		return int(math.Round(x)), int(math.Round(y))
	}

	x0, y0 := px(0)
	c.Set(x0, y0)
	for k := 1; k < len(xs); k++ {
		x1, y1 := px(k)
		c.DrawLine(x0, y0, x1, y1)
		x0, y0 = x1, y1
	}
	return c.String(), nil
}

// bounds returns the range of vs, widened to a unit interval when flat.
func bounds(vs []float64) (float64, float64) {
	lo, hi := vs[0], vs[0]
	for _, v := range vs {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		lo, hi = lo-0.5, hi+0.5
	}
	return lo, hi
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
