package models

import (
	"math"

	"github.com/san-kum/odekit/internal/dynamo"
)

// DecayParams: dN/dt = -N/Tau.
type DecayParams struct {
	Tau float64
}

// Decay is radioactive decay of a population N.
type Decay struct {
	DecayParams
	N0 float64
}

func NewDecay() *Decay {
	return &Decay{DecayParams: DecayParams{Tau: 2}, N0: 10}
}

func decayRHS(_ float64, x dynamo.State, p DecayParams) dynamo.State {
	return dynamo.State{-x[0] / p.Tau}
}

func (d *Decay) Name() string                    { return "decay" }
func (d *Decay) Dim() int                        { return 1 }
func (d *Decay) Field() dynamo.Field             { return dynamo.MakeField(decayRHS, d.DecayParams) }
func (d *Decay) DefaultState() dynamo.State      { return dynamo.State{d.N0} }
func (d *Decay) DefaultSpan() (float64, float64) { return 0, 10 }

func (d *Decay) Exact(t0 float64, x0 dynamo.State, t float64) dynamo.State {
	return dynamo.State{x0[0] * math.Exp(-(t-t0)/d.Tau)}
}

func (d *Decay) Params() map[string]float64 {
	return map[string]float64{"tau": d.Tau, "n0": d.N0}
}

func (d *Decay) SetParam(name string, value float64) error {
	switch name {
	case "tau":
		d.Tau = value
	case "n0":
		d.N0 = value
	default:
		return unknownParam(d.Name(), name)
	}
	return nil
}

// Nonlinear is dx/dt = t - x^2. It has no parameters.
type Nonlinear struct {
	X0 float64
}

func NewNonlinear() *Nonlinear { return &Nonlinear{X0: 1} }

func (n *Nonlinear) Name() string { return "nonlinear" }
func (n *Nonlinear) Dim() int     { return 1 }

func (n *Nonlinear) Field() dynamo.Field {
	return func(t float64, x dynamo.State) dynamo.State {
		return dynamo.State{t - x[0]*x[0]}
	}
}

func (n *Nonlinear) DefaultState() dynamo.State      { return dynamo.State{n.X0} }
func (n *Nonlinear) DefaultSpan() (float64, float64) { return 0, 9 }
func (n *Nonlinear) Params() map[string]float64      { return map[string]float64{"x0": n.X0} }

func (n *Nonlinear) SetParam(name string, value float64) error {
	if name != "x0" {
		return unknownParam(n.Name(), name)
	}
	n.X0 = value
	return nil
}

// CubicParams: dy/dt = -A y^3 + B sin t.
type CubicParams struct {
	A, B float64
}

// ForcedCubic is a sinusoidally forced system with cubic damping.
type ForcedCubic struct {
	CubicParams
	Y0 float64
}

func NewForcedCubic() *ForcedCubic {
	return &ForcedCubic{CubicParams: CubicParams{A: 2, B: 2}}
}

func cubicRHS(t float64, x dynamo.State, p CubicParams) dynamo.State {
	y := x[0]
	return dynamo.State{-p.A*y*y*y + p.B*math.Sin(t)}
}

func (c *ForcedCubic) Name() string                    { return "cubic" }
func (c *ForcedCubic) Dim() int                        { return 1 }
func (c *ForcedCubic) Field() dynamo.Field             { return dynamo.MakeField(cubicRHS, c.CubicParams) }
func (c *ForcedCubic) DefaultState() dynamo.State      { return dynamo.State{c.Y0} }
func (c *ForcedCubic) DefaultSpan() (float64, float64) { return 0, 20 }

func (c *ForcedCubic) Params() map[string]float64 {
	return map[string]float64{"a": c.A, "b": c.B, "y0": c.Y0}
}

func (c *ForcedCubic) SetParam(name string, value float64) error {
	switch name {
	case "a":
		c.A = value
	case "b":
		c.B = value
	case "y0":
		c.Y0 = value
	default:
		return unknownParam(c.Name(), name)
	}
	return nil
}
