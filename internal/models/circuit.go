package models

import (
	"math"

	"github.com/san-kum/odekit/internal/dynamo"
)

// RLParams: dI/dt = (V - R I)/L.
type RLParams struct {
	V, R, L float64
}

// RLCircuit is a series resistor-inductor circuit switched onto a constant
// source at t0.
type RLCircuit struct {
	RLParams
	I0 float64
}

func NewRLCircuit() *RLCircuit {
	return &RLCircuit{RLParams: RLParams{V: 16, R: 50, L: 10}}
}

func rlRHS(_ float64, x dynamo.State, p RLParams) dynamo.State {
	return dynamo.State{(p.V - p.R*x[0]) / p.L}
}

func (c *RLCircuit) Name() string                    { return "rl" }
func (c *RLCircuit) Dim() int                        { return 1 }
func (c *RLCircuit) Field() dynamo.Field             { return dynamo.MakeField(rlRHS, c.RLParams) }
func (c *RLCircuit) DefaultState() dynamo.State      { return dynamo.State{c.I0} }
func (c *RLCircuit) DefaultSpan() (float64, float64) { return 0, 2.5 }

// TimeConstant is L/R.
func (c *RLCircuit) TimeConstant() float64 { return c.L / c.R }

func (c *RLCircuit) Exact(t0 float64, x0 dynamo.State, t float64) dynamo.State {
	steady := c.V / c.R
	return dynamo.State{steady + (x0[0]-steady)*math.Exp(-(t-t0)/c.TimeConstant())}
}

func (c *RLCircuit) Params() map[string]float64 {
	return map[string]float64{"v": c.V, "r": c.R, "l": c.L, "i0": c.I0}
}

func (c *RLCircuit) SetParam(name string, value float64) error {
	switch name {
	case "v":
		c.V = value
	case "r":
		c.R = value
	case "l":
		c.L = value
	case "i0":
		c.I0 = value
	default:
		return unknownParam(c.Name(), name)
	}
	return nil
}
