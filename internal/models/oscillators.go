package models

import (
	"math"

	"github.com/san-kum/odekit/internal/dynamo"
)

// Harmonic is the unit oscillator written as a coupled pair.
// State: [x, y]
//
//	dx/dt = y
//	dy/dt = -x
type Harmonic struct {
	X0, Y0 float64
}

func NewHarmonic() *Harmonic { return &Harmonic{X0: 0, Y0: 1} }

func (h *Harmonic) Name() string { return "harmonic" }
func (h *Harmonic) Dim() int     { return 2 }

func (h *Harmonic) Field() dynamo.Field {
	return func(_ float64, x dynamo.State) dynamo.State {
		return dynamo.State{x[1], -x[0]}
	}
}

func (h *Harmonic) DefaultState() dynamo.State      { return dynamo.State{h.X0, h.Y0} }
func (h *Harmonic) DefaultSpan() (float64, float64) { return 0, 10 * math.Pi }

func (h *Harmonic) Exact(t0 float64, x0 dynamo.State, t float64) dynamo.State {
	s, c := math.Sincos(t - t0)
	return dynamo.State{x0[0]*c + x0[1]*s, x0[1]*c - x0[0]*s}
}

func (h *Harmonic) Energy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func (h *Harmonic) Params() map[string]float64 {
	return map[string]float64{"x0": h.X0, "y0": h.Y0}
}

func (h *Harmonic) SetParam(name string, value float64) error {
	switch name {
	case "x0":
		h.X0 = value
	case "y0":
		h.Y0 = value
	default:
		return unknownParam(h.Name(), name)
	}
	return nil
}

// OscillatorParams describe a damped oscillator with optional sinusoidal
// drive. State: [x, v]
//
//	dx/dt = v
//	dv/dt = -B v - Omega0^2 x - A sin(Omega t)
type OscillatorParams struct {
	B      float64
	Omega0 float64
	A      float64
	Omega  float64
}

func oscillatorRHS(t float64, x dynamo.State, p OscillatorParams) dynamo.State {
	dv := -p.B*x[1] - p.Omega0*p.Omega0*x[0]
	if p.A != 0 {
		dv -= p.A * math.Sin(p.Omega*t)
	}
	return dynamo.State{x[1], dv}
}

func oscillatorEnergy(p OscillatorParams, x dynamo.State) float64 {
	return 0.5 * (x[1]*x[1] + p.Omega0*p.Omega0*x[0]*x[0])
}

// Damped is an unforced damped oscillator.
type Damped struct {
	OscillatorParams
	X0, V0 float64
}

func NewDamped() *Damped {
	return &Damped{OscillatorParams: OscillatorParams{B: 0.1, Omega0: 1}, X0: 0, V0: 1}
}

func (d *Damped) Name() string { return "damped" }
func (d *Damped) Dim() int     { return 2 }

func (d *Damped) Field() dynamo.Field {
	p := d.OscillatorParams
	p.A = 0
	return dynamo.MakeField(oscillatorRHS, p)
}

func (d *Damped) DefaultState() dynamo.State      { return dynamo.State{d.X0, d.V0} }
func (d *Damped) DefaultSpan() (float64, float64) { return 0, 25 }
func (d *Damped) Energy(x dynamo.State) float64   { return oscillatorEnergy(d.OscillatorParams, x) }

func (d *Damped) Params() map[string]float64 {
	return map[string]float64{"b": d.B, "omega0": d.Omega0, "x0": d.X0, "v0": d.V0}
}

func (d *Damped) SetParam(name string, value float64) error {
	switch name {
	case "b":
		d.B = value
	case "omega0":
		d.Omega0 = value
	case "x0":
		d.X0 = value
	case "v0":
		d.V0 = value
	default:
		return unknownParam(d.Name(), name)
	}
	return nil
}

// Driven is a damped oscillator under sinusoidal drive.
type Driven struct {
	OscillatorParams
	X0, V0 float64
}

func NewDriven() *Driven {
	return &Driven{OscillatorParams: OscillatorParams{A: 1.5, B: 0.05, Omega0: 1, Omega: 1.2}}
}

func (d *Driven) Name() string                    { return "driven" }
func (d *Driven) Dim() int                        { return 2 }
func (d *Driven) Field() dynamo.Field             { return dynamo.MakeField(oscillatorRHS, d.OscillatorParams) }
func (d *Driven) DefaultState() dynamo.State      { return dynamo.State{d.X0, d.V0} }
func (d *Driven) DefaultSpan() (float64, float64) { return 0, 50 }
func (d *Driven) Energy(x dynamo.State) float64   { return oscillatorEnergy(d.OscillatorParams, x) }

func (d *Driven) Params() map[string]float64 {
	return map[string]float64{
		"a": d.A, "b": d.B, "omega0": d.Omega0, "omega": d.Omega,
		"x0": d.X0, "v0": d.V0,
	}
}

func (d *Driven) SetParam(name string, value float64) error {
	switch name {
	case "a":
		d.A = value
	case "b":
		d.B = value
	case "omega0":
		d.Omega0 = value
	case "omega":
		d.Omega = value
	case "x0":
		d.X0 = value
	case "v0":
		d.V0 = value
	default:
		return unknownParam(d.Name(), name)
	}
	return nil
}
