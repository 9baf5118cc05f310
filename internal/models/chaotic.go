package models

import "github.com/san-kum/odekit/internal/dynamo"

// VanDerPol is the self-excited oscillator with a stable limit cycle.
//
//	dx/dt = y
//	dy/dt = mu(1 - x^2)y - x
type VanDerPol struct {
	Mu float64
}

func NewVanDerPol() *VanDerPol { return &VanDerPol{Mu: 1} }

func vanDerPolRHS(_ float64, s dynamo.State, mu float64) dynamo.State {
	x, y := s[0], s[1]
	return dynamo.State{y, mu*(1-x*x)*y - x}
}

func (v *VanDerPol) Name() string                    { return "vanderpol" }
func (v *VanDerPol) Dim() int                        { return 2 }
func (v *VanDerPol) Field() dynamo.Field             { return dynamo.MakeField(vanDerPolRHS, v.Mu) }
func (v *VanDerPol) DefaultState() dynamo.State      { return dynamo.State{2, 0} }
func (v *VanDerPol) DefaultSpan() (float64, float64) { return 0, 20 }
func (v *VanDerPol) Params() map[string]float64      { return map[string]float64{"mu": v.Mu} }

func (v *VanDerPol) SetParam(name string, value float64) error {
	if name != "mu" {
		return unknownParam(v.Name(), name)
	}
	v.Mu = value
	return nil
}

// LorenzParams are the classic convection parameters.
type LorenzParams struct {
	Sigma, Rho, Beta float64
}

// Lorenz is the three-variable convection model.
type Lorenz struct {
	LorenzParams
}

func NewLorenz() *Lorenz {
	return &Lorenz{LorenzParams{Sigma: 10, Rho: 28, Beta: 8.0 / 3.0}}
}

func lorenzRHS(_ float64, s dynamo.State, p LorenzParams) dynamo.State {
	return dynamo.State{p.Sigma * (s[1] - s[0]), s[0]*(p.Rho-s[2]) - s[1], s[0]*s[1] - p.Beta*s[2]}
}

func (l *Lorenz) Name() string                    { return "lorenz" }
func (l *Lorenz) Dim() int                        { return 3 }
func (l *Lorenz) Field() dynamo.Field             { return dynamo.MakeField(lorenzRHS, l.LorenzParams) }
func (l *Lorenz) DefaultState() dynamo.State      { return dynamo.State{1, 1, 1} }
func (l *Lorenz) DefaultSpan() (float64, float64) { return 0, 30 }

func (l *Lorenz) Params() map[string]float64 {
	return map[string]float64{"sigma": l.Sigma, "rho": l.Rho, "beta": l.Beta}
}

func (l *Lorenz) SetParam(name string, value float64) error {
	switch name {
	case "sigma":
		l.Sigma = value
	case "rho":
		l.Rho = value
	case "beta":
		l.Beta = value
	default:
		return unknownParam(l.Name(), name)
	}
	return nil
}
