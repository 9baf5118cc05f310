package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/odekit/internal/dynamo"
	"github.com/san-kum/odekit/internal/integrators"
	"github.com/san-kum/odekit/internal/models"
)

func decayConfig(dt float64) dynamo.Config {
	cfg := dynamo.DefaultConfig()
	cfg.TF, cfg.Dt = 10, dt
	cfg.X0 = dynamo.State{10}
	return cfg
}

func decayExact(t float64) dynamo.State {
	return dynamo.State{10 * math.Exp(-t/2)}
}

func TestErrorSeries(t *testing.T) {
	d := models.NewDecay()
	tr, err := integrators.RunFixed(integrators.NewEuler(), d.Field(), decayConfig(0.4))
	if err != nil {
		t.Fatal(err)
	}

	series, err := ErrorSeries(tr, decayExact)
	if err != nil {
		t.Fatal(err)
	}
	if len(series) != tr.Len() {
		t.Fatalf("expected %d errors, got %d", tr.Len(), len(series))
	}
	if series[0] != 0 {
		t.Errorf("error at the initial condition should be 0, got %g", series[0])
	}
	want := math.Abs(8.0 - 10*math.Exp(-0.2))
	if math.Abs(series[1]-want) > 1e-12 {
		t.Errorf("expected %g after one step, got %g", want, series[1])
	}

	m, err := MaxError(tr, decayExact)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range series {
		if e > m {
			t.Errorf("MaxError %g below series entry %g", m, e)
		}
	}
}

func TestErrorSeriesDimensionMismatch(t *testing.T) {
	tr := dynamo.NewTrajectory(1, 1)
	_ = tr.Append(0, dynamo.State{1})

	_, err := ErrorSeries(tr, func(float64) dynamo.State { return dynamo.State{1, 2} })
	if !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestConvergenceOrder(t *testing.T) {
	f := models.NewDecay().Field()
	tests := []struct {
		stepper integrators.Stepper
		dt      float64
		levels  int
		lo, hi  float64
	}{
		{integrators.NewEuler(), 0.1, 5, 0.9, 1.1},
		{integrators.NewHeun(), 0.1, 5, 1.8, 2.2},
		{integrators.NewRK4(), 0.4, 4, 3.5, 4.5},
	}

	for _, tt := range tests {
		study, err := Convergence(tt.stepper, f, decayExact, decayConfig(tt.dt), tt.levels)
		if err != nil {
			t.Fatalf("%s: %v", tt.stepper.Name(), err)
		}
		if len(study.Errors) != tt.levels || len(study.Ratios) != tt.levels-1 {
			t.Fatalf("%s: wrong study shape %+v", tt.stepper.Name(), study)
		}
		if study.Order < tt.lo || study.Order > tt.hi {
			t.Errorf("%s: order %.3f outside [%g, %g]", tt.stepper.Name(), study.Order, tt.lo, tt.hi)
		}
		for i := 1; i < len(study.Errors); i++ {
			if study.Errors[i] >= study.Errors[i-1] {
				t.Errorf("%s: error did not shrink at level %d", tt.stepper.Name(), i)
			}
		}
	}
}

func TestConvergenceInvalid(t *testing.T) {
	f := models.NewDecay().Field()

	if _, err := Convergence(integrators.NewEuler(), f, decayExact, decayConfig(0.1), 1); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for one level, got %v", err)
	}

	cfg := decayConfig(0.1)
	cfg.TF = 0
	if _, err := Convergence(integrators.NewEuler(), f, decayExact, cfg, 3); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for empty span, got %v", err)
	}
}

func TestEnergyDriftEuler(t *testing.T) {
	h := models.NewHarmonic()
	cfg := dynamo.DefaultConfig()
	cfg.TF, cfg.Dt = 10*math.Pi, 0.01
	cfg.X0 = h.DefaultState()

	tr, err := integrators.RunFixed(integrators.NewEuler(), h.Field(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	d := EnergyDrift(tr, h.Energy)
	if d.Initial != 0.5 {
		t.Errorf("expected initial energy 0.5, got %f", d.Initial)
	}
	// Forward Euler multiplies the oscillator energy by 1+dt^2 per step.
	if d.Max < 0.3 || d.Max > 0.45 {
		t.Errorf("unexpected max drift %f", d.Max)
	}
	for i := 1; i < len(d.Series); i++ {
		if d.Series[i] < d.Series[i-1] {
			t.Fatalf("euler energy should grow monotonically, dropped at %d", i)
		}
	}
}

func TestEnergyDriftDamped(t *testing.T) {
	dm := models.NewDamped()
	cfg := dynamo.DefaultConfig()
	cfg.TF, cfg.Dt = 25, 0.01
	cfg.X0 = dm.DefaultState()

	tr, err := integrators.RunFixed(integrators.NewRK4(), dm.Field(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	d := EnergyDrift(tr, dm.Energy)
	if d.Final >= d.Initial {
		t.Errorf("damping should dissipate energy: %f -> %f", d.Initial, d.Final)
	}
}

func TestLyapunovExponent(t *testing.T) {
	l := models.NewLorenz()
	cfg := dynamo.DefaultConfig()
	cfg.TF, cfg.Dt = 50, 0.01
	cfg.X0 = l.DefaultState()

	lambda, err := LyapunovExponent(integrators.NewRK4(), l.Field(), cfg, 1e-8)
	if err != nil {
		t.Fatal(err)
	}
	if lambda < 0.5 || lambda > 1.5 {
		t.Errorf("lorenz exponent %f outside [0.5, 1.5]", lambda)
	}

	h := models.NewHarmonic()
	cfg.X0 = h.DefaultState()
	lambda, err = LyapunovExponent(integrators.NewRK4(), h.Field(), cfg, 1e-8)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(lambda) > 0.05 {
		t.Errorf("harmonic oscillator should not be chaotic, got %f", lambda)
	}
}

func TestLyapunovInvalid(t *testing.T) {
	cfg := decayConfig(0.1)
	_, err := LyapunovExponent(integrators.NewEuler(), models.NewDecay().Field(), cfg, 0)
	if !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
