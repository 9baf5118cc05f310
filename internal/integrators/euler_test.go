package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/odekit/internal/dynamo"
)

func TestEulerStep(t *testing.T) {
	x := dynamo.State{10}
	got := NewEuler().Step(decayField(2), 0, x, 0.4)

	if got[0] != 8.0 {
		t.Errorf("Euler step = %v, want 8.0", got[0])
	}
	if x[0] != 10 {
		t.Error("Step mutated its input")
	}
}

func TestHeunStep_SymmetricPredictor(t *testing.T) {
	// one step from (x, v) = (0, 1); both slopes come from the same predictor
	h := 0.1
	got := NewHeun().Step(oscillatorField, 0, dynamo.State{0, 1}, h)

	xPred, vPred := 0+h*1.0, 1-h*0.0
	wantX := 0 + 0.5*h*(1+vPred)
	wantV := 1 - 0.5*h*(0+xPred)

	if math.Abs(got[0]-wantX) > 1e-15 || math.Abs(got[1]-wantV) > 1e-15 {
		t.Errorf("Heun step = %v, want [%v %v]", got, wantX, wantV)
	}
}

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()
	x := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(oscillatorField, float64(i)*dt, x, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-8 {
		t.Errorf("position error too large: got %.10f, expected %.10f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-8 {
		t.Errorf("velocity error too large: got %.10f, expected %.10f", x[1], expectedV)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		method string
		order  int
	}{
		{"", 1},
		{dynamo.MethodEuler, 1},
		{dynamo.MethodHeun, 2},
		{dynamo.MethodRK4, 4},
		{dynamo.MethodRK45, 5},
	}

	for _, tt := range tests {
		s, err := New(tt.method)
		if err != nil {
			t.Fatalf("New(%q): %v", tt.method, err)
		}
		if s.Order() != tt.order {
			t.Errorf("New(%q).Order() = %d, want %d", tt.method, s.Order(), tt.order)
		}
	}

	if _, err := New("verlet"); err == nil {
		t.Error("expected error for unknown method")
	}
}

func TestMethods(t *testing.T) {
	methods := Methods()
	want := []string{dynamo.MethodEuler, dynamo.MethodHeun, dynamo.MethodRK4, dynamo.MethodRK45}
	if len(methods) != len(want) {
		t.Fatalf("Methods() = %v, want %v", methods, want)
	}
	for i, name := range methods {
		if name != want[i] {
			t.Errorf("Methods()[%d] = %q, want %q", i, name, want[i])
		}
		s, err := New(name)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if s.Name() != name {
			t.Errorf("New(%q).Name() = %q", name, s.Name())
		}
	}
}
