package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.X0 = State{1}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default fixed config invalid: %v", err)
	}

	cfg.Adaptive = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default adaptive config invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	base := func() Config {
		cfg := DefaultConfig()
		cfg.X0 = State{1, 0}
		cfg.TF = 1
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative dt", func(c *Config) { c.Dt = -0.1 }},
		{"end before start", func(c *Config) { c.TF = -1 }},
		{"empty state", func(c *Config) { c.X0 = nil }},
		{"nan in state", func(c *Config) { c.X0 = State{1, math.NaN()} }},
		{"unknown method", func(c *Config) { c.Method = "leapfrog" }},
		{"zero atol", func(c *Config) { c.Adaptive = true; c.AbsTol = 0 }},
		{"negative rtol", func(c *Config) { c.Adaptive = true; c.RelTol = -1 }},
		{"zero min dt", func(c *Config) { c.Adaptive = true; c.MinDt = 0 }},
		{"max below min", func(c *Config) { c.Adaptive = true; c.MinDt = 1; c.MaxDt = 0.5 }},
		{"negative initial dt", func(c *Config) { c.Adaptive = true; c.Dt = -1 }},
		{"eval times unsorted", func(c *Config) { c.EvalTimes = []float64{0.5, 0.2} }},
		{"eval times repeated", func(c *Config) { c.EvalTimes = []float64{0.2, 0.2} }},
		{"eval times outside span", func(c *Config) { c.EvalTimes = []float64{0, 2} }},
		{"negative max steps", func(c *Config) { c.MaxSteps = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestConfigValidate_DegenerateSpan(t *testing.T) {
	cfg := DefaultConfig()
	cfg.X0 = State{1}
	cfg.T0, cfg.TF = 2, 2

	if err := cfg.Validate(); err != nil {
		t.Errorf("tf == t0 should be valid, got %v", err)
	}
}

func TestConfigValidate_AdaptiveIgnoresZeroDt(t *testing.T) {
	cfg := DefaultConfig()
	cfg.X0 = State{1}
	cfg.Adaptive = true
	cfg.Dt = 0

	if err := cfg.Validate(); err != nil {
		t.Errorf("adaptive mode with automatic initial step should be valid, got %v", err)
	}
}
