package config

import (
	"math"
	"sort"
)

func span(t0, tf float64) (*float64, *float64) { return &t0, &tf }

func preset(model, method string, dt float64, t0, tf float64) *Run {
	r := DefaultRun()
	r.Model, r.Method, r.Dt = model, method, dt
	r.T0, r.TF = span(t0, tf)
	return r
}

func adaptivePreset(model string, tol float64, t0, tf float64) *Run {
	r := preset(model, "rk45", 0, t0, tf)
	r.Adaptive = true
	r.AbsTol, r.RelTol = tol, tol
	return r
}

func with(r *Run, params map[string]float64, x0 ...float64) *Run {
	r.Params = params
	if len(x0) > 0 {
		r.InitState = x0
	}
	return r
}

func resampled(r *Run, points int) *Run {
	r.EvalPoints = points
	return r
}

// drive is the driven oscillator at driving frequency omega.
func drive(omega float64) map[string]float64 {
	return map[string]float64{"a": 1.5, "b": 0.05, "omega0": 1, "omega": omega}
}

// Presets reproduce the standard runs of each model.
var Presets = map[string]map[string]*Run{
	"decay": {
		"euler":    with(preset("decay", "euler", 0.4, 0, 10), map[string]float64{"tau": 2}, 10),
		"heun":     with(preset("decay", "heun", 0.4, 0, 10), map[string]float64{"tau": 2}, 10),
		"adaptive": with(adaptivePreset("decay", 1e-6, 0, 10), map[string]float64{"tau": 2}, 10),
	},
	"nonlinear": {
		"euler":    with(preset("nonlinear", "euler", 0.05, 0, 9), nil, 1),
		"adaptive": with(adaptivePreset("nonlinear", 1e-6, 0, 9), nil, 1),
	},
	"cubic": {
		"strong":      with(adaptivePreset("cubic", 1e-6, 0, 20), map[string]float64{"a": 2, "b": 2}, 0),
		"soft":        with(adaptivePreset("cubic", 1e-6, 0, 20), map[string]float64{"a": 0.5, "b": 3.5}, 0),
		"weak-forced": with(adaptivePreset("cubic", 1e-6, 0, 20), map[string]float64{"a": 2, "b": 0.75}, 0),
	},
	"harmonic": {
		"euler":    with(preset("harmonic", "euler", 0.01, 0, 10*math.Pi), nil, 0, 1),
		"heun":     with(preset("harmonic", "heun", 0.01, 0, 10*math.Pi), nil, 0, 1),
		"adaptive": with(adaptivePreset("harmonic", 1e-8, 0, 10*math.Pi), nil, 0, 1),
	},
	"damped": {
		"light": with(adaptivePreset("damped", 1e-6, 0, 25), map[string]float64{"b": 0.1, "omega0": 1}, 0, 1),
	},
	"driven": {
		"omega":     resampled(with(adaptivePreset("driven", 1e-6, 0, 50), drive(1.2), 0, 0), 1000),
		"omega-0.9": resampled(with(adaptivePreset("driven", 1e-6, 0, 50), drive(1.08), 0, 0), 1000),
		"omega-0.5": resampled(with(adaptivePreset("driven", 1e-6, 0, 50), drive(0.6), 0, 0), 1000),
	},
	"rl": {
		"base":  with(adaptivePreset("rl", 1e-6, 0, 2.5), map[string]float64{"v": 16, "r": 50, "l": 10}, 0),
		"r100":  with(adaptivePreset("rl", 1e-6, 0, 2.5), map[string]float64{"v": 16, "r": 100, "l": 10}, 0),
		"l50":   with(adaptivePreset("rl", 1e-6, 0, 2.5), map[string]float64{"v": 16, "r": 50, "l": 50}, 0),
		"v5":    with(adaptivePreset("rl", 1e-6, 0, 2.5), map[string]float64{"v": 5, "r": 50, "l": 10}, 0),
		"euler": with(preset("rl", "euler", 0.01, 0, 2.5), map[string]float64{"v": 16, "r": 50, "l": 10}, 0),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, name string) *Run {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
