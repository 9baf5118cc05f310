package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/odekit/internal/dynamo"
)

const (
	DefaultModel  = "decay"
	DefaultMethod = dynamo.MethodEuler
	DefaultDt     = 0.01
	DefaultTol    = 1e-6
	DefaultMinDt  = 1e-10
)

// Run is the on-disk description of one integration run. T0 and TF are
// optional; when absent the model's default span is used. An empty
// InitState selects the model's default state.
type Run struct {
	Model      string             `yaml:"model"`
	Method     string             `yaml:"method"`
	Adaptive   bool               `yaml:"adaptive"`
	Dt         float64            `yaml:"dt"`
	T0         *float64           `yaml:"t0,omitempty"`
	TF         *float64           `yaml:"tf,omitempty"`
	AbsTol     float64            `yaml:"abs_tol"`
	RelTol     float64            `yaml:"rel_tol"`
	MinDt      float64            `yaml:"min_dt"`
	MaxDt      float64            `yaml:"max_dt,omitempty"`
	MaxSteps   int                `yaml:"max_steps,omitempty"`
	InitState  []float64          `yaml:"init_state,omitempty"`
	Params     map[string]float64 `yaml:"params,omitempty"`
	EvalPoints int                `yaml:"eval_points,omitempty"`
	EvalTimes  []float64          `yaml:"eval_times,omitempty"`
}

func DefaultRun() *Run {
	return &Run{
		Model:  DefaultModel,
		Method: DefaultMethod,
		Dt:     DefaultDt,
		AbsTol: DefaultTol,
		RelTol: DefaultTol,
		MinDt:  DefaultMinDt,
	}
}

func Load(path string) (*Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultRun()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Run) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy, so presets can be modified safely.
func (r *Run) Clone() *Run {
	c := *r
	if r.T0 != nil {
		t0 := *r.T0
		c.T0 = &t0
	}
	if r.TF != nil {
		tf := *r.TF
		c.TF = &tf
	}
	c.InitState = append([]float64(nil), r.InitState...)
	c.EvalTimes = append([]float64(nil), r.EvalTimes...)
	if r.Params != nil {
		c.Params = make(map[string]float64, len(r.Params))
		for k, v := range r.Params {
			c.Params[k] = v
		}
	}
	return &c
}

// SetSpan fixes both ends of the time interval.
func (r *Run) SetSpan(t0, tf float64) {
	r.T0, r.TF = &t0, &tf
}

// ToDynamo converts the run into an engine configuration. The model's
// default state and span fill whatever the run leaves unset.
func (r *Run) ToDynamo(x0 dynamo.State, t0, tf float64) dynamo.Config {
	cfg := dynamo.DefaultConfig()
	cfg.Method = r.Method
	cfg.Adaptive = r.Adaptive
	cfg.Dt = r.Dt
	cfg.AbsTol = r.AbsTol
	cfg.RelTol = r.RelTol
	cfg.MinDt = r.MinDt
	if r.MaxDt > 0 {
		cfg.MaxDt = r.MaxDt
	}
	cfg.MaxSteps = r.MaxSteps

	cfg.T0, cfg.TF = t0, tf
	if r.T0 != nil {
		cfg.T0 = *r.T0
	}
	if r.TF != nil {
		cfg.TF = *r.TF
	}

	cfg.X0 = x0.Clone()
	if len(r.InitState) > 0 {
		cfg.X0 = dynamo.State(r.InitState).Clone()
	}

	switch {
	case len(r.EvalTimes) > 0:
		cfg.EvalTimes = append([]float64(nil), r.EvalTimes...)
	case r.EvalPoints > 0:
		cfg.EvalTimes = dynamo.Linspace(cfg.T0, cfg.TF, r.EvalPoints)
	}
	return cfg
}
