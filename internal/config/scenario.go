package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a named batch of runs executed together.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Runs        []Run  `yaml:"runs"`
}

// LoadScenario reads a scenario file. Every run starts from DefaultRun, so
// entries only need the fields they change.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Name        string      `yaml:"name"`
		Description string      `yaml:"description"`
		Runs        []yaml.Node `yaml:"runs"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(raw.Runs) == 0 {
		return nil, fmt.Errorf("scenario %s has no runs", path)
	}

	sc := &Scenario{Name: raw.Name, Description: raw.Description, Runs: make([]Run, len(raw.Runs))}
	for i := range raw.Runs {
		run := DefaultRun()
		if err := raw.Runs[i].Decode(run); err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
		sc.Runs[i] = *run
	}
	return sc, nil
}
