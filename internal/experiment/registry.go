package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/odekit/internal/integrators"
	"github.com/san-kum/odekit/internal/models"
)

// Registry resolves models by name. Stepping methods are resolved by
// integrators.New.
type Registry struct {
	models map[string]func() models.Model
}

func NewRegistry() *Registry {
	r := &Registry{
		models: make(map[string]func() models.Model),
	}

	r.models["decay"] = func() models.Model { return models.NewDecay() }
	r.models["nonlinear"] = func() models.Model { return models.NewNonlinear() }
	r.models["cubic"] = func() models.Model { return models.NewForcedCubic() }
	r.models["harmonic"] = func() models.Model { return models.NewHarmonic() }
	r.models["damped"] = func() models.Model { return models.NewDamped() }
	r.models["driven"] = func() models.Model { return models.NewDriven() }
	r.models["rl"] = func() models.Model { return models.NewRLCircuit() }
	r.models["vanderpol"] = func() models.Model { return models.NewVanDerPol() }
	r.models["lorenz"] = func() models.Model { return models.NewLorenz() }

	return r
}

// Register adds or replaces a model constructor.
func (r *Registry) Register(name string, fn func() models.Model) {
	r.models[name] = fn
}

func (r *Registry) GetModel(name string) (models.Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetMethod(name string) (integrators.Stepper, error) {
	return integrators.New(name)
}

func (r *Registry) ListModels() []string {
	return sortedKeys(r.models)
}

func (r *Registry) ListMethods() []string {
	return integrators.Methods()
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
