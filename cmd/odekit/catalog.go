package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/odekit/internal/config"
	"github.com/san-kum/odekit/internal/models"
	"github.com/san-kum/odekit/internal/viz"
)

func listPresets(cmd *cobra.Command, args []string) error {
	presets := config.ListPresets(args[0])
	if len(presets) == 0 {
		fmt.Printf("no presets for model: %s\n", args[0])
		return nil
	}

	rows := make([][]string, 0, len(presets))
	for _, name := range presets {
		p := config.GetPreset(args[0], name)
		m := p.Method
		if p.Adaptive {
			m = fmt.Sprintf("rk45 (adaptive, tol %g)", p.RelTol)
		} else {
			m = fmt.Sprintf("%s (dt %g)", m, p.Dt)
		}
		rows = append(rows, []string{name, m, formatParams(p.Params)})
	}
	fmt.Println(viz.Table([]string{"preset", "method", "params"}, rows))
	return nil
}

func listModels(cmd *cobra.Command, args []string) error {
	reg := newRegistry()
	rows := make([][]string, 0)
	for _, name := range reg.ListModels() {
		m, err := reg.GetModel(name)
		if err != nil {
			return err
		}
		t0, tf := m.DefaultSpan()
		var extras []string
		if _, ok := m.(models.Exact); ok {
			extras = append(extras, "exact")
		}
		if _, ok := m.(models.Energy); ok {
			extras = append(extras, "energy")
		}
		rows = append(rows, []string{
			name,
			fmt.Sprintf("%d", m.Dim()),
			fmt.Sprintf("[%g, %g]", t0, tf),
			formatParams(m.Params()),
			strings.Join(extras, ","),
		})
	}
	fmt.Println(viz.Table([]string{"model", "dim", "span", "params", "extras"}, rows))
	fmt.Printf("methods: %s\n", strings.Join(reg.ListMethods(), ", "))
	return nil
}

func formatParams(p map[string]float64) string {
	parts := make([]string, 0, len(p))
	for _, k := range slices.Sorted(maps.Keys(p)) {
		parts = append(parts, fmt.Sprintf("%s=%g", k, p[k]))
	}
	return strings.Join(parts, " ")
}
