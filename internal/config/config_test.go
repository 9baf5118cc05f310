package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/odekit/internal/dynamo"
)

func TestDefaultRun(t *testing.T) {
	cfg := DefaultRun()

	assert.Equal(t, "decay", cfg.Model)
	assert.Equal(t, dynamo.MethodEuler, cfg.Method)
	assert.Greater(t, cfg.Dt, 0.0)
	assert.Nil(t, cfg.T0)
	assert.Nil(t, cfg.TF)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset("rl", "r100")
	require.NotNil(t, cfg)

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg, loaded)
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: harmonic\ntf: 5\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "harmonic", cfg.Model)
	assert.Equal(t, DefaultDt, cfg.Dt)
	require.NotNil(t, cfg.TF)
	assert.Equal(t, 5.0, *cfg.TF)
	assert.Nil(t, cfg.T0)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dt: [1, 2\n"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestToDynamoUsesModelDefaults(t *testing.T) {
	cfg := DefaultRun()

	dc := cfg.ToDynamo(dynamo.State{10}, 0, 10)

	assert.Equal(t, 0.0, dc.T0)
	assert.Equal(t, 10.0, dc.TF)
	assert.Equal(t, dynamo.State{10}, dc.X0)
	assert.Equal(t, DefaultDt, dc.Dt)
	assert.NoError(t, dc.Validate())
}

func TestToDynamoOverrides(t *testing.T) {
	cfg := DefaultRun()
	cfg.SetSpan(1, 3)
	cfg.InitState = []float64{2, 3}
	cfg.EvalPoints = 5
	cfg.MaxDt = 0.5

	dc := cfg.ToDynamo(dynamo.State{0, 0}, 0, 10)

	assert.Equal(t, 1.0, dc.T0)
	assert.Equal(t, 3.0, dc.TF)
	assert.Equal(t, dynamo.State{2, 3}, dc.X0)
	assert.Equal(t, []float64{1, 1.5, 2, 2.5, 3}, dc.EvalTimes)
	assert.Equal(t, 0.5, dc.MaxDt)

	cfg.InitState[0] = 99
	assert.Equal(t, 2.0, dc.X0[0], "config must not alias the run")
}

func TestToDynamoExplicitEvalTimes(t *testing.T) {
	cfg := DefaultRun()
	cfg.EvalPoints = 50
	cfg.EvalTimes = []float64{0, 5}

	dc := cfg.ToDynamo(dynamo.State{1}, 0, 10)

	assert.Equal(t, []float64{0, 5}, dc.EvalTimes)
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("decay", "euler")
	require.NotNil(t, cfg)
	assert.Equal(t, 0.4, cfg.Dt)
	assert.Equal(t, 2.0, cfg.Params["tau"])

	cfg.Params["tau"] = 7
	assert.Equal(t, 2.0, GetPreset("decay", "euler").Params["tau"], "presets must be copied")
}

func TestGetPreset_NotFound(t *testing.T) {
	assert.Nil(t, GetPreset("decay", "nonexistent"))
	assert.Nil(t, GetPreset("nonexistent", "euler"))
}

func TestListPresets(t *testing.T) {
	assert.Equal(t, []string{"base", "euler", "l50", "r100", "v5"}, ListPresets("rl"))
	assert.Nil(t, ListPresets("nonexistent"))
}

func TestDrivenPresetsFollowFrequencySweep(t *testing.T) {
	assert.Equal(t, []string{"omega", "omega-0.5", "omega-0.9"}, ListPresets("driven"))

	for name, omega := range map[string]float64{"omega": 1.2, "omega-0.9": 1.08, "omega-0.5": 0.6} {
		p := GetPreset("driven", name)
		require.NotNil(t, p, name)
		assert.InDelta(t, omega, p.Params["omega"], 1e-12, name)
		assert.Equal(t, 1000, p.EvalPoints, name)

		dc := p.ToDynamo(dynamo.State{0, 0}, 0, 1)
		require.Len(t, dc.EvalTimes, 1000, name)
		assert.Equal(t, 50.0, dc.EvalTimes[999], name)
	}
}

func TestNonlinearEulerPresetStep(t *testing.T) {
	p := GetPreset("nonlinear", "euler")
	require.NotNil(t, p)
	assert.Equal(t, 0.05, p.Dt)
	assert.Equal(t, []float64{1}, p.InitState)
}

func TestPresetsValidate(t *testing.T) {
	for model, presets := range Presets {
		for name, p := range presets {
			assert.Equal(t, model, p.Model, "%s/%s", model, name)
			dc := p.ToDynamo(dynamo.State{0, 0}, 0, 1)
			assert.NoError(t, dc.Validate(), "%s/%s", model, name)
		}
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ODEKIT_LOG_FORMAT=json\n"), 0644))
	t.Setenv("ODEKIT_DATA", dir)
	t.Setenv("ODEKIT_LOG_FORMAT", "")
	os.Unsetenv("ODEKIT_LOG_FORMAT")

	cfg, err := LoadEnv(path, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "warn", cfg.LogLevel)
}
