package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/coupledmode/internal/coupling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "reference", cfg.Name)
	assert.Equal(t, coupling.DefaultParams(), cfg.Params())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	data := `
name: custom
base_energy: "1.372-0.0001i"
loss_increment: 0.02i
step_count: 10
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "custom", cfg.Name)
	assert.Equal(t, Complex(complex(1.372, -0.0001)), cfg.BaseEnergy)
	assert.Equal(t, Complex(complex(0, 0.02)), cfg.LossIncrement)
	assert.Equal(t, 10, cfg.StepCount)
	// untouched keys keep their defaults
	assert.Equal(t, Complex(coupling.DefaultOtherEnergy), cfg.OtherEnergy)
	assert.Equal(t, coupling.DefaultInitialCoupling, cfg.InitialCoupling)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("base_energy: not-a-number\n"), 0644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "invalid complex value")

	nested := filepath.Join(dir, "nested.yaml")
	require.NoError(t, os.WriteFile(nested, []byte("base_energy: {re: 1}\n"), 0644))
	_, err = Load(nested)
	assert.ErrorContains(t, err, "must be a scalar")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := GetPreset("detuned")
	require.NotNil(t, cfg)

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg, loaded)
}

func TestComplex_YAML(t *testing.T) {
	type wrapper struct {
		V Complex `yaml:"v"`
	}
	orig := wrapper{Complex(complex(1.371, -0.00009))}
	out, err := yaml.Marshal(orig)
	require.NoError(t, err)
	assert.Contains(t, string(out), "1.371-9e-05i")

	var back wrapper
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, orig, back)

	tests := []struct {
		in   string
		want Complex
	}{
		{"v: 2", 2},
		{"v: -0.5", -0.5},
		{"v: 3i", Complex(complex(0, 3))},
		{`v: "(1-2i)"`, Complex(complex(1, -2))},
	}
	for _, tt := range tests {
		var got struct {
			V Complex `yaml:"v"`
		}
		require.NoError(t, yaml.Unmarshal([]byte(tt.in), &got), tt.in)
		assert.Equal(t, tt.want, got.V, tt.in)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StepCount = 0
	assert.ErrorIs(t, cfg.Validate(), coupling.ErrStepCount)

	tests := []struct {
		name string
		tol  float64
		ok   bool
	}{
		{"default", DefaultGapTolerance, true},
		{"zero", 0, true},
		{"negative", -1, false},
		{"nan", math.NaN(), false},
		{"+inf", math.Inf(1), false},
		{"-inf", math.Inf(-1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.GapTolerance = tt.tol
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.ErrorContains(t, cfg.Validate(), "gap_tolerance")
			}
		})
	}
}

func TestLoad_NaNGapTolerance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gap_tolerance: .nan\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("exceptional")
	require.NotNil(t, cfg)
	assert.Equal(t, 150, cfg.StepCount)
	assert.NoError(t, cfg.Validate())

	cfg.StepCount = 1
	assert.Equal(t, 150, GetPreset("exceptional").StepCount, "GetPreset must return a copy")
}

func TestGetPreset_NotFound(t *testing.T) {
	assert.Nil(t, GetPreset("nonexistent"))
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	assert.Equal(t, []string{"detuned", "exceptional", "lossless", "reference"}, names)

	for _, name := range names {
		assert.NoError(t, GetPreset(name).Validate(), name)
	}
}
