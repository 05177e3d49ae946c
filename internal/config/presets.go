package config

import "sort"

var Presets = map[string]*Config{
	// 401 steps from C=0.00132 to 0.00192, well below the exceptional point.
	"reference": DefaultConfig(),
	"lossless": {
		Name: "lossless", BaseEnergy: Complex(complex(1.371, -0.00009)), OtherEnergy: Complex(complex(1.371, -0.00009)),
		LossIncrement: 0, InitialCoupling: 0.00132, CouplingIncrement: 0.0000015, StepCount: 401,
		GapTolerance: DefaultGapTolerance,
	},
	// Straddles C_EP = 0.012438968/2.
	"exceptional": {
		Name: "exceptional", BaseEnergy: Complex(complex(1.371, -0.00009)), OtherEnergy: Complex(complex(1.371, -0.00009)),
		LossIncrement: Complex(complex(0, 0.012438968)), InitialCoupling: 0.0055, CouplingIncrement: 0.00001, StepCount: 150,
		GapTolerance: DefaultGapTolerance,
	},
	"detuned": {
		Name: "detuned", BaseEnergy: Complex(complex(1.3725, -0.00009)), OtherEnergy: Complex(complex(1.371, -0.00009)),
		LossIncrement: Complex(complex(0, 0.012438968)), InitialCoupling: 0.0005, CouplingIncrement: 0.00002, StepCount: 400,
		GapTolerance: DefaultGapTolerance,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
