package config

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/san-kum/coupledmode/internal/coupling"
	"gopkg.in/yaml.v3"
)

const (
	DefaultName         = "reference"
	DefaultGapTolerance = 1e-9
)

// Config is the on-disk description of a sweep.
type Config struct {
	Name              string  `yaml:"name" json:"name"`
	BaseEnergy        Complex `yaml:"base_energy" json:"base_energy"`
	OtherEnergy       Complex `yaml:"other_energy" json:"other_energy"`
	LossIncrement     Complex `yaml:"loss_increment" json:"loss_increment"`
	InitialCoupling   float64 `yaml:"initial_coupling" json:"initial_coupling"`
	CouplingIncrement float64 `yaml:"coupling_increment" json:"coupling_increment"`
	StepCount         int     `yaml:"step_count" json:"step_count"`
	Workers           int     `yaml:"workers" json:"workers"`
	GapTolerance      float64 `yaml:"gap_tolerance" json:"gap_tolerance"`
}

// Complex is a complex128 that reads and writes as a Go complex literal
// such as "1.371-0.00009i". Plain numbers are accepted as real values.
type Complex complex128

func (c Complex) String() string {
	return strconv.FormatComplex(complex128(c), 'g', -1, 128)
}

func (c Complex) MarshalYAML() (any, error) {
	return c.String(), nil
}

func (c *Complex) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: complex value must be a scalar", node.Line)
	}
	v, err := ParseComplex(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = v
	return nil
}

func (c Complex) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Complex) UnmarshalText(text []byte) error {
	v, err := ParseComplex(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseComplex parses a complex literal, with or without parentheses.
func ParseComplex(s string) (Complex, error) {
	v, err := strconv.ParseComplex(s, 128)
	if err != nil {
		return 0, fmt.Errorf("invalid complex value %q: %w", s, err)
	}
	return Complex(v), nil
}

// DefaultConfig returns the reference sweep with the default gap tolerance.
func DefaultConfig() *Config {
	p := coupling.DefaultParams()
	return &Config{
		Name:              DefaultName,
		BaseEnergy:        Complex(p.BaseEnergy),
		OtherEnergy:       Complex(p.OtherEnergy),
		LossIncrement:     Complex(p.LossIncrement),
		InitialCoupling:   p.InitialCoupling,
		CouplingIncrement: p.CouplingIncrement,
		StepCount:         p.StepCount,
		GapTolerance:      DefaultGapTolerance,
	}
}

// Load reads a YAML file on top of DefaultConfig, so omitted keys keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the file form into sweep parameters.
func (c *Config) Params() coupling.Params {
	return coupling.Params{
		BaseEnergy:        complex128(c.BaseEnergy),
		OtherEnergy:       complex128(c.OtherEnergy),
		LossIncrement:     complex128(c.LossIncrement),
		InitialCoupling:   c.InitialCoupling,
		CouplingIncrement: c.CouplingIncrement,
		StepCount:         c.StepCount,
	}
}

// Validate checks the sweep parameters and the analysis tolerance.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if math.IsNaN(c.GapTolerance) || math.IsInf(c.GapTolerance, 0) || c.GapTolerance < 0 {
		return fmt.Errorf("gap_tolerance must be finite and non-negative, got %g", c.GapTolerance)
	}
	return nil
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
