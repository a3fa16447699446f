// Package config provides configuration loading and access for the MPM
// simulator: grid/material/implicit-solver parameters plus the ambient
// output/telemetry knobs, loaded from an embedded default YAML merged
// with an optional user override file.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/snowmpm/snowmpm/solver"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	Material  MaterialConfig  `yaml:"material"`
	Implicit  ImplicitConfig  `yaml:"implicit"`
	Collision CollisionConfig `yaml:"collision"`
	Run       RunConfig       `yaml:"run"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	Derived DerivedConfig `yaml:"-"`
}

// GridConfig holds the uniform lattice's spacing and node extent.
type GridConfig struct {
	H  float64 `yaml:"h"`
	Nx int     `yaml:"nx"`
	Ny int     `yaml:"ny"`
	Nz int     `yaml:"nz"`
}

// MaterialConfig holds the fixed-corotated constitutive parameters.
type MaterialConfig struct {
	Mu0                 float64 `yaml:"mu0"`
	Lambda0             float64 `yaml:"lambda0"`
	Hardening           float64 `yaml:"hardening"`           // xi
	CriticalCompression float64 `yaml:"critical_compression"` // theta_c
	CriticalStretch     float64 `yaml:"critical_stretch"`     // theta_s
	FlipAlpha           float64 `yaml:"flip_alpha"`           // PIC/FLIP blend, alpha in [0,1]
}

// ImplicitConfig holds the optional implicit velocity solve's settings.
type ImplicitConfig struct {
	Enabled bool    `yaml:"enabled"`
	Beta    float64 `yaml:"beta"`
}

// CollisionConfig holds the reference floor collider's parameters.
// An implementer MAY add further colliders programmatically via
// solver.Config.Colliders; this is only the default single-floor case.
type CollisionConfig struct {
	FloorZ       float64 `yaml:"floor_z"`
	FloorFriction float64 `yaml:"floor_friction"`
}

// RunConfig holds the headless driver's step schedule and timing.
type RunConfig struct {
	DT       float64 `yaml:"dt"`
	MaxTicks int     `yaml:"max_ticks"`
	Seed     int64   `yaml:"seed"`
}

// TelemetryConfig holds output cadence for diagnostics and snapshots.
type TelemetryConfig struct {
	StatsWindow     float64 `yaml:"stats_window"`
	SnapshotEvery   int     `yaml:"snapshot_every"`
	PerfWindowTicks int     `yaml:"perf_window_ticks"`
}

// DerivedConfig holds values computed from the loaded config that are
// more convenient to carry pre-computed than to recompute at call sites.
type DerivedConfig struct {
	InvH float64 // 1/h
}

var global *Config

// Init loads configuration from the given path, or uses embedded
// defaults if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

func (c *Config) computeDerived() {
	if c.Grid.H > 0 {
		c.Derived.InvH = 1.0 / c.Grid.H
	}
}

// SolverConfig translates the loaded YAML configuration into a
// solver.Config, constructing the default floor collider from the
// collision section.
func (c *Config) SolverConfig() solver.Config {
	return solver.Config{
		H:                   c.Grid.H,
		DT:                  c.Run.DT,
		Mu0:                 c.Material.Mu0,
		Lambda0:             c.Material.Lambda0,
		Hardening:           c.Material.Hardening,
		CriticalCompression: c.Material.CriticalCompression,
		CriticalStretch:     c.Material.CriticalStretch,
		FlipAlpha:           c.Material.FlipAlpha,
		ImplicitEnabled:     c.Implicit.Enabled,
		ImplicitBeta:        c.Implicit.Beta,
		Gravity:             solver.Vec3{0, 0, -9.8},
		Colliders: []solver.Collider{
			solver.FloorCollider{Z: c.Collision.FloorZ, FrictionCoef: c.Collision.FloorFriction},
		},
	}
}

// WriteYAML writes the configuration to a YAML file, for run provenance.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
