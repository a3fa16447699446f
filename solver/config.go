package solver

// Config carries the scalar material and solver parameters that spec.md
// §3 lists on "solver state" (h, 1/h, Δt, mu0, lambda0, xi, theta_c,
// theta_s, alpha, beta), plus the ambient additions needed to stand the
// solver up outside a single hard-coded scene: gravity, the collider
// list, and the implicit-solve enable flag.
type Config struct {
	H       float64
	DT      float64
	Mu0     float64
	Lambda0 float64

	Hardening          float64 // xi
	CriticalCompression float64 // theta_c
	CriticalStretch     float64 // theta_s

	FlipAlpha float64 // alpha in [0,1]

	ImplicitEnabled bool
	ImplicitBeta    float64 // beta in [0,1]

	Gravity   Vec3
	Colliders []Collider
}

// DefaultConfig mirrors the reference simulator's snowball scene
// constants (sim-gen-snowball.cpp) with the implicit solve disabled, the
// shipped default per §4.7.
func DefaultConfig() Config {
	return Config{
		H:                   0.0144,
		DT:                  1e-5,
		Mu0:                 58333,
		Lambda0:             38889,
		Hardening:           10,
		CriticalCompression: 0.025,
		CriticalStretch:     0.0075,
		FlipAlpha:           0.95,
		ImplicitEnabled:     false,
		ImplicitBeta:        1,
		Gravity:             Vec3{0, 0, -9.8},
		Colliders:           []Collider{FloorCollider{Z: 0.1, FrictionCoef: 1.0}},
	}
}

// NewConfig validates cfg against §7's ConfigError conditions and
// returns it unchanged on success.
func NewConfig(cfg Config) (Config, error) {
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants §7 assigns to ConfigError: positive h,
// positive Δt, and a PIC/FLIP blend and implicit beta within [0,1]. The
// material constants (mu0, lambda0, xi, theta_c, theta_s) are not checked.
func (c Config) Validate() error {
	if c.H <= 0 {
		return &ConfigError{Field: "h", Value: c.H}
	}
	if c.DT <= 0 {
		return &ConfigError{Field: "dt", Value: c.DT}
	}
	if c.FlipAlpha < 0 || c.FlipAlpha > 1 {
		return &ConfigError{Field: "flip_alpha", Value: c.FlipAlpha}
	}
	if c.ImplicitBeta < 0 || c.ImplicitBeta > 1 {
		return &ConfigError{Field: "implicit_beta", Value: c.ImplicitBeta}
	}
	return nil
}
