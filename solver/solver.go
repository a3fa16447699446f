package solver

import "fmt"

// Solver owns the grid and particle set exclusively and is the sole
// mutator of both, per §3's ownership model.
type Solver struct {
	cfg       Config
	grid      *Grid
	particles []Particle
	pool      *workerPool

	tick        uint64
	initialized bool
}

// New builds a solver over a Grid of the given node extent at the
// configured spacing, with no particles yet (§6: new(h, size_nodes)).
func New(cfg Config, nx, ny, nz int) (*Solver, error) {
	if _, err := NewConfig(cfg); err != nil {
		return nil, err
	}
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, &ConfigError{Field: "grid extent"}
	}
	return &Solver{
		cfg:  cfg,
		grid: NewGrid(nx, ny, nz, cfg.H),
		pool: newWorkerPool(),
	}, nil
}

// Close releases the solver's persistent worker pool. Safe to call once
// a solver is no longer in use.
func (s *Solver) Close() {
	s.pool.stop()
}

// AddParticle appends a particle with identity deformation gradients
// (§6: add_particle). Once the solver has run its n==0 tick, a new
// particle arrives with no frozen volume0 and must carry one explicitly
// via AddParticleWithVolume, or it is rejected (§9, last note).
func (s *Solver) AddParticle(pos, vel Vec3, mass float64) error {
	if mass <= 0 {
		return &ConfigError{Field: "particle mass", Value: mass}
	}
	p := NewParticle(pos, vel, mass)
	if s.initialized {
		return &StateError{Reason: "cannot add a particle without volume0 after tick 0"}
	}
	s.particles = append(s.particles, p)
	return nil
}

// AddParticleWithVolume appends a particle that already carries a frozen
// volume0, the escape hatch §9's last design note requires for particles
// introduced after the initialization tick.
func (s *Solver) AddParticleWithVolume(pos, vel Vec3, mass, volume0 float64) error {
	if mass <= 0 {
		return &ConfigError{Field: "particle mass", Value: mass}
	}
	p := NewParticle(pos, vel, mass)
	p.Volume0 = volume0
	p.VolumeSet = true
	s.particles = append(s.particles, p)
	return nil
}

// Particles returns a read-only snapshot of the particle set (§6).
func (s *Solver) Particles() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

// Grid returns the solver's grid. Callers must treat it as read-only;
// the solver is the sole writer by contract (§9, friend-access note).
func (s *Solver) Grid() *Grid {
	return s.grid
}

// Tick returns the number of completed ticks.
func (s *Solver) Tick() uint64 {
	return s.tick
}

// Config returns the solver's parameter set.
func (s *Solver) Config() Config {
	return s.cfg
}

// Update advances the simulation by one tick (§4.10): rasterize, the
// one-shot volume initialization when tickIndex==0, force computation,
// explicit integration and collision, the (optional) implicit solve,
// and the particle update. tickIndex must equal the solver's own tick
// counter; §6 requires tick_index == 0 exactly once per simulation.
// timer may be nil; when non-nil it receives a StartPhase call ahead of
// each named sub-step, for the ambient wall-clock phase breakdown.
func (s *Solver) Update(tickIndex uint64, timer PhaseTimer) error {
	if tickIndex != s.tick {
		return &StateError{Reason: fmt.Sprintf("expected tick %d, got %d", s.tick, tickIndex)}
	}

	startPhase(timer, PhaseRasterize)
	s.rasterize()

	if tickIndex == 0 {
		startPhase(timer, PhaseInitVolumes)
		s.initVolumes()
		s.initialized = true
	} else if !s.initialized {
		return &StateError{Reason: "volume0 referenced before the n==0 initialization tick"}
	}

	startPhase(timer, PhaseForces)
	s.computeForces()
	startPhase(timer, PhaseExplicit)
	s.integrateExplicit()
	startPhase(timer, PhaseImplicit)
	s.implicitSolve()
	startPhase(timer, PhaseParticleUpdate)
	s.particleUpdate()

	for i := range s.particles {
		s.particles[i].VCurr = s.particles[i].VNext
	}

	if err := s.checkFinite(); err != nil {
		return err
	}

	s.tick++
	return nil
}

// checkFinite is the end-of-tick NumericalError scan §7 requires: every
// particle's deformation gradients must be finite with det(F_E) > 0.
func (s *Solver) checkFinite() error {
	for i := range s.particles {
		p := &s.particles[i]
		if !p.IsFinite() {
			return &NumericalError{ParticleIndex: i, Reason: "non-finite particle state"}
		}
		if p.DeformElastic.Det() <= 0 {
			return &NumericalError{ParticleIndex: i, Reason: "det(F_E) <= 0"}
		}
	}
	return nil
}
