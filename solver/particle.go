package solver

// Particle is one Lagrangian sample carried by the solver.
type Particle struct {
	Position Vec3
	KinematicState
	Mass          float64
	Volume0       float64
	VolumeSet     bool
	DeformElastic Mat3 // F_E
	DeformPlastic Mat3 // F_P
}

// NewParticle builds a particle with identity deformation gradients, per
// the §3 data-model default.
func NewParticle(pos, vel Vec3, mass float64) Particle {
	return Particle{
		Position:       pos,
		KinematicState: KinematicState{VCurr: vel, VNext: vel},
		Mass:           mass,
		DeformElastic:  Identity3(),
		DeformPlastic:  Identity3(),
	}
}

// IsFinite reports whether the particle's numeric state is finite, the
// check the end-of-tick NumericalError scan (§7) relies on.
func (p *Particle) IsFinite() bool {
	return p.Position.IsFinite() && p.VCurr.IsFinite() && p.VNext.IsFinite() &&
		p.DeformElastic.IsFinite() && p.DeformPlastic.IsFinite()
}
