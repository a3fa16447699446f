package solver

// computeForces performs §4.5, step 3: initializes every node's force to
// gravity, then accumulates the fixed-corotated stress contribution of
// every particle onto its 4³ neighborhood.
func (s *Solver) computeForces() {
	for i := range s.grid.nodes {
		n := &s.grid.nodes[i]
		n.Force = s.cfg.Gravity.Scale(n.Mass)
	}

	for pi := range s.particles {
		p := &s.particles[pi]

		jp := p.DeformPlastic.Det()
		je := p.DeformElastic.Det()

		e := expHardening(s.cfg.Hardening * (1 - jp))
		mu := s.cfg.Mu0 * e
		lambda := s.cfg.Lambda0 * e

		rE, ok := polarRot(p.DeformElastic)
		if !ok {
			rE = Identity3()
		}

		stress := p.DeformElastic.Sub(rE).Mul(p.DeformElastic.T()).Scale(2 * mu)
		stress = stress.Add(Identity3().Scale(lambda * (je - 1) * je))

		for _, g := range neighborhood(p.Position, s.cfg.H) {
			if !s.grid.Valid(g[0], g[1], g[2]) {
				continue
			}
			grad := weightGrad(p.Position, g, s.cfg.H)
			if grad == (Vec3{}) {
				continue
			}
			node := s.grid.At(g[0], g[1], g[2])
			contribution := stress.MulVec(grad).Scale(p.Volume0)
			node.Force = node.Force.Sub(contribution)
		}
	}
}
