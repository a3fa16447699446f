package solver

// rasterize performs §4.3, step 1: particle-to-grid mass/momentum
// transfer followed by the momentum->velocity divide on every
// positive-mass node.
func (s *Solver) rasterize() {
	s.grid.Reset()

	type momentumAccum struct {
		mass     float64
		momentum Vec3
	}
	accum := make(map[int]*momentumAccum, len(s.particles)*8)

	for pi := range s.particles {
		p := &s.particles[pi]
		for _, g := range neighborhood(p.Position, s.cfg.H) {
			if !s.grid.Valid(g[0], g[1], g[2]) {
				continue
			}
			w := weight(p.Position, g, s.cfg.H)
			if w == 0 {
				continue
			}
			idx := s.grid.index(g[0], g[1], g[2])
			a, ok := accum[idx]
			if !ok {
				a = &momentumAccum{}
				accum[idx] = a
			}
			a.mass += p.Mass * w
			a.momentum = a.momentum.Add(p.VCurr.Scale(p.Mass * w))
		}
	}

	for idx, a := range accum {
		n := &s.grid.nodes[idx]
		n.Mass = a.mass
		if a.mass > 0 {
			n.VCurr = a.momentum.Scale(1.0 / a.mass)
		} else {
			n.VCurr = Vec3{}
		}
	}
}

// initVolumes performs §4.4, the one-shot initialization tick executed
// only when tick_index == 0: nodal density, per-particle density
// gather, and the volume0 = mass/density freeze.
func (s *Solver) initVolumes() {
	h3 := s.cfg.H * s.cfg.H * s.cfg.H

	for i := range s.grid.nodes {
		s.grid.nodes[i].Density0 = s.grid.nodes[i].Mass / h3
	}

	s.pool.forEach(len(s.particles), func(pi int) {
		p := &s.particles[pi]
		var rho float64
		for _, g := range neighborhood(p.Position, s.cfg.H) {
			if !s.grid.Valid(g[0], g[1], g[2]) {
				continue
			}
			node := s.grid.At(g[0], g[1], g[2])
			if node.Mass == 0 {
				continue
			}
			w := weight(p.Position, g, s.cfg.H)
			rho += node.Density0 * w
		}
		if rho > 0 {
			p.Volume0 = p.Mass / rho
		}
		p.VolumeSet = true
	})
}
