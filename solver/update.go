package solver

// particleUpdate performs §4.9, steps 7-10, for every particle: velocity
// gradient gather, deformation gradient split with SVD plastic clamp,
// PIC/FLIP blend, collision, and advection.
func (s *Solver) particleUpdate() {
	s.pool.forEach(len(s.particles), func(pi int) {
		p := &s.particles[pi]

		var gradV Mat3
		var vPic, vFlipDelta Vec3
		for _, g := range neighborhood(p.Position, s.cfg.H) {
			if !s.grid.Valid(g[0], g[1], g[2]) {
				continue
			}
			node := s.grid.At(g[0], g[1], g[2])
			w := weight(p.Position, g, s.cfg.H)
			grad := weightGrad(p.Position, g, s.cfg.H)

			gradV = gradV.Add(node.VNext.Outer(grad))
			vPic = vPic.Add(node.VNext.Scale(w))
			vFlipDelta = vFlipDelta.Add(node.VNext.Sub(node.VCurr).Scale(w))
		}

		m := Identity3().Add(gradV.Scale(s.cfg.DT))
		fPrime := m.Mul(p.DeformElastic).Mul(p.DeformPlastic)
		fElasticPrime := m.Mul(p.DeformElastic)

		u, v, sigma, ok := svd3(fElasticPrime)
		if !ok {
			u, v, sigma = Identity3(), Identity3(), Vec3{1, 1, 1}
		}
		clamped := Vec3{
			clamp(sigma[0], 1-s.cfg.CriticalCompression, 1+s.cfg.CriticalStretch),
			clamp(sigma[1], 1-s.cfg.CriticalCompression, 1+s.cfg.CriticalStretch),
			clamp(sigma[2], 1-s.cfg.CriticalCompression, 1+s.cfg.CriticalStretch),
		}

		p.DeformElastic = u.Mul(Diag3(clamped)).Mul(v.T())
		inv := Vec3{1 / clamped[0], 1 / clamped[1], 1 / clamped[2]}
		p.DeformPlastic = v.Mul(Diag3(inv)).Mul(u.T()).Mul(fPrime)

		vFlip := p.VCurr.Add(vFlipDelta)
		vBlend := vPic.Scale(1 - s.cfg.FlipAlpha).Add(vFlip.Scale(s.cfg.FlipAlpha))

		vBlend = collide(p.Position, vBlend, s.cfg.Colliders)
		p.VNext = vBlend

		p.Position = p.Position.Add(vBlend.Scale(s.cfg.DT))
	})
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
