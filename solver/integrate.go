package solver

// integrateExplicit performs §4.6: for every positive-mass node,
// v* = v + Δt·f/m, then applies collision in place on v*.
func (s *Solver) integrateExplicit() {
	for i := range s.grid.nodes {
		n := &s.grid.nodes[i]
		if n.Mass <= 0 {
			n.VStar = Vec3{}
			continue
		}
		n.VStar = n.VCurr.Add(n.Force.Scale(s.cfg.DT / n.Mass))
		n.VStar = collide(n.Position(s.cfg.H), n.VStar, s.cfg.Colliders)
	}
}
