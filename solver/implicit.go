package solver

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	crTolerance = 1e-10
	crMaxIters  = 500
)

// implicitSolve performs §4.7: a matrix-free conjugate-residual solve of
// A·v = v* where A·v = v - (β·Δt/m_g)·δf(v). When disabled it sets
// v^{n+1} = v*, bit-identical to the explicit path (§4.6/§4.7). On
// non-convergence it logs a warning and uses the best iterate.
func (s *Solver) implicitSolve() {
	n := len(s.grid.nodes)
	vStar := make([]Vec3, n)
	for i := range s.grid.nodes {
		vStar[i] = s.grid.nodes[i].VStar
	}

	if !s.cfg.ImplicitEnabled {
		for i := range s.grid.nodes {
			s.grid.nodes[i].VNext = vStar[i]
		}
		return
	}

	sol, iters, residual, converged := s.conjugateResidual(vStar)
	if !converged {
		slog.Warn("implicit solve did not converge, using best iterate",
			"iterations", iters, "residual", residual)
	}
	for i := range s.grid.nodes {
		s.grid.nodes[i].VNext = sol[i]
	}
}

// applyOperator computes A·v = v - (β·Δt/m_g)·δf(v) for every node.
func (s *Solver) applyOperator(v []Vec3) []Vec3 {
	deltaForce := s.deltaForce(v)
	out := make([]Vec3, len(v))
	for i := range s.grid.nodes {
		m := s.grid.nodes[i].Mass
		if m <= 0 {
			out[i] = Vec3{}
			continue
		}
		out[i] = v[i].Sub(deltaForce[i].Scale(s.cfg.ImplicitBeta * s.cfg.DT / m))
	}
	return out
}

// deltaForce computes δf(v), the first-order change in nodal elastic
// force under the virtual nodal-velocity field v, per §4.7 steps 1-4.
func (s *Solver) deltaForce(v []Vec3) []Vec3 {
	out := make([]Vec3, len(v))

	for pi := range s.particles {
		p := &s.particles[pi]

		var gradV Mat3
		for _, g := range neighborhood(p.Position, s.cfg.H) {
			if !s.grid.Valid(g[0], g[1], g[2]) {
				continue
			}
			grad := weightGrad(p.Position, g, s.cfg.H)
			idx := s.grid.index(g[0], g[1], g[2])
			gradV = gradV.Add(v[idx].Outer(grad))
		}
		deltaFE := gradV.Mul(p.DeformElastic).Scale(s.cfg.DT)

		r, sMat, ok := polarDecompose(p.DeformElastic)
		if !ok {
			r, sMat = Identity3(), Identity3()
		}

		omega := r.T().Mul(deltaFE).Sub(deltaFE.T().Mul(r))
		deltaR := solveDeltaRotation(r, sMat, omega)

		je := p.DeformElastic.Det()
		cof := cofactor3(p.DeformElastic)
		deltaCof := deltaCofactor3(p.DeformElastic, deltaFE)
		deltaJE := ddot(cof, deltaFE)

		jp := p.DeformPlastic.Det()
		e := expHardening(s.cfg.Hardening * (1 - jp))
		mu := s.cfg.Mu0 * e
		lambda := s.cfg.Lambda0 * e

		deltaP := deltaFE.Sub(deltaR).Scale(2 * mu)
		deltaP = deltaP.Add(cof.Scale(deltaJE).Add(deltaCof.Scale(je - 1)).Scale(lambda))

		for _, g := range neighborhood(p.Position, s.cfg.H) {
			if !s.grid.Valid(g[0], g[1], g[2]) {
				continue
			}
			grad := weightGrad(p.Position, g, s.cfg.H)
			if grad == (Vec3{}) {
				continue
			}
			idx := s.grid.index(g[0], g[1], g[2])
			contribution := deltaP.Mul(p.DeformElastic.T()).MulVec(grad).Scale(p.Volume0)
			out[idx] = out[idx].Sub(contribution)
		}
	}

	return out
}

// solveDeltaRotation solves the 3x3 linear system of §4.7 step 2 for the
// skew-symmetric generator (a,b,c) of δR, given (R,S) = polarDecompose(F_E)
// and the skew part Ω = Rᵀ·δF_E − δF_Eᵀ·R.
func solveDeltaRotation(r, s Mat3, omega Mat3) Mat3 {
	coeff := Mat3{
		{s[0][0] + s[1][1], s[1][2], -s[0][2]},
		{s[2][1], s[0][0] + s[2][2], s[1][0]},
		{-s[0][2], s[0][1], s[1][1] + s[2][2]},
	}
	rhs := Vec3{omega[0][1], omega[0][2], omega[1][2]}

	abc, ok := solve3(coeff, rhs)
	if !ok {
		return Mat3{}
	}
	a, b, c := abc[0], abc[1], abc[2]
	gen := Mat3{
		{0, -a, -b},
		{a, 0, -c},
		{b, c, 0},
	}
	return r.Mul(gen)
}

// solve3 solves the 3x3 linear system m*x = b via Cramer's rule.
func solve3(m Mat3, b Vec3) (Vec3, bool) {
	det := m.Det()
	if det == 0 {
		return Vec3{}, false
	}
	col := func(i int) Mat3 {
		c := m
		for row := 0; row < 3; row++ {
			c[row][i] = b[row]
		}
		return c
	}
	return Vec3{
		col(0).Det() / det,
		col(1).Det() / det,
		col(2).Det() / det,
	}, true
}

// deltaCofactor3 differentiates cof(F) = det(F)*F^-T componentwise via
// the product rule applied to cofactor3's 2x2-minor formulas.
func deltaCofactor3(f, df Mat3) Mat3 {
	prod := func(a, b, da, db float64) float64 {
		return da*b + a*db
	}
	return Mat3{
		{
			prod(f[1][1], f[2][2], df[1][1], df[2][2]) - prod(f[1][2], f[2][1], df[1][2], df[2][1]),
			prod(f[1][2], f[2][0], df[1][2], df[2][0]) - prod(f[1][0], f[2][2], df[1][0], df[2][2]),
			prod(f[1][0], f[2][1], df[1][0], df[2][1]) - prod(f[1][1], f[2][0], df[1][1], df[2][0]),
		},
		{
			prod(f[0][2], f[2][1], df[0][2], df[2][1]) - prod(f[0][1], f[2][2], df[0][1], df[2][2]),
			prod(f[0][0], f[2][2], df[0][0], df[2][2]) - prod(f[0][2], f[2][0], df[0][2], df[2][0]),
			prod(f[0][1], f[2][0], df[0][1], df[2][0]) - prod(f[0][0], f[2][1], df[0][0], df[2][1]),
		},
		{
			prod(f[0][1], f[1][2], df[0][1], df[1][2]) - prod(f[0][2], f[1][1], df[0][2], df[1][1]),
			prod(f[0][2], f[1][0], df[0][2], df[1][0]) - prod(f[0][0], f[1][2], df[0][0], df[1][2]),
			prod(f[0][0], f[1][1], df[0][0], df[1][1]) - prod(f[0][1], f[1][0], df[0][1], df[1][0]),
		},
	}
}

// conjugateResidual solves A·x = b for the grid velocity field via
// matrix-free conjugate residual iteration (§4.7): residual ≤
// crTolerance or crMaxIters, whichever comes first.
func (s *Solver) conjugateResidual(b []Vec3) (x []Vec3, iters int, residual float64, converged bool) {
	n := len(b)
	x = make([]Vec3, n)
	r := make([]Vec3, n)
	copy(r, b) // x0 = 0, so r0 = b - A*0 = b

	p := make([]Vec3, n)
	copy(p, r)
	ap := s.applyOperator(p)

	bNorm := vecNorm(b)
	if bNorm == 0 {
		return x, 0, 0, true
	}

	for iters = 0; iters < crMaxIters; iters++ {
		rAr := vecDot(r, ap)
		apNormSq := vecDot(ap, ap)
		if apNormSq == 0 {
			break
		}
		alpha := rAr / apNormSq

		for i := 0; i < n; i++ {
			x[i] = x[i].Add(p[i].Scale(alpha))
			r[i] = r[i].Sub(ap[i].Scale(alpha))
		}

		residual = vecNorm(r) / bNorm
		if residual <= crTolerance {
			return x, iters + 1, residual, true
		}

		ar := s.applyOperator(r)
		rArNew := vecDot(r, ar)
		if rAr == 0 {
			break
		}
		beta := rArNew / rAr

		for i := 0; i < n; i++ {
			p[i] = r[i].Add(p[i].Scale(beta))
			ap[i] = ar[i].Add(ap[i].Scale(beta))
		}
	}

	return x, iters, residual, false
}

func vecDot(a, b []Vec3) float64 {
	fa := make([]float64, 0, len(a)*3)
	fb := make([]float64, 0, len(b)*3)
	for i := range a {
		fa = append(fa, a[i][0], a[i][1], a[i][2])
		fb = append(fb, b[i][0], b[i][1], b[i][2])
	}
	return floats.Dot(fa, fb)
}

func vecNorm(a []Vec3) float64 {
	return math.Sqrt(vecDot(a, a))
}
