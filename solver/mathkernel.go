package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// expHardening is exp(x), named at the call site in force.go/implicit.go
// to document that it implements the hardening law's e = exp(xi*(1-J_P)).
func expHardening(x float64) float64 {
	return math.Exp(x)
}

// svd3 factors a 3x3 matrix m = U * diag(sigma) * V^T, with full U and V.
// Backed by gonum's Golub-Reinsch SVD rather than a hand-rolled Jacobi
// sweep; singular values come back sorted descending, which is fine for
// the polar-decomposition and plastic-clamp uses below since neither
// depends on a particular ordering.
func svd3(m Mat3) (u, v Mat3, sigma Vec3, ok bool) {
	a := mat.NewDense(3, 3, m.Flatten())

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDFull) {
		return Mat3{}, Mat3{}, Vec3{}, false
	}

	var uD, vD mat.Dense
	svd.UTo(&uD)
	svd.VTo(&vD)
	vals := svd.Values(nil)

	return denseToMat3(&uD), denseToMat3(&vD), Vec3{vals[0], vals[1], vals[2]}, true
}

func denseToMat3(d *mat.Dense) Mat3 {
	var m Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = d.At(i, j)
		}
	}
	return m
}

// polarRot returns the rotation factor R of the polar decomposition m = R*S.
func polarRot(m Mat3) (Mat3, bool) {
	u, v, _, ok := svd3(m)
	if !ok {
		return Mat3{}, false
	}
	return u.Mul(v.T()), true
}

// polarDecompose returns m = R*S with R orthogonal and S symmetric PSD.
func polarDecompose(m Mat3) (r, s Mat3, ok bool) {
	u, v, sigma, ok := svd3(m)
	if !ok {
		return Mat3{}, Mat3{}, false
	}
	r = u.Mul(v.T())
	s = v.Mul(Diag3(sigma)).Mul(v.T())
	return r, s, true
}

// PolarDecompose is the exported form of polarDecompose, for callers
// outside the package.
func PolarDecompose(m Mat3) (r, s Mat3, ok bool) {
	return polarDecompose(m)
}

// PolarRot is the exported form of polarRot.
func PolarRot(m Mat3) (Mat3, bool) {
	return polarRot(m)
}

// SVD3 is the exported form of svd3.
func SVD3(m Mat3) (u, v Mat3, sigma Vec3, ok bool) {
	return svd3(m)
}

// ddot is the Frobenius (double-contraction) inner product Σ a_ij b_ij.
func ddot(a, b Mat3) float64 {
	var s float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s += a[i][j] * b[i][j]
		}
	}
	return s
}

// cofactor3 returns cof(F) = det(F)*F^-T, computed directly from the 2x2
// minors rather than via a general matrix inverse.
func cofactor3(f Mat3) Mat3 {
	return Mat3{
		{
			f[1][1]*f[2][2] - f[1][2]*f[2][1],
			f[1][2]*f[2][0] - f[1][0]*f[2][2],
			f[1][0]*f[2][1] - f[1][1]*f[2][0],
		},
		{
			f[0][2]*f[2][1] - f[0][1]*f[2][2],
			f[0][0]*f[2][2] - f[0][2]*f[2][0],
			f[0][1]*f[2][0] - f[0][0]*f[2][1],
		},
		{
			f[0][1]*f[1][2] - f[0][2]*f[1][1],
			f[0][2]*f[1][0] - f[0][0]*f[1][2],
			f[0][0]*f[1][1] - f[0][1]*f[1][0],
		},
	}
}
