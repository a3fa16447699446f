package solver

import "math"

// bspline1 is the 1-D cubic B-spline N(x), compactly supported on [-2,2].
func bspline1(x float64) float64 {
	ax := math.Abs(x)
	switch {
	case ax < 1:
		return 0.5*ax*ax*ax - ax*ax + 2.0/3.0
	case ax < 2:
		return -ax*ax*ax/6.0 + ax*ax - 2*ax + 4.0/3.0
	default:
		return 0
	}
}

// bspline1Grad is N'(x), the piecewise derivative of bspline1.
func bspline1Grad(x float64) float64 {
	ax := math.Abs(x)
	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	switch {
	case ax < 1:
		return sign * (1.5*ax*ax - 2*ax)
	case ax < 2:
		return sign * (-0.5*ax*ax + 2*ax - 2)
	default:
		return 0
	}
}

// weight returns w(g,p) = N(dx)N(dy)N(dz) for node location g and particle
// position p on a grid of spacing h.
func weight(p Vec3, g [3]int, h float64) float64 {
	d := nodeOffset(p, g, h)
	return bspline1(d[0]) * bspline1(d[1]) * bspline1(d[2])
}

// weightGrad returns ∇w(g,p).
func weightGrad(p Vec3, g [3]int, h float64) Vec3 {
	d := nodeOffset(p, g, h)
	nx, ny, nz := bspline1(d[0]), bspline1(d[1]), bspline1(d[2])
	gx, gy, gz := bspline1Grad(d[0]), bspline1Grad(d[1]), bspline1Grad(d[2])
	inv := 1.0 / h
	return Vec3{
		inv * gx * ny * nz,
		inv * nx * gy * nz,
		inv * nx * ny * gz,
	}
}

// nodeOffset returns d = (p-g)/h componentwise, g given as a node location.
func nodeOffset(p Vec3, g [3]int, h float64) Vec3 {
	return Vec3{
		(p[0] - float64(g[0])*h) / h,
		(p[1] - float64(g[1])*h) / h,
		(p[2] - float64(g[2])*h) / h,
	}
}

// neighborhood returns the at-most-4³ grid locations a particle at p
// couples to: ⌊p/h⌋-1 … ⌊p/h⌋+2 along each axis.
func neighborhood(p Vec3, h float64) [][3]int {
	base := [3]int{
		int(math.Floor(p[0]/h)) - 1,
		int(math.Floor(p[1]/h)) - 1,
		int(math.Floor(p[2]/h)) - 1,
	}
	locs := make([][3]int, 0, 64)
	for dx := 0; dx < 4; dx++ {
		for dy := 0; dy < 4; dy++ {
			for dz := 0; dz < 4; dz++ {
				locs = append(locs, [3]int{base[0] + dx, base[1] + dy, base[2] + dz})
			}
		}
	}
	return locs
}
