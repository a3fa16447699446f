// Package scene builds particle sets for standard test configurations
// (SPEC_FULL.md §6.3), grounded on the reference simulator's
// sim-gen-snowball/sim-gen-slab routines. It is a pure adapter: it does
// not import solver, so the caller decides how to feed the specs in.
package scene

import "math"

// ParticleSpec is the subset of particle data a scene generator emits;
// the caller passes each one to (*solver.Solver).AddParticle.
type ParticleSpec struct {
	Position [3]float64
	Velocity [3]float64
	Mass     float64
}

// Snowball samples a cubic lattice of spacing `spacing` and keeps points
// within radius of center, matching sim-gen-snowball.cpp's sampling
// strategy. Mass per particle is density * spacing^3 (uniform cell
// volume), so the particle population's total mass approximates
// density * (4/3)*pi*radius^3 (S4).
func Snowball(center [3]float64, radius, density, spacing float64) []ParticleSpec {
	cellMass := density * spacing * spacing * spacing
	n := int(math.Ceil(radius / spacing))

	var specs []ParticleSpec
	for ix := -n; ix <= n; ix++ {
		for iy := -n; iy <= n; iy++ {
			for iz := -n; iz <= n; iz++ {
				p := [3]float64{
					center[0] + float64(ix)*spacing,
					center[1] + float64(iy)*spacing,
					center[2] + float64(iz)*spacing,
				}
				d := [3]float64{p[0] - center[0], p[1] - center[1], p[2] - center[2]}
				dist := math.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
				if dist > radius {
					continue
				}
				specs = append(specs, ParticleSpec{Position: p, Mass: cellMass})
			}
		}
	}
	return specs
}

// Slab samples a cubic lattice filling the axis-aligned box
// [origin, origin+extent], the second generator the original routine
// table names (sim-gen-slab).
func Slab(origin, extent [3]float64, density, spacing float64) []ParticleSpec {
	cellMass := density * spacing * spacing * spacing

	nx := int(math.Floor(extent[0] / spacing))
	ny := int(math.Floor(extent[1] / spacing))
	nz := int(math.Floor(extent[2] / spacing))

	specs := make([]ParticleSpec, 0, nx*ny*nz)
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			for iz := 0; iz < nz; iz++ {
				p := [3]float64{
					origin[0] + float64(ix)*spacing,
					origin[1] + float64(iy)*spacing,
					origin[2] + float64(iz)*spacing,
				}
				specs = append(specs, ParticleSpec{Position: p, Mass: cellMass})
			}
		}
	}
	return specs
}
