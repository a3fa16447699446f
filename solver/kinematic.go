package solver

// KinematicState is the velocity bookkeeping shared by grid nodes and
// particles: a double-buffered velocity plus a transient intermediate
// value produced mid-tick. Composition stands in for the base-class
// velocity/collision fields of the original node hierarchy.
type KinematicState struct {
	VCurr Vec3 // v^n
	VNext Vec3 // v^{n+1}
	VStar Vec3 // v* (post force-integration, pre implicit solve)
}

// collide projects v against every active collider and returns the
// corrected velocity. It is a free function rather than a method on
// Collider so it can be shared by both the grid (§4.6/§4.8) and the
// particle update (§4.9, step 6) call sites.
func collide(pos Vec3, v Vec3, colliders []Collider) Vec3 {
	for _, c := range colliders {
		v = collideOne(pos, v, c)
	}
	return v
}

// collideOne applies the stick/slide procedure of a single collider.
func collideOne(pos Vec3, vStar Vec3, c Collider) Vec3 {
	phi := c.SignedDistanceAt(pos)
	if phi > 0 {
		return vStar
	}
	n := c.OutwardNormalAt(pos)
	vco := c.VelocityAt(pos)
	vrel := vStar.Sub(vco)

	vn := vrel.Dot(n)
	if vn >= 0 {
		return vStar
	}

	vt := vrel.Sub(n.Scale(vn))
	mu := c.Friction()

	vtLen := vt.Length()
	if vtLen <= -mu*vn {
		vrel = Vec3{}
	} else {
		vrel = vt.Add(vt.Scale(mu * vn / vtLen))
	}
	return vrel.Add(vco)
}
