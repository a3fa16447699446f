package solver

// Collider is the polymorphic contact surface §4.8's design note asks for,
// replacing the hard-coded floor with a queryable list.
type Collider interface {
	SignedDistanceAt(p Vec3) float64
	OutwardNormalAt(p Vec3) Vec3
	VelocityAt(p Vec3) Vec3
	Friction() float64
}

// FloorCollider is the reference simulator's single hard-coded collider:
// an infinite plane at z = Z with a static velocity and friction mu_f.
type FloorCollider struct {
	Z        float64
	FrictionCoef float64
}

func (f FloorCollider) SignedDistanceAt(p Vec3) float64 {
	return p[2] - f.Z
}

func (f FloorCollider) OutwardNormalAt(Vec3) Vec3 {
	return Vec3{0, 0, 1}
}

func (f FloorCollider) VelocityAt(Vec3) Vec3 {
	return Vec3{}
}

func (f FloorCollider) Friction() float64 {
	return f.FrictionCoef
}
