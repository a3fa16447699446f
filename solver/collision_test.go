package solver

import "testing"

func TestFloorColliderSignedDistance(t *testing.T) {
	f := FloorCollider{Z: 0.1, FrictionCoef: 0.5}
	if d := f.SignedDistanceAt(Vec3{0, 0, 0.2}); !almostEqual(d, 0.1, 1e-12) {
		t.Errorf("SignedDistanceAt above = %v, want 0.1", d)
	}
	if d := f.SignedDistanceAt(Vec3{0, 0, 0.05}); !almostEqual(d, -0.05, 1e-12) {
		t.Errorf("SignedDistanceAt below = %v, want -0.05", d)
	}
}

func TestFloorColliderNormalAndFriction(t *testing.T) {
	f := FloorCollider{Z: 0.1, FrictionCoef: 0.3}
	if n := f.OutwardNormalAt(Vec3{1, 2, 3}); n != (Vec3{0, 0, 1}) {
		t.Errorf("OutwardNormalAt = %v, want (0,0,1)", n)
	}
	if v := f.VelocityAt(Vec3{1, 2, 3}); v != (Vec3{}) {
		t.Errorf("VelocityAt = %v, want zero", v)
	}
	if mu := f.Friction(); mu != 0.3 {
		t.Errorf("Friction = %v, want 0.3", mu)
	}
}

func TestCollisionSlide(t *testing.T) {
	// Tangential speed exceeds what friction can fully arrest, so the
	// slide branch should leave a reduced, non-zero tangential component.
	f := FloorCollider{Z: 0.1, FrictionCoef: 0.1}
	pos := Vec3{0, 0, 0.09}
	v := Vec3{5, 0, -3}
	got := collideOne(pos, v, f)

	if got[2] != 0 {
		t.Errorf("normal component after slide should be zero, got %v", got[2])
	}
	if got[0] <= 0 || got[0] >= v[0] {
		t.Errorf("tangential component should be reduced but nonzero: got %v, original %v", got[0], v[0])
	}
}
