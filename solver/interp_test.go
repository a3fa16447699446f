package solver

import "testing"

// TestPartitionOfUnity checks §8's invariant 4: for any particle
// position, the cubic B-spline weights over its 4³ neighborhood sum to 1.
func TestPartitionOfUnity(t *testing.T) {
	h := 0.02
	positions := []Vec3{
		{0.101, 0.203, 0.307},
		{0, 0, 0},
		{0.02, 0.02, 0.02},
		{0.0199, 0.0001, 0.0301},
	}
	for _, p := range positions {
		var sum float64
		for _, g := range neighborhood(p, h) {
			sum += weight(p, g, h)
		}
		if !almostEqual(sum, 1, 1e-9) {
			t.Errorf("weights for p=%v sum to %v, want 1", p, sum)
		}
	}
}

// TestGradientSumsToZero checks the companion identity: the gradient of
// a partition of unity sums to zero over the same neighborhood.
func TestGradientSumsToZero(t *testing.T) {
	h := 0.02
	p := Vec3{0.137, 0.054, 0.091}
	var sum Vec3
	for _, g := range neighborhood(p, h) {
		sum = sum.Add(weightGrad(p, g, h))
	}
	if sum.Length() > 1e-8 {
		t.Errorf("gradient sum = %v, want ~0", sum)
	}
}

func TestBspline1Support(t *testing.T) {
	if bspline1(2.5) != 0 {
		t.Error("bspline1 should vanish outside [-2,2]")
	}
	if bspline1(0) <= 0 {
		t.Error("bspline1(0) should be positive")
	}
}

func TestNeighborhoodSize(t *testing.T) {
	locs := neighborhood(Vec3{0.1, 0.1, 0.1}, 0.02)
	if len(locs) != 64 {
		t.Errorf("expected 4^3=64 candidate nodes, got %d", len(locs))
	}
}
