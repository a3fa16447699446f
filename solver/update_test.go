package solver

import "testing"

func TestClampBounds(t *testing.T) {
	cases := []struct {
		x, lo, hi, want float64
	}{
		{0.5, 0.9, 1.1, 0.9},
		{1.5, 0.9, 1.1, 1.1},
		{1.0, 0.9, 1.1, 1.0},
	}
	for _, c := range cases {
		if got := clamp(c.x, c.lo, c.hi); got != c.want {
			t.Errorf("clamp(%v,%v,%v) = %v, want %v", c.x, c.lo, c.hi, got, c.want)
		}
	}
}

// TestPlasticClampBoundsSingularValues checks §8 invariant 3: after
// particleUpdate, every singular value of F_E lies within
// [1-theta_c, 1+theta_s].
func TestPlasticClampBoundsSingularValues(t *testing.T) {
	cfg := testConfig()
	cfg.Colliders = nil
	s, err := New(cfg, 32, 32, 32)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Seed a particle with an already-extreme elastic deformation so the
	// clamp has something to do.
	if err := s.AddParticle(Vec3{0.2, 0.2, 0.2}, Vec3{0.5, 0, 0}, 0.001); err != nil {
		t.Fatal(err)
	}
	s.particles[0].DeformElastic = Diag3(Vec3{1.5, 0.5, 1.0})

	if err := s.Update(0, nil); err != nil {
		t.Fatal(err)
	}

	_, _, sigma, ok := svd3(s.particles[0].DeformElastic)
	if !ok {
		t.Fatal("svd3 failed after update")
	}
	lo := 1 - cfg.CriticalCompression
	hi := 1 + cfg.CriticalStretch
	for i := 0; i < 3; i++ {
		if sigma[i] < lo-1e-9 || sigma[i] > hi+1e-9 {
			t.Errorf("singular value %v out of clamp range [%v,%v]", sigma[i], lo, hi)
		}
	}
}
