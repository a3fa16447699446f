package solver

import (
	"runtime"
	"testing"
)

// TestFreeFallPositionAfter100Ticks is scenario S1 (free fall): no
// collider, 100 ticks, the particle should settle near
// z = z0 - 1/2*g*(n*dt)^2. spec.md's own worked S1 number (0.451) is
// only internally consistent for dt=1e-3; its prose states dt=1e-4,
// which under that same formula gives ~0.4995, not 0.451. This test
// uses dt=1e-3, matching the worked answer, per the resolution
// recorded in DESIGN.md.
func TestFreeFallPositionAfter100Ticks(t *testing.T) {
	cfg := testConfig()
	cfg.Colliders = nil
	cfg.DT = 1e-3
	s, err := New(cfg, 64, 64, 64)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.AddParticle(Vec3{0.5, 0.5, 0.5}, Vec3{}, 0.001); err != nil {
		t.Fatal(err)
	}

	for tick := 0; tick < 100; tick++ {
		if err := s.Update(uint64(tick), nil); err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
	}

	p := s.particles[0]
	if !almostEqual(p.Position[2], 0.451, 1e-3) {
		t.Errorf("z after 100 ticks = %v, want ~0.451", p.Position[2])
	}
	if !almostEqual(p.Position[0], 0.5, 1e-6) || !almostEqual(p.Position[1], 0.5, 1e-6) {
		t.Errorf("horizontal position drifted: (%v, %v), want (0.5, 0.5)", p.Position[0], p.Position[1])
	}
}

// TestFloorStickScenarioS2 is scenario S2 (floor stick): a particle
// falls onto a full-friction floor collider and sticks. z must be
// monotonically non-increasing and must not pass through the floor by
// more than the overshoot a single discrete step can introduce at
// impact velocity, and the particle must end at rest.
func TestFloorStickScenarioS2(t *testing.T) {
	cfg := testConfig()
	cfg.DT = 1e-3
	cfg.Colliders = []Collider{FloorCollider{Z: 0.1, FrictionCoef: 1.0}}
	s, err := New(cfg, 64, 64, 64)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.AddParticle(Vec3{0.5, 0.5, 0.2}, Vec3{}, 0.001); err != nil {
		t.Fatal(err)
	}

	const floorZ = 0.1
	prevZ := s.particles[0].Position[2]
	minZ := prevZ
	for tick := 0; tick < 1000; tick++ {
		if err := s.Update(uint64(tick), nil); err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
		z := s.particles[0].Position[2]
		if z > prevZ+1e-9 {
			t.Fatalf("tick %d: z increased from %v to %v", tick, prevZ, z)
		}
		prevZ = z
		if z < minZ {
			minZ = z
		}
	}

	if minZ < floorZ-0.01 {
		t.Errorf("particle passed through the floor: min z = %v, floor = %v", minZ, floorZ)
	}

	if finalV := s.particles[0].VCurr.Length(); finalV > 1e-6 {
		t.Errorf("final velocity magnitude = %v, want ~0 (stuck)", finalV)
	}
}

// TestP2GG2PRoundTripAtRest is scenario S3: particles sharing a uniform
// velocity, rasterized once, then gathered back with the same weights.
// Partition of unity (invariant 4) makes this exact for a uniform
// field, independent of the particles' exact offsets within a cell.
func TestP2GG2PRoundTripAtRest(t *testing.T) {
	cfg := testConfig()
	s, err := New(cfg, 32, 32, 32)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	v0 := Vec3{1, 0, 0}
	positions := []Vec3{
		{0.2, 0.2, 0.2},
		{0.203, 0.197, 0.201},
		{0.21, 0.21, 0.19},
		{0.196, 0.204, 0.205},
	}
	for _, pos := range positions {
		if err := s.AddParticle(pos, v0, 0.001); err != nil {
			t.Fatal(err)
		}
	}

	s.rasterize()

	for i, p := range s.particles {
		var gathered Vec3
		for _, g := range neighborhood(p.Position, s.cfg.H) {
			if !s.grid.Valid(g[0], g[1], g[2]) {
				continue
			}
			node := s.grid.At(g[0], g[1], g[2])
			w := weight(p.Position, g, s.cfg.H)
			gathered = gathered.Add(node.VCurr.Scale(w))
		}
		for axis := 0; axis < 3; axis++ {
			if !almostEqual(gathered[axis], v0[axis], 1e-10) {
				t.Errorf("particle %d: gathered velocity = %v, want %v", i, gathered, v0)
				break
			}
		}
	}
}

// TestDeterminismAcrossThreadCounts is scenario S5: the same scene, dt,
// and tick count must produce bitwise-identical particle positions
// regardless of how many worker-pool threads the run used. The
// parallel phases (initVolumes, particleUpdate) never cross-write
// another particle's state, so thread count cannot perturb the result.
func TestDeterminismAcrossThreadCounts(t *testing.T) {
	build := func() *Solver {
		s, err := New(testConfig(), 64, 64, 64)
		if err != nil {
			t.Fatal(err)
		}
		for ix := 0; ix < 9; ix++ {
			for iy := 0; iy < 9; iy++ {
				for iz := 0; iz < 8; iz++ {
					pos := Vec3{
						0.3 + float64(ix)*0.01,
						0.3 + float64(iy)*0.01,
						0.3 + float64(iz)*0.01,
					}
					if err := s.AddParticle(pos, Vec3{0.01, -0.02, 0.005}, 0.001); err != nil {
						t.Fatal(err)
					}
				}
			}
		}
		return s
	}

	prevGOMAXPROCS := runtime.GOMAXPROCS(0)
	defer runtime.GOMAXPROCS(prevGOMAXPROCS)

	runTicks := func(threads int) []Vec3 {
		runtime.GOMAXPROCS(threads)
		s := build()
		defer s.Close()
		for tick := 0; tick < 20; tick++ {
			if err := s.Update(uint64(tick), nil); err != nil {
				t.Fatalf("tick %d (threads=%d): %v", tick, threads, err)
			}
		}
		out := make([]Vec3, len(s.particles))
		for i := range s.particles {
			out[i] = s.particles[i].Position
		}
		return out
	}

	posSingleThread := runTicks(1)
	posManyThreads := runTicks(4)

	if len(posSingleThread) != len(posManyThreads) {
		t.Fatalf("particle counts differ: %d vs %d", len(posSingleThread), len(posManyThreads))
	}
	for i := range posSingleThread {
		if posSingleThread[i] != posManyThreads[i] {
			t.Fatalf("particle %d position differs by thread count: %v vs %v", i, posSingleThread[i], posManyThreads[i])
		}
	}
}
