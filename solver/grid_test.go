package solver

import "testing"

func TestGridIndexRoundTrip(t *testing.T) {
	g := NewGrid(4, 5, 6, 0.1)
	for iz := 0; iz < 6; iz++ {
		for iy := 0; iy < 5; iy++ {
			for ix := 0; ix < 4; ix++ {
				n := g.At(ix, iy, iz)
				if n == nil {
					t.Fatalf("At(%d,%d,%d) returned nil", ix, iy, iz)
				}
				if n.Location != [3]int{ix, iy, iz} {
					t.Errorf("node at (%d,%d,%d) has Location %v", ix, iy, iz, n.Location)
				}
			}
		}
	}
}

func TestGridValidBounds(t *testing.T) {
	g := NewGrid(4, 4, 4, 0.1)
	cases := []struct {
		ix, iy, iz int
		want       bool
	}{
		{0, 0, 0, true},
		{3, 3, 3, true},
		{-1, 0, 0, false},
		{4, 0, 0, false},
		{0, 4, 0, false},
		{0, 0, 4, false},
	}
	for _, c := range cases {
		if got := g.Valid(c.ix, c.iy, c.iz); got != c.want {
			t.Errorf("Valid(%d,%d,%d) = %v, want %v", c.ix, c.iy, c.iz, got, c.want)
		}
	}
	if g.At(-1, 0, 0) != nil {
		t.Error("At with an out-of-range index should return nil")
	}
}

func TestGridPosition(t *testing.T) {
	g := NewGrid(4, 4, 4, 0.5)
	n := g.At(2, 3, 1)
	got := n.Position(g.H)
	want := Vec3{1.0, 1.5, 0.5}
	if got != want {
		t.Errorf("Position = %v, want %v", got, want)
	}
}

func TestGridResetPreservesLocation(t *testing.T) {
	g := NewGrid(2, 2, 2, 0.1)
	n := g.At(1, 1, 1)
	n.Mass = 5
	n.VCurr = Vec3{1, 2, 3}
	n.Force = Vec3{1, 1, 1}

	g.Reset()

	n = g.At(1, 1, 1)
	if n.Mass != 0 {
		t.Errorf("Mass after Reset = %v, want 0", n.Mass)
	}
	if n.VCurr != (Vec3{}) {
		t.Errorf("VCurr after Reset = %v, want zero", n.VCurr)
	}
	if n.Location != [3]int{1, 1, 1} {
		t.Errorf("Location after Reset = %v, want (1,1,1)", n.Location)
	}
}
