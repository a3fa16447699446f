package solver

import "math"

// Vec3 is a point or direction in simulation space.
type Vec3 [3]float64

// Add returns a+b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub returns a-b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Scale returns a*s.
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a[0] * s, a[1] * s, a[2] * s}
}

// Dot returns a.b.
func (a Vec3) Dot(b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Length returns the Euclidean norm of a.
func (a Vec3) Length() float64 {
	return math.Sqrt(a.Dot(a))
}

// Outer returns the outer product a ⊗ b.
func (a Vec3) Outer(b Vec3) Mat3 {
	var m Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = a[i] * b[j]
		}
	}
	return m
}

// IsFinite reports whether all components are finite.
func (a Vec3) IsFinite() bool {
	for _, v := range a {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Mat3 is a row-major 3x3 matrix.
type Mat3 [3][3]float64

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Diag3 returns a diagonal matrix with the given entries.
func Diag3(d Vec3) Mat3 {
	return Mat3{{d[0], 0, 0}, {0, d[1], 0}, {0, 0, d[2]}}
}

// Add returns a+b.
func (a Mat3) Add(b Mat3) Mat3 {
	var m Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = a[i][j] + b[i][j]
		}
	}
	return m
}

// Sub returns a-b.
func (a Mat3) Sub(b Mat3) Mat3 {
	var m Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = a[i][j] - b[i][j]
		}
	}
	return m
}

// Scale returns a*s.
func (a Mat3) Scale(s float64) Mat3 {
	var m Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = a[i][j] * s
		}
	}
	return m
}

// Mul returns the matrix product a*b.
func (a Mat3) Mul(b Mat3) Mat3 {
	var m Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += a[i][k] * b[k][j]
			}
			m[i][j] = s
		}
	}
	return m
}

// MulVec returns a*v.
func (a Mat3) MulVec(v Vec3) Vec3 {
	var r Vec3
	for i := 0; i < 3; i++ {
		r[i] = a[i][0]*v[0] + a[i][1]*v[1] + a[i][2]*v[2]
	}
	return r
}

// T returns the transpose of a.
func (a Mat3) T() Mat3 {
	var m Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = a[j][i]
		}
	}
	return m
}

// Det returns the determinant of a.
func (a Mat3) Det() float64 {
	return a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
}

// IsFinite reports whether every entry of a is finite.
func (a Mat3) IsFinite() bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.IsNaN(a[i][j]) || math.IsInf(a[i][j], 0) {
				return false
			}
		}
	}
	return true
}

// Flatten returns the matrix entries in row-major order, the layout
// gonum's mat.NewDense expects.
func (a Mat3) Flatten() []float64 {
	return []float64{
		a[0][0], a[0][1], a[0][2],
		a[1][0], a[1][1], a[1][2],
		a[2][0], a[2][1], a[2][2],
	}
}

// Mat3FromFlat builds a Mat3 from a 9-entry row-major slice.
func Mat3FromFlat(d []float64) Mat3 {
	return Mat3{
		{d[0], d[1], d[2]},
		{d[3], d[4], d[5]},
		{d[6], d[7], d[8]},
	}
}
