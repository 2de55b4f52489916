package core

import "math"

// Mat4 is a row-major 4x4 affine transform. Points are column vectors, so
// a.Mul(b) applies b first.
type Mat4 [4][4]float64

// Identity returns the identity matrix
func Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Translation returns a matrix translating by t
func Translation(t Vec3) Mat4 {
	m := Identity()
	m[0][3] = t.X
	m[1][3] = t.Y
	m[2][3] = t.Z
	return m
}

// Scaling returns a matrix scaling each axis by s
func Scaling(s Vec3) Mat4 {
	m := Identity()
	m[0][0] = s.X
	m[1][1] = s.Y
	m[2][2] = s.Z
	return m
}

// Rotation returns a matrix rotating angle radians about axis
func Rotation(axis Vec3, angle float64) Mat4 {
	return QuatFromAxisAngle(axis, angle).Mat4()
}

// EulerRotation returns Rx * Ry * Rz for the angles in radians
func EulerRotation(angles Vec3) Mat4 {
	m := Rotation(NewVec3(1, 0, 0), angles.X)
	m = m.Mul(Rotation(NewVec3(0, 1, 0), angles.Y))
	return m.Mul(Rotation(NewVec3(0, 0, 1), angles.Z))
}

// Mat4 returns the rotation matrix of a unit quaternion
func (q Quat) Mat4() Mat4 {
	x, y, z, w := q.V.X, q.V.Y, q.V.Z, q.W
	return Mat4{
		{1 - 2*y*y - 2*z*z, 2*x*y - 2*w*z, 2*x*z + 2*w*y, 0},
		{2*x*y + 2*w*z, 1 - 2*x*x - 2*z*z, 2*y*z - 2*w*x, 0},
		{2*x*z - 2*w*y, 2*y*z + 2*w*x, 1 - 2*x*x - 2*y*y, 0},
		{0, 0, 0, 1},
	}
}

// Mul returns the matrix product m * o
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j] + m[i][2]*o[2][j] + m[i][3]*o[3][j]
		}
	}
	return r
}

// Transpose returns the transposed matrix
func (m Mat4) Transpose() Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

// MulVec4 multiplies a homogeneous vector
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z + m[0][3]*v.W,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z + m[1][3]*v.W,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z + m[2][3]*v.W,
		W: m[3][0]*v.X + m[3][1]*v.Y + m[3][2]*v.Z + m[3][3]*v.W,
	}
}

// MulPoint transforms a point (w=1)
func (m Mat4) MulPoint(p Vec3) Vec3 {
	return m.MulVec4(Vec4{p.X, p.Y, p.Z, 1}).XYZ()
}

// MulVector transforms a direction (w=0)
func (m Mat4) MulVector(v Vec3) Vec3 {
	return m.MulVec4(Vec4{v.X, v.Y, v.Z, 0}).XYZ()
}

// Inverse returns the inverse of m and false if m is singular
func (m Mat4) Inverse() (Mat4, bool) {
	// Gauss-Jordan elimination with partial pivoting
	a := m
	inv := Identity()
	for col := 0; col < 4; col++ {
		pivot := col
		for row := col + 1; row < 4; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return Mat4{}, false
		}
		a[col], a[pivot] = a[pivot], a[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]

		scale := 1 / a[col][col]
		for j := 0; j < 4; j++ {
			a[col][j] *= scale
			inv[col][j] *= scale
		}
		for row := 0; row < 4; row++ {
			if row == col {
				continue
			}
			f := a[row][col]
			for j := 0; j < 4; j++ {
				a[row][j] -= f * a[col][j]
				inv[row][j] -= f * inv[col][j]
			}
		}
	}
	return inv, true
}

// TransformBounds returns the world-space box enclosing the 8 transformed
// corners of b
func (m Mat4) TransformBounds(b AABB) AABB {
	result := EmptyAABB()
	for i := 0; i < 8; i++ {
		corner := NewVec3(b.Min.X, b.Min.Y, b.Min.Z)
		if i&1 != 0 {
			corner.X = b.Max.X
		}
		if i&2 != 0 {
			corner.Y = b.Max.Y
		}
		if i&4 != 0 {
			corner.Z = b.Max.Z
		}
		result = result.Extend(m.MulPoint(corner))
	}
	return result
}
