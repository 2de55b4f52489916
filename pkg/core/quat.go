package core

import "math"

// Quat is a rotation quaternion with vector part V and scalar part W
type Quat struct {
	V Vec3
	W float64
}

// QuatIdentity returns the identity rotation
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle creates a rotation of angle radians about axis
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	sin, cos := math.Sincos(angle * 0.5)
	return Quat{V: axis.Normalize().Multiply(sin), W: cos}
}

// QuatFromEuler creates the rotation Rx * Ry * Rz, the same product
// EulerRotation builds as a matrix
func QuatFromEuler(angles Vec3) Quat {
	qx := QuatFromAxisAngle(NewVec3(1, 0, 0), angles.X)
	qy := QuatFromAxisAngle(NewVec3(0, 1, 0), angles.Y)
	qz := QuatFromAxisAngle(NewVec3(0, 0, 1), angles.Z)
	return qx.Mul(qy).Mul(qz)
}

// Mul composes two rotations. q.Mul(r) rotates by r first, then by q.
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		V: q.V.Cross(r.V).Add(r.V.Multiply(q.W)).Add(q.V.Multiply(r.W)),
		W: q.W*r.W - q.V.Dot(r.V),
	}
}

// Dot returns the 4D dot product of two quaternions
func (q Quat) Dot(r Quat) float64 {
	return q.V.Dot(r.V) + q.W*r.W
}

// Length returns the norm of the quaternion
func (q Quat) Length() float64 {
	return math.Sqrt(q.Dot(q))
}

// Normalize returns the unit quaternion
func (q Quat) Normalize() Quat {
	length := q.Length()
	if length == 0 {
		return QuatIdentity()
	}
	return Quat{V: q.V.Multiply(1 / length), W: q.W / length}
}

// Conjugate returns the inverse rotation of a unit quaternion
func (q Quat) Conjugate() Quat {
	return Quat{V: q.V.Negate(), W: q.W}
}

// Rotate applies the rotation to v
func (q Quat) Rotate(v Vec3) Vec3 {
	cross := q.V.Cross(v)
	// v + 2w(q x v) + 2q x (q x v)
	return v.Add(cross.Multiply(2 * q.W)).Add(q.V.Multiply(2).Cross(cross))
}

// Slerp spherically interpolates between q (t=0) and r (t=1) along the
// shortest arc. Nearly parallel inputs fall back to normalized lerp.
func (q Quat) Slerp(r Quat, t float64) Quat {
	cos := q.Dot(r)
	if cos < 0 {
		r = Quat{V: r.V.Negate(), W: -r.W}
		cos = -cos
	}
	if cos > 0.9995 {
		return Quat{
			V: q.V.Lerp(r.V, t),
			W: q.W*(1-t) + r.W*t,
		}.Normalize()
	}

	theta := math.Acos(cos)
	sin := math.Sin(theta)
	a := math.Sin((1-t)*theta) / sin
	b := math.Sin(t*theta) / sin
	return Quat{
		V: q.V.Multiply(a).Add(r.V.Multiply(b)),
		W: q.W*a + r.W*b,
	}
}
