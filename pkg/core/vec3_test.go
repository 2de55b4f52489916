package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVecNear(t *testing.T, expected, actual Vec3, tolerance float64, msgAndArgs ...interface{}) {
	t.Helper()
	if expected.Subtract(actual).Length() > tolerance {
		assert.Fail(t, "vectors differ", "expected %v, got %v", expected, actual)
		if len(msgAndArgs) > 0 {
			t.Log(msgAndArgs...)
		}
	}
}

func TestVec3_Refract(t *testing.T) {
	n := NewVec3(0, 1, 0)

	// Normal incidence passes straight through for any ratio
	for _, eta := range []float64{1 / 1.5, 1.0, 1.5} {
		out, ok := NewVec3(0, -1, 0).Refract(n, eta)
		require.True(t, ok)
		assertVecNear(t, NewVec3(0, -1, 0), out, 1e-12, "eta", eta)
	}

	// Snell's law at 45 degrees into glass
	in := NewVec3(1, -1, 0).Normalize()
	out, ok := in.Refract(n, 1/1.5)
	require.True(t, ok)
	sinI := math.Sqrt(1 - math.Pow(in.Dot(n), 2))
	sinT := math.Sqrt(1 - math.Pow(out.Dot(n), 2))
	assert.InDelta(t, sinI, 1.5*sinT, 1e-9)
	assert.InDelta(t, 1.0, out.Length(), 1e-9)

	// Grazing exit from glass is totally reflected
	_, ok = NewVec3(1, -0.2, 0).Normalize().Refract(n, 1.5)
	assert.False(t, ok)
}

func TestVec3_Reflect(t *testing.T) {
	r := NewVec3(1, -1, 0).Reflect(NewVec3(0, 1, 0))
	assert.Equal(t, NewVec3(1, 1, 0), r)
}

func TestVec3_IsFinite(t *testing.T) {
	assert.True(t, NewVec3(1, 2, 3).IsFinite())
	assert.False(t, NewVec3(math.NaN(), 0, 0).IsFinite())
	assert.False(t, NewVec3(0, math.Inf(-1), 0).IsFinite())
}

func TestQuat_SlerpEndpoints(t *testing.T) {
	q0 := QuatIdentity()
	q1 := QuatFromAxisAngle(NewVec3(0, 1, 0), math.Pi/2)
	v := NewVec3(1, 0, 0)

	assertVecNear(t, v, q0.Slerp(q1, 0).Rotate(v), 1e-9)
	assertVecNear(t, NewVec3(0, 0, -1), q0.Slerp(q1, 1).Rotate(v), 1e-9)

	half := q0.Slerp(q1, 0.5).Rotate(v)
	assertVecNear(t, NewVec3(math.Sqrt2/2, 0, -math.Sqrt2/2), half, 1e-9)
}

func TestMat4_QuatAgreesWithRotate(t *testing.T) {
	q := QuatFromEuler(NewVec3(0.3, -1.1, 2.0))
	v := NewVec3(0.5, -2, 4)
	assertVecNear(t, q.Rotate(v), q.Mat4().MulVector(v), 1e-9)
	assertVecNear(t, EulerRotation(NewVec3(0.3, -1.1, 2.0)).MulVector(v), q.Rotate(v), 1e-9)
}

func TestMat4_Inverse(t *testing.T) {
	m := Translation(NewVec3(3, -2, 7)).Mul(EulerRotation(NewVec3(0.1, 0.7, -0.4))).Mul(Scaling(NewVec3(2, 3, 0.5)))
	inv, ok := m.Inverse()
	require.True(t, ok)

	p := NewVec3(1, 2, 3)
	assertVecNear(t, p, inv.MulPoint(m.MulPoint(p)), 1e-9)

	product := m.Mul(inv)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			expected := 0.0
			if i == j {
				expected = 1
			}
			assert.InDelta(t, expected, product[i][j], 1e-9)
		}
	}

	_, ok = Scaling(NewVec3(1, 0, 1)).Inverse()
	assert.False(t, ok, "singular matrix has no inverse")
}

func TestMat4_TransformBounds(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	rotated := Rotation(NewVec3(0, 1, 0), math.Pi/4).TransformBounds(box)

	assert.InDelta(t, 0, rotated.Min.X, 1e-9)
	assert.InDelta(t, math.Sqrt2, rotated.Max.X, 1e-9)
	assert.InDelta(t, -math.Sqrt2/2, rotated.Min.Z, 1e-9)
	assert.InDelta(t, math.Sqrt2/2, rotated.Max.Z, 1e-9)
	assert.InDelta(t, 1, rotated.Max.Y, 1e-9)
}

func TestAABB_Hit(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name     string
		ray      Ray
		expected bool
	}{
		{"through center", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)), true},
		{"miss above", NewRay(NewVec3(0, 2, -5), NewVec3(0, 0, 1)), false},
		{"parallel inside slab", NewRay(NewVec3(0.5, 0.5, -5), NewVec3(0, 0, 1)), true},
		{"pointing away", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, -1)), false},
		{"diagonal", NewRay(NewVec3(-5, -5, -5), NewVec3(1, 1, 1)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, box.Hit(tt.ray, 0.001, math.Inf(1)))
		})
	}
}

func TestAABB_EmptyAndUnion(t *testing.T) {
	empty := EmptyAABB()
	assert.False(t, empty.IsValid())
	assert.Zero(t, empty.SurfaceArea())

	a := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	b := NewAABB(NewVec3(2, -1, 0), NewVec3(3, 0, 4))
	u := empty.Union(a).Union(b)
	assert.Equal(t, NewAABB(NewVec3(0, -1, 0), NewVec3(3, 1, 4)), u)
	assert.True(t, u.Contains(a))
	assert.True(t, u.Contains(b))
	assert.False(t, a.Contains(u))
	assert.Equal(t, 2, u.LongestAxis())
	assert.InDelta(t, 6.0, a.SurfaceArea(), 1e-12)
}
