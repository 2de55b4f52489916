package geometry

import (
	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/material"
)

// boundsPadding keeps flat primitives from producing zero-thickness boxes
const boundsPadding = 0.001

// triangleEpsilon rejects rays parallel to the triangle's plane
const triangleEpsilon = 1e-8

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3
	Normal     core.Vec3 // face normal, following the V0 V1 V2 winding
	Material   material.Handle
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, mat material.Handle) Triangle {
	return Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Normal:   v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize(),
		Material: mat,
	}
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t Triangle) Hit(ctx *Context, ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	ctx.countTriangles(1)
	dist, u, v, ok := intersectTriangle(ray, t.V0, t.V1, t.V2, tMin, tMax)
	if !ok {
		return material.HitRecord{}, false
	}

	rec := material.HitRecord{
		T:        dist,
		Point:    ray.At(dist),
		UV:       core.NewVec2(u, v),
		Material: t.Material,
	}
	rec.SetFaceNormal(ray, t.Normal)
	return rec, true
}

// Bounds returns the padded bounding box for this triangle
func (t Triangle) Bounds() core.AABB {
	return core.NewAABBFromPoints(t.V0, t.V1, t.V2).Expand(boundsPadding)
}

func (t Triangle) Materials() []material.Handle { return []material.Handle{t.Material} }

// intersectTriangle returns the ray parameter and barycentric coordinates
// of the hit. u weights v1 and v weights v2.
func intersectTriangle(ray core.Ray, v0, v1, v2 core.Vec3, tMin, tMax float64) (t, u, v float64, ok bool) {
	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	// If determinant is near zero, ray lies in plane of triangle
	if a > -triangleEpsilon && a < triangleEpsilon {
		return 0, 0, 0, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(v0)
	u = f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, 0, 0, false
	}

	q := s.Cross(edge1)
	v = f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, 0, 0, false
	}

	t = f * edge2.Dot(q)
	if !inRange(t, tMin, tMax) {
		return 0, 0, 0, false
	}
	return t, u, v, true
}
