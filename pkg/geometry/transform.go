package geometry

import (
	"github.com/pkg/errors"

	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/material"
)

// Transform places an object in the world with a fixed affine matrix
type Transform struct {
	Object        Handle
	ObjectToWorld core.Mat4
	WorldToObject core.Mat4
	normalToWorld core.Mat4
	bounds        core.AABB
}

// NewTransform rotates obj by Euler angles in radians (about x, then y,
// then z in the object frame) and then translates it
func NewTransform(s *Store, obj Handle, translation, rotation core.Vec3) (Transform, error) {
	return NewMatrixTransform(s, obj, core.Translation(translation).Mul(core.EulerRotation(rotation)))
}

// NewMatrixTransform places obj with an arbitrary invertible matrix
func NewMatrixTransform(s *Store, obj Handle, objectToWorld core.Mat4) (Transform, error) {
	if !s.Contains(obj) {
		return Transform{}, errors.Wrapf(ErrUnknownHandle, "transform target slot %d", obj.Index())
	}
	worldToObject, ok := objectToWorld.Inverse()
	if !ok {
		return Transform{}, errors.New("transform matrix is singular")
	}
	return Transform{
		Object:        obj,
		ObjectToWorld: objectToWorld,
		WorldToObject: worldToObject,
		normalToWorld: worldToObject.Transpose(),
		bounds:        objectToWorld.TransformBounds(s.Bounds(obj)),
	}, nil
}

func (t Transform) Hit(ctx *Context, ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	local := core.NewRayAtTime(t.WorldToObject.MulPoint(ray.Origin), t.WorldToObject.MulVector(ray.Direction), ray.Time)
	rec, ok := ctx.Hit(local, t.Object, tMin, tMax)
	if !ok {
		return rec, false
	}
	// the direction is not renormalised, so T carries over unchanged
	rec.Point = t.ObjectToWorld.MulPoint(rec.Point)
	rec.Normal = t.normalToWorld.MulVector(rec.Normal).Normalize()
	return rec, true
}

func (t Transform) Bounds() core.AABB { return t.bounds }

func (t Transform) Children() []Handle { return []Handle{t.Object} }
