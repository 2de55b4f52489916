package geometry

import (
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/material"
)

// Pose is a rigid placement: rotate about the object origin, then translate
type Pose struct {
	Translation core.Vec3
	Rotation    core.Quat
}

// Matrix returns the object-to-world matrix of the pose
func (p Pose) Matrix() core.Mat4 {
	return core.Translation(p.Translation).Mul(p.Rotation.Mat4())
}

// AnimatedTransform moves an object between two poses over the shutter
// interval [Time0, Time1]. Rays sample the pose at their own time.
type AnimatedTransform struct {
	Object       Handle
	Start, End   Pose
	Time0, Time1 float64
	bounds       core.AABB
}

// NewAnimatedTransform creates a transform moving obj from start at time0
// to end at time1
func NewAnimatedTransform(s *Store, obj Handle, start, end Pose, time0, time1 float64) (AnimatedTransform, error) {
	if !s.Contains(obj) {
		return AnimatedTransform{}, errors.Wrapf(ErrUnknownHandle, "animated transform target slot %d", obj.Index())
	}
	if time1 < time0 {
		return AnimatedTransform{}, errors.Errorf("shutter interval [%v, %v] is reversed", time0, time1)
	}
	start.Rotation = start.Rotation.Normalize()
	end.Rotation = end.Rotation.Normalize()

	// Rotation keeps every point within the radius of the farthest corner,
	// and the translation moves linearly between its endpoints
	local := s.Bounds(obj)
	radius := 0.0
	for i := 0; i < 8; i++ {
		corner := core.NewVec3(
			pick(i&1 != 0, local.Max.X, local.Min.X),
			pick(i&2 != 0, local.Max.Y, local.Min.Y),
			pick(i&4 != 0, local.Max.Z, local.Min.Z),
		)
		radius = math.Max(radius, corner.Length())
	}
	extent := core.Splat(radius)
	bounds := core.NewAABB(start.Translation.Subtract(extent), start.Translation.Add(extent)).
		Union(core.NewAABB(end.Translation.Subtract(extent), end.Translation.Add(extent)))

	return AnimatedTransform{
		Object: obj,
		Start:  start,
		End:    end,
		Time0:  time0,
		Time1:  time1,
		bounds: bounds,
	}, nil
}

// PoseAt interpolates the pose: translation linearly, rotation by slerp
func (a AnimatedTransform) PoseAt(time float64) Pose {
	s := 0.0
	if a.Time1 > a.Time0 {
		s = math.Max(0, math.Min(1, (time-a.Time0)/(a.Time1-a.Time0)))
	}
	return Pose{
		Translation: a.Start.Translation.Lerp(a.End.Translation, s),
		Rotation:    a.Start.Rotation.Slerp(a.End.Rotation, s),
	}
}

func (a AnimatedTransform) Hit(ctx *Context, ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	pose := a.PoseAt(ray.Time)
	inverse := pose.Rotation.Conjugate()
	local := core.NewRayAtTime(
		inverse.Rotate(ray.Origin.Subtract(pose.Translation)),
		inverse.Rotate(ray.Direction),
		ray.Time,
	)

	rec, ok := ctx.Hit(local, a.Object, tMin, tMax)
	if !ok {
		return rec, false
	}
	rec.Point = pose.Rotation.Rotate(rec.Point).Add(pose.Translation)
	rec.Normal = pose.Rotation.Rotate(rec.Normal).Normalize()
	return rec, true
}

func (a AnimatedTransform) Bounds() core.AABB { return a.bounds }

func (a AnimatedTransform) Children() []Handle { return []Handle{a.Object} }

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
