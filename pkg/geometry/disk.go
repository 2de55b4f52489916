package geometry

import (
	"math"

	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/material"
)

// Disk is a flat circle facing along Normal
type Disk struct {
	Center   core.Vec3
	Normal   core.Vec3 // unit normal of the front face
	Radius   float64
	Material material.Handle
}

// NewDisk creates a disk, normalizing its normal
func NewDisk(center, normal core.Vec3, radius float64, mat material.Handle) Disk {
	return Disk{Center: center, Normal: normal.Normalize(), Radius: radius, Material: mat}
}

func (d Disk) Hit(ctx *Context, ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	denom := ray.Direction.Dot(d.Normal)
	if math.Abs(denom) < 1e-12 {
		return material.HitRecord{}, false
	}

	t := d.Center.Subtract(ray.Origin).Dot(d.Normal) / denom
	if !inRange(t, tMin, tMax) {
		return material.HitRecord{}, false
	}

	point := ray.At(t)
	offset := point.Subtract(d.Center)
	dist2 := offset.LengthSquared()
	if dist2 > d.Radius*d.Radius {
		return material.HitRecord{}, false
	}

	basis := core.NewONB(d.Normal)
	angle := math.Atan2(offset.Dot(basis.V), offset.Dot(basis.U))
	rec := material.HitRecord{
		T:        t,
		Point:    point,
		UV:       core.NewVec2((angle+math.Pi)/(2*math.Pi), math.Sqrt(dist2)/d.Radius),
		Material: d.Material,
	}
	rec.SetFaceNormal(ray, d.Normal)
	return rec, true
}

// Bounds returns the box around the disk's circle. Its extent along each
// axis is radius * sqrt(1 - n_axis²).
func (d Disk) Bounds() core.AABB {
	n := d.Normal
	extent := core.NewVec3(
		d.Radius*math.Sqrt(math.Max(0, 1-n.X*n.X)),
		d.Radius*math.Sqrt(math.Max(0, 1-n.Y*n.Y)),
		d.Radius*math.Sqrt(math.Max(0, 1-n.Z*n.Z)),
	)
	return core.NewAABB(d.Center.Subtract(extent), d.Center.Add(extent)).Expand(boundsPadding)
}

func (d Disk) Materials() []material.Handle { return []material.Handle{d.Material} }
