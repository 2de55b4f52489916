package geometry

import (
	"github.com/pkg/errors"

	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/material"
)

// Box is an axis-aligned box whose six faces are twelve triangles held in
// a sub-list
type Box struct {
	Min, Max core.Vec3
	Sides    Handle
	Material material.Handle
}

// QuadTriangles splits the parallelogram at p spanned by u and v into two
// triangles facing along u x v
func QuadTriangles(p, u, v core.Vec3, mat material.Handle) [2]Triangle {
	return [2]Triangle{
		NewTriangle(p, p.Add(u), p.Add(u).Add(v), mat),
		NewTriangle(p, p.Add(u).Add(v), p.Add(v), mat),
	}
}

// NewBox adds the triangles of the box spanning min and max to s, with
// normals facing out
func NewBox(s *Store, min, max core.Vec3, mat material.Handle) (Box, error) {
	lo, hi := min.Min(max), min.Max(max)
	d := hi.Subtract(lo)
	dx := core.NewVec3(d.X, 0, 0)
	dy := core.NewVec3(0, d.Y, 0)
	dz := core.NewVec3(0, 0, d.Z)

	faces := [6][3]core.Vec3{
		{core.NewVec3(hi.X, lo.Y, lo.Z), dy, dz}, // +x
		{lo, dz, dy},                             // -x
		{core.NewVec3(lo.X, hi.Y, lo.Z), dz, dx}, // +y
		{lo, dx, dz},                             // -y
		{core.NewVec3(lo.X, lo.Y, hi.Z), dx, dy}, // +z
		{lo, dy, dx},                             // -z
	}

	sides, err := s.NewList(12)
	if err != nil {
		return Box{}, errors.Wrap(err, "box")
	}
	for _, f := range faces {
		for _, tri := range QuadTriangles(f[0], f[1], f[2], mat) {
			h, err := s.Add(tri)
			if err != nil {
				return Box{}, errors.Wrap(err, "box")
			}
			if err := s.AddToList(sides, h); err != nil {
				return Box{}, errors.Wrap(err, "box")
			}
		}
	}
	return Box{Min: lo, Max: hi, Sides: sides, Material: mat}, nil
}

func (b Box) Hit(ctx *Context, ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	return ctx.Hit(ray, b.Sides, tMin, tMax)
}

func (b Box) Bounds() core.AABB { return core.NewAABB(b.Min, b.Max) }

func (b Box) Children() []Handle { return []Handle{b.Sides} }

func (b Box) Materials() []material.Handle { return []material.Handle{b.Material} }
