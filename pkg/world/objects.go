package world

import (
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/geometry"
	"github.com/df07/go-tile-pathtracer/pkg/material"
)

func (w *World) object(obj geometry.Object, err error) geometry.Handle {
	if w.err != nil {
		return geometry.Handle{}
	}
	if err != nil {
		w.fail(err)
		return geometry.Handle{}
	}
	h, err := w.Objects.Add(obj)
	if err != nil {
		w.fail(err)
		return geometry.Handle{}
	}
	return h
}

// Sphere adds a sphere
func (w *World) Sphere(center core.Vec3, radius float64, mat material.Handle) geometry.Handle {
	return w.object(geometry.Sphere{Center: center, Radius: radius, Material: mat}, nil)
}

// Disk adds a flat disk facing along normal
func (w *World) Disk(center, normal core.Vec3, radius float64, mat material.Handle) geometry.Handle {
	return w.object(geometry.NewDisk(center, normal, radius, mat), nil)
}

// Triangle adds a single triangle facing along (v1-v0) x (v2-v0)
func (w *World) Triangle(v0, v1, v2 core.Vec3, mat material.Handle) geometry.Handle {
	return w.object(geometry.NewTriangle(v0, v1, v2, mat), nil)
}

// TriangleMesh copies data into the arena and adds it as one object
func (w *World) TriangleMesh(data geometry.MeshData, mat material.Handle) geometry.Handle {
	if w.err != nil {
		return geometry.Handle{}
	}
	return w.object(geometry.NewTriangleMesh(w.arena, data, mat))
}

// Box adds an axis-aligned box made of twelve outward-facing triangles
func (w *World) Box(min, max core.Vec3, mat material.Handle) geometry.Handle {
	if w.err != nil {
		return geometry.Handle{}
	}
	return w.object(geometry.NewBox(w.Objects, min, max, mat))
}

// ConstantMedium fills boundary with a uniform participating medium
func (w *World) ConstantMedium(boundary geometry.Handle, density float64, phase material.Handle) geometry.Handle {
	if w.err != nil {
		return geometry.Handle{}
	}
	return w.object(geometry.NewConstantMedium(w.Objects, boundary, density, phase))
}

// Transform places obj, rotated by Euler angles in radians and then
// translated
func (w *World) Transform(obj geometry.Handle, translation, rotation core.Vec3) geometry.Handle {
	if w.err != nil {
		return geometry.Handle{}
	}
	return w.object(geometry.NewTransform(w.Objects, obj, translation, rotation))
}

// MatrixTransform places obj with an arbitrary invertible matrix
func (w *World) MatrixTransform(obj geometry.Handle, objectToWorld core.Mat4) geometry.Handle {
	if w.err != nil {
		return geometry.Handle{}
	}
	return w.object(geometry.NewMatrixTransform(w.Objects, obj, objectToWorld))
}

// AnimatedTransform moves obj from start at time0 to end at time1
func (w *World) AnimatedTransform(obj geometry.Handle, start, end geometry.Pose, time0, time1 float64) geometry.Handle {
	if w.err != nil {
		return geometry.Handle{}
	}
	return w.object(geometry.NewAnimatedTransform(w.Objects, obj, start, end, time0, time1))
}

// MovingSphere adds a sphere whose centre moves linearly from center0 at
// time0 to center1 at time1
func (w *World) MovingSphere(center0, center1 core.Vec3, radius float64, time0, time1 float64, mat material.Handle) geometry.Handle {
	sphere := w.Sphere(core.Vec3{}, radius, mat)
	return w.AnimatedTransform(sphere,
		geometry.Pose{Translation: center0, Rotation: core.QuatIdentity()},
		geometry.Pose{Translation: center1, Rotation: core.QuatIdentity()},
		time0, time1)
}

// List adds an empty object list with room for capacity children
func (w *World) List(capacity int) geometry.Handle {
	if w.err != nil {
		return geometry.Handle{}
	}
	return w.checked(w.Objects.NewList(capacity))
}

// checked records err and returns the zero handle if it is set
func (w *World) checked(h geometry.Handle, err error) geometry.Handle {
	if err != nil {
		w.fail(err)
		return geometry.Handle{}
	}
	return h
}

// AddToList appends obj to list and returns obj
func (w *World) AddToList(list, obj geometry.Handle) geometry.Handle {
	if w.err != nil {
		return geometry.Handle{}
	}
	if err := w.Objects.AddToList(list, obj); err != nil {
		w.fail(err)
		return geometry.Handle{}
	}
	return obj
}

// AddToWorld appends obj to the world list and returns obj
func (w *World) AddToWorld(obj geometry.Handle) geometry.Handle {
	return w.AddToList(w.objects, obj)
}

// AddImportant records obj as an important object and returns obj. The
// list is kept for statistics; the integrator does not sample it.
func (w *World) AddImportant(obj geometry.Handle) geometry.Handle {
	return w.AddToList(w.important, obj)
}

// BVH builds a hierarchy over the children of list and returns its root
func (w *World) BVH(list geometry.Handle) geometry.Handle {
	if w.err != nil {
		return geometry.Handle{}
	}
	return w.checked(w.Objects.BuildBVHFromList(list))
}

// XYRect adds the rectangle [x0,x1]x[y0,y1] at z to list as two
// triangles facing -z
func (w *World) XYRect(list geometry.Handle, x0, x1, y0, y1, z float64, mat material.Handle) {
	w.rect(list,
		core.NewVec3(x0, y0, z), core.NewVec3(x0, y1, z),
		core.NewVec3(x1, y1, z), core.NewVec3(x1, y0, z), mat)
}

// XZRect adds the rectangle [x0,x1]x[z0,z1] at y to list as two
// triangles facing +y
func (w *World) XZRect(list geometry.Handle, x0, x1, z0, z1, y float64, mat material.Handle) {
	w.rect(list,
		core.NewVec3(x0, y, z0), core.NewVec3(x0, y, z1),
		core.NewVec3(x1, y, z1), core.NewVec3(x1, y, z0), mat)
}

// YZRect adds the rectangle [y0,y1]x[z0,z1] at x to list as two
// triangles facing -x
func (w *World) YZRect(list geometry.Handle, y0, y1, z0, z1, x float64, mat material.Handle) {
	w.rect(list,
		core.NewVec3(x, y0, z0), core.NewVec3(x, y0, z1),
		core.NewVec3(x, y1, z1), core.NewVec3(x, y1, z0), mat)
}

// rect splits the quad p00 p01 p11 p10 along its p00-p11 diagonal
func (w *World) rect(list geometry.Handle, p00, p01, p11, p10 core.Vec3, mat material.Handle) {
	w.AddToList(list, w.Triangle(p00, p01, p11, mat))
	w.AddToList(list, w.Triangle(p00, p11, p10, mat))
}

// PolySphere adds a UV sphere of radius r centred at the origin as a
// triangle mesh with divs slices and divs stacks
func (w *World) PolySphere(r float64, divs int, mat material.Handle) geometry.Handle {
	if w.err != nil {
		return geometry.Handle{}
	}
	if divs < 3 {
		w.fail(errors.Errorf("poly sphere needs at least 3 divisions, got %d", divs))
		return geometry.Handle{}
	}
	return w.TriangleMesh(polySphere(r, divs), mat)
}

// polySphere builds the mesh: a vertex at each pole and divs-1 rings of
// divs vertices in between, with outward winding
func polySphere(r float64, divs int) geometry.MeshData {
	rings := divs - 1
	count := rings*divs + 2
	data := geometry.MeshData{
		Vertices: make([]core.Vec3, 0, count),
		Normals:  make([]core.Vec3, 0, count),
		UVs:      make([]core.Vec2, 0, count),
	}
	add := func(n core.Vec3, uv core.Vec2) {
		data.Vertices = append(data.Vertices, n.Multiply(r))
		data.Normals = append(data.Normals, n)
		data.UVs = append(data.UVs, uv)
	}

	du := math.Pi / float64(divs)
	dv := 2 * math.Pi / float64(divs)
	add(core.NewVec3(0, -1, 0), core.NewVec2(0.5, 0))
	for i := 1; i <= rings; i++ {
		u := -math.Pi/2 + float64(i)*du
		for j := 0; j < divs; j++ {
			v := -math.Pi + float64(j)*dv
			add(core.NewVec3(math.Cos(u)*math.Cos(v), math.Sin(u), math.Cos(u)*math.Sin(v)),
				core.NewVec2(-v*0.5/math.Pi+0.5, u/math.Pi+0.5))
		}
	}
	add(core.NewVec3(0, 1, 0), core.NewVec2(0.5, 1))

	bottom, top := uint32(0), uint32(count-1)
	ring := func(i, j int) uint32 { return uint32(1 + i*divs + j%divs) }
	for j := 0; j < divs; j++ {
		data.Indices = append(data.Indices, bottom, ring(0, j), ring(0, j+1))
	}
	for i := 0; i < rings-1; i++ {
		for j := 0; j < divs; j++ {
			lo0, lo1 := ring(i, j), ring(i, j+1)
			hi0, hi1 := ring(i+1, j), ring(i+1, j+1)
			data.Indices = append(data.Indices, lo0, hi0, hi1, lo0, hi1, lo1)
		}
	}
	for j := 0; j < divs; j++ {
		data.Indices = append(data.Indices, top, ring(rings-1, j+1), ring(rings-1, j))
	}
	return data
}
