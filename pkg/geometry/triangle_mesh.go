package geometry

import (
	"github.com/pkg/errors"

	"github.com/df07/go-tile-pathtracer/pkg/arena"
	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/material"
)

// MeshData is the input to NewTriangleMesh. Normals and UVs are optional;
// when present they are indexed like Vertices.
type MeshData struct {
	Vertices []core.Vec3
	Normals  []core.Vec3
	UVs      []core.Vec2
	// Indices holds one vertex index triple per triangle
	Indices []uint32
}

// TriangleMesh is an indexed triangle list tested linearly after a bounding
// box rejection. Its arrays live in the scene arena.
type TriangleMesh struct {
	vertices []core.Vec3
	normals  []core.Vec3
	uvs      []core.Vec2
	indices  []uint32
	bounds   core.AABB
	area     float64
	Material material.Handle
}

// NewTriangleMesh copies data into a and precomputes the mesh bounds and
// surface area
func NewTriangleMesh(a *arena.Arena, data MeshData, mat material.Handle) (TriangleMesh, error) {
	if len(data.Indices)%3 != 0 {
		return TriangleMesh{}, errors.Errorf("mesh has %d indices, not a multiple of 3", len(data.Indices))
	}
	if len(data.Indices) == 0 {
		return TriangleMesh{}, errors.New("mesh has no triangles")
	}
	if data.Normals != nil && len(data.Normals) != len(data.Vertices) {
		return TriangleMesh{}, errors.Errorf("mesh has %d normals for %d vertices", len(data.Normals), len(data.Vertices))
	}
	if data.UVs != nil && len(data.UVs) != len(data.Vertices) {
		return TriangleMesh{}, errors.Errorf("mesh has %d uvs for %d vertices", len(data.UVs), len(data.Vertices))
	}
	for i, index := range data.Indices {
		if int(index) >= len(data.Vertices) {
			return TriangleMesh{}, errors.Errorf("mesh index %d at position %d out of range for %d vertices", index, i, len(data.Vertices))
		}
	}

	m := TriangleMesh{Material: mat}
	var err error
	if m.vertices, err = arena.Copy(a, data.Vertices); err != nil {
		return TriangleMesh{}, errors.Wrap(err, "mesh vertices")
	}
	if m.indices, err = arena.Copy(a, data.Indices); err != nil {
		return TriangleMesh{}, errors.Wrap(err, "mesh indices")
	}
	if data.Normals != nil {
		if m.normals, err = arena.Copy(a, data.Normals); err != nil {
			return TriangleMesh{}, errors.Wrap(err, "mesh normals")
		}
	}
	if data.UVs != nil {
		if m.uvs, err = arena.Copy(a, data.UVs); err != nil {
			return TriangleMesh{}, errors.Wrap(err, "mesh uvs")
		}
	}

	m.bounds = core.EmptyAABB()
	for i := 0; i < m.TriangleCount(); i++ {
		v0, v1, v2 := m.triangle(i)
		m.bounds = m.bounds.Extend(v0).Extend(v1).Extend(v2)
		m.area += 0.5 * v1.Subtract(v0).Cross(v2.Subtract(v0)).Length()
	}
	m.bounds = m.bounds.Expand(boundsPadding)
	return m, nil
}

// TriangleCount returns the number of triangles
func (m TriangleMesh) TriangleCount() int { return len(m.indices) / 3 }

// SurfaceArea returns the total area of all triangles
func (m TriangleMesh) SurfaceArea() float64 { return m.area }

func (m TriangleMesh) triangle(i int) (v0, v1, v2 core.Vec3) {
	return m.vertices[m.indices[3*i]], m.vertices[m.indices[3*i+1]], m.vertices[m.indices[3*i+2]]
}

func (m TriangleMesh) Hit(ctx *Context, ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	if !m.bounds.Hit(ray, tMin, tMax) {
		return material.HitRecord{}, false
	}
	ctx.countTriangles(m.TriangleCount())

	closest := tMax
	best := -1
	var bestU, bestV float64
	for i := 0; i < m.TriangleCount(); i++ {
		v0, v1, v2 := m.triangle(i)
		if t, u, v, ok := intersectTriangle(ray, v0, v1, v2, tMin, closest); ok {
			closest, best, bestU, bestV = t, i, u, v
		}
	}
	if best < 0 {
		return material.HitRecord{}, false
	}

	i0, i1, i2 := m.indices[3*best], m.indices[3*best+1], m.indices[3*best+2]
	v0, v1, v2 := m.vertices[i0], m.vertices[i1], m.vertices[i2]
	w := 1 - bestU - bestV
	geometric := v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()

	rec := material.HitRecord{
		T:        closest,
		Point:    ray.At(closest),
		UV:       core.NewVec2(bestU, bestV),
		Material: m.Material,
	}
	if m.uvs != nil {
		rec.UV = m.uvs[i0].Multiply(w).Add(m.uvs[i1].Multiply(bestU)).Add(m.uvs[i2].Multiply(bestV))
	}

	rec.SetFaceNormal(ray, geometric)
	if m.normals != nil {
		shading := m.normals[i0].Multiply(w).Add(m.normals[i1].Multiply(bestU)).Add(m.normals[i2].Multiply(bestV)).Normalize()
		if shading.Dot(rec.Normal) < 0 {
			shading = shading.Negate()
		}
		if !shading.IsZero() {
			rec.Geometric = rec.Normal
			rec.Normal = shading
		}
	}
	return rec, true
}

func (m TriangleMesh) Bounds() core.AABB { return m.bounds }

func (m TriangleMesh) Materials() []material.Handle { return []material.Handle{m.Material} }
