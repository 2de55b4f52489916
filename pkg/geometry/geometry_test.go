package geometry

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-tile-pathtracer/pkg/arena"
	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/material"
)

// constSampler returns the same value for every dimension
type constSampler float64

func (s constSampler) Get1D() float64   { return float64(s) }
func (s constSampler) Get2D() core.Vec2 { return core.NewVec2(float64(s), float64(s)) }
func (s constSampler) Get3D() core.Vec3 { return core.Splat(float64(s)) }

var testMaterial = material.NewHandle(0)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(arena.New(1<<20), 0)
}

func mustAdd(t *testing.T, s *Store, obj Object) Handle {
	t.Helper()
	h, err := s.Add(obj)
	require.NoError(t, err)
	return h
}

func hit(s *Store, h Handle, ray core.Ray) (material.HitRecord, bool) {
	return s.Hit(ray, h, 0.001, math.Inf(1), constSampler(0.5), nil)
}

func assertVecNear(t *testing.T, expected, actual core.Vec3, tolerance float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, 0, expected.Subtract(actual).Length(), tolerance, msgAndArgs...)
}

func TestSphere_Hit(t *testing.T) {
	s := newTestStore(t)
	sphere := mustAdd(t, s, Sphere{Center: core.NewVec3(0, 0, -5), Radius: 1, Material: testMaterial})

	tests := []struct {
		name      string
		ray       core.Ray
		hit       bool
		t         float64
		normal    core.Vec3
		frontFace bool
	}{
		{"front", core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), true, 4, core.NewVec3(0, 0, 1), true},
		{"miss", core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), false, 0, core.Vec3{}, false},
		{"from inside", core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(1, 0, 0)), true, 1, core.NewVec3(-1, 0, 0), false},
		{"behind", core.NewRay(core.NewVec3(0, 0, -10), core.NewVec3(0, 0, -1)), false, 0, core.Vec3{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := hit(s, sphere, tt.ray)
			require.Equal(t, tt.hit, ok)
			if !ok {
				return
			}
			assert.InDelta(t, tt.t, rec.T, 1e-9)
			assertVecNear(t, tt.normal, rec.Normal, 1e-9)
			assert.Equal(t, tt.frontFace, rec.FrontFace)
			assert.Equal(t, testMaterial, rec.Material)
		})
	}
}

func TestSphereUV(t *testing.T) {
	assert.InDelta(t, 1.0, SphereUV(core.NewVec3(0, 1, 0)).Y, 1e-12)
	assert.InDelta(t, 0.0, SphereUV(core.NewVec3(0, -1, 0)).Y, 1e-12)
	assert.InDelta(t, 0.5, SphereUV(core.NewVec3(1, 0, 0)).X, 1e-12)
}

func TestDisk_Hit(t *testing.T) {
	s := newTestStore(t)
	disk := mustAdd(t, s, NewDisk(core.Vec3{}, core.NewVec3(0, 0, 2), 1, testMaterial))

	rec, ok := hit(s, disk, core.NewRay(core.NewVec3(0.5, 0, 3), core.NewVec3(0, 0, -1)))
	require.True(t, ok)
	assert.InDelta(t, 3, rec.T, 1e-12)
	assert.True(t, rec.FrontFace)
	assert.InDelta(t, 0.5, rec.UV.Y, 1e-12)

	_, ok = hit(s, disk, core.NewRay(core.NewVec3(1.5, 0, 3), core.NewVec3(0, 0, -1)))
	assert.False(t, ok, "outside the radius")
	_, ok = hit(s, disk, core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(1, 0, 0)))
	assert.False(t, ok, "parallel to the plane")

	bounds := s.Bounds(disk)
	assert.InDelta(t, 1+boundsPadding, bounds.Max.X, 1e-12)
	assert.InDelta(t, boundsPadding, bounds.Max.Z, 1e-12)
}

func TestTriangle_HitAndCounters(t *testing.T) {
	s := newTestStore(t)
	tri := mustAdd(t, s, NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), testMaterial))

	var counters Counters
	ctx := NewContext(s, constSampler(0.5), &counters)

	rec, ok := ctx.Hit(core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, -1)), tri, 0.001, math.Inf(1))
	require.True(t, ok)
	assert.InDelta(t, 1, rec.T, 1e-12)
	assert.Equal(t, core.NewVec3(0, 0, 1), rec.Normal)
	assert.InDelta(t, 0.25, rec.UV.X, 1e-12)
	assert.InDelta(t, 0.25, rec.UV.Y, 1e-12)

	_, ok = ctx.Hit(core.NewRay(core.NewVec3(0.75, 0.75, 1), core.NewVec3(0, 0, -1)), tri, 0.001, math.Inf(1))
	assert.False(t, ok)
	assert.Equal(t, uint64(2), counters.TriangleTests)

	bounds := s.Bounds(tri)
	assert.Greater(t, bounds.Size().Z, 0.0, "flat triangles get padded bounds")
}

// A ray through two opposite faces of a box crosses exactly two of its
// twelve triangles
func TestBox_RayCrossesTwoTriangles(t *testing.T) {
	s := newTestStore(t)
	box, err := NewBox(s, core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1), testMaterial)
	require.NoError(t, err)
	h := mustAdd(t, s, box)

	obj, ok := s.Get(box.Sides)
	require.True(t, ok)
	sides := obj.(List).Children()
	require.Len(t, sides, 12)

	ray := core.NewRay(core.NewVec3(-5, 0.3, 0.4), core.NewVec3(1, 0, 0))
	crossings := 0
	for _, side := range sides {
		if _, ok := s.Hit(ray, side, 0, math.Inf(1), nil, nil); ok {
			crossings++
		}
	}
	assert.Equal(t, 2, crossings)

	rec, ok := hit(s, h, ray)
	require.True(t, ok)
	assert.InDelta(t, 4, rec.T, 1e-9)
	assertVecNear(t, core.NewVec3(-1, 0, 0), rec.Normal, 1e-12)
	assert.True(t, rec.FrontFace, "box faces point outwards")

	assert.Equal(t, core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1)), s.Bounds(h))
}

func TestList_ClosestHitIgnoresOrder(t *testing.T) {
	for _, reversed := range []bool{false, true} {
		s := newTestStore(t)
		near := mustAdd(t, s, Sphere{Center: core.NewVec3(0, 0, -3), Radius: 1, Material: material.NewHandle(0)})
		far := mustAdd(t, s, Sphere{Center: core.NewVec3(0, 0, -8), Radius: 1, Material: material.NewHandle(1)})

		list, err := s.NewList(1)
		require.NoError(t, err)
		order := []Handle{near, far}
		if reversed {
			order = []Handle{far, near}
		}
		for _, h := range order {
			require.NoError(t, s.AddToList(list, h))
		}

		rec, ok := hit(s, list, core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)))
		require.True(t, ok)
		assert.InDelta(t, 2, rec.T, 1e-9)
		assert.Equal(t, material.NewHandle(0), rec.Material)

		obj, _ := s.Get(list)
		assert.Equal(t, 2, obj.(List).Len())
		assert.GreaterOrEqual(t, obj.(List).Cap(), 2, "list grew past its initial capacity")
	}
}

func TestList_Errors(t *testing.T) {
	s := newTestStore(t)
	list, err := s.NewList(4)
	require.NoError(t, err)
	sphere := mustAdd(t, s, Sphere{Radius: 1})

	err = s.AddToList(list, NewHandle(99))
	assert.True(t, errors.Is(err, ErrUnknownHandle))
	assert.Error(t, s.AddToList(sphere, list), "spheres are not lists")
	assert.Error(t, s.AddToList(list, list), "a list cannot contain itself")

	outer, err := s.NewList(1)
	require.NoError(t, err)
	require.NoError(t, s.AddToList(outer, list))
	assert.Error(t, s.AddToList(list, outer), "cycles are rejected")

	_, err = s.Add(BVHNode{Left: sphere, Right: NewHandle(50)})
	assert.True(t, errors.Is(err, ErrUnknownHandle))
}

func TestStore_CapacityError(t *testing.T) {
	s := NewStore(arena.New(1024), 2)
	mustAdd(t, s, Sphere{Radius: 1})
	mustAdd(t, s, Sphere{Radius: 1})
	_, err := s.Add(Sphere{Radius: 1})
	assert.True(t, errors.Is(err, arena.ErrTableFull))

	s = NewStore(arena.New(16), 0)
	_, err = s.NewList(100)
	assert.True(t, errors.Is(err, arena.ErrOutOfMemory))
}

func TestConstantMedium(t *testing.T) {
	s := newTestStore(t)
	boundary := mustAdd(t, s, Sphere{Radius: 1})
	phase := material.NewHandle(3)
	medium, err := NewConstantMedium(s, boundary, 1, phase)
	require.NoError(t, err)
	h := mustAdd(t, s, medium)

	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))

	rec, ok := s.Hit(ray, h, 0.001, math.Inf(1), constSampler(0.5), nil)
	require.True(t, ok)
	assert.InDelta(t, 4+math.Ln2, rec.T, 1e-9)
	assert.Equal(t, phase, rec.Material)
	assert.True(t, rec.FrontFace)

	_, ok = s.Hit(ray, h, 0.001, math.Inf(1), constSampler(1e-9), nil)
	assert.False(t, ok, "free flight longer than the chord passes through")

	// The normal faces against the ray whatever its direction
	for _, dir := range []core.Vec3{
		core.NewVec3(1, 0, 0),
		core.NewVec3(-1, 0, 0),
		core.NewVec3(0, 0, 1),
		core.NewVec3(1, 2, -3),
	} {
		r := core.NewRay(dir.Normalize().Multiply(-5), dir)
		rec, ok := s.Hit(r, h, 0.001, math.Inf(1), constSampler(0.5), nil)
		require.True(t, ok, "direction %v", dir)
		assert.Less(t, r.Direction.Dot(rec.Normal), 0.0, "direction %v", dir)
		assert.InDelta(t, 1, rec.Normal.Length(), 1e-12)
		assert.True(t, rec.FrontFace)
	}

	// starting inside the medium clamps the entry to tMin
	inside := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	rec, ok = s.Hit(inside, h, 0.001, math.Inf(1), constSampler(0.5), nil)
	require.True(t, ok)
	assert.InDelta(t, 0.001+math.Ln2, rec.T, 1e-9)

	_, err = NewConstantMedium(s, boundary, 0, phase)
	assert.Error(t, err)
}

func TestTransform(t *testing.T) {
	s := newTestStore(t)
	sphere := mustAdd(t, s, Sphere{Radius: 1, Material: testMaterial})
	tr, err := NewTransform(s, sphere, core.NewVec3(5, 0, 0), core.NewVec3(0, math.Pi/3, 0))
	require.NoError(t, err)
	h := mustAdd(t, s, tr)

	rec, ok := hit(s, h, core.NewRay(core.NewVec3(5, 0, -5), core.NewVec3(0, 0, 1)))
	require.True(t, ok)
	assert.InDelta(t, 4, rec.T, 1e-9)
	assertVecNear(t, core.NewVec3(5, 0, -1), rec.Point, 1e-9)
	assertVecNear(t, core.NewVec3(0, 0, -1), rec.Normal, 1e-9)

	_, ok = hit(s, h, core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1)))
	assert.False(t, ok)

	bounds := s.Bounds(h)
	assert.True(t, bounds.Contains(core.NewAABB(core.NewVec3(4, -1, -1), core.NewVec3(6, 1, 1))))
}

func TestTransform_RotatedBoxBounds(t *testing.T) {
	s := newTestStore(t)
	box, err := NewBox(s, core.Vec3{}, core.NewVec3(1, 1, 1), testMaterial)
	require.NoError(t, err)
	bh := mustAdd(t, s, box)
	tr, err := NewTransform(s, bh, core.Vec3{}, core.NewVec3(0, math.Pi/4, 0))
	require.NoError(t, err)

	// every world-space hit lies inside the transformed bounds
	h := mustAdd(t, s, tr)
	bounds := s.Bounds(h).Expand(1e-9)
	rng := core.NewRandomSeries(5)
	hits := 0
	for i := 0; i < 500; i++ {
		origin := rng.Vector(-3, 3)
		target := rng.Vector(-0.5, 1.5)
		rec, ok := hit(s, h, core.NewRay(origin, target.Subtract(origin)))
		if ok {
			hits++
			assert.True(t, bounds.Contains(core.NewAABB(rec.Point, rec.Point)))
		}
	}
	assert.Greater(t, hits, 0)
}

func TestAnimatedTransform(t *testing.T) {
	s := newTestStore(t)
	sphere := mustAdd(t, s, Sphere{Radius: 1, Material: testMaterial})
	start := Pose{Rotation: core.QuatIdentity()}
	end := Pose{Translation: core.NewVec3(4, 0, 0), Rotation: core.QuatFromAxisAngle(core.NewVec3(0, 1, 0), math.Pi/2)}
	anim, err := NewAnimatedTransform(s, sphere, start, end, 0, 1)
	require.NoError(t, err)
	h := mustAdd(t, s, anim)

	ray := func(time float64) core.Ray {
		return core.NewRayAtTime(core.NewVec3(2, 0, -5), core.NewVec3(0, 0, 1), time)
	}

	_, ok := hit(s, h, ray(0))
	assert.False(t, ok, "sphere starts at the origin")

	rec, ok := hit(s, h, ray(0.5))
	require.True(t, ok, "sphere is centered under the ray halfway through the shutter")
	assert.InDelta(t, 4, rec.T, 1e-9)
	assertVecNear(t, core.NewVec3(0, 0, -1), rec.Normal, 1e-9)

	_, ok = hit(s, h, ray(1))
	assert.False(t, ok)

	bounds := s.Bounds(h)
	assert.True(t, bounds.Contains(core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(5, 1, 1))))

	pose := anim.PoseAt(0.5)
	assertVecNear(t, core.NewVec3(2, 0, 0), pose.Translation, 1e-12)
	p := core.NewVec3(1, 2, 3)
	assertVecNear(t, pose.Rotation.Rotate(p).Add(pose.Translation), pose.Matrix().MulPoint(p), 1e-9)

	_, err = NewAnimatedTransform(s, sphere, start, end, 1, 0)
	assert.Error(t, err)
}

func TestTriangleMesh(t *testing.T) {
	s := newTestStore(t)
	data := MeshData{
		Vertices: []core.Vec3{
			core.NewVec3(0, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(2, 2, 0), core.NewVec3(0, 2, 0),
		},
		Normals: []core.Vec3{
			core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1),
		},
		UVs: []core.Vec2{
			core.NewVec2(0, 0), core.NewVec2(1, 0), core.NewVec2(1, 1), core.NewVec2(0, 1),
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
	mesh, err := NewTriangleMesh(s.Arena(), data, testMaterial)
	require.NoError(t, err)
	assert.Equal(t, 2, mesh.TriangleCount())
	assert.InDelta(t, 4, mesh.SurfaceArea(), 1e-12)
	h := mustAdd(t, s, mesh)

	var counters Counters
	rec, ok := s.Hit(core.NewRay(core.NewVec3(0.5, 1.5, 3), core.NewVec3(0, 0, -1)), h, 0.001, math.Inf(1), nil, &counters)
	require.True(t, ok)
	assert.InDelta(t, 3, rec.T, 1e-12)
	assertVecNear(t, core.NewVec3(0, 0, 1), rec.Normal, 1e-12)
	assert.InDelta(t, 0.25, rec.UV.X, 1e-12)
	assert.InDelta(t, 0.75, rec.UV.Y, 1e-12)
	assert.Equal(t, uint64(2), counters.TriangleTests)

	// a ray missing the bounds tests no triangles
	_, ok = s.Hit(core.NewRay(core.NewVec3(5, 5, 3), core.NewVec3(0, 0, -1)), h, 0.001, math.Inf(1), nil, &counters)
	assert.False(t, ok)
	assert.Equal(t, uint64(2), counters.TriangleTests)

	assert.True(t, rec.Geometric.IsZero() || rec.Geometric == rec.Normal)

	// Tilted shading normals keep the face normal alongside
	tilted := core.NewVec3(1, 0, 1).Normalize()
	data.Normals = []core.Vec3{tilted, tilted, tilted, tilted}
	mesh, err = NewTriangleMesh(s.Arena(), data, testMaterial)
	require.NoError(t, err)
	h = mustAdd(t, s, mesh)
	rec, ok = s.Hit(core.NewRay(core.NewVec3(0.5, 1.5, 3), core.NewVec3(0, 0, -1)), h, 0.001, math.Inf(1), nil, nil)
	require.True(t, ok)
	assertVecNear(t, tilted, rec.Normal, 1e-12)
	assertVecNear(t, core.NewVec3(0, 0, 1), rec.GeometricNormal(), 1e-12)
	assert.True(t, rec.FrontFace)

	data.Indices = []uint32{0, 1, 7}
	_, err = NewTriangleMesh(s.Arena(), data, testMaterial)
	assert.Error(t, err, "out of range index")

	data.Indices = []uint32{0, 1}
	_, err = NewTriangleMesh(s.Arena(), data, testMaterial)
	assert.Error(t, err)
}
