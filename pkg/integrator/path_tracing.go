// Package integrator estimates the radiance arriving along camera rays.
package integrator

import (
	"math"

	"github.com/df07/go-tile-pathtracer/pkg/camera"
	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/geometry"
	"github.com/df07/go-tile-pathtracer/pkg/material"
	"github.com/df07/go-tile-pathtracer/pkg/world"
)

// rayEpsilon keeps scattered rays from re-hitting the surface they left
const rayEpsilon = 0.001

// maxSurvivalProbability caps the Russian roulette continuation probability
// so that bright paths still terminate eventually
const maxSurvivalProbability = 0.95

// Stats counts the work done by one goroutine
type Stats struct {
	// Bounces counts traced path segments
	Bounces  uint64
	Geometry geometry.Counters
}

// PathTracer implements unidirectional path tracing without light sampling:
// radiance is only gathered when a path hits an emitter or escapes to the
// background
type PathTracer struct {
	// MaxBounces is the number of scatter events a path may take
	MaxBounces int
	// RussianRouletteBounce is the first bounce at which paths may be
	// terminated at random. Zero disables Russian roulette.
	RussianRouletteBounce int
}

// NewPathTracer creates a path tracer
func NewPathTracer(maxBounces, russianRouletteBounce int) PathTracer {
	return PathTracer{MaxBounces: maxBounces, RussianRouletteBounce: russianRouletteBounce}
}

// RayCast traces one path starting with ray and returns its radiance
// estimate. rng drives every random decision along the path.
func (pt PathTracer) RayCast(w *world.World, ray core.Ray, rng *core.RandomSeries, stats *Stats) core.Vec3 {
	ctx := geometry.NewContext(w.Objects, rng, &stats.Geometry)
	ray = core.NewRayAtTime(ray.Origin, ray.Direction.Normalize(), ray.Time)

	throughput := core.NewVec3(1, 1, 1)
	radiance := core.Vec3{}
	for bounce := 0; ; bounce++ {
		stats.Bounces++

		// Trace
		hit, ok := ctx.Hit(ray, w.Root(), rayEpsilon, math.Inf(1))
		if !ok {
			return radiance.Add(throughput.MultiplyVec(w.Background))
		}
		mat, ok := w.Materials.Get(hit.Material)
		if !ok {
			return radiance
		}

		// Emit
		if emitter, isEmitter := mat.(material.Emitter); isEmitter {
			radiance = radiance.Add(throughput.MultiplyVec(emitter.Emit(w.Textures, hit, ray)))
		}
		if bounce >= pt.MaxBounces {
			return radiance
		}

		// Scatter
		out, ok := mat.Sample(ray.Direction, hit, rng)
		if !ok || crossesSurface(hit, out) {
			return radiance
		}
		eval := mat.Evaluate(w.Textures, ray.Direction, out, hit)
		if eval.IsBlack() {
			return radiance
		}
		throughput = throughput.MultiplyVec(eval.Weight)

		if pt.RussianRouletteBounce > 0 && bounce >= pt.RussianRouletteBounce {
			p := math.Min(maxSurvivalProbability, math.Max(0, maxComponent(throughput)))
			if rng.Get1D() >= p {
				return radiance
			}
			throughput = throughput.Multiply(1 / p)
		}

		ray = core.NewRayAtTime(hit.Point, out, ray.Time)
	}
}

// crossesSurface reports whether out lies on opposite sides of the shading
// and geometric normals. Following such a direction would leak light
// through the surface, so the path ends instead.
func crossesSurface(hit material.HitRecord, out core.Vec3) bool {
	return (out.Dot(hit.Normal) > 0) != (out.Dot(hit.GeometricNormal()) > 0)
}

// Pixel returns the mean radiance of raysPerPixel paths through pixel
// (x, y) of a width x height image whose row 0 is at the top. Each path
// uses a jittered film position.
func (pt PathTracer) Pixel(w *world.World, cam *camera.Camera, x, y, width, height, raysPerPixel int, rng *core.RandomSeries, stats *Stats) core.Vec3 {
	sum := core.Vec3{}
	for i := 0; i < raysPerPixel; i++ {
		s := (float64(x) + rng.Get1D()) / float64(width)
		t := 1 - (float64(y)+rng.Get1D())/float64(height)
		sum = sum.Add(pt.RayCast(w, cam.GetRay(s, t, rng), rng, stats))
	}
	return sum.Multiply(1 / float64(raysPerPixel))
}

func maxComponent(v core.Vec3) float64 {
	return math.Max(v.X, math.Max(v.Y, v.Z))
}
