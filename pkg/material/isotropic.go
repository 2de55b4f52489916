package material

import (
	"math"

	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/texture"
)

// Isotropic is the phase function of a participating medium: it scatters
// uniformly over the sphere
type Isotropic struct {
	Albedo texture.Handle
}

func (i Isotropic) Sample(in core.Vec3, hit HitRecord, sampler core.Sampler) (core.Vec3, bool) {
	return core.SampleOnUnitSphere(sampler.Get2D()), true
}

func (i Isotropic) Evaluate(textures texture.Sampler, in, out core.Vec3, hit HitRecord) Evaluation {
	const pdf = 1 / (4 * math.Pi)
	albedo := textures.Sample(i.Albedo, hit.Query())
	return evaluation(albedo.Multiply(pdf), pdf, false)
}

func (i Isotropic) Textures() []texture.Handle { return []texture.Handle{i.Albedo} }
