package material

import (
	"math"

	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/texture"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo texture.Handle
}

// Sample draws a cosine-weighted direction about the normal
func (l Lambertian) Sample(in core.Vec3, hit HitRecord, sampler core.Sampler) (core.Vec3, bool) {
	return core.SampleCosineHemisphere(hit.Normal, sampler.Get2D()), true
}

// Evaluate returns albedo/pi * cos with pdf cos/pi, so the weight is the albedo
func (l Lambertian) Evaluate(textures texture.Sampler, in, out core.Vec3, hit HitRecord) Evaluation {
	cosTheta := out.Dot(hit.Normal)
	if cosTheta <= 0 {
		return black()
	}
	albedo := textures.Sample(l.Albedo, hit.Query())
	return evaluation(albedo.Multiply(cosTheta/math.Pi), cosTheta/math.Pi, false)
}

func (l Lambertian) Textures() []texture.Handle { return []texture.Handle{l.Albedo} }
