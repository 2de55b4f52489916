package material

import (
	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/texture"
)

// Metal is a conductor with a GGX microfacet surface. The specular texture
// is the reflectance at normal incidence. Roughness 0 is a perfect mirror.
type Metal struct {
	Roughness float64
	Specular  texture.Handle
}

func (m Metal) Validate() error { return validateRoughness(m.Roughness) }

func (m Metal) Sample(in core.Vec3, hit HitRecord, sampler core.Sampler) (core.Vec3, bool) {
	if m.Roughness == 0 {
		return in.Reflect(hit.Normal), true
	}
	h := newGGX(m.Roughness).SampleHalf(hit.Normal, sampler.Get2D())
	out := in.Reflect(h)
	return out, out.Dot(hit.Normal) > 0
}

func (m Metal) Evaluate(textures texture.Sampler, in, out core.Vec3, hit HitRecord) Evaluation {
	n := hit.Normal
	wo := in.Negate()
	cosO := wo.Dot(n)
	cosI := out.Dot(n)
	if cosO <= 0 || cosI <= 0 {
		return black()
	}
	specular := textures.Sample(m.Specular, hit.Query())

	if m.Roughness == 0 {
		if !sameDirection(out, in.Reflect(n)) {
			return black()
		}
		return evaluation(fresnelSchlick(specular, cosO), 1, true)
	}

	g := newGGX(m.Roughness)
	h := wo.Add(out).Normalize()
	cosH := h.Dot(n)
	woh := wo.Dot(h)
	if cosH <= 0 || woh <= 0 {
		return black()
	}

	f := fresnelSchlick(specular, woh)
	d := g.D(cosH)
	bsdf := f.Multiply(d * g.G(cosO, cosI) / (4 * cosO))
	pdf := d * cosH / (4 * woh)
	return evaluation(bsdf, pdf, false)
}

func (m Metal) Textures() []texture.Handle { return []texture.Handle{m.Specular} }
