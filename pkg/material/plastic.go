package material

import (
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/texture"
)

// Plastic is a diffuse base under a dielectric coating. A GGX specular lobe
// and a Lambertian lobe are chosen stochastically by the Fresnel
// reflectance of the coating.
type Plastic struct {
	Roughness float64
	ExtIOR    float64
	IntIOR    float64
	Diffuse   texture.Handle
	Specular  texture.Handle
}

func (p Plastic) Validate() error {
	if err := validateRoughness(p.Roughness); err != nil {
		return errors.Wrap(err, "plastic")
	}
	if err := validateIOR("exterior", p.ExtIOR); err != nil {
		return errors.Wrap(err, "plastic")
	}
	return errors.Wrap(validateIOR("interior", p.IntIOR), "plastic")
}

func (p Plastic) eta() float64 { return p.ExtIOR / p.IntIOR }

func (p Plastic) Sample(in core.Vec3, hit HitRecord, sampler core.Sampler) (core.Vec3, bool) {
	n := hit.Normal
	wo := in.Negate()

	h := n
	if p.Roughness > 0 {
		h = newGGX(p.Roughness).SampleHalf(n, sampler.Get2D())
	}
	if sampler.Get1D() < FresnelDielectric(wo.Dot(h), p.eta()) {
		out := in.Reflect(h)
		return out, out.Dot(n) > 0
	}
	return core.SampleCosineHemisphere(n, sampler.Get2D()), true
}

// Evaluate returns the sum of both lobes and the mixture pdf, whichever
// lobe produced out
func (p Plastic) Evaluate(textures texture.Sampler, in, out core.Vec3, hit HitRecord) Evaluation {
	n := hit.Normal
	wo := in.Negate()
	cosO := wo.Dot(n)
	cosI := out.Dot(n)
	if cosO <= 0 || cosI <= 0 {
		return black()
	}
	q := hit.Query()
	diffuse := textures.Sample(p.Diffuse, q)
	specular := textures.Sample(p.Specular, q)

	if p.Roughness == 0 {
		f := FresnelDielectric(cosO, p.eta())
		if sameDirection(out, in.Reflect(n)) {
			return evaluation(specular.Multiply(f), f, true)
		}
		pdf := (1 - f) * cosI / math.Pi
		return evaluation(diffuse.Multiply(pdf), pdf, false)
	}

	g := newGGX(p.Roughness)
	h := wo.Add(out).Normalize()
	cosH := h.Dot(n)
	woh := wo.Dot(h)
	if woh <= 0 {
		return black()
	}
	f := FresnelDielectric(woh, p.eta())
	d := g.D(cosH)

	specBSDF := specular.Multiply(f * d * g.G(cosO, cosI) / (4 * cosO))
	specPDF := f * d * cosH / (4 * woh)
	diffPDF := (1 - f) * cosI / math.Pi
	return evaluation(specBSDF.Add(diffuse.Multiply(diffPDF)), specPDF+diffPDF, false)
}

func (p Plastic) Textures() []texture.Handle { return []texture.Handle{p.Diffuse, p.Specular} }
