package material

import (
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/texture"
)

// Dielectric represents a transparent material like glass that can both
// reflect and refract. IntIOR is the index inside the surface, ExtIOR the
// index outside. Rough dielectrics sample a GGX microfacet normal and use
// the exact Fresnel reflectance at it to choose between the two lobes.
type Dielectric struct {
	Roughness     float64
	ExtIOR        float64
	IntIOR        float64
	Specular      texture.Handle
	Transmittance texture.Handle
}

func (d Dielectric) Validate() error {
	if err := validateRoughness(d.Roughness); err != nil {
		return errors.Wrap(err, "dielectric")
	}
	if err := validateIOR("exterior", d.ExtIOR); err != nil {
		return errors.Wrap(err, "dielectric")
	}
	return errors.Wrap(validateIOR("interior", d.IntIOR), "dielectric")
}

// eta returns the incident over transmitted index for a ray arriving at hit
func (d Dielectric) eta(hit HitRecord) float64 {
	if hit.FrontFace {
		return d.ExtIOR / d.IntIOR
	}
	return d.IntIOR / d.ExtIOR
}

func (d Dielectric) Sample(in core.Vec3, hit HitRecord, sampler core.Sampler) (core.Vec3, bool) {
	n := hit.Normal
	eta := d.eta(hit)

	h := n
	if d.Roughness > 0 {
		h = newGGX(d.Roughness).SampleHalf(n, sampler.Get2D())
	}
	cosH := -in.Dot(h)
	if cosH <= 0 {
		return core.Vec3{}, false
	}

	if sampler.Get1D() >= FresnelDielectric(cosH, eta) {
		if out, ok := in.Refract(h, eta); ok {
			return out, out.Dot(n) < 0
		}
	}
	out := in.Reflect(h)
	return out, out.Dot(n) > 0
}

func (d Dielectric) Evaluate(textures texture.Sampler, in, out core.Vec3, hit HitRecord) Evaluation {
	n := hit.Normal
	wo := in.Negate()
	cosO := wo.Dot(n)
	cosI := out.Dot(n)
	if cosO <= 0 || cosI == 0 {
		return black()
	}
	eta := d.eta(hit)
	q := hit.Query()

	if d.Roughness == 0 {
		f := FresnelDielectric(cosO, eta)
		if cosI > 0 {
			if !sameDirection(out, in.Reflect(n)) {
				return black()
			}
			return evaluation(textures.Sample(d.Specular, q).Multiply(f), f, true)
		}
		refracted, ok := in.Refract(n, eta)
		if !ok || !sameDirection(out, refracted) {
			return black()
		}
		return evaluation(textures.Sample(d.Transmittance, q).Multiply(1-f), 1-f, true)
	}

	g := newGGX(d.Roughness)
	if cosI > 0 {
		h := wo.Add(out).Normalize()
		cosH := h.Dot(n)
		woh := wo.Dot(h)
		if cosH <= 0 || woh <= 0 {
			return black()
		}
		f := FresnelDielectric(woh, eta)
		dist := g.D(cosH)
		bsdf := textures.Sample(d.Specular, q).Multiply(f * dist * g.G(cosO, cosI) / (4 * cosO))
		pdf := f * dist * cosH / (4 * woh)
		return evaluation(bsdf, pdf, false)
	}

	// generalized half vector for refraction, oriented with the normal
	h := wo.Multiply(eta).Add(out).Negate().Normalize()
	if h.Dot(n) < 0 {
		h = h.Negate()
	}
	cosH := h.Dot(n)
	woh := wo.Dot(h)
	wih := out.Dot(h)
	if cosH <= 0 || woh <= 0 || wih >= 0 {
		return black()
	}
	f := FresnelDielectric(woh, eta)
	if f >= 1 {
		return black()
	}

	denom := eta*woh + wih
	denom *= denom
	if denom == 0 {
		return black()
	}
	dist := g.D(cosH)
	jacobian := math.Abs(wih) / denom
	bsdf := textures.Sample(d.Transmittance, q).Multiply((1 - f) * dist * g.G(cosO, cosI) * woh * jacobian / cosO)
	pdf := (1 - f) * dist * cosH * jacobian
	return evaluation(bsdf, pdf, false)
}

func (d Dielectric) Textures() []texture.Handle {
	return []texture.Handle{d.Specular, d.Transmittance}
}
