package material

import (
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-tile-pathtracer/pkg/core"
)

// minAlpha keeps the GGX distribution finite for very smooth surfaces
const minAlpha = 1e-3

// directions closer than this are treated as the same delta direction
const deltaTolerance = 1e-6

// ggx is the Trowbridge-Reitz microfacet distribution with Smith masking
type ggx struct {
	alpha float64
}

func newGGX(roughness float64) ggx {
	return ggx{alpha: math.Max(roughness*roughness, minAlpha)}
}

// D is the density of microfacet normals at cosH = n.h
func (g ggx) D(cosH float64) float64 {
	if cosH <= 0 {
		return 0
	}
	a2 := g.alpha * g.alpha
	d := cosH*cosH*(a2-1) + 1
	return a2 / (math.Pi * d * d)
}

// G1 is the Smith masking term for one direction with cosV = |n.v|
func (g ggx) G1(cosV float64) float64 {
	if cosV <= 0 {
		return 0
	}
	a2 := g.alpha * g.alpha
	return 2 * cosV / (cosV + math.Sqrt(a2+(1-a2)*cosV*cosV))
}

// G is the separable masking-shadowing term
func (g ggx) G(cosO, cosI float64) float64 {
	return g.G1(math.Abs(cosO)) * g.G1(math.Abs(cosI))
}

// SampleHalf draws a microfacet normal about n with density D(n.h)(n.h)
func (g ggx) SampleHalf(n core.Vec3, u core.Vec2) core.Vec3 {
	a2 := g.alpha * g.alpha
	cosTheta := math.Sqrt((1 - u.X) / (1 + (a2-1)*u.X))
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u.Y
	return core.NewONB(n).Local(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
}

// FresnelDielectric is the unpolarised Fresnel reflectance for light
// arriving at cosine cosI, where eta is the incident index over the
// transmitted index. Total internal reflection returns 1.
func FresnelDielectric(cosI, eta float64) float64 {
	cosI = clampCos(cosI)
	sin2T := eta * eta * (1 - cosI*cosI)
	if sin2T >= 1 {
		return 1
	}
	cosT := math.Sqrt(1 - sin2T)
	rs := (eta*cosI - cosT) / (eta*cosI + cosT)
	rp := (cosI - eta*cosT) / (cosI + eta*cosT)
	return 0.5 * (rs*rs + rp*rp)
}

// fresnelSchlick is the Schlick approximation with a coloured normal
// incidence reflectance f0
func fresnelSchlick(f0 core.Vec3, cos float64) core.Vec3 {
	m := math.Pow(1-clampCos(cos), 5)
	return f0.Add(core.Splat(1).Subtract(f0).Multiply(m))
}

func clampCos(c float64) float64 {
	return math.Max(0, math.Min(1, c))
}

func isInf(f float64) bool {
	return math.IsInf(f, 0)
}

func sameDirection(a, b core.Vec3) bool {
	return a.Dot(b) > 1-deltaTolerance
}

func validateRoughness(roughness float64) error {
	if math.IsNaN(roughness) || roughness < 0 || roughness > 1 {
		return errors.Errorf("roughness %v outside [0, 1]", roughness)
	}
	return nil
}

func validateIOR(name string, ior float64) error {
	if !(ior > 0) || isInf(ior) {
		return errors.Errorf("%s index of refraction %v must be positive", name, ior)
	}
	return nil
}
