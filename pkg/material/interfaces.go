// Package material implements the scattering behaviour of surfaces and
// participating media. Every material supports two operations: Sample
// picks a scatter direction, Evaluate returns the BSDF value, the pdf of
// having sampled that direction, and their ratio.
package material

import (
	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/texture"
)

// Handle identifies a material in a Table. The zero Handle is invalid.
type Handle struct {
	v uint32
}

// NewHandle returns the handle of table slot index
func NewHandle(index int) Handle {
	return Handle{v: uint32(index) + 1}
}

// IsValid reports whether the handle refers to a slot
func (h Handle) IsValid() bool { return h.v != 0 }

// Index returns the table slot the handle refers to
func (h Handle) Index() int { return int(h.v) - 1 }

// Material scatters light at a hit point.
//
// Directions follow the ray: in points towards the surface, out points
// away from it. hit.Normal always faces against in.
type Material interface {
	// Sample chooses a scatter direction. It returns false when the
	// material absorbs the path.
	Sample(in core.Vec3, hit HitRecord, sampler core.Sampler) (core.Vec3, bool)

	// Evaluate returns the BSDF value times the cosine at out, the pdf of
	// Sample returning out, and their ratio
	Evaluate(textures texture.Sampler, in, out core.Vec3, hit HitRecord) Evaluation

	// Textures lists the texture handles the material reads
	Textures() []texture.Handle
}

// Emitter is implemented by materials that emit light
type Emitter interface {
	Emit(textures texture.Sampler, hit HitRecord, ray core.Ray) core.Vec3
}

// Evaluation is the result of evaluating a material for a pair of directions
type Evaluation struct {
	// BSDF is the scattering function times the cosine at the outgoing direction
	BSDF core.Vec3
	// PDF is the density of sampling the outgoing direction. For delta
	// lobes it is the discrete probability of picking that lobe.
	PDF float64
	// Weight is BSDF / PDF, the path throughput multiplier
	Weight core.Vec3
	// Delta marks a perfectly specular lobe
	Delta bool
}

// IsBlack reports whether the evaluation contributes nothing and should end
// the path. Non-finite results are treated as black.
func (e Evaluation) IsBlack() bool {
	return !(e.PDF > 0) || isInf(e.PDF) || !e.Weight.IsFinite() || e.Weight.IsZero()
}

// HitRecord describes a ray-surface intersection
type HitRecord struct {
	T         float64   // Parameter t along the ray
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Unit normal, facing against the ray
	FrontFace bool      // Whether the ray hit the outside of the surface
	UV        core.Vec2 // Surface coordinates
	Material  Handle

	// Geometric is the face normal, oriented like Normal, when Normal is an
	// interpolated shading normal. Zero otherwise.
	Geometric core.Vec3
}

// GeometricNormal returns the true surface normal of the hit
func (h HitRecord) GeometricNormal() core.Vec3 {
	if h.Geometric.IsZero() {
		return h.Normal
	}
	return h.Geometric
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// Query returns the texture lookup for the hit
func (h HitRecord) Query() texture.Query {
	return texture.Query{UV: h.UV, Point: h.Point, Normal: h.Normal}
}

func black() Evaluation { return Evaluation{} }

// evaluation fills in Weight from BSDF and PDF
func evaluation(bsdf core.Vec3, pdf float64, delta bool) Evaluation {
	if !(pdf > 0) {
		return black()
	}
	return Evaluation{BSDF: bsdf, PDF: pdf, Weight: bsdf.Multiply(1 / pdf), Delta: delta}
}
