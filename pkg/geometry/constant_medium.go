package geometry

import (
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/material"
)

// mediumExitOffset separates the search for the exit from the entry hit
const mediumExitOffset = 0.0001

// ConstantMedium is a volume of uniform density filling a closed boundary
// object. Rays scatter inside it after an exponentially distributed
// free-flight distance.
type ConstantMedium struct {
	Boundary      Handle
	NegInvDensity float64
	Phase         material.Handle
	bounds        core.AABB
}

// NewConstantMedium creates a medium of the given density inside boundary
func NewConstantMedium(s *Store, boundary Handle, density float64, phase material.Handle) (ConstantMedium, error) {
	if !(density > 0) || math.IsInf(density, 0) {
		return ConstantMedium{}, errors.Errorf("medium density %v must be positive", density)
	}
	if !s.Contains(boundary) {
		return ConstantMedium{}, errors.Wrapf(ErrUnknownHandle, "medium boundary slot %d", boundary.Index())
	}
	return ConstantMedium{
		Boundary:      boundary,
		NegInvDensity: -1 / density,
		Phase:         phase,
		bounds:        s.Bounds(boundary),
	}, nil
}

func (m ConstantMedium) Hit(ctx *Context, ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	entry, ok := ctx.Hit(ray, m.Boundary, math.Inf(-1), math.Inf(1))
	if !ok {
		return material.HitRecord{}, false
	}
	exit, ok := ctx.Hit(ray, m.Boundary, entry.T+mediumExitOffset, math.Inf(1))
	if !ok {
		return material.HitRecord{}, false
	}

	t0 := math.Max(entry.T, tMin)
	t1 := math.Min(exit.T, tMax)
	if t0 >= t1 {
		return material.HitRecord{}, false
	}
	t0 = math.Max(t0, 0)

	rayLength := ray.Direction.Length()
	distanceInside := (t1 - t0) * rayLength
	hitDistance := m.NegInvDensity * math.Log(ctx.Sampler.Get1D())
	if hitDistance > distanceInside {
		return material.HitRecord{}, false
	}

	t := t0 + hitDistance/rayLength
	return material.HitRecord{
		T:         t,
		Point:     ray.At(t),
		// Media have no surface; face the normal back along the ray
		Normal:    ray.Direction.Negate().Normalize(),
		FrontFace: true,
		Material:  m.Phase,
	}, true
}

func (m ConstantMedium) Bounds() core.AABB { return m.bounds }

func (m ConstantMedium) Children() []Handle { return []Handle{m.Boundary} }

func (m ConstantMedium) Materials() []material.Handle { return []material.Handle{m.Phase} }
