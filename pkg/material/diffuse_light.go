package material

import (
	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/texture"
)

// LightFlags select which faces of a DiffuseLight emit
type LightFlags uint8

const (
	// BothSided emits from front and back faces
	BothSided LightFlags = 1 << iota
	// FlipFace emits from back faces instead of front faces
	FlipFace
)

// DiffuseLight represents a light-emitting material. It never scatters.
type DiffuseLight struct {
	Emittance texture.Handle
	Flags     LightFlags
}

// Sample always absorbs: lights terminate the path
func (l DiffuseLight) Sample(in core.Vec3, hit HitRecord, sampler core.Sampler) (core.Vec3, bool) {
	return core.Vec3{}, false
}

func (l DiffuseLight) Evaluate(textures texture.Sampler, in, out core.Vec3, hit HitRecord) Evaluation {
	return black()
}

// Emit returns the emittance for the faces selected by Flags, black otherwise
func (l DiffuseLight) Emit(textures texture.Sampler, hit HitRecord, ray core.Ray) core.Vec3 {
	front := hit.FrontFace
	if l.Flags&FlipFace != 0 {
		front = !front
	}
	if l.Flags&BothSided == 0 && !front {
		return core.Vec3{}
	}
	return textures.Sample(l.Emittance, hit.Query())
}

func (l DiffuseLight) Textures() []texture.Handle { return []texture.Handle{l.Emittance} }
