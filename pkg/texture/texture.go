// Package texture implements the colour fields materials read their
// parameters from. Textures are immutable once added to a Table and are
// addressed by Handle.
package texture

import (
	"github.com/df07/go-tile-pathtracer/pkg/core"
)

// Handle identifies a texture in a Table. The zero Handle is invalid.
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

// Query is everything a texture lookup may depend on
type Query struct {
	UV     core.Vec2
	Point  core.Vec3
	Normal core.Vec3
}

// Sampler evaluates textures by handle. Composite textures use it to look
// up the textures they combine.
type Sampler interface {
	Sample(h Handle, q Query) core.Vec3
}

// Texture is a pure function from a surface query to a colour
type Texture interface {
	Value(s Sampler, q Query) core.Vec3
}

// composite is implemented by textures that reference other textures
type composite interface {
	references() []Handle
}

// Solid is a uniform colour
type Solid struct {
	Color core.Vec3
}

func (t Solid) Value(s Sampler, q Query) core.Vec3 { return t.Color }
