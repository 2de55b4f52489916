package texture

import (
	"github.com/pkg/errors"

	"github.com/df07/go-tile-pathtracer/pkg/arena"
	"github.com/df07/go-tile-pathtracer/pkg/core"
)

// ErrUnknownHandle is returned when a texture refers to a handle that is
// not in the table
var ErrUnknownHandle = errors.New("unknown texture handle")

// Table holds the textures of a scene
type Table struct {
	entries *arena.Table[Texture]
}

// NewTable creates an empty table holding at most limit textures
func NewTable(limit int) *Table {
	return &Table{entries: arena.NewTable[Texture]("texture", limit)}
}

// Add appends t. Composite textures may only reference textures already in
// the table, which keeps lookups free of cycles.
func (t *Table) Add(tex Texture) (Handle, error) {
	if tex == nil {
		return Handle{}, errors.New("nil texture")
	}
	if c, ok := tex.(composite); ok {
		for _, ref := range c.references() {
			if !t.Contains(ref) {
				return Handle{}, errors.Wrapf(ErrUnknownHandle, "%T references slot %d", tex, ref.Index())
			}
		}
	}
	index, err := t.entries.Add(tex)
	if err != nil {
		return Handle{}, err
	}
	return NewHandle(index), nil
}

// Contains reports whether h refers to a texture in the table
func (t *Table) Contains(h Handle) bool {
	return h.IsValid() && t.entries.Has(h.Index())
}

// Get returns the texture h refers to
func (t *Table) Get(h Handle) (Texture, bool) {
	if !t.Contains(h) {
		return nil, false
	}
	return t.entries.Get(h.Index()), true
}

// Sample evaluates the texture h refers to. Invalid handles are black.
func (t *Table) Sample(h Handle, q Query) core.Vec3 {
	tex, ok := t.Get(h)
	if !ok {
		return core.Vec3{}
	}
	return tex.Value(t, q)
}

// Len returns the number of textures
func (t *Table) Len() int { return t.entries.Len() }
