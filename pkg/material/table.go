package material

import (
	"github.com/pkg/errors"

	"github.com/df07/go-tile-pathtracer/pkg/arena"
)

// Table holds the materials of a scene
type Table struct {
	entries *arena.Table[Material]
}

// NewTable creates an empty table holding at most limit materials
func NewTable(limit int) *Table {
	return &Table{entries: arena.NewTable[Material]("material", limit)}
}

// Add appends m after checking its parameters
func (t *Table) Add(m Material) (Handle, error) {
	if m == nil {
		return Handle{}, errors.New("nil material")
	}
	if v, ok := m.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return Handle{}, err
		}
	}
	index, err := t.entries.Add(m)
	if err != nil {
		return Handle{}, err
	}
	return NewHandle(index), nil
}

// Contains reports whether h refers to a material in the table
func (t *Table) Contains(h Handle) bool {
	return h.IsValid() && t.entries.Has(h.Index())
}

// Get returns the material h refers to
func (t *Table) Get(h Handle) (Material, bool) {
	if !t.Contains(h) {
		return nil, false
	}
	return t.entries.Get(h.Index()), true
}

// Len returns the number of materials
func (t *Table) Len() int { return t.entries.Len() }

// Each calls fn for every material in insertion order
func (t *Table) Each(fn func(h Handle, m Material)) {
	for i := 0; i < t.entries.Len(); i++ {
		fn(NewHandle(i), t.entries.Get(i))
	}
}
