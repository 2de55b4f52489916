// Package geometry implements the scene's object model: primitives,
// wrappers that transform or group other objects, ray intersection
// dispatch and the BVH builder. Objects live in a Store and refer to each
// other by Handle.
package geometry

import (
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-tile-pathtracer/pkg/arena"
	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/material"
)

// ErrUnknownHandle is returned when an object refers to a handle that is
// not in the store
var ErrUnknownHandle = errors.New("unknown object handle")

// Handle identifies an object in a Store. The zero Handle is invalid.
type Handle struct {
	v uint32
}

// NewHandle returns the handle of store slot index
func NewHandle(index int) Handle {
	return Handle{v: uint32(index) + 1}
}

// IsValid reports whether the handle refers to a slot
func (h Handle) IsValid() bool { return h.v != 0 }

// Index returns the store slot the handle refers to
func (h Handle) Index() int { return int(h.v) - 1 }

// Object is anything a ray can hit
type Object interface {
	// Bounds returns the world-space bounding box
	Bounds() core.AABB
	// Hit returns the closest intersection with t in (tMin, tMax)
	Hit(ctx *Context, ray core.Ray, tMin, tMax float64) (material.HitRecord, bool)
}

// materialUser is implemented by objects that carry material handles
type materialUser interface {
	Materials() []material.Handle
}

// parent is implemented by objects that wrap or group other objects
type parent interface {
	Children() []Handle
}

// Counters collects intersection statistics for one goroutine
type Counters struct {
	TriangleTests uint64
}

// Context carries the per-goroutine state an intersection query needs
type Context struct {
	Store    *Store
	Sampler  core.Sampler
	Counters *Counters
}

// NewContext creates a context for querying store. counters may be nil.
func NewContext(store *Store, sampler core.Sampler, counters *Counters) *Context {
	return &Context{Store: store, Sampler: sampler, Counters: counters}
}

// Hit intersects the object h refers to. Invalid handles never hit.
func (c *Context) Hit(ray core.Ray, h Handle, tMin, tMax float64) (material.HitRecord, bool) {
	obj, ok := c.Store.Get(h)
	if !ok {
		return material.HitRecord{}, false
	}
	return obj.Hit(c, ray, tMin, tMax)
}

func (c *Context) countTriangles(n int) {
	if c.Counters != nil {
		c.Counters.TriangleTests += uint64(n)
	}
}

// Store holds every object of a scene. Variable-sized object data (list
// children, mesh arrays) is allocated in the arena.
type Store struct {
	objects *arena.Table[Object]
	arena   *arena.Arena
}

// NewStore creates an empty store holding at most limit objects
func NewStore(a *arena.Arena, limit int) *Store {
	return &Store{objects: arena.NewTable[Object]("object", limit), arena: a}
}

// Arena returns the arena object data is allocated in
func (s *Store) Arena() *arena.Arena { return s.arena }

// Add appends obj. Objects may only refer to objects already in the store.
func (s *Store) Add(obj Object) (Handle, error) {
	if obj == nil {
		return Handle{}, errors.New("nil object")
	}
	if p, ok := obj.(parent); ok {
		for _, child := range p.Children() {
			if !s.Contains(child) {
				return Handle{}, errors.Wrapf(ErrUnknownHandle, "%T refers to slot %d", obj, child.Index())
			}
		}
	}
	index, err := s.objects.Add(obj)
	if err != nil {
		return Handle{}, err
	}
	return NewHandle(index), nil
}

// Contains reports whether h refers to an object in the store
func (s *Store) Contains(h Handle) bool {
	return h.IsValid() && s.objects.Has(h.Index())
}

// Get returns the object h refers to
func (s *Store) Get(h Handle) (Object, bool) {
	if !s.Contains(h) {
		return nil, false
	}
	return s.objects.Get(h.Index()), true
}

// Bounds returns the bounding box of the object h refers to, or an empty
// box for an invalid handle
func (s *Store) Bounds(h Handle) core.AABB {
	obj, ok := s.Get(h)
	if !ok {
		return core.EmptyAABB()
	}
	return obj.Bounds()
}

// Len returns the number of objects
func (s *Store) Len() int { return s.objects.Len() }

// Each calls fn for every object in insertion order
func (s *Store) Each(fn func(h Handle, obj Object)) {
	for i := 0; i < s.objects.Len(); i++ {
		fn(NewHandle(i), s.objects.Get(i))
	}
}

// Hit intersects the object h refers to using a throwaway context
func (s *Store) Hit(ray core.Ray, h Handle, tMin, tMax float64, sampler core.Sampler, counters *Counters) (material.HitRecord, bool) {
	return NewContext(s, sampler, counters).Hit(ray, h, tMin, tMax)
}

// Materials returns the material handles obj refers to
func Materials(obj Object) []material.Handle {
	if m, ok := obj.(materialUser); ok {
		return m.Materials()
	}
	return nil
}

// Children returns the object handles obj refers to
func Children(obj Object) []Handle {
	if p, ok := obj.(parent); ok {
		return p.Children()
	}
	return nil
}

// set replaces the object at h. Used by lists, whose children grow after
// the list is added.
func (s *Store) set(h Handle, obj Object) {
	s.objects.Set(h.Index(), obj)
}

func inRange(t, tMin, tMax float64) bool {
	return t > tMin && t < tMax && !math.IsNaN(t)
}
