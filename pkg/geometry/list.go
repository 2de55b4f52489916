package geometry

import (
	"github.com/pkg/errors"

	"github.com/df07/go-tile-pathtracer/pkg/arena"
	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/material"
)

// List is a group of objects tested one after the other. It is used for
// scene roots and for BVH inputs. Its children live in the arena.
type List struct {
	children []Handle
	bounds   core.AABB
}

// Children returns the handles in the list
func (l List) Children() []Handle { return l.children }

// Len returns the number of children
func (l List) Len() int { return len(l.children) }

// Cap returns the number of children the list can hold before growing
func (l List) Cap() int { return cap(l.children) }

// Hit returns the closest hit among the children. Each hit shrinks the
// interval tested against the remaining children.
func (l List) Hit(ctx *Context, ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	var closest material.HitRecord
	hitAnything := false
	for _, child := range l.children {
		if rec, ok := ctx.Hit(ray, child, tMin, tMax); ok {
			hitAnything = true
			tMax = rec.T
			closest = rec
		}
	}
	return closest, hitAnything
}

// Bounds returns the union of the children's boxes
func (l List) Bounds() core.AABB { return l.bounds }

// NewList adds an empty list with room for capacity children
func (s *Store) NewList(capacity int) (Handle, error) {
	children, err := arena.MakeSlice[Handle](s.arena, 0, capacity)
	if err != nil {
		return Handle{}, errors.Wrap(err, "list")
	}
	return s.Add(List{children: children, bounds: core.EmptyAABB()})
}

// AddToList appends child to the list h refers to, growing its storage
// through the arena when it is full
func (s *Store) AddToList(h Handle, child Handle) error {
	obj, ok := s.Get(h)
	if !ok {
		return errors.Wrapf(ErrUnknownHandle, "list slot %d", h.Index())
	}
	list, ok := obj.(List)
	if !ok {
		return errors.Errorf("object %d is a %T, not a list", h.Index(), obj)
	}
	if !s.Contains(child) {
		return errors.Wrapf(ErrUnknownHandle, "child slot %d", child.Index())
	}
	if s.reaches(child, h) {
		return errors.Errorf("adding object %d to list %d would create a cycle", child.Index(), h.Index())
	}

	children, err := arena.Append(s.arena, list.children, child)
	if err != nil {
		return errors.Wrap(err, "list")
	}
	list.children = children
	list.bounds = list.bounds.Union(s.Bounds(child))
	s.set(h, list)
	return nil
}

// reaches reports whether target is from or one of its descendants
func (s *Store) reaches(from, target Handle) bool {
	if from == target {
		return true
	}
	obj, ok := s.Get(from)
	if !ok {
		return false
	}
	for _, child := range Children(obj) {
		if s.reaches(child, target) {
			return true
		}
	}
	return false
}
