package geometry

import (
	"cmp"
	"slices"

	"github.com/pkg/errors"

	"github.com/df07/go-tile-pathtracer/pkg/arena"
	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/material"
)

// maxSAHDepth is the recursion depth past which the builder stops
// evaluating the SAH and splits at the median, bounding the tree depth
// at maxSAHDepth + log2(n)
const maxSAHDepth = 64

// BVHNode is an interior node of a bounding volume hierarchy
type BVHNode struct {
	Left, Right Handle
	Box         core.AABB
}

// Hit tests the node's box, then the left child, then the right child
// against the interval narrowed by any left hit
func (n BVHNode) Hit(ctx *Context, ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	if !n.Box.Hit(ray, tMin, tMax) {
		return material.HitRecord{}, false
	}

	left, hitLeft := ctx.Hit(ray, n.Left, tMin, tMax)
	if hitLeft {
		tMax = left.T
	}
	if right, hitRight := ctx.Hit(ray, n.Right, tMin, tMax); hitRight {
		return right, true
	}
	return left, hitLeft
}

func (n BVHNode) Bounds() core.AABB { return n.Box }

func (n BVHNode) Children() []Handle { return []Handle{n.Left, n.Right} }

// bvhItem is a handle with its bounds, sorted in place during the build
type bvhItem struct {
	handle Handle
	box    core.AABB
}

// BuildBVH builds a hierarchy over handles and returns its root. A single
// handle is returned as is. Scratch memory comes from the arena and is
// released before returning; only the new nodes are added to the store.
func (s *Store) BuildBVH(handles []Handle) (Handle, error) {
	if len(handles) == 0 {
		return Handle{}, errors.New("bvh over no objects")
	}

	temp := s.arena.BeginTemp()
	defer s.arena.EndTemp(temp)

	items, err := arena.MakeSlice[bvhItem](s.arena, len(handles), len(handles))
	if err != nil {
		return Handle{}, errors.Wrap(err, "bvh scratch")
	}
	for i, h := range handles {
		obj, ok := s.Get(h)
		if !ok {
			return Handle{}, errors.Wrapf(ErrUnknownHandle, "bvh input %d", i)
		}
		items[i] = bvhItem{handle: h, box: obj.Bounds()}
	}
	leftArea, err := arena.MakeSlice[float64](s.arena, len(handles), len(handles))
	if err != nil {
		return Handle{}, errors.Wrap(err, "bvh scratch")
	}
	rightArea, err := arena.MakeSlice[float64](s.arena, len(handles), len(handles))
	if err != nil {
		return Handle{}, errors.Wrap(err, "bvh scratch")
	}

	b := bvhBuilder{store: s, leftArea: leftArea, rightArea: rightArea}
	return b.build(items, 0, 0)
}

// BuildBVHFromList builds a hierarchy over the children of a list
func (s *Store) BuildBVHFromList(list Handle) (Handle, error) {
	obj, ok := s.Get(list)
	if !ok {
		return Handle{}, errors.Wrapf(ErrUnknownHandle, "list slot %d", list.Index())
	}
	l, ok := obj.(List)
	if !ok {
		return Handle{}, errors.Errorf("object %d is a %T, not a list", list.Index(), obj)
	}
	return s.BuildBVH(l.Children())
}

type bvhBuilder struct {
	store *Store
	// prefix and suffix surface areas, indexed like the full item array
	leftArea, rightArea []float64
}

// build splits items, which start at offset in the full item array
func (b *bvhBuilder) build(items []bvhItem, offset, depth int) (Handle, error) {
	n := len(items)
	if n == 1 {
		return items[0].handle, nil
	}

	box := core.EmptyAABB()
	for _, item := range items {
		box = box.Union(item.box)
	}
	axis := box.LongestAxis()
	slices.SortFunc(items, func(a, b bvhItem) int {
		return cmp.Compare(a.box.Min.Axis(axis), b.box.Min.Axis(axis))
	})

	var split int
	if depth >= maxSAHDepth {
		split = n/2 - 1
	} else {
		split = b.sahSplit(items, offset)
	}

	left, err := b.build(items[:split+1], offset, depth+1)
	if err != nil {
		return Handle{}, err
	}
	right, err := b.build(items[split+1:], offset+split+1, depth+1)
	if err != nil {
		return Handle{}, err
	}
	return b.store.Add(BVHNode{Left: left, Right: right, Box: box})
}

// sahSplit returns the k in [0, n-2] minimising
// k*area(items[0..k]) + (n-k-1)*area(items[k+1..n-1])
func (b *bvhBuilder) sahSplit(items []bvhItem, offset int) int {
	n := len(items)
	leftArea := b.leftArea[offset : offset+n]
	rightArea := b.rightArea[offset : offset+n]

	acc := core.EmptyAABB()
	for i := 0; i < n; i++ {
		acc = acc.Union(items[i].box)
		leftArea[i] = acc.SurfaceArea()
	}
	acc = core.EmptyAABB()
	for i := n - 1; i >= 0; i-- {
		acc = acc.Union(items[i].box)
		rightArea[i] = acc.SurfaceArea()
	}

	best := 0
	bestCost := -1.0
	for k := 0; k <= n-2; k++ {
		cost := float64(k)*leftArea[k] + float64(n-k-1)*rightArea[k+1]
		if bestCost < 0 || cost < bestCost {
			best, bestCost = k, cost
		}
	}
	return best
}
