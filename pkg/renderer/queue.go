package renderer

import (
	"image"
	"sync/atomic"
)

// WorkOrder is one rectangular tile of the output image together with the
// seed of the random series that renders it
type WorkOrder struct {
	Bounds image.Rectangle
	TileX  int
	TileY  int
	Seed   uint32
}

// WorkQueue hands out work orders to any number of goroutines. The only
// shared mutable state is a set of atomic counters.
type WorkQueue struct {
	orders []WorkOrder

	nextOrderIndex atomic.Uint64

	BounceCount   atomic.Uint64
	TilesRetired  atomic.Uint64
	PrimaryRays   atomic.Uint64
	TriangleTests atomic.Uint64
}

// NewWorkQueue partitions a width x height image into tiles of at most
// tileWidth x tileHeight pixels. Edge tiles are clipped to the image.
func NewWorkQueue(width, height, tileWidth, tileHeight int, salt uint32) *WorkQueue {
	tilesX := (width + tileWidth - 1) / tileWidth // Ceiling division
	tilesY := (height + tileHeight - 1) / tileHeight

	q := &WorkQueue{orders: make([]WorkOrder, 0, tilesX*tilesY)}
	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileWidth
			y0 := tileY * tileHeight
			x1 := min(x0+tileWidth, width)
			y1 := min(y0+tileHeight, height)

			q.orders = append(q.orders, WorkOrder{
				Bounds: image.Rect(x0, y0, x1, y1),
				TileX:  tileX,
				TileY:  tileY,
				Seed:   TileSeed(tilesX, tilesY, tileX, tileY, salt),
			})
		}
	}
	return q
}

// TileSeed derives the random seed of a tile from its grid position, so
// renders with the same settings see the same random values
func TileSeed(tilesX, tilesY, tileX, tileY int, salt uint32) uint32 {
	seed := uint32(tilesX*13998 + tilesY*39224 + tileX*60918 + tileY*14319)
	return seed ^ salt
}

// Len returns the number of work orders
func (q *WorkQueue) Len() int { return len(q.orders) }

// Orders returns the work orders in claim order
func (q *WorkQueue) Orders() []WorkOrder { return q.orders }

// NextOrderIndex returns the current value of the claim counter
func (q *WorkQueue) NextOrderIndex() uint64 { return q.nextOrderIndex.Load() }

// Claim takes the next unclaimed order. It returns false once every order
// has been handed out; a goroutine that sees false must stop claiming.
//
// The load before the fetch-and-add keeps finished goroutines from pushing
// the counter further: after the last order is taken, each other goroutine
// can overshoot it at most once.
func (q *WorkQueue) Claim() (WorkOrder, bool) {
	count := uint64(len(q.orders))
	if q.nextOrderIndex.Load() >= count {
		return WorkOrder{}, false
	}
	index := q.nextOrderIndex.Add(1) - 1
	if index >= count {
		return WorkOrder{}, false
	}
	return q.orders[index], true
}

// Retire records a finished order and returns the number of orders retired
// so far
func (q *WorkQueue) Retire(bounces, primaryRays, triangleTests uint64) int {
	q.BounceCount.Add(bounces)
	q.PrimaryRays.Add(primaryRays)
	q.TriangleTests.Add(triangleTests)
	return int(q.TilesRetired.Add(1))
}

// Done reports whether every order has been retired
func (q *WorkQueue) Done() bool {
	return q.TilesRetired.Load() == uint64(len(q.orders))
}
