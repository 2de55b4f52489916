package renderer

import (
	"image"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkQueue_PartitionCompleteness(t *testing.T) {
	tests := []struct {
		name                  string
		width, height         int
		tileWidth, tileHeight int
		expectedTiles         int
	}{
		{"exact fit", 128, 128, 64, 64, 4},
		{"clipped edges", 100, 37, 16, 16, 7 * 3},
		{"single pixel", 1, 1, 64, 64, 1},
		{"non-square tiles", 480, 270, 64, 32, 8 * 9},
		{"default size", 480, 480, 64, 64, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewWorkQueue(tt.width, tt.height, tt.tileWidth, tt.tileHeight, 0)
			require.Equal(t, tt.expectedTiles, q.Len())

			imageBounds := image.Rect(0, 0, tt.width, tt.height)
			coverage := make([]int, tt.width*tt.height)
			for _, order := range q.Orders() {
				require.False(t, order.Bounds.Empty(), "tile %d,%d is empty", order.TileX, order.TileY)
				require.True(t, order.Bounds.In(imageBounds), "tile %v outside the image", order.Bounds)
				assert.LessOrEqual(t, order.Bounds.Dx(), tt.tileWidth)
				assert.LessOrEqual(t, order.Bounds.Dy(), tt.tileHeight)
				for y := order.Bounds.Min.Y; y < order.Bounds.Max.Y; y++ {
					for x := order.Bounds.Min.X; x < order.Bounds.Max.X; x++ {
						coverage[y*tt.width+x]++
					}
				}
			}
			for i, n := range coverage {
				require.Equal(t, 1, n, "pixel %d,%d covered %d times", i%tt.width, i/tt.width, n)
			}
		})
	}
}

func TestTileSeed(t *testing.T) {
	q := NewWorkQueue(512, 512, 64, 64, 0)
	seen := map[uint32]bool{}
	for _, order := range q.Orders() {
		assert.False(t, seen[order.Seed], "tile %d,%d reuses seed %d", order.TileX, order.TileY, order.Seed)
		seen[order.Seed] = true
	}

	first := q.Orders()[0]
	assert.Equal(t, uint32(8*13998+8*39224), first.Seed)
	assert.Equal(t, first.Seed, TileSeed(8, 8, 0, 0, 0))

	salted := NewWorkQueue(512, 512, 64, 64, 1234)
	for i, order := range salted.Orders() {
		assert.NotEqual(t, q.Orders()[i].Seed, order.Seed)
		assert.Equal(t, q.Orders()[i].Bounds, order.Bounds)
	}
}

func TestWorkQueue_ClaimSequential(t *testing.T) {
	q := NewWorkQueue(100, 100, 32, 32, 0)
	for i, expected := range q.Orders() {
		order, ok := q.Claim()
		require.True(t, ok, "claim %d", i)
		assert.Equal(t, expected, order)
	}

	for i := 0; i < 3; i++ {
		_, ok := q.Claim()
		assert.False(t, ok)
	}
	assert.Equal(t, uint64(q.Len()), q.NextOrderIndex(), "failed claims must not advance the counter")
}

func TestWorkQueue_RetireAccumulates(t *testing.T) {
	q := NewWorkQueue(64, 64, 32, 32, 0)
	assert.False(t, q.Done())

	for i := 1; i <= q.Len(); i++ {
		assert.Equal(t, i, q.Retire(10, 2, 5))
	}
	assert.True(t, q.Done())
	assert.Equal(t, uint64(40), q.BounceCount.Load())
	assert.Equal(t, uint64(8), q.PrimaryRays.Load())
	assert.Equal(t, uint64(20), q.TriangleTests.Load())
}

// Every order is claimed by exactly one worker, and the claim counter
// overshoots the order count by at most one per other worker
func TestWorkQueue_ConcurrentClaims(t *testing.T) {
	const workers = 4
	q := NewWorkQueue(160, 160, 8, 8, 0)
	tilesX := 20
	claims := make([]atomic.Int32, q.Len())

	pool := NewWorkerPool(workers)
	err := pool.Run(func(worker int) error {
		for {
			order, ok := q.Claim()
			if !ok {
				return nil
			}
			claims[order.TileY*tilesX+order.TileX].Add(1)
			q.Retire(1, 1, 0)
		}
	})
	require.NoError(t, err)

	for i := range claims {
		assert.Equal(t, int32(1), claims[i].Load(), "order %d", i)
	}
	assert.Equal(t, uint64(q.Len()), q.TilesRetired.Load())
	assert.True(t, q.Done())
	assert.GreaterOrEqual(t, q.NextOrderIndex(), uint64(q.Len()))
	assert.LessOrEqual(t, q.NextOrderIndex(), uint64(q.Len()+workers-1))
}
