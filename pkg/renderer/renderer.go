// Package renderer splits an image into tiles and renders them in parallel
// with the path integrator.
package renderer

import (
	"image"
	"time"

	"github.com/pkg/errors"

	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/integrator"
	"github.com/df07/go-tile-pathtracer/pkg/world"
)

// Options contains configuration for a render
type Options struct {
	Width, Height         int
	TileWidth, TileHeight int
	RaysPerPixel          int
	MaxBounces            int
	RussianRouletteBounce int // Zero disables Russian roulette
	NumWorkers            int // Zero uses the CPU count
	Seed                  uint32
}

// DefaultOptions returns sensible default values
func DefaultOptions() Options {
	return Options{
		Width:                 480,
		Height:                480,
		TileWidth:             64,
		TileHeight:            64,
		RaysPerPixel:          128,
		MaxBounces:            8,
		RussianRouletteBounce: 3,
		NumWorkers:            6,
	}
}

// Validate rejects options the renderer cannot run with
func (o Options) Validate() error {
	switch {
	case o.Width <= 0 || o.Height <= 0:
		return errors.Errorf("invalid image size %dx%d", o.Width, o.Height)
	case o.TileWidth <= 0 || o.TileHeight <= 0:
		return errors.Errorf("invalid tile size %dx%d", o.TileWidth, o.TileHeight)
	case o.RaysPerPixel <= 0:
		return errors.Errorf("invalid rays per pixel %d", o.RaysPerPixel)
	case o.MaxBounces < 0:
		return errors.Errorf("invalid max bounces %d", o.MaxBounces)
	case o.RussianRouletteBounce < 0:
		return errors.Errorf("invalid russian roulette bounce %d", o.RussianRouletteBounce)
	case o.NumWorkers < 0:
		return errors.Errorf("invalid worker count %d", o.NumWorkers)
	}
	return nil
}

// TileCompletionResult is passed to the progress callback each time a tile
// is retired
type TileCompletionResult struct {
	Order        WorkOrder
	TilesRetired int
	TotalTiles   int
	Worker       int
}

// Renderer renders one world with fixed options
type Renderer struct {
	world  *world.World
	opts   Options
	tracer integrator.PathTracer
	pool   *WorkerPool
	logger core.Logger
}

// New creates a renderer. It refuses options that fail validation and
// worlds that fail world.Validate.
func New(w *world.World, opts Options, logger core.Logger) (*Renderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := w.Validate(); err != nil {
		return nil, errors.Wrap(err, "cannot render world")
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Renderer{
		world:  w,
		opts:   opts,
		tracer: integrator.NewPathTracer(opts.MaxBounces, opts.RussianRouletteBounce),
		pool:   NewWorkerPool(opts.NumWorkers),
		logger: logger,
	}, nil
}

// Options returns the options the renderer was created with
func (r *Renderer) Options() Options { return r.opts }

// NewQueue builds the work queue for the renderer's image and tile size
func (r *Renderer) NewQueue() *WorkQueue {
	return NewWorkQueue(r.opts.Width, r.opts.Height, r.opts.TileWidth, r.opts.TileHeight, r.opts.Seed)
}

// Render renders the whole image. tileCallback, if not nil, is called from
// whichever goroutine retires a tile and must be safe for concurrent use.
func (r *Renderer) Render(tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	queue := r.NewQueue()
	img := image.NewRGBA(image.Rect(0, 0, r.opts.Width, r.opts.Height))

	r.logger.Printf("Rendering %dx%d, %d tiles of %dx%d, %d rays per pixel, %d workers",
		r.opts.Width, r.opts.Height, queue.Len(), r.opts.TileWidth, r.opts.TileHeight,
		r.opts.RaysPerPixel, r.pool.GetNumWorkers())

	start := time.Now()
	err := r.renderQueue(queue, img, tileCallback)
	elapsed := time.Since(start)
	if err != nil {
		return nil, RenderStats{}, errors.Wrap(err, "render failed")
	}
	if !queue.Done() {
		return nil, RenderStats{}, errors.Errorf("render stopped with %d of %d tiles retired",
			queue.TilesRetired.Load(), queue.Len())
	}

	stats := RenderStats{
		Width:         r.opts.Width,
		Height:        r.opts.Height,
		Workers:       r.pool.GetNumWorkers(),
		Tiles:         queue.Len(),
		TilesRetired:  int(queue.TilesRetired.Load()),
		RaysPerPixel:  r.opts.RaysPerPixel,
		PrimaryRays:   queue.PrimaryRays.Load(),
		Bounces:       queue.BounceCount.Load(),
		TriangleTests: queue.TriangleTests.Load(),
		Elapsed:       elapsed,
	}
	r.logger.Printf("Rendered %d tiles in %v (%d bounces)", stats.TilesRetired, elapsed, stats.Bounces)
	return img, stats, nil
}

// renderQueue drains queue on every worker of the pool
func (r *Renderer) renderQueue(queue *WorkQueue, img *image.RGBA, tileCallback func(TileCompletionResult)) error {
	return r.pool.Run(func(worker int) error {
		for {
			order, ok := queue.Claim()
			if !ok {
				return nil
			}
			retired := r.RenderTile(queue, order, img)
			if tileCallback != nil {
				tileCallback(TileCompletionResult{
					Order:        order,
					TilesRetired: retired,
					TotalTiles:   queue.Len(),
					Worker:       worker,
				})
			}
		}
	})
}

// RenderTile renders every pixel of order into img, adds the tile's
// statistics to queue and retires the order. It returns the number of
// orders retired so far. Pixels outside order.Bounds are not touched.
func (r *Renderer) RenderTile(queue *WorkQueue, order WorkOrder, img *image.RGBA) int {
	rng := core.NewRandomSeries(order.Seed)
	var stats integrator.Stats

	bounds := order.Bounds
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			radiance := r.tracer.Pixel(r.world, r.world.Camera, x, y, r.opts.Width, r.opts.Height,
				r.opts.RaysPerPixel, rng, &stats)
			img.SetRGBA(x, y, core.ToRGBA(radiance))
		}
	}

	primaryRays := uint64(bounds.Dx() * bounds.Dy() * r.opts.RaysPerPixel)
	return queue.Retire(stats.Bounces, primaryRays, stats.Geometry.TriangleTests)
}
