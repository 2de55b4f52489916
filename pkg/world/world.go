// Package world owns everything a render reads: the scene arena, the
// texture, material and object tables, the root object, the background
// colour and the camera.
//
// Scenes are built through handle-returning constructors. The first
// failure is kept and reported by Err; every constructor after it is a
// no-op returning the zero handle, so setup code can check once at the end.
package world

import (
	"github.com/pkg/errors"

	"github.com/df07/go-tile-pathtracer/pkg/arena"
	"github.com/df07/go-tile-pathtracer/pkg/camera"
	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/geometry"
	"github.com/df07/go-tile-pathtracer/pkg/material"
	"github.com/df07/go-tile-pathtracer/pkg/texture"
)

// DefaultArenaSize is the scene arena size used when Options leaves it unset
const DefaultArenaSize = 32 << 20

// Options configures a new World. Zero table limits mean unbounded.
type Options struct {
	ArenaSize    int
	MaxTextures  int
	MaxMaterials int
	MaxObjects   int
	// Seed drives scene-construction randomness such as Perlin gradients
	Seed uint32
}

// World is a scene ready to be rendered
type World struct {
	Textures  *texture.Table
	Materials *material.Table
	Objects   *geometry.Store

	// Background is the radiance of rays that leave the scene
	Background core.Vec3
	Camera     *camera.Camera

	arena     *arena.Arena
	objects   geometry.Handle // list populated by AddToWorld
	root      geometry.Handle
	important geometry.Handle
	rng       *core.RandomSeries
	err       error
}

// New creates an empty world with a root list and an important-object list
func New(opts Options) *World {
	if opts.ArenaSize <= 0 {
		opts.ArenaSize = DefaultArenaSize
	}
	a := arena.New(opts.ArenaSize)
	w := &World{
		Textures:  texture.NewTable(opts.MaxTextures),
		Materials: material.NewTable(opts.MaxMaterials),
		Objects:   geometry.NewStore(a, opts.MaxObjects),
		arena:     a,
		rng:       core.NewRandomSeries(opts.Seed),
	}
	w.objects = w.List(16)
	w.important = w.List(4)
	w.root = w.objects
	return w
}

// Err returns the first error raised by a constructor, if any
func (w *World) Err() error { return w.err }

// Arena returns the arena holding the scene's variable-sized data
func (w *World) Arena() *arena.Arena { return w.arena }

// Rand returns the world's construction-time random series. Scene setup
// code draws from it so a scene is a pure function of its seed.
func (w *World) Rand() *core.RandomSeries { return w.rng }

// Root returns the object rays are traced against
func (w *World) Root() geometry.Handle { return w.root }

// ObjectList returns the list AddToWorld appends to
func (w *World) ObjectList() geometry.Handle { return w.objects }

// SetRoot replaces the object rays are traced against
func (w *World) SetRoot(h geometry.Handle) {
	if w.err != nil {
		return
	}
	if !w.Objects.Contains(h) {
		w.fail(errors.Wrapf(geometry.ErrUnknownHandle, "root slot %d", h.Index()))
		return
	}
	w.root = h
}

// BuildBVH builds a hierarchy over the world list and makes it the root
func (w *World) BuildBVH() geometry.Handle {
	if w.err != nil {
		return geometry.Handle{}
	}
	obj, _ := w.Objects.Get(w.objects)
	if len(geometry.Children(obj)) == 0 {
		return w.root
	}
	root := w.BVH(w.objects)
	if w.err == nil {
		w.root = root
	}
	return root
}

// Important returns the list of objects recorded by AddImportant
func (w *World) Important() geometry.Handle { return w.important }

// Release drops the scene arena. The world must not be used afterwards.
func (w *World) Release() {
	w.arena.Release()
	w.fail(errors.New("world released"))
}

// fail records err unless an earlier error is already recorded
func (w *World) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}
