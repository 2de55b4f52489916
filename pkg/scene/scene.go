// Package scene contains the built-in scenes.
package scene

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/df07/go-tile-pathtracer/pkg/world"
)

// Options are the inputs a scene builder may use besides the world
type Options struct {
	AspectRatio float64 // Image width / height
	MeshPath    string  // PLY file for the mesh scene; a poly sphere when empty
	ImagePath   string  // Image texture for the final scene; generated when empty
}

// Builder populates an empty world: objects, camera and background
type Builder func(w *world.World, opts Options) error

// SceneInfo describes a registered scene
type SceneInfo struct {
	Name        string
	Description string
	Build       Builder
}

var registry = map[string]SceneInfo{}

func register(name, description string, build Builder) {
	registry[name] = SceneInfo{Name: name, Description: description, Build: build}
}

func init() {
	register("spheres", "random small spheres around three large ones, with motion blur", NewSpheresScene)
	register("cornell-smoke", "Cornell box with two smoke-filled boxes", NewCornellSmokeScene)
	register("final", "box field, participating media, textured and clustered spheres", NewFinalScene)
	register("textures", "one sphere per texture kind under an area light", NewTexturesScene)
	register("mesh", "a PLY mesh or poly sphere on a checkered floor", NewMeshScene)
}

// List returns the registered scenes sorted by name
func List() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(registry))
	for _, info := range registry {
		scenes = append(scenes, info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes
}

// Lookup finds a scene by name
func Lookup(name string) (SceneInfo, bool) {
	info, ok := registry[name]
	return info, ok
}

// Build runs the named scene builder on w and validates the result
func Build(name string, w *world.World, opts Options) error {
	info, ok := Lookup(name)
	if !ok {
		return errors.Errorf("unknown scene %q", name)
	}
	if opts.AspectRatio <= 0 {
		opts.AspectRatio = 1
	}
	if err := info.Build(w, opts); err != nil {
		return errors.Wrapf(err, "failed to build scene %s", name)
	}
	if err := w.Validate(); err != nil {
		return errors.Wrapf(err, "scene %s", name)
	}
	return nil
}
