package scene

import (
	"github.com/df07/go-tile-pathtracer/pkg/camera"
	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/material"
	"github.com/df07/go-tile-pathtracer/pkg/texture"
	"github.com/df07/go-tile-pathtracer/pkg/world"
)

// NewTexturesScene lines up one sphere per texture kind on a checkered disk
// floor, lit by a pair of emissive triangles and a dim sky
func NewTexturesScene(w *world.World, opts Options) error {
	white := w.Solid(core.Splat(0.9))
	dark := w.Solid(core.Splat(0.1))

	floor := w.Lambertian(w.Checkerboard3D(w.Solid(core.NewVec3(0.2, 0.3, 0.1)), white))
	w.AddToWorld(w.Disk(core.Vec3{}, core.NewVec3(0, 1, 0), 40, floor))

	perlin := w.Perlin(4)
	textures := []texture.Handle{
		w.UV(),
		w.Normal(),
		w.Bilerp(
			core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
			core.NewVec3(0, 0, 1), core.NewVec3(1, 1, 0),
		),
		w.Checkerboard(w.Solid(core.NewVec3(0.8, 0.1, 0.1)), white, 0),
		w.Mix(perlin, w.Solid(core.NewVec3(0.1, 0.2, 0.8)), 0.5),
		w.Scale(perlin, w.Solid(core.NewVec3(1, 0.6, 0.2))),
	}
	for i, tex := range textures {
		x := float64(i-len(textures)/2) * 2.2
		w.AddToWorld(w.Sphere(core.NewVec3(x, 1, 0), 1, w.Lambertian(tex)))
	}

	// Front row: the rougher surface models
	w.AddToWorld(w.Sphere(core.NewVec3(-3.3, 0.7, 3), 0.7,
		w.Plastic(0.1, 1, 1.5, w.Solid(core.NewVec3(0.1, 0.4, 0.7)), white)))
	w.AddToWorld(w.Sphere(core.NewVec3(-1.1, 0.7, 3), 0.7,
		w.Dielectric(0.2, 1, 1.5, white, white)))
	w.AddToWorld(w.Sphere(core.NewVec3(1.1, 0.7, 3), 0.7,
		w.Metal(0.3, w.Solid(core.NewVec3(0.9, 0.7, 0.3)))))
	w.AddToWorld(w.Sphere(core.NewVec3(3.3, 0.7, 3), 0.7, w.Mirror()))
	w.AddToWorld(w.Disk(core.NewVec3(0, 2.5, -3), core.NewVec3(0, 0, 1), 1.5, w.Lambertian(dark)))

	light := w.DiffuseLight(w.Solid(core.Splat(4)), material.BothSided)
	lamp := w.List(2)
	w.AddToList(lamp, w.Triangle(core.NewVec3(-2, 5, -2), core.NewVec3(2, 5, -2), core.NewVec3(2, 5, 2), light))
	w.AddToList(lamp, w.Triangle(core.NewVec3(-2, 5, -2), core.NewVec3(-2, 5, 2), core.NewVec3(2, 5, 2), light))
	w.AddToWorld(lamp)
	w.AddImportant(lamp)
	w.BuildBVH()

	w.Background = core.NewVec3(0.2, 0.25, 0.35)
	w.Camera = camera.New(camera.Config{
		Center:      core.NewVec3(0, 4, 14),
		LookAt:      core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: opts.AspectRatio,
	})
	return w.Err()
}
