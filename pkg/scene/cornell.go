package scene

import (
	"math"

	"github.com/df07/go-tile-pathtracer/pkg/camera"
	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/geometry"
	"github.com/df07/go-tile-pathtracer/pkg/material"
	"github.com/df07/go-tile-pathtracer/pkg/world"
)

const cornellSize = 555.0

// addCornellWalls adds the five walls of the box and the ceiling light to
// the world list. lightIntensity scales the white emitter.
func addCornellWalls(w *world.World, x0, x1, z0, z1, lightIntensity float64) material.Handle {
	red := w.Lambertian(w.Solid(core.NewVec3(0.65, 0.05, 0.05)))
	white := w.Lambertian(w.Solid(core.NewVec3(0.73, 0.73, 0.73)))
	green := w.Lambertian(w.Solid(core.NewVec3(0.12, 0.45, 0.15)))
	light := w.DiffuseLight(w.Solid(core.Splat(lightIntensity)), material.FlipFace)

	walls := w.List(12)
	w.YZRect(walls, 0, cornellSize, 0, cornellSize, cornellSize, green)
	w.YZRect(walls, 0, cornellSize, 0, cornellSize, 0, red)
	w.XZRect(walls, 0, cornellSize, 0, cornellSize, 0, white)
	w.XZRect(walls, 0, cornellSize, 0, cornellSize, cornellSize, white)
	w.XYRect(walls, 0, cornellSize, 0, cornellSize, cornellSize, white)
	w.AddToWorld(w.BVH(walls))

	// Faces down into the box
	lamp := w.List(2)
	w.XZRect(lamp, x0, x1, z0, z1, cornellSize-1, light)
	w.AddToWorld(lamp)
	w.AddImportant(lamp)
	return white
}

// rotatedBox adds an upright box with its corner at the origin, spun about
// y by degrees and moved to offset
func rotatedBox(w *world.World, size core.Vec3, degrees float64, offset core.Vec3, mat material.Handle) geometry.Handle {
	box := w.Box(core.Vec3{}, size, mat)
	return w.Transform(box, offset, core.NewVec3(0, degrees*math.Pi/180, 0))
}

func cornellCamera(aspect float64) *camera.Camera {
	return camera.New(camera.Config{
		Center:      core.NewVec3(278, 278, -800),
		LookAt:      core.NewVec3(278, 278, 0),
		VFov:        40,
		AspectRatio: aspect,
	})
}

// NewCornellSmokeScene builds the Cornell box with a tall box of dark smoke
// and a short box of white smoke
func NewCornellSmokeScene(w *world.World, opts Options) error {
	white := addCornellWalls(w, 113, 443, 127, 432, 7)

	tall := rotatedBox(w, core.NewVec3(165, 330, 165), 15, core.NewVec3(265, 0, 295), white)
	short := rotatedBox(w, core.NewVec3(165, 165, 165), -18, core.NewVec3(130, 0, 65), white)

	w.AddToWorld(w.ConstantMedium(tall, 0.01, w.Isotropic(w.Solid(core.Splat(0)))))
	w.AddToWorld(w.ConstantMedium(short, 0.01, w.Isotropic(w.Solid(core.Splat(1)))))
	w.BuildBVH()

	w.Background = core.Vec3{}
	w.Camera = cornellCamera(opts.AspectRatio)
	return w.Err()
}
