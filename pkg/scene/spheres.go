package scene

import (
	"github.com/df07/go-tile-pathtracer/pkg/camera"
	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/world"
)

// NewSpheresScene scatters small diffuse, metal and glass spheres around
// three large ones. Diffuse spheres bounce during the shutter interval.
func NewSpheresScene(w *world.World, opts Options) error {
	rng := w.Rand()

	ground := w.Lambertian(w.Checkerboard(
		w.Solid(core.NewVec3(0.2, 0.3, 0.1)),
		w.Solid(core.NewVec3(0.9, 0.9, 0.9)),
		10,
	))
	w.AddToWorld(w.Sphere(core.NewVec3(0, -1000, 0), 1000, ground))

	glass := w.Glass(1.5)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := rng.Get1D()
			center := core.NewVec3(float64(a)+0.9*rng.Get1D(), 0.2, float64(b)+0.9*rng.Get1D())
			if center.Subtract(core.NewVec3(4, 0.2, 0)).Length() <= 0.9 {
				continue
			}

			switch {
			case chooseMat < 0.8:
				albedo := rng.Vector(0.1, 1).MultiplyVec(rng.Vector(0.1, 1))
				mat := w.Lambertian(w.Solid(albedo))
				bounce := core.NewVec3(0, rng.Range(0, 0.5), 0)
				w.AddToWorld(w.MovingSphere(center, center.Add(bounce), 0.2, 0, 1, mat))
			case chooseMat < 0.95:
				fuzz := rng.Range(0, 0.5)
				albedo := rng.Vector(0.5, 1)
				w.AddToWorld(w.Sphere(center, 0.2, w.Metal(fuzz, w.Solid(albedo))))
			default:
				w.AddToWorld(w.Sphere(center, 0.2, glass))
			}
		}
	}

	w.AddToWorld(w.Sphere(core.NewVec3(0, 1, 0), 1, glass))
	w.AddToWorld(w.Sphere(core.NewVec3(-4, 1, 0), 1, w.Lambertian(w.Solid(core.NewVec3(0.4, 0.2, 0.1)))))
	w.AddToWorld(w.Sphere(core.NewVec3(4, 1, 0), 1, w.Metal(0, w.Solid(core.NewVec3(0.7, 0.6, 0.5)))))
	w.BuildBVH()

	w.Background = core.NewVec3(0.70, 0.80, 1.00)
	w.Camera = camera.New(camera.Config{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.Vec3{},
		VFov:          20,
		AspectRatio:   opts.AspectRatio,
		Aperture:      0.1,
		FocusDistance: 10,
		Time0:         0,
		Time1:         1,
	})
	return w.Err()
}
