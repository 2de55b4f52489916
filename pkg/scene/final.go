package scene

import (
	"image"
	"image/color"
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-tile-pathtracer/pkg/camera"
	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/loaders"
	"github.com/df07/go-tile-pathtracer/pkg/material"
	"github.com/df07/go-tile-pathtracer/pkg/world"
)

// NewFinalScene builds a field of boxes under a ceiling light with glass,
// metal, smoke, image-textured, noise-textured and clustered spheres
func NewFinalScene(w *world.World, opts Options) error {
	rng := w.Rand()

	earth, err := finalSceneImage(opts.ImagePath)
	if err != nil {
		return err
	}

	ground := w.Lambertian(w.Solid(core.NewVec3(0.48, 0.83, 0.53)))
	const boxesPerSide = 20
	boxes := w.List(boxesPerSide * boxesPerSide)
	for i := 0; i < boxesPerSide; i++ {
		for j := 0; j < boxesPerSide; j++ {
			const width = 100.0
			x0 := -1000 + float64(i)*width
			z0 := -1000 + float64(j)*width
			y1 := rng.Range(1, 101)
			w.AddToList(boxes, w.Box(core.NewVec3(x0, 0, z0), core.NewVec3(x0+width, y1, z0+width), ground))
		}
	}
	w.AddToWorld(w.BVH(boxes))

	light := w.DiffuseLight(w.Solid(core.Splat(7)), material.FlipFace)
	lamp := w.List(2)
	w.XZRect(lamp, 123, 423, 147, 412, 554, light)
	w.AddToWorld(lamp)
	w.AddImportant(lamp)

	center := core.NewVec3(400, 400, 200)
	orange := w.Lambertian(w.Solid(core.NewVec3(0.7, 0.3, 0.1)))
	w.AddToWorld(w.MovingSphere(center, center.Add(core.NewVec3(30, 0, 0)), 50, 0, 1, orange))

	glass := w.Glass(1.5)
	w.AddToWorld(w.Sphere(core.NewVec3(260, 150, 45), 50, glass))
	w.AddToWorld(w.Sphere(core.NewVec3(0, 150, 145), 50, w.Metal(0.6, w.Solid(core.NewVec3(0.8, 0.8, 0.9)))))

	// Glass shell filled with blue smoke, then a thin haze over everything
	shell := w.AddToWorld(w.Sphere(core.NewVec3(360, 150, 145), 70, glass))
	w.AddToWorld(w.ConstantMedium(shell, 0.2, w.Isotropic(w.Solid(core.NewVec3(0.2, 0.4, 0.9)))))
	haze := w.Sphere(core.Vec3{}, 5000, glass)
	w.AddToWorld(w.ConstantMedium(haze, 0.0001, w.Isotropic(w.Solid(core.Splat(1)))))

	w.AddToWorld(w.Sphere(core.NewVec3(400, 200, 400), 100, w.Lambertian(w.Image(earth))))
	w.AddToWorld(w.Sphere(core.NewVec3(220, 280, 300), 80, w.Lambertian(w.Perlin(0.1))))

	white := w.Lambertian(w.Solid(core.Splat(0.73)))
	const clusterSize = 1000
	cluster := w.List(clusterSize)
	for i := 0; i < clusterSize; i++ {
		w.AddToList(cluster, w.Sphere(rng.Vector(0, 165), 10, white))
	}
	w.AddToWorld(w.Transform(w.BVH(cluster), core.NewVec3(-100, 270, 395), core.NewVec3(0, 15*math.Pi/180, 0)))
	w.BuildBVH()

	w.Background = core.Vec3{}
	w.Camera = camera.New(camera.Config{
		Center:      core.NewVec3(478, 278, -600),
		LookAt:      core.NewVec3(278, 278, 0),
		VFov:        40,
		AspectRatio: opts.AspectRatio,
		Time0:       0,
		Time1:       1,
	})
	return w.Err()
}

// finalSceneImage loads path, or generates a banded globe when path is empty
func finalSceneImage(path string) (image.Image, error) {
	if path == "" {
		return globeImage(256, 128), nil
	}
	img, err := loaders.LoadImage(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load sphere texture")
	}
	return img, nil
}

// globeImage draws blue oceans with green land bands and white poles in an
// equirectangular layout
func globeImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		lat := (float64(y)/float64(height-1) - 0.5) * math.Pi
		for x := 0; x < width; x++ {
			lon := float64(x) / float64(width) * 2 * math.Pi
			c := color.RGBA{R: 20, G: 60, B: 160, A: 255}
			switch {
			case math.Abs(lat) > 1.25:
				c = color.RGBA{R: 240, G: 240, B: 250, A: 255}
			case math.Sin(3*lon)*math.Cos(2*lat) > 0.35:
				c = color.RGBA{R: 60, G: 130, B: 50, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
