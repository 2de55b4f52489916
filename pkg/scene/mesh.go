package scene

import (
	"github.com/pkg/errors"

	"github.com/df07/go-tile-pathtracer/pkg/camera"
	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/geometry"
	"github.com/df07/go-tile-pathtracer/pkg/loaders"
	"github.com/df07/go-tile-pathtracer/pkg/material"
	"github.com/df07/go-tile-pathtracer/pkg/world"
)

// NewMeshScene places a mesh on a checkered floor. The mesh is read from
// opts.MeshPath when set, otherwise a poly sphere stands in. It is scaled
// to unit radius and sits on the floor at the origin.
func NewMeshScene(w *world.World, opts Options) error {
	body := w.Plastic(0.15, 1, 1.5, w.Solid(core.NewVec3(0.7, 0.25, 0.2)), w.Solid(core.Splat(1)))

	var mesh geometry.Handle
	if opts.MeshPath != "" {
		data, err := loaders.LoadPLY(opts.MeshPath)
		if err != nil {
			return errors.Wrap(err, "failed to load mesh")
		}
		mesh = w.TriangleMesh(data, body)
	} else {
		mesh = w.PolySphere(1, 48, body)
	}
	if err := w.Err(); err != nil {
		return err
	}

	// Centre the mesh above the origin with its largest extent at 2
	bounds := w.Objects.Bounds(mesh)
	size := bounds.Size()
	extent := max(size.X, size.Y, size.Z)
	if extent <= 0 {
		return errors.New("mesh has no extent")
	}
	scale := 2 / extent
	center := bounds.Center()
	toOrigin := core.Translation(core.NewVec3(-center.X, -bounds.Min.Y, -center.Z))
	placement := core.Scaling(core.Splat(scale)).Mul(toOrigin)
	w.AddToWorld(w.MatrixTransform(mesh, placement))

	floor := w.List(2)
	checks := w.Checkerboard(w.Solid(core.Splat(0.8)), w.Solid(core.Splat(0.3)), 4)
	w.XZRect(floor, -10, 10, -10, 10, 0, w.Lambertian(checks))
	w.AddToWorld(floor)

	light := w.DiffuseLight(w.Solid(core.Splat(6)), material.FlipFace)
	lamp := w.List(2)
	w.XZRect(lamp, -1.5, 1.5, -1.5, 1.5, 6, light)
	w.AddToWorld(lamp)
	w.AddImportant(lamp)
	w.BuildBVH()

	height := size.Y * scale
	w.Background = core.NewVec3(0.3, 0.35, 0.45)
	w.Camera = camera.New(camera.Config{
		Center:      core.NewVec3(0, height*0.5+1.5, 6),
		LookAt:      core.NewVec3(0, height*0.5, 0),
		VFov:        35,
		AspectRatio: opts.AspectRatio,
	})
	return w.Err()
}
