package world

import (
	"github.com/pkg/errors"

	"github.com/df07/go-tile-pathtracer/pkg/geometry"
	"github.com/df07/go-tile-pathtracer/pkg/material"
)

// ErrInvalidScene is returned by Validate when the scene cannot be rendered
var ErrInvalidScene = errors.New("invalid scene")

// Validate checks that the world can be rendered: a camera is set, the
// root exists and every handle stored in a material or object resolves.
// A constructor failure is returned unchanged, so capacity errors stay
// distinguishable.
func (w *World) Validate() error {
	if w.err != nil {
		return w.err
	}
	if w.Camera == nil {
		return errors.Wrap(ErrInvalidScene, "no camera")
	}
	if !w.Objects.Contains(w.root) {
		return errors.Wrapf(ErrInvalidScene, "root slot %d does not exist", w.root.Index())
	}

	var err error
	w.Materials.Each(func(h material.Handle, m material.Material) {
		for _, tex := range m.Textures() {
			if err == nil && !w.Textures.Contains(tex) {
				err = errors.Wrapf(ErrInvalidScene, "material %d (%T) refers to missing texture slot %d", h.Index(), m, tex.Index())
			}
		}
	})
	if err != nil {
		return err
	}

	w.Objects.Each(func(h geometry.Handle, obj geometry.Object) {
		if err != nil {
			return
		}
		for _, mat := range geometry.Materials(obj) {
			if !w.Materials.Contains(mat) {
				err = errors.Wrapf(ErrInvalidScene, "object %d (%T) refers to missing material slot %d", h.Index(), obj, mat.Index())
				return
			}
		}
		for _, child := range geometry.Children(obj) {
			if !w.Objects.Contains(child) {
				err = errors.Wrapf(ErrInvalidScene, "object %d (%T) refers to missing object slot %d", h.Index(), obj, child.Index())
				return
			}
		}
	})
	return err
}
