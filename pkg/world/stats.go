package world

import (
	"github.com/df07/go-tile-pathtracer/pkg/geometry"
)

// Stats summarises the size of a scene
type Stats struct {
	Textures  int
	Materials int
	Objects   int
	// Triangles counts standalone triangles and mesh triangles
	Triangles int
	Important int
	ArenaUsed int
	ArenaPeak int
	ArenaSize int
}

// Stats counts the scene's contents
func (w *World) Stats() Stats {
	s := Stats{
		Textures:  w.Textures.Len(),
		Materials: w.Materials.Len(),
		Objects:   w.Objects.Len(),
		ArenaUsed: w.arena.Used(),
		ArenaPeak: w.arena.Peak(),
		ArenaSize: w.arena.Size(),
	}
	w.Objects.Each(func(h geometry.Handle, obj geometry.Object) {
		switch o := obj.(type) {
		case geometry.Triangle:
			s.Triangles++
		case geometry.TriangleMesh:
			s.Triangles += o.TriangleCount()
		}
	})
	if obj, ok := w.Objects.Get(w.important); ok {
		s.Important = len(geometry.Children(obj))
	}
	return s
}
