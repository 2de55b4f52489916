package world

import (
	"image"

	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/texture"
)

// defaultCheckerFrequency is the number of checker cells per unit of UV
// when a caller passes no frequency
const defaultCheckerFrequency = 10

func (w *World) texture(t texture.Texture) texture.Handle {
	if w.err != nil {
		return texture.Handle{}
	}
	h, err := w.Textures.Add(t)
	if err != nil {
		w.fail(err)
		return texture.Handle{}
	}
	return h
}

// Solid adds a constant colour
func (w *World) Solid(c core.Vec3) texture.Handle {
	return w.texture(texture.Solid{Color: c})
}

// Checkerboard adds a UV-space checkerboard. A non-positive frequency
// selects the default of 10 cells per unit.
func (w *World) Checkerboard(even, odd texture.Handle, frequency float64) texture.Handle {
	if frequency <= 0 {
		frequency = defaultCheckerFrequency
	}
	return w.texture(texture.Checkerboard{Even: even, Odd: odd, Frequency: frequency})
}

// Checkerboard3D adds a world-space checkerboard
func (w *World) Checkerboard3D(even, odd texture.Handle) texture.Handle {
	return w.texture(texture.Checkerboard3D{Even: even, Odd: odd})
}

// Image adds a texture looking up pixels. A nil image renders as cyan.
func (w *World) Image(pixels image.Image) texture.Handle {
	return w.texture(texture.Image{Pixels: pixels})
}

// Perlin adds a marble-like noise texture with fresh gradients drawn from
// the world's random series
func (w *World) Perlin(frequency float64) texture.Handle {
	if w.err != nil {
		return texture.Handle{}
	}
	return w.texture(texture.Perlin{Noise: texture.NewNoise(w.rng), Frequency: frequency})
}

// UV adds a debug texture showing surface coordinates
func (w *World) UV() texture.Handle { return w.texture(texture.UV{}) }

// Normal adds a debug texture showing shading normals
func (w *World) Normal() texture.Handle { return w.texture(texture.Normal{}) }

// Scale adds the product of two textures
func (w *World) Scale(a, b texture.Handle) texture.Handle {
	return w.texture(texture.Scale{A: a, B: b})
}

// Mix adds a blend from a to b by amount
func (w *World) Mix(a, b texture.Handle, amount float64) texture.Handle {
	return w.texture(texture.Mix{A: a, B: b, Amount: amount})
}

// Bilerp adds a gradient between four corner colours
func (w *World) Bilerp(c00, c01, c10, c11 core.Vec3) texture.Handle {
	return w.texture(texture.Bilerp{C00: c00, C01: c01, C10: c10, C11: c11})
}
