package texture

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-tile-pathtracer/pkg/core"
)

// Image looks up a decoded picture with nearest-neighbour filtering. UV is
// clamped to the unit square; v=0 is the bottom row of the picture.
type Image struct {
	Pixels image.Image
}

func (t Image) Value(s Sampler, q Query) core.Vec3 {
	if t.Pixels == nil {
		return core.NewVec3(0, 1, 1)
	}
	bounds := t.Pixels.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return core.Vec3{}
	}

	u := clamp01(q.UV.X)
	v := 1 - clamp01(q.UV.Y)
	x := min(int(math.Round(u*float64(width))), width-1)
	y := min(int(math.Round(v*float64(height))), height-1)

	if rgba, ok := t.Pixels.(*image.RGBA); ok {
		c := rgba.RGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
		return core.NewVec3(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
	}
	c := color.RGBAModel.Convert(t.Pixels.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.RGBA)
	return core.NewVec3(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
