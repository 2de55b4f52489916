package renderer

import (
	"image"
	"time"

	"github.com/df07/go-tile-pathtracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width, Height int
	Workers       int
	Tiles         int           // Number of work orders
	TilesRetired  int           // Work orders completed
	RaysPerPixel  int           // Paths traced per pixel
	PrimaryRays   uint64        // Camera rays traced
	Bounces       uint64        // Path segments traced, camera rays included
	TriangleTests uint64        // Ray-triangle tests, meshes included
	Elapsed       time.Duration // Wall time from first claim to last retire
}

// MsPerBounce returns the average wall time spent per traced segment
func (s RenderStats) MsPerBounce() float64 {
	if s.Bounces == 0 {
		return 0
	}
	return float64(s.Elapsed.Microseconds()) / 1000 / float64(s.Bounces)
}

// MsPerPrimaryRay returns the average wall time spent per camera ray
func (s RenderStats) MsPerPrimaryRay() float64 {
	if s.PrimaryRays == 0 {
		return 0
	}
	return float64(s.Elapsed.Microseconds()) / 1000 / float64(s.PrimaryRays)
}

// BouncesPerPrimaryRay returns the average path length
func (s RenderStats) BouncesPerPrimaryRay() float64 {
	if s.PrimaryRays == 0 {
		return 0
	}
	return float64(s.Bounces) / float64(s.PrimaryRays)
}

// CalculateAverageLuminance returns the mean linear luminance of img,
// decoding its sRGB channels first
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			linear := core.NewVec3(
				core.SRGBToLinear(float64(c.R)/255),
				core.SRGBToLinear(float64(c.G)/255),
				core.SRGBToLinear(float64(c.B)/255),
			)
			total += linear.Luminance()
		}
	}
	return total / float64(pixels)
}
