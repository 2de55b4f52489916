package core

import (
	"image/color"
	"math"
)

// LinearToSRGB applies the sRGB transfer curve to one linear channel in [0, 1]
func LinearToSRGB(c float64) float64 {
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}

// SRGBToLinear inverts LinearToSRGB
func SRGBToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// ToRGBA converts a linear radiance estimate to an 8-bit sRGB pixel.
// Negative or non-finite channels map to black.
func ToRGBA(c Vec3) color.RGBA {
	return color.RGBA{
		R: toByte(c.X),
		G: toByte(c.Y),
		B: toByte(c.Z),
		A: 255,
	}
}

func toByte(c float64) uint8 {
	if !isFinite(c) || c <= 0 {
		return 0
	}
	return uint8(math.Round(255 * LinearToSRGB(min(c, 1))))
}
