package texture

import (
	"math"

	"github.com/df07/go-tile-pathtracer/pkg/core"
)

const perlinPointCount = 256

// Noise holds the gradient and permutation tables for Perlin noise
type Noise struct {
	gradients [perlinPointCount]core.Vec3
	permX     [perlinPointCount]int
	permY     [perlinPointCount]int
	permZ     [perlinPointCount]int
}

// NewNoise builds noise tables from rng
func NewNoise(rng *core.RandomSeries) *Noise {
	n := &Noise{}
	for i := range n.gradients {
		n.gradients[i] = rng.Vector(-1, 1).Normalize()
	}
	generatePerm(rng, &n.permX)
	generatePerm(rng, &n.permY)
	generatePerm(rng, &n.permZ)
	return n
}

func generatePerm(rng *core.RandomSeries, p *[perlinPointCount]int) {
	for i := range p {
		p[i] = i
	}
	for i := len(p) - 1; i > 0; i-- {
		target := rng.Intn(i + 1)
		p[i], p[target] = p[target], p[i]
	}
}

// Noise returns smoothed gradient noise at p, roughly in [-1, 1]
func (n *Noise) Noise(p core.Vec3) float64 {
	fx, fy, fz := math.Floor(p.X), math.Floor(p.Y), math.Floor(p.Z)
	i, j, k := int(fx), int(fy), int(fz)

	var c [2][2][2]core.Vec3
	for di := 0; di < 2; di++ {
		for dj := 0; dj < 2; dj++ {
			for dk := 0; dk < 2; dk++ {
				c[di][dj][dk] = n.gradients[n.permX[(i+di)&0xFF]^n.permY[(j+dj)&0xFF]^n.permZ[(k+dk)&0xFF]]
			}
		}
	}
	return interpolate(&c, p.X-fx, p.Y-fy, p.Z-fz)
}

// Turbulence sums octaves of noise at doubling frequency and halving weight
func (n *Noise) Turbulence(p core.Vec3, octaves int) float64 {
	accum := 0.0
	weight := 1.0
	for octave := 0; octave < octaves; octave++ {
		accum += weight * n.Noise(p)
		weight *= 0.5
		p = p.Multiply(2)
	}
	return math.Abs(accum)
}

func interpolate(c *[2][2][2]core.Vec3, u, v, w float64) float64 {
	uu := u * u * (3 - 2*u)
	vv := v * v * (3 - 2*v)
	ww := w * w * (3 - 2*w)

	accum := 0.0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				fi, fj, fk := float64(i), float64(j), float64(k)
				weight := core.NewVec3(u-fi, v-fj, w-fk)
				accum += (fi*uu + (1-fi)*(1-uu)) *
					(fj*vv + (1-fj)*(1-vv)) *
					(fk*ww + (1-fk)*(1-ww)) *
					c[i][j][k].Dot(weight)
			}
		}
	}
	return accum
}

// Perlin is a marble-like turbulence pattern banded along z
type Perlin struct {
	Noise *Noise
	// Frequency of the bands along z
	Frequency float64
}

const marbleOctaves = 7

func (t Perlin) Value(s Sampler, q Query) core.Vec3 {
	if t.Noise == nil {
		return core.Vec3{}
	}
	turb := t.Noise.Turbulence(q.Point, marbleOctaves)
	return core.Splat(0.5 * (1 + math.Sin(t.Frequency*q.Point.Z+10*turb)))
}
