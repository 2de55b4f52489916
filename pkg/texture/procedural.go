package texture

import (
	"math"

	"github.com/df07/go-tile-pathtracer/pkg/core"
)

// Checkerboard alternates between two textures on a grid in UV space
type Checkerboard struct {
	Even, Odd Handle
	// Frequency is the number of cells per unit of U and V
	Frequency float64
}

func (t Checkerboard) Value(s Sampler, q Query) core.Vec3 {
	cx := int(math.Floor(q.UV.X * t.Frequency))
	cy := int(math.Floor(q.UV.Y * t.Frequency))
	if (cx+cy)&1 == 0 {
		return s.Sample(t.Even, q)
	}
	return s.Sample(t.Odd, q)
}

func (t Checkerboard) references() []Handle { return []Handle{t.Even, t.Odd} }

// Checkerboard3D alternates between two textures in world space, using
// the sign of sin(10x)sin(10y)sin(10z)
type Checkerboard3D struct {
	Even, Odd Handle
}

func (t Checkerboard3D) Value(s Sampler, q Query) core.Vec3 {
	p := q.Point
	sines := math.Sin(10*p.X) * math.Sin(10*p.Y) * math.Sin(10*p.Z)
	if sines < 0 {
		return s.Sample(t.Even, q)
	}
	return s.Sample(t.Odd, q)
}

func (t Checkerboard3D) references() []Handle { return []Handle{t.Even, t.Odd} }

// UV shows the surface coordinates as red and green
type UV struct{}

func (UV) Value(s Sampler, q Query) core.Vec3 {
	return core.NewVec3(q.UV.X, q.UV.Y, 0)
}

// Normal maps the shading normal from [-1, 1] to [0, 1]
type Normal struct{}

func (Normal) Value(s Sampler, q Query) core.Vec3 {
	return q.Normal.Add(core.Splat(1)).Multiply(0.5)
}

// Scale is the component-wise product of two textures
type Scale struct {
	A, B Handle
}

func (t Scale) Value(s Sampler, q Query) core.Vec3 {
	return s.Sample(t.A, q).MultiplyVec(s.Sample(t.B, q))
}

func (t Scale) references() []Handle { return []Handle{t.A, t.B} }

// Mix blends A towards B by Amount
type Mix struct {
	A, B   Handle
	Amount float64
}

func (t Mix) Value(s Sampler, q Query) core.Vec3 {
	return s.Sample(t.A, q).Lerp(s.Sample(t.B, q), t.Amount)
}

func (t Mix) references() []Handle { return []Handle{t.A, t.B} }

// Bilerp interpolates four corner colours over UV. C01 sits at u=0, v=1.
type Bilerp struct {
	C00, C01, C10, C11 core.Vec3
}

func (t Bilerp) Value(s Sampler, q Query) core.Vec3 {
	u, v := q.UV.X, q.UV.Y
	return t.C00.Multiply((1 - u) * (1 - v)).
		Add(t.C01.Multiply((1 - u) * v)).
		Add(t.C10.Multiply(u * (1 - v))).
		Add(t.C11.Multiply(u * v))
}
