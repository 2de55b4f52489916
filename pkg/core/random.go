package core

// RandomSeries is a xorshift32 generator. Each tile owns one, so results
// depend only on the tile seed and never on thread scheduling.
type RandomSeries struct {
	state uint32
}

// xorshift32 never leaves the zero state, so zero seeds are remapped
const zeroSeedReplacement = 0x9E3779B9

// NewRandomSeries creates a generator from seed
func NewRandomSeries(seed uint32) *RandomSeries {
	if seed == 0 {
		seed = zeroSeedReplacement
	}
	return &RandomSeries{state: seed}
}

// Next returns the next raw 32-bit value
func (r *RandomSeries) Next() uint32 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Get1D returns a float64 in [0, 1)
func (r *RandomSeries) Get1D() float64 {
	return float64(r.Next()) / (1 << 32)
}

// Get2D returns two float64 values in [0, 1)
func (r *RandomSeries) Get2D() Vec2 {
	return NewVec2(r.Get1D(), r.Get1D())
}

// Get3D returns three float64 values in [0, 1)
func (r *RandomSeries) Get3D() Vec3 {
	return NewVec3(r.Get1D(), r.Get1D(), r.Get1D())
}

// Bilateral returns a float64 in [-1, 1)
func (r *RandomSeries) Bilateral() float64 {
	return 2*r.Get1D() - 1
}

// Range returns a float64 in [lo, hi)
func (r *RandomSeries) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*r.Get1D()
}

// Intn returns an int in [0, n). It returns 0 when n <= 0.
func (r *RandomSeries) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint32(n))
}

// Vector returns a vector with components in [lo, hi)
func (r *RandomSeries) Vector(lo, hi float64) Vec3 {
	return NewVec3(r.Range(lo, hi), r.Range(lo, hi), r.Range(lo, hi))
}
