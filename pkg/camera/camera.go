// Package camera turns film coordinates into primary rays.
package camera

import (
	"math"

	"github.com/df07/go-tile-pathtracer/pkg/core"
)

// Projection selects how film coordinates map to rays
type Projection int

const (
	// Perspective is a pinhole or thin-lens camera
	Perspective Projection = iota
	// Orthographic shoots parallel rays from a film the size of the focus plane
	Orthographic
	// Environment covers the full sphere of directions around the camera
	Environment
)

// Config contains camera configuration parameters
type Config struct {
	Center        core.Vec3 // Camera position
	LookAt        core.Vec3 // Point the camera is looking at
	Up            core.Vec3 // Up direction, (0,1,0) when zero
	VFov          float64   // Vertical field of view in degrees
	AspectRatio   float64   // Width / height
	Aperture      float64   // Lens diameter, 0 for a pinhole
	FocusDistance float64   // Distance to the focus plane, 0 uses the distance to LookAt
	Time0, Time1  float64   // Shutter interval; rays carry a time sampled inside it
	Projection    Projection
}

// Camera generates rays for rendering
type Camera struct {
	config          Config
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3 // camera basis, w points backwards
	lensRadius      float64
}

// New creates a camera from config
func New(config Config) *Camera {
	if config.Up.IsZero() {
		config.Up = core.NewVec3(0, 1, 0)
	}
	if config.AspectRatio <= 0 {
		config.AspectRatio = 1
	}
	if config.FocusDistance <= 0 {
		config.FocusDistance = config.Center.Subtract(config.LookAt).Length()
	}

	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	var viewportWidth, viewportHeight float64
	switch config.Projection {
	case Orthographic:
		viewportWidth, viewportHeight = 1, 1
		if config.AspectRatio > 1 {
			viewportHeight = 1 / config.AspectRatio
		} else if config.AspectRatio < 1 {
			viewportWidth = config.AspectRatio
		}
	default:
		viewportHeight = 2 * math.Tan(config.VFov*math.Pi/180/2)
		viewportWidth = config.AspectRatio * viewportHeight
	}

	horizontal := u.Multiply(config.FocusDistance * viewportWidth)
	vertical := v.Multiply(config.FocusDistance * viewportHeight)
	lowerLeftCorner := config.Center.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(config.FocusDistance))

	return &Camera{
		config:          config,
		origin:          config.Center,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2,
	}
}

// Config returns the configuration the camera was built from, with
// defaults filled in
func (c *Camera) Config() Config { return c.config }

// Forward returns the unit viewing direction
func (c *Camera) Forward() core.Vec3 { return c.w.Negate() }

// GetRay generates a ray for film coordinates (s, t) in [0,1], with s
// running right and t running up. The sampler drives the lens position
// and the ray time.
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	lens := sampler.Get2D()
	time := c.config.Time0 + (c.config.Time1-c.config.Time0)*sampler.Get1D()

	var origin, direction core.Vec3
	switch c.config.Projection {
	case Orthographic:
		origin = c.lowerLeftCorner.
			Add(c.horizontal.Multiply(s)).
			Add(c.vertical.Multiply(t)).
			Add(c.w.Multiply(c.config.FocusDistance))
		direction = c.w.Negate()
	case Environment:
		theta := t * math.Pi
		phi := s * 2 * math.Pi
		origin = c.origin
		direction = core.NewVec3(math.Sin(theta)*math.Cos(phi), -math.Cos(theta), math.Sin(theta)*math.Sin(phi))
	default:
		rd := core.SamplePointInUnitDisk(lens).Multiply(c.lensRadius)
		offset := c.u.Multiply(rd.X).Add(c.v.Multiply(rd.Y))
		origin = c.origin.Add(offset)
		direction = c.lowerLeftCorner.
			Add(c.horizontal.Multiply(s)).
			Add(c.vertical.Multiply(t)).
			Subtract(origin).
			Normalize()
	}
	return core.NewRayAtTime(origin, direction, time)
}
