package world

import (
	"github.com/df07/go-tile-pathtracer/pkg/core"
	"github.com/df07/go-tile-pathtracer/pkg/material"
	"github.com/df07/go-tile-pathtracer/pkg/texture"
)

// Index of refraction of air, the default outside medium
const airIOR = 1.0

func (w *World) material(m material.Material) material.Handle {
	if w.err != nil {
		return material.Handle{}
	}
	h, err := w.Materials.Add(m)
	if err != nil {
		w.fail(err)
		return material.Handle{}
	}
	return h
}

// Lambertian adds a diffuse material
func (w *World) Lambertian(albedo texture.Handle) material.Handle {
	return w.material(material.Lambertian{Albedo: albedo})
}

// Metal adds a GGX conductor. Roughness 0 is a perfect mirror.
func (w *World) Metal(roughness float64, specular texture.Handle) material.Handle {
	return w.material(material.Metal{Roughness: roughness, Specular: specular})
}

// Mirror adds a perfect white mirror
func (w *World) Mirror() material.Handle {
	return w.Metal(0, w.Solid(core.Splat(1)))
}

// Plastic adds a diffuse base under a dielectric coating
func (w *World) Plastic(roughness, extIOR, intIOR float64, diffuse, specular texture.Handle) material.Handle {
	return w.material(material.Plastic{
		Roughness: roughness,
		ExtIOR:    extIOR,
		IntIOR:    intIOR,
		Diffuse:   diffuse,
		Specular:  specular,
	})
}

// Dielectric adds a transparent material
func (w *World) Dielectric(roughness, extIOR, intIOR float64, specular, transmittance texture.Handle) material.Handle {
	return w.material(material.Dielectric{
		Roughness:     roughness,
		ExtIOR:        extIOR,
		IntIOR:        intIOR,
		Specular:      specular,
		Transmittance: transmittance,
	})
}

// Glass adds a smooth clear dielectric with the given index in air
func (w *World) Glass(ior float64) material.Handle {
	white := w.Solid(core.Splat(1))
	return w.Dielectric(0, airIOR, ior, white, white)
}

// Isotropic adds a phase function for participating media
func (w *World) Isotropic(albedo texture.Handle) material.Handle {
	return w.material(material.Isotropic{Albedo: albedo})
}

// DiffuseLight adds an emitter
func (w *World) DiffuseLight(emittance texture.Handle, flags material.LightFlags) material.Handle {
	return w.material(material.DiffuseLight{Emittance: emittance, Flags: flags})
}
