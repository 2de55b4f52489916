// Package config holds render settings and loads them from YAML or TOML
// files.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-tile-pathtracer/pkg/renderer"
	"github.com/df07/go-tile-pathtracer/pkg/scene"
	"github.com/df07/go-tile-pathtracer/pkg/world"
)

// Settings describes one render job
type Settings struct {
	Width      int `yaml:"width" toml:"width"`
	Height     int `yaml:"height" toml:"height"`
	TileWidth  int `yaml:"tile_width" toml:"tile_width"`
	TileHeight int `yaml:"tile_height" toml:"tile_height"`

	RaysPerPixel          int `yaml:"rays_per_pixel" toml:"rays_per_pixel"`
	MaxBounces            int `yaml:"max_bounces" toml:"max_bounces"`
	RussianRouletteBounce int `yaml:"russian_roulette_bounce" toml:"russian_roulette_bounce"`

	// Threads is the total number of rendering goroutines, the caller included
	Threads   int `yaml:"threads" toml:"threads"`
	ArenaSize int `yaml:"arena_size" toml:"arena_size"`

	Scene          string `yaml:"scene" toml:"scene"`
	Mesh           string `yaml:"mesh" toml:"mesh"`   // PLY file for the mesh scene
	Image          string `yaml:"image" toml:"image"` // Sphere texture for the final scene
	Output         string `yaml:"output" toml:"output"`
	ThumbnailWidth int    `yaml:"thumbnail_width" toml:"thumbnail_width"`

	// Seed salts the tile seeds and seeds scene construction
	Seed uint32 `yaml:"seed" toml:"seed"`
}

// Default returns the settings used when nothing else is specified
func Default() Settings {
	return Settings{
		Width:                 480,
		Height:                480,
		TileWidth:             64,
		TileHeight:            64,
		RaysPerPixel:          128,
		MaxBounces:            8,
		RussianRouletteBounce: 3,
		Threads:               6,
		ArenaSize:             world.DefaultArenaSize,
		Scene:                 "spheres",
		Output:                "out.png",
	}
}

// Load reads settings from a .yaml, .yml or .toml file on top of the
// defaults. Unknown keys are rejected.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, errors.Wrap(err, "failed to read config")
	}

	settings := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&settings); err != nil {
			return Settings{}, errors.Wrapf(err, "failed to parse %s", path)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&settings); err != nil {
			return Settings{}, errors.Wrapf(err, "failed to parse %s", path)
		}
	default:
		return Settings{}, errors.Errorf("unsupported config format %q", ext)
	}

	if err := settings.Validate(); err != nil {
		return Settings{}, errors.Wrapf(err, "invalid config %s", path)
	}
	return settings, nil
}

// Validate rejects settings the renderer cannot run with
func (s Settings) Validate() error {
	switch {
	case s.Width <= 0 || s.Height <= 0:
		return errors.Errorf("invalid image size %dx%d", s.Width, s.Height)
	case s.TileWidth <= 0 || s.TileHeight <= 0:
		return errors.Errorf("invalid tile size %dx%d", s.TileWidth, s.TileHeight)
	case s.RaysPerPixel <= 0:
		return errors.Errorf("rays per pixel must be positive, got %d", s.RaysPerPixel)
	case s.MaxBounces < 0:
		return errors.Errorf("max bounces must not be negative, got %d", s.MaxBounces)
	case s.RussianRouletteBounce < 0:
		return errors.Errorf("russian roulette bounce must not be negative, got %d", s.RussianRouletteBounce)
	case s.Threads <= 0:
		return errors.Errorf("thread count must be positive, got %d", s.Threads)
	case s.ArenaSize <= 0:
		return errors.Errorf("arena size must be positive, got %d", s.ArenaSize)
	case s.Output == "":
		return errors.New("missing output file")
	case s.ThumbnailWidth < 0:
		return errors.Errorf("thumbnail width must not be negative, got %d", s.ThumbnailWidth)
	}
	return nil
}

// AspectRatio returns width over height
func (s Settings) AspectRatio() float64 {
	return float64(s.Width) / float64(s.Height)
}

// RenderOptions returns the renderer options for these settings
func (s Settings) RenderOptions() renderer.Options {
	return renderer.Options{
		Width:                 s.Width,
		Height:                s.Height,
		TileWidth:             s.TileWidth,
		TileHeight:            s.TileHeight,
		RaysPerPixel:          s.RaysPerPixel,
		MaxBounces:            s.MaxBounces,
		RussianRouletteBounce: s.RussianRouletteBounce,
		NumWorkers:            s.Threads,
		Seed:                  s.Seed,
	}
}

// SceneOptions returns the scene builder options for these settings
func (s Settings) SceneOptions() scene.Options {
	return scene.Options{AspectRatio: s.AspectRatio(), MeshPath: s.Mesh, ImagePath: s.Image}
}

// WorldOptions returns the world options for these settings
func (s Settings) WorldOptions() world.Options {
	return world.Options{ArenaSize: s.ArenaSize, Seed: s.Seed}
}
