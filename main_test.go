package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-tile-pathtracer/pkg/loaders"
)

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "cornell.png")

	err := newApp().Run([]string{"pathtracer", "render",
		"--scene", "cornell-smoke",
		"--width", "24", "--height", "16",
		"--spp", "1", "--bounces", "2",
		"--threads", "2", "--tile-size", "8",
		"--out", out, "--thumbnail", "12",
	})
	require.NoError(t, err)

	img, err := loaders.LoadImage(out)
	require.NoError(t, err)
	assert.Equal(t, 24, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())

	thumb, err := loaders.LoadImage(filepath.Join(dir, "cornell_thumb.png"))
	require.NoError(t, err)
	assert.Equal(t, 12, thumb.Bounds().Dx())
	assert.Equal(t, 8, thumb.Bounds().Dy())
}

func TestRenderCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "frame.bmp")
	cfg := filepath.Join(dir, "render.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
scene: textures
width: 32
height: 32
rays_per_pixel: 2
threads: 3
tile_width: 16
tile_height: 16
`), 0o644))

	// --width overrides the file
	err := newApp().Run([]string{"pathtracer", "render", "--config", cfg, "--width", "8", "--out", out})
	require.NoError(t, err)

	img, err := loaders.LoadImage(out)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())
}

func TestRenderCommand_Errors(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.png")
	for name, args := range map[string][]string{
		"unknown scene": {"--scene", "nonexistent"},
		"zero threads":  {"--threads", "0"},
		"bad config":    {"--config", filepath.Join(t.TempDir(), "missing.toml")},
		"bad extension": {"--width", "8", "--height", "8", "--spp", "1", "--scene", "cornell-smoke", "--out", "out.gif"},
	} {
		argv := append([]string{"pathtracer", "render", "--out", out}, args...)
		assert.Error(t, newApp().Run(argv), name)
	}
}

func TestScenesCommand(t *testing.T) {
	require.NoError(t, newApp().Run([]string{"pathtracer", "scenes"}))
	require.NoError(t, newApp().Run([]string{"pathtracer", "--log-level", "warning", "scenes"}))
	assert.Error(t, newApp().Run([]string{"pathtracer", "--log-level", "loud", "scenes"}))
	require.NoError(t, newApp().Run([]string{"pathtracer", "scenes"}))
}
