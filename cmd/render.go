package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/df07/go-tile-pathtracer/pkg/config"
	"github.com/df07/go-tile-pathtracer/pkg/loaders"
	"github.com/df07/go-tile-pathtracer/pkg/log"
	"github.com/df07/go-tile-pathtracer/pkg/renderer"
	"github.com/df07/go-tile-pathtracer/pkg/scene"
	"github.com/df07/go-tile-pathtracer/pkg/world"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	settings, err := settingsFromContext(ctx)
	if err != nil {
		return err
	}

	w := world.New(settings.WorldOptions())
	defer w.Release()

	logger.Noticef("building scene %q", settings.Scene)
	if err := scene.Build(settings.Scene, w, settings.SceneOptions()); err != nil {
		return err
	}
	worldStats := w.Stats()
	logger.Infof("scene has %d objects (%d triangles), %d materials, %d textures; arena %d/%d bytes",
		worldStats.Objects, worldStats.Triangles, worldStats.Materials, worldStats.Textures,
		worldStats.ArenaUsed, worldStats.ArenaSize)

	r, err := renderer.New(w, settings.RenderOptions(), log.Printer(logger))
	if err != nil {
		return err
	}

	img, stats, err := r.Render(func(result renderer.TileCompletionResult) {
		logger.Debugf("worker %d finished tile (%d, %d); %.1f%% done", result.Worker,
			result.Order.TileX, result.Order.TileY,
			100*float64(result.TilesRetired)/float64(result.TotalTiles))
	})
	if err != nil {
		return err
	}

	if err := loaders.SaveImage(img, settings.Output); err != nil {
		return err
	}
	logger.Noticef("wrote %s", settings.Output)

	if settings.ThumbnailWidth > 0 {
		thumb := thumbnailPath(settings.Output)
		if err := loaders.SaveThumbnail(img, thumb, settings.ThumbnailWidth); err != nil {
			return err
		}
		logger.Noticef("wrote %s", thumb)
	}

	displayRenderStats(stats)
	return nil
}

// settingsFromContext loads the config file named by --config, or the
// defaults, and applies any flags given on the command line
func settingsFromContext(ctx *cli.Context) (config.Settings, error) {
	settings := config.Default()
	if path := ctx.String("config"); path != "" {
		var err error
		if settings, err = config.Load(path); err != nil {
			return config.Settings{}, err
		}
	}

	ints := map[string]*int{
		"width":     &settings.Width,
		"height":    &settings.Height,
		"spp":       &settings.RaysPerPixel,
		"bounces":   &settings.MaxBounces,
		"rr-bounce": &settings.RussianRouletteBounce,
		"threads":   &settings.Threads,
		"thumbnail": &settings.ThumbnailWidth,
	}
	for name, dst := range ints {
		if ctx.IsSet(name) {
			*dst = ctx.Int(name)
		}
	}
	if ctx.IsSet("tile-size") {
		settings.TileWidth = ctx.Int("tile-size")
		settings.TileHeight = settings.TileWidth
	}
	if ctx.IsSet("arena-mb") {
		settings.ArenaSize = ctx.Int("arena-mb") << 20
	}

	strs := map[string]*string{
		"scene": &settings.Scene,
		"mesh":  &settings.Mesh,
		"image": &settings.Image,
		"out":   &settings.Output,
	}
	for name, dst := range strs {
		if ctx.IsSet(name) {
			*dst = ctx.String(name)
		}
	}
	if ctx.IsSet("seed") {
		settings.Seed = uint32(ctx.Uint("seed"))
	}

	if err := settings.Validate(); err != nil {
		return config.Settings{}, errors.Wrap(err, "invalid render settings")
	}
	return settings, nil
}

// thumbnailPath inserts "_thumb" before the extension of output
func thumbnailPath(output string) string {
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + "_thumb" + ext
}

func displayRenderStats(stats renderer.RenderStats) {
	logger.Noticef("render statistics\n%s", statsTable(stats))
}

func statsTable(stats renderer.RenderStats) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Frame", "Workers", "Tiles", "Primary rays", "Bounces", "Bounces/ray", "ms/bounce"})
	table.Append([]string{
		fmt.Sprintf("%dx%d", stats.Width, stats.Height),
		fmt.Sprintf("%d", stats.Workers),
		fmt.Sprintf("%d/%d", stats.TilesRetired, stats.Tiles),
		fmt.Sprintf("%d", stats.PrimaryRays),
		fmt.Sprintf("%d", stats.Bounces),
		fmt.Sprintf("%.2f", stats.BouncesPerPrimaryRay()),
		fmt.Sprintf("%.6f", stats.MsPerBounce()),
	})
	table.SetFooter([]string{"", "", "", "", "", "TOTAL", stats.Elapsed.String()})
	table.Render()
	return buf.String()
}
