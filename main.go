package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/df07/go-tile-pathtracer/cmd"
	"github.com/df07/go-tile-pathtracer/pkg/log"
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "pathtracer"
	app.Usage = "render built-in scenes with a tiled CPU path tracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "log level: debug, info, notice, warning or error",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a scene to an image file",
			Description: `
Build one of the built-in scenes and render it with a pool of worker threads
that claim image tiles from a shared queue.

Settings come from the --config file (YAML or TOML) or the defaults; any flag
given on the command line overrides them.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "config, c",
					Usage: "YAML or TOML settings file",
				},
				cli.StringFlag{
					Name:  "scene, s",
					Value: "spheres",
					Usage: "scene to render; see the scenes command",
				},
				cli.IntFlag{
					Name:  "width",
					Value: 480,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 480,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: 128,
					Usage: "rays per pixel",
				},
				cli.IntFlag{
					Name:  "bounces",
					Value: 8,
					Usage: "maximum scatter events per path",
				},
				cli.IntFlag{
					Name:  "rr-bounce",
					Value: 3,
					Usage: "bounce at which russian roulette starts; 0 disables it",
				},
				cli.IntFlag{
					Name:  "threads, t",
					Value: 6,
					Usage: "rendering threads, the main thread included",
				},
				cli.IntFlag{
					Name:  "tile-size",
					Value: 64,
					Usage: "tile width and height in pixels",
				},
				cli.IntFlag{
					Name:  "arena-mb",
					Value: 32,
					Usage: "scene arena size in MiB",
				},
				cli.UintFlag{
					Name:  "seed",
					Usage: "seed for scene construction and tile noise",
				},
				cli.StringFlag{
					Name:  "mesh",
					Usage: "PLY file for the mesh scene",
				},
				cli.StringFlag{
					Name:  "image",
					Usage: "sphere texture for the final scene",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "out.png",
					Usage: "image filename (.png, .jpg or .bmp)",
				},
				cli.IntFlag{
					Name:  "thumbnail",
					Usage: "also write a thumbnail of this width next to the image",
				},
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:   "scenes",
			Usage:  "list the built-in scenes",
			Action: cmd.ListScenes,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.New("pathtracer").Error(err)
		os.Exit(1)
	}
}
