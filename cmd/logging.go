package cmd

import (
	"github.com/urfave/cli"

	"github.com/df07/go-tile-pathtracer/pkg/log"
)

var logger = log.New("pathtracer")

// logLevel resolves the global --log-level name, then lets -v and -vv
// raise the verbosity further
func logLevel(ctx *cli.Context) (log.Level, error) {
	level := log.Notice
	if name := ctx.GlobalString("log-level"); name != "" {
		var err error
		if level, err = log.ParseLevel(name); err != nil {
			return level, err
		}
	}
	if ctx.GlobalBool("v") {
		level = min(level, log.Info)
	}
	if ctx.GlobalBool("vv") {
		level = log.Debug
	}
	return level, nil
}

func setupLogging(ctx *cli.Context) error {
	level, err := logLevel(ctx)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	return nil
}
