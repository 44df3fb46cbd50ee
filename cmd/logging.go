package cmd

import (
	"github.com/achilleasa/hider/log"
	"github.com/urfave/cli"
)

var logger = log.New("hider")

// Apply the global verbosity flags. A level configured in the config file
// is used when neither -v nor -vv is given.
func setupLogging(ctx *cli.Context) {
	if level := ctx.GlobalString("log-level"); level != "" {
		if parsed, err := log.ParseLevel(level); err == nil {
			log.SetLevel(parsed)
		} else {
			logger.Warningf("%s; keeping the default level", err)
		}
	}

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
