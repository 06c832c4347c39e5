package cmd

import (
	"github.com/benpm/opengl-lens-flare/log"
	"github.com/urfave/cli"
)

var logger = log.New("lens-flare")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
