package cmd

import (
	"github.com/urfave/cli"
)

// Print the interface table of a lens prescription.
func ShowLens(ctx *cli.Context) error {
	setupLogging(ctx)

	sys, err := loadSystem(ctx)
	if err != nil {
		return err
	}

	logger.Noticef("lens system statistics\n%s", sys.Stats())
	return nil
}
