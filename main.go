package main

import (
	"os"

	"github.com/benpm/opengl-lens-flare/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "lens-flare"
	app.Usage = "simulate physically-based camera lens flares"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}

	frameFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Value: 1920,
			Usage: "frame width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: 1080,
			Usage: "frame height",
		},
		cli.IntFlag{
			Name:  "grid-res",
			Value: 32,
			Usage: "ray bundle resolution per ghost",
		},
		cli.IntFlag{
			Name:  "max-ghosts",
			Value: 10,
			Usage: "max ghosts to draw; 0 draws the full enumeration",
		},
		cli.Float64Flag{
			Name:  "exposure",
			Value: 1.0,
			Usage: "camera exposure for tone-mapping",
		},
		cli.Float64Flag{
			Name:  "light-x",
			Value: 0.0,
			Usage: "light direction x component before normalization",
		},
		cli.Float64Flag{
			Name:  "light-y",
			Value: 0.0,
			Usage: "light direction y component before normalization",
		},
		cli.StringFlag{
			Name:  "cl-device",
			Usage: "trace on the first opencl device whose name contains this value",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:  "lens",
			Usage: "print the interface table of a lens prescription",
			Description: `
Compile a lens prescription into its flat interface stack and print the
resulting table. Prescriptions are whitespace-delimited patent tables; with
no argument the bundled Nikon 28-75mm f/2.8 patent is used.`,
			ArgsUsage: "[prescription_file]",
			Action:    cmd.ShowLens,
		},
		{
			Name:   "list-devices",
			Usage:  "list available opencl devices",
			Action: cmd.ListDevices,
		},
		{
			Name:   "render",
			Usage:  "render lens flares",
			Action: nil,
			Subcommands: []cli.Command{
				{
					Name:  "frame",
					Usage: "render single frame",
					Description: `
Trace ray bundles for every enumerated ghost through the lens system, draw
the brightest ghosts together with the aperture starburst and write the
tone-mapped result to a png file.`,
					ArgsUsage: "[prescription_file]",
					Flags: append(frameFlags,
						cli.StringFlag{
							Name:  "out, o",
							Value: "frame.png",
							Usage: "image filename for the rendered frame",
						},
					),
					Action: cmd.RenderFrame,
				},
				{
					Name:  "interactive",
					Usage: "render interactive lens flare view",
					Description: `
Open an opengl window and re-render the flare every frame. Moving the
cursor steers the light direction; ESC closes the window.`,
					ArgsUsage: "[prescription_file]",
					Flags:     frameFlags,
					Action:    cmd.RenderInteractive,
				},
			},
		},
	}

	app.Run(os.Args)
}
