package cmd

import (
	"bytes"
	"fmt"

	"github.com/benpm/opengl-lens-flare/lens"
	"github.com/benpm/opengl-lens-flare/renderer"
	"github.com/benpm/opengl-lens-flare/tracer"
	"github.com/benpm/opengl-lens-flare/tracer/opencl"
	"github.com/benpm/opengl-lens-flare/tracer/opencl/device"
	"github.com/benpm/opengl-lens-flare/types"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Load the prescription named by the first command argument, falling back
// to the bundled Nikon 28-75mm patent when no argument is given, and
// compile it into a lens system.
func loadSystem(ctx *cli.Context) (*lens.System, error) {
	p := lens.NikonPrescription()
	if ctx.NArg() > 0 {
		var err error
		p, err = lens.LoadPrescription(ctx.Args().First())
		if err != nil {
			return nil, err
		}
	}

	sys, err := lens.Build(p)
	if err != nil {
		return nil, err
	}

	logger.Noticef("loaded %s: %d interfaces, %d ghosts",
		sys.Name, len(sys.Interfaces), lens.GhostCount(len(sys.Interfaces)))
	return sys, nil
}

// Select the bundle tracer: the built-in CPU tracer by default, or an
// opencl tracer when a device name fragment is supplied.
func selectTracer(ctx *cli.Context) (tracer.Tracer, error) {
	match := ctx.String("cl-device")
	if match == "" {
		return tracer.NewCPU("cpu"), nil
	}

	devList, err := device.SelectDevices(device.AllDevices, match)
	if err != nil {
		return nil, err
	}
	if len(devList) == 0 {
		return nil, fmt.Errorf("no opencl device matches %q", match)
	}

	dev := devList[0]
	logger.Noticef("using opencl device %q (%d GFlops)", dev.Name, dev.Speed)
	return opencl.NewTracer("cl-0", dev), nil
}

// Collect the render parameters shared by the frame and interactive
// commands.
func renderOptions(ctx *cli.Context) renderer.Options {
	lightX := float32(ctx.Float64("light-x"))
	lightY := float32(ctx.Float64("light-y"))

	return renderer.Options{
		FrameW:    uint32(ctx.Int("width")),
		FrameH:    uint32(ctx.Int("height")),
		GridRes:   uint32(ctx.Int("grid-res")),
		MaxGhosts: uint32(ctx.Int("max-ghosts")),
		Exposure:  float32(ctx.Float64("exposure")),
		LightDir:  types.XYZ(lightX, lightY, -1).Normalize(),
	}
}

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	sys, err := loadSystem(ctx)
	if err != nil {
		return err
	}

	tr, err := selectTracer(ctx)
	if err != nil {
		return err
	}

	opts := renderOptions(ctx)
	opts.OutFile = ctx.String("out")

	r, err := renderer.NewDefault(sys, tr, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	if err = r.Render(); err != nil {
		return err
	}

	displayFrameStats(r.Stats())
	return nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Stage", "Time"})
	for _, stage := range stats.Stages {
		table.Append([]string{
			stage.Name,
			fmt.Sprintf("%s", stage.Time),
		})
	}
	table.SetFooter([]string{"TOTAL", fmt.Sprintf("%s", stats.RenderTime)})

	table.Render()
	logger.Noticef("frame statistics for tracer %s: %d ghosts, %d triangles, %d of %d rays dead\n%s",
		stats.TracerId, stats.GhostsDrawn, stats.Triangles, stats.RaysDead, stats.RaysTraced, buf.String())
}
