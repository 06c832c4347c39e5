package cmd

import (
	"runtime"

	"github.com/benpm/opengl-lens-flare/renderer"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/urfave/cli"
)

// Render a continuously updating view of the lens flare. The cursor steers
// the light direction and ESC closes the window.
func RenderInteractive(ctx *cli.Context) error {
	setupLogging(ctx)

	sys, err := loadSystem(ctx)
	if err != nil {
		return err
	}

	tr, err := selectTracer(ctx)
	if err != nil {
		return err
	}

	// The glfw event loop must run on the main OS thread.
	runtime.LockOSThread()
	defer glfw.Terminate()

	r, err := renderer.NewInteractive(sys, tr, renderOptions(ctx))
	if err != nil {
		return err
	}
	defer r.Close()

	return r.Render()
}
