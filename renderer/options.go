package renderer

import "github.com/benpm/opengl-lens-flare/types"

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Rays traced per ghost bundle axis.
	GridRes uint32

	// Number of ghosts drawn per frame. Zero draws every enumerated ghost.
	MaxGhosts uint32

	// Side length of the generated aperture and starburst masks.
	ApertureRes  uint32
	StarburstRes uint32

	// Exposure for tonemapping.
	Exposure float32

	// Direction towards the light at startup.
	LightDir types.Vec3

	// When set, Render writes each finished frame to this file.
	OutFile string
}
