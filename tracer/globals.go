package tracer

import (
	"github.com/benpm/opengl-lens-flare/lens"
	"github.com/benpm/opengl-lens-flare/types"
)

// The 64-byte frame-global parameter block shared by every pipeline stage.
// Field order mirrors the std140 uniform block of the display path: four
// 16-byte slots with LightDir packed against ApertureRes. Layout tests pin
// the offsets.
type Globals struct {
	Time       float32
	Spread     float32
	PlateSize  float32
	ApertureID float32

	InterfaceCount float32
	CoatingQuality float32
	BackbufferSize types.Vec2

	LightDir    types.Vec3
	ApertureRes float32

	ApertureOpening float32
	BladeCount      float32
	StarburstRes    float32
	Padding         float32
}

// Frame-global defaults matching the reference rig.
const (
	DefaultSpread          = 0.75
	DefaultBackbufferW     = 1920.0
	DefaultBackbufferH     = 1080.0
	DefaultApertureRes     = 512
	DefaultApertureOpening = 7.0
	DefaultBladeCount      = 6.0
	DefaultStarburstRes    = 2048
)

// Build the frame globals for a lens system, taking the plate size and
// coating quality from the supplied options (defaults fill unset fields).
// Time and LightDir are zero; callers fill them per frame.
func NewGlobals(sys *lens.System, opts Options) Globals {
	opts = opts.WithDefaults()
	return Globals{
		Spread:          DefaultSpread,
		PlateSize:       opts.PlateSize,
		ApertureID:      float32(sys.Aperture),
		InterfaceCount:  float32(len(sys.Interfaces)),
		CoatingQuality:  opts.CoatingQuality,
		BackbufferSize:  types.XY(DefaultBackbufferW, DefaultBackbufferH),
		ApertureRes:     DefaultApertureRes,
		ApertureOpening: DefaultApertureOpening,
		BladeCount:      DefaultBladeCount,
		StarburstRes:    DefaultStarburstRes,
	}
}
