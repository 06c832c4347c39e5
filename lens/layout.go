package lens

import "github.com/benpm/opengl-lens-flare/types"

// The interchange records below mirror the std430 buffer layout consumed by
// the display path. Field order is significant and every Vec3 slot is padded
// to 16 bytes by the scalar that follows it. Layout tests pin the sizes and
// offsets; change them together with the shader-side declarations.

// A 48-byte optical interface record.
type InterfaceData struct {
	Center types.Vec3
	Radius float32

	N  types.Vec3
	SA float32

	D1   float32
	Flat float32
	Pos  float32
	W    float32
}

// A 16-byte ghost record: the two bounce indices as floats plus two reserved
// slots.
type GhostData struct {
	Bounce1  float32
	Bounce2  float32
	Padding1 float32
	Padding2 float32
}

// Pack the interface stack into its interchange form. The surface variant
// flattens back to a float flag: 1 for planar, 0 for spherical.
func (sys *System) InterfaceData() []InterfaceData {
	data := make([]InterfaceData, len(sys.Interfaces))
	for k, iface := range sys.Interfaces {
		var flat, radius float32
		switch iface.Surface.Kind {
		case Planar:
			flat = 1.0
		case Spherical:
			radius = iface.Surface.Radius
		}

		data[k] = InterfaceData{
			Center: iface.Center,
			Radius: radius,
			N:      iface.N,
			SA:     iface.SA,
			D1:     iface.D1,
			Flat:   flat,
			Pos:    iface.Pos,
			W:      iface.W,
		}
	}
	return data
}

// Pack a ghost list into its interchange form.
func PackGhosts(ghosts []Ghost) []GhostData {
	data := make([]GhostData, len(ghosts))
	for k, ghost := range ghosts {
		data[k] = GhostData{
			Bounce1: float32(ghost.Bounce1),
			Bounce2: float32(ghost.Bounce2),
		}
	}
	return data
}
