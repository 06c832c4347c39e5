package renderer

import "math"

// NewApertureMask renders the iris opening: a regular bladed polygon with a
// feathered rim and one blade vertex on the +x axis. The opening value is
// the polygon circumradius in tenths of the mask half-extent, so the
// reference opening of 7 covers 70% of the mask.
func NewApertureMask(res int, opening, blades float32) *Mask {
	mask := NewMask(res)
	if blades < 3 {
		blades = 3
	}

	circum := float64(opening) / 10
	sector := 2 * math.Pi / float64(blades)
	inradius := circum * math.Cos(sector/2)
	feather := 2 / float32(res)

	i := 0
	for y := 0; y < res; y++ {
		v := float64(2*y+1)/float64(res) - 1
		for x := 0; x < res; x++ {
			u := float64(2*x+1)/float64(res) - 1

			r := math.Sqrt(u*u + v*v)
			a := math.Mod(math.Atan2(v, u), sector)
			if a < 0 {
				a += sector
			}
			a -= sector / 2

			edge := float32(inradius / math.Cos(a))
			mask.Pix[i] = 1 - smoothstep(edge-feather, edge+feather, float32(r))
			i++
		}
	}
	return mask
}
