package renderer

import (
	"math"

	"github.com/benpm/opengl-lens-flare/types"
)

// Angular sharpness of the diffraction streaks.
const streakSharpness = 64

// The pattern value at centered coordinates: a central glow blended with
// radial streaks, both fading towards the mask edge.
func starburstIntensity(u, v, lobes float64) float64 {
	r := math.Sqrt(u*u + v*v)
	theta := math.Atan2(v, u)

	core := math.Exp(-r * r * 40)
	streak := math.Pow(math.Abs(math.Cos(theta*lobes)), streakSharpness) * math.Exp(-r*3)
	return core + (1-core)*streak
}

// NewStarburstMask renders the diffraction pattern composited around the
// light, with streaks at half the blade frequency.
func NewStarburstMask(res int, blades float32) *Mask {
	mask := NewMask(res)

	lobes := float64(blades) / 2
	i := 0
	for y := 0; y < res; y++ {
		v := float64(2*y+1)/float64(res) - 1
		for x := 0; x < res; x++ {
			u := float64(2*x+1)/float64(res) - 1
			mask.Pix[i] = float32(starburstIntensity(u, v, lobes))
			i++
		}
	}
	return mask
}

// Blackbody-ish tint for the starburst. The curve is a cheap fit, not a
// spectral model; 6000K comes out as a warm white.
func temperatureToColor(temp float32) types.Vec3 {
	t := temp / 6000
	return types.XYZ(
		clamp32(1+0.1*(t-1), 0.6, 1),
		clamp32(0.9+0.05*(t-1), 0.8, 1),
		clamp32(0.8+0.2*(1-t), 0.5, 1),
	)
}

// Composite the starburst over the film. The pattern rides at half the
// light's screen offset, dims as the light leaves the axis and carries two
// slow sinusoidal flickers.
func compositeStarburst(film *Film, mask *Mask, lightDir types.Vec3, t float32) {
	intensity := 1 - clamp32(float32(math.Abs(float64(lightDir[0]*9))), 0, 1)
	flicker1 := 1 - (float32(math.Sin(float64(t*5)))+1)*0.025
	flicker2 := 1 - (float32(math.Sin(float64(t)))+1)*0.0125
	intensity *= flicker1 * flicker2
	if intensity <= 0 {
		return
	}

	tint := temperatureToColor(6000)
	cx := lightDir[0] * 0.5
	cy := lightDir[1] * 0.5

	for y := 0; y < film.H; y++ {
		ndcY := 1 - (2*float32(y)+1)/float32(film.H)
		for x := 0; x < film.W; x++ {
			ndcX := (2*float32(x)+1)/float32(film.W) - 1

			su := (ndcX-cx)*0.5 + 0.5
			sv := (ndcY-cy)*0.5 + 0.5
			if su < 0 || su > 1 || sv < 0 || sv > 1 {
				continue
			}

			s := mask.Sample(su, sv) * intensity
			if s <= 0 {
				continue
			}
			film.Add(x, y, s*tint[0], s*tint[1], s*tint[2])
		}
	}
}
