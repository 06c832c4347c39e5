package renderer

import (
	"math"
	"testing"

	"github.com/benpm/opengl-lens-flare/types"
)

func TestStarburstIntensityCenter(t *testing.T) {
	if got := starburstIntensity(0, 0, 3); got != 1 {
		t.Fatalf("expected full intensity at the center; got %f", got)
	}
}

func TestStarburstIntensitySpikes(t *testing.T) {
	// On a spike versus halfway between two spikes, same radius.
	onSpike := starburstIntensity(0.2, 0, 3)
	between := starburstIntensity(0.2*math.Cos(math.Pi/6), 0.2*math.Sin(math.Pi/6), 3)

	if onSpike < 2*between {
		t.Fatalf("expected the spike to dominate; got %f on versus %f between", onSpike, between)
	}
}

func TestStarburstIntensitySixfoldSymmetry(t *testing.T) {
	const r = 0.2
	base := starburstIntensity(r, 0, 3)

	for k := 1; k < 6; k++ {
		theta := float64(k) * math.Pi / 3
		got := starburstIntensity(r*math.Cos(theta), r*math.Sin(theta), 3)
		if math.Abs(got-base) > 1e-9 {
			t.Fatalf("expected spike %d to match the first; got %g vs %g", k, got, base)
		}
	}
}

func TestStarburstIntensityRadialDecay(t *testing.T) {
	prev := math.Inf(1)
	for _, r := range []float64{0, 0.2, 0.4, 0.6, 0.8} {
		got := starburstIntensity(r, 0, 3)
		if got >= prev {
			t.Fatalf("expected the spike to decay with radius; got %f at r=%f after %f", got, r, prev)
		}
		prev = got
	}
}

func TestStarburstMaskTexels(t *testing.T) {
	const res = 64
	mask := NewStarburstMask(res, 6)

	for i, v := range mask.Pix {
		if v < 0 || v > 1 {
			t.Fatalf("expected intensities in [0,1]; texel %d is %f", i, v)
		}
	}

	// The brightest texel sits at the center.
	maxI := 0
	for i, v := range mask.Pix {
		if v > mask.Pix[maxI] {
			maxI = i
		}
	}
	cx, cy := maxI%res, maxI/res
	if cx < res/2-1 || cx > res/2 || cy < res/2-1 || cy > res/2 {
		t.Fatalf("expected the peak at the center; got texel (%d,%d)", cx, cy)
	}
}

func TestTemperatureToColor(t *testing.T) {
	type spec struct {
		temp     float32
		expected types.Vec3
	}
	specs := []spec{
		spec{6000, types.XYZ(1, 0.9, 0.8)},
		spec{12000, types.XYZ(1, 0.95, 0.6)},
		spec{3000, types.XYZ(0.95, 0.875, 0.9)},
		spec{0, types.XYZ(0.9, 0.85, 1)},
	}

	for index, s := range specs {
		got := temperatureToColor(s.temp)
		if got.Sub(s.expected).Len() > 1e-5 {
			t.Fatalf("[spec %d] expected tint %v; got %v", index, s.expected, got)
		}
	}
}

func TestCompositeStarburst(t *testing.T) {
	film := NewFilm(16, 16)
	mask := NewMask(4)
	for i := range mask.Pix {
		mask.Pix[i] = 1
	}

	compositeStarburst(film, mask, types.XYZ(0, 0, -1), 0)

	// At t=0 both flickers leave 0.975 * 0.9875 of the tinted pattern.
	const intensity = 0.975 * 0.9875
	r, g, b := film.At(8, 8)
	if math.Abs(float64(r-intensity)) > 1e-4 ||
		math.Abs(float64(g-intensity*0.9)) > 1e-4 ||
		math.Abs(float64(b-intensity*0.8)) > 1e-4 {
		t.Fatalf("expected the tinted pattern at the center; got (%f, %f, %f)", r, g, b)
	}
}

func TestCompositeStarburstOffAxisFades(t *testing.T) {
	film := NewFilm(8, 8)
	mask := NewMask(4)
	for i := range mask.Pix {
		mask.Pix[i] = 1
	}

	// Far enough off axis the pattern is fully suppressed.
	compositeStarburst(film, mask, types.XYZ(0.5, 0, -1).Normalize(), 0)
	for _, v := range film.Pix {
		if v != 0 {
			t.Fatal("expected no contribution for a far off-axis light")
		}
	}
}
