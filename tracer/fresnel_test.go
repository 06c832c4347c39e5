package tracer

import (
	"math"
	"testing"

	"github.com/benpm/opengl-lens-flare/types"
)

func TestFresnelSchlick(t *testing.T) {
	type spec struct {
		cosTheta float32
		n1       float32
		n2       float32
		expected float32
	}
	specs := []spec{
		// Normal incidence glass to air: ((n1-n2)/(n1+n2))^2.
		spec{1.0, 1.603, 1.0, 0.053664},
		// Grazing incidence always reflects fully.
		spec{0.0, 1.603, 1.0, 1.0},
		// Matched indices reflect nothing head on.
		spec{1.0, 1.5, 1.5, 0.0},
		// The zero-sum guard keeps the ratio finite.
		spec{1.0, 0.0, 0.0, 0.0},
		// The guard holds at grazing incidence too.
		spec{0.0, 0.0, 0.0, 0.0},
	}

	for index, s := range specs {
		got := fresnelSchlick(s.cosTheta, s.n1, s.n2)
		if math.Abs(float64(got-s.expected)) > 1e-4 {
			t.Fatalf("[spec %d] expected reflectance %f; got %f", index, s.expected, got)
		}
	}
}

func TestFresnelSchlickMatchedIndices(t *testing.T) {
	// No index step means no reflection at any incidence, not just head on.
	for _, n := range []float32{1.0, 1.5, 1.603} {
		for _, cosTheta := range []float32{1.0, 0.75, 0.5, 0.25, 0.0} {
			if got := fresnelSchlick(cosTheta, n, n); got != 0 {
				t.Fatalf("expected zero reflectance for n=%g at cos %g; got %g", n, cosTheta, got)
			}
		}
	}
}

func TestFresnelSchlickMonotonic(t *testing.T) {
	prev := fresnelSchlick(1.0, 1.603, 1.0)
	for _, cosTheta := range []float32{0.8, 0.6, 0.4, 0.2, 0.0} {
		got := fresnelSchlick(cosTheta, 1.603, 1.0)
		if got < prev {
			t.Fatalf("expected reflectance to grow towards grazing incidence; got %f after %f", got, prev)
		}
		prev = got
	}
}

func TestIncidenceCos(t *testing.T) {
	type spec struct {
		dir      types.Vec3
		norm     types.Vec3
		expected float32
	}
	specs := []spec{
		// Head-on incidence regardless of normal orientation.
		spec{types.XYZ(0, 0, 1), types.XYZ(0, 0, -1), 1.0},
		spec{types.XYZ(0, 0, 1), types.XYZ(0, 0, 1), 1.0},
		// Perpendicular.
		spec{types.XYZ(0, 0, 1), types.XYZ(0, 1, 0), 0.0},
		// Accumulated float error above 1 gets clamped.
		spec{types.XYZ(0, 0, 1.0000002), types.XYZ(0, 0, 1), 1.0},
	}

	for index, s := range specs {
		got := incidenceCos(s.dir, s.norm)
		if math.Abs(float64(got-s.expected)) > 1e-5 {
			t.Fatalf("[spec %d] expected cos %f; got %f", index, s.expected, got)
		}
	}
}
