package renderer

import (
	"math"
	"testing"
)

func TestMaskSample(t *testing.T) {
	mask := NewMask(2)
	mask.Pix = []float32{0, 1, 0, 1}

	type spec struct {
		u        float32
		v        float32
		expected float32
	}
	specs := []spec{
		// Dead center blends all four texels.
		spec{0.5, 0.5, 0.5},
		// Texel centers return texel values.
		spec{0.25, 0.25, 0},
		spec{0.75, 0.25, 1},
		// Outside coordinates clamp to the edge texels.
		spec{-1, 0.25, 0},
		spec{2, 0.25, 1},
	}

	for index, s := range specs {
		if got := mask.Sample(s.u, s.v); math.Abs(float64(got-s.expected)) > 1e-6 {
			t.Fatalf("[spec %d] expected sample %f; got %f", index, s.expected, got)
		}
	}
}

func TestSmoothstep(t *testing.T) {
	type spec struct {
		v        float32
		expected float32
	}
	specs := []spec{
		spec{0, 0},
		spec{1, 1},
		spec{0.5, 0.5},
		spec{-5, 0},
		spec{5, 1},
	}

	for index, s := range specs {
		if got := smoothstep(0, 1, s.v); math.Abs(float64(got-s.expected)) > 1e-6 {
			t.Fatalf("[spec %d] expected %f; got %f", index, s.expected, got)
		}
	}

	// Quarter point of the Hermite curve: 3t^2 - 2t^3 at t=0.25.
	if got := smoothstep(0, 1, 0.25); math.Abs(float64(got-0.15625)) > 1e-6 {
		t.Fatalf("expected 0.15625 at the quarter point; got %f", got)
	}
}

func TestFloor32(t *testing.T) {
	type spec struct {
		v        float32
		expected float32
	}
	specs := []spec{
		spec{1.7, 1},
		spec{-1.2, -2},
		spec{-3, -3},
		spec{0, 0},
	}

	for index, s := range specs {
		if got := floor32(s.v); got != s.expected {
			t.Fatalf("[spec %d] expected floor %f; got %f", index, s.expected, got)
		}
	}
}
