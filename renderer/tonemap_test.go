package renderer

import (
	"image"
	"math"
	"testing"
)

func TestAcesFilm(t *testing.T) {
	type spec struct {
		in       float32
		expected float32
	}
	specs := []spec{
		// Black maps to black, highlights roll off into the clamp.
		spec{0, 0},
		spec{10, 1},
		// Mid grey.
		spec{0.18, 0.2669},
		spec{1, 0.8038},
	}

	for index, s := range specs {
		if got := acesFilm(s.in); math.Abs(float64(got-s.expected)) > 1e-3 {
			t.Fatalf("[spec %d] expected %f; got %f", index, s.expected, got)
		}
	}
}

func TestAcesFilmMonotonic(t *testing.T) {
	prev := float32(-1)
	for x := float32(0); x <= 2; x += 0.05 {
		got := acesFilm(x)
		if got < prev {
			t.Fatalf("expected a monotonic curve; fell to %f at %f", got, x)
		}
		prev = got
	}
}

func TestTonemap(t *testing.T) {
	film := NewFilm(2, 1)
	film.Add(0, 0, 0, 0, 0)
	film.Add(1, 0, 10, 0.18, 1)

	frame := image.NewRGBA(image.Rect(0, 0, 2, 1))
	Tonemap(film, 1, frame)

	expected := []uint8{
		0, 0, 0, 255,
		255, 68, 205, 255,
	}
	for i, b := range expected {
		if frame.Pix[i] != b {
			t.Fatalf("expected byte %d to be %d; got %d", i, b, frame.Pix[i])
		}
	}
}

func TestTonemapExposure(t *testing.T) {
	film := NewFilm(1, 1)
	film.Add(0, 0, 0.5, 0.5, 0.5)

	frame := image.NewRGBA(image.Rect(0, 0, 1, 1))

	Tonemap(film, 1, frame)
	if frame.Pix[0] != 157 {
		t.Fatalf("expected 157 at exposure 1; got %d", frame.Pix[0])
	}

	Tonemap(film, 2, frame)
	if frame.Pix[0] != 205 {
		t.Fatalf("expected 205 at exposure 2; got %d", frame.Pix[0])
	}
}
