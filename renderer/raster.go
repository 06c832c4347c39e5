package renderer

import (
	"math"

	"github.com/benpm/opengl-lens-flare/tracer"
	"github.com/benpm/opengl-lens-flare/types"
)

// Ghost tint palette: a golden-ratio hue step through three out-of-phase
// sinusoids keeps neighboring ghosts visually distinct.
func ghostColor(id int) types.Vec3 {
	hue := float64(id) * 0.137
	return types.XYZ(
		0.5+0.5*float32(math.Sin(hue*2*math.Pi)),
		0.5+0.5*float32(math.Sin((hue+0.33)*2*math.Pi)),
		0.5+0.5*float32(math.Sin((hue+0.66)*2*math.Pi)),
	)
}

// Map normalized device coordinates onto film pixels. Row zero is the top
// of the frame.
func ndcToPixel(ndcX, ndcY float32, w, h int) (float32, float32) {
	px := (ndcX + 1) * 0.5 * float32(w-1)
	py := (1 - ndcY) * 0.5 * float32(h-1)
	return px, py
}

func min3(a, b, c float32) float32 {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func max3(a, b, c float32) float32 {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}

// Rasterize one triangle additively onto the film. Vertex intensity and
// aperture uv interpolate across the face and the aperture mask modulates
// every written sample. Degenerate triangles contribute nothing, which is
// how sentinel vertices and collapsed dead-ray cells disappear.
func rasterTriangle(film *Film, aperture *Mask, v0, v1, v2 tracer.TriVertex, color types.Vec3) {
	x0, y0 := ndcToPixel(v0.X, v0.Y, film.W, film.H)
	x1, y1 := ndcToPixel(v1.X, v1.Y, film.W, film.H)
	x2, y2 := ndcToPixel(v2.X, v2.Y, film.W, film.H)

	area := (x1-x0)*(y2-y0) - (x2-x0)*(y1-y0)
	if area > -1e-6 && area < 1e-6 {
		return
	}
	inv := 1 / area

	minX := int(min3(x0, x1, x2))
	maxX := int(max3(x0, x1, x2)) + 1
	minY := int(min3(y0, y1, y2))
	maxY := int(max3(y0, y1, y2)) + 1
	if minX < 0 {
		minX = 0
	}
	if maxX >= film.W {
		maxX = film.W - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= film.H {
		maxY = film.H - 1
	}

	for py := minY; py <= maxY; py++ {
		cy := float32(py)
		for px := minX; px <= maxX; px++ {
			cx := float32(px)

			w0 := ((x1-cx)*(y2-cy) - (x2-cx)*(y1-cy)) * inv
			w1 := ((x2-cx)*(y0-cy) - (x0-cx)*(y2-cy)) * inv
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			intensity := w0*v0.Intensity + w1*v1.Intensity + w2*v2.Intensity
			if intensity <= 0 {
				continue
			}

			u := w0*v0.U + w1*v1.U + w2*v2.U
			v := w0*v0.V + w1*v1.V + w2*v2.V
			a := aperture.Sample(u, v)
			if a <= 0 {
				continue
			}

			s := intensity * a
			film.Add(px, py, color[0]*s, color[1]*s, color[2]*s)
		}
	}
}

// Rasterize one ghost's triangle list.
func rasterGhost(film *Film, aperture *Mask, tris []tracer.TriVertex, color types.Vec3) {
	for i := 0; i+2 < len(tris); i += 3 {
		rasterTriangle(film, aperture, tris[i], tris[i+1], tris[i+2], color)
	}
}
