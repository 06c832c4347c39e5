package renderer

// An RGB accumulation target for the additive raster passes. Samples are
// high dynamic range; tonemapping compresses the film into a displayable
// frame at the end of the pipeline.
type Film struct {
	W   int
	H   int
	Pix []float32
}

func NewFilm(w, h int) *Film {
	return &Film{
		W:   w,
		H:   h,
		Pix: make([]float32, w*h*3),
	}
}

// Reset every accumulator to zero.
func (f *Film) Clear() {
	for i := range f.Pix {
		f.Pix[i] = 0
	}
}

// Accumulate a sample. Samples outside the film are discarded.
func (f *Film) Add(x, y int, r, g, b float32) {
	if x < 0 || x >= f.W || y < 0 || y >= f.H {
		return
	}
	o := (y*f.W + x) * 3
	f.Pix[o] += r
	f.Pix[o+1] += g
	f.Pix[o+2] += b
}

// Read back an accumulated pixel. Out of range reads return black.
func (f *Film) At(x, y int) (r, g, b float32) {
	if x < 0 || x >= f.W || y < 0 || y >= f.H {
		return 0, 0, 0
	}
	o := (y*f.W + x) * 3
	return f.Pix[o], f.Pix[o+1], f.Pix[o+2]
}
