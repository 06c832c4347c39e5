package renderer

import "image"

// ACES filmic curve coefficients.
const (
	acesA = 2.51
	acesB = 0.03
	acesC = 2.43
	acesD = 0.59
	acesE = 0.14
)

func acesFilm(x float32) float32 {
	return clamp32((x*(acesA*x+acesB))/(x*(acesC*x+acesD)+acesE), 0, 1)
}

// Tonemap compresses the film into the 8-bit frame, scaling by the
// exposure before applying the ACES filmic curve per channel.
func Tonemap(film *Film, exposure float32, frame *image.RGBA) {
	src := 0
	for y := 0; y < film.H; y++ {
		dst := frame.PixOffset(0, y)
		for x := 0; x < film.W; x++ {
			frame.Pix[dst] = uint8(acesFilm(film.Pix[src]*exposure)*255 + 0.5)
			frame.Pix[dst+1] = uint8(acesFilm(film.Pix[src+1]*exposure)*255 + 0.5)
			frame.Pix[dst+2] = uint8(acesFilm(film.Pix[src+2]*exposure)*255 + 0.5)
			frame.Pix[dst+3] = 255
			src += 3
			dst += 4
		}
	}
}
