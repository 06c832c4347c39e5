package renderer

import (
	"image"
	"image/png"
	"os"
)

// WritePNG exports a rendered frame.
func WritePNG(frame *image.RGBA, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, frame)
}
