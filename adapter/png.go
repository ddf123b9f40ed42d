package adapter

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/cwbudde/algo-chunkflow/dsp/buffer"
)

// PNG decodes images into a grid of gray levels in [0, 255], one row per
// scanline. The gray level is the red channel of each pixel. Encoding
// writes an 8-bit grayscale image, rounding and clamping every cell.
type PNG struct{}

// Decode reads the image at path.
func (PNG) Decode(path string) (*buffer.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, decodeErr(path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, decodeErr(path, err)
	}

	bounds := img.Bounds()
	out := buffer.NewGrid(bounds.Dy(), bounds.Dx())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := out.Row(y - bounds.Min.Y)
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			row[x-bounds.Min.X] = float64(r >> 8)
		}
	}
	return out, nil
}

// Encode writes b as a grayscale PNG. Vectors are written as a single row.
func (PNG) Encode(b *buffer.Buffer, path string) error {
	rows, cols := b.Rows(), b.Cols()
	img := image.NewGray(image.Rect(0, 0, cols, rows))
	for y := range rows {
		row := b.Row(y)
		for x, v := range row {
			img.SetGray(x, y, color.Gray{Y: uint8(math.Round(quantize(v, 0, 255)))})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return encodeErr(path, err)
	}
	err = png.Encode(f, img)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return encodeErr(path, err)
}
