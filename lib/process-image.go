package fissionlib

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var filters = map[string]draw.Interpolator{
	"catmullrom":     draw.CatmullRom,
	"bilinear":       draw.BiLinear,
	"approxbilinear": draw.ApproxBiLinear,
}

type encodeFunc func(io.Writer, image.Image) error

// PNG takes non-trivial CPU time at default compression, BMP takes a lot of
// space
var encoders = map[string]encodeFunc{
	"png": func(w io.Writer, img image.Image) error {
		enc := png.Encoder{CompressionLevel: png.BestSpeed}
		return enc.Encode(w, img)
	},
	"bmp": bmp.Encode,
}

// Placeholder is substituted for any image that could not be loaded.
// Opaque black.
func Placeholder(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{A: 0xff}), image.Point{}, draw.Src)
	return img
}

func DecodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("unable to decode [%s]: %w", path, err)
	}
	return img, nil
}

// Resize stretches src to exactly width x height; aspect ratio is not
// preserved.
func Resize(src image.Image, width, height int, filter string) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))

	sb := src.Bounds()
	if sb.Dx() == width && sb.Dy() == height {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Src)
		return dst
	}

	interp, ok := filters[filter]
	if !ok {
		interp = draw.CatmullRom
	}

	interp.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
