// Package render evaluates every pixel of a viewport and hands the colors to
// a PixelWriter in row-major order.
package render

import (
	"context"
	"image"
	"image/color"

	"github.com/willbeason/deep-mandelbrot/pkg/palette"
	"github.com/willbeason/deep-mandelbrot/pkg/transforms"
	"github.com/willbeason/deep-mandelbrot/pkg/viewport"
)

// A PixelWriter receives one color per pixel, top row first and left to right
// within each row.
type PixelWriter interface {
	WritePixel(c color.RGBA) error
}

// Render streams the colors of every pixel of cfg to w. It stops early if
// ctx is cancelled between rows.
func Render(ctx context.Context, cfg *viewport.Config, w PixelWriter) error {
	m := transforms.NewMandelbrot(cfg.Prec)

	for y := 0; y < cfg.VRes; y++ {
		err := ctx.Err()
		if err != nil {
			return err
		}

		for x := 0; x < cfg.HRes; x++ {
			count := m.Escape(cfg.Point(x, y))

			err = w.WritePixel(palette.Color(count))
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// Counts returns the escape count of every pixel, indexed x + y*HRes.
func Counts(cfg *viewport.Config) []int {
	m := transforms.NewMandelbrot(cfg.Prec)

	counts := make([]int, cfg.HRes*cfg.VRes)
	for y := 0; y < cfg.VRes; y++ {
		for x := 0; x < cfg.HRes; x++ {
			counts[x+y*cfg.HRes] = m.Escape(cfg.Point(x, y))
		}
	}

	return counts
}

// ImageWriter fills an image.RGBA one pixel at a time.
type ImageWriter struct {
	Img *image.RGBA

	p int
}

func NewImageWriter(width, height int) *ImageWriter {
	return &ImageWriter{Img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (iw *ImageWriter) WritePixel(c color.RGBA) error {
	bounds := iw.Img.Bounds()
	width := bounds.Dx()
	if iw.p >= width*bounds.Dy() {
		return ErrImageFull
	}

	x := iw.p % width
	y := iw.p / width
	iw.Img.SetRGBA(bounds.Min.X+x, bounds.Min.Y+y, c)
	iw.p++

	return nil
}

var _ PixelWriter = &ImageWriter{}
