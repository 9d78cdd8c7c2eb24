// Package ppm writes images in the plain-text portable pixmap (P3) format.
package ppm

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
)

// MaxValue is the largest channel value written to the header.
const MaxValue = 255

var ErrTooManyPixels = errors.New("ppm: more pixels than the image holds")

// Writer streams pixels in row-major order. Each row is one line of
// space-separated "R G B" triples.
type Writer struct {
	w             *bufio.Writer
	width, height int

	wroteHeader bool
	n           int

	buf []byte
}

func NewWriter(w io.Writer, width, height int) *Writer {
	return &Writer{
		w:      bufio.NewWriter(w),
		width:  width,
		height: height,
		buf:    make([]byte, 0, len("255 255 255\n")),
	}
}

// WriteHeader writes the magic number, dimensions, and maximum channel value.
// WritePixel calls it if it has not been called yet.
func (w *Writer) WriteHeader() error {
	if w.wroteHeader {
		return nil
	}
	w.wroteHeader = true

	_, err := fmt.Fprintf(w.w, "P3\n%d %d\n%d\n", w.width, w.height, MaxValue)
	return err
}

func (w *Writer) WritePixel(c color.RGBA) error {
	err := w.WriteHeader()
	if err != nil {
		return err
	}

	if w.n >= w.width*w.height {
		return ErrTooManyPixels
	}
	w.n++

	b := w.buf[:0]
	b = strconv.AppendUint(b, uint64(c.R), 10)
	b = append(b, ' ')
	b = strconv.AppendUint(b, uint64(c.G), 10)
	b = append(b, ' ')
	b = strconv.AppendUint(b, uint64(c.B), 10)
	if w.n%w.width == 0 {
		b = append(b, '\n')
	} else {
		b = append(b, ' ')
	}
	w.buf = b

	_, err = w.w.Write(b)
	return err
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Encode writes img in full. Colors pass through color.RGBAModel and alpha is
// not written.
func Encode(out io.Writer, img image.Image) error {
	bounds := img.Bounds()
	w := NewWriter(out, bounds.Dx(), bounds.Dy())

	err := w.WriteHeader()
	if err != nil {
		return err
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			err = w.WritePixel(c)
			if err != nil {
				return err
			}
		}
	}

	return w.Flush()
}
