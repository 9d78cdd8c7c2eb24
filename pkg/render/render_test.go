package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"strings"
	"testing"

	"github.com/willbeason/deep-mandelbrot/pkg/palette"
	"github.com/willbeason/deep-mandelbrot/pkg/ppm"
	"github.com/willbeason/deep-mandelbrot/pkg/transforms"
	"github.com/willbeason/deep-mandelbrot/pkg/viewport"
)

var _ PixelWriter = &ppm.Writer{}

func smallConfig(t *testing.T) *viewport.Config {
	t.Helper()

	c, err := viewport.Parse(viewport.MinRes, viewport.MinRes,
		viewport.DefaultRMin, viewport.DefaultRMax,
		viewport.DefaultIMin, viewport.DefaultIMax,
		viewport.DefaultPrec)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func renderPPM(t *testing.T, cfg *viewport.Config) string {
	t.Helper()

	buf := &bytes.Buffer{}
	w := ppm.NewWriter(buf, cfg.HRes, cfg.VRes)

	err := Render(context.Background(), cfg, w)
	if err != nil {
		t.Fatal(err)
	}

	err = w.Flush()
	if err != nil {
		t.Fatal(err)
	}

	return buf.String()
}

func TestRender_PPM(t *testing.T) {
	cfg := smallConfig(t)
	out := renderPPM(t, cfg)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 3+cfg.VRes {
		t.Fatalf("got %d lines, want %d", len(lines), 3+cfg.VRes)
	}

	header := strings.Join(lines[:3], "\n")
	if want := "P3\n32 32\n255"; header != want {
		t.Errorf("got header %q, want %q", header, want)
	}

	for i, row := range lines[3:] {
		fields := strings.Split(row, " ")
		if len(fields) != 3*cfg.HRes {
			t.Fatalf("row %d has %d values, want %d", i, len(fields), 3*cfg.HRes)
		}
	}

	// (-1.5, 1) escapes quickly.
	topLeft := strings.Join(strings.Fields(lines[3])[:3], " ")
	if topLeft == "0 0 0" {
		t.Errorf("got black top-left pixel, want a band color")
	}

	// Column 24, row 16 is the origin, which never escapes.
	origin := strings.Fields(lines[3+16])[3*24 : 3*24+3]
	if got := strings.Join(origin, " "); got != "0 0 0" {
		t.Errorf("got origin pixel %q, want \"0 0 0\"", got)
	}
}

func TestRender_Deterministic(t *testing.T) {
	cfg := smallConfig(t)

	first := renderPPM(t, cfg)
	second := renderPPM(t, cfg)
	if first != second {
		t.Error("two renders of the same viewport differ")
	}
}

func TestRender_MatchesCounts(t *testing.T) {
	cfg := smallConfig(t)
	counts := Counts(cfg)

	iw := NewImageWriter(cfg.HRes, cfg.VRes)
	err := Render(context.Background(), cfg, iw)
	if err != nil {
		t.Fatal(err)
	}

	for y := 0; y < cfg.VRes; y++ {
		for x := 0; x < cfg.HRes; x++ {
			count := counts[x+y*cfg.HRes]
			if count < 0 || count > transforms.MaxIter {
				t.Fatalf("count %d at (%d, %d) outside [0, %d]", count, x, y, transforms.MaxIter)
			}

			got := iw.Img.RGBAAt(x, y)
			if want := palette.Color(count); got != want {
				t.Errorf("pixel (%d, %d) = %v, want %v for count %d", x, y, got, want, count)
			}
		}
	}

	if counts[0] >= transforms.MaxIter {
		t.Errorf("top-left count %d, want an escape", counts[0])
	}
	if counts[24+16*cfg.HRes] != transforms.MaxIter {
		t.Errorf("origin count %d, want %d", counts[24+16*cfg.HRes], transforms.MaxIter)
	}

	err = iw.WritePixel(color.RGBA{})
	if !errors.Is(err, ErrImageFull) {
		t.Errorf("got error %v, want %v", err, ErrImageFull)
	}
}

type countingWriter struct {
	n   int
	err error
}

func (w *countingWriter) WritePixel(color.RGBA) error {
	w.n++
	return w.err
}

func TestRender_Cancelled(t *testing.T) {
	cfg := smallConfig(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := &countingWriter{}
	err := Render(ctx, cfg, w)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got error %v, want %v", err, context.Canceled)
	}
	if w.n != 0 {
		t.Errorf("wrote %d pixels after cancellation, want 0", w.n)
	}
}

func TestRender_WriterError(t *testing.T) {
	cfg := smallConfig(t)

	want := fmt.Errorf("disk full")
	w := &countingWriter{err: want}

	err := Render(context.Background(), cfg, w)
	if !errors.Is(err, want) {
		t.Errorf("got error %v, want %v", err, want)
	}
	if w.n != 1 {
		t.Errorf("wrote %d pixels, want 1", w.n)
	}
}
