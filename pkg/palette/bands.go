// Package palette maps escape counts to colors with a cyclic banded gradient.
package palette

import (
	"image/color"

	"github.com/willbeason/deep-mandelbrot/pkg/transforms"
)

// BandSize is the number of consecutive counts sharing one gradient range.
const BandSize = transforms.TotalCols / len(Bands)

// A Band is a linear gradient between two RGB anchors.
type Band struct {
	From, To [3]int
}

// Bands are the gradient ranges, in order of increasing count.
var Bands = [4]Band{
	{From: [3]int{255, 255, 0}, To: [3]int{255, 0, 0}},
	{From: [3]int{255, 15, 15}, To: [3]int{255, 127, 0}},
	{From: [3]int{255, 143, 0}, To: [3]int{0, 0, 255}},
	{From: [3]int{15, 15, 255}, To: [3]int{239, 239, 0}},
}

// Triple returns the channel values for an escape count. Counts of
// transforms.MaxIter are black.
func Triple(count int) [3]int {
	var rgb [3]int
	if count >= transforms.MaxIter {
		return rgb
	}

	idx := count % transforms.TotalCols
	band := Bands[idx/BandSize]
	ext := idx % BandSize

	// Integer division truncates, so a band may stop short of its To anchor.
	for i := range rgb {
		rgb[i] = band.From[i] + ext*(band.To[i]-band.From[i])/(BandSize-1)
	}

	return rgb
}

// Color is Triple as an opaque color.RGBA.
func Color(count int) color.RGBA {
	rgb := Triple(count)
	return color.RGBA{
		R: uint8(rgb[0]),
		G: uint8(rgb[1]),
		B: uint8(rgb[2]),
		A: 0xff,
	}
}
