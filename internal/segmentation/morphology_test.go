package segmentation

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func grayWithRect(w, h int, r image.Rectangle) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			g.Pix[y*g.Stride+x] = 255
		}
	}
	return g
}

func countForeground(g *image.Gray) int {
	n := 0
	for _, v := range g.Pix {
		if v >= 128 {
			n++
		}
	}
	return n
}

func TestDilateGrowsRegion(t *testing.T) {
	src := grayWithRect(11, 11, image.Rect(5, 5, 6, 6))
	out := Dilate(src, 1)
	// Single pixel grows into the elliptical kernel footprint.
	assert.Equal(t, 5, countForeground(out))
	assert.Equal(t, uint8(255), out.GrayAt(5, 4).Y)
	assert.Equal(t, uint8(0), out.GrayAt(4, 4).Y)
}

func TestErodeShrinksRegion(t *testing.T) {
	src := grayWithRect(11, 11, image.Rect(3, 3, 8, 8))
	out := Erode(src, 1)
	assert.Equal(t, 9, countForeground(out))
	assert.Equal(t, uint8(255), out.GrayAt(5, 5).Y)
	assert.Equal(t, uint8(0), out.GrayAt(3, 3).Y)
}

func TestOpenRemovesNoise(t *testing.T) {
	src := grayWithRect(21, 21, image.Rect(5, 5, 15, 15))
	// Isolated speck away from the main region.
	src.Pix[1*src.Stride+1] = 255

	out := Open(src, 1)
	assert.Equal(t, uint8(0), out.GrayAt(1, 1).Y)
	assert.Equal(t, uint8(255), out.GrayAt(10, 10).Y)
}

func TestCloseFillsHoles(t *testing.T) {
	src := grayWithRect(21, 21, image.Rect(5, 5, 15, 15))
	src.Pix[10*src.Stride+10] = 0 // single-pixel hole

	out := Close(src, 1)
	assert.Equal(t, uint8(255), out.GrayAt(10, 10).Y)
	assert.Equal(t, uint8(0), out.GrayAt(0, 0).Y)
}
