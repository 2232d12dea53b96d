package utils

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToGray(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 3))
	src.Set(1, 1, color.RGBA{255, 255, 255, 255})
	g := ToGray(src)
	assert.Equal(t, uint8(255), g.GrayAt(1, 1).Y)
	assert.Equal(t, uint8(0), g.GrayAt(0, 0).Y)

	// Already-gray images pass through.
	same := ToGray(g)
	assert.Same(t, g, same)
}

func TestToRGBAAnchorsAtOrigin(t *testing.T) {
	src := image.NewGray(image.Rect(5, 5, 9, 8))
	out := ToRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 4, 3), out.Bounds())
}

func TestResizeExact(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 50))
	out, err := ResizeExact(src, 20, 10)
	require.NoError(t, err)
	assert.Equal(t, 20, out.Bounds().Dx())
	assert.Equal(t, 10, out.Bounds().Dy())

	_, err = ResizeExact(nil, 10, 10)
	assert.Error(t, err)
	_, err = ResizeExact(src, 0, 10)
	assert.Error(t, err)
}

func TestNormalizeImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.RGBA{255, 0, 0, 255})
	src.Set(1, 0, color.RGBA{0, 255, 0, 255})
	src.Set(0, 1, color.RGBA{0, 0, 255, 255})

	tensor, w, h, err := NormalizeImage(src)
	require.NoError(t, err)
	assert.Equal(t, 2, w)
	assert.Equal(t, 2, h)
	require.Len(t, tensor, 3*2*2)

	// NCHW layout: red plane first.
	assert.InDelta(t, 1.0, tensor[0], 0.01)       // R at (0,0)
	assert.InDelta(t, 1.0, tensor[4+1], 0.01)     // G at (1,0)
	assert.InDelta(t, 1.0, tensor[8+2], 0.01)     // B at (0,1)
	assert.InDelta(t, 0.0, tensor[3], 0.01)       // R at (1,1)

	_, _, _, err = NormalizeImage(nil)
	assert.Error(t, err)
}

func TestGrayFloat32RoundTrip(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 3, 2))
	g.Pix[0] = 10
	g.Pix[g.Stride+2] = 200

	data := GrayToFloat32(g)
	require.Len(t, data, 6)
	assert.InDelta(t, 10.0, data[0], 1e-6)
	assert.InDelta(t, 200.0, data[5], 1e-6)

	back := Float32ToGray(data, 3, 2)
	assert.Equal(t, g.Pix[0], back.Pix[0])
	assert.Equal(t, uint8(200), back.GrayAt(2, 1).Y)
}

func TestFloat32ToGrayClamps(t *testing.T) {
	out := Float32ToGray([]float32{-5, 300}, 2, 1)
	assert.Equal(t, uint8(0), out.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), out.GrayAt(1, 0).Y)
}
