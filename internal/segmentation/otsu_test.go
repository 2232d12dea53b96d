package segmentation

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOtsuThresholdBimodal(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range g.Pix {
		if i < 50 {
			g.Pix[i] = 40
		} else {
			g.Pix[i] = 200
		}
	}

	th := otsuThreshold(g)
	assert.GreaterOrEqual(t, th, uint8(40))
	assert.Less(t, th, uint8(200))
}

func TestOtsuThresholdUniform(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range g.Pix {
		g.Pix[i] = 128
	}
	// A flat histogram has no between-class separation to maximize;
	// the result just has to be a valid cut.
	th := otsuThreshold(g)
	assert.LessOrEqual(t, th, uint8(128))
}

func TestBinarizeInv(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 4, 1))
	g.Pix[0] = 10
	g.Pix[1] = 100
	g.Pix[2] = 101
	g.Pix[3] = 250

	out := binarizeInv(g, 100)
	assert.Equal(t, uint8(255), out.Pix[0])
	assert.Equal(t, uint8(255), out.Pix[1])
	assert.Equal(t, uint8(0), out.Pix[2])
	assert.Equal(t, uint8(0), out.Pix[3])
}
