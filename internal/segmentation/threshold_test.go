package segmentation

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// documentOnBackground renders a filled rectangle of docColor over a solid
// background, the canonical fixture for the segmentation strategies.
func documentOnBackground(w, h int, doc image.Rectangle, docColor, bgColor color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(bgColor), image.Point{}, draw.Src)
	draw.Draw(img, doc, image.NewUniform(docColor), image.Point{}, draw.Src)
	return img
}

func TestThresholdSegmentWhiteDocumentOnDarkBackground(t *testing.T) {
	doc := image.Rect(30, 30, 170, 120)
	img := documentOnBackground(200, 150, doc,
		color.RGBA{255, 255, 255, 255}, color.RGBA{40, 40, 40, 255})

	s := &ThresholdStrategy{}
	mask, err := s.Segment(img)
	require.NoError(t, err)
	require.Equal(t, 200, mask.Width())
	require.Equal(t, 150, mask.Height())

	docArea := doc.Dx() * doc.Dy()
	fg := mask.ForegroundCount()
	assert.InDelta(t, docArea, fg, 0.05*float64(docArea),
		"foreground count should track the document area")
}

func TestThresholdSegmentForegroundInsideDocument(t *testing.T) {
	doc := image.Rect(40, 40, 160, 110)
	img := documentOnBackground(200, 150, doc,
		color.RGBA{250, 250, 250, 255}, color.RGBA{30, 30, 30, 255})

	s := &ThresholdStrategy{}
	mask, err := s.Segment(img)
	require.NoError(t, err)

	assert.True(t, mask.IsForeground(100, 75))
	assert.False(t, mask.IsForeground(5, 5))
	assert.False(t, mask.IsForeground(195, 145))
}

func TestThresholdName(t *testing.T) {
	assert.Equal(t, StrategyThreshold, (&ThresholdStrategy{}).Name())
}
