package corners

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docwarp/docwarp/internal/segmentation"
	"github.com/docwarp/docwarp/internal/utils"
)

func TestTraceBoundaryRectangle(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 10, 10))
	for y := 2; y <= 4; y++ {
		for x := 2; x <= 4; x++ {
			g.Pix[y*g.Stride+x] = 255
		}
	}

	labels, stats := segmentation.LabelComponents(g)
	require.Len(t, stats, 1)

	contour := traceBoundary(labels, 10, 10, 1, stats[0])
	// Collinear edge midpoints collapse, leaving the four corners.
	require.Len(t, contour, 4)
	assert.Contains(t, contour, utils.Point{X: 2, Y: 2})
	assert.Contains(t, contour, utils.Point{X: 4, Y: 2})
	assert.Contains(t, contour, utils.Point{X: 4, Y: 4})
	assert.Contains(t, contour, utils.Point{X: 2, Y: 4})
}

func TestTraceBoundarySinglePixel(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 5, 5))
	g.Pix[2*g.Stride+2] = 255

	labels, stats := segmentation.LabelComponents(g)
	require.Len(t, stats, 1)

	contour := traceBoundary(labels, 5, 5, 1, stats[0])
	require.NotEmpty(t, contour)
	assert.Equal(t, utils.Point{X: 2, Y: 2}, contour[0])
}

func TestTraceBoundaryBadLabel(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 5, 5))
	labels, _ := segmentation.LabelComponents(g)

	assert.Nil(t, traceBoundary(labels, 5, 5, 0, segmentation.ComponentStats{}))
	assert.Nil(t, traceBoundary(labels, 5, 5, 3, segmentation.ComponentStats{MaxX: 4, MaxY: 4}))
}
