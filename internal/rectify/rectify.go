// Package rectify warps a quadrilateral document region into an axis-aligned
// rectangle with configurable border padding.
package rectify

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/docwarp/docwarp/internal/utils"
)

// ErrDegenerateGeometry reports corner sets that cannot define a valid
// perspective transform, such as collinear or coincident corners.
var ErrDegenerateGeometry = errors.New("degenerate corner geometry")

// Rectify maps the region bounded by corners, ordered top-left, top-right,
// bottom-right, bottom-left in img's coordinate space, onto a flat rectangle.
// The output dimensions derive from the averaged opposite edge lengths, which
// compensates for perspective foreshortening, plus paddingRatio of each
// dimension as border on every side.
func Rectify(img image.Image, corners [4]utils.Point, paddingRatio float64) (image.Image, error) {
	if hasCollinearTriple(corners) {
		return nil, fmt.Errorf("%w: collinear corners", ErrDegenerateGeometry)
	}

	top := utils.Distance(corners[0], corners[1])
	right := utils.Distance(corners[1], corners[2])
	bottom := utils.Distance(corners[2], corners[3])
	left := utils.Distance(corners[3], corners[0])

	w := int((top + bottom) / 2)
	h := int((left + right) / 2)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: target size %dx%d", ErrDegenerateGeometry, w, h)
	}

	if paddingRatio < 0 {
		paddingRatio = 0
	}
	padX := int(float64(w) * paddingRatio)
	padY := int(float64(h) * paddingRatio)

	dst := [4]utils.Point{
		{X: float64(padX), Y: float64(padY)},
		{X: float64(padX + w - 1), Y: float64(padY)},
		{X: float64(padX + w - 1), Y: float64(padY + h - 1)},
		{X: float64(padX), Y: float64(padY + h - 1)},
	}

	hmg, ok := computeHomography(dst, corners)
	if !ok {
		return nil, fmt.Errorf("%w: singular homography", ErrDegenerateGeometry)
	}

	return warpPerspective(img, hmg, w+2*padX, h+2*padY), nil
}

// hasCollinearTriple reports whether any three corners lie on one line. The
// homography system can stay solvable with a single collinear triple, so this
// is checked up front; the four cyclic triples cover every combination.
func hasCollinearTriple(c [4]utils.Point) bool {
	for i := range 4 {
		a, b, p := c[i], c[(i+1)%4], c[(i+2)%4]
		cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
		if math.Abs(cross) < 1e-6 {
			return true
		}
	}
	return false
}
