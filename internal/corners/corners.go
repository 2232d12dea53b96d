// Package corners reduces a segmentation mask to the four ordered corner
// points of the largest foreground region.
package corners

import (
	"errors"
	"math"

	"github.com/docwarp/docwarp/internal/segmentation"
	"github.com/docwarp/docwarp/internal/utils"
)

// ErrNoContour reports a mask with no foreground region to outline.
var ErrNoContour = errors.New("no contour found in mask")

// approxEpsilons are the Douglas-Peucker tolerances tried in order, as
// fractions of the contour perimeter.
var approxEpsilons = [5]float64{0.01, 0.02, 0.03, 0.05, 0.10}

// Extractor finds document corners in binary masks. The zero value is ready
// to use; set DebugDir to dump the mask and traced contour per extraction.
type Extractor struct {
	DebugDir string
}

// ExtractCorners returns the four corners of the largest foreground region,
// ordered top-left, top-right, bottom-right, bottom-left in mask coordinates.
func (e *Extractor) ExtractCorners(mask *segmentation.Mask) ([4]utils.Point, error) {
	contour, err := largestContour(mask)
	if err != nil {
		return [4]utils.Point{}, err
	}

	if e.DebugDir != "" {
		saveContourDebug(e.DebugDir, mask, contour)
	}

	quad, ok := approximateQuad(contour)
	if !ok {
		rect := utils.MinimumAreaRectangle(contour)
		if len(rect) != 4 {
			return [4]utils.Point{}, ErrNoContour
		}
		copy(quad[:], rect)
	}

	return OrderPoints(quad), nil
}

// ExtractCorners finds and orders the corners of the largest foreground
// region using a default extractor.
func ExtractCorners(mask *segmentation.Mask) ([4]utils.Point, error) {
	var e Extractor
	return e.ExtractCorners(mask)
}

// largestContour traces the boundary of every foreground component and
// returns the one enclosing the largest area.
func largestContour(mask *segmentation.Mask) ([]utils.Point, error) {
	labels, stats := segmentation.LabelComponents(mask.Gray)
	if len(stats) == 0 {
		return nil, ErrNoContour
	}

	w, h := mask.Width(), mask.Height()
	var best []utils.Point
	bestArea := -1.0
	for i, st := range stats {
		contour := traceBoundary(labels, w, h, int32(i+1), st)
		if len(contour) < 3 {
			continue
		}
		area := math.Abs(utils.PolygonArea(contour))
		if area > bestArea {
			bestArea = area
			best = contour
		}
	}
	if best == nil {
		return nil, ErrNoContour
	}
	return best, nil
}

// approximateQuad simplifies the closed contour at increasing tolerances until
// exactly four vertices remain. A tolerance that drops below four vertices is
// already too coarse, so escalation stops there.
func approximateQuad(contour []utils.Point) ([4]utils.Point, bool) {
	perimeter := utils.ArcLength(contour, true)
	for _, factor := range approxEpsilons {
		approx := utils.ApproxPolyClosed(contour, factor*perimeter)
		if len(approx) == 4 {
			return [4]utils.Point{approx[0], approx[1], approx[2], approx[3]}, true
		}
		if len(approx) < 4 {
			break
		}
	}
	return [4]utils.Point{}, false
}
