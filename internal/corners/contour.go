package corners

import (
	"github.com/docwarp/docwarp/internal/segmentation"
	"github.com/docwarp/docwarp/internal/utils"
)

// 8-neighborhood in clockwise order: E, SE, S, SW, W, NW, N, NE.
var (
	mooreDx = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	mooreDy = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
)

// traceBoundary walks the external boundary of the labeled component using
// Moore-neighbor tracing, restricted to the component's bounding box for the
// start search. Collinear run midpoints are dropped as they are visited, so a
// clean rectangle comes back as a handful of points. Points are pixel centers.
func traceBoundary(labels []int32, w, h int, label int32, st segmentation.ComponentStats) []utils.Point {
	if label <= 0 || len(labels) != w*h {
		return nil
	}

	sx, sy := findBoundaryStart(labels, w, h, label, st)
	if sx < 0 {
		return nil
	}

	pts := make([]utils.Point, 0, 64)
	appendPoint := func(x, y int) {
		p := utils.Point{X: float64(x), Y: float64(y)}
		if n := len(pts); n >= 2 {
			a, b := pts[n-2], pts[n-1]
			if (b.X-a.X)*(p.Y-b.Y)-(b.Y-a.Y)*(p.X-b.X) == 0 {
				pts = pts[:n-1]
			}
		}
		pts = append(pts, p)
	}

	cx, cy := sx, sy
	bx, by := sx-1, sy // backtrack starts left of the first pixel
	startCx, startCy := cx, cy
	startBx, startBy := bx, by
	appendPoint(cx, cy)

	// Jacob's stopping criterion: terminate when the start pixel is re-entered
	// from the same backtrack direction.
	maxSteps := 4*w*h + 8
	for range maxSteps {
		nx, ny, nbx, nby, ok := nextBoundaryPixel(labels, w, h, label, cx, cy, bx, by)
		if !ok {
			break
		}
		cx, cy = nx, ny
		bx, by = nbx, nby

		if last := pts[len(pts)-1]; last.X != float64(cx) || last.Y != float64(cy) {
			appendPoint(cx, cy)
		}
		if cx == startCx && cy == startCy && bx == startBx && by == startBy {
			break
		}
	}

	// Drop a duplicated closing point.
	if n := len(pts); n >= 2 && pts[0] == pts[n-1] {
		pts = pts[:n-1]
	}
	return pts
}

// findBoundaryStart scans the bounding box for the first pixel of the label
// with at least one 4-connected non-label neighbor.
func findBoundaryStart(labels []int32, w, h int, label int32, st segmentation.ComponentStats) (int, int) {
	for y := st.MinY; y <= st.MaxY; y++ {
		for x := st.MinX; x <= st.MaxX; x++ {
			if !hasLabel(labels, w, h, label, x, y) {
				continue
			}
			if !hasLabel(labels, w, h, label, x+1, y) ||
				!hasLabel(labels, w, h, label, x-1, y) ||
				!hasLabel(labels, w, h, label, x, y+1) ||
				!hasLabel(labels, w, h, label, x, y-1) {
				return x, y
			}
		}
	}
	return -1, -1
}

func hasLabel(labels []int32, w, h int, label int32, x, y int) bool {
	if x < 0 || y < 0 || x >= w || y >= h {
		return false
	}
	return labels[y*w+x] == label
}

// nextBoundaryPixel scans the Moore neighborhood of (cx,cy) clockwise starting
// just past the backtrack direction and returns the first label pixel, with
// the neighbor scanned immediately before it as the new backtrack.
func nextBoundaryPixel(labels []int32, w, h int, label int32, cx, cy, bx, by int) (int, int, int, int, bool) {
	start := 0
	for i := range 8 {
		if mooreDx[i] == bx-cx && mooreDy[i] == by-cy {
			start = (i + 1) % 8
			break
		}
	}

	pbx, pby := bx, by
	for k := range 8 {
		i := (start + k) % 8
		tx, ty := cx+mooreDx[i], cy+mooreDy[i]
		if hasLabel(labels, w, h, label, tx, ty) {
			return tx, ty, pbx, pby, true
		}
		pbx, pby = tx, ty
	}
	return 0, 0, bx, by, false
}
