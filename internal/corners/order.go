package corners

import (
	"math"
	"sort"

	"github.com/docwarp/docwarp/internal/utils"
)

// OrderPoints arranges four corner points as top-left, top-right,
// bottom-right, bottom-left. The assignment follows the sign of the angle of
// the edge between the two leftmost points, negated because image y grows
// downward, which keeps the ordering stable for rotated quadrilaterals. When
// the two leftmost points tie on x the quad is axis-aligned and the angle is
// meaningless, so the pairs split directly by y.
func OrderPoints(pts [4]utils.Point) [4]utils.Point {
	byX := pts
	sort.SliceStable(byX[:], func(i, j int) bool {
		if byX[i].X != byX[j].X {
			return byX[i].X < byX[j].X
		}
		return byX[i].Y < byX[j].Y
	})

	if byX[0].X == byX[1].X {
		tl, bl := byX[0], byX[1]
		tr, br := byX[2], byX[3]
		if tr.Y > br.Y {
			tr, br = br, tr
		}
		return [4]utils.Point{tl, tr, br, bl}
	}

	byY := pts
	sort.SliceStable(byY[:], func(i, j int) bool {
		if byY[i].Y != byY[j].Y {
			return byY[i].Y < byY[j].Y
		}
		return byY[i].X < byY[j].X
	})

	dx := byX[1].X - byX[0].X
	dy := byX[1].Y - byX[0].Y
	angle := -math.Atan2(dy, dx)

	var tl, tr, br, bl utils.Point
	if angle >= 0 {
		bl = byX[0]
		tr = byX[3]
		tl = byY[0]
		br = remainingPoint(pts, bl, tr, tl)
	} else {
		bl = byY[3]
		tr = byY[0]
		tl = byX[0]
		br = remainingPoint(pts, bl, tr, tl)
	}

	return [4]utils.Point{tl, tr, br, bl}
}

// remainingPoint returns the first input point not already assigned a corner.
func remainingPoint(pts [4]utils.Point, used ...utils.Point) utils.Point {
	for _, p := range pts {
		taken := false
		for i := range used {
			if p == used[i] {
				taken = true
				break
			}
		}
		if !taken {
			return p
		}
	}
	return pts[3]
}
