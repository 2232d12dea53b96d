package rectify

import (
	"math"

	"github.com/docwarp/docwarp/internal/utils"
)

// computeHomography returns the 3x3 projective transform H mapping p[i] to
// q[i], flattened row-major with h22 fixed at 1. Reports false when the
// correspondence is degenerate (three or more collinear points).
func computeHomography(p, q [4]utils.Point) ([9]float64, bool) {
	// Two rows per correspondence for the 8 unknowns h00..h21:
	//   x' = (h00 X + h01 Y + h02) / (h20 X + h21 Y + 1)
	//   y' = (h10 X + h11 Y + h12) / (h20 X + h21 Y + 1)
	var a [8][9]float64
	for i := range 4 {
		sx, sy := p[i].X, p[i].Y
		dx, dy := q[i].X, q[i].Y
		a[2*i] = [9]float64{sx, sy, 1, 0, 0, 0, -sx * dx, -sy * dx, dx}
		a[2*i+1] = [9]float64{0, 0, 0, sx, sy, 1, -sx * dy, -sy * dy, dy}
	}

	h, ok := solveAugmented(&a)
	if !ok {
		return [9]float64{}, false
	}
	return [9]float64{h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7], 1}, true
}

// solveAugmented solves the 8x8 system held in the augmented matrix using
// Gauss-Jordan elimination with partial pivoting.
func solveAugmented(a *[8][9]float64) ([8]float64, bool) {
	for col := range 8 {
		pivot := col
		for r := col + 1; r < 8; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return [8]float64{}, false
		}
		a[col], a[pivot] = a[pivot], a[col]

		div := a[col][col]
		for c := col; c < 9; c++ {
			a[col][c] /= div
		}
		for r := range 8 {
			if r == col || a[r][col] == 0 {
				continue
			}
			factor := a[r][col]
			for c := col; c < 9; c++ {
				a[r][c] -= factor * a[col][c]
			}
		}
	}

	var x [8]float64
	for i := range 8 {
		x[i] = a[i][8]
	}
	return x, true
}

// applyHomography maps (x, y) through H, returning far-out-of-range
// coordinates when the point lies on the line mapped to infinity.
func applyHomography(h [9]float64, x, y float64) (float64, float64) {
	denom := h[6]*x + h[7]*y + h[8]
	if denom == 0 {
		return -1e9, -1e9
	}
	return (h[0]*x + h[1]*y + h[2]) / denom, (h[3]*x + h[4]*y + h[5]) / denom
}
