package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rectContour builds a dense closed contour along the rectangle outline.
func rectContour(x0, y0, x1, y1 float64) []Point {
	var pts []Point
	for x := x0; x < x1; x++ {
		pts = append(pts, Point{x, y0})
	}
	for y := y0; y < y1; y++ {
		pts = append(pts, Point{x1, y})
	}
	for x := x1; x > x0; x-- {
		pts = append(pts, Point{x, y1})
	}
	for y := y1; y > y0; y-- {
		pts = append(pts, Point{x0, y})
	}
	return pts
}

func TestSimplifyPolygonKeepsCorners(t *testing.T) {
	line := []Point{{0, 0}, {1, 0.01}, {2, 0}, {3, -0.01}, {4, 0}}
	out := SimplifyPolygon(line, 0.1)
	assert.Equal(t, []Point{{0, 0}, {4, 0}}, out)

	bend := []Point{{0, 0}, {5, 0.01}, {10, 0}, {10, 5}, {10, 10}}
	out = SimplifyPolygon(bend, 0.5)
	assert.Contains(t, out, Point{10, 0})
}

func TestApproxPolyClosedRectangle(t *testing.T) {
	contour := rectContour(10, 10, 110, 60)
	peri := ArcLength(contour, true)
	out := ApproxPolyClosed(contour, 0.02*peri)
	require.Len(t, out, 4)

	box := BoundingBox(out)
	assert.InDelta(t, 10.0, box.MinX, 1.5)
	assert.InDelta(t, 10.0, box.MinY, 1.5)
	assert.InDelta(t, 110.0, box.MaxX, 1.5)
	assert.InDelta(t, 60.0, box.MaxY, 1.5)
}

func TestApproxPolyClosedStartInvariant(t *testing.T) {
	contour := rectContour(0, 0, 50, 30)
	peri := ArcLength(contour, true)
	base := ApproxPolyClosed(contour, 0.02*peri)
	require.Len(t, base, 4)

	// Rotating the start of the trace must not change the vertex count.
	for _, shift := range []int{7, 42, len(contour) / 2} {
		rotated := append(append([]Point(nil), contour[shift:]...), contour[:shift]...)
		out := ApproxPolyClosed(rotated, 0.02*peri)
		assert.Len(t, out, 4, "shift %d", shift)
	}
}

func TestApproxPolyClosedSmallInput(t *testing.T) {
	tri := []Point{{0, 0}, {10, 0}, {5, 8}}
	out := ApproxPolyClosed(tri, 1.0)
	assert.Equal(t, tri, out)
}

func TestConvexHullSquare(t *testing.T) {
	pts := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {5, 5}, {2, 3}}
	hull := ConvexHull(pts)
	require.Len(t, hull, 4)
	assert.InDelta(t, 100.0, PolygonArea(hull), 1e-9)
}

func TestConvexHullDegenerate(t *testing.T) {
	assert.Empty(t, ConvexHull(nil))
	one := ConvexHull([]Point{{1, 2}})
	assert.Equal(t, []Point{{1, 2}}, one)
}

func TestMinimumAreaRectangleAxisAligned(t *testing.T) {
	pts := []Point{{0, 0}, {20, 0}, {20, 10}, {0, 10}}
	rect := MinimumAreaRectangle(pts)
	require.Len(t, rect, 4)
	assert.InDelta(t, 200.0, PolygonArea(rect), 1e-6)
}

func TestMinimumAreaRectangleRotated(t *testing.T) {
	// 45-degree rotated unit square scaled by 10
	s := 10 * math.Sqrt2 / 2
	pts := []Point{{0, -s}, {s, 0}, {0, s}, {-s, 0}}
	rect := MinimumAreaRectangle(pts)
	require.Len(t, rect, 4)
	assert.InDelta(t, 100.0, PolygonArea(rect), 1e-6)
}

func TestMinimumAreaRectangleDegenerate(t *testing.T) {
	assert.Nil(t, MinimumAreaRectangle(nil))
	single := MinimumAreaRectangle([]Point{{3, 3}})
	require.Len(t, single, 4)
	two := MinimumAreaRectangle([]Point{{0, 0}, {5, 0}})
	require.Len(t, two, 4)
}
