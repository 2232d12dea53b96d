package utils

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genPoint generates a random point.
func genPoint() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(-100, 100),
		gen.Float64Range(-100, 100),
	).Map(func(vals []interface{}) Point {
		return Point{X: vals[0].(float64), Y: vals[1].(float64)}
	})
}

// genPolygon generates a random polygon of fixed size.
func genPolygon(size int) gopter.Gen {
	return gen.SliceOfN(size, genPoint())
}

// TestApproxPolyClosed_OutputNonIncreasing verifies output length <= input length.
func TestApproxPolyClosed_OutputNonIncreasing(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("approximated contour has <= input points", prop.ForAll(
		func(points []Point, epsilon float64) bool {
			if len(points) < 3 || epsilon <= 0 {
				return true
			}

			approx := ApproxPolyClosed(points, epsilon)
			return len(approx) <= len(points)
		},
		genPolygon(12),
		gen.Float64Range(0.1, 10.0),
	))

	properties.TestingRun(t)
}

// TestApproxPolyClosed_KeepsOriginalVertices verifies every output point is an
// input vertex; simplification only removes, never invents.
func TestApproxPolyClosed_KeepsOriginalVertices(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("output points come from the input", prop.ForAll(
		func(points []Point, epsilon float64) bool {
			if len(points) < 3 || epsilon <= 0 {
				return true
			}

			approx := ApproxPolyClosed(points, epsilon)
			for _, a := range approx {
				found := false
				for _, p := range points {
					if a == p {
						found = true
						break
					}
				}
				if !found {
					return false
				}
			}
			return true
		},
		genPolygon(12),
		gen.Float64Range(0.1, 10.0),
	))

	properties.TestingRun(t)
}

// TestMinimumAreaRectangle_FourCorners verifies the fallback rectangle is
// always a proper quad regardless of input shape.
func TestMinimumAreaRectangle_FourCorners(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("minimum-area rectangle has 4 corners", prop.ForAll(
		func(points []Point) bool {
			if len(points) < 3 {
				return true
			}

			rect := MinimumAreaRectangle(points)
			return len(rect) == 4
		},
		genPolygon(8),
	))

	properties.TestingRun(t)
}
