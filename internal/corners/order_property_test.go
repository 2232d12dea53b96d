package corners

import (
	"math"
	"testing"

	"github.com/docwarp/docwarp/internal/utils"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genQuad generates four random points.
func genQuad() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(0, 100), gen.Float64Range(0, 100),
		gen.Float64Range(0, 100), gen.Float64Range(0, 100),
		gen.Float64Range(0, 100), gen.Float64Range(0, 100),
		gen.Float64Range(0, 100), gen.Float64Range(0, 100),
	).Map(func(vals []interface{}) [4]utils.Point {
		return [4]utils.Point{
			{X: vals[0].(float64), Y: vals[1].(float64)},
			{X: vals[2].(float64), Y: vals[3].(float64)},
			{X: vals[4].(float64), Y: vals[5].(float64)},
			{X: vals[6].(float64), Y: vals[7].(float64)},
		}
	})
}

// rotatedRect carries a tilted rectangle with its known corner labels.
type rotatedRect struct {
	tl, tr, br, bl utils.Point
}

// genRotatedRect generates rectangles tilted between 5 and 30 degrees in
// either direction, steep enough to avoid x ties and shallow enough that the
// left edge stays leftmost.
func genRotatedRect() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(40, 60),  // center x
		gen.Float64Range(40, 60),  // center y
		gen.Float64Range(20, 35),  // half width
		gen.Float64Range(10, 18),  // half height
		gen.Float64Range(5, 30),   // tilt in degrees
		gen.Bool(),                // tilt direction
	).Map(func(vals []interface{}) rotatedRect {
		cx, cy := vals[0].(float64), vals[1].(float64)
		hw, hh := vals[2].(float64), vals[3].(float64)
		theta := vals[4].(float64) * math.Pi / 180
		if vals[5].(bool) {
			theta = -theta
		}
		sin, cos := math.Sin(theta), math.Cos(theta)
		rot := func(x, y float64) utils.Point {
			return utils.Point{X: cx + x*cos - y*sin, Y: cy + x*sin + y*cos}
		}
		return rotatedRect{
			tl: rot(-hw, -hh),
			tr: rot(hw, -hh),
			br: rot(hw, hh),
			bl: rot(-hw, hh),
		}
	})
}

// TestOrderPoints_InputOrderInvariance verifies the ordering depends only on
// the point set, not on the order the points arrive in.
func TestOrderPoints_InputOrderInvariance(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("ordering ignores input order", prop.ForAll(
		func(pts [4]utils.Point, shift int) bool {
			base := OrderPoints(pts)
			rotated := [4]utils.Point{
				pts[shift%4], pts[(shift+1)%4], pts[(shift+2)%4], pts[(shift+3)%4],
			}
			return OrderPoints(rotated) == base
		},
		genQuad(),
		gen.IntRange(0, 3),
	))

	properties.TestingRun(t)
}

// TestOrderPoints_RotatedRectangles verifies the labeling on tilted
// rectangles for both tilt directions.
func TestOrderPoints_RotatedRectangles(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("tilted rectangle corners are labeled correctly", prop.ForAll(
		func(r rotatedRect) bool {
			scrambled := [4]utils.Point{r.br, r.tl, r.bl, r.tr}
			got := OrderPoints(scrambled)
			return got[0] == r.tl && got[1] == r.tr && got[2] == r.br && got[3] == r.bl
		},
		genRotatedRect(),
	))

	properties.TestingRun(t)
}
