package testutil

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/docwarp/docwarp/internal/utils"
	"github.com/stretchr/testify/require"
)

// DocumentImageConfig describes a synthetic document photo.
type DocumentImageConfig struct {
	Width      int
	Height     int
	Background color.Color
	Paper      color.Color
	// Corners of the document quad in TL, TR, BR, BL order. When nil, an
	// axis-aligned document covering the central area is used.
	Corners []utils.Point
	// Rotation in degrees applied to the finished photo.
	Rotation float64
}

// DefaultDocumentImageConfig returns a dark-background photo with a bright
// centered document, the common case for segmentation tests.
func DefaultDocumentImageConfig() DocumentImageConfig {
	return DocumentImageConfig{
		Width:      400,
		Height:     300,
		Background: color.RGBA{40, 42, 48, 255},
		Paper:      color.RGBA{248, 246, 240, 255},
	}
}

// GenerateDocumentImage renders a synthetic document photo: a filled quad of
// paper color over a uniform background.
func GenerateDocumentImage(config DocumentImageConfig) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, config.Width, config.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(config.Background), image.Point{}, draw.Src)

	corners := config.Corners
	if corners == nil {
		mx := float64(config.Width) * 0.15
		my := float64(config.Height) * 0.15
		corners = []utils.Point{
			{X: mx, Y: my},
			{X: float64(config.Width) - mx, Y: my},
			{X: float64(config.Width) - mx, Y: float64(config.Height) - my},
			{X: mx, Y: float64(config.Height) - my},
		}
	}

	fillQuad(img, corners, config.Paper)

	if config.Rotation != 0 {
		rotated := imaging.Rotate(img, config.Rotation, config.Background)
		out := image.NewRGBA(rotated.Bounds())
		draw.Draw(out, out.Bounds(), rotated, rotated.Bounds().Min, draw.Src)
		return out
	}
	return img
}

// fillQuad fills a convex quad using even-odd scanline tests.
func fillQuad(img *image.RGBA, quad []utils.Point, col color.Color) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if pointInPolygon(float64(x)+0.5, float64(y)+0.5, quad) {
				img.Set(x, y, col)
			}
		}
	}
}

func pointInPolygon(x, y float64, poly []utils.Point) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if (pi.Y > y) != (pj.Y > y) &&
			x < (pj.X-pi.X)*(y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
	}
	return inside
}

// SaveImage writes an image as PNG, creating parent directories as needed.
func SaveImage(t *testing.T, img image.Image, path string) {
	t.Helper()

	require.NoError(t, EnsureDir(filepath.Dir(path)))
	require.NoError(t, utils.SavePNG(path, img))
}

// LoadImage reads an image file for testing.
func LoadImage(t *testing.T, path string) image.Image {
	t.Helper()

	data, err := os.ReadFile(path) //nolint:gosec // G304: test paths are controlled
	require.NoError(t, err, "Failed to read image file: %s", path)

	img, _, err := utils.DecodeImage(data)
	require.NoError(t, err, "Failed to decode image: %s", path)
	return img
}

// CompareImages reports whether two images match within a mean per-channel
// tolerance (0..1).
func CompareImages(img1, img2 image.Image, tolerance float64) bool {
	b1, b2 := img1.Bounds(), img2.Bounds()
	if b1.Dx() != b2.Dx() || b1.Dy() != b2.Dy() {
		return false
	}

	var total float64
	for y := 0; y < b1.Dy(); y++ {
		for x := 0; x < b1.Dx(); x++ {
			r1, g1, b1v, _ := img1.At(b1.Min.X+x, b1.Min.Y+y).RGBA()
			r2, g2, b2v, _ := img2.At(b2.Min.X+x, b2.Min.Y+y).RGBA()
			total += math.Abs(float64(r1)-float64(r2)) / 65535.0
			total += math.Abs(float64(g1)-float64(g2)) / 65535.0
			total += math.Abs(float64(b1v)-float64(b2v)) / 65535.0
		}
	}

	mean := total / float64(b1.Dx()*b1.Dy()*3)
	return mean <= tolerance
}
