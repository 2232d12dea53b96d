package segmentation

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blur"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/docwarp/docwarp/internal/utils"
)

const (
	claheClipLimit = 2.0
	claheTiles     = 8

	adaptiveBlockSize = 11
	adaptiveC         = 2
)

// ThresholdStrategy separates a bright document from a darker background via
// adaptive thresholding on the contrast-equalized Lab lightness channel.
// Deterministic and the fastest of the strategies.
type ThresholdStrategy struct{}

// Name returns the configured strategy name.
func (s *ThresholdStrategy) Name() string { return StrategyThreshold }

// Segment produces a foreground mask for the image.
func (s *ThresholdStrategy) Segment(img image.Image) (*Mask, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	lightness := labLightness(img)
	equalized := equalizeCLAHE(lightness, claheClipLimit, claheTiles, claheTiles)
	binary := adaptiveGaussianThreshold(equalized, adaptiveBlockSize, adaptiveC)

	// Adaptive thresholding alone marks uniform regions as foreground (every
	// pixel sits at its neighborhood mean), so gate with a global Otsu cut to
	// keep flat dark backgrounds out of the mask.
	gate := otsuThreshold(equalized)
	applyGate(binary, equalized, gate)

	cleaned := Open(Close(binary, 1), 1)

	return &Mask{Gray: cleaned, SourceWidth: w, SourceHeight: h}, nil
}

// labLightness extracts the CIE-Lab lightness channel scaled to 0..255.
func labLightness(img image.Image) *image.Gray {
	rgba := utils.ToRGBA(img)
	b := rgba.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			i := y*rgba.Stride + x*4
			c := colorful.Color{
				R: float64(rgba.Pix[i]) / 255.0,
				G: float64(rgba.Pix[i+1]) / 255.0,
				B: float64(rgba.Pix[i+2]) / 255.0,
			}
			l, _, _ := c.Lab()
			if l < 0 {
				l = 0
			}
			if l > 1 {
				l = 1
			}
			out.Pix[y*out.Stride+x] = uint8(l*255 + 0.5)
		}
	}
	return out
}

// applyGate clears mask pixels whose source value is at or below the
// global threshold.
func applyGate(mask, src *image.Gray, threshold uint8) {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	for y := range h {
		for x := range w {
			if src.Pix[y*src.Stride+x] <= threshold {
				mask.Pix[y*mask.Stride+x] = 0
			}
		}
	}
}

// adaptiveGaussianThreshold marks pixels brighter than their Gaussian-weighted
// neighborhood mean (minus constant c) as foreground.
func adaptiveGaussianThreshold(src *image.Gray, blockSize, c int) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	means := blur.Gaussian(src, float64(blockSize)/2)
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			mean := color.GrayModel.Convert(means.At(x, y)).(color.Gray).Y
			if int(src.Pix[y*src.Stride+x]) > int(mean)-c {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}
