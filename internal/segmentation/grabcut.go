package segmentation

import (
	"fmt"
	"image"
	"math"

	"github.com/docwarp/docwarp/internal/utils"
)

const gmmComponents = 5

// GrabCutStrategy assumes the document lies inside a centered rectangle and
// iteratively refines foreground/background color models to classify the
// pixels inside it. Slowest strategy, best quality on cluttered backgrounds.
type GrabCutStrategy struct {
	MarginRatio float64
	Iterations  int
}

// Name returns the configured strategy name.
func (s *GrabCutStrategy) Name() string { return StrategyGrabCut }

// InitRect returns the initialization rectangle for an image of the given
// size: each side inset by MarginRatio of the corresponding dimension.
func (s *GrabCutStrategy) InitRect(width, height int) image.Rectangle {
	ratio := s.MarginRatio
	if ratio <= 0 || ratio >= 0.5 {
		ratio = 0.1
	}
	marginX := int(float64(width) * ratio)
	marginY := int(float64(height) * ratio)
	return image.Rect(marginX, marginY, width-marginX, height-marginY)
}

// Segment produces a foreground mask for the image.
func (s *GrabCutStrategy) Segment(img image.Image) (*Mask, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	rect := s.InitRect(w, h)
	if rect.Empty() {
		return nil, fmt.Errorf("%w: grabcut: image %dx%d too small for margin", ErrSegmentation, w, h)
	}

	rgba := utils.ToRGBA(img)
	fg := make([]bool, w*h)
	inside := make([]bool, w*h)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			fg[y*w+x] = true
			inside[y*w+x] = true
		}
	}

	iterations := s.Iterations
	if iterations < 3 {
		iterations = 3
	}
	if iterations > 5 {
		iterations = 5
	}

	for range iterations {
		fgGMM := fitGMM(rgba, fg, true)
		bgGMM := fitGMM(rgba, fg, false)
		if fgGMM == nil || bgGMM == nil {
			break
		}

		// Reassign pixels inside the rectangle by model likelihood. Pixels
		// outside stay definite background.
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			for x := rect.Min.X; x < rect.Max.X; x++ {
				i := y*w + x
				r, g, bb := pixelRGB(rgba, x, y)
				fg[i] = fgGMM.logLikelihood(r, g, bb) > bgGMM.logLikelihood(r, g, bb)
			}
		}

		smoothLabels(fg, inside, w, h)
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	for i, v := range fg {
		if v {
			out.Pix[(i/w)*out.Stride+i%w] = 255
		}
	}

	return &Mask{Gray: out, SourceWidth: w, SourceHeight: h}, nil
}

// smoothLabels flips labels that disagree with most of their 3x3
// neighborhood, an inexpensive stand-in for the graph-cut smoothness term.
func smoothLabels(fg, inside []bool, w, h int) {
	orig := make([]bool, len(fg))
	copy(orig, fg)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			if !inside[i] {
				continue
			}
			votes := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if orig[(y+dy)*w+x+dx] {
						votes++
					}
				}
			}
			if votes >= 6 {
				fg[i] = true
			} else if votes <= 3 {
				fg[i] = false
			}
		}
	}
}

func pixelRGB(rgba *image.RGBA, x, y int) (float64, float64, float64) {
	i := y*rgba.Stride + x*4
	return float64(rgba.Pix[i]), float64(rgba.Pix[i+1]), float64(rgba.Pix[i+2])
}

// gmm is a diagonal-covariance Gaussian mixture over RGB.
type gmm struct {
	weight [gmmComponents]float64
	mean   [gmmComponents][3]float64
	vari   [gmmComponents][3]float64
}

// fitGMM fits a mixture to the pixels whose label matches wantFg, using
// k-means style assignment. Sampling keeps the cost bounded on large images.
func fitGMM(rgba *image.RGBA, fg []bool, wantFg bool) *gmm {
	b := rgba.Bounds()
	w, h := b.Dx(), b.Dy()

	stride := (w*h)/20000 + 1
	var samples [][3]float64
	for i := 0; i < w*h; i += stride {
		if fg[i] != wantFg {
			continue
		}
		r, g, bb := pixelRGB(rgba, i%w, i/w)
		samples = append(samples, [3]float64{r, g, bb})
	}
	if len(samples) < gmmComponents {
		return nil
	}

	// Initialize component means spread across the sample list.
	m := &gmm{}
	for k := range gmmComponents {
		m.mean[k] = samples[k*len(samples)/gmmComponents]
	}

	assign := make([]int, len(samples))
	for range 8 {
		// Assignment step.
		for i, s := range samples {
			best := 0
			bestDist := math.Inf(1)
			for k := range gmmComponents {
				d := sqDist3(s, m.mean[k])
				if d < bestDist {
					bestDist = d
					best = k
				}
			}
			assign[i] = best
		}

		// Update step.
		var count [gmmComponents]int
		var sum [gmmComponents][3]float64
		for i, s := range samples {
			k := assign[i]
			count[k]++
			for c := range 3 {
				sum[k][c] += s[c]
			}
		}
		for k := range gmmComponents {
			if count[k] == 0 {
				continue
			}
			for c := range 3 {
				m.mean[k][c] = sum[k][c] / float64(count[k])
			}
		}
	}

	// Weights and variances from the final assignment.
	var count [gmmComponents]int
	var varSum [gmmComponents][3]float64
	for i, s := range samples {
		k := assign[i]
		count[k]++
		for c := range 3 {
			d := s[c] - m.mean[k][c]
			varSum[k][c] += d * d
		}
	}
	for k := range gmmComponents {
		m.weight[k] = float64(count[k]) / float64(len(samples))
		for c := range 3 {
			v := 25.0 // variance floor keeps the density finite
			if count[k] > 1 {
				v = math.Max(varSum[k][c]/float64(count[k]), 25.0)
			}
			m.vari[k][c] = v
		}
	}

	return m
}

// logLikelihood returns the log density of the best-matching weighted
// component for an RGB value.
func (m *gmm) logLikelihood(r, g, b float64) float64 {
	best := math.Inf(-1)
	for k := range gmmComponents {
		if m.weight[k] == 0 {
			continue
		}
		ll := math.Log(m.weight[k])
		for c, v := range [3]float64{r, g, b} {
			d := v - m.mean[k][c]
			ll -= 0.5*math.Log(2*math.Pi*m.vari[k][c]) + d*d/(2*m.vari[k][c])
		}
		if ll > best {
			best = ll
		}
	}
	return best
}

func sqDist3(a, b [3]float64) float64 {
	d0 := a[0] - b[0]
	d1 := a[1] - b[1]
	d2 := a[2] - b[2]
	return d0*d0 + d1*d1 + d2*d2
}
