package segmentation

import "image"

// otsuThreshold computes the Otsu threshold of a grayscale image from its
// 256-bin histogram by maximizing between-class variance.
func otsuThreshold(src *image.Gray) uint8 {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	totalPixels := w * h
	if totalPixels == 0 {
		return 0
	}

	var histogram [256]int
	for y := range h {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		for _, v := range row {
			histogram[v]++
		}
	}

	var totalMean float64
	for i, c := range histogram {
		totalMean += float64(i) * float64(c)
	}
	totalMean /= float64(totalPixels)

	var maxVariance float64
	bestThreshold := 0
	var sumB float64
	wB := 0

	for t, c := range histogram {
		wB += c
		if wB == 0 {
			continue
		}
		wF := totalPixels - wB
		if wF == 0 {
			break
		}

		sumB += float64(t) * float64(c)
		meanB := sumB / float64(wB)
		meanF := (totalMean*float64(totalPixels) - sumB) / float64(wF)

		// Between-class variance
		variance := float64(wB) * float64(wF) * (meanB - meanF) * (meanB - meanF)
		if variance > maxVariance {
			maxVariance = variance
			bestThreshold = t
		}
	}

	return uint8(bestThreshold)
}

// binarizeInv thresholds a grayscale image, marking pixels at or below the
// threshold as foreground.
func binarizeInv(src *image.Gray, threshold uint8) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			if src.Pix[y*src.Stride+x] <= threshold {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}
