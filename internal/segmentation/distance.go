package segmentation

import "image"

// distanceTransform computes an approximate Euclidean distance from each
// foreground pixel to the nearest background pixel using a two-pass chamfer
// scan with 1 / sqrt(2) edge weights.
func distanceTransform(src *image.Gray) []float32 {
	const (
		orth float32 = 1.0
		diag float32 = 1.41421356
		inf  float32 = 1e9
	)

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dist := make([]float32, w*h)
	for y := range h {
		for x := range w {
			if src.Pix[y*src.Stride+x] >= 128 {
				dist[y*w+x] = inf
			}
		}
	}

	// Forward pass: top-left to bottom-right.
	for y := range h {
		for x := range w {
			i := y*w + x
			if dist[i] == 0 {
				continue
			}
			d := dist[i]
			if x > 0 && dist[i-1]+orth < d {
				d = dist[i-1] + orth
			}
			if y > 0 {
				if dist[i-w]+orth < d {
					d = dist[i-w] + orth
				}
				if x > 0 && dist[i-w-1]+diag < d {
					d = dist[i-w-1] + diag
				}
				if x < w-1 && dist[i-w+1]+diag < d {
					d = dist[i-w+1] + diag
				}
			}
			dist[i] = d
		}
	}

	// Backward pass: bottom-right to top-left.
	for y := h - 1; y >= 0; y-- {
		for x := w - 1; x >= 0; x-- {
			i := y*w + x
			if dist[i] == 0 {
				continue
			}
			d := dist[i]
			if x < w-1 && dist[i+1]+orth < d {
				d = dist[i+1] + orth
			}
			if y < h-1 {
				if dist[i+w]+orth < d {
					d = dist[i+w] + orth
				}
				if x < w-1 && dist[i+w+1]+diag < d {
					d = dist[i+w+1] + diag
				}
				if x > 0 && dist[i+w-1]+diag < d {
					d = dist[i+w-1] + diag
				}
			}
			dist[i] = d
		}
	}

	return dist
}
