package segmentation

import "image"

// ellipse3 is the 3x3 elliptical structuring element: the center pixel and
// its 4-neighborhood.
var ellipse3 = [][2]int{{0, 0}, {0, -1}, {-1, 0}, {1, 0}, {0, 1}}

// Dilate expands foreground regions with the 3x3 elliptical kernel.
func Dilate(src *image.Gray, iterations int) *image.Gray {
	return applyMorph(src, iterations, dilatePass)
}

// Erode shrinks foreground regions with the 3x3 elliptical kernel.
func Erode(src *image.Gray, iterations int) *image.Gray {
	return applyMorph(src, iterations, erodePass)
}

// Open erodes then dilates, removing small foreground noise.
func Open(src *image.Gray, iterations int) *image.Gray {
	out := src
	for range max(iterations, 1) {
		out = dilatePass(erodePass(out))
	}
	return out
}

// Close dilates then erodes, filling small holes in the foreground.
func Close(src *image.Gray, iterations int) *image.Gray {
	out := src
	for range max(iterations, 1) {
		out = erodePass(dilatePass(out))
	}
	return out
}

func applyMorph(src *image.Gray, iterations int, pass func(*image.Gray) *image.Gray) *image.Gray {
	out := src
	for range max(iterations, 1) {
		out = pass(out)
	}
	return out
}

func dilatePass(src *image.Gray) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			var maxVal uint8
			for _, off := range ellipse3 {
				nx, ny := x+off[0], y+off[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				if v := src.Pix[ny*src.Stride+nx]; v > maxVal {
					maxVal = v
				}
			}
			out.Pix[y*out.Stride+x] = maxVal
		}
	}
	return out
}

func erodePass(src *image.Gray) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			minVal := uint8(255)
			for _, off := range ellipse3 {
				nx, ny := x+off[0], y+off[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				if v := src.Pix[ny*src.Stride+nx]; v < minVal {
					minVal = v
				}
			}
			out.Pix[y*out.Stride+x] = minVal
		}
	}
	return out
}
