package utils

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"
	"github.com/docwarp/docwarp/internal/mempool"
)

// ToGray converts any image to 8-bit grayscale.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x-b.Min.X, y-b.Min.Y, img.At(x, y))
		}
	}
	return out
}

// ToRGBA converts any image to RGBA with bounds anchored at the origin.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x-b.Min.X, y-b.Min.Y, img.At(x, y))
		}
	}
	return out
}

// ResizeExact resizes an image to exactly width x height using Lanczos
// resampling.
func ResizeExact(img image.Image, width, height int) (image.Image, error) {
	if img == nil {
		return nil, &ImageProcessingError{Operation: "resize", Err: errors.New("input image is nil")}
	}
	if width <= 0 || height <= 0 {
		return nil, &ImageProcessingError{Operation: "resize", Err: errors.New("invalid target dimensions")}
	}
	return imaging.Resize(img, width, height, imaging.Lanczos), nil
}

// NormalizeImage converts an image into an NCHW float32 tensor [1,3,H,W]
// with pixel values scaled to 0..1.
func NormalizeImage(img image.Image) ([]float32, int, int, error) {
	if img == nil {
		return nil, 0, 0, &ImageProcessingError{Operation: "normalize", Err: errors.New("input image is nil")}
	}

	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, 0, 0, &ImageProcessingError{Operation: "normalize", Err: errors.New("invalid image dimensions")}
	}

	// Tensor buffers are pooled; the caller releases them with
	// mempool.PutFloat32 once inference is done.
	tensor := mempool.GetFloat32(3 * height * width)
	for y := range height {
		for x := range width {
			r, g, b, _ := nrgba.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			idx := y*width + x
			tensor[idx] = float32(r>>8) / 255.0
			tensor[height*width+idx] = float32(g>>8) / 255.0
			tensor[2*height*width+idx] = float32(b>>8) / 255.0
		}
	}
	return tensor, width, height, nil
}

// GrayToFloat32 flattens a grayscale image into a float32 slice in row-major
// order with values 0..255.
func GrayToFloat32(g *image.Gray) []float32 {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]float32, w*h)
	for y := range h {
		for x := range w {
			out[y*w+x] = float32(g.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
		}
	}
	return out
}

// Float32ToGray converts a row-major float32 slice back into a grayscale
// image, clamping values to 0..255.
func Float32ToGray(data []float32, width, height int) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			v := data[y*width+x]
			if v < 0 {
				v = 0
			}
			if v > 255 {
				v = 255
			}
			out.Pix[y*out.Stride+x] = uint8(v)
		}
	}
	return out
}
