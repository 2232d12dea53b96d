package segmentation

import (
	"image"
)

// Mask is a single-channel foreground mask: 0 = background, 255 = foreground.
// It may be lower resolution than the image it was computed from; SourceWidth
// and SourceHeight record the dimensions of that image so corner coordinates
// can be scaled back later.
type Mask struct {
	Gray         *image.Gray
	SourceWidth  int
	SourceHeight int
}

// NewMask creates an all-background mask of the given size.
func NewMask(width, height int) *Mask {
	return &Mask{
		Gray:         image.NewGray(image.Rect(0, 0, width, height)),
		SourceWidth:  width,
		SourceHeight: height,
	}
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int { return m.Gray.Bounds().Dx() }

// Height returns the mask height in pixels.
func (m *Mask) Height() int { return m.Gray.Bounds().Dy() }

// IsForeground reports whether the pixel at (x, y) is foreground.
func (m *Mask) IsForeground(x, y int) bool {
	return m.Gray.GrayAt(x, y).Y >= 128
}

// SetForeground marks the pixel at (x, y) as foreground.
func (m *Mask) SetForeground(x, y int) {
	m.Gray.Pix[y*m.Gray.Stride+x] = 255
}

// ForegroundCount returns the number of foreground pixels.
func (m *Mask) ForegroundCount() int {
	count := 0
	b := m.Gray.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := m.Gray.Pix[y*m.Gray.Stride : y*m.Gray.Stride+b.Dx()]
		for _, v := range row {
			if v >= 128 {
				count++
			}
		}
	}
	return count
}

// ScaleToSource returns the per-axis factors that map mask coordinates into
// source-image coordinates.
func (m *Mask) ScaleToSource() (float64, float64) {
	sx := float64(m.SourceWidth) / float64(m.Width())
	sy := float64(m.SourceHeight) / float64(m.Height())
	return sx, sy
}
