package segmentation

import (
	"container/heap"
	"image"

	"github.com/docwarp/docwarp/internal/utils"
)

const distanceFgRatio = 0.5

// WatershedStrategy separates foreground from background by flooding the
// grayscale relief from confident seed regions. More robust to uneven
// backgrounds than plain thresholding.
type WatershedStrategy struct{}

// Name returns the configured strategy name.
func (s *WatershedStrategy) Name() string { return StrategyWatershed }

// Segment produces a foreground mask for the image.
func (s *WatershedStrategy) Segment(img image.Image) (*Mask, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	gray := utils.ToGray(img)
	binary := binarizeInv(gray, otsuThreshold(gray))
	opened := Open(binary, 2)

	sureBg := Dilate(opened, 2)

	dist := distanceTransform(opened)
	var maxDist float32
	for _, d := range dist {
		if d > maxDist {
			maxDist = d
		}
	}

	sureFg := image.NewGray(image.Rect(0, 0, w, h))
	cutoff := distanceFgRatio * maxDist
	for y := range h {
		for x := range w {
			if dist[y*w+x] > cutoff {
				sureFg.Pix[y*sureFg.Stride+x] = 255
			}
		}
	}

	// Seed markers: background = 1, foreground components from 2 upward,
	// the unknown band (sure background minus sure foreground) stays 0.
	fgLabels, fgStats := LabelComponents(sureFg)
	if len(fgStats) == 0 {
		// Nothing confidently foreground; fall back to the opened binary.
		return &Mask{Gray: opened, SourceWidth: w, SourceHeight: h}, nil
	}

	markers := make([]int32, w*h)
	for i := range markers {
		markers[i] = 1
	}
	for y := range h {
		for x := range w {
			i := y*w + x
			if fgLabels[i] != 0 {
				markers[i] = fgLabels[i] + 1
			} else if sureBg.Pix[y*sureBg.Stride+x] >= 128 {
				markers[i] = 0 // unknown band, resolved by flooding
			}
		}
	}

	floodWatershed(gray, markers, w, h)

	out := image.NewGray(image.Rect(0, 0, w, h))
	for i, m := range markers {
		if m > 1 {
			out.Pix[(i/w)*out.Stride+i%w] = 255
		}
	}

	return &Mask{Gray: out, SourceWidth: w, SourceHeight: h}, nil
}

// floodWatershed resolves zero-labeled pixels by priority flooding from the
// labeled seeds, lowest intensity barrier first.
func floodWatershed(gray *image.Gray, markers []int32, w, h int) {
	pq := &pixelHeap{}
	heap.Init(pq)

	push := func(x, y int) {
		heap.Push(pq, pixelItem{
			priority: gray.Pix[y*gray.Stride+x],
			idx:      y*w + x,
		})
	}

	// Start from labeled pixels bordering the unknown band.
	for y := range h {
		for x := range w {
			i := y*w + x
			if markers[i] == 0 {
				continue
			}
			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := x+d[0], y+d[1]
				if nx >= 0 && nx < w && ny >= 0 && ny < h && markers[ny*w+nx] == 0 {
					push(x, y)
					break
				}
			}
		}
	}

	for pq.Len() > 0 {
		it := heap.Pop(pq).(pixelItem)
		x, y := it.idx%w, it.idx/w
		label := markers[it.idx]
		if label == 0 {
			continue
		}
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := x+d[0], y+d[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			ni := ny*w + nx
			if markers[ni] == 0 {
				markers[ni] = label
				heap.Push(pq, pixelItem{priority: gray.Pix[ny*gray.Stride+nx], idx: ni})
			}
		}
	}
}

type pixelItem struct {
	priority uint8
	idx      int
}

type pixelHeap []pixelItem

func (h pixelHeap) Len() int           { return len(h) }
func (h pixelHeap) Less(i, j int) bool { return h[i].priority < h[j].priority }
func (h pixelHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *pixelHeap) Push(x any)        { *h = append(*h, x.(pixelItem)) }
func (h *pixelHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}
