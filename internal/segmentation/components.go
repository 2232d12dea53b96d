package segmentation

import "image"

// ComponentStats summarizes one 4-connected foreground component.
type ComponentStats struct {
	Area int
	MinX int
	MinY int
	MaxX int
	MaxY int
}

// LabelComponents labels 4-connected foreground components of a binary mask.
// Returns row-major labels (0 = background, components numbered from 1) and
// per-component stats indexed by label-1.
func LabelComponents(src *image.Gray) ([]int32, []ComponentStats) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	labels := make([]int32, w*h)
	var stats []ComponentStats

	var queue []int
	next := int32(0)
	for y := range h {
		for x := range w {
			idx := y*w + x
			if labels[idx] != 0 || src.Pix[y*src.Stride+x] < 128 {
				continue
			}
			next++
			st := ComponentStats{MinX: x, MinY: y, MaxX: x, MaxY: y}
			labels[idx] = next
			queue = append(queue[:0], idx)
			for len(queue) > 0 {
				cur := queue[len(queue)-1]
				queue = queue[:len(queue)-1]
				cx, cy := cur%w, cur/w

				st.Area++
				if cx < st.MinX {
					st.MinX = cx
				}
				if cy < st.MinY {
					st.MinY = cy
				}
				if cx > st.MaxX {
					st.MaxX = cx
				}
				if cy > st.MaxY {
					st.MaxY = cy
				}

				for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					nx, ny := cx+d[0], cy+d[1]
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					nidx := ny*w + nx
					if labels[nidx] == 0 && src.Pix[ny*src.Stride+nx] >= 128 {
						labels[nidx] = next
						queue = append(queue, nidx)
					}
				}
			}
			stats = append(stats, st)
		}
	}

	return labels, stats
}
