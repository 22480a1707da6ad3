package capture

import "sort"

// visibilityScale downsamples the virtual-desktop bitmap used for visibility
// accounting. Percentages only need coarse accuracy and a full 4K multi-head
// bitmap would be tens of megabytes per tick.
const visibilityScale = 4

// ComputeVisibility calculates the actually-visible percentage of each window
// by painting windows back to front into an index bitmap spanning all
// monitors and counting which pixels survive occlusion. Results are written
// into each window's VisiblePercent field.
func ComputeVisibility(windows []Window, monitors []Monitor) {
	if len(windows) == 0 || len(monitors) == 0 {
		return
	}

	// Virtual desktop bounds across all monitors
	minX, minY := monitors[0].X, monitors[0].Y
	maxX, maxY := monitors[0].X+monitors[0].Width, monitors[0].Y+monitors[0].Height
	for _, m := range monitors[1:] {
		if m.X < minX {
			minX = m.X
		}
		if m.Y < minY {
			minY = m.Y
		}
		if m.X+m.Width > maxX {
			maxX = m.X + m.Width
		}
		if m.Y+m.Height > maxY {
			maxY = m.Y + m.Height
		}
	}

	width := (maxX - minX) / visibilityScale
	height := (maxY - minY) / visibilityScale
	if width <= 0 || height <= 0 {
		return
	}

	// Paint windows back to front: lower layer first, then lower stack order
	order := make([]int, len(windows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		wa, wb := windows[order[a]], windows[order[b]]
		if wa.Layer != wb.Layer {
			return wa.Layer < wb.Layer
		}
		return wa.StackOrder < wb.StackOrder
	})

	bitmap := make([]int32, width*height)
	for paintIdx, wi := range order {
		w := windows[wi]
		x1 := clamp((w.X-minX)/visibilityScale, 0, width)
		y1 := clamp((w.Y-minY)/visibilityScale, 0, height)
		x2 := clamp((w.X+w.Width-minX)/visibilityScale, 0, width)
		y2 := clamp((w.Y+w.Height-minY)/visibilityScale, 0, height)

		id := int32(paintIdx + 1) // 0 is background
		for y := y1; y < y2; y++ {
			row := bitmap[y*width : (y+1)*width]
			for x := x1; x < x2; x++ {
				row[x] = id
			}
		}
	}

	// Count surviving pixels per paint id
	counts := make(map[int32]int)
	for _, id := range bitmap {
		if id != 0 {
			counts[id]++
		}
	}

	for paintIdx, wi := range order {
		w := &windows[wi]
		total := (w.Width / visibilityScale) * (w.Height / visibilityScale)
		if total <= 0 {
			w.VisiblePercent = 0
			continue
		}
		visible := counts[int32(paintIdx+1)]
		pct := float64(visible) / float64(total) * 100
		if pct > 100 {
			pct = 100
		}
		w.VisiblePercent = pct
	}
}

// clamp bounds v into [lo, hi]
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
