package heightfield

// HeightAt returns the bilinearly interpolated height at fractional grid
// coordinates (gx, gy). Coordinates outside the grid are clamped to its edge.
func (h *HeightField) HeightAt(gx, gy float32) float32 {
	maxCell := float32(h.Size - 1)
	gx = clampf(gx, 0, maxCell)
	gy = clampf(gy, 0, maxCell)

	cellX := int(gx)
	cellY := int(gy)
	// The last row/column has no cell to its right; step back one.
	if cellX >= h.Size-1 {
		cellX = h.Size - 2
	}
	if cellY >= h.Size-1 {
		cellY = h.Size - 2
	}

	fracX := clampf(gx-float32(cellX), 0, 1)
	fracY := clampf(gy-float32(cellY), 0, 1)

	h00 := h.At(cellX, cellY)
	h10 := h.At(cellX+1, cellY)
	h01 := h.At(cellX, cellY+1)
	h11 := h.At(cellX+1, cellY+1)

	near := h00*(1-fracX) + h10*fracX
	far := h01*(1-fracX) + h11*fracX
	return near*(1-fracY) + far*fracY
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
