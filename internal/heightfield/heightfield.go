// Package heightfield provides square height grids and the fractal noise sampler
// that fills them for one terrain tile.
package heightfield

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSize    = errors.New("heightfield size must be 2^n+1")
	ErrHeightsLength  = errors.New("heightfield data length does not match size")
	ErrInvalidSampler = errors.New("invalid sampler configuration")
)

// HeightField is a square, row-major grid of Size*Size height samples.
// Row y, column x lives at Heights[y*Size+x].
type HeightField struct {
	Size    int
	Heights []float32
}

// ValidSize reports whether size has the form 2^n+1 with n >= 1.
func ValidSize(size int) bool {
	tile := size - 1
	return tile >= 2 && tile&(tile-1) == 0
}

// New allocates a zeroed height field.
func New(size int) (*HeightField, error) {
	if !ValidSize(size) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	return &HeightField{Size: size, Heights: make([]float32, size*size)}, nil
}

// FromHeights wraps existing samples. The slice is not copied.
func FromHeights(size int, heights []float32) (*HeightField, error) {
	if !ValidSize(size) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	if len(heights) != size*size {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrHeightsLength, size*size, len(heights))
	}
	return &HeightField{Size: size, Heights: heights}, nil
}

// TileSize is the number of cells along one edge.
func (h *HeightField) TileSize() int {
	return h.Size - 1
}

// At returns the sample at column x, row y.
func (h *HeightField) At(x, y int) float32 {
	return h.Heights[y*h.Size+x]
}

// Set stores a sample at column x, row y.
func (h *HeightField) Set(x, y int, v float32) {
	h.Heights[y*h.Size+x] = v
}

// Scale multiplies every sample by m in place.
func (h *HeightField) Scale(m float32) {
	for i := range h.Heights {
		h.Heights[i] *= m
	}
}

// Range returns the lowest and highest sample.
func (h *HeightField) Range() (lo, hi float32) {
	if len(h.Heights) == 0 {
		return 0, 0
	}
	lo, hi = h.Heights[0], h.Heights[0]
	for _, v := range h.Heights[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
