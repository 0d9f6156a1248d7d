package rtin

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/rtin-terrain/internal/heightfield"
)

// ErrorMap holds, per grid cell, the largest vertical error introduced by
// leaving that cell (and everything below it in the hierarchy) out of the mesh.
type ErrorMap struct {
	size    int
	errors  []float32
	heights *heightfield.HeightField
}

// ErrorMap computes the error map for hf in one reverse sweep over the table.
// Children always carry higher indices than their parent, so walking from the
// last index down visits every child before the triangle that contains it.
func (t *Table) ErrorMap(hf *heightfield.HeightField) (*ErrorMap, error) {
	size := t.gridSize
	if hf == nil || hf.Size != size || len(hf.Heights) != size*size {
		got := 0
		if hf != nil {
			got = len(hf.Heights)
		}
		return nil, fmt.Errorf("%w: expected %d samples, got %d", ErrHeightsLength, size*size, got)
	}

	terrain := hf.Heights
	errs := make([]float32, size*size)

	for i := t.numTriangles - 1; i >= 0; i-- {
		ax, ay, bx, by, cx, cy := t.Triangle(i)
		mx := (ax + bx) / 2
		my := (ay + by) / 2

		interpolated := (terrain[ay*size+ax] + terrain[by*size+bx]) / 2
		middle := my*size + mx
		errs[middle] = math32.Max(errs[middle], math32.Abs(interpolated-terrain[middle]))

		if i < t.numParentTriangles {
			left := ((ay+cy)/2)*size + (ax+cx)/2
			right := ((by+cy)/2)*size + (bx+cx)/2
			errs[middle] = math32.Max(errs[middle], math32.Max(errs[left], errs[right]))
		}
	}

	return &ErrorMap{size: size, errors: errs, heights: hf}, nil
}

// Size returns the number of samples per side.
func (e *ErrorMap) Size() int { return e.size }

// At returns the aggregated error at column x, row y.
func (e *ErrorMap) At(x, y int) float32 {
	return e.errors[y*e.size+x]
}

// Heights returns the height field the map was computed from.
func (e *ErrorMap) Heights() *heightfield.HeightField {
	return e.heights
}
