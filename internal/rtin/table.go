// Package rtin builds right-triangulated irregular network meshes from height fields.
//
// A tile of side 2^n cells is covered by a complete binary hierarchy of right
// triangles. Every triangle is split through the midpoint of its hypotenuse into
// two children. The hierarchy is never materialised: a Table stores the corner
// coordinates of every triangle indexed by its implicit tree id, and an ErrorMap
// records, per grid cell, the worst vertical error caused by not splitting at
// that cell.
package rtin

import (
	"errors"
	"fmt"

	"github.com/Faultbox/rtin-terrain/internal/heightfield"
)

var (
	ErrInvalidGridSize = errors.New("rtin grid size must be 2^n+1")
	ErrHeightsLength   = errors.New("rtin height data does not match grid size")
)

// Table maps triangle indices to grid coordinates for one grid size.
// It is immutable after construction and safe for concurrent readers.
type Table struct {
	gridSize           int
	numTriangles       int
	numParentTriangles int
	// Four entries per triangle: ax, ay, bx, by. The right-angle corner c
	// is derived from them.
	coords []uint16
}

// NewTable precomputes the triangle coordinates for a grid of gridSize samples
// per side.
func NewTable(gridSize int) (*Table, error) {
	if !heightfield.ValidSize(gridSize) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGridSize, gridSize)
	}

	tileSize := gridSize - 1
	numTriangles := tileSize*tileSize*2 - 2
	t := &Table{
		gridSize:           gridSize,
		numTriangles:       numTriangles,
		numParentTriangles: numTriangles - tileSize*tileSize,
		coords:             make([]uint16, numTriangles*4),
	}

	max := uint16(tileSize)
	for i := 0; i < numTriangles; i++ {
		ax, ay, bx, by := walkToSeed(i+2, max)
		k := i * 4
		t.coords[k] = ax
		t.coords[k+1] = ay
		t.coords[k+2] = bx
		t.coords[k+3] = by
	}
	return t, nil
}

// walkToSeed resolves tree id to the hypotenuse endpoints of its triangle.
// Ids 2 and 3 are the two halves of the tile; every further bit picks the
// left or right child of the triangle above.
func walkToSeed(id int, max uint16) (ax, ay, bx, by uint16) {
	var cx, cy uint16
	if id&1 != 0 {
		// (0,0) - (max,max), right angle at (max,0)
		bx, by, cx = max, max, max
	} else {
		// (max,max) - (0,0), right angle at (0,max)
		ax, ay, cy = max, max, max
	}

	for id/2 > 1 {
		id /= 2
		mx := (ax + bx) / 2
		my := (ay + by) / 2

		if id&1 != 0 {
			bx, by = ax, ay
			ax, ay = cx, cy
		} else {
			ax, ay = bx, by
			bx, by = cx, cy
		}
		cx, cy = mx, my
	}
	return ax, ay, bx, by
}

// GridSize returns the number of samples per side the table was built for.
func (t *Table) GridSize() int { return t.gridSize }

// NumTriangles returns the number of triangles in the hierarchy.
func (t *Table) NumTriangles() int { return t.numTriangles }

// NumParentTriangles returns how many leading indices are coarser than full
// resolution. Indices at or above this value are leaf-level triangles.
func (t *Table) NumParentTriangles() int { return t.numParentTriangles }

// Triangle returns the corners of triangle i: a and b span the hypotenuse,
// c is the right-angle corner.
func (t *Table) Triangle(i int) (ax, ay, bx, by, cx, cy int) {
	k := i * 4
	ax = int(t.coords[k])
	ay = int(t.coords[k+1])
	bx = int(t.coords[k+2])
	by = int(t.coords[k+3])
	mx := (ax + bx) / 2
	my := (ay + by) / 2
	cx = mx + my - ay
	cy = my + ax - mx
	return
}
