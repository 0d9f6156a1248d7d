package rtin

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/Faultbox/rtin-terrain/internal/heightfield"
)

// randomField returns a reproducible rough height field.
func randomField(t *testing.T, size int, seed int64) *heightfield.HeightField {
	t.Helper()
	hf, err := heightfield.New(size)
	if err != nil {
		t.Fatalf("heightfield.New(%d): %v", size, err)
	}
	rng := rand.New(rand.NewSource(seed))
	for i := range hf.Heights {
		hf.Heights[i] = rng.Float32()*20 - 10
	}
	return hf
}

// bowlField returns h = x^2 + y^2, which is strictly convex, so every
// hypotenuse midpoint has a positive interpolation error.
func bowlField(t *testing.T, size int) *heightfield.HeightField {
	t.Helper()
	hf, err := heightfield.New(size)
	if err != nil {
		t.Fatalf("heightfield.New(%d): %v", size, err)
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			hf.Set(x, y, float32(x*x+y*y))
		}
	}
	return hf
}

func TestErrorMapMonotonic(t *testing.T) {
	for _, size := range []int{5, 17, 65} {
		table, _ := NewTable(size)
		em, err := table.ErrorMap(randomField(t, size, int64(size)))
		if err != nil {
			t.Fatalf("ErrorMap: %v", err)
		}

		for i := 0; i < table.NumParentTriangles(); i++ {
			ax, ay, bx, by, cx, cy := table.Triangle(i)
			parent := em.At((ax+bx)/2, (ay+by)/2)
			left := em.At((ax+cx)/2, (ay+cy)/2)
			right := em.At((bx+cx)/2, (by+cy)/2)
			if parent < left || parent < right {
				t.Fatalf("size %d triangle %d: parent error %v < child errors (%v, %v)",
					size, i, parent, left, right)
			}
		}
	}
}

func TestErrorMapFlatIsZero(t *testing.T) {
	table, _ := NewTable(9)
	hf, _ := heightfield.New(9)
	em, err := table.ErrorMap(hf)
	if err != nil {
		t.Fatalf("ErrorMap: %v", err)
	}
	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			if em.At(x, y) != 0 {
				t.Fatalf("At(%d,%d) = %v, want 0", x, y, em.At(x, y))
			}
		}
	}
}

func TestErrorMapLocalError(t *testing.T) {
	table, _ := NewTable(3)
	hf, _ := heightfield.New(3)
	// A single spike in the centre of the tile.
	hf.Set(1, 1, 4)

	em, err := table.ErrorMap(hf)
	if err != nil {
		t.Fatalf("ErrorMap: %v", err)
	}
	if got := em.At(1, 1); got != 4 {
		t.Errorf("At(1,1) = %v, want 4", got)
	}
	// Edge midpoints interpolate between flat corners and see a flat edge.
	if got := em.At(1, 0); got != 0 {
		t.Errorf("At(1,0) = %v, want 0", got)
	}
}

func TestErrorMapRejectsMismatchedHeights(t *testing.T) {
	table, _ := NewTable(9)
	hf, _ := heightfield.New(17)

	if _, err := table.ErrorMap(hf); !errors.Is(err, ErrHeightsLength) {
		t.Errorf("ErrorMap(size 17) error = %v, want ErrHeightsLength", err)
	}
	if _, err := table.ErrorMap(&heightfield.HeightField{Size: 9, Heights: make([]float32, 80)}); !errors.Is(err, ErrHeightsLength) {
		t.Errorf("ErrorMap(short data) error = %v, want ErrHeightsLength", err)
	}
	if _, err := table.ErrorMap(nil); !errors.Is(err, ErrHeightsLength) {
		t.Errorf("ErrorMap(nil) error = %v, want ErrHeightsLength", err)
	}
}
