package rtin

import (
	"errors"
	"sync"
	"testing"
)

func TestNewTableCounts(t *testing.T) {
	for n := 1; n <= 8; n++ {
		size := 1<<n + 1
		tile := size - 1

		table, err := NewTable(size)
		if err != nil {
			t.Fatalf("NewTable(%d): %v", size, err)
		}

		wantTriangles := 2*tile*tile - 2
		if got := table.NumTriangles(); got != wantTriangles {
			t.Errorf("size %d: NumTriangles() = %d, want %d", size, got, wantTriangles)
		}
		if got := table.NumParentTriangles(); got != wantTriangles-tile*tile {
			t.Errorf("size %d: NumParentTriangles() = %d, want %d", size, got, wantTriangles-tile*tile)
		}
		if got := table.GridSize(); got != size {
			t.Errorf("GridSize() = %d, want %d", got, size)
		}
	}
}

func TestNewTableRejectsInvalidSize(t *testing.T) {
	for _, size := range []int{0, 2, 10, 16, 100, 256} {
		if _, err := NewTable(size); !errors.Is(err, ErrInvalidGridSize) {
			t.Errorf("NewTable(%d) error = %v, want ErrInvalidGridSize", size, err)
		}
	}
}

func TestSeedTriangles(t *testing.T) {
	table, _ := NewTable(9)

	// Index 0 is tree id 2: (8,8)-(0,0) with the right angle at (0,8).
	ax, ay, bx, by, cx, cy := table.Triangle(0)
	if [6]int{ax, ay, bx, by, cx, cy} != [6]int{8, 8, 0, 0, 0, 8} {
		t.Errorf("Triangle(0) = %v", [6]int{ax, ay, bx, by, cx, cy})
	}

	// Index 1 is tree id 3: (0,0)-(8,8) with the right angle at (8,0).
	ax, ay, bx, by, cx, cy = table.Triangle(1)
	if [6]int{ax, ay, bx, by, cx, cy} != [6]int{0, 0, 8, 8, 8, 0} {
		t.Errorf("Triangle(1) = %v", [6]int{ax, ay, bx, by, cx, cy})
	}
}

func TestTrianglesAreRightIsosceles(t *testing.T) {
	table, _ := NewTable(33)
	max := table.GridSize() - 1

	for i := 0; i < table.NumTriangles(); i++ {
		ax, ay, bx, by, cx, cy := table.Triangle(i)
		for _, v := range []int{ax, ay, bx, by, cx, cy} {
			if v < 0 || v > max {
				t.Fatalf("triangle %d has corner outside grid: %v", i, [6]int{ax, ay, bx, by, cx, cy})
			}
		}

		// Legs from the right-angle corner are perpendicular and equal.
		lx, ly := ax-cx, ay-cy
		rx, ry := bx-cx, by-cy
		if lx*rx+ly*ry != 0 || lx*lx+ly*ly != rx*rx+ry*ry {
			t.Fatalf("triangle %d is not right isosceles: %v", i, [6]int{ax, ay, bx, by, cx, cy})
		}

		// The hypotenuse midpoint must land on a grid cell.
		if (ax+bx)%2 != 0 || (ay+by)%2 != 0 {
			t.Fatalf("triangle %d hypotenuse midpoint is off-grid", i)
		}
	}
}

func TestLeafLevelTriangles(t *testing.T) {
	table, _ := NewTable(17)

	for i := table.NumParentTriangles(); i < table.NumTriangles(); i++ {
		ax, ay, bx, by, _, _ := table.Triangle(i)
		if d := absInt(ax-bx) + absInt(ay-by); d != 2 {
			t.Fatalf("leaf-level triangle %d hypotenuse manhattan length = %d, want 2", i, d)
		}
	}
}

func TestTableForCachesBySize(t *testing.T) {
	const workers = 8
	results := make([]*Table, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			table, err := TableFor(65)
			if err != nil {
				t.Errorf("TableFor(65): %v", err)
				return
			}
			results[i] = table
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if results[i] != results[0] {
			t.Fatalf("TableFor returned distinct tables for the same size")
		}
	}

	other, err := TableFor(33)
	if err != nil {
		t.Fatalf("TableFor(33): %v", err)
	}
	if other == results[0] {
		t.Error("TableFor returned the same table for different sizes")
	}

	if _, err := TableFor(10); !errors.Is(err, ErrInvalidGridSize) {
		t.Errorf("TableFor(10) error = %v, want ErrInvalidGridSize", err)
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
