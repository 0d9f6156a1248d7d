package rtin

import (
	"fmt"
	"sync"

	"github.com/Faultbox/rtin-terrain/internal/heightfield"
)

type cachedTable struct {
	once  sync.Once
	table *Table
	err   error
}

var tables sync.Map // grid size -> *cachedTable

// TableFor returns the shared table for gridSize, building it on first use.
// Concurrent callers asking for the same size wait for a single construction.
func TableFor(gridSize int) (*Table, error) {
	if !heightfield.ValidSize(gridSize) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGridSize, gridSize)
	}

	v, _ := tables.LoadOrStore(gridSize, &cachedTable{})
	entry := v.(*cachedTable)
	entry.once.Do(func() {
		entry.table, entry.err = NewTable(gridSize)
	})
	return entry.table, entry.err
}
