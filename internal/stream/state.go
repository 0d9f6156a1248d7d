package stream

import "fmt"

// State is the lifecycle stage of one chunk coordinate.
type State int

const (
	// StateAbsent means nothing has been requested for the coordinate.
	StateAbsent State = iota
	// StateQueued means the coordinate waits for a free worker slot.
	StateQueued
	// StateGenerating means the job was handed to the pool. It may still sit
	// in the pool's buffer until a worker picks it up; either way it is no
	// longer cancellable and will be attached when it finishes.
	StateGenerating
	// StateResident means the chunk was handed to the scene.
	StateResident
	// StateEvicted means the chunk was detached after leaving the window.
	// It is requested again if the window comes back.
	StateEvicted
	// StateFailed means generation returned an error. It is never retried.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateQueued:
		return "queued"
	case StateGenerating:
		return "generating"
	case StateResident:
		return "resident"
	case StateEvicted:
		return "evicted"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// needsRequest reports whether a coordinate in this state should be queued
// when it is inside the window.
func (s State) needsRequest() bool {
	return s == StateAbsent || s == StateEvicted
}
