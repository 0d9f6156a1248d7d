// Package stream keeps a square window of terrain chunks resident around a
// moving viewpoint. Generation runs on background workers; the controller is
// driven from a single host tick and never blocks on a job.
package stream

import (
	"sort"

	"github.com/Faultbox/rtin-terrain/internal/terrain"
	"github.com/Faultbox/rtin-terrain/pkg/math"
)

// ChunkCoordAt maps a world position to the chunk containing it. Chunk
// positions are tile centres, so the position is shifted by half a tile
// before flooring.
func ChunkCoordAt(pos math.Vec3, chunkWorldSize float32) terrain.ChunkCoord {
	half := chunkWorldSize / 2
	cell := pos.XZ().Add(math.Vec2{X: half, Y: half}).Div(chunkWorldSize).Floor()
	return terrain.ChunkCoord{X: int(cell.X), Z: int(cell.Y)}
}

// WindowAround returns every coordinate within Chebyshev distance radius of
// center, nearest first. Ties are broken by Euclidean distance, then by
// coordinate, so the order is stable.
func WindowAround(center terrain.ChunkCoord, radius int) []terrain.ChunkCoord {
	if radius < 0 {
		return nil
	}
	side := 2*radius + 1
	window := make([]terrain.ChunkCoord, 0, side*side)
	for dz := -radius; dz <= radius; dz++ {
		for dx := -radius; dx <= radius; dx++ {
			window = append(window, terrain.ChunkCoord{X: center.X + dx, Z: center.Z + dz})
		}
	}

	sort.Slice(window, func(i, j int) bool {
		a, b := window[i], window[j]
		ra, rb := a.Chebyshev(center), b.Chebyshev(center)
		if ra != rb {
			return ra < rb
		}
		da, db := distSq(a, center), distSq(b, center)
		if da != db {
			return da < db
		}
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.X < b.X
	})
	return window
}

func distSq(a, b terrain.ChunkCoord) int {
	dx, dz := a.X-b.X, a.Z-b.Z
	return dx*dx + dz*dz
}
