// Package terrain turns RTIN extractions into renderer-agnostic chunk meshes and
// runs the per-chunk generation pipeline.
package terrain

import (
	"fmt"
	"strings"
	"time"

	"github.com/Faultbox/rtin-terrain/internal/heightfield"
	"github.com/Faultbox/rtin-terrain/pkg/math"
)

// Vertex represents a terrain mesh vertex with all attributes.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Mesh holds the complete chunk mesh ready for upload to any backend.
// Positions are relative to the owning chunk's Position.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// NumTriangles returns the number of indexed triangles.
func (m *Mesh) NumTriangles() int {
	return len(m.Indices) / 3
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Shading selects how vertex normals are produced.
type Shading int

const (
	// ShadingFlat duplicates vertices per triangle and assigns face normals.
	ShadingFlat Shading = iota
	// ShadingSmooth shares vertices and averages adjacent face normals.
	ShadingSmooth
)

func (s Shading) String() string {
	switch s {
	case ShadingFlat:
		return "flat"
	case ShadingSmooth:
		return "smooth"
	default:
		return fmt.Sprintf("Shading(%d)", int(s))
	}
}

// ParseShading converts a config value ("flat" or "smooth") to a Shading.
func ParseShading(s string) (Shading, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "flat":
		return ShadingFlat, nil
	case "smooth":
		return ShadingSmooth, nil
	default:
		return ShadingFlat, fmt.Errorf("unknown shading %q", s)
	}
}

// ChunkCoord identifies a tile in the infinite chunk grid.
// X runs along world X, Z along world Z.
type ChunkCoord struct {
	X, Z int
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Z)
}

// Chebyshev returns max(|dx|, |dz|) between two coordinates.
func (c ChunkCoord) Chebyshev(other ChunkCoord) int {
	dx := c.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dz := c.Z - other.Z
	if dz < 0 {
		dz = -dz
	}
	if dx > dz {
		return dx
	}
	return dz
}

// Chunk is one generated terrain tile placed in the world.
type Chunk struct {
	Coord ChunkCoord
	// Position is the world position of the tile centre.
	Position math.Vec3
	Mesh     *Mesh
	// Heights is the scaled height field the mesh was extracted from.
	Heights *heightfield.HeightField
	// CellSize is the world distance between neighbouring grid samples.
	CellSize float32
	// Elapsed is the wall time the generation pipeline took.
	Elapsed time.Duration
}
