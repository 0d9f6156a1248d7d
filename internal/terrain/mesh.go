package terrain

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/rtin-terrain/internal/rtin"
	"github.com/Faultbox/rtin-terrain/pkg/math"
)

// MeshOptions controls how grid-space mesh data is turned into a chunk mesh.
type MeshOptions struct {
	Shading Shading
	// CellSize scales grid units to world units. 0 means 1.
	CellSize float32
}

// BuildMesh converts an RTIN extraction into a mesh centred on the tile origin.
func BuildMesh(data *rtin.MeshData, opts MeshOptions) *Mesh {
	cell := opts.CellSize
	if cell == 0 {
		cell = 1
	}
	half := float32(data.GridSize-1) / 2

	positions := make([][3]float32, len(data.Vertices))
	for i, v := range data.Vertices {
		positions[i] = [3]float32{(v[0] - half) * cell, v[1], (v[2] - half) * cell}
	}

	var mesh *Mesh
	if opts.Shading == ShadingSmooth {
		mesh = buildSmooth(positions, data)
	} else {
		mesh = buildFlat(positions, data)
	}
	mesh.Bounds = computeBounds(mesh.Vertices)
	return mesh
}

// buildFlat gives every triangle its own three vertices so each face keeps
// a single normal.
func buildFlat(positions [][3]float32, data *rtin.MeshData) *Mesh {
	vertices := make([]Vertex, len(data.Indices))
	indices := make([]uint32, len(data.Indices))

	for i := 0; i < len(data.Indices); i += 3 {
		a, b, c := data.Indices[i], data.Indices[i+1], data.Indices[i+2]
		normal := faceNormal(positions[a], positions[b], positions[c]).Normalize()
		if normal == (math.Vec3{}) {
			normal = math.Vec3{Y: 1}
		}

		for k, idx := range [3]uint32{a, b, c} {
			vertices[i+k] = Vertex{
				Position: positions[idx],
				Normal:   normal.Array(),
				TexCoord: data.UVs[idx],
			}
			indices[i+k] = uint32(i + k)
		}
	}

	return &Mesh{Vertices: vertices, Indices: indices}
}

// buildSmooth keeps shared vertices and averages the normals of every face
// touching them. Unnormalised face normals weight larger faces more.
func buildSmooth(positions [][3]float32, data *rtin.MeshData) *Mesh {
	sums := make([]math.Vec3, len(positions))
	for i := 0; i < len(data.Indices); i += 3 {
		a, b, c := data.Indices[i], data.Indices[i+1], data.Indices[i+2]
		n := faceNormal(positions[a], positions[b], positions[c])
		sums[a] = sums[a].Add(n)
		sums[b] = sums[b].Add(n)
		sums[c] = sums[c].Add(n)
	}

	vertices := make([]Vertex, len(positions))
	for i := range positions {
		normal := sums[i].Normalize()
		if normal == (math.Vec3{}) {
			normal = math.Vec3{Y: 1}
		}
		vertices[i] = Vertex{
			Position: positions[i],
			Normal:   normal.Array(),
			TexCoord: data.UVs[i],
		}
	}

	indices := make([]uint32, len(data.Indices))
	copy(indices, data.Indices)
	return &Mesh{Vertices: vertices, Indices: indices}
}

// faceNormal returns (b-a) x (c-a), whose length is twice the triangle area.
func faceNormal(a, b, c [3]float32) math.Vec3 {
	va := math.FromArray(a)
	return math.FromArray(b).Sub(va).Cross(math.FromArray(c).Sub(va))
}

func computeBounds(vertices []Vertex) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{
		Min: [3]float32{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32},
		Max: [3]float32{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32},
	}
	for _, v := range vertices {
		for k := 0; k < 3; k++ {
			b.Min[k] = math32.Min(b.Min[k], v.Position[k])
			b.Max[k] = math32.Max(b.Max[k], v.Position[k])
		}
	}
	return b
}
