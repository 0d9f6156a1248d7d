package rtin

// MeshData is the raw output of an extraction, in grid units.
// Vertex positions are (gridX, height, gridY); three indices form a triangle.
type MeshData struct {
	GridSize int
	Vertices [][3]float32
	Indices  []uint32
	UVs      [][2]float32
	Normals  [][3]float32
}

// NumTriangles returns the number of triangles in the mesh.
func (m *MeshData) NumTriangles() int {
	return len(m.Indices) / 3
}

// leaf holds the corners of an emitted triangle: ax, ay, bx, by, cx, cy.
type leaf [6]uint16

// extraction is the result of the counting pass. Both the count and the build
// pass iterate the same leaf slice, so their visiting order cannot diverge.
type extraction struct {
	leaves []leaf
	// vertexOf maps a grid cell to its vertex index, -1 when unused.
	vertexOf []int32
	// cells lists grid cells in first-use order; len(cells) is the vertex count.
	cells []int32
}

// Extract produces a mesh whose local error stays within maxError.
// maxError 0 keeps every cell that deviates from its interpolation;
// +Inf yields the two root triangles.
func (e *ErrorMap) Extract(maxError float32) *MeshData {
	return e.build(e.count(maxError))
}

// collect descends from both root triangles and appends every leaf in
// depth-first order, left child first.
func (e *ErrorMap) collect(maxError float32) []leaf {
	max := uint16(e.size - 1)
	leaves := make([]leaf, 0, 64)
	leaves = e.descend(leaves, maxError, 0, 0, max, max, max, 0)
	leaves = e.descend(leaves, maxError, max, max, 0, 0, 0, max)
	return leaves
}

func (e *ErrorMap) descend(leaves []leaf, maxError float32, ax, ay, bx, by, cx, cy uint16) []leaf {
	mx := (ax + bx) / 2
	my := (ay + by) / 2

	if absDiff(ax, cx)+absDiff(ay, cy) > 1 && e.errors[int(my)*e.size+int(mx)] > maxError {
		leaves = e.descend(leaves, maxError, cx, cy, ax, ay, mx, my)
		return e.descend(leaves, maxError, bx, by, cx, cy, mx, my)
	}
	return append(leaves, leaf{ax, ay, bx, by, cx, cy})
}

// count is the first pass: it numbers vertices on first sight and sizes the
// output without allocating it.
func (e *ErrorMap) count(maxError float32) *extraction {
	ex := &extraction{
		leaves:   e.collect(maxError),
		vertexOf: make([]int32, e.size*e.size),
	}
	for i := range ex.vertexOf {
		ex.vertexOf[i] = -1
	}

	for _, l := range ex.leaves {
		for k := 0; k < 6; k += 2 {
			cell := int32(int(l[k+1])*e.size + int(l[k]))
			if ex.vertexOf[cell] < 0 {
				ex.vertexOf[cell] = int32(len(ex.cells))
				ex.cells = append(ex.cells, cell)
			}
		}
	}
	return ex
}

// build is the second pass: it fills buffers sized exactly by count.
func (e *ErrorMap) build(ex *extraction) *MeshData {
	numVertices := len(ex.cells)
	size := e.size
	tile := float32(size - 1)
	heights := e.heights.Heights

	md := &MeshData{
		GridSize: size,
		Vertices: make([][3]float32, numVertices),
		Indices:  make([]uint32, len(ex.leaves)*3),
		UVs:      make([][2]float32, numVertices),
		Normals:  make([][3]float32, numVertices),
	}

	tri := 0
	for _, l := range ex.leaves {
		for k := 0; k < 6; k += 2 {
			x, y := int(l[k]), int(l[k+1])
			cell := y*size + x
			v := ex.vertexOf[cell]

			md.Vertices[v] = [3]float32{float32(x), heights[cell], float32(y)}
			md.UVs[v] = [2]float32{float32(x) / tile, float32(y) / tile}
			md.Normals[v] = [3]float32{0, 1, 0}
			md.Indices[tri] = uint32(v)
			tri++
		}
	}
	return md
}

func absDiff(a, b uint16) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
