package terrain

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.Config{
	EscapeHTML:              false,
	MarshalFloatWith6Digits: true,
	SortMapKeys:             true,
}.Froze()

// ExportedChunk is the JSON layout written by ExportJSON. Attributes are stored
// as flat arrays so they can be handed straight to a vertex buffer.
type ExportedChunk struct {
	X         int          `json:"x"`
	Z         int          `json:"z"`
	Position  [3]float32   `json:"position"`
	CellSize  float32      `json:"cell_size"`
	Positions []float32    `json:"positions"`
	Normals   []float32    `json:"normals"`
	UVs       []float32    `json:"uvs"`
	Indices   []uint32     `json:"indices"`
	Bounds    ExportBounds `json:"bounds"`
}

// ExportBounds mirrors Bounds with JSON field names.
type ExportBounds struct {
	Min [3]float32 `json:"min"`
	Max [3]float32 `json:"max"`
}

// Export flattens a chunk into its JSON representation.
func Export(c *Chunk) *ExportedChunk {
	out := &ExportedChunk{
		X:        c.Coord.X,
		Z:        c.Coord.Z,
		Position: c.Position.Array(),
		CellSize: c.CellSize,
	}
	if c.Mesh == nil {
		return out
	}

	n := len(c.Mesh.Vertices)
	out.Positions = make([]float32, 0, n*3)
	out.Normals = make([]float32, 0, n*3)
	out.UVs = make([]float32, 0, n*2)
	for _, v := range c.Mesh.Vertices {
		out.Positions = append(out.Positions, v.Position[:]...)
		out.Normals = append(out.Normals, v.Normal[:]...)
		out.UVs = append(out.UVs, v.TexCoord[:]...)
	}
	out.Indices = c.Mesh.Indices
	out.Bounds = ExportBounds{Min: c.Mesh.Bounds.Min, Max: c.Mesh.Bounds.Max}
	return out
}

// ExportJSON writes a chunk mesh as a single JSON document.
func ExportJSON(w io.Writer, c *Chunk) error {
	stream := json.BorrowStream(w)
	defer json.ReturnStream(stream)

	stream.WriteVal(Export(c))
	stream.WriteRaw("\n")
	if stream.Error != nil {
		return stream.Error
	}
	return stream.Flush()
}

// ReadExport decodes a document written by ExportJSON.
func ReadExport(r io.Reader) (*ExportedChunk, error) {
	var out ExportedChunk
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
