package terrain

import (
	"bytes"
	"strings"
	"testing"
)

func TestExportJSON(t *testing.T) {
	gen, err := NewGenerator(testGeneratorConfig())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	chunk, err := gen.Generate(ChunkCoord{X: -1, Z: 4})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, chunk); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if !strings.HasPrefix(buf.String(), `{"x":-1,"z":4,`) {
		t.Errorf("unexpected document prefix: %.40s", buf.String())
	}

	got, err := ReadExport(&buf)
	if err != nil {
		t.Fatalf("ReadExport: %v", err)
	}

	n := len(chunk.Mesh.Vertices)
	if len(got.Positions) != 3*n || len(got.Normals) != 3*n || len(got.UVs) != 2*n {
		t.Errorf("attribute lengths = %d/%d/%d for %d vertices",
			len(got.Positions), len(got.Normals), len(got.UVs), n)
	}
	if len(got.Indices) != len(chunk.Mesh.Indices) {
		t.Errorf("exported %d indices, want %d", len(got.Indices), len(chunk.Mesh.Indices))
	}
	if got.CellSize != chunk.CellSize {
		t.Errorf("CellSize = %v, want %v", got.CellSize, chunk.CellSize)
	}
}
