package terrain

import (
	"testing"

	"github.com/Faultbox/rtin-terrain/internal/heightfield"
	"github.com/Faultbox/rtin-terrain/internal/rtin"
)

func extractField(t *testing.T, hf *heightfield.HeightField, maxError float32) *rtin.MeshData {
	t.Helper()
	table, err := rtin.TableFor(hf.Size)
	if err != nil {
		t.Fatalf("TableFor: %v", err)
	}
	em, err := table.ErrorMap(hf)
	if err != nil {
		t.Fatalf("ErrorMap: %v", err)
	}
	return em.Extract(maxError)
}

func ridgeField(t *testing.T, size int) *heightfield.HeightField {
	t.Helper()
	hf, err := heightfield.New(size)
	if err != nil {
		t.Fatalf("heightfield.New: %v", err)
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := x - size/2
			if d < 0 {
				d = -d
			}
			hf.Set(x, y, float32(size/2-d)+float32(y%3))
		}
	}
	return hf
}

func TestBuildMeshFlatDuplicatesVertices(t *testing.T) {
	data := extractField(t, ridgeField(t, 17), 0.5)
	mesh := BuildMesh(data, MeshOptions{Shading: ShadingFlat})

	if got, want := len(mesh.Vertices), len(data.Indices); got != want {
		t.Fatalf("flat mesh has %d vertices, want %d", got, want)
	}
	if mesh.NumTriangles() != data.NumTriangles() {
		t.Errorf("NumTriangles() = %d, want %d", mesh.NumTriangles(), data.NumTriangles())
	}

	// All three corners of a face share its normal, and it points up.
	for i := 0; i < len(mesh.Indices); i += 3 {
		n := mesh.Vertices[mesh.Indices[i]].Normal
		if mesh.Vertices[mesh.Indices[i+1]].Normal != n || mesh.Vertices[mesh.Indices[i+2]].Normal != n {
			t.Fatalf("face %d has mixed normals", i/3)
		}
		if n[1] <= 0 {
			t.Fatalf("face %d normal %v points down", i/3, n)
		}
	}
}

func TestBuildMeshSmoothSharesVertices(t *testing.T) {
	data := extractField(t, ridgeField(t, 17), 0.5)
	mesh := BuildMesh(data, MeshOptions{Shading: ShadingSmooth})

	if len(mesh.Vertices) != len(data.Vertices) {
		t.Fatalf("smooth mesh has %d vertices, want %d", len(mesh.Vertices), len(data.Vertices))
	}
	for i, v := range mesh.Vertices {
		n := v.Normal
		l := n[0]*n[0] + n[1]*n[1] + n[2]*n[2]
		if l < 0.99 || l > 1.01 {
			t.Fatalf("vertex %d normal %v is not unit length", i, n)
		}
		if n[1] <= 0 {
			t.Fatalf("vertex %d normal %v points down", i, n)
		}
	}
}

func TestBuildMeshFlatTerrainNormalsUp(t *testing.T) {
	hf, _ := heightfield.New(9)
	data := extractField(t, hf, 0)

	for _, shading := range []Shading{ShadingFlat, ShadingSmooth} {
		mesh := BuildMesh(data, MeshOptions{Shading: shading})
		for i, v := range mesh.Vertices {
			if v.Normal != [3]float32{0, 1, 0} {
				t.Errorf("%v: vertex %d normal = %v, want up", shading, i, v.Normal)
			}
		}
	}
}

func TestBuildMeshCentersAndScales(t *testing.T) {
	hf, _ := heightfield.New(9)
	data := extractField(t, hf, 0)
	mesh := BuildMesh(data, MeshOptions{Shading: ShadingSmooth, CellSize: 4})

	want := Bounds{Min: [3]float32{-16, 0, -16}, Max: [3]float32{16, 0, 16}}
	if mesh.Bounds != want {
		t.Errorf("Bounds = %+v, want %+v", mesh.Bounds, want)
	}
}

func TestBuildMeshBoundsCoverHeights(t *testing.T) {
	// A strictly convex bowl keeps every sample at maxError 0.
	hf, _ := heightfield.New(17)
	for y := 0; y < hf.Size; y++ {
		for x := 0; x < hf.Size; x++ {
			hf.Set(x, y, float32((x-8)*(x-8)+(y-3)*(y-3)))
		}
	}
	mesh := BuildMesh(extractField(t, hf, 0), MeshOptions{})

	lo, hi := hf.Range()
	if mesh.Bounds.Min[1] != lo || mesh.Bounds.Max[1] != hi {
		t.Errorf("height bounds = [%v, %v], want [%v, %v]", mesh.Bounds.Min[1], mesh.Bounds.Max[1], lo, hi)
	}
}

func TestParseShading(t *testing.T) {
	tests := []struct {
		in      string
		want    Shading
		wantErr bool
	}{
		{"flat", ShadingFlat, false},
		{"", ShadingFlat, false},
		{"Smooth", ShadingSmooth, false},
		{"gouraud", ShadingFlat, true},
	}

	for _, tt := range tests {
		got, err := ParseShading(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseShading(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseShading(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
