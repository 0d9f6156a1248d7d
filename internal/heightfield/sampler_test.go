package heightfield

import (
	"errors"
	"testing"
)

func testSamplerConfig() SamplerConfig {
	return SamplerConfig{
		Seed:        42,
		Frequency:   0.02,
		Lacunarity:  2,
		Persistence: 0.5,
		Octaves:     4,
		OffsetX:     0.31,
		OffsetZ:     0.17,
	}
}

func TestSamplerDeterministic(t *testing.T) {
	a, err := NewSampler(testSamplerConfig())
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}
	b, err := NewSampler(testSamplerConfig())
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}

	hfA, err := a.Sample(256, -512, 33, 8)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	hfB, err := b.Sample(256, -512, 33, 8)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}

	for i := range hfA.Heights {
		if hfA.Heights[i] != hfB.Heights[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, hfA.Heights[i], hfB.Heights[i])
		}
	}
}

func TestSamplerProducesRelief(t *testing.T) {
	s, err := NewSampler(testSamplerConfig())
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}
	hf, err := s.Sample(0, 0, 65, 4)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	lo, hi := hf.Range()
	if hi-lo <= 0 {
		t.Errorf("expected non-flat terrain, got range [%v, %v]", lo, hi)
	}
}

func TestSamplerSeamlessEdges(t *testing.T) {
	s, err := NewSampler(testSamplerConfig())
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}

	const size = 17
	const cell = 2.0
	tileWorld := float64(size-1) * cell

	left, _ := s.Sample(0, 0, size, cell)
	right, _ := s.Sample(tileWorld, 0, size, cell)

	for y := 0; y < size; y++ {
		if left.At(size-1, y) != right.At(0, y) {
			t.Fatalf("row %d: shared edge differs: %v vs %v", y, left.At(size-1, y), right.At(0, y))
		}
	}
}

func TestSamplerSeedChangesOutput(t *testing.T) {
	cfg := testSamplerConfig()
	a, _ := NewSampler(cfg)
	cfg.Seed++
	b, _ := NewSampler(cfg)

	hfA, _ := a.Sample(0, 0, 9, 16)
	hfB, _ := b.Sample(0, 0, 9, 16)

	same := true
	for i := range hfA.Heights {
		if hfA.Heights[i] != hfB.Heights[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical height fields")
	}
}

func TestNewSamplerValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*SamplerConfig)
	}{
		{"zero octaves", func(c *SamplerConfig) { c.Octaves = 0 }},
		{"zero persistence", func(c *SamplerConfig) { c.Persistence = 0 }},
		{"negative lacunarity", func(c *SamplerConfig) { c.Lacunarity = -1 }},
		{"zero frequency", func(c *SamplerConfig) { c.Frequency = 0 }},
		{"unknown basis", func(c *SamplerConfig) { c.Basis = Basis(7) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testSamplerConfig()
			tt.modify(&cfg)
			if _, err := NewSampler(cfg); !errors.Is(err, ErrInvalidSampler) {
				t.Errorf("NewSampler() error = %v, want ErrInvalidSampler", err)
			}
		})
	}
}

func TestSampleRejectsInvalidSize(t *testing.T) {
	s, _ := NewSampler(testSamplerConfig())
	if _, err := s.Sample(0, 0, 10, 1); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Sample(size=10) error = %v, want ErrInvalidSize", err)
	}
}

func TestSimplexBasis(t *testing.T) {
	cfg := testSamplerConfig()
	cfg.Basis = BasisSimplex
	s, err := NewSampler(cfg)
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}
	p, err := NewSampler(testSamplerConfig())
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}

	const size = 17
	left, _ := s.Sample(0, 0, size, 4)
	right, _ := s.Sample(64, 0, size, 4)
	for y := 0; y < size; y++ {
		if left.At(size-1, y) != right.At(0, y) {
			t.Fatalf("row %d: shared edge differs: %v vs %v", y, left.At(size-1, y), right.At(0, y))
		}
	}

	lo, hi := left.Range()
	if hi-lo <= 0 {
		t.Errorf("expected non-flat simplex terrain, got range [%v, %v]", lo, hi)
	}

	perlinField, _ := p.Sample(0, 0, size, 4)
	same := true
	for i := range left.Heights {
		if left.Heights[i] != perlinField.Heights[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("simplex and perlin bases produced identical height fields")
	}
}

func TestParseBasis(t *testing.T) {
	tests := []struct {
		in      string
		want    Basis
		wantErr bool
	}{
		{"", BasisPerlin, false},
		{"perlin", BasisPerlin, false},
		{"Simplex", BasisSimplex, false},
		{"opensimplex", BasisSimplex, false},
		{"worley", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseBasis(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBasis(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseBasis(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
