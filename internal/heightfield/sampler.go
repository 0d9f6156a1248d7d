package heightfield

import (
	"fmt"
	"strings"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Basis selects the gradient noise summed by the fBm octaves.
type Basis int

const (
	BasisPerlin Basis = iota
	BasisSimplex
)

func (b Basis) String() string {
	switch b {
	case BasisPerlin:
		return "perlin"
	case BasisSimplex:
		return "simplex"
	default:
		return fmt.Sprintf("Basis(%d)", int(b))
	}
}

// ParseBasis converts a config value to a Basis. The empty string means perlin.
func ParseBasis(s string) (Basis, error) {
	switch strings.ToLower(s) {
	case "", "perlin":
		return BasisPerlin, nil
	case "simplex", "opensimplex":
		return BasisSimplex, nil
	default:
		return 0, fmt.Errorf("%w: unknown noise basis %q", ErrInvalidSampler, s)
	}
}

// SamplerConfig holds the fractal Brownian motion parameters.
type SamplerConfig struct {
	Seed        int64
	Frequency   float64 // Noise cycles per world unit at the first octave
	Lacunarity  float64 // Frequency multiplier between octaves
	Persistence float64 // Amplitude multiplier between octaves
	Octaves     int
	OffsetX     float64 // Noise-space offset applied after scaling
	OffsetZ     float64
	Scale       float64 // World units per noise unit before frequency; 0 means 1
	Basis       Basis
}

type noise2D interface {
	Noise2D(x, y float64) float64
}

// simplexFBM sums OpenSimplex octaves with the same amplitude and frequency
// progression go-perlin uses.
type simplexFBM struct {
	noise       opensimplex.Noise
	lacunarity  float64
	persistence float64
	octaves     int
}

func (f *simplexFBM) Noise2D(x, y float64) float64 {
	var sum float64
	amp, scale := 1.0, 1.0
	for i := 0; i < f.octaves; i++ {
		sum += f.noise.Eval2(x*scale, y*scale) * amp
		amp *= f.persistence
		scale *= f.lacunarity
	}
	return sum
}

// Sampler evaluates layered Perlin noise over world coordinates.
// It is immutable after construction and safe for concurrent use.
type Sampler struct {
	cfg SamplerConfig
	fbm noise2D
}

// NewSampler validates cfg and builds the noise generator.
func NewSampler(cfg SamplerConfig) (*Sampler, error) {
	if cfg.Octaves < 1 {
		return nil, fmt.Errorf("%w: octaves must be >= 1, got %d", ErrInvalidSampler, cfg.Octaves)
	}
	if cfg.Persistence <= 0 {
		return nil, fmt.Errorf("%w: persistence must be > 0, got %g", ErrInvalidSampler, cfg.Persistence)
	}
	if cfg.Lacunarity <= 0 {
		return nil, fmt.Errorf("%w: lacunarity must be > 0, got %g", ErrInvalidSampler, cfg.Lacunarity)
	}
	if cfg.Frequency <= 0 {
		return nil, fmt.Errorf("%w: frequency must be > 0, got %g", ErrInvalidSampler, cfg.Frequency)
	}
	if cfg.Scale == 0 {
		cfg.Scale = 1
	}

	var fbm noise2D
	switch cfg.Basis {
	case BasisPerlin:
		// go-perlin divides each octave by a running product of alpha,
		// so alpha is the reciprocal of persistence.
		fbm = perlin.NewPerlin(1/cfg.Persistence, cfg.Lacunarity, cfg.Octaves, cfg.Seed)
	case BasisSimplex:
		fbm = &simplexFBM{
			noise:       opensimplex.New(cfg.Seed),
			lacunarity:  cfg.Lacunarity,
			persistence: cfg.Persistence,
			octaves:     cfg.Octaves,
		}
	default:
		return nil, fmt.Errorf("%w: unknown basis %v", ErrInvalidSampler, cfg.Basis)
	}

	return &Sampler{cfg: cfg, fbm: fbm}, nil
}

// Config returns the parameters the sampler was built with.
func (s *Sampler) Config() SamplerConfig {
	return s.cfg
}

// Noise returns the raw fBm value at a world position.
func (s *Sampler) Noise(worldX, worldZ float64) float64 {
	nx := (worldX/s.cfg.Scale + s.cfg.OffsetX) * s.cfg.Frequency
	nz := (worldZ/s.cfg.Scale + s.cfg.OffsetZ) * s.cfg.Frequency
	return s.fbm.Noise2D(nx, nz)
}

// Sample fills a size*size grid whose sample (0,0) sits at world (originX, originZ)
// and whose samples are cellSize world units apart. Neighbouring tiles that share
// an edge in world space produce identical samples along it.
func (s *Sampler) Sample(originX, originZ float64, size int, cellSize float64) (*HeightField, error) {
	hf, err := New(size)
	if err != nil {
		return nil, err
	}
	for y := 0; y < size; y++ {
		wz := originZ + float64(y)*cellSize
		row := hf.Heights[y*size : (y+1)*size]
		for x := range row {
			row[x] = float32(s.Noise(originX+float64(x)*cellSize, wz))
		}
	}
	return hf, nil
}
