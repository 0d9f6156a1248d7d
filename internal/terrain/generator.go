package terrain

import (
	"errors"
	"fmt"
	"time"

	"github.com/chewxy/math32"

	"github.com/Faultbox/rtin-terrain/internal/heightfield"
	"github.com/Faultbox/rtin-terrain/internal/rtin"
	"github.com/Faultbox/rtin-terrain/pkg/math"
)

// ErrInvalidGenerator reports a generator configuration that cannot produce chunks.
var ErrInvalidGenerator = errors.New("invalid generator configuration")

// GeneratorConfig holds everything needed to build one chunk from its coordinate.
type GeneratorConfig struct {
	GridSize         int     // Samples per tile edge, 2^n+1
	ChunkWorldSize   float32 // World extent of one tile edge
	HeightMultiplier float32 // Applied to raw noise; 0 flattens the terrain
	BaseError        float32 // maxError at precision 0
	Precision        float32 // 0 = coarsest, 1 = full detail
	Shading          Shading
	Noise            heightfield.SamplerConfig
}

// MaxErrorForPrecision maps a quality setting in [0,1] to an error threshold.
// Precision 1 gives zero tolerance, precision 0 gives baseError.
func MaxErrorForPrecision(baseError, precision float32) float32 {
	precision = math32.Max(0, math32.Min(1, precision))
	return baseError * (1 - precision)
}

// Generator runs Sampler -> ErrorMap -> Extract -> BuildMesh for a coordinate.
// It holds only immutable state and may be called from many goroutines.
type Generator struct {
	cfg      GeneratorConfig
	table    *rtin.Table
	sampler  *heightfield.Sampler
	maxError float32
	cellSize float32
}

// NewGenerator validates cfg and prepares the shared triangle table.
// The grid size is checked before any table or noise work happens.
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	if !heightfield.ValidSize(cfg.GridSize) {
		return nil, fmt.Errorf("%w: got %d", rtin.ErrInvalidGridSize, cfg.GridSize)
	}
	if cfg.ChunkWorldSize <= 0 {
		return nil, fmt.Errorf("%w: chunk world size must be > 0, got %g", ErrInvalidGenerator, cfg.ChunkWorldSize)
	}
	if cfg.BaseError < 0 {
		return nil, fmt.Errorf("%w: base error must be >= 0, got %g", ErrInvalidGenerator, cfg.BaseError)
	}

	table, err := rtin.TableFor(cfg.GridSize)
	if err != nil {
		return nil, err
	}
	sampler, err := heightfield.NewSampler(cfg.Noise)
	if err != nil {
		return nil, fmt.Errorf("creating sampler: %w", err)
	}

	return &Generator{
		cfg:      cfg,
		table:    table,
		sampler:  sampler,
		maxError: MaxErrorForPrecision(cfg.BaseError, cfg.Precision),
		cellSize: cfg.ChunkWorldSize / float32(cfg.GridSize-1),
	}, nil
}

// ChunkWorldSize returns the world extent of one tile edge.
func (g *Generator) ChunkWorldSize() float32 { return g.cfg.ChunkWorldSize }

// MaxError returns the extraction threshold derived from the precision.
func (g *Generator) MaxError() float32 { return g.maxError }

// CellSize returns the world distance between neighbouring samples.
func (g *Generator) CellSize() float32 { return g.cellSize }

// Origin returns the world position of the chunk centre.
func (g *Generator) Origin(coord ChunkCoord) math.Vec3 {
	return math.Vec3{
		X: float32(coord.X) * g.cfg.ChunkWorldSize,
		Z: float32(coord.Z) * g.cfg.ChunkWorldSize,
	}
}

// Heights samples the scaled height field for a coordinate.
func (g *Generator) Heights(coord ChunkCoord) (*heightfield.HeightField, error) {
	origin := g.Origin(coord)
	half := float64(g.cfg.ChunkWorldSize) / 2

	hf, err := g.sampler.Sample(
		float64(origin.X)-half,
		float64(origin.Z)-half,
		g.cfg.GridSize,
		float64(g.cellSize),
	)
	if err != nil {
		return nil, err
	}
	if g.cfg.HeightMultiplier != 1 {
		hf.Scale(g.cfg.HeightMultiplier)
	}
	return hf, nil
}

// Generate runs the full pipeline for one coordinate. Stages run strictly in order.
func (g *Generator) Generate(coord ChunkCoord) (*Chunk, error) {
	start := time.Now()

	hf, err := g.Heights(coord)
	if err != nil {
		return nil, fmt.Errorf("sampling chunk %v: %w", coord, err)
	}
	errs, err := g.table.ErrorMap(hf)
	if err != nil {
		return nil, fmt.Errorf("error map for chunk %v: %w", coord, err)
	}
	data := errs.Extract(g.maxError)
	mesh := BuildMesh(data, MeshOptions{Shading: g.cfg.Shading, CellSize: g.cellSize})

	return &Chunk{
		Coord:    coord,
		Position: g.Origin(coord),
		Mesh:     mesh,
		Heights:  hf,
		CellSize: g.cellSize,
		Elapsed:  time.Since(start),
	}, nil
}
