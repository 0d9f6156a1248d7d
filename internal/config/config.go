// Package config handles terrain streamer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/Faultbox/rtin-terrain/internal/heightfield"
	"github.com/Faultbox/rtin-terrain/internal/stream"
	"github.com/Faultbox/rtin-terrain/internal/terrain"
)

// ErrInvalidConfig is returned by Validate for out-of-range settings.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all streamer settings.
type Config struct {
	Terrain   TerrainConfig   `yaml:"terrain"`
	Noise     NoiseConfig     `yaml:"noise"`
	Streaming StreamingConfig `yaml:"streaming"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// TerrainConfig holds per-chunk mesh settings.
type TerrainConfig struct {
	GridSize         int     `yaml:"grid_size"` // Samples per side, 2^n+1
	ChunkWorldSize   float32 `yaml:"chunk_world_size"`
	HeightMultiplier float32 `yaml:"height_multiplier"`
	BaseError        float32 `yaml:"base_error"`
	Precision        float32 `yaml:"precision"` // 0 coarsest, 1 full resolution
	Shading          string  `yaml:"shading"`   // flat or smooth
}

// NoiseConfig holds fBm parameters.
type NoiseConfig struct {
	Seed        int64   `yaml:"seed"`
	Frequency   float64 `yaml:"frequency"`
	Lacunarity  float64 `yaml:"lacunarity"`
	Persistence float64 `yaml:"persistence"`
	Octaves     int     `yaml:"octaves"`
	OffsetX     float64 `yaml:"offset_x"`
	OffsetZ     float64 `yaml:"offset_z"`
	Scale       float64 `yaml:"scale"`
	Basis       string  `yaml:"basis"` // perlin or simplex
}

// StreamingConfig holds chunk window and worker settings.
type StreamingConfig struct {
	ViewRadius           int            `yaml:"view_radius"`
	Workers              int            `yaml:"workers"`
	QueueSize            int            `yaml:"queue_size"`
	MaxDispatchPerTick   int            `yaml:"max_dispatch_per_tick"`
	MaxDispatchPerSecond float64        `yaml:"max_dispatch_per_second"`
	Eviction             EvictionConfig `yaml:"eviction"`
}

// EvictionConfig controls detaching chunks that left the window.
type EvictionConfig struct {
	Enabled bool `yaml:"enabled"`
	Margin  int  `yaml:"margin"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			GridSize:         257,
			ChunkWorldSize:   256,
			HeightMultiplier: 15,
			BaseError:        15,
			Precision:        0.5,
			Shading:          "flat",
		},
		Noise: NoiseConfig{
			Seed:        0,
			Frequency:   0.02,
			Lacunarity:  2,
			Persistence: 0.5,
			Octaves:     2,
			Scale:       1,
			Basis:       "perlin",
		},
		Streaming: StreamingConfig{
			ViewRadius: 2,
			Workers:    runtime.NumCPU(),
			QueueSize:  64,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks every setting and returns the first problem found.
func (c *Config) Validate() error {
	if !heightfield.ValidSize(c.Terrain.GridSize) {
		return fmt.Errorf("%w: terrain.grid_size %d is not 2^n+1", ErrInvalidConfig, c.Terrain.GridSize)
	}
	if c.Terrain.ChunkWorldSize <= 0 {
		return fmt.Errorf("%w: terrain.chunk_world_size must be positive", ErrInvalidConfig)
	}
	if c.Terrain.BaseError < 0 {
		return fmt.Errorf("%w: terrain.base_error must not be negative", ErrInvalidConfig)
	}
	if c.Terrain.Precision < 0 || c.Terrain.Precision > 1 {
		return fmt.Errorf("%w: terrain.precision %v outside [0,1]", ErrInvalidConfig, c.Terrain.Precision)
	}
	if _, err := terrain.ParseShading(c.Terrain.Shading); err != nil {
		return fmt.Errorf("%w: terrain.shading: %v", ErrInvalidConfig, err)
	}
	if c.Noise.Octaves < 1 {
		return fmt.Errorf("%w: noise.octaves must be >= 1", ErrInvalidConfig)
	}
	if _, err := heightfield.ParseBasis(c.Noise.Basis); err != nil {
		return fmt.Errorf("%w: noise.basis: %v", ErrInvalidConfig, err)
	}
	if c.Noise.Persistence <= 0 {
		return fmt.Errorf("%w: noise.persistence must be positive", ErrInvalidConfig)
	}
	if c.Streaming.ViewRadius < 0 {
		return fmt.Errorf("%w: streaming.view_radius must not be negative", ErrInvalidConfig)
	}
	if c.Streaming.Workers < 0 || c.Streaming.QueueSize < 0 || c.Streaming.MaxDispatchPerTick < 0 {
		return fmt.Errorf("%w: streaming worker settings must not be negative", ErrInvalidConfig)
	}
	if c.Streaming.MaxDispatchPerSecond < 0 {
		return fmt.Errorf("%w: streaming.max_dispatch_per_second must not be negative", ErrInvalidConfig)
	}
	if c.Streaming.Eviction.Margin < 0 {
		return fmt.Errorf("%w: streaming.eviction.margin must not be negative", ErrInvalidConfig)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error", "":
	default:
		return fmt.Errorf("%w: logging.level %q", ErrInvalidConfig, c.Logging.Level)
	}
	return nil
}

// GeneratorConfig converts the terrain and noise sections for terrain.NewGenerator.
func (c *Config) GeneratorConfig() (terrain.GeneratorConfig, error) {
	shading, err := terrain.ParseShading(c.Terrain.Shading)
	if err != nil {
		return terrain.GeneratorConfig{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	basis, err := heightfield.ParseBasis(c.Noise.Basis)
	if err != nil {
		return terrain.GeneratorConfig{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return terrain.GeneratorConfig{
		GridSize:         c.Terrain.GridSize,
		ChunkWorldSize:   c.Terrain.ChunkWorldSize,
		HeightMultiplier: c.Terrain.HeightMultiplier,
		BaseError:        c.Terrain.BaseError,
		Precision:        c.Terrain.Precision,
		Shading:          shading,
		Noise: heightfield.SamplerConfig{
			Seed:        c.Noise.Seed,
			Frequency:   c.Noise.Frequency,
			Lacunarity:  c.Noise.Lacunarity,
			Persistence: c.Noise.Persistence,
			Octaves:     c.Noise.Octaves,
			OffsetX:     c.Noise.OffsetX,
			OffsetZ:     c.Noise.OffsetZ,
			Scale:       c.Noise.Scale,
			Basis:       basis,
		},
	}, nil
}

// StreamOptions converts the streaming section for stream.New. The logger is
// left for the caller to set.
func (c *Config) StreamOptions() stream.Options {
	return stream.Options{
		ViewRadius:           c.Streaming.ViewRadius,
		ChunkWorldSize:       c.Terrain.ChunkWorldSize,
		Workers:              c.Streaming.Workers,
		QueueSize:            c.Streaming.QueueSize,
		MaxDispatchPerTick:   c.Streaming.MaxDispatchPerTick,
		MaxDispatchPerSecond: c.Streaming.MaxDispatchPerSecond,
		Eviction: stream.EvictionOptions{
			Enabled: c.Streaming.Eviction.Enabled,
			Margin:  c.Streaming.Eviction.Margin,
		},
	}
}
