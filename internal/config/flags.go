package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagSeed      = flag.Int64("seed", 0, "Noise seed (0 keeps the configured seed)")
	flagRadius    = flag.Int("radius", -1, "View radius in chunks")
	flagGridSize  = flag.Int("grid-size", 0, "Samples per chunk side, 2^n+1")
	flagPrecision = flag.Float64("precision", -1, "Mesh precision in [0,1]")
	flagSmooth    = flag.Bool("smooth", false, "Use smooth shading")
	flagEvict     = flag.Bool("evict", false, "Evict chunks that leave the view window")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSeed != 0 {
		cfg.Noise.Seed = *flagSeed
	}
	if *flagRadius >= 0 {
		cfg.Streaming.ViewRadius = *flagRadius
	}
	if *flagGridSize > 0 {
		cfg.Terrain.GridSize = *flagGridSize
	}
	if *flagPrecision >= 0 {
		cfg.Terrain.Precision = float32(*flagPrecision)
	}
	if *flagSmooth {
		cfg.Terrain.Shading = "smooth"
	}
	if *flagEvict {
		cfg.Streaming.Eviction.Enabled = true
	}
}
