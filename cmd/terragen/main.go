// Package main is a headless host for the chunk streamer. It walks a viewpoint
// across the terrain, streams chunks around it and optionally writes every
// attached chunk mesh to disk as JSON.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/rtin-terrain/internal/config"
	"github.com/Faultbox/rtin-terrain/internal/logger"
	"github.com/Faultbox/rtin-terrain/internal/stream"
	"github.com/Faultbox/rtin-terrain/internal/terrain"
	"github.com/Faultbox/rtin-terrain/pkg/math"
)

var (
	flagTicks    = flag.Int("ticks", 600, "Number of control ticks to run")
	flagInterval = flag.Duration("interval", 16*time.Millisecond, "Time between ticks")
	flagSpeed    = flag.Float64("speed", 4, "Viewpoint speed in world units per tick")
	flagHeading  = flag.Float64("heading", 0, "Viewpoint heading in degrees from +X towards +Z")
	flagExport   = flag.String("export", "", "Directory to write attached chunk meshes to")
	flagSettle   = flag.Duration("settle", 10*time.Second, "Maximum time to wait for pending chunks after the last tick")
	flagWriteCfg = flag.String("write-config", "", "Write the effective config to this path and exit")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *flagWriteCfg != "" {
		if err := cfg.SaveTo(*flagWriteCfg); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config written to %s\n", *flagWriteCfg)
		return
	}

	logger.Info("=== RTIN terrain streamer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	genCfg, err := cfg.GeneratorConfig()
	if err != nil {
		logger.Error("invalid terrain config", zap.Error(err))
		os.Exit(1)
	}
	gen, err := terrain.NewGenerator(genCfg)
	if err != nil {
		logger.Error("failed to create generator", zap.Error(err))
		os.Exit(1)
	}

	scene, err := newExportScene(*flagExport)
	if err != nil {
		logger.Error("failed to prepare export directory", zap.Error(err))
		os.Exit(1)
	}

	opts := cfg.StreamOptions()
	opts.Logger = logger.Named("stream")
	ctrl := stream.New(gen, scene, opts)
	defer ctrl.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, ctrl, walker(*flagSpeed, *flagHeading)); err != nil {
		logger.Warn("stopped early", zap.Error(err))
	}

	s := ctrl.Stats()
	logger.Info("streaming finished",
		zap.Stringer("center", s.Center),
		zap.Int("resident", s.Resident),
		zap.Int("evicted", s.Evicted),
		zap.Int("failed", s.Failed),
		zap.Int("pending", ctrl.Pending()),
		zap.Int("exported", scene.exported))
}

// walker returns the viewpoint for each tick along a straight line.
func walker(speed, headingDeg float64) func(tick int) math.Vec3 {
	dir := math.Heading(math.Radians(float32(headingDeg))).Scale(float32(speed))
	return func(tick int) math.Vec3 {
		p := dir.Scale(float32(tick))
		return math.Vec3{X: p.X, Z: p.Y}
	}
}

// run ticks the controller along path, then keeps polling until the window is
// complete or the settle timeout expires.
func run(ctx context.Context, ctrl *stream.Controller, path func(int) math.Vec3) error {
	ticker := time.NewTicker(*flagInterval)
	defer ticker.Stop()

	var pos math.Vec3
	for tick := 0; tick < *flagTicks; tick++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		pos = path(tick)
		ctrl.Update(pos)
		if h, ok := ctrl.HeightAt(pos.X, pos.Z); ok && tick%60 == 0 {
			logger.Debug("viewpoint",
				zap.Int("tick", tick),
				zap.Float32("x", pos.X),
				zap.Float32("z", pos.Z),
				zap.Float32("ground", h))
		}
	}

	settle, cancel := context.WithTimeout(ctx, *flagSettle)
	defer cancel()
	for ctrl.Pending() > 0 {
		select {
		case <-settle.Done():
			return fmt.Errorf("%d chunks still pending: %w", ctrl.Pending(), settle.Err())
		case <-ticker.C:
		}
		ctrl.Update(pos)
	}
	return nil
}

// exportScene logs attachments and, when dir is set, writes each attached
// chunk to dir/chunk_<x>_<z>.json.
type exportScene struct {
	dir      string
	log      *zap.Logger
	exported int
}

func newExportScene(dir string) (*exportScene, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return &exportScene{dir: dir, log: logger.Named("scene")}, nil
}

func (s *exportScene) Attach(c *terrain.Chunk) {
	s.log.Info("attached",
		zap.Stringer("coord", c.Coord),
		zap.Int("triangles", c.Mesh.NumTriangles()),
		zap.Duration("elapsed", c.Elapsed))
	if s.dir == "" {
		return
	}

	path := filepath.Join(s.dir, fmt.Sprintf("chunk_%d_%d.json", c.Coord.X, c.Coord.Z))
	if err := writeChunk(path, c); err != nil {
		s.log.Error("export failed", zap.String("path", path), zap.Error(err))
		return
	}
	s.exported++
}

func (s *exportScene) Detach(c *terrain.Chunk) {
	s.log.Info("detached", zap.Stringer("coord", c.Coord))
}

func writeChunk(path string, c *terrain.Chunk) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := terrain.ExportJSON(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
