// rtintool is a CLI utility for inspecting RTIN triangle tables and the
// meshes extracted from generated terrain chunks.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Faultbox/rtin-terrain/internal/config"
	"github.com/Faultbox/rtin-terrain/internal/rtin"
	"github.com/Faultbox/rtin-terrain/internal/terrain"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "table":
		cmdTable(args)
	case "mesh":
		cmdMesh(args)
	case "sweep":
		cmdSweep(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`rtintool - RTIN terrain mesh utility

Usage:
  rtintool <command> [options]

Commands:
  table [-grid N] [-n K]               Show triangle table sizes and the first K triangles
  mesh [options] [-o file.json]        Generate one chunk and export its mesh as JSON
  sweep [options] [-steps N]           Compare triangle counts across precision levels

Chunk options (mesh, sweep):
  -grid N        Samples per side, 2^n+1 (default 257)
  -size W        Chunk world size (default 256)
  -seed S        Noise seed
  -octaves N     fBm octaves
  -basis B       Noise basis, perlin or simplex
  -x X -z Z      Chunk coordinate
  -precision P   Mesh precision in [0,1] (mesh only)
  -smooth        Smooth shading (mesh only)

Examples:
  rtintool table -grid 5 -n 8
  rtintool mesh -grid 65 -precision 0.8 -o chunk.json
  rtintool sweep -grid 129 -seed 7`)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func cmdTable(args []string) {
	fs := flag.NewFlagSet("table", flag.ExitOnError)
	grid := fs.Int("grid", 257, "Samples per side, 2^n+1")
	limit := fs.Int("n", 0, "Print the first N triangles")
	fs.Parse(args)

	start := time.Now()
	table, err := rtin.NewTable(*grid)
	if err != nil {
		fail("%v", err)
	}
	elapsed := time.Since(start)

	fmt.Printf("Grid size:        %d\n", table.GridSize())
	fmt.Printf("Tile size:        %d\n", table.GridSize()-1)
	fmt.Printf("Triangles:        %d\n", table.NumTriangles())
	fmt.Printf("Parent triangles: %d\n", table.NumParentTriangles())
	fmt.Printf("Leaf triangles:   %d\n", table.NumTriangles()-table.NumParentTriangles())
	fmt.Printf("Built in:         %v\n", elapsed)

	n := *limit
	if n > table.NumTriangles() {
		n = table.NumTriangles()
	}
	if n > 0 {
		fmt.Println()
		fmt.Printf("  %-6s %-11s %-11s %-11s\n", "index", "a", "b", "c")
	}
	for i := 0; i < n; i++ {
		ax, ay, bx, by, cx, cy := table.Triangle(i)
		fmt.Printf("  %-6d %-11s %-11s %-11s\n", i,
			fmt.Sprintf("(%d,%d)", ax, ay),
			fmt.Sprintf("(%d,%d)", bx, by),
			fmt.Sprintf("(%d,%d)", cx, cy))
	}
}

// chunkFlags registers the generator options shared by mesh and sweep.
type chunkFlags struct {
	cfg  *config.Config
	x, z *int
}

func newChunkFlags(fs *flag.FlagSet) *chunkFlags {
	cfg := config.Default()
	fs.IntVar(&cfg.Terrain.GridSize, "grid", cfg.Terrain.GridSize, "Samples per side, 2^n+1")
	fs.Func("size", "Chunk world size", func(s string) error {
		var w float32
		if _, err := fmt.Sscan(s, &w); err != nil {
			return err
		}
		cfg.Terrain.ChunkWorldSize = w
		return nil
	})
	fs.Int64Var(&cfg.Noise.Seed, "seed", cfg.Noise.Seed, "Noise seed")
	fs.IntVar(&cfg.Noise.Octaves, "octaves", cfg.Noise.Octaves, "fBm octaves")
	fs.StringVar(&cfg.Noise.Basis, "basis", cfg.Noise.Basis, "Noise basis: perlin or simplex")
	return &chunkFlags{
		cfg: cfg,
		x:   fs.Int("x", 0, "Chunk X coordinate"),
		z:   fs.Int("z", 0, "Chunk Z coordinate"),
	}
}

func (f *chunkFlags) coord() terrain.ChunkCoord {
	return terrain.ChunkCoord{X: *f.x, Z: *f.z}
}

func (f *chunkFlags) generator() *terrain.Generator {
	if err := f.cfg.Validate(); err != nil {
		fail("%v", err)
	}
	genCfg, err := f.cfg.GeneratorConfig()
	if err != nil {
		fail("%v", err)
	}
	gen, err := terrain.NewGenerator(genCfg)
	if err != nil {
		fail("%v", err)
	}
	return gen
}

func cmdMesh(args []string) {
	fs := flag.NewFlagSet("mesh", flag.ExitOnError)
	cf := newChunkFlags(fs)
	precision := fs.Float64("precision", float64(cf.cfg.Terrain.Precision), "Mesh precision in [0,1]")
	smooth := fs.Bool("smooth", false, "Smooth shading")
	output := fs.String("o", "", "Write JSON to file instead of stdout")
	fs.Parse(args)

	cf.cfg.Terrain.Precision = float32(*precision)
	if *smooth {
		cf.cfg.Terrain.Shading = terrain.ShadingSmooth.String()
	}
	gen := cf.generator()

	chunk, err := gen.Generate(cf.coord())
	if err != nil {
		fail("%v", err)
	}

	fmt.Fprintf(os.Stderr, "Chunk %v: %d triangles, %d vertices, max error %.3f, %v\n",
		chunk.Coord, chunk.Mesh.NumTriangles(), len(chunk.Mesh.Vertices), gen.MaxError(), chunk.Elapsed)

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fail("creating %s: %v", *output, err)
		}
		defer f.Close()
		out = f
	}
	if err := terrain.ExportJSON(out, chunk); err != nil {
		fail("writing mesh: %v", err)
	}
}

func cmdSweep(args []string) {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	cf := newChunkFlags(fs)
	steps := fs.Int("steps", 5, "Number of precision levels between 0 and 1")
	fs.Parse(args)

	if *steps < 2 {
		fail("steps must be at least 2")
	}

	cf.cfg.Terrain.Precision = 1
	gen := cf.generator()
	heights, err := gen.Heights(cf.coord())
	if err != nil {
		fail("%v", err)
	}
	table, err := rtin.TableFor(heights.Size)
	if err != nil {
		fail("%v", err)
	}

	start := time.Now()
	errs, err := table.ErrorMap(heights)
	if err != nil {
		fail("%v", err)
	}
	fmt.Printf("Chunk %v, grid %d, error map in %v\n\n", cf.coord(), heights.Size, time.Since(start))
	fmt.Printf("  %-10s %-10s %-10s %-10s %s\n", "precision", "max error", "triangles", "vertices", "time")

	base := cf.cfg.Terrain.BaseError
	for i := 0; i < *steps; i++ {
		p := float32(i) / float32(*steps-1)
		maxErr := terrain.MaxErrorForPrecision(base, p)

		start := time.Now()
		mesh := errs.Extract(maxErr)
		fmt.Printf("  %-10.2f %-10.3f %-10d %-10d %v\n",
			p, maxErr, mesh.NumTriangles(), len(mesh.Vertices), time.Since(start))
	}
}
