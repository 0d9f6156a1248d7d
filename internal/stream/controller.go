package stream

import (
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Faultbox/rtin-terrain/internal/terrain"
	"github.com/Faultbox/rtin-terrain/pkg/math"
)

// Scene is the host collaborator that receives finished chunks.
// Both methods are called from the goroutine driving Update.
type Scene interface {
	Attach(chunk *terrain.Chunk)
	Detach(chunk *terrain.Chunk)
}

// EvictionOptions controls whether resident chunks outside the window are detached.
type EvictionOptions struct {
	Enabled bool
	// Margin widens the keep-alive square beyond the view radius.
	Margin int
}

// Options configures a Controller.
type Options struct {
	ViewRadius     int
	ChunkWorldSize float32
	Workers        int // 0 means runtime.NumCPU()
	QueueSize      int // Jobs buffered ahead of the workers
	// MaxDispatchPerTick caps submissions per Update; 0 means no cap.
	MaxDispatchPerTick int
	// MaxDispatchPerSecond throttles submissions over wall time; 0 means no limit.
	MaxDispatchPerSecond float64
	Eviction             EvictionOptions
	Logger               *zap.Logger
}

// Stats is a snapshot of the controller's bookkeeping.
type Stats struct {
	Center     terrain.ChunkCoord
	Window     int
	Queued     int
	Generating int
	Resident   int
	Evicted    int
	Failed     int
	Dispatched int
	Completed  int
}

// Controller owns the chunk window, the per-coordinate state machine and the
// resident set. It is not safe for concurrent use: call every method from the
// host's tick goroutine. Workers only ever see coordinates and return chunks.
type Controller struct {
	opts    Options
	scene   Scene
	log     *zap.Logger
	pool    *pool
	limiter *rate.Limiter

	center    terrain.ChunkCoord
	hasCenter bool
	window    []terrain.ChunkCoord
	inWindow  map[terrain.ChunkCoord]struct{}

	states   map[terrain.ChunkCoord]State
	queue    []terrain.ChunkCoord // StateQueued, nearest first
	resident map[terrain.ChunkCoord]*terrain.Chunk
	inFlight int

	dispatched int
	completed  int
}

// New starts the worker pool and returns an idle controller. The first
// Update computes the window.
func New(builder Builder, scene Scene, opts Options) *Controller {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.QueueSize < 0 {
		opts.QueueSize = 0
	}
	if opts.ViewRadius < 0 {
		opts.ViewRadius = 0
	}
	if opts.ChunkWorldSize <= 0 {
		opts.ChunkWorldSize = 1
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	c := &Controller{
		opts:     opts,
		scene:    scene,
		log:      log,
		pool:     newPool(builder, opts.Workers, opts.QueueSize),
		inWindow: make(map[terrain.ChunkCoord]struct{}),
		states:   make(map[terrain.ChunkCoord]State),
		resident: make(map[terrain.ChunkCoord]*terrain.Chunk),
	}
	if opts.MaxDispatchPerSecond > 0 {
		burst := int(opts.MaxDispatchPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.MaxDispatchPerSecond), burst)
	}
	return c
}

// Update runs one control tick for the current viewpoint: it moves the window
// if the viewpoint changed chunk, submits queued work and integrates finished
// jobs. It returns the chunks that became resident during this tick.
func (c *Controller) Update(viewpoint math.Vec3) []*terrain.Chunk {
	coord := ChunkCoordAt(viewpoint, c.opts.ChunkWorldSize)
	if !c.hasCenter || coord != c.center {
		c.moveWindow(coord)
	}
	c.dispatch()
	return c.Poll()
}

// moveWindow recomputes the window around center and requeues what is missing.
func (c *Controller) moveWindow(center terrain.ChunkCoord) {
	prev := c.center
	had := c.hasCenter
	c.center = center
	c.hasCenter = true
	c.window = WindowAround(center, c.opts.ViewRadius)

	clear(c.inWindow)
	for _, coord := range c.window {
		c.inWindow[coord] = struct{}{}
	}

	if had {
		c.log.Debug("viewpoint changed chunk",
			zap.Stringer("from", prev),
			zap.Stringer("to", center))
	}

	// Backlog that has not reached a worker yet is dropped when it leaves
	// the window; submitted jobs always run to completion.
	queue := c.queue[:0]
	for _, coord := range c.queue {
		if _, ok := c.inWindow[coord]; ok {
			queue = append(queue, coord)
		} else {
			delete(c.states, coord)
		}
	}
	c.queue = queue

	for _, coord := range c.window {
		if c.State(coord).needsRequest() {
			c.states[coord] = StateQueued
			c.queue = append(c.queue, coord)
		}
	}
	c.sortQueue()

	if c.opts.Eviction.Enabled {
		c.Evict()
	}
}

func (c *Controller) sortQueue() {
	center := c.center
	sort.SliceStable(c.queue, func(i, j int) bool {
		a, b := c.queue[i], c.queue[j]
		ra, rb := a.Chebyshev(center), b.Chebyshev(center)
		if ra != rb {
			return ra < rb
		}
		return distSq(a, center) < distSq(b, center)
	})
}

// dispatch submits queued coordinates while workers have room and the
// per-tick and per-second budgets allow.
func (c *Controller) dispatch() {
	sent := 0
	for len(c.queue) > 0 && c.inFlight < c.pool.cap() {
		if c.opts.MaxDispatchPerTick > 0 && sent >= c.opts.MaxDispatchPerTick {
			break
		}
		var res *rate.Reservation
		if c.limiter != nil {
			res = c.limiter.Reserve()
			if !res.OK() || res.Delay() > 0 {
				res.Cancel()
				break
			}
		}

		coord := c.queue[0]
		if !c.pool.trySubmit(coord) {
			// Give the token back; the job did not go out.
			if res != nil {
				res.Cancel()
			}
			break
		}
		c.queue = c.queue[1:]
		c.states[coord] = StateGenerating
		c.inFlight++
		c.dispatched++
		sent++

		c.log.Debug("chunk dispatched", zap.Stringer("coord", coord))
	}
}

// Poll integrates every finished job without blocking. Chunks are attached in
// the order their jobs are discovered, including chunks whose coordinate left
// the window while they were generating.
func (c *Controller) Poll() []*terrain.Chunk {
	var attached []*terrain.Chunk
	for _, res := range c.pool.drain() {
		c.inFlight--

		if res.err != nil {
			c.states[res.coord] = StateFailed
			c.log.Error("chunk generation failed",
				zap.Stringer("coord", res.coord),
				zap.Error(res.err))
			continue
		}

		c.states[res.coord] = StateResident
		c.resident[res.coord] = res.chunk
		c.completed++
		if c.scene != nil {
			c.scene.Attach(res.chunk)
		}
		attached = append(attached, res.chunk)

		fields := []zap.Field{
			zap.Stringer("coord", res.coord),
			zap.Duration("elapsed", res.elapsed),
		}
		if res.chunk != nil && res.chunk.Mesh != nil {
			fields = append(fields,
				zap.Int("triangles", res.chunk.Mesh.NumTriangles()),
				zap.Int("vertices", len(res.chunk.Mesh.Vertices)))
		}
		c.log.Debug("chunk resident", fields...)
	}
	return attached
}

// EvictionCandidates returns resident coordinates farther than the view
// radius plus eviction margin from the current centre, nearest first.
func (c *Controller) EvictionCandidates() []terrain.ChunkCoord {
	keep := c.opts.ViewRadius + c.opts.Eviction.Margin
	var out []terrain.ChunkCoord
	for coord := range c.resident {
		if coord.Chebyshev(c.center) > keep {
			out = append(out, coord)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		da, db := distSq(out[i], c.center), distSq(out[j], c.center)
		if da != db {
			return da < db
		}
		if out[i].Z != out[j].Z {
			return out[i].Z < out[j].Z
		}
		return out[i].X < out[j].X
	})
	return out
}

// Evict detaches every eviction candidate and returns how many were removed.
// Update calls it on each window change when eviction is enabled.
func (c *Controller) Evict() int {
	candidates := c.EvictionCandidates()
	for _, coord := range candidates {
		chunk := c.resident[coord]
		delete(c.resident, coord)
		c.states[coord] = StateEvicted
		if c.scene != nil {
			c.scene.Detach(chunk)
		}
		c.log.Debug("chunk evicted", zap.Stringer("coord", coord))
	}
	return len(candidates)
}

// State returns the lifecycle state of a coordinate.
func (c *Controller) State(coord terrain.ChunkCoord) State {
	return c.states[coord]
}

// Center returns the chunk containing the last viewpoint.
func (c *Controller) Center() terrain.ChunkCoord {
	return c.center
}

// Window returns a copy of the current target window, nearest first.
func (c *Controller) Window() []terrain.ChunkCoord {
	out := make([]terrain.ChunkCoord, len(c.window))
	copy(out, c.window)
	return out
}

// Chunk returns the resident chunk at coord.
func (c *Controller) Chunk(coord terrain.ChunkCoord) (*terrain.Chunk, bool) {
	chunk, ok := c.resident[coord]
	return chunk, ok
}

// Resident returns the number of resident chunks.
func (c *Controller) Resident() int {
	return len(c.resident)
}

// Pending returns the number of coordinates queued or generating.
func (c *Controller) Pending() int {
	return len(c.queue) + c.inFlight
}

// HeightAt returns the terrain height under a world position if the chunk
// containing it is resident.
func (c *Controller) HeightAt(worldX, worldZ float32) (float32, bool) {
	coord := ChunkCoordAt(math.Vec3{X: worldX, Z: worldZ}, c.opts.ChunkWorldSize)
	chunk, ok := c.resident[coord]
	if !ok || chunk == nil {
		return 0, false
	}
	return chunk.HeightAt(worldX, worldZ), true
}

// Stats returns a snapshot of the controller's counters.
func (c *Controller) Stats() Stats {
	s := Stats{
		Center:     c.center,
		Window:     len(c.window),
		Queued:     len(c.queue),
		Generating: c.inFlight,
		Resident:   len(c.resident),
		Dispatched: c.dispatched,
		Completed:  c.completed,
	}
	for _, st := range c.states {
		switch st {
		case StateEvicted:
			s.Evicted++
		case StateFailed:
			s.Failed++
		}
	}
	return s
}

// Close stops the workers. Jobs that have not started are abandoned and
// nothing further is attached.
func (c *Controller) Close() {
	c.pool.close()
}
