package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Faultbox/rtin-terrain/internal/terrain"
)

// Builder produces a chunk for a coordinate. Implementations are called from
// worker goroutines and must be safe for concurrent use.
type Builder interface {
	Generate(coord terrain.ChunkCoord) (*terrain.Chunk, error)
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(coord terrain.ChunkCoord) (*terrain.Chunk, error)

// Generate calls f(coord).
func (f BuilderFunc) Generate(coord terrain.ChunkCoord) (*terrain.Chunk, error) {
	return f(coord)
}

type result struct {
	coord   terrain.ChunkCoord
	chunk   *terrain.Chunk
	err     error
	elapsed time.Duration
}

// pool runs generation jobs on a fixed set of goroutines. The owner must keep
// at most cap() jobs outstanding; the results buffer is sized so workers never
// block on delivery.
type pool struct {
	builder Builder
	jobs    chan terrain.ChunkCoord
	results chan result
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	size    int
}

func newPool(builder Builder, workers, queueSize int) *pool {
	ctx, cancel := context.WithCancel(context.Background())
	p := &pool{
		builder: builder,
		jobs:    make(chan terrain.ChunkCoord, queueSize),
		results: make(chan result, workers+queueSize),
		ctx:     ctx,
		cancel:  cancel,
		size:    workers + queueSize,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// cap is the number of jobs that may be outstanding at once.
func (p *pool) cap() int {
	return p.size
}

func (p *pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case coord := <-p.jobs:
			// select picks randomly when both cases are ready; a job taken
			// after close must not run.
			if p.ctx.Err() != nil {
				return
			}
			p.results <- p.run(coord)
		}
	}
}

func (p *pool) run(coord terrain.ChunkCoord) (res result) {
	start := time.Now()
	res.coord = coord
	defer func() {
		if r := recover(); r != nil {
			res.chunk = nil
			res.err = fmt.Errorf("generating chunk %v panicked: %v", coord, r)
		}
		res.elapsed = time.Since(start)
	}()
	res.chunk, res.err = p.builder.Generate(coord)
	if res.err == nil && res.chunk == nil {
		res.err = fmt.Errorf("generating chunk %v: builder returned no chunk", coord)
	}
	return res
}

// trySubmit hands a job to the workers without blocking.
func (p *pool) trySubmit(coord terrain.ChunkCoord) bool {
	select {
	case p.jobs <- coord:
		return true
	default:
		return false
	}
}

// drain collects every finished job without blocking.
func (p *pool) drain() []result {
	var out []result
	for {
		select {
		case r := <-p.results:
			out = append(out, r)
		default:
			return out
		}
	}
}

// close stops the workers after their current job. Jobs still buffered are dropped.
func (p *pool) close() {
	p.cancel()
	p.wg.Wait()
}
