package renderer

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/df07/rayo/pkg/core"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile          *Tile
	PassNumber    int
	TargetSamples int
	PixelStats    [][]PixelStats // Shared pixel stats array to write to
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	Tile  *Tile
	Stats RenderStats
}

// WorkerPool renders tiles in parallel with a bounded number of goroutines
type WorkerPool struct {
	renderer   *TileRenderer
	numWorkers int
}

// NewWorkerPool creates a worker pool; numWorkers <= 0 uses the CPU count
func NewWorkerPool(renderer *TileRenderer, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		renderer:   renderer,
		numWorkers: numWorkers,
	}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run renders all tasks and calls onDone once per finished tile.
// onDone calls are serialized. Tiles not yet started when ctx is cancelled are skipped
// and the context error is returned.
func (wp *WorkerPool) Run(ctx context.Context, tasks []TileTask, onDone func(TileResult)) error {
	// Use errgroup and semaphore to limit concurrency.
	eg, egCtx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(wp.numWorkers))

	var mu sync.Mutex
	var acquireErr error

	for _, task := range tasks {
		if err := sem.Acquire(egCtx, 1); err != nil {
			acquireErr = fmt.Errorf("while acquiring concurrency limiter semaphore: %w", err)
			break
		}

		eg.Go(func() error {
			defer sem.Release(1)

			if err := egCtx.Err(); err != nil {
				return err
			}

			// Each tile owns its random stream, and tiles have disjoint bounds
			sampler := core.NewRandomSampler(task.Tile.Random)
			stats := wp.renderer.RenderTileBounds(task.Tile.Bounds, task.PixelStats, sampler, task.TargetSamples)

			mu.Lock()
			defer mu.Unlock()
			task.Tile.PassesCompleted++
			if onDone != nil {
				onDone(TileResult{Tile: task.Tile, Stats: stats})
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("while waiting for completion of errgroup: %w", err)
	}
	if acquireErr != nil {
		return acquireErr
	}
	return ctx.Err()
}
