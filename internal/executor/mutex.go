package executor

import (
	"context"
	"sync"

	"github.com/wesleyorama2/listbench/internal/sortedset"
	"github.com/wesleyorama2/listbench/internal/workload"
)

// Mutex guards the whole set with one exclusive lock.
//
// Every operation, reads included, holds the lock for its entire traversal
// and any mutation, so all operations are mutually exclusive and the run is
// linearizable. A fresh lock is created per run.
type Mutex struct{}

// NewMutex creates a mutex executor.
func NewMutex() *Mutex {
	return &Mutex{}
}

// Mode returns ModeMutex.
func (e *Mutex) Mode() Mode {
	return ModeMutex
}

// Run applies the workload to set from cfg.Threads workers.
func (e *Mutex) Run(ctx context.Context, set *sortedset.Set, cfg *Config) (*Result, error) {
	if err := prepare(ctx, e.Mode(), set, cfg); err != nil {
		return nil, err
	}

	var mu sync.Mutex

	return runWorkers(ModeMutex, set, cfg, cfg.Threads, func(worker int, stream *workload.Stream, stats *WorkerStats) {
		for op, ok := stream.Next(); ok; op, ok = stream.Next() {
			mu.Lock()
			apply(set, op, stats)
			if cfg.OnApply != nil {
				cfg.OnApply(worker, op)
			}
			mu.Unlock()
		}
	}), nil
}

// Ensure Mutex implements Executor
var _ Executor = (*Mutex)(nil)
