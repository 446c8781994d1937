package executor

import (
	"context"
	"sync"

	"github.com/wesleyorama2/listbench/internal/sortedset"
	"github.com/wesleyorama2/listbench/internal/workload"
)

// RWLock guards the whole set with one read-write lock.
//
// Member takes the lock shared, so concurrent lookups overlap. Insert and
// Delete take it exclusive and exclude every other operation. The lock is
// held for one whole operation and never released mid-traversal.
type RWLock struct{}

// NewRWLock creates a read-write lock executor.
func NewRWLock() *RWLock {
	return &RWLock{}
}

// Mode returns ModeRWLock.
func (e *RWLock) Mode() Mode {
	return ModeRWLock
}

// Run applies the workload to set from cfg.Threads workers.
func (e *RWLock) Run(ctx context.Context, set *sortedset.Set, cfg *Config) (*Result, error) {
	if err := prepare(ctx, e.Mode(), set, cfg); err != nil {
		return nil, err
	}

	var rw sync.RWMutex

	return runWorkers(ModeRWLock, set, cfg, cfg.Threads, func(worker int, stream *workload.Stream, stats *WorkerStats) {
		for op, ok := stream.Next(); ok; op, ok = stream.Next() {
			if op.Kind == workload.Member {
				rw.RLock()
				apply(set, op, stats)
				if cfg.OnApply != nil {
					cfg.OnApply(worker, op)
				}
				rw.RUnlock()
				continue
			}

			rw.Lock()
			apply(set, op, stats)
			if cfg.OnApply != nil {
				cfg.OnApply(worker, op)
			}
			rw.Unlock()
		}
	}), nil
}

// Ensure RWLock implements Executor
var _ Executor = (*RWLock)(nil)
