package executor

import (
	"context"

	"github.com/wesleyorama2/listbench/internal/sortedset"
	"github.com/wesleyorama2/listbench/internal/workload"
)

// Serial applies the whole workload from a single goroutine with no lock.
//
// It is the baseline for the locked disciplines. Whatever thread count the
// config carries, exactly one worker runs and its plan is computed for one
// worker, so it executes the full operation count.
type Serial struct{}

// NewSerial creates a serial executor.
func NewSerial() *Serial {
	return &Serial{}
}

// Mode returns ModeSerial.
func (e *Serial) Mode() Mode {
	return ModeSerial
}

// Run applies the workload to set.
func (e *Serial) Run(ctx context.Context, set *sortedset.Set, cfg *Config) (*Result, error) {
	if err := prepare(ctx, e.Mode(), set, cfg); err != nil {
		return nil, err
	}

	return runWorkers(ModeSerial, set, cfg, 1, func(worker int, stream *workload.Stream, stats *WorkerStats) {
		for op, ok := stream.Next(); ok; op, ok = stream.Next() {
			apply(set, op, stats)
			if cfg.OnApply != nil {
				cfg.OnApply(worker, op)
			}
		}
	}), nil
}

// Ensure Serial implements Executor
var _ Executor = (*Serial)(nil)
