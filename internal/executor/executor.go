// Package executor applies generated operation streams to a shared set under
// one of three locking disciplines and times the run.
package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wesleyorama2/listbench/internal/sortedset"
	"github.com/wesleyorama2/listbench/internal/workload"
)

// Mode identifies a locking discipline.
type Mode string

const (
	// ModeSerial applies every operation from one goroutine with no lock.
	ModeSerial Mode = "serial"

	// ModeMutex guards the whole set with one exclusive lock.
	ModeMutex Mode = "mutex"

	// ModeRWLock guards the whole set with one read-write lock; Member
	// takes it shared, Insert and Delete take it exclusive.
	ModeRWLock Mode = "rwlock"
)

// Modes returns every supported mode in reporting order.
func Modes() []Mode {
	return []Mode{ModeSerial, ModeMutex, ModeRWLock}
}

// ParseMode converts a mode name. The numeric program types 0, 1 and 2 are
// accepted as aliases.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "serial", "0":
		return ModeSerial, nil
	case "mutex", "1":
		return ModeMutex, nil
	case "rwlock", "rw", "2":
		return ModeRWLock, nil
	default:
		return "", fmt.Errorf("unknown mode: %s", s)
	}
}

// Label returns the mode name used in CSV records.
func (m Mode) Label() string {
	switch m {
	case ModeSerial:
		return "Serial"
	case ModeMutex:
		return "Mutex"
	case ModeRWLock:
		return "RWLock"
	default:
		return "Unknown"
	}
}

// Executor applies a workload to a shared set under one discipline.
type Executor interface {
	// Mode returns the discipline this executor implements.
	Mode() Mode

	// Run spawns the workers, applies their streams to set and blocks until
	// every worker has finished its full stream. The context is checked
	// only before workers start; a started run always completes.
	Run(ctx context.Context, set *sortedset.Set, cfg *Config) (*Result, error)
}

// Config contains the parameters of one run.
type Config struct {
	// Mode must match the executor's own mode.
	Mode Mode `json:"mode" yaml:"mode"`

	// Spec is the operation mix and total count.
	Spec workload.Spec `json:"spec" yaml:"spec"`

	// Threads is the number of workers.
	Threads int `json:"threads" yaml:"threads"`

	// KeySpace bounds generated keys; 0 selects workload.DefaultKeySpace.
	KeySpace int `json:"keySpace,omitempty" yaml:"keySpace,omitempty"`

	// Seed is the base seed for per-worker random sources.
	Seed int64 `json:"seed" yaml:"seed"`

	// OnApply, if set, is called for every operation while the
	// discipline's lock is held. Under ModeRWLock it may be called
	// concurrently for Member operations.
	OnApply func(worker int, op workload.Op) `json:"-" yaml:"-"`
}

// Validate validates the run configuration.
func (c *Config) Validate() error {
	if c.Mode == "" {
		return &ValidationError{Field: "mode", Message: "mode is required"}
	}
	if c.Threads <= 0 {
		return &ValidationError{Field: "threads", Message: "threads must be > 0"}
	}
	if c.KeySpace < 0 {
		return &ValidationError{Field: "keySpace", Message: "keySpace cannot be negative"}
	}
	if err := c.Spec.Validate(); err != nil {
		return &ValidationError{Field: "spec", Message: err.Error()}
	}
	return nil
}

// ValidationError represents a run configuration error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error on field '" + e.Field + "': " + e.Message
}

// ModeMismatchError reports an executor invoked with a mode it does not
// implement. It is a configuration defect, never a runtime condition, and
// callers treat it as fatal.
type ModeMismatchError struct {
	Expected Mode
	Got      Mode
}

func (e *ModeMismatchError) Error() string {
	return fmt.Sprintf("mode mismatch: %s executor invoked with mode %s", e.Expected, e.Got)
}

// WorkerStats tallies one worker's operations and their outcomes.
type WorkerStats struct {
	Worker int `json:"worker" yaml:"worker"`

	Members int `json:"members" yaml:"members"`
	Inserts int `json:"inserts" yaml:"inserts"`
	Deletes int `json:"deletes" yaml:"deletes"`

	Hits          int `json:"hits" yaml:"hits"`
	Inserted      int `json:"inserted" yaml:"inserted"`
	Duplicates    int `json:"duplicates" yaml:"duplicates"`
	AllocFailures int `json:"allocFailures" yaml:"allocFailures"`
	Deleted       int `json:"deleted" yaml:"deleted"`
	NotFound      int `json:"notFound" yaml:"notFound"`
}

// Ops returns the number of operations the worker executed.
func (w WorkerStats) Ops() int {
	return w.Members + w.Inserts + w.Deletes
}

func (w *WorkerStats) add(o WorkerStats) {
	w.Members += o.Members
	w.Inserts += o.Inserts
	w.Deletes += o.Deletes
	w.Hits += o.Hits
	w.Inserted += o.Inserted
	w.Duplicates += o.Duplicates
	w.AllocFailures += o.AllocFailures
	w.Deleted += o.Deleted
	w.NotFound += o.NotFound
}

// Result is the outcome of one run.
type Result struct {
	Mode      Mode          `json:"mode" yaml:"mode"`
	Threads   int           `json:"threads" yaml:"threads"`
	StartTime time.Time     `json:"startTime" yaml:"startTime"`
	Elapsed   time.Duration `json:"elapsed" yaml:"elapsed"`
	Workers   []WorkerStats `json:"workers" yaml:"workers"`
	FinalLen  int           `json:"finalLen" yaml:"finalLen"`
}

// ElapsedMicros returns the elapsed time in whole microseconds.
func (r *Result) ElapsedMicros() uint64 {
	if r.Elapsed < 0 {
		return 0
	}
	return uint64(r.Elapsed.Microseconds())
}

// Totals sums the worker tallies.
func (r *Result) Totals() WorkerStats {
	var total WorkerStats
	total.Worker = -1
	for _, w := range r.Workers {
		total.add(w)
	}
	return total
}

// apply performs op on set without locking and records the outcome.
func apply(set *sortedset.Set, op workload.Op, stats *WorkerStats) {
	switch op.Kind {
	case workload.Member:
		stats.Members++
		if set.Member(op.Key) {
			stats.Hits++
		}
	case workload.Insert:
		stats.Inserts++
		switch set.Insert(op.Key) {
		case sortedset.Inserted:
			stats.Inserted++
		case sortedset.Duplicate:
			stats.Duplicates++
		case sortedset.AllocationFailed:
			stats.AllocFailures++
		}
	case workload.Delete:
		stats.Deletes++
		if set.Delete(op.Key) == sortedset.Deleted {
			stats.Deleted++
		} else {
			stats.NotFound++
		}
	}
}

// workerFunc drains stream into set under a discipline.
type workerFunc func(worker int, stream *workload.Stream, stats *WorkerStats)

// prepare checks the invariants every executor shares before a run.
func prepare(ctx context.Context, own Mode, set *sortedset.Set, cfg *Config) error {
	if cfg == nil {
		return &ValidationError{Field: "config", Message: "config is required"}
	}
	if cfg.Mode != own {
		return &ModeMismatchError{Expected: own, Got: cfg.Mode}
	}
	if set == nil {
		return &ValidationError{Field: "set", Message: "set is required"}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return ctx.Err()
}

// runWorkers builds one stream per worker, then spawns the workers and
// joins them inside the timed region. Streams are built before the clock
// starts so the shuffle cost stays out of the measurement.
func runWorkers(mode Mode, set *sortedset.Set, cfg *Config, threads int, work workerFunc) *Result {
	gen := workload.NewGenerator(cfg.Spec, threads, cfg.KeySpace, cfg.Seed)

	streams := make([]*workload.Stream, threads)
	for i := range streams {
		streams[i] = gen.Stream(i)
	}
	stats := make([]WorkerStats, threads)

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			stats[worker].Worker = worker
			work(worker, streams[worker], &stats[worker])
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	return &Result{
		Mode:      mode,
		Threads:   threads,
		StartTime: start,
		Elapsed:   elapsed,
		Workers:   stats,
		FinalLen:  set.Len(),
	}
}
