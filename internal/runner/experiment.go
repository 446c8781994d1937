// Package runner populates sets, drives executors and sweeps the benchmark
// matrix of modes, cases, thread counts and repetitions.
package runner

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/wesleyorama2/listbench/internal/executor"
	"github.com/wesleyorama2/listbench/internal/sortedset"
	"github.com/wesleyorama2/listbench/internal/workload"
)

// Experiment is one timed run: a fresh set of InitialSize keys, one executor
// and one operation mix.
type Experiment struct {
	Mode        executor.Mode `json:"mode" yaml:"mode"`
	Case        int           `json:"case" yaml:"case"`
	Threads     int           `json:"threads" yaml:"threads"`
	Run         int           `json:"run" yaml:"run"`
	Spec        workload.Spec `json:"spec" yaml:"spec"`
	InitialSize int           `json:"initialSize" yaml:"initialSize"`
	KeySpace    int           `json:"keySpace" yaml:"keySpace"`
	Capacity    int           `json:"capacity,omitempty" yaml:"capacity,omitempty"`
	Seed        int64         `json:"seed" yaml:"seed"`
}

// Populate inserts exactly n distinct keys drawn uniformly from
// [0, keySpace). Duplicate draws are retried.
func Populate(set *sortedset.Set, n, keySpace int, rng *rand.Rand) error {
	if keySpace <= 0 {
		keySpace = workload.DefaultKeySpace
	}
	if n > keySpace {
		return fmt.Errorf("cannot populate %d distinct keys from a key space of %d", n, keySpace)
	}

	for inserted := 0; inserted < n; {
		switch set.Insert(rng.Intn(keySpace)) {
		case sortedset.Inserted:
			inserted++
		case sortedset.AllocationFailed:
			return fmt.Errorf("population stopped at %d of %d keys: %s", inserted, n, sortedset.AllocationFailed)
		}
	}
	return nil
}

// RunExperiment builds a set, populates it and runs exec over it. Only the
// executor's worker phase is timed; population and teardown are not.
//
// exec must implement exp.Mode, otherwise a *executor.ModeMismatchError is
// returned and the set is never touched by workers.
func RunExperiment(ctx context.Context, exec executor.Executor, exp Experiment) (*executor.Result, error) {
	var opts []sortedset.Option
	if exp.Capacity > 0 {
		opts = append(opts, sortedset.WithCapacity(exp.Capacity))
	}
	set := sortedset.New(opts...)
	defer set.Teardown()

	rng := rand.New(rand.NewSource(exp.Seed))
	if err := Populate(set, exp.InitialSize, exp.KeySpace, rng); err != nil {
		return nil, fmt.Errorf("failed to populate set: %w", err)
	}
	log.Debugf("populated %d keys for %s case %d with %d threads (run %d)",
		set.Len(), exp.Mode, exp.Case, exp.Threads, exp.Run)

	result, err := exec.Run(ctx, set, &executor.Config{
		Mode:     exp.Mode,
		Spec:     exp.Spec,
		Threads:  exp.Threads,
		KeySpace: exp.KeySpace,
		Seed:     exp.Seed,
	})
	if err != nil {
		return nil, err
	}

	log.Debugf("%s case %d with %d threads (run %d) took %dus, final size %d",
		exp.Mode, exp.Case, result.Threads, exp.Run, result.ElapsedMicros(), result.FinalLen)
	return result, nil
}
