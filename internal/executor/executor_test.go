package executor

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/listbench/internal/sortedset"
	"github.com/wesleyorama2/listbench/internal/workload"
)

var (
	case1 = workload.Spec{MemberFraction: 0.99, InsertFraction: 0.005, DeleteFraction: 0.005, TotalOps: 10000}
	case3 = workload.Spec{MemberFraction: 0.5, InsertFraction: 0.25, DeleteFraction: 0.25, TotalOps: 4000}
)

// populate fills a fresh set with n distinct keys from [0, keySpace).
func populate(t *testing.T, n, keySpace int, seed int64) *sortedset.Set {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	set := sortedset.New()
	for set.Len() < n {
		set.Insert(rng.Intn(keySpace))
	}
	return set
}

func TestRun_ModeMismatch(t *testing.T) {
	executors := []Executor{NewSerial(), NewMutex(), NewRWLock()}

	for _, exec := range executors {
		for _, mode := range Modes() {
			if mode == exec.Mode() {
				continue
			}
			t.Run(string(exec.Mode())+"/"+string(mode), func(t *testing.T) {
				set := sortedset.New()
				_, err := exec.Run(context.Background(), set, &Config{Mode: mode, Spec: case1, Threads: 1})

				var mismatch *ModeMismatchError
				require.True(t, errors.As(err, &mismatch), "error = %v, want ModeMismatchError", err)
				assert.Equal(t, exec.Mode(), mismatch.Expected)
				assert.Equal(t, mode, mismatch.Got)
				assert.Equal(t, 0, set.Len(), "set must not be touched on mismatch")
			})
		}
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	tests := []struct {
		name  string
		set   *sortedset.Set
		cfg   *Config
		field string
	}{
		{
			name:  "nil config",
			set:   sortedset.New(),
			cfg:   nil,
			field: "config",
		},
		{
			name:  "nil set",
			set:   nil,
			cfg:   &Config{Mode: ModeMutex, Spec: case1, Threads: 1},
			field: "set",
		},
		{
			name:  "zero threads",
			set:   sortedset.New(),
			cfg:   &Config{Mode: ModeMutex, Spec: case1},
			field: "threads",
		},
		{
			name:  "bad fractions",
			set:   sortedset.New(),
			cfg:   &Config{Mode: ModeMutex, Spec: workload.Spec{MemberFraction: 0.2, TotalOps: 10}, Threads: 1},
			field: "spec",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMutex().Run(context.Background(), tt.set, tt.cfg)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "error = %v, want ValidationError", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	set := populate(t, 10, 100, 1)
	_, err := NewRWLock().Run(ctx, set, &Config{Mode: ModeRWLock, Spec: case1, Threads: 2})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 10, set.Len())
}

func TestMutex_EveryWorkerRunsExactCounts(t *testing.T) {
	set := populate(t, 1000, workload.DefaultKeySpace, 11)

	result, err := NewMutex().Run(context.Background(), set, &Config{
		Mode:    ModeMutex,
		Spec:    case1,
		Threads: 4,
		Seed:    42,
	})
	require.NoError(t, err)

	assert.Equal(t, ModeMutex, result.Mode)
	assert.Equal(t, 4, result.Threads)
	require.Len(t, result.Workers, 4)
	for i, w := range result.Workers {
		assert.Equal(t, i, w.Worker)
		assert.Equal(t, 2475, w.Members, "worker %d members", i)
		assert.Equal(t, 12, w.Inserts, "worker %d inserts", i)
		assert.Equal(t, 12, w.Deletes, "worker %d deletes", i)
		assert.Equal(t, w.Inserts, w.Inserted+w.Duplicates+w.AllocFailures)
		assert.Equal(t, w.Deletes, w.Deleted+w.NotFound)
	}

	assert.Positive(t, result.ElapsedMicros())
	assert.NoError(t, set.Validate())

	totals := result.Totals()
	assert.Equal(t, 1000+totals.Inserted-totals.Deleted, result.FinalLen)
	assert.Equal(t, set.Len(), result.FinalLen)
}

func TestSerial_IgnoresThreadCount(t *testing.T) {
	set := populate(t, 100, workload.DefaultKeySpace, 3)

	result, err := NewSerial().Run(context.Background(), set, &Config{
		Mode:    ModeSerial,
		Spec:    case1,
		Threads: 8,
		Seed:    9,
	})
	require.NoError(t, err)

	require.Len(t, result.Workers, 1)
	assert.Equal(t, 1, result.Threads)
	assert.Equal(t, 9900, result.Workers[0].Members)
	assert.Equal(t, 50, result.Workers[0].Inserts)
	assert.Equal(t, 50, result.Workers[0].Deletes)
}

func TestSingleThreadMatchesSerial(t *testing.T) {
	for _, exec := range []Executor{NewMutex(), NewRWLock()} {
		t.Run(string(exec.Mode()), func(t *testing.T) {
			baseline := populate(t, 500, 4096, 21)
			locked := populate(t, 500, 4096, 21)
			require.Equal(t, baseline.Keys(), locked.Keys())

			_, err := NewSerial().Run(context.Background(), baseline, &Config{
				Mode: ModeSerial, Spec: case3, Threads: 1, KeySpace: 4096, Seed: 1234,
			})
			require.NoError(t, err)

			_, err = exec.Run(context.Background(), locked, &Config{
				Mode: exec.Mode(), Spec: case3, Threads: 1, KeySpace: 4096, Seed: 1234,
			})
			require.NoError(t, err)

			assert.Equal(t, baseline.Keys(), locked.Keys())
		})
	}
}

// opLog records mutations in the order they were applied under the lock.
type opLog struct {
	mu  sync.Mutex
	ops []workload.Op
}

func (l *opLog) record(_ int, op workload.Op) {
	if op.Kind == workload.Member {
		return
	}
	l.mu.Lock()
	l.ops = append(l.ops, op)
	l.mu.Unlock()
}

func TestLockedModes_Linearizable(t *testing.T) {
	for _, exec := range []Executor{NewMutex(), NewRWLock()} {
		t.Run(string(exec.Mode()), func(t *testing.T) {
			const keySpace = 512

			shared := populate(t, 200, keySpace, 5)
			replay := sortedset.New()
			for _, k := range shared.Keys() {
				replay.Insert(k)
			}

			log := &opLog{}
			result, err := exec.Run(context.Background(), shared, &Config{
				Mode:     exec.Mode(),
				Spec:     case3,
				Threads:  8,
				KeySpace: keySpace,
				Seed:     time.Now().UnixNano(),
				OnApply:  log.record,
			})
			require.NoError(t, err)

			totals := result.Totals()
			require.Len(t, log.ops, totals.Inserts+totals.Deletes)

			// The observed order of exclusive sections is one serial order;
			// replaying it alone must reproduce the concurrent outcome.
			for _, op := range log.ops {
				if op.Kind == workload.Insert {
					replay.Insert(op.Key)
				} else {
					replay.Delete(op.Key)
				}
			}

			require.NoError(t, shared.Validate())
			assert.Equal(t, replay.Keys(), shared.Keys())
		})
	}
}

func TestRWLock_MembersShareTheLock(t *testing.T) {
	set := populate(t, 50, 1024, 8)

	var inside atomic.Int32
	var overlapped atomic.Bool
	var first [2]sync.Once

	_, err := NewRWLock().Run(context.Background(), set, &Config{
		Mode:    ModeRWLock,
		Spec:    workload.Spec{MemberFraction: 1, TotalOps: 20},
		Threads: 2,
		Seed:    1,
		OnApply: func(worker int, op workload.Op) {
			first[worker].Do(func() {
				inside.Add(1)
				deadline := time.Now().Add(2 * time.Second)
				for time.Now().Before(deadline) {
					if inside.Load() == 2 {
						overlapped.Store(true)
						break
					}
					time.Sleep(time.Millisecond)
				}
			})
		},
	})
	require.NoError(t, err)
	assert.True(t, overlapped.Load(), "two Member operations never held the read lock together")
}

func TestRWLock_MembersOnZeroValueSet(t *testing.T) {
	set := &sortedset.Set{}

	result, err := NewRWLock().Run(context.Background(), set, &Config{
		Mode:    ModeRWLock,
		Spec:    workload.Spec{MemberFraction: 1, TotalOps: 800},
		Threads: 8,
		Seed:    3,
	})
	require.NoError(t, err)

	totals := result.Totals()
	assert.Equal(t, 800, totals.Members)
	assert.Zero(t, totals.Hits)
	assert.Zero(t, result.FinalLen)
	assert.NoError(t, set.Validate())
}

func TestAllocationFailuresAreCounted(t *testing.T) {
	set := sortedset.New(sortedset.WithCapacity(10))
	for i := 0; i < 10; i++ {
		set.Insert(i)
	}

	result, err := NewMutex().Run(context.Background(), set, &Config{
		Mode:     ModeMutex,
		Spec:     workload.Spec{InsertFraction: 1, TotalOps: 100},
		Threads:  2,
		KeySpace: 1 << 20,
		Seed:     3,
	})
	require.NoError(t, err)

	totals := result.Totals()
	assert.Equal(t, 100, totals.Inserts)
	assert.Equal(t, 0, totals.Inserted)
	assert.Equal(t, totals.Inserts, totals.Duplicates+totals.AllocFailures)
	assert.Positive(t, totals.AllocFailures)
	assert.Equal(t, 10, set.Len())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{input: "serial", want: ModeSerial},
		{input: "0", want: ModeSerial},
		{input: "mutex", want: ModeMutex},
		{input: "1", want: ModeMutex},
		{input: "rwlock", want: ModeRWLock},
		{input: "rw", want: ModeRWLock},
		{input: "2", want: ModeRWLock},
		{input: "spinlock", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMode_Label(t *testing.T) {
	assert.Equal(t, "Serial", ModeSerial.Label())
	assert.Equal(t, "Mutex", ModeMutex.Label())
	assert.Equal(t, "RWLock", ModeRWLock.Label())
	assert.Equal(t, "Unknown", Mode("other").Label())
}
