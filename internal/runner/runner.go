package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wesleyorama2/listbench/internal/config"
	"github.com/wesleyorama2/listbench/internal/executor"
	"github.com/wesleyorama2/listbench/internal/metrics"
	"github.com/wesleyorama2/listbench/internal/workload"
)

// Progress describes one finished experiment.
type Progress struct {
	Experiment    Experiment
	Result        *executor.Result
	Completed     int
	Total         int
	ElapsedMicros uint64
}

// Report contains the complete sweep results.
type Report struct {
	// Sweep metadata
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	StartTime   time.Time     `json:"startTime" yaml:"startTime"`
	EndTime     time.Time     `json:"endTime" yaml:"endTime"`
	Duration    time.Duration `json:"duration" yaml:"duration"`

	// Seed is the configured base seed; 0 means clock-seeded
	Seed int64 `json:"seed" yaml:"seed"`

	// Experiments is the number of experiments that completed
	Experiments int `json:"experiments" yaml:"experiments"`

	// Complete is false when the sweep stopped early
	Complete bool `json:"complete" yaml:"complete"`

	Config *config.BenchConfig `json:"config" yaml:"config"`

	// Summaries has one entry per (mode, case, threads) in sweep order
	Summaries []metrics.Summary `json:"summaries" yaml:"summaries"`
}

// Runner sweeps every configured (mode, case, threads) series for the
// configured number of runs.
//
// Example usage:
//
//	cfg := config.Default()
//	r, _ := runner.New(cfg)
//	report, _ := r.Sweep(context.Background())
//	fmt.Println(len(report.Summaries))
type Runner struct {
	config    *config.BenchConfig
	recorder  *metrics.Recorder
	executors map[executor.Mode]executor.Executor
	modes     []executor.Mode

	onProgress func(Progress)

	mu        sync.RWMutex
	running   bool
	completed int
	total     int
}

// Option configures a Runner.
type Option func(*Runner)

// WithProgress sets a callback invoked after every experiment from the
// sweeping goroutine.
func WithProgress(fn func(Progress)) Option {
	return func(r *Runner) {
		r.onProgress = fn
	}
}

// WithRecorder sets the recorder samples are written to. Sweep resets it
// before the first experiment.
func WithRecorder(rec *metrics.Recorder) Option {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// WithExecutor overrides the executor used for mode.
func WithExecutor(mode executor.Mode, exec executor.Executor) Option {
	return func(r *Runner) {
		r.executors[mode] = exec
	}
}

// New creates a runner. Defaults are applied to cfg and it is validated.
func New(cfg *config.BenchConfig, opts ...Option) (*Runner, error) {
	config.ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	modes, err := cfg.ExecutorModes()
	if err != nil {
		return nil, err
	}

	r := &Runner{
		config:    cfg,
		recorder:  metrics.NewRecorder(),
		executors: make(map[executor.Mode]executor.Executor),
		modes:     modes,
	}
	for _, mode := range modes {
		exec, err := executor.NewExecutor(mode)
		if err != nil {
			return nil, err
		}
		r.executors[mode] = exec
	}

	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Plan returns every experiment of the sweep in execution order. Serial mode
// is planned once per case with a single thread. Experiment seeds are
// derived from the configured seed, or left zero when clock seeding is used.
func (r *Runner) Plan() []Experiment {
	cfg := r.config
	var plan []Experiment

	for _, mode := range r.modes {
		threads := cfg.Threads
		if mode == executor.ModeSerial {
			threads = []int{1}
		}

		for _, cs := range cfg.Cases {
			for _, t := range threads {
				for run := 0; run < cfg.Runs; run++ {
					exp := Experiment{
						Mode:        mode,
						Case:        cs.Number,
						Threads:     t,
						Run:         run,
						Spec:        cs.Spec(cfg.Operations),
						InitialSize: cfg.Population(),
						KeySpace:    cfg.KeySpace,
						Capacity:    cfg.Capacity,
					}
					if cfg.Seed != 0 {
						exp.Seed = workload.SeedFor(cfg.Seed, len(plan))
					}
					plan = append(plan, exp)
				}
			}
		}
	}
	return plan
}

// Sweep runs the whole plan sequentially, recording each elapsed time.
//
// The recorder is reset when the sweep starts.
// Cancellation is observed between experiments; a started experiment always
// completes. On cancellation the partial report is returned along with the
// context error. A *executor.ModeMismatchError aborts the sweep immediately.
func (r *Runner) Sweep(ctx context.Context) (*Report, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil, fmt.Errorf("runner is already running")
	}
	plan := r.Plan()
	r.running = true
	r.completed = 0
	r.total = len(plan)
	r.mu.Unlock()

	r.recorder.Reset()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	start := time.Now()
	log.Debugf("starting sweep %q: %d experiments", r.config.Name, len(plan))

	var sweepErr error
	completed := 0
	for _, exp := range plan {
		if err := ctx.Err(); err != nil {
			sweepErr = err
			break
		}
		if exp.Seed == 0 {
			exp.Seed = workload.NewSeed()
		}

		result, err := RunExperiment(ctx, r.executors[exp.Mode], exp)
		if err != nil {
			var mismatch *executor.ModeMismatchError
			if errors.As(err, &mismatch) {
				return nil, err
			}
			sweepErr = fmt.Errorf("%s case %d with %d threads (run %d): %w", exp.Mode, exp.Case, exp.Threads, exp.Run, err)
			break
		}

		elapsed := result.ElapsedMicros()
		r.recorder.Record(metrics.Key{Mode: string(exp.Mode), Case: exp.Case, Threads: result.Threads}, elapsed)

		completed++
		r.mu.Lock()
		r.completed = completed
		r.mu.Unlock()

		if r.onProgress != nil {
			r.onProgress(Progress{
				Experiment:    exp,
				Result:        result,
				Completed:     completed,
				Total:         len(plan),
				ElapsedMicros: elapsed,
			})
		}
	}

	end := time.Now()
	report := &Report{
		Name:        r.config.Name,
		Description: r.config.Description,
		StartTime:   start,
		EndTime:     end,
		Duration:    end.Sub(start),
		Seed:        r.config.Seed,
		Experiments: completed,
		Complete:    completed == len(plan),
		Config:      r.config,
		Summaries:   r.recorder.Summaries(),
	}

	log.Debugf("sweep %q finished %d/%d experiments in %v", r.config.Name, completed, len(plan), report.Duration)
	return report, sweepErr
}

// Recorder returns the recorder samples are written to.
func (r *Runner) Recorder() *metrics.Recorder {
	return r.recorder
}

// Config returns the validated configuration.
func (r *Runner) Config() *config.BenchConfig {
	return r.config
}

// IsRunning returns true if a sweep is in progress.
func (r *Runner) IsRunning() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.running
}

// GetProgress returns the sweep progress (0.0 to 1.0).
func (r *Runner) GetProgress() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.total == 0 {
		return 0.0
	}
	return float64(r.completed) / float64(r.total)
}
