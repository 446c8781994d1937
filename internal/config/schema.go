// Package config provides configuration parsing and validation for benchmark
// sweeps.
package config

import (
	"fmt"

	"github.com/wesleyorama2/listbench/internal/executor"
	"github.com/wesleyorama2/listbench/internal/workload"
)

// Defaults used by ApplyDefaults.
const (
	DefaultRuns        = 30
	DefaultOperations  = 10000
	DefaultInitialSize = 1000
	DefaultCSVPath     = "performance_results.csv"
)

// Int returns a pointer to n, for optional integer fields.
func Int(n int) *int {
	return &n
}

// DefaultThreads returns the thread counts swept when none are configured.
func DefaultThreads() []int {
	return []int{1, 2, 4, 8}
}

// BenchConfig is the root configuration for a benchmark sweep.
//
// Example YAML:
//
//	name: "read heavy"
//	modes: [mutex, rwlock]
//	cases:
//	  - number: 1
//	    member: 0.99
//	    insert: 0.005
//	    delete: 0.005
//	threads: [1, 2, 4, 8]
//	runs: 30
//	operations: 10000
//	initialSize: 1000
type BenchConfig struct {
	// Name of the sweep (for reporting)
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Description of the sweep (optional)
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Modes lists the locking disciplines to run
	Modes []string `json:"modes,omitempty" yaml:"modes,omitempty"`

	// Cases lists the operation mixes to run
	Cases []CaseConfig `json:"cases,omitempty" yaml:"cases,omitempty"`

	// Threads lists the worker counts to run; serial mode always uses 1
	Threads []int `json:"threads,omitempty" yaml:"threads,omitempty"`

	// Runs is the number of repetitions per (mode, case, threads)
	Runs int `json:"runs,omitempty" yaml:"runs,omitempty"`

	// Operations is the total operation count per experiment, split over workers
	Operations int `json:"operations,omitempty" yaml:"operations,omitempty"`

	// InitialSize is the number of distinct keys inserted before timing
	// starts. nil selects DefaultInitialSize; an explicit 0 starts empty.
	InitialSize *int `json:"initialSize,omitempty" yaml:"initialSize,omitempty"`

	// KeySpace bounds generated keys to [0, KeySpace)
	KeySpace int `json:"keySpace,omitempty" yaml:"keySpace,omitempty"`

	// Capacity bounds the number of live nodes; 0 means unbounded
	Capacity int `json:"capacity,omitempty" yaml:"capacity,omitempty"`

	// Seed fixes the random sources; 0 seeds from the clock
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	// Output controls where results are written
	Output OutputConfig `json:"output,omitempty" yaml:"output,omitempty"`
}

// CaseConfig is a named operation mix.
type CaseConfig struct {
	// Number identifies the case in CSV records and on the command line
	Number int `json:"number" yaml:"number"`

	// Name is an optional human-readable label
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	Member float64 `json:"member" yaml:"member"`
	Insert float64 `json:"insert" yaml:"insert"`
	Delete float64 `json:"delete" yaml:"delete"`
}

// Spec converts the case to a workload spec of ops total operations.
func (c CaseConfig) Spec(ops int) workload.Spec {
	return workload.Spec{
		MemberFraction: c.Member,
		InsertFraction: c.Insert,
		DeleteFraction: c.Delete,
		TotalOps:       ops,
	}
}

// Label returns the case name, or "Case N" when unnamed.
func (c CaseConfig) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("Case %d", c.Number)
}

// OutputConfig controls result files. Empty paths disable that output.
type OutputConfig struct {
	// CSV is appended with one record per series
	CSV string `json:"csv,omitempty" yaml:"csv,omitempty"`

	// Report is a .json, .yaml/.yml or .html report
	Report string `json:"report,omitempty" yaml:"report,omitempty"`

	// Plot is a .png, .svg or .pdf chart of mean elapsed time
	Plot string `json:"plot,omitempty" yaml:"plot,omitempty"`
}

// DefaultCases returns the three preset mixes: read-dominated, read-heavy
// and balanced.
func DefaultCases() []CaseConfig {
	return []CaseConfig{
		{Number: 1, Name: "read-dominated", Member: 0.99, Insert: 0.005, Delete: 0.005},
		{Number: 2, Name: "read-heavy", Member: 0.90, Insert: 0.05, Delete: 0.05},
		{Number: 3, Name: "balanced", Member: 0.50, Insert: 0.25, Delete: 0.25},
	}
}

// Default returns a configuration with every default applied.
func Default() *BenchConfig {
	cfg := &BenchConfig{}
	ApplyDefaults(cfg)
	return cfg
}

// Population returns the initial set size.
func (c *BenchConfig) Population() int {
	if c.InitialSize == nil {
		return DefaultInitialSize
	}
	return *c.InitialSize
}

// ExecutorModes parses the configured mode names.
func (c *BenchConfig) ExecutorModes() ([]executor.Mode, error) {
	modes := make([]executor.Mode, 0, len(c.Modes))
	for _, name := range c.Modes {
		m, err := executor.ParseMode(name)
		if err != nil {
			return nil, err
		}
		modes = append(modes, m)
	}
	return modes, nil
}

// SelectCases keeps only the cases whose numbers are listed. An empty list
// keeps every case.
func (c *BenchConfig) SelectCases(numbers []int) error {
	if len(numbers) == 0 {
		return nil
	}

	byNumber := make(map[int]CaseConfig, len(c.Cases))
	for _, cs := range c.Cases {
		byNumber[cs.Number] = cs
	}

	selected := make([]CaseConfig, 0, len(numbers))
	for _, n := range numbers {
		cs, ok := byNumber[n]
		if !ok {
			return fmt.Errorf("unknown case: %d", n)
		}
		selected = append(selected, cs)
	}
	c.Cases = selected
	return nil
}
