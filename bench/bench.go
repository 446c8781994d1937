package bench

import (
	"context"

	"github.com/wesleyorama2/listbench/internal/config"
	"github.com/wesleyorama2/listbench/internal/metrics"
	"github.com/wesleyorama2/listbench/internal/report"
	"github.com/wesleyorama2/listbench/internal/runner"
)

type (
	// Config is the root configuration for a sweep.
	Config = config.BenchConfig

	// Case is a named operation mix.
	Case = config.CaseConfig

	// Report contains the complete sweep results.
	Report = runner.Report

	// Summary contains the statistics of one series in microseconds.
	Summary = metrics.Summary

	// Progress describes one finished experiment.
	Progress = runner.Progress

	// Option configures a sweep.
	Option = runner.Option
)

// DefaultConfig returns the default sweep: all modes, the three preset cases,
// 1, 2, 4 and 8 threads and 30 runs per series.
func DefaultConfig() *Config {
	return config.Default()
}

// DefaultCases returns the preset cases.
func DefaultCases() []Case {
	return config.DefaultCases()
}

// Int returns a pointer to n, for optional integer fields such as
// Config.InitialSize.
func Int(n int) *int {
	return config.Int(n)
}

// LoadConfig loads a YAML or JSON configuration file.
func LoadConfig(path string) (*Config, error) {
	return config.LoadConfig(path)
}

// WithProgress sets a callback invoked after every experiment.
func WithProgress(fn func(Progress)) Option {
	return runner.WithProgress(fn)
}

// Run sweeps cfg. Defaults are applied to cfg and it is validated first.
// When ctx is cancelled the partial report is returned with the context
// error.
func Run(ctx context.Context, cfg *Config, opts ...Option) (*Report, error) {
	r, err := runner.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return r.Sweep(ctx)
}

// WriteReport writes rep to path as JSON, YAML or HTML by extension.
func WriteReport(rep *Report, path string) error {
	return report.WriteFile(rep, path)
}

// AppendCSV appends one row per series of rep to the CSV file at path,
// writing the header only when the file is empty.
func AppendCSV(rep *Report, path string) error {
	return report.AppendCSV(path, rep.Summaries)
}
