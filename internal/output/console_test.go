package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wesleyorama2/listbench/internal/config"
	"github.com/wesleyorama2/listbench/internal/executor"
	"github.com/wesleyorama2/listbench/internal/metrics"
	"github.com/wesleyorama2/listbench/internal/report"
	"github.com/wesleyorama2/listbench/internal/runner"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{500 * time.Millisecond, "500ms"},
		{1 * time.Second, "1.0s"},
		{1*time.Minute + 30*time.Second, "1m 30s"},
		{1*time.Hour + 2*time.Minute + 3*time.Second, "1h 02m 03s"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := formatDuration(tt.duration)
			if result != tt.expected {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.duration, result, tt.expected)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		number   int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{10000, "10,000"},
		{1234567, "1,234,567"},
		{-4500, "-4,500"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := formatNumber(tt.number)
			if result != tt.expected {
				t.Errorf("formatNumber(%d) = %q, want %q", tt.number, result, tt.expected)
			}
		})
	}
}

func TestRenderProgressBar(t *testing.T) {
	assert.Equal(t, "[░░░░]", renderProgressBar(0, 4))
	assert.Equal(t, "[██░░]", renderProgressBar(0.5, 4))
	assert.Equal(t, "[████]", renderProgressBar(1.5, 4))
	assert.Equal(t, "[░░░░]", renderProgressBar(-1, 4))
}

func newTestConsole(buf *bytes.Buffer, cfg ConsoleOutputConfig) *ConsoleOutput {
	cfg.Writer = buf
	cfg.NoColor = true
	return NewConsoleOutput(cfg)
}

func progressFor(mode executor.Mode, run, completed int) runner.Progress {
	return runner.Progress{
		Experiment:    runner.Experiment{Mode: mode, Case: 1, Threads: 4, Run: run},
		Result:        &executor.Result{Threads: 4},
		Completed:     completed,
		Total:         6,
		ElapsedMicros: 1234,
	}
}

func TestConsoleOutput_PrintHeader(t *testing.T) {
	var buf bytes.Buffer
	c := newTestConsole(&buf, ConsoleOutputConfig{})

	cfg := config.Default()
	cfg.Seed = 42
	c.PrintHeader(cfg, 270)

	out := buf.String()
	assert.Contains(t, out, "listbench - Running [serial, mutex, rwlock]")
	assert.Contains(t, out, "1 (0.99/0.005/0.005)")
	assert.Contains(t, out, "1, 2, 4, 8")
	assert.Contains(t, out, "10,000")
	assert.Contains(t, out, "30 per series, 270 experiments")
	assert.Contains(t, out, "Seed:       42")
	assert.False(t, c.IsTTY())
}

func TestConsoleOutput_UpdateNonTTY(t *testing.T) {
	var buf bytes.Buffer
	c := newTestConsole(&buf, ConsoleOutputConfig{})
	cfg := config.Default()
	cfg.Runs = 3
	c.PrintHeader(cfg, 6)
	buf.Reset()

	c.Update(progressFor(executor.ModeMutex, 0, 1))
	c.Update(progressFor(executor.ModeMutex, 1, 2))
	assert.Empty(t, buf.String(), "only the last run of a series is printed")

	c.Update(progressFor(executor.ModeMutex, 2, 3))
	out := buf.String()
	assert.Contains(t, out, "3/6 Mutex case 1, 4 threads, run 3: 1234us")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestConsoleOutput_UpdateVerbose(t *testing.T) {
	var buf bytes.Buffer
	c := newTestConsole(&buf, ConsoleOutputConfig{Verbose: true})
	cfg := config.Default()
	cfg.Runs = 3
	c.PrintHeader(cfg, 6)
	buf.Reset()

	c.Update(progressFor(executor.ModeRWLock, 0, 1))
	c.Update(progressFor(executor.ModeRWLock, 1, 2))
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), "RWLock case 1, 4 threads, run 2")
}

func TestConsoleOutput_UpdateTTY(t *testing.T) {
	var buf bytes.Buffer
	c := newTestConsole(&buf, ConsoleOutputConfig{ForceTTY: true})
	cfg := config.Default()
	cfg.Runs = 3
	c.PrintHeader(cfg, 6)
	buf.Reset()

	c.Update(progressFor(executor.ModeSerial, 0, 3))
	first := buf.String()
	assert.Contains(t, first, "Progress:")
	assert.Contains(t, first, "50%")
	assert.Contains(t, first, "Serial case 1, 4 threads, run 1/3")
	assert.NotContains(t, first, "\033[")

	buf.Reset()
	c.Update(progressFor(executor.ModeSerial, 1, 4))
	assert.True(t, strings.HasPrefix(buf.String(), "\033[2A"), "live display is redrawn in place")
}

func TestConsoleOutput_Quiet(t *testing.T) {
	var buf bytes.Buffer
	c := newTestConsole(&buf, ConsoleOutputConfig{Quiet: true})

	c.PrintHeader(config.Default(), 10)
	c.Update(progressFor(executor.ModeMutex, 29, 10))
	c.PrintSeries(metrics.Summary{Key: metrics.Key{Mode: "mutex", Case: 1, Threads: 2}})
	assert.Empty(t, buf.String())

	c.PrintSummary(&runner.Report{Complete: true})
	assert.Equal(t, "COMPLETED\n", buf.String())

	buf.Reset()
	c.PrintSummary(&runner.Report{Complete: false})
	assert.Equal(t, "INCOMPLETE\n", buf.String())
}

func TestConsoleOutput_PrintSeries(t *testing.T) {
	var buf bytes.Buffer
	c := newTestConsole(&buf, ConsoleOutputConfig{})

	c.PrintSeries(metrics.Summary{
		Key:             metrics.Key{Mode: "mutex", Case: 2, Threads: 4},
		Runs:            30,
		Mean:            1500.5,
		StdDev:          25.25,
		Min:             1450,
		Max:             1601,
		Margin:          9.04,
		CILower:         1491.46,
		CIUpper:         1509.54,
		RequiredSamples: 5,
	})

	out := buf.String()
	assert.Contains(t, out, "Mutex case 2, 4 threads (30 runs):")
	assert.Contains(t, out, "Average time: 1500.50 us, StdDev: 25.25 us, Min: 1450 us, Max: 1601 us")
	assert.Contains(t, out, "95% CI: 1500.50 ± 9.04 us, Range: [1491.46, 1509.54] us")
	assert.Contains(t, out, "Required samples for 95% CI within 5%: 5")
}

func TestConsoleOutput_PrintSummary(t *testing.T) {
	var buf bytes.Buffer
	c := newTestConsole(&buf, ConsoleOutputConfig{})

	rep := &runner.Report{
		Name:        "listbench",
		Duration:    2 * time.Second,
		Experiments: 90,
		Complete:    true,
		Summaries: []metrics.Summary{
			{Key: metrics.Key{Mode: "serial", Case: 1, Threads: 1}, Mean: 1000},
			{Key: metrics.Key{Mode: "mutex", Case: 1, Threads: 2}, Mean: 500},
			{Key: metrics.Key{Mode: "rwlock", Case: 3, Threads: 2}, Mean: 800},
		},
	}
	c.PrintSummary(rep)

	out := buf.String()
	assert.Contains(t, out, "listbench - Completed")
	assert.Contains(t, out, "Case 1")
	assert.Contains(t, out, "Case 3")
	assert.Contains(t, out, "2.00x")
	assert.Contains(t, out, "1.00x")
	assert.Less(t, strings.Index(out, "Case 1"), strings.Index(out, "Case 3"))

	// Case 3 has no serial baseline.
	case3 := out[strings.Index(out, "Case 3"):]
	assert.Contains(t, case3, " -\n")
}

func TestConsoleOutput_PrintSummaryPartial(t *testing.T) {
	var buf bytes.Buffer
	c := newTestConsole(&buf, ConsoleOutputConfig{})

	c.PrintSummary(&runner.Report{Name: "listbench", Experiments: 3})
	assert.Contains(t, buf.String(), "Stopped early")
}

func TestConsoleOutput_PrintCases(t *testing.T) {
	var buf bytes.Buffer
	c := newTestConsole(&buf, ConsoleOutputConfig{})

	c.PrintCases(config.DefaultCases(), 10000, []int{1, 4})

	out := buf.String()
	assert.Contains(t, out, "T=1 (m/i/d)")
	assert.Contains(t, out, "T=4 (m/i/d)")
	assert.Contains(t, out, "9900/50/50")
	assert.Contains(t, out, "2250/125/125")
	assert.Contains(t, out, "5000/2500/2500")
	assert.Contains(t, out, "Per-worker counts for 10,000 total operations.")
}

func TestConsoleOutput_PrintComparison(t *testing.T) {
	var buf bytes.Buffer
	c := newTestConsole(&buf, ConsoleOutputConfig{})

	c.PrintComparison([]report.Delta{
		{Key: metrics.Key{Mode: "mutex", Case: 1, Threads: 4}, OldMean: 2000, NewMean: 1500, Change: -25},
		{Key: metrics.Key{Mode: "rwlock", Case: 1, Threads: 4}, OldMean: 1500, Missing: "new"},
		{Key: metrics.Key{Mode: "serial", Case: 2, Threads: 1}, NewMean: 700, Missing: "old"},
	})

	out := buf.String()
	assert.Contains(t, out, "-25.0%")
	assert.Contains(t, out, "removed")
	assert.Contains(t, out, "added")
	assert.Equal(t, 4, strings.Count(out, "\n"))
}
