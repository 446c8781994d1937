// Package output provides console output for benchmark sweeps.
package output

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/wesleyorama2/listbench/internal/config"
	"github.com/wesleyorama2/listbench/internal/executor"
	"github.com/wesleyorama2/listbench/internal/metrics"
	"github.com/wesleyorama2/listbench/internal/report"
	"github.com/wesleyorama2/listbench/internal/runner"
)

// ANSI escape codes for cursor control
const (
	cursorUp  = "\033[%dA" // Move cursor up N lines
	clearLine = "\033[2K"  // Clear entire line

	boxHorizontal = "━"

	progressFilled = "█"
	progressEmpty  = "░"
)

// ConsoleOutput manages console output during a sweep.
type ConsoleOutput struct {
	writer    io.Writer
	isTTY     bool
	useColors bool
	quiet     bool
	verbose   bool
	colors    *ColorScheme

	// State
	mu          sync.Mutex
	runs        int
	start       time.Time
	linesOutput int // Number of lines in the live display
}

// ConsoleOutputConfig contains configuration for ConsoleOutput.
type ConsoleOutputConfig struct {
	Writer      io.Writer
	Quiet       bool
	Verbose     bool
	NoColor     bool
	ForceColors bool
	ForceTTY    bool
}

// NewConsoleOutput creates a new console output handler.
func NewConsoleOutput(cfg ConsoleOutputConfig) *ConsoleOutput {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}

	isTTY := cfg.ForceTTY || isTerminal(cfg.Writer)
	useColors := !cfg.NoColor && (cfg.ForceColors || (isTTY && supportsColors()))

	colors := NoColorScheme()
	if useColors {
		colors = ForcedColorScheme()
	}

	return &ConsoleOutput{
		writer:    cfg.Writer,
		isTTY:     isTTY,
		useColors: useColors,
		quiet:     cfg.Quiet,
		verbose:   cfg.Verbose,
		colors:    colors,
		start:     time.Now(),
	}
}

// isTerminal checks if the writer is a terminal.
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminalFile(f)
	}
	return false
}

// isTerminalFile checks if a file is a terminal (cross-platform).
func isTerminalFile(f *os.File) bool {
	if f == os.Stdout || f == os.Stderr {
		return checkIsTerminal(f)
	}
	return false
}

// supportsColors checks if the terminal supports colors.
func supportsColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	// Modern Windows terminals support ANSI colors
	if runtime.GOOS == "windows" {
		return true
	}

	term := os.Getenv("TERM")
	if term == "" || term == "dumb" {
		return false
	}
	return true
}

// PrintHeader prints the sweep header.
func (c *ConsoleOutput) PrintHeader(cfg *config.BenchConfig, experiments int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.runs = cfg.Runs
	c.start = time.Now()

	if c.quiet {
		return
	}

	line := strings.Repeat(boxHorizontal, 56)
	c.writeln(c.colors.Rule.Sprint(line))
	c.writeln(c.colors.Title.Sprintf("%s - Running [%s]", cfg.Name, strings.Join(cfg.Modes, ", ")))
	c.writeln(c.colors.Rule.Sprint(line))

	cases := make([]string, len(cfg.Cases))
	for i, cs := range cfg.Cases {
		cases[i] = fmt.Sprintf("%d (%.3g/%.3g/%.3g)", cs.Number, cs.Member, cs.Insert, cs.Delete)
	}
	threads := make([]string, len(cfg.Threads))
	for i, t := range cfg.Threads {
		threads[i] = fmt.Sprintf("%d", t)
	}

	c.writeln(c.field("Cases:      ", strings.Join(cases, ", ")))
	c.writeln(c.field("Threads:    ", strings.Join(threads, ", ")))
	c.writeln(c.field("Operations: ", formatNumber(int64(cfg.Operations))))
	c.writeln(c.field("Initial:    ", fmt.Sprintf("%s keys from [0, %s)", formatNumber(int64(cfg.Population())), formatNumber(int64(cfg.KeySpace)))))
	c.writeln(c.field("Runs:       ", fmt.Sprintf("%d per series, %d experiments", cfg.Runs, experiments)))
	if cfg.Seed != 0 {
		c.writeln(c.field("Seed:       ", fmt.Sprintf("%d", cfg.Seed)))
	}
	c.writeln("")
}

// Update reports one finished experiment. On a terminal the progress line
// is redrawn in place; otherwise a line is printed when a series completes,
// or for every experiment in verbose mode.
func (c *ConsoleOutput) Update(p runner.Progress) {
	if c.quiet {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isTTY {
		c.clearLive()
		lines := c.renderLive(p)
		c.linesOutput = len(lines)
		for _, line := range lines {
			c.writeln(line)
		}
		return
	}

	exp := p.Experiment
	if c.verbose || exp.Run+1 == c.runs {
		c.writeln(fmt.Sprintf("[%s] %d/%d %s case %d, %d threads, run %d: %dus",
			formatDuration(time.Since(c.start)),
			p.Completed, p.Total,
			exp.Mode.Label(), exp.Case, p.Result.Threads, exp.Run+1,
			p.ElapsedMicros))
	}
}

// renderLive renders the live progress display.
func (c *ConsoleOutput) renderLive(p runner.Progress) []string {
	progress := 0.0
	if p.Total > 0 {
		progress = float64(p.Completed) / float64(p.Total)
	}

	elapsed := time.Since(c.start)
	remaining := time.Duration(0)
	if progress > 0 && progress < 1 {
		remaining = time.Duration(float64(elapsed) * (1 - progress) / progress)
	}

	exp := p.Experiment
	return []string{
		fmt.Sprintf("Progress: %s %s | %s",
			c.colors.Success.Sprint(renderProgressBar(progress, 40)),
			c.colors.Title.Sprintf("%.0f%%", progress*100),
			c.colors.Muted.Sprintf("%s / ~%s", formatDuration(elapsed), formatDuration(elapsed+remaining))),
		fmt.Sprintf("Series:   %s case %d, %d threads, run %d/%d: %s",
			c.colors.ForMode(string(exp.Mode)).Sprint(exp.Mode.Label()),
			exp.Case, p.Result.Threads, exp.Run+1, c.runs,
			c.colors.Value.Sprintf("%dus", p.ElapsedMicros)),
	}
}

// clearLive erases the live display.
func (c *ConsoleOutput) clearLive() {
	if !c.isTTY || c.linesOutput == 0 {
		return
	}
	c.write(fmt.Sprintf(cursorUp, c.linesOutput))
	for i := 0; i < c.linesOutput; i++ {
		c.write(clearLine + "\n")
	}
	c.write(fmt.Sprintf(cursorUp, c.linesOutput))
	c.linesOutput = 0
}

// PrintSeries prints the statistics of one series.
func (c *ConsoleOutput) PrintSeries(s metrics.Summary) {
	if c.quiet {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearLive()
	c.writeln(fmt.Sprintf("%s case %d, %d threads (%d runs):",
		c.colors.ForMode(s.Mode).Sprint(executor.Mode(s.Mode).Label()), s.Case, s.Threads, s.Runs))
	c.writeln(fmt.Sprintf("  Average time: %.2f us, StdDev: %.2f us, Min: %.0f us, Max: %.0f us",
		s.Mean, s.StdDev, s.Min, s.Max))
	c.writeln(fmt.Sprintf("  95%% CI: %.2f ± %.2f us, Range: [%.2f, %.2f] us",
		s.Mean, s.Margin, s.CILower, s.CIUpper))
	c.writeln(fmt.Sprintf("  Required samples for 95%% CI within 5%%: %d", s.RequiredSamples))
}

// PrintSummary prints the final results table, one block per case.
func (c *ConsoleOutput) PrintSummary(rep *runner.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.quiet {
		if rep.Complete {
			c.writeln(c.colors.Success.Sprint("COMPLETED"))
		} else {
			c.writeln(c.colors.Warning.Sprint("INCOMPLETE"))
		}
		return
	}

	c.clearLive()

	line := strings.Repeat(boxHorizontal, 56)
	status := c.colors.Success.Sprint("Completed " + SuccessIcon(true))
	if !rep.Complete {
		status = c.colors.Warning.Sprint("Stopped early " + WarningIcon(true))
	}

	c.writeln("")
	c.writeln(c.colors.Rule.Sprint(line))
	c.writeln(fmt.Sprintf("%s - %s", c.colors.Title.Sprint(rep.Name), status))
	c.writeln(c.colors.Rule.Sprint(line))
	c.writeln(c.field("Duration:    ", formatDuration(rep.Duration)))
	c.writeln(c.field("Experiments: ", formatNumber(int64(rep.Experiments))))
	c.writeln("")

	baseline := serialBaselines(rep.Summaries)
	for _, cs := range caseOrder(rep.Summaries) {
		c.writeln(c.colors.Title.Sprintf("Case %d", cs))
		c.writeln(c.colors.Muted.Sprintf("  %-8s %7s %12s %10s %10s %10s %25s %8s",
			"Mode", "Threads", "Average(us)", "StdDev", "P50", "P99", "95% CI(us)", "Speedup"))

		for _, s := range rep.Summaries {
			if s.Case != cs {
				continue
			}
			speedup := "-"
			if base, ok := baseline[cs]; ok && s.Mean > 0 {
				speedup = fmt.Sprintf("%.2fx", base/s.Mean)
			}
			label := fmt.Sprintf("%-8s", executor.Mode(s.Mode).Label())
			c.writeln(fmt.Sprintf("  %s %7d %12.2f %10.2f %10d %10d %25s %8s",
				c.colors.ForMode(s.Mode).Sprint(label),
				s.Threads, s.Mean, s.StdDev, s.P50, s.P99,
				fmt.Sprintf("[%.2f, %.2f]", s.CILower, s.CIUpper),
				speedup))
		}
		c.writeln("")
	}
}

// PrintCases prints the case table with the per-worker operation counts
// at each thread count.
func (c *ConsoleOutput) PrintCases(cases []config.CaseConfig, ops int, threads []int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	header := fmt.Sprintf("%-5s %-16s %8s %8s %8s", "Case", "Name", "Member", "Insert", "Delete")
	for _, t := range threads {
		header += fmt.Sprintf("  %-18s", fmt.Sprintf("T=%d (m/i/d)", t))
	}
	c.writeln(c.colors.Title.Sprint(header))

	for _, cs := range cases {
		row := fmt.Sprintf("%-5d %-16s %8.3f %8.3f %8.3f", cs.Number, cs.Label(), cs.Member, cs.Insert, cs.Delete)
		spec := cs.Spec(ops)
		for _, t := range threads {
			counts := spec.PerWorker(t)
			row += fmt.Sprintf("  %-18s", fmt.Sprintf("%d/%d/%d", counts.Member, counts.Insert, counts.Delete))
		}
		c.writeln(row)
	}
	c.writeln(c.colors.Muted.Sprintf("Per-worker counts for %s total operations.", formatNumber(int64(ops))))
}

// PrintComparison prints the mean deltas between two reports.
func (c *ConsoleOutput) PrintComparison(deltas []report.Delta) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writeln(c.colors.Title.Sprintf("%-8s %5s %7s %14s %14s %9s", "Mode", "Case", "Threads", "Old(us)", "New(us)", "Change"))
	for _, d := range deltas {
		label := executor.Mode(d.Mode).Label()
		switch d.Missing {
		case "new":
			c.writeln(fmt.Sprintf("%-8s %5d %7d %14.2f %14s %9s", label, d.Case, d.Threads, d.OldMean, "-", "removed"))
			continue
		case "old":
			c.writeln(fmt.Sprintf("%-8s %5d %7d %14s %14.2f %9s", label, d.Case, d.Threads, "-", d.NewMean, "added"))
			continue
		}

		var changeColor *color.Color
		switch {
		case d.Change < 0:
			changeColor = c.colors.Faster
		case d.Change > 0:
			changeColor = c.colors.Slower
		default:
			changeColor = c.colors.Muted
		}
		c.writeln(fmt.Sprintf("%-8s %5d %7d %14.2f %14.2f %s", label, d.Case, d.Threads, d.OldMean, d.NewMean,
			changeColor.Sprintf("%+8.1f%%", d.Change)))
	}
}

// IsTTY returns whether the output is a terminal.
func (c *ConsoleOutput) IsTTY() bool {
	return c.isTTY
}

func (c *ConsoleOutput) field(label, value string) string {
	return c.colors.Label.Sprint(label) + c.colors.Value.Sprint(value)
}

// write writes to the output without a newline.
func (c *ConsoleOutput) write(s string) {
	fmt.Fprint(c.writer, s)
}

// writeln writes to the output with a newline.
func (c *ConsoleOutput) writeln(s string) {
	fmt.Fprintln(c.writer, s)
}

// serialBaselines returns the serial mean of every case that has one.
func serialBaselines(summaries []metrics.Summary) map[int]float64 {
	out := make(map[int]float64)
	for _, s := range summaries {
		if s.Mode == string(executor.ModeSerial) {
			out[s.Case] = s.Mean
		}
	}
	return out
}

// caseOrder returns the case numbers in first-seen order.
func caseOrder(summaries []metrics.Summary) []int {
	var out []int
	seen := make(map[int]bool)
	for _, s := range summaries {
		if !seen[s.Case] {
			seen[s.Case] = true
			out = append(out, s.Case)
		}
	}
	return out
}

// renderProgressBar renders a progress bar.
func renderProgressBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	filled := int(progress * float64(width))
	empty := width - filled

	return "[" + strings.Repeat(progressFilled, filled) + strings.Repeat(progressEmpty, empty) + "]"
}

// formatDuration formats a duration in a human-readable format.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %02ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
}

// formatNumber formats a number with thousands separators.
func formatNumber(n int64) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	offset := len(str) % 3
	if offset > 0 {
		result.WriteString(str[:offset])
	}
	for i := offset; i < len(str); i += 3 {
		if result.Len() > 0 {
			result.WriteString(",")
		}
		result.WriteString(str[i : i+3])
	}
	return result.String()
}
