package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/gops/agent"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/listbench/internal/config"
	"github.com/wesleyorama2/listbench/internal/executor"
	"github.com/wesleyorama2/listbench/internal/metrics"
	"github.com/wesleyorama2/listbench/internal/output"
	"github.com/wesleyorama2/listbench/internal/report"
	"github.com/wesleyorama2/listbench/internal/runner"
)

var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark sweep",
		Long: `Run every configured (mode, case, thread count) series for the configured
number of repetitions and print per-series statistics.

Defaults run all three modes over the three preset cases with 1, 2, 4 and 8
threads, 30 runs per series, 10000 operations and 1000 initial keys.

Examples:
  listbench run
  listbench run --mode mutex --cases 2 --threads 1,4 --runs 10
  listbench run --config bench.yaml --csv results.csv --output report.html
  listbench run --seed 42 --output report.json --plot chart.png`,
		RunE: runBenchmark,
	}

	cmd.Flags().StringP("config", "c", "", "Configuration file (YAML or JSON)")
	cmd.Flags().StringP("mode", "m", "all", "Modes to run: serial, mutex, rwlock or all (comma-separated)")
	cmd.Flags().String("cases", "", "Case numbers to run, e.g. 1,3")
	cmd.Flags().String("threads", "", "Thread counts, e.g. 1,2,4,8")
	cmd.Flags().Int("runs", config.DefaultRuns, "Repetitions per series")
	cmd.Flags().Int("ops", config.DefaultOperations, "Total operations per experiment")
	cmd.Flags().Int("initial", config.DefaultInitialSize, "Keys inserted before timing starts")
	cmd.Flags().Int("key-space", 0, "Keys are drawn from [0, key-space) (default 65536)")
	cmd.Flags().Int("capacity", 0, "Node capacity of the set, 0 for unbounded")
	cmd.Flags().Int64("seed", 0, "Base random seed, 0 seeds from the clock")

	cmd.Flags().String("csv", "", "Append per-series rows to this CSV file (e.g. "+config.DefaultCSVPath+")")
	cmd.Flags().StringP("output", "o", "", "Write the report to this file (.json, .yaml or .html)")
	cmd.Flags().String("plot", "", "Write a chart of mean time by thread count (.png, .svg or .pdf)")

	cmd.Flags().BoolP("quiet", "q", false, "Disable live progress output, show only final status")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	cmd.Flags().Bool("gops", false, "Start a gops diagnostics agent for the duration of the sweep")
	return cmd
}

// runBenchmark runs the sweep described by the config file and flags.
func runBenchmark(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColor, _ := cmd.Flags().GetBool("no-color")
	useGops, _ := cmd.Flags().GetBool("gops")

	if useGops {
		if err := agent.Listen(agent.Options{}); err != nil {
			return fmt.Errorf("failed to start gops agent: %w", err)
		}
		defer agent.Close()
		log.Debug("gops agent listening")
	}

	console := output.NewConsoleOutput(output.ConsoleOutputConfig{
		Writer:  cmd.OutOrStdout(),
		Quiet:   quiet,
		Verbose: verbose,
		NoColor: noColor,
	})

	var r *runner.Runner
	r, err = runner.New(cfg, runner.WithProgress(func(p runner.Progress) {
		console.Update(p)
		if p.Experiment.Run+1 != cfg.Runs {
			return
		}
		key := metrics.Key{Mode: string(p.Experiment.Mode), Case: p.Experiment.Case, Threads: p.Result.Threads}
		if s, ok := r.Recorder().Summary(key); ok {
			console.PrintSeries(s)
		}
	}))
	if err != nil {
		return err
	}

	console.PrintHeader(cfg, len(r.Plan()))

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	rep, runErr := r.Sweep(ctx)
	var mismatch *executor.ModeMismatchError
	if errors.As(runErr, &mismatch) {
		log.Fatal("configuration mismatch", "err", mismatch)
	}
	if rep == nil {
		return runErr
	}

	console.PrintSummary(rep)

	if err := writeOutputs(cmd, rep); err != nil {
		return err
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return fmt.Errorf("sweep interrupted after %d experiments", rep.Experiments)
		}
		return fmt.Errorf("sweep failed: %w", runErr)
	}
	return nil
}

// loadRunConfig builds the sweep configuration: the config file if given,
// then every flag that was set explicitly.
func loadRunConfig(cmd *cobra.Command) (*config.BenchConfig, error) {
	flags := cmd.Flags()

	cfg := &config.BenchConfig{}
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
		cfg = loaded
	}

	if flags.Changed("mode") {
		value, _ := flags.GetString("mode")
		modes, err := parseModes(value)
		if err != nil {
			return nil, err
		}
		cfg.Modes = modes
	}
	if flags.Changed("threads") {
		value, _ := flags.GetString("threads")
		threads, err := config.ParseIntList(value)
		if err != nil {
			return nil, fmt.Errorf("invalid --threads: %w", err)
		}
		cfg.Threads = threads
	}
	if flags.Changed("runs") {
		cfg.Runs, _ = flags.GetInt("runs")
	}
	if flags.Changed("ops") {
		cfg.Operations, _ = flags.GetInt("ops")
	}
	if flags.Changed("initial") {
		initial, _ := flags.GetInt("initial")
		cfg.InitialSize = config.Int(initial)
	}
	if flags.Changed("key-space") {
		cfg.KeySpace, _ = flags.GetInt("key-space")
	}
	if flags.Changed("capacity") {
		cfg.Capacity, _ = flags.GetInt("capacity")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("csv") {
		cfg.Output.CSV, _ = flags.GetString("csv")
	}
	if flags.Changed("output") {
		cfg.Output.Report, _ = flags.GetString("output")
	}
	if flags.Changed("plot") {
		cfg.Output.Plot, _ = flags.GetString("plot")
	}

	config.ApplyDefaults(cfg)

	if flags.Changed("cases") {
		value, _ := flags.GetString("cases")
		numbers, err := config.ParseIntList(value)
		if err != nil {
			return nil, fmt.Errorf("invalid --cases: %w", err)
		}
		if err := cfg.SelectCases(numbers); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// parseModes expands a comma-separated mode list; "all" selects every mode.
func parseModes(value string) ([]string, error) {
	var modes []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if strings.EqualFold(part, "all") {
			modes = modes[:0]
			for _, m := range executor.Modes() {
				modes = append(modes, string(m))
			}
			return modes, nil
		}
		m, err := executor.ParseMode(part)
		if err != nil {
			return nil, err
		}
		modes = append(modes, string(m))
	}
	return modes, nil
}

// writeOutputs writes the CSV rows, the report document and the chart that
// the configuration asks for.
func writeOutputs(cmd *cobra.Command, rep *runner.Report) error {
	out := rep.Config.Output
	w := cmd.ErrOrStderr()

	if out.CSV != "" {
		if err := report.AppendCSV(out.CSV, rep.Summaries); err != nil {
			return fmt.Errorf("error writing CSV: %w", err)
		}
		fmt.Fprintf(w, "Results appended to %s\n", out.CSV)
	}
	if out.Report != "" {
		if err := report.WriteFile(rep, out.Report); err != nil {
			return fmt.Errorf("error writing report: %w", err)
		}
		fmt.Fprintf(w, "Report written to %s\n", out.Report)
	}
	if out.Plot != "" {
		title := fmt.Sprintf("%s: mean elapsed time by thread count", rep.Name)
		if err := report.SaveChart(title, rep.Summaries, out.Plot); err != nil {
			return fmt.Errorf("error writing chart: %w", err)
		}
		fmt.Fprintf(w, "Chart written to %s\n", out.Plot)
	}
	return nil
}
