package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/listbench/internal/config"
	"github.com/wesleyorama2/listbench/internal/output"
)

var casesCmd = newCasesCmd()

func newCasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cases",
		Short: "Show the workload cases and per-worker operation counts",
		Long: `Print the operation mix of every case together with the exact number of
Member, Insert and Delete operations each worker performs at each thread count.

With --config the cases of that file are shown instead of the presets.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &config.BenchConfig{}
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				loaded, err := config.LoadConfig(path)
				if err != nil {
					return fmt.Errorf("error loading config: %w", err)
				}
				cfg = loaded
			}
			if cmd.Flags().Changed("ops") {
				cfg.Operations, _ = cmd.Flags().GetInt("ops")
			}
			if cmd.Flags().Changed("threads") {
				value, _ := cmd.Flags().GetString("threads")
				threads, err := config.ParseIntList(value)
				if err != nil {
					return fmt.Errorf("invalid --threads: %w", err)
				}
				cfg.Threads = threads
			}
			config.ApplyDefaults(cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			noColor, _ := cmd.Flags().GetBool("no-color")
			console := output.NewConsoleOutput(output.ConsoleOutputConfig{
				Writer:  cmd.OutOrStdout(),
				NoColor: noColor,
			})
			console.PrintCases(cfg.Cases, cfg.Operations, cfg.Threads)
			return nil
		},
	}

	cmd.Flags().StringP("config", "c", "", "Configuration file (YAML or JSON)")
	cmd.Flags().Int("ops", config.DefaultOperations, "Total operations per experiment")
	cmd.Flags().String("threads", "", "Thread counts, e.g. 1,2,4,8")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	return cmd
}
