package cli

import (
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/listbench/internal/output"
	"github.com/wesleyorama2/listbench/internal/report"
)

var compareCmd = newCompareCmd()

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare OLD.json NEW.json",
		Short: "Compare the series means of two JSON reports",
		Long: `Compare two reports written with --output *.json. Every (mode, case, thread
count) series is listed with its old and new mean and the relative change;
series present in only one report are marked as added or removed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			deltas, err := report.CompareFiles(args[0], args[1])
			if err != nil {
				return err
			}

			noColor, _ := cmd.Flags().GetBool("no-color")
			console := output.NewConsoleOutput(output.ConsoleOutputConfig{
				Writer:  cmd.OutOrStdout(),
				NoColor: noColor,
			})
			console.PrintComparison(deltas)
			return nil
		},
	}

	cmd.Flags().Bool("no-color", false, "Disable colored output")
	return cmd
}
