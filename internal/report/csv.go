// Package report writes sweep results as CSV records, JSON/YAML/HTML
// documents and charts.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/wesleyorama2/listbench/internal/executor"
	"github.com/wesleyorama2/listbench/internal/metrics"
)

// CSVHeader is the column layout of result records.
var CSVHeader = []string{
	"ProgramType",
	"Case",
	"Average(us)",
	"StdDev(us)",
	"Min(us)",
	"Max(us)",
	"95% CI Lower(us)",
	"95% CI Upper(us)",
	"Thread Count",
}

// CSVRecord formats one summary as a result record.
func CSVRecord(s metrics.Summary) []string {
	return []string{
		executor.Mode(s.Mode).Label(),
		strconv.Itoa(s.Case),
		formatFloat(s.Mean),
		formatFloat(s.StdDev),
		strconv.FormatUint(uint64(s.Min), 10),
		strconv.FormatUint(uint64(s.Max), 10),
		formatFloat(s.CILower),
		formatFloat(s.CIUpper),
		strconv.Itoa(s.Threads),
	}
}

// WriteCSV writes one record per summary, preceded by the header when
// header is true.
func WriteCSV(w io.Writer, summaries []metrics.Summary, header bool) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(CSVHeader); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}
	for _, s := range summaries {
		if err := cw.Write(CSVRecord(s)); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// AppendCSV appends records to the file at path, creating it if needed. The
// header is written only when the file is empty.
func AppendCSV(path string, summaries []metrics.Summary) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat CSV file: %w", err)
	}

	if err := WriteCSV(f, summaries, info.Size() == 0); err != nil {
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
