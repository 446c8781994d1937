package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/wesleyorama2/listbench/internal/config"
	"github.com/wesleyorama2/listbench/internal/executor"
	"github.com/wesleyorama2/listbench/internal/metrics"
	"github.com/wesleyorama2/listbench/internal/report"
	"github.com/wesleyorama2/listbench/internal/runner"
)

// Writes a report filled with synthetic timings so the report layouts can be
// checked without running a sweep. The format follows the file extension.
func main() {
	outputPath := "sample-report.html"
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}

	rep := createSampleReport()

	if err := report.WriteFile(rep, outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Sample report generated: %s\n", outputPath)

	if strings.HasSuffix(outputPath, ".html") {
		chartPath := strings.TrimSuffix(outputPath, ".html") + ".png"
		if err := report.SaveChart(rep.Name, rep.Summaries, chartPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Sample chart generated: %s\n", chartPath)
	}
}

func createSampleReport() *runner.Report {
	cfg := config.Default()
	cfg.Name = "listbench sample"
	cfg.Description = "Synthetic timings for report development"
	cfg.Seed = 1

	rng := rand.New(rand.NewSource(cfg.Seed))
	recorder := metrics.NewRecorder()
	experiments := 0

	for _, mode := range executor.Modes() {
		for _, cs := range cfg.Cases {
			threads := cfg.Threads
			if mode == executor.ModeSerial {
				threads = []int{1}
			}
			for _, t := range threads {
				base := sampleMean(mode, cs, t)
				for run := 0; run < cfg.Runs; run++ {
					jitter := 1 + rng.NormFloat64()*0.04
					recorder.Record(metrics.Key{Mode: string(mode), Case: cs.Number, Threads: t}, uint64(base*jitter))
					experiments++
				}
			}
		}
	}

	now := time.Now()
	duration := 3 * time.Minute
	return &runner.Report{
		Name:        cfg.Name,
		Description: cfg.Description,
		StartTime:   now.Add(-duration),
		EndTime:     now,
		Duration:    duration,
		Seed:        cfg.Seed,
		Experiments: experiments,
		Complete:    true,
		Config:      cfg,
		Summaries:   recorder.Summaries(),
	}
}

// sampleMean models a single lock: the mutex slows down as threads contend,
// the read-write lock recovers part of that on read-heavy cases.
func sampleMean(mode executor.Mode, cs config.CaseConfig, threads int) float64 {
	const serial = 4000.0
	switch mode {
	case executor.ModeMutex:
		return serial * (1 + 0.35*float64(threads-1))
	case executor.ModeRWLock:
		contention := 0.35 * float64(threads-1) * (1 - cs.Member*0.8)
		return serial * (1.1 + contention) / (1 + cs.Member*float64(threads-1)*0.5)
	default:
		return serial
	}
}
