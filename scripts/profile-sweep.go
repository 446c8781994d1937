//go:build ignore

// Sweep runner with built-in profiling support.
// Runs a sweep in-process with CPU, heap, goroutine and lock-contention
// profiles, and checks that every worker goroutine was joined.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wesleyorama2/listbench/bench"
)

func main() {
	configPath := flag.String("config", "", "sweep configuration file (default sweep if empty)")
	runs := flag.Int("runs", 5, "repetitions per series")
	cpuProfile := flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile to file")
	goroutineProfile := flag.String("goroutineprofile", "", "write goroutine profile to file")
	mutexProfile := flag.String("mutexprofile", "", "write lock contention profile to file")
	monitorInterval := flag.Duration("monitor-interval", 5*time.Second, "interval for monitoring stats")
	flag.Parse()

	fmt.Println("========================================")
	fmt.Println("listbench Sweep with Profiling")
	fmt.Println("========================================")
	fmt.Println()

	cfg := bench.DefaultConfig()
	if *configPath != "" {
		loaded, err := bench.LoadConfig(*configPath)
		if err != nil {
			log.Fatal("could not load config", "err", err)
		}
		cfg = loaded
	}
	cfg.Runs = *runs

	if *mutexProfile != "" {
		runtime.SetMutexProfileFraction(1)
		fmt.Println("✓ Lock contention profiling enabled")
	}

	// Enable CPU profiling if requested
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal("could not create CPU profile", "err", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile", "err", err)
		}
		defer pprof.StopCPUProfile()
		fmt.Printf("✓ CPU profiling enabled: %s\n", *cpuProfile)
	}

	// Start monitoring goroutine
	stopMonitor := make(chan struct{})
	monitorDone := make(chan struct{})

	go func() {
		defer close(monitorDone)
		ticker := time.NewTicker(*monitorInterval)
		defer ticker.Stop()

		fmt.Println("\nStarting resource monitoring...")
		fmt.Println("Time\t\tGoroutines\tMemAlloc(MB)\tSys(MB)\t\tNumGC")
		fmt.Println("----\t\t----------\t------------\t-------\t\t-----")

		for {
			select {
			case <-ticker.C:
				var m runtime.MemStats
				runtime.ReadMemStats(&m)

				fmt.Printf("%s\t%d\t\t%.2f\t\t%.2f\t\t%d\n",
					time.Now().Format("15:04:05"),
					runtime.NumGoroutine(),
					float64(m.Alloc)/1024/1024,
					float64(m.Sys)/1024/1024,
					m.NumGC,
				)
			case <-stopMonitor:
				return
			}
		}
	}()

	var initialStats runtime.MemStats
	runtime.ReadMemStats(&initialStats)
	initialGoroutines := runtime.NumGoroutine()

	startTime := time.Now()
	report, err := bench.Run(context.Background(), cfg, bench.WithProgress(func(p bench.Progress) {
		if p.Completed%50 == 0 || p.Completed == p.Total {
			fmt.Printf("  %d/%d experiments\n", p.Completed, p.Total)
		}
	}))
	elapsed := time.Since(startTime)

	close(stopMonitor)
	<-monitorDone

	fmt.Println()
	fmt.Println("========================================")
	fmt.Println("Sweep Completed")
	fmt.Println("========================================")
	fmt.Printf("Duration: %s\n", elapsed)
	if report != nil {
		fmt.Printf("Series: %d, experiments: %d\n", len(report.Summaries), report.Experiments)
	}
	fmt.Println()

	var finalStats runtime.MemStats
	runtime.ReadMemStats(&finalStats)
	finalGoroutines := runtime.NumGoroutine()

	fmt.Printf("Final state:\n")
	fmt.Printf("  Goroutines: %d (delta: %+d)\n", finalGoroutines, finalGoroutines-initialGoroutines)
	fmt.Printf("  Memory Allocated: %.2f MB\n", float64(finalStats.Alloc)/1024/1024)
	fmt.Printf("  Total GC Runs: %d\n", finalStats.NumGC-initialStats.NumGC)
	fmt.Println()

	// Workers are joined before each experiment returns.
	if finalGoroutines > initialGoroutines {
		fmt.Printf("⚠ WARNING: Possible goroutine leak detected! (+%d goroutines)\n", finalGoroutines-initialGoroutines)
	} else {
		fmt.Println("✓ No goroutine leaks detected")
	}

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatal("could not create memory profile", "err", err)
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("could not write memory profile", "err", err)
		}
		fmt.Printf("✓ Memory profile written to: %s\n", *memProfile)
	}

	for name, path := range map[string]string{"goroutine": *goroutineProfile, "mutex": *mutexProfile} {
		if path == "" {
			continue
		}
		f, err := os.Create(path)
		if err != nil {
			log.Fatal("could not create profile", "profile", name, "err", err)
		}
		defer f.Close()
		if err := pprof.Lookup(name).WriteTo(f, 0); err != nil {
			log.Fatal("could not write profile", "profile", name, "err", err)
		}
		fmt.Printf("✓ %s profile written to: %s\n", name, path)
	}

	if err != nil {
		fmt.Printf("✗ Sweep failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Sweep completed successfully!")
}
