// Package bench runs sorted-set locking benchmarks from Go code.
//
// A sweep times a fixed mix of Member, Insert and Delete operations on a
// sorted integer set under three disciplines: serial, one mutex around the
// set, and one read-write lock where Member takes the read side. Every
// (mode, case, threads) series is repeated and summarized.
//
// # Quick Start
//
//	cfg := bench.DefaultConfig()
//	cfg.Modes = []string{"mutex", "rwlock"}
//	cfg.Runs = 10
//
//	report, err := bench.Run(context.Background(), cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, s := range report.Summaries {
//	    fmt.Printf("%s: %.2fus ± %.2f\n", s.Label(), s.Mean, s.Margin)
//	}
//
// # Configuration Files
//
// The CLI's YAML and JSON files load the same way:
//
//	cfg, err := bench.LoadConfig("bench.yaml")
//
// # Progress
//
// Pass WithProgress to observe each experiment as it finishes. The callback
// runs on the sweeping goroutine between experiments, so it never overlaps a
// timed region.
//
//	report, err := bench.Run(ctx, cfg, bench.WithProgress(func(p bench.Progress) {
//	    fmt.Printf("%d/%d\n", p.Completed, p.Total)
//	}))
//
// # Writing Results
//
// WriteReport chooses JSON, YAML or HTML from the file extension, and
// AppendCSV appends one row per series in the fixed CSV layout.
package bench
