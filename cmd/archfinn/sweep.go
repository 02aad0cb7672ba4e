package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/archfinn-io/archfinn/results"
	"github.com/archfinn-io/archfinn/storage"
)

func sweep(args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	scenarioName := fs.String("scenario", "", "Scenario name to run (default: first in file)")
	runs := fs.Int("runs", 100, "Number of runs")
	baseSeed := fs.Int64("seed", defaultSeed, "Base seed; run i uses seed+i")
	parallel := fs.Int("parallel", runtime.NumCPU(), "Maximum concurrent runs")
	archive := fs.String("archive", "", "Archive every run report to this SQLite database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: archfinn sweep <script.afinn> [options]

Run one scenario many times with derived seeds and report aggregate
outcome counts. Each run is independently bound and seeded, so results
are reproducible for a given base seed regardless of parallelism.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("script file required")
	}

	script, err := loadScript(fs.Arg(0))
	if err != nil {
		return err
	}
	sc, err := selectScenario(script, *scenarioName)
	if err != nil {
		return err
	}

	sweepRes, err := results.Sweep(context.Background(), script, sc, results.SweepOptions{
		Runs:        *runs,
		BaseSeed:    *baseSeed,
		Parallelism: *parallel,
	})
	if err != nil {
		return err
	}

	if *archive != "" {
		store, err := storage.New(*archive)
		if err != nil {
			return err
		}
		defer store.Close()
		for _, r := range sweepRes.Reports {
			if err := store.SaveReport(r); err != nil {
				return err
			}
		}
	}

	s := sweepRes.Summary
	fmt.Printf("Scenario: %s\n", s.Scenario)
	fmt.Printf("Runs: %d (base seed %d)\n", s.Runs, s.BaseSeed)
	fmt.Printf("Survived: %d  Failed: %d  Aborted: %d\n", s.Survived, s.Failed, s.Aborted)
	fmt.Printf("Failure rate: %.2f%%\n", s.FailureRate*100)
	return nil
}
