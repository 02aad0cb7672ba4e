package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/archfinn-io/archfinn/dsl"
	"github.com/archfinn-io/archfinn/eventlog"
	"github.com/archfinn-io/archfinn/results"
	"github.com/archfinn-io/archfinn/sim"
)

const defaultSeed = 1337

func printBanner() {
	fmt.Print(`
  ArchFinn -- where ideas become architectures

`)
}

// loadScript parses the script at path, warning (not failing) on an
// unexpected extension.
func loadScript(path string) (*dsl.Script, error) {
	if ext := filepath.Ext(path); !strings.EqualFold(ext, ".afinn") {
		fmt.Fprintf(os.Stderr, "Warning: expected .afinn extension, got %q\n", ext)
	}
	return dsl.ParseFile(path)
}

// selectScenario picks the named scenario, or the first one declared.
func selectScenario(script *dsl.Script, name string) (*dsl.ScenarioDecl, error) {
	if name != "" {
		sc := script.Scenario(name)
		if sc == nil {
			var available []string
			for _, s := range script.Scenarios() {
				available = append(available, s.Name)
			}
			return nil, fmt.Errorf("scenario %q not found (available: %s)", name, strings.Join(available, ", "))
		}
		return sc, nil
	}
	sc := script.FirstScenario()
	if sc == nil {
		return nil, fmt.Errorf("no scenario found in file; add a SCENARIO block")
	}
	return sc, nil
}

func run(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	scenarioName := fs.String("scenario", "", "Scenario name to run (default: first in file)")
	seed := fs.Int64("seed", defaultSeed, "Random seed for the simulation")
	quiet := fs.Bool("quiet", false, "Suppress banner and extra output")
	debug := fs.Bool("debug", false, "Enable debug tracing to stderr")
	tickLimit := fs.Int("tick-limit", sim.DefaultTickLimit, "Absolute tick ceiling")
	eventsOut := fs.String("events", "", "Write the event log as JSONL to this file")
	reportOut := fs.String("report", "", "Write the run report as JSON to this file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: archfinn run <script.afinn> [options]

Run one scenario from an ArchFinn script as a deterministic, seeded
simulation. A completed result (including a failed one) exits zero;
parse, bind, and runtime errors exit non-zero.

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

	if !*quiet {
		printBanner()
		fmt.Printf("Loading scenario: %s\n", filepath.Base(fs.Arg(0)))
		fmt.Printf("Running scenario: %s\n", sc.Name)
		fmt.Printf("Random seed: %d\n", *seed)
		fmt.Println(strings.Repeat("-", 60))
	}

	state, err := sim.Bind(script, sc, *seed)
	if err != nil {
		return err
	}

	opts := sim.Options{TickLimit: *tickLimit}
	if *debug {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		opts.Logger = &logger
	}

	start := time.Now()
	res, err := sim.RunContext(context.Background(), state, sc, opts)
	if err != nil {
		return err
	}

	if *quiet {
		fmt.Printf("RESULT: %s\n", res.Outcome)
		if len(res.Events) > 0 {
			fmt.Printf("EVENTS: %s\n", strings.Join(res.Events, ","))
		}
	} else {
		fmt.Println(strings.Repeat("-", 60))
		fmt.Printf("Simulation completed in %d ticks\n", res.FinalTick)
		fmt.Printf("Final result: %s\n", strings.ToUpper(res.Outcome.String()))
		if len(res.Events) > 0 {
			fmt.Printf("Events triggered: %s\n", strings.Join(res.Events, ", "))
		}
	}

	if *eventsOut != "" {
		f, err := os.Create(*eventsOut)
		if err != nil {
			return fmt.Errorf("create events file: %w", err)
		}
		defer f.Close()
		if err := eventlog.WriteJSONL(f, state.Events); err != nil {
			return fmt.Errorf("write events: %w", err)
		}
	}
	if *reportOut != "" {
		report := results.NewReport(sc.Name, *seed, res, state, time.Since(start))
		if err := results.WriteFile(*reportOut, report); err != nil {
			return err
		}
	}
	return nil
}
