package main

import (
	"fmt"
	"os"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "run":
		if err := run(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "validate":
		if err := validate(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "scenarios":
		if err := scenarios(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "sweep":
		if err := sweep(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "inspect":
		if err := inspect(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "graph":
		if err := graph(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("archfinn version " + version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`archfinn - architecture failure simulation engine

Usage:
  archfinn <command> [options]

Commands:
  run        Run a scenario from an .afinn script
  validate   Parse and bind-check a script without running it
  scenarios  List the scenarios declared in a script
  sweep      Run a scenario many times with derived seeds
  inspect    Run structural checks and impact analysis on a script
  graph      Render the architecture as a Graphviz DOT graph
  help       Show this help message
  version    Show version information

Examples:
  # Run the first scenario in a script
  archfinn run outage.afinn

  # Run a named scenario with a fixed seed
  archfinn run outage.afinn --scenario cascading --seed 42

  # Estimate a failure rate over 500 seeded runs
  archfinn sweep outage.afinn --runs 500 --archive runs.db

For command-specific help, run:
  archfinn <command> --help`)
}
