package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/archfinn-io/archfinn/viz"
)

func graph(args []string) error {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	output := fs.String("output", "", "write DOT to a file instead of stdout")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: archfinn graph <script.afinn> [options]

Render the architecture as a Graphviz DOT graph. Critical nodes are
highlighted, hard edges drawn bold, and guarded edges labeled with
their controls.
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

	if *output != "" {
		if err := viz.SaveDOT(script, *output); err != nil {
			return fmt.Errorf("write graph: %w", err)
		}
		fmt.Printf("Graph written to %s\n", *output)
		return nil
	}
	fmt.Print(viz.DOT(script))
	return nil
}
