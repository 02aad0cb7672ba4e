package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/archfinn-io/archfinn/sim"
)

func validate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: archfinn validate <script.afinn>

Parse a script and bind-check every scenario without running anything.
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

	scenarios := script.Scenarios()
	for _, sc := range scenarios {
		// The seed is irrelevant for bind-checking.
		if _, err := sim.Bind(script, sc, 0); err != nil {
			return fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
	}

	fmt.Printf("OK: %d declarations, %d scenarios\n", len(script.Decls), len(scenarios))
	return nil
}
