package main

import (
	"flag"
	"fmt"
	"os"
)

func scenarios(args []string) error {
	fs := flag.NewFlagSet("scenarios", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: archfinn scenarios <script.afinn>

List the scenarios declared in a script, in file order.
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

	list := script.Scenarios()
	if len(list) == 0 {
		fmt.Println("No scenarios declared.")
		return nil
	}
	for _, sc := range list {
		fmt.Printf("%s (%d steps)\n", sc.Name, len(sc.Steps))
	}
	return nil
}
