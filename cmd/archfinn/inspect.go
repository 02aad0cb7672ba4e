package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/archfinn-io/archfinn/analysis"
)

func inspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	impact := fs.Bool("impact", false, "include per-node worst-case impact analysis")
	asJSON := fs.Bool("json", false, "emit the full result as JSON")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: archfinn inspect <script.afinn> [options]

Run structural checks over a script: undeclared references, isolated
nodes, unused controls, and similar misconfigurations.
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

	analyzer := analysis.NewAnalyzer(script)
	var result *analysis.Result
	if *impact {
		result = analyzer.AnalyzeWithImpact()
	} else {
		result = analyzer.Analyze()
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	} else {
		printAnalysis(result)
	}

	if !result.Valid {
		return fmt.Errorf("%d errors found", len(result.Errors))
	}
	return nil
}

func printAnalysis(result *analysis.Result) {
	s := result.Summary
	fmt.Printf("%d nodes, %d edges, %d controls, %d scenarios\n",
		s.Nodes, s.Edges, s.Controls, s.Scenarios)

	for _, issue := range result.Errors {
		printIssue(issue)
	}
	for _, issue := range result.Warnings {
		printIssue(issue)
	}

	for _, imp := range result.Impact {
		if len(imp.Downstream) == 0 {
			fmt.Printf("impact %s: none\n", imp.Node)
			continue
		}
		line := fmt.Sprintf("impact %s: %s", imp.Node, strings.Join(imp.Downstream, ", "))
		if len(imp.CriticalAtRisk) > 0 {
			line += fmt.Sprintf(" (critical at risk: %s)", strings.Join(imp.CriticalAtRisk, ", "))
		}
		fmt.Println(line)
	}

	if result.Valid && len(result.Warnings) == 0 {
		fmt.Println("No issues found.")
	}
}

func printIssue(issue analysis.Issue) {
	line := fmt.Sprintf("%s [%s] %s", issue.Severity, issue.Category, issue.Message)
	if issue.Suggestion != "" {
		line += " (" + issue.Suggestion + ")"
	}
	fmt.Println(line)
}
