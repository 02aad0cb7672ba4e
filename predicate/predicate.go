// Package predicate compiles and evaluates the boolean expressions used
// by assert and wait_until steps and by control trip conditions.
//
// Expressions see three variables: tick (int), status (map from node id
// to "healthy"/"degraded"/"failed"), and the helper functions
// healthy(id), degraded(id), and failed(id).
package predicate

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Predicate is a compiled expression ready for evaluation. Source is the
// verbatim text, preserved for event reporting.
type Predicate struct {
	Source  string
	program *vm.Program
}

func env(tick int, status map[string]string) map[string]any {
	return map[string]any{
		"tick":   tick,
		"status": status,
		"healthy": func(id string) bool {
			return status[id] == "healthy"
		},
		"degraded": func(id string) bool {
			return status[id] == "degraded"
		},
		"failed": func(id string) bool {
			return status[id] == "failed"
		},
	}
}

// Compile validates and compiles an expression. Expressions that do not
// produce a boolean fail here rather than mid-run.
func Compile(source string) (*Predicate, error) {
	if source == "" {
		return nil, fmt.Errorf("empty predicate")
	}
	program, err := expr.Compile(source, expr.Env(env(0, map[string]string{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile predicate %q: %w", source, err)
	}
	return &Predicate{Source: source, program: program}, nil
}

// Eval evaluates the predicate against the current tick and node statuses.
func (p *Predicate) Eval(tick int, status map[string]string) (bool, error) {
	result, err := expr.Run(p.program, env(tick, status))
	if err != nil {
		return false, fmt.Errorf("eval predicate %q: %w", p.Source, err)
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("predicate %q returned %T, expected bool", p.Source, result)
	}
	return b, nil
}
