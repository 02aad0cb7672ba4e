// Package viz renders architecture graphs in Graphviz DOT format.
package viz

import (
	"fmt"
	"os"
	"strings"

	"github.com/archfinn-io/archfinn/dsl"
)

// DOT renders a script's nodes, edges, and control guards as a directed
// graph. Declaration order is preserved, so output is deterministic.
func DOT(script *dsl.Script) string {
	var b strings.Builder
	b.WriteString("digraph architecture {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=rounded];\n")

	for _, n := range script.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", n.ID)}
		if n.Critical() {
			attrs = append(attrs, "penwidth=2", "color=red")
		}
		fmt.Fprintf(&b, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	guards := guardLabels(script)
	for _, e := range script.Edges() {
		attrs := []string{}
		if e.Kind == dsl.EdgeHard {
			attrs = append(attrs, "style=bold")
		} else {
			attrs = append(attrs, "style=dashed")
		}
		if ids := guards[e.Source+" -> "+e.Target]; len(ids) > 0 {
			attrs = append(attrs, fmt.Sprintf("label=%q", strings.Join(ids, ",")))
		}
		fmt.Fprintf(&b, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	b.WriteString("}\n")
	return b.String()
}

// SaveDOT renders a script and writes the DOT text to a file.
func SaveDOT(script *dsl.Script, filename string) error {
	return os.WriteFile(filename, []byte(DOT(script)), 0644)
}

// guardLabels maps each guarded edge to the controls guarding it, in
// control declaration order.
func guardLabels(script *dsl.Script) map[string][]string {
	guards := map[string][]string{}
	for _, c := range script.Controls() {
		for _, g := range c.Guards {
			key := g.Source + " -> " + g.Target
			guards[key] = append(guards[key], c.ID)
		}
	}
	return guards
}
