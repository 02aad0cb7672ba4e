// Package analysis provides structural checks for parsed architecture
// scripts, surfacing likely misconfigurations before any scenario runs.
package analysis

import (
	"fmt"

	"github.com/archfinn-io/archfinn/dsl"
)

// Result contains the outcome of analyzing a script.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []Issue  `json:"errors,omitempty"`
	Warnings []Issue  `json:"warnings,omitempty"`
	Summary  Summary  `json:"summary"`
	Impact   []Impact `json:"impact,omitempty"`
}

// Issue is a single finding.
type Issue struct {
	Severity   string   `json:"severity"` // "error" or "warning"
	Category   string   `json:"category"` // "structure", "connectivity", "controls", "scenarios"
	Message    string   `json:"message"`
	Location   []string `json:"location,omitempty"` // affected node/control ids
	Suggestion string   `json:"suggestion,omitempty"`
}

// Summary counts the script's declarations and findings.
type Summary struct {
	Nodes     int `json:"nodes"`
	Edges     int `json:"edges"`
	Controls  int `json:"controls"`
	Scenarios int `json:"scenarios"`
	Errors    int `json:"errors"`
	Warnings  int `json:"warnings"`
}

// Impact describes the worst-case downstream closure of a single node
// failing: every node reachable along dependency edges, ignoring
// controls, plus the critical nodes among them.
type Impact struct {
	Node           string   `json:"node"`
	Downstream     []string `json:"downstream,omitempty"`
	CriticalAtRisk []string `json:"criticalAtRisk,omitempty"`
}

// Analyzer runs structural checks over one script.
type Analyzer struct {
	script *dsl.Script
	result *Result
}

// NewAnalyzer creates an analyzer for a parsed script.
func NewAnalyzer(script *dsl.Script) *Analyzer {
	return &Analyzer{
		script: script,
		result: &Result{
			Valid: true,
			Summary: Summary{
				Nodes:     len(script.Nodes()),
				Edges:     len(script.Edges()),
				Controls:  len(script.Controls()),
				Scenarios: len(script.Scenarios()),
			},
		},
	}
}

// Analyze runs all checks.
func (a *Analyzer) Analyze() *Result {
	a.checkStructure()
	a.checkConnectivity()
	a.checkControls()
	a.checkScenarios()

	a.result.Valid = len(a.result.Errors) == 0
	a.result.Summary.Errors = len(a.result.Errors)
	a.result.Summary.Warnings = len(a.result.Warnings)
	return a.result
}

// AnalyzeWithImpact runs all checks plus per-node impact analysis.
func (a *Analyzer) AnalyzeWithImpact() *Result {
	a.Analyze()
	for _, n := range a.script.Nodes() {
		a.result.Impact = append(a.result.Impact, a.impact(n.ID))
	}
	return a.result
}

func (a *Analyzer) addError(category, message string, location []string, suggestion string) {
	a.result.Errors = append(a.result.Errors, Issue{
		Severity: "error", Category: category, Message: message,
		Location: location, Suggestion: suggestion,
	})
}

func (a *Analyzer) addWarning(category, message string, location []string, suggestion string) {
	a.result.Warnings = append(a.result.Warnings, Issue{
		Severity: "warning", Category: category, Message: message,
		Location: location, Suggestion: suggestion,
	})
}

func (a *Analyzer) nodeSet() map[string]bool {
	set := map[string]bool{}
	for _, n := range a.script.Nodes() {
		set[n.ID] = true
	}
	return set
}

func (a *Analyzer) checkStructure() {
	nodes := a.nodeSet()

	if len(nodes) == 0 {
		a.addError("structure", "Script declares no nodes", nil, "Add at least one NODE")
		return
	}
	if len(a.script.Scenarios()) == 0 {
		a.addWarning("structure", "Script declares no scenarios", nil, "Add a SCENARIO block to simulate")
	}

	critical := 0
	for _, n := range a.script.Nodes() {
		if n.Critical() {
			critical++
		}
	}
	if critical == 0 {
		a.addWarning("structure", "No node is marked critical; every run survives",
			nil, "Mark the nodes whose failure matters with critical = true")
	}

	seen := map[string]dsl.EdgeKind{}
	for _, e := range a.script.Edges() {
		if !nodes[e.Source] {
			a.addError("structure", fmt.Sprintf("Edge references undeclared node %q", e.Source),
				[]string{e.Source}, "Declare the node or fix the edge")
		}
		if !nodes[e.Target] {
			a.addError("structure", fmt.Sprintf("Edge references undeclared node %q", e.Target),
				[]string{e.Target}, "Declare the node or fix the edge")
		}
		if e.Source == e.Target {
			a.addWarning("structure", fmt.Sprintf("Node %q depends on itself", e.Source),
				[]string{e.Source}, "Remove the self edge")
		}
		key := e.Source + " -> " + e.Target
		if _, dup := seen[key]; dup {
			a.addWarning("structure", fmt.Sprintf("Duplicate edge %s", key),
				[]string{e.Source, e.Target}, "Remove the duplicate; only the first is guarded by controls")
		}
		seen[key] = e.Kind
	}
}

func (a *Analyzer) checkConnectivity() {
	if len(a.script.Nodes()) < 2 {
		return
	}
	connected := map[string]bool{}
	for _, e := range a.script.Edges() {
		connected[e.Source] = true
		connected[e.Target] = true
	}
	for _, n := range a.script.Nodes() {
		if !connected[n.ID] {
			a.addWarning("connectivity", fmt.Sprintf("Node %q is not connected to any edge", n.ID),
				[]string{n.ID}, "Add edges or remove the node")
		}
	}
}

func (a *Analyzer) checkControls() {
	declaredEdge := map[string]bool{}
	for _, e := range a.script.Edges() {
		declaredEdge[e.Source+" -> "+e.Target] = true
	}

	applied := map[string]bool{}
	for _, sc := range a.script.Scenarios() {
		for _, step := range sc.Steps {
			if ap, ok := step.(*dsl.ApplyControl); ok {
				applied[ap.Control] = true
			}
		}
	}

	for _, c := range a.script.Controls() {
		if len(c.Guards) == 0 {
			a.addWarning("controls", fmt.Sprintf("Control %q guards no edges", c.ID),
				[]string{c.ID}, "Add guards = source -> target entries")
		}
		for _, g := range c.Guards {
			key := g.Source + " -> " + g.Target
			if !declaredEdge[key] {
				a.addError("controls", fmt.Sprintf("Control %q guards undeclared edge %s", c.ID, key),
					[]string{c.ID}, "Declare the edge or fix the guard")
			}
		}
		if !applied[c.ID] {
			a.addWarning("controls", fmt.Sprintf("Control %q is never applied by any scenario", c.ID),
				[]string{c.ID}, "Add an apply step or remove the control")
		}
	}
}

func (a *Analyzer) checkScenarios() {
	nodes := a.nodeSet()
	controls := map[string]bool{}
	for _, c := range a.script.Controls() {
		controls[c.ID] = true
	}

	for _, sc := range a.script.Scenarios() {
		for _, step := range sc.Steps {
			switch st := step.(type) {
			case *dsl.InjectFailure:
				if !nodes[st.Target] {
					a.addError("scenarios", fmt.Sprintf("Scenario %q injects failure into undeclared node %q", sc.Name, st.Target),
						[]string{st.Target}, "Declare the node or fix the step")
				}
			case *dsl.ApplyControl:
				if !controls[st.Control] {
					a.addError("scenarios", fmt.Sprintf("Scenario %q applies undeclared control %q", sc.Name, st.Control),
						[]string{st.Control}, "Declare the control or fix the step")
				}
			}
		}
	}
}

// impact computes the downstream closure of a node by breadth-first
// traversal, ignoring edge kinds and controls. Worst case, not a
// simulation.
func (a *Analyzer) impact(origin string) Impact {
	critical := map[string]bool{}
	for _, n := range a.script.Nodes() {
		critical[n.ID] = n.Critical()
	}
	outgoing := map[string][]string{}
	for _, e := range a.script.Edges() {
		outgoing[e.Source] = append(outgoing[e.Source], e.Target)
	}

	imp := Impact{Node: origin}
	visited := map[string]bool{origin: true}
	queue := []string{origin}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range outgoing[cur] {
			if visited[next] {
				continue
			}
			visited[next] = true
			imp.Downstream = append(imp.Downstream, next)
			if critical[next] {
				imp.CriticalAtRisk = append(imp.CriticalAtRisk, next)
			}
			queue = append(queue, next)
		}
	}
	if critical[origin] {
		imp.CriticalAtRisk = append([]string{origin}, imp.CriticalAtRisk...)
	}
	return imp
}
