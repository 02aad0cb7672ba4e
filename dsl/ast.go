package dsl

// Script is the declarative model produced by the parser: an ordered
// collection of declarations preserving source order. It is immutable
// after parse.
type Script struct {
	Decls []Decl
}

// Decl is a top-level declaration. The set of variants is closed; only
// the scenario variant carries a scenario name.
type Decl interface {
	Position() Pos
	decl()
}

// EdgeKind selects the weakening policy applied across a dependency edge.
type EdgeKind int

const (
	EdgeSoft EdgeKind = iota // weakens downstream one level
	EdgeHard                 // fails downstream outright
)

func (k EdgeKind) String() string {
	if k == EdgeHard {
		return "hard"
	}
	return "soft"
}

// NodeDecl declares an architecture component. Attribute values are
// strings, int64s, float64s, or bools; the "critical" attribute marks
// nodes whose terminal failure fails the scenario.
type NodeDecl struct {
	ID    string
	Attrs map[string]any
	Pos   Pos
}

// EdgeDecl declares a dependency from Source to Target.
type EdgeDecl struct {
	Source string
	Target string
	Kind   EdgeKind
	Pos    Pos
}

// EdgeRef names an edge from within a control's guards clause.
type EdgeRef struct {
	Source string
	Target string
	Pos    Pos
}

// ControlDecl declares a protective control guarding one or more edges.
type ControlDecl struct {
	ID       string
	Type     string    // "circuit_breaker"
	Guards   []EdgeRef // edges this control protects
	Cooldown int       // ticks from open to half_open
	Probe    float64   // probability a half_open probe succeeds
	TripWhen string    // optional predicate source; empty = always trips
	Pos      Pos
}

// ScenarioDecl declares a named, ordered timeline of simulation steps.
type ScenarioDecl struct {
	Name  string
	Steps []Step
	Pos   Pos
}

func (d *NodeDecl) Position() Pos     { return d.Pos }
func (d *EdgeDecl) Position() Pos     { return d.Pos }
func (d *ControlDecl) Position() Pos  { return d.Pos }
func (d *ScenarioDecl) Position() Pos { return d.Pos }

func (d *NodeDecl) decl()     {}
func (d *EdgeDecl) decl()     {}
func (d *ControlDecl) decl()  {}
func (d *ScenarioDecl) decl() {}

// Critical reports whether the node carries a truthy "critical" attribute.
func (d *NodeDecl) Critical() bool {
	v, ok := d.Attrs["critical"].(bool)
	return ok && v
}

// Step is a single scenario instruction. The set of variants is closed.
type Step interface {
	Position() Pos
	step()
}

// InjectFailure draws one uniform sample and fails the target node when
// the sample is below Probability.
type InjectFailure struct {
	Target      string
	Probability float64
	Pos         Pos
}

// AdvanceTick advances simulated time by Count ticks.
type AdvanceTick struct {
	Count int
	Pos   Pos
}

// ApplyControl advances the named control's state machine one transition.
type ApplyControl struct {
	Control string
	Pos     Pos
}

// AssertCondition terminates the scenario with a failed result when the
// predicate evaluates false.
type AssertCondition struct {
	Predicate string
	Pos       Pos
}

// WaitUntil advances one tick at a time until the predicate holds or
// MaxTicks elapse. MaxTicks of 0 means unbounded (the engine's tick
// ceiling still applies).
type WaitUntil struct {
	Predicate string
	MaxTicks  int
	Pos       Pos
}

func (s *InjectFailure) Position() Pos   { return s.Pos }
func (s *AdvanceTick) Position() Pos     { return s.Pos }
func (s *ApplyControl) Position() Pos    { return s.Pos }
func (s *AssertCondition) Position() Pos { return s.Pos }
func (s *WaitUntil) Position() Pos       { return s.Pos }

func (s *InjectFailure) step()   {}
func (s *AdvanceTick) step()     {}
func (s *ApplyControl) step()    {}
func (s *AssertCondition) step() {}
func (s *WaitUntil) step()       {}

// Nodes returns all node declarations in source order.
func (s *Script) Nodes() []*NodeDecl {
	var nodes []*NodeDecl
	for _, d := range s.Decls {
		if n, ok := d.(*NodeDecl); ok {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Edges returns all edge declarations in source order.
func (s *Script) Edges() []*EdgeDecl {
	var edges []*EdgeDecl
	for _, d := range s.Decls {
		if e, ok := d.(*EdgeDecl); ok {
			edges = append(edges, e)
		}
	}
	return edges
}

// Controls returns all control declarations in source order.
func (s *Script) Controls() []*ControlDecl {
	var controls []*ControlDecl
	for _, d := range s.Decls {
		if c, ok := d.(*ControlDecl); ok {
			controls = append(controls, c)
		}
	}
	return controls
}

// Scenarios returns all scenario declarations in source order.
func (s *Script) Scenarios() []*ScenarioDecl {
	var scenarios []*ScenarioDecl
	for _, d := range s.Decls {
		if sc, ok := d.(*ScenarioDecl); ok {
			scenarios = append(scenarios, sc)
		}
	}
	return scenarios
}

// Scenario returns the scenario with the given name, or nil.
func (s *Script) Scenario(name string) *ScenarioDecl {
	for _, sc := range s.Scenarios() {
		if sc.Name == name {
			return sc
		}
	}
	return nil
}

// FirstScenario returns the first scenario declared in the script, or nil.
func (s *Script) FirstScenario() *ScenarioDecl {
	for _, d := range s.Decls {
		if sc, ok := d.(*ScenarioDecl); ok {
			return sc
		}
	}
	return nil
}
