package sim

import (
	"fmt"
	"math/rand"

	"github.com/archfinn-io/archfinn/dsl"
	"github.com/archfinn-io/archfinn/predicate"
)

// BindError reports a scenario or declaration referencing an identifier
// that was never declared, or a predicate that does not compile.
type BindError struct {
	Pos dsl.Pos
	Msg string
}

func (e *BindError) Error() string {
	return fmt.Sprintf("binding error at %v: %s", e.Pos, e.Msg)
}

// Bind builds runtime state for one run of the given scenario: nodes from
// every NodeDecl, edges and controls validated against declared nodes, and
// every predicate the scenario can evaluate compiled up front. The random
// stream is seeded here from the caller's seed and never reseeded.
func Bind(script *dsl.Script, sc *dsl.ScenarioDecl, seed int64) (*ArchState, error) {
	state := &ArchState{
		Nodes:    map[string]*Node{},
		Controls: map[string]*Control{},
		outgoing: map[string][]int{},
		guards:   map[int][]*Control{},
		preds:    map[string]*predicate.Predicate{},
		rng:      rand.New(rand.NewSource(seed)),
	}

	// Declarations may reference names declared later in the file, so
	// nodes are collected before edges and controls are resolved.
	for _, n := range script.Nodes() {
		attrs := make(map[string]any, len(n.Attrs))
		for k, v := range n.Attrs {
			attrs[k] = v
		}
		state.Nodes[n.ID] = &Node{ID: n.ID, Critical: n.Critical(), Attrs: attrs}
		state.nodeOrder = append(state.nodeOrder, n.ID)
	}

	for _, e := range script.Edges() {
		if _, ok := state.Nodes[e.Source]; !ok {
			return nil, &BindError{Pos: e.Pos, Msg: fmt.Sprintf("unknown node %q in edge", e.Source)}
		}
		if _, ok := state.Nodes[e.Target]; !ok {
			return nil, &BindError{Pos: e.Pos, Msg: fmt.Sprintf("unknown node %q in edge", e.Target)}
		}
		idx := len(state.Edges)
		state.Edges = append(state.Edges, Edge{Source: e.Source, Target: e.Target, Kind: e.Kind})
		state.outgoing[e.Source] = append(state.outgoing[e.Source], idx)
	}

	for _, c := range script.Controls() {
		ctrl := &Control{ID: c.ID, Cooldown: c.Cooldown, Probe: c.Probe}
		if c.TripWhen != "" {
			p, err := predicate.Compile(c.TripWhen)
			if err != nil {
				return nil, &BindError{Pos: c.Pos, Msg: fmt.Sprintf("control %q: %v", c.ID, err)}
			}
			ctrl.TripWhen = p
		}
		for _, g := range c.Guards {
			idx, ok := findEdge(state.Edges, g.Source, g.Target)
			if !ok {
				return nil, &BindError{Pos: g.Pos, Msg: fmt.Sprintf("control %q guards undeclared edge %s -> %s", c.ID, g.Source, g.Target)}
			}
			state.guards[idx] = append(state.guards[idx], ctrl)
		}
		state.Controls[c.ID] = ctrl
		state.controlOrder = append(state.controlOrder, c.ID)
	}

	if sc != nil {
		if err := bindScenario(state, sc); err != nil {
			return nil, err
		}
	}

	return state, nil
}

func findEdge(edges []Edge, source, target string) (int, bool) {
	for i, e := range edges {
		if e.Source == source && e.Target == target {
			return i, true
		}
	}
	return 0, false
}

// bindScenario resolves the scenario's step references and compiles its
// predicates, so malformed references surface before simulation starts.
func bindScenario(state *ArchState, sc *dsl.ScenarioDecl) error {
	compile := func(src string, pos dsl.Pos) error {
		if _, ok := state.preds[src]; ok {
			return nil
		}
		p, err := predicate.Compile(src)
		if err != nil {
			return &BindError{Pos: pos, Msg: err.Error()}
		}
		state.preds[src] = p
		return nil
	}

	for _, step := range sc.Steps {
		switch st := step.(type) {
		case *dsl.InjectFailure:
			if _, ok := state.Nodes[st.Target]; !ok {
				return &BindError{Pos: st.Pos, Msg: fmt.Sprintf("unknown node %q in inject_failure", st.Target)}
			}
		case *dsl.ApplyControl:
			if _, ok := state.Controls[st.Control]; !ok {
				return &BindError{Pos: st.Pos, Msg: fmt.Sprintf("unknown control %q in apply", st.Control)}
			}
		case *dsl.AssertCondition:
			if err := compile(st.Predicate, st.Pos); err != nil {
				return err
			}
		case *dsl.WaitUntil:
			if err := compile(st.Predicate, st.Pos); err != nil {
				return err
			}
		}
	}
	return nil
}
