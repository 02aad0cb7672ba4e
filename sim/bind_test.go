package sim

import (
	"errors"
	"testing"

	"github.com/archfinn-io/archfinn/dsl"
)

func mustParse(t *testing.T, input string) *dsl.Script {
	t.Helper()
	script, err := dsl.Parse(input)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return script
}

func TestBind_BuildsState(t *testing.T) {
	script := mustParse(t, `
NODE api { critical = true }
NODE db
EDGE api -> db : hard
CONTROL breaker {
  type = circuit_breaker
  guards = api -> db
  cooldown = 2
  probe = 0.5
  trip_when = "failed('db')"
}
SCENARIO s {
  inject_failure(db, 1.0)
  apply(breaker)
  assert("!failed('api')")
}
`)
	state, err := Bind(script, script.FirstScenario(), 1)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}

	if len(state.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(state.Nodes))
	}
	if !state.Nodes["api"].Critical {
		t.Error("api: expected critical")
	}
	if state.Nodes["db"].Status != StatusHealthy {
		t.Error("db: expected healthy initial status")
	}

	if len(state.Edges) != 1 || state.Edges[0].Kind != dsl.EdgeHard {
		t.Errorf("unexpected edges: %+v", state.Edges)
	}

	ctrl := state.Controls["breaker"]
	if ctrl == nil {
		t.Fatal("breaker: not bound")
	}
	if ctrl.State != ControlClosed {
		t.Errorf("breaker: expected closed initial state, got %v", ctrl.State)
	}
	if ctrl.Cooldown != 2 || ctrl.Probe != 0.5 || ctrl.TripWhen == nil {
		t.Errorf("breaker: unexpected config %+v", ctrl)
	}
	if len(state.guards[0]) != 1 {
		t.Errorf("expected breaker to guard edge 0, got %+v", state.guards)
	}

	if _, ok := state.preds["!failed('api')"]; !ok {
		t.Error("assert predicate not compiled at bind time")
	}
}

func TestBind_NilScenario(t *testing.T) {
	script := mustParse(t, `NODE api`)
	if _, err := Bind(script, nil, 0); err != nil {
		t.Fatalf("bind without scenario: %v", err)
	}
}

func TestBind_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown edge source", `NODE b; EDGE a -> b`},
		{"unknown edge target", `NODE a; EDGE a -> b`},
		{"unknown inject target", `NODE a; SCENARIO s { inject_failure(ghost, 1.0) }`},
		{"unknown apply control", `NODE a; SCENARIO s { apply(ghost) }`},
		{"guard on undeclared edge", `
NODE a
NODE b
CONTROL c { type = circuit_breaker; guards = a -> b }`},
		{"malformed trip condition", `
NODE a
CONTROL c { type = circuit_breaker; trip_when = "tick >" }`},
		{"malformed assert predicate", `NODE a; SCENARIO s { assert("tick >") }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := mustParse(t, tt.input)
			_, err := Bind(script, script.FirstScenario(), 0)
			var bindErr *BindError
			if !errors.As(err, &bindErr) {
				t.Fatalf("expected *BindError, got %v", err)
			}
		})
	}
}

func TestBind_ErrorPosition(t *testing.T) {
	script := mustParse(t, "NODE a\nEDGE a -> ghost")
	_, err := Bind(script, nil, 0)
	var bindErr *BindError
	if !errors.As(err, &bindErr) {
		t.Fatalf("expected *BindError, got %v", err)
	}
	if bindErr.Pos.Line != 2 {
		t.Errorf("expected error at line 2, got %v", bindErr.Pos)
	}
}
