package results

import (
	"context"
	"reflect"
	"testing"

	"github.com/archfinn-io/archfinn/dsl"
)

const sweepScript = `
NODE api { critical = true }
NODE db
EDGE db -> api : hard
SCENARIO flaky {
  inject_failure(db, 0.5)
  advance(1)
}
`

func parseSweepScript(t *testing.T) (*dsl.Script, *dsl.ScenarioDecl) {
	t.Helper()
	script, err := dsl.Parse(sweepScript)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return script, script.FirstScenario()
}

func TestSweep(t *testing.T) {
	script, sc := parseSweepScript(t)
	result, err := Sweep(context.Background(), script, sc, SweepOptions{
		Runs:        20,
		BaseSeed:    100,
		Parallelism: 4,
	})
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}

	if len(result.Reports) != 20 {
		t.Fatalf("expected 20 reports, got %d", len(result.Reports))
	}
	for i, r := range result.Reports {
		if r == nil {
			t.Fatalf("report %d is nil", i)
		}
		if r.Seed != 100+int64(i) {
			t.Errorf("report %d: seed = %d, want %d", i, r.Seed, 100+int64(i))
		}
		if r.Scenario != "flaky" {
			t.Errorf("report %d: scenario = %q", i, r.Scenario)
		}
	}

	s := result.Summary
	if s.Runs != 20 || s.BaseSeed != 100 {
		t.Errorf("unexpected summary identity: %+v", s)
	}
	if s.Survived+s.Failed+s.Aborted != s.Runs {
		t.Errorf("outcome counts %d+%d+%d do not sum to %d", s.Survived, s.Failed, s.Aborted, s.Runs)
	}
	wantRate := float64(s.Failed+s.Aborted) / float64(s.Runs)
	if s.FailureRate != wantRate {
		t.Errorf("failure rate = %v, want %v", s.FailureRate, wantRate)
	}
}

func TestSweep_Reproducible(t *testing.T) {
	script, sc := parseSweepScript(t)

	outcomes := func(parallelism int) []string {
		result, err := Sweep(context.Background(), script, sc, SweepOptions{
			Runs:        10,
			BaseSeed:    7,
			Parallelism: parallelism,
		})
		if err != nil {
			t.Fatalf("sweep: %v", err)
		}
		out := make([]string, len(result.Reports))
		for i, r := range result.Reports {
			out[i] = r.Outcome
		}
		return out
	}

	serial := outcomes(1)
	parallel := outcomes(8)
	if !reflect.DeepEqual(serial, parallel) {
		t.Errorf("parallelism changed outcomes:\nserial   %v\nparallel %v", serial, parallel)
	}
}

func TestSweep_InvalidOptions(t *testing.T) {
	script, sc := parseSweepScript(t)
	if _, err := Sweep(context.Background(), script, sc, SweepOptions{Runs: 0}); err == nil {
		t.Error("expected error for zero runs")
	}
	if _, err := Sweep(context.Background(), script, nil, SweepOptions{Runs: 1}); err == nil {
		t.Error("expected error for nil scenario")
	}
}
