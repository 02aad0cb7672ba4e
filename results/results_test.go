package results

import (
	"bytes"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/archfinn-io/archfinn/dsl"
	"github.com/archfinn-io/archfinn/sim"
)

func runScenario(t *testing.T, input string, seed int64) (sim.Result, *sim.ArchState, *dsl.ScenarioDecl) {
	t.Helper()
	script, err := dsl.Parse(input)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sc := script.FirstScenario()
	state, err := sim.Bind(script, sc, seed)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	res, err := sim.Run(state, sc)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return res, state, sc
}

func TestNewReport(t *testing.T) {
	res, state, sc := runScenario(t, `
NODE api { critical = true }
NODE db
EDGE db -> api
SCENARIO outage { inject_failure(db, 1.0) }
`, 11)

	report := NewReport(sc.Name, 11, res, state, 250*time.Millisecond)
	if report.Version != SchemaVersion {
		t.Errorf("version = %q, want %q", report.Version, SchemaVersion)
	}
	if report.RunID == "" {
		t.Error("expected a run id")
	}
	if report.Scenario != "outage" || report.Seed != 11 {
		t.Errorf("unexpected identity fields: %+v", report)
	}
	if report.Outcome != "survived" {
		t.Errorf("outcome = %q, want survived", report.Outcome)
	}
	want := []string{"db-failed", "api-degraded"}
	if !reflect.DeepEqual(report.Events, want) {
		t.Errorf("events = %v, want %v", report.Events, want)
	}
	if len(report.Log) != 2 {
		t.Errorf("expected 2 log entries, got %d", len(report.Log))
	}
	if report.NodeStatus["db"] != "failed" || report.NodeStatus["api"] != "degraded" {
		t.Errorf("unexpected node statuses: %v", report.NodeStatus)
	}
	if report.ComputeTime != 0.25 {
		t.Errorf("compute time = %v, want 0.25", report.ComputeTime)
	}
}

func TestReportRoundTrip(t *testing.T) {
	res, state, sc := runScenario(t, `
NODE db
SCENARIO s { inject_failure(db, 1.0) }
`, 1)
	report := NewReport(sc.Name, 1, res, state, time.Millisecond)

	var buf bytes.Buffer
	if err := Write(&buf, report); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.RunID != report.RunID || got.Outcome != report.Outcome {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, report)
	}
	if !reflect.DeepEqual(got.Events, report.Events) {
		t.Errorf("events = %v, want %v", got.Events, report.Events)
	}
}

func TestReportFileRoundTrip(t *testing.T) {
	res, state, sc := runScenario(t, `
NODE db
SCENARIO s { advance(1) }
`, 1)
	report := NewReport(sc.Name, 1, res, state, time.Millisecond)

	path := filepath.Join(t.TempDir(), "report.json")
	if err := WriteFile(path, report); err != nil {
		t.Fatalf("write file: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if got.RunID != report.RunID {
		t.Errorf("run id = %q, want %q", got.RunID, report.RunID)
	}
}
