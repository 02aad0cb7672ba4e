package storage

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/archfinn-io/archfinn/results"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testReport(id, scenario string, seed int64, created time.Time) *results.Report {
	return &results.Report{
		Version:   results.SchemaVersion,
		RunID:     id,
		Scenario:  scenario,
		Seed:      seed,
		Outcome:   "survived",
		FinalTick: 3,
		Events:    []string{"db-failed"},
		Timestamp: created,
	}
}

func TestStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)

	report := testReport("run-1", "outage", 7, time.Now().UTC())
	if err := store.SaveReport(report); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.GetReport("run-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.RunID != "run-1" || got.Scenario != "outage" || got.Seed != 7 {
		t.Errorf("unexpected report %+v", got)
	}
	if len(got.Events) != 1 || got.Events[0] != "db-failed" {
		t.Errorf("events = %v", got.Events)
	}
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetReport("ghost")
	if err == nil {
		t.Fatal("expected error for unknown run")
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Errorf("error should name the run id, got %v", err)
	}
}

func TestStore_ListRuns(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		r := testReport(id, "outage", int64(i), base.Add(time.Duration(i)*time.Minute))
		if err := store.SaveReport(r); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	runs, err := store.ListRuns()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	// Most recent first.
	if runs[0].ID != "run-c" || runs[2].ID != "run-a" {
		t.Errorf("unexpected order: %s, %s, %s", runs[0].ID, runs[1].ID, runs[2].ID)
	}
	if !runs[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("created at = %v, want %v", runs[0].CreatedAt, base.Add(2*time.Minute))
	}
}

func TestStore_ListEmpty(t *testing.T) {
	store := newTestStore(t)
	runs, err := store.ListRuns()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}
