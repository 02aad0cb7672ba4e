package results

import (
	"time"

	"github.com/google/uuid"

	"github.com/archfinn-io/archfinn/sim"
)

// NewReport builds a report from a completed run. The state must be the
// one the run mutated; its event log and node statuses are copied out
// here, after which the state can be discarded.
func NewReport(scenario string, seed int64, res sim.Result, state *sim.ArchState, computeTime time.Duration) *Report {
	report := &Report{
		Version:     SchemaVersion,
		RunID:       uuid.New().String(),
		Scenario:    scenario,
		Seed:        seed,
		Outcome:     res.Outcome.String(),
		FinalTick:   res.FinalTick,
		Events:      res.Events,
		Timestamp:   time.Now().UTC(),
		ComputeTime: computeTime.Seconds(),
	}
	if state != nil {
		report.Log = append(report.Log, state.Events...)
		report.NodeStatus = state.NodeStatuses()
	}
	return report
}
