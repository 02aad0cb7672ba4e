// Package results defines the structured output format for simulation runs.
package results

import (
	"time"

	"github.com/archfinn-io/archfinn/eventlog"
)

const SchemaVersion = "1.0.0"

// Report contains the complete output of one scenario run.
type Report struct {
	Version   string   `json:"version"`
	RunID     string   `json:"runId"`
	Scenario  string   `json:"scenario"`
	Seed      int64    `json:"seed"`
	Outcome   string   `json:"outcome"` // survived, failed, aborted
	FinalTick int      `json:"finalTick"`
	Events    []string `json:"events,omitempty"`

	Log        []eventlog.Event  `json:"log,omitempty"`
	NodeStatus map[string]string `json:"nodeStatus,omitempty"`

	Timestamp   time.Time `json:"timestamp"`
	ComputeTime float64   `json:"computeTime"` // seconds
}

// Summary aggregates a batch of runs of the same scenario.
type Summary struct {
	Scenario    string  `json:"scenario"`
	Runs        int     `json:"runs"`
	BaseSeed    int64   `json:"baseSeed"`
	Survived    int     `json:"survived"`
	Failed      int     `json:"failed"`
	Aborted     int     `json:"aborted"`
	FailureRate float64 `json:"failureRate"` // failed+aborted over runs
}
