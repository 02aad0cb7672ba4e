// Package eventlog defines the typed event records produced during a
// simulation run, plus CSV and JSONL encodings for export.
package eventlog

// Kind classifies a simulation event.
type Kind string

const (
	KindFailure   Kind = "failure"   // a node's status became failed
	KindDegrade   Kind = "degrade"   // a node's status became degraded
	KindTrip      Kind = "trip"      // a control transitioned into open
	KindAssertion Kind = "assertion" // an assert step evaluated false
	KindTimeout   Kind = "timeout"   // a wait_until exceeded its max ticks
	KindAbort     Kind = "abort"     // the tick ceiling was crossed
)

// Event is a single named occurrence recorded during simulation.
// Message is the canonical event string surfaced in the run result
// (for example "db-failed" or "assertion-failed:<predicate>").
type Event struct {
	Tick    int    `json:"tick"`
	Kind    Kind   `json:"kind"`
	Subject string `json:"subject,omitempty"` // node or control id, when applicable
	Message string `json:"message"`
}

// Messages returns the ordered event strings for a sequence of events.
func Messages(events []Event) []string {
	msgs := make([]string, len(events))
	for i, e := range events {
		msgs[i] = e.Message
	}
	return msgs
}
