// Package sim binds a parsed ArchFinn script into runtime state and
// executes scenarios against it: tick advancement, probabilistic failure
// injection, control state machines, and failure propagation.
package sim

import (
	"math/rand"

	"github.com/archfinn-io/archfinn/dsl"
	"github.com/archfinn-io/archfinn/eventlog"
	"github.com/archfinn-io/archfinn/predicate"
)

// NodeStatus is the health of a single node. Weakening only ever moves
// rightward: healthy, degraded, failed.
type NodeStatus int

const (
	StatusHealthy NodeStatus = iota
	StatusDegraded
	StatusFailed
)

func (s NodeStatus) String() string {
	switch s {
	case StatusDegraded:
		return "degraded"
	case StatusFailed:
		return "failed"
	}
	return "healthy"
}

// ControlState is the circuit position of a control.
type ControlState int

const (
	ControlClosed ControlState = iota
	ControlOpen
	ControlHalfOpen
)

func (s ControlState) String() string {
	switch s {
	case ControlOpen:
		return "open"
	case ControlHalfOpen:
		return "half_open"
	}
	return "closed"
}

// Node is the runtime state of a declared node.
type Node struct {
	ID       string
	Status   NodeStatus
	Critical bool
	Attrs    map[string]any
}

// Edge is a bound dependency edge.
type Edge struct {
	Source string
	Target string
	Kind   dsl.EdgeKind
}

// Control is the runtime state of a declared control.
type Control struct {
	ID             string
	Cooldown       int
	Probe          float64
	TripWhen       *predicate.Predicate // nil means apply always trips
	State          ControlState
	LastTransition int // tick of the most recent state change
}

// ArchState is the runtime state of one simulation run. It is built by
// Bind, mutated only by the engine during that run, and never reused.
type ArchState struct {
	Nodes    map[string]*Node
	Edges    []Edge
	Controls map[string]*Control

	nodeOrder    []string
	controlOrder []string
	outgoing     map[string][]int    // edge indexes by source, declaration order
	guards       map[int][]*Control  // controls guarding each edge index
	preds        map[string]*predicate.Predicate

	rng    *rand.Rand
	Tick   int
	Events []eventlog.Event
}

func (s *ArchState) record(kind eventlog.Kind, subject, message string) {
	s.Events = append(s.Events, eventlog.Event{
		Tick:    s.Tick,
		Kind:    kind,
		Subject: subject,
		Message: message,
	})
}

// statusMap snapshots node statuses for predicate evaluation.
func (s *ArchState) statusMap() map[string]string {
	m := make(map[string]string, len(s.Nodes))
	for id, n := range s.Nodes {
		m[id] = n.Status.String()
	}
	return m
}

// suppressed reports whether any control guarding the edge is open.
func (s *ArchState) suppressed(edgeIdx int) bool {
	for _, c := range s.guards[edgeIdx] {
		if c.State == ControlOpen {
			return true
		}
	}
	return false
}

// EventMessages returns the ordered event strings recorded so far.
func (s *ArchState) EventMessages() []string {
	return eventlog.Messages(s.Events)
}

// NodeStatuses returns a snapshot of node id to status name.
func (s *ArchState) NodeStatuses() map[string]string {
	return s.statusMap()
}
