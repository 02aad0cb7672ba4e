package sim

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/archfinn-io/archfinn/dsl"
	"github.com/archfinn-io/archfinn/eventlog"
)

// DefaultTickLimit is the absolute tick ceiling: the engine's only
// built-in non-termination guard.
const DefaultTickLimit = 10000

// Options configures a single run.
type Options struct {
	TickLimit int             // absolute tick ceiling; 0 means DefaultTickLimit
	Logger    *zerolog.Logger // debug tracing; nil disables logging entirely
}

// Outcome is the terminal classification of a scenario run.
type Outcome int

const (
	OutcomeSurvived Outcome = iota
	OutcomeFailed
	OutcomeAborted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFailed:
		return "failed"
	case OutcomeAborted:
		return "aborted"
	}
	return "survived"
}

// Result is the record produced by a completed scenario run. A failed
// assertion and a crossed tick ceiling are outcomes, not errors.
type Result struct {
	Outcome   Outcome
	Events    []string
	FinalTick int
}

// RuntimeFault signals a condition the engine cannot model in the state
// machine, such as a step referencing state that was never bound. It is
// never coerced into a simulation outcome.
type RuntimeFault struct {
	Msg string
	Err error
}

func (f *RuntimeFault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("runtime fault: %s: %v", f.Msg, f.Err)
	}
	return "runtime fault: " + f.Msg
}

func (f *RuntimeFault) Unwrap() error { return f.Err }

type run struct {
	state *ArchState
	opts  Options
	log   zerolog.Logger
}

// Run executes the scenario's steps against bound runtime state with
// default options.
func Run(state *ArchState, sc *dsl.ScenarioDecl) (Result, error) {
	return RunContext(context.Background(), state, sc, Options{})
}

// RunContext executes the scenario's ordered steps against bound runtime
// state. The random stream is never reseeded here; the caller seeds it
// through Bind. Cancellation is checked only at step and tick boundaries.
func RunContext(ctx context.Context, state *ArchState, sc *dsl.ScenarioDecl, opts Options) (Result, error) {
	if state == nil {
		return Result{}, &RuntimeFault{Msg: "nil runtime state"}
	}
	if sc == nil {
		return Result{}, &RuntimeFault{Msg: "nil scenario"}
	}
	if opts.TickLimit <= 0 {
		opts.TickLimit = DefaultTickLimit
	}
	if opts.Logger == nil {
		nop := zerolog.Nop()
		opts.Logger = &nop
	}

	r := &run{state: state, opts: opts, log: opts.Logger.With().Str("scenario", sc.Name).Logger()}

	for _, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		done, res, err := r.execStep(step)
		if err != nil {
			return Result{}, err
		}
		if done {
			return res, nil
		}
	}

	return r.finish(), nil
}

// execStep runs one step. done is true when the scenario terminated early
// (failed assertion or crossed tick ceiling) with res as the final result.
func (r *run) execStep(step dsl.Step) (done bool, res Result, err error) {
	s := r.state
	switch st := step.(type) {
	case *dsl.InjectFailure:
		node, ok := s.Nodes[st.Target]
		if !ok {
			return false, Result{}, &RuntimeFault{Msg: fmt.Sprintf("inject_failure target %q not bound", st.Target)}
		}
		draw := s.rng.Float64()
		r.log.Debug().Int("tick", s.Tick).Str("target", st.Target).Float64("draw", draw).Float64("p", st.Probability).Msg("inject failure")
		if draw < st.Probability {
			node.Status = StatusFailed
			s.record(eventlog.KindFailure, node.ID, node.ID+"-failed")
			r.propagate(node.ID)
		}

	case *dsl.AdvanceTick:
		for i := 0; i < st.Count; i++ {
			if r.advanceOne() {
				return true, r.aborted(), nil
			}
		}

	case *dsl.ApplyControl:
		ctrl, ok := s.Controls[st.Control]
		if !ok {
			return false, Result{}, &RuntimeFault{Msg: fmt.Sprintf("control %q not bound", st.Control)}
		}
		if err := r.applyControl(ctrl); err != nil {
			return false, Result{}, err
		}

	case *dsl.AssertCondition:
		ok, err := r.eval(st.Predicate)
		if err != nil {
			return false, Result{}, err
		}
		if !ok {
			s.record(eventlog.KindAssertion, "", "assertion-failed:"+st.Predicate)
			return true, Result{Outcome: OutcomeFailed, Events: s.EventMessages(), FinalTick: s.Tick}, nil
		}

	case *dsl.WaitUntil:
		waited := 0
		for {
			ok, err := r.eval(st.Predicate)
			if err != nil {
				return false, Result{}, err
			}
			if ok {
				break
			}
			if st.MaxTicks > 0 && waited >= st.MaxTicks {
				s.record(eventlog.KindTimeout, "", "wait-timeout")
				break
			}
			if r.advanceOne() {
				return true, r.aborted(), nil
			}
			waited++
		}

	default:
		return false, Result{}, &RuntimeFault{Msg: fmt.Sprintf("unknown step %T", step)}
	}
	return false, Result{}, nil
}

// advanceOne crosses a single tick, running time-triggered control
// transitions in declaration order. Returns true when the tick ceiling
// would be crossed.
func (r *run) advanceOne() (hitCeiling bool) {
	s := r.state
	if s.Tick >= r.opts.TickLimit {
		s.record(eventlog.KindAbort, "", "tick-limit-exceeded")
		return true
	}
	s.Tick++
	for _, id := range s.controlOrder {
		c := s.Controls[id]
		if c.State == ControlOpen && s.Tick-c.LastTransition >= c.Cooldown {
			c.State = ControlHalfOpen
			c.LastTransition = s.Tick
			r.log.Debug().Int("tick", s.Tick).Str("control", c.ID).Msg("cooldown elapsed, half_open")
		}
	}
	return false
}

// applyControl advances a control's state machine one transition.
func (r *run) applyControl(c *Control) error {
	s := r.state
	switch c.State {
	case ControlClosed:
		trip := true
		if c.TripWhen != nil {
			ok, err := c.TripWhen.Eval(s.Tick, s.statusMap())
			if err != nil {
				return &RuntimeFault{Msg: fmt.Sprintf("control %q trip condition", c.ID), Err: err}
			}
			trip = ok
		}
		if trip {
			c.State = ControlOpen
			c.LastTransition = s.Tick
			s.record(eventlog.KindTrip, c.ID, c.ID+"-tripped")
		}

	case ControlOpen:
		// Reopening happens on cooldown expiry at tick boundaries,
		// not through apply.

	case ControlHalfOpen:
		if s.rng.Float64() < c.Probe {
			c.State = ControlClosed
			c.LastTransition = s.Tick
			r.log.Debug().Int("tick", s.Tick).Str("control", c.ID).Msg("probe succeeded, closed")
		} else {
			c.State = ControlOpen
			c.LastTransition = s.Tick
			s.record(eventlog.KindTrip, c.ID, c.ID+"-tripped")
		}
	}
	return nil
}

// propagate performs a breadth-first traversal along outgoing dependency
// edges from a node whose status just changed. Each node is visited at
// most once per invocation, so traversal terminates on cyclic graphs.
// Edges guarded by an open control suppress propagation.
func (r *run) propagate(origin string) {
	s := r.state
	visited := map[string]bool{origin: true}
	queue := []string{origin}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, idx := range s.outgoing[cur] {
			edge := s.Edges[idx]
			if s.suppressed(idx) {
				continue
			}
			if visited[edge.Target] {
				continue
			}
			down := s.Nodes[edge.Target]
			next := weaken(down.Status, edge.Kind)
			if next == down.Status {
				continue
			}
			down.Status = next
			if next == StatusFailed {
				s.record(eventlog.KindFailure, down.ID, down.ID+"-failed")
			} else {
				s.record(eventlog.KindDegrade, down.ID, down.ID+"-degraded")
			}
			r.log.Debug().Int("tick", s.Tick).Str("from", cur).Str("node", down.ID).Str("status", next.String()).Msg("propagated")
			visited[edge.Target] = true
			queue = append(queue, edge.Target)
		}
	}
}

// weaken applies the edge kind policy to a downstream status.
func weaken(status NodeStatus, kind dsl.EdgeKind) NodeStatus {
	if kind == dsl.EdgeHard {
		return StatusFailed
	}
	switch status {
	case StatusHealthy:
		return StatusDegraded
	default:
		return StatusFailed
	}
}

func (r *run) eval(source string) (bool, error) {
	p, ok := r.state.preds[source]
	if !ok {
		return false, &RuntimeFault{Msg: fmt.Sprintf("predicate %q not bound", source)}
	}
	ok, err := p.Eval(r.state.Tick, r.state.statusMap())
	if err != nil {
		return false, &RuntimeFault{Msg: "predicate evaluation", Err: err}
	}
	return ok, nil
}

func (r *run) aborted() Result {
	return Result{Outcome: OutcomeAborted, Events: r.state.EventMessages(), FinalTick: r.state.Tick}
}

// finish classifies a normally exhausted scenario: failed when any
// critical node ended failed, survived otherwise.
func (r *run) finish() Result {
	outcome := OutcomeSurvived
	for _, id := range r.state.nodeOrder {
		n := r.state.Nodes[id]
		if n.Critical && n.Status == StatusFailed {
			outcome = OutcomeFailed
			break
		}
	}
	return Result{Outcome: outcome, Events: r.state.EventMessages(), FinalTick: r.state.Tick}
}
