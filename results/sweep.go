package results

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/archfinn-io/archfinn/dsl"
	"github.com/archfinn-io/archfinn/sim"
)

// SweepOptions configures a multi-seed batch of runs.
type SweepOptions struct {
	Runs        int   // number of runs; must be positive
	BaseSeed    int64 // run i uses seed BaseSeed+i
	Parallelism int   // concurrent runs; 0 means unbounded
	TickLimit   int   // per-run tick ceiling; 0 means the engine default
}

// SweepResult holds the per-run reports in run-index order plus the
// aggregate summary.
type SweepResult struct {
	Summary Summary   `json:"summary"`
	Reports []*Report `json:"reports"`
}

// Sweep runs the scenario Runs times with derived seeds. Every run gets
// its own freshly bound state and an independently seeded random stream,
// so parallel execution cannot break any single run's determinism.
func Sweep(ctx context.Context, script *dsl.Script, sc *dsl.ScenarioDecl, opts SweepOptions) (*SweepResult, error) {
	if sc == nil {
		return nil, fmt.Errorf("sweep: nil scenario")
	}
	if opts.Runs <= 0 {
		return nil, fmt.Errorf("sweep: runs must be positive, got %d", opts.Runs)
	}

	reports := make([]*Report, opts.Runs)
	g, ctx := errgroup.WithContext(ctx)
	if opts.Parallelism > 0 {
		g.SetLimit(opts.Parallelism)
	}

	for i := 0; i < opts.Runs; i++ {
		g.Go(func() error {
			seed := opts.BaseSeed + int64(i)
			state, err := sim.Bind(script, sc, seed)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			start := time.Now()
			res, err := sim.RunContext(ctx, state, sc, sim.Options{TickLimit: opts.TickLimit})
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			reports[i] = NewReport(sc.Name, seed, res, state, time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := Summary{Scenario: sc.Name, Runs: opts.Runs, BaseSeed: opts.BaseSeed}
	for _, r := range reports {
		switch r.Outcome {
		case sim.OutcomeSurvived.String():
			summary.Survived++
		case sim.OutcomeFailed.String():
			summary.Failed++
		case sim.OutcomeAborted.String():
			summary.Aborted++
		}
	}
	summary.FailureRate = float64(summary.Failed+summary.Aborted) / float64(summary.Runs)

	return &SweepResult{Summary: summary, Reports: reports}, nil
}
