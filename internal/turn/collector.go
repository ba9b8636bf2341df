package turn

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/fetch"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/retry"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/sim"
)

// FatalError wraps the one failure class that aborts acquisition: the
// mandatory scenario adapter failing after its own allowed retries. It is
// surfaced to the user with a retry affordance; every other adapter failure
// degrades to a safe default inside the collector.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return fmt.Sprintf("turn: acquisition failed: %v", e.Err) }
func (e *FatalError) Unwrap() error { return e.Err }

// Collector drives the fetch adapters through their phases and fills one
// Bundle per turn. It is the bundle's only writer during acquisition; the
// returned bundle is frozen and must not be mutated by consumers.
type Collector struct {
	Scenario     *fetch.ScenarioAdapter
	Ticker       *fetch.TickerAdapter
	Advisory     *fetch.AdvisoryAdapter
	SupportShift *fetch.SupportShiftAdapter
	BudgetImpact *fetch.BudgetImpactAdapter
	Analysis     *fetch.AnalysisAdapter

	// ScenarioAttempts / ScenarioBaseDelay tune the mandatory adapter's own
	// retry budget. Zero values use the retry package defaults.
	ScenarioAttempts  int
	ScenarioBaseDelay time.Duration

	// DisableAnalysis skips phase 2 entirely; conditional fields still
	// settle normally.
	DisableAnalysis bool

	Emitter Emitter
	Log     zerolog.Logger
}

// Acquire runs the full acquisition for one snapshot. Phase 1 adapters run
// concurrently and the collector suspends until the whole group settles;
// phase 2 strictly follows. The completeness oracle is polled after every
// phase and gates the final hand-off.
func (c *Collector) Acquire(ctx context.Context, snap sim.Snapshot) (*Bundle, error) {
	b := NewBundle(snap)
	c.emit(Event{Type: EventTypeProgress, Progress: MilestoneLaunched, Message: "acquisition started"})

	if err := c.runPhase1(ctx, snap, b); err != nil {
		c.emit(Event{Type: EventTypeError, Message: err.Error()})
		return nil, err
	}
	c.emit(Event{Type: EventTypeProgress, Progress: MilestonePhase1Done, Message: "phase 1 settled"})

	if Ready(b) && c.skipPhase2(b) {
		return c.finish(b)
	}

	c.runPhase2(ctx, snap, b)
	c.emit(Event{Type: EventTypeProgress, Progress: MilestonePhase2Done, Message: "phase 2 settled"})

	if !Ready(b) {
		// All phases settled yet the oracle refuses: the bundle is
		// structurally broken, which only the mandatory field can cause.
		err := &FatalError{Err: fmt.Errorf("bundle incomplete after all phases")}
		c.emit(Event{Type: EventTypeError, Message: err.Error()})
		return nil, err
	}
	return c.finish(b)
}

// runPhase1 launches the independent adapters (and the conditional ones when
// day > 1) concurrently, then merges results only after every call settled.
func (c *Collector) runPhase1(ctx context.Context, snap sim.Snapshot, b *Bundle) error {
	var (
		dilemma    fetch.Dilemma
		dilemmaErr error

		ticker    fetch.TickerFeed
		tickerErr error

		advisory    fetch.Advisory
		advisoryErr error

		shift    fetch.SupportShift
		shiftErr error

		impact    fetch.BudgetImpact
		impactErr error
	)

	conditional := snap.Day > 1 && snap.LastChoice != nil

	var wg conc.WaitGroup
	wg.Go(func() {
		dilemma, dilemmaErr = retry.Do(ctx, func(ctx context.Context) (fetch.Dilemma, error) {
			return c.Scenario.Fetch(ctx, snap)
		}, retry.Options[fetch.Dilemma]{
			MaxAttempts: c.ScenarioAttempts,
			BaseDelay:   c.ScenarioBaseDelay,
			IsFallback:  c.Scenario.IsFallback,
			OnAttempt: func(attempt, max int) {
				c.emit(Event{Type: EventTypeLog, Message: fmt.Sprintf("scenario retry attempt %d/%d", attempt, max)})
			},
		})
	})
	wg.Go(func() { ticker, tickerErr = c.Ticker.Fetch(ctx, snap) })
	wg.Go(func() { advisory, advisoryErr = c.Advisory.Fetch(ctx, snap) })
	if conditional {
		wg.Go(func() { shift, shiftErr = c.SupportShift.Fetch(ctx, snap) })
		wg.Go(func() { impact, impactErr = c.BudgetImpact.Fetch(ctx, snap) })
	}
	wg.Wait()

	// Merge only now that the whole group has settled.
	if dilemmaErr != nil {
		return &FatalError{Err: dilemmaErr}
	}
	b.Dilemma = &dilemma
	if dilemma.Fallback {
		b.markDegraded("scenario")
	}

	if tickerErr != nil {
		c.absorb("ticker", tickerErr, b)
		ticker = fetch.DefaultTickerFeed()
	}
	b.Ticker = &ticker

	if advisoryErr != nil {
		c.absorb("advisory", advisoryErr, b)
		advisory = fetch.DefaultAdvisory()
	}
	b.Advisory = &advisory

	if !conditional {
		// Day 1: nothing to judge yet. Mark attempted-empty explicitly so
		// the oracle does not wait on fields that will never arrive.
		b.SupportShift.SetEmpty(fetch.DefaultSupportShift())
		b.BudgetImpact.SetEmpty(fetch.DefaultBudgetImpact())
		return nil
	}

	if shiftErr != nil {
		c.absorb("support_shift", shiftErr, b)
		b.SupportShift.SetEmpty(fetch.DefaultSupportShift())
	} else {
		b.SupportShift.SetPresent(shift)
	}
	if impactErr != nil {
		c.absorb("budget_impact", impactErr, b)
		b.BudgetImpact.SetEmpty(fetch.DefaultBudgetImpact())
	} else {
		b.BudgetImpact.SetPresent(impact)
	}
	return nil
}

// runPhase2 fetches the secondary analysis, which needs phase-1 output as
// input. Never mandatory: failures degrade to the empty analysis.
func (c *Collector) runPhase2(ctx context.Context, snap sim.Snapshot, b *Bundle) {
	b.AnalysisAttempted = true
	if c.DisableAnalysis || c.Analysis == nil {
		b.Analysis = fetch.DefaultAnalysis()
		return
	}
	analysis, err := c.Analysis.Fetch(ctx, snap, *b.Dilemma)
	if err != nil {
		c.absorb("analysis", err, b)
		b.Analysis = fetch.DefaultAnalysis()
		return
	}
	b.Analysis = analysis
}

// skipPhase2 reports whether the analysis call would add nothing: analysis
// disabled outright, or the dilemma itself is a fallback placeholder not
// worth analyzing.
func (c *Collector) skipPhase2(b *Bundle) bool {
	if c.DisableAnalysis || c.Analysis == nil {
		return true
	}
	return b.Dilemma != nil && b.Dilemma.Fallback
}

func (c *Collector) finish(b *Bundle) (*Bundle, error) {
	b.AcquiredAt = time.Now()
	c.emit(Event{Type: EventTypeProgress, Progress: MilestoneReady, Message: "bundle ready"})
	c.emit(Event{Type: EventTypeComplete, Message: "COMPLETE", Bundle: b})
	return b, nil
}

// absorb records a non-mandatory adapter failure: logged, marked degraded,
// never surfaced as an error to the user.
func (c *Collector) absorb(capability string, err error, b *Bundle) {
	c.Log.Warn().Err(err).Str("capability", capability).Msg("adapter degraded to safe default")
	b.markDegraded(capability)
}

func (c *Collector) emit(ev Event) {
	if c.Emitter != nil {
		c.Emitter.Emit(ev)
	}
}
