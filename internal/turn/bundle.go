// Package turn owns the per-turn acquisition pipeline: the accumulating
// bundle, the completeness oracle that gates presentation, and the collector
// that drives the fetch adapters through their phases.
package turn

import (
	"encoding/json"
	"time"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/fetch"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/sim"
)

// Status is the lifecycle of a conditionally-required bundle field.
type Status int

const (
	// NotAttempted means no adapter call has settled for this field yet.
	NotAttempted Status = iota
	// AttemptedEmpty means the call settled without usable content: the day
	// gate skipped it, or it failed and the safe default was substituted.
	AttemptedEmpty
	// Present means the call settled with real content.
	Present
)

// Conditional is a tri-state field: not-attempted, attempted-empty, or
// present. The oracle blocks only on NotAttempted; an attempted field never
// holds up readiness regardless of content.
type Conditional[T any] struct {
	status Status
	value  T
}

// Attempted reports whether the field has settled either way.
func (c Conditional[T]) Attempted() bool { return c.status != NotAttempted }

// Status returns the field's lifecycle state.
func (c Conditional[T]) Status() Status { return c.status }

// Get returns the value and whether real content is present.
func (c Conditional[T]) Get() (T, bool) { return c.value, c.status == Present }

// SetPresent records settled real content.
func (c *Conditional[T]) SetPresent(v T) { c.status, c.value = Present, v }

// SetEmpty records a settled call with no usable content.
func (c *Conditional[T]) SetEmpty(v T) { c.status, c.value = AttemptedEmpty, v }

// Bundle accumulates one turn's acquired content. It is owned exclusively by
// the Collector while acquiring and must be treated as immutable once handed
// to presentation.
type Bundle struct {
	TurnID     string    `json:"turn_id"`
	Day        int       `json:"day"`
	AcquiredAt time.Time `json:"acquired_at"`

	// Always-required: nil until the scenario adapter succeeds.
	Dilemma *fetch.Dilemma `json:"dilemma"`

	// Always-required but degradable: set to their safe defaults on adapter
	// failure, nil only before phase 1 settles.
	Ticker   *fetch.TickerFeed `json:"ticker"`
	Advisory *fetch.Advisory   `json:"advisory"`

	// Conditionally-required: settled only when Day > 1, skipped with an
	// attempted-empty mark on day 1.
	SupportShift Conditional[fetch.SupportShift] `json:"-"`
	BudgetImpact Conditional[fetch.BudgetImpact] `json:"-"`

	// Phase 2, never required by the oracle.
	Analysis          fetch.Analysis `json:"analysis"`
	AnalysisAttempted bool           `json:"analysis_attempted"`

	// Degraded lists capabilities that settled on a safe default or a
	// fallback-flagged answer, for an optional non-blocking UI notice.
	Degraded []string `json:"degraded,omitempty"`
}

// ItemCount is the number of variable-length reveal items in the bundle. It
// feeds the sequencer's step computation.
func (b *Bundle) ItemCount() int {
	if b == nil || b.Ticker == nil {
		return 0
	}
	return len(b.Ticker.Items)
}

func (b *Bundle) markDegraded(capability string) {
	b.Degraded = append(b.Degraded, capability)
}

// bundleJSON is the wire form of Bundle: the tri-state fields flatten into
// value+status pairs so a cached bundle round-trips losslessly.
type bundleJSON struct {
	TurnID     string    `json:"turn_id"`
	Day        int       `json:"day"`
	AcquiredAt time.Time `json:"acquired_at"`

	Dilemma  *fetch.Dilemma    `json:"dilemma"`
	Ticker   *fetch.TickerFeed `json:"ticker"`
	Advisory *fetch.Advisory   `json:"advisory"`

	SupportShift       fetch.SupportShift `json:"support_shift"`
	SupportShiftStatus Status             `json:"support_shift_status"`
	BudgetImpact       fetch.BudgetImpact `json:"budget_impact"`
	BudgetImpactStatus Status             `json:"budget_impact_status"`

	Analysis          fetch.Analysis `json:"analysis"`
	AnalysisAttempted bool           `json:"analysis_attempted"`

	Degraded []string `json:"degraded,omitempty"`
}

func (b *Bundle) MarshalJSON() ([]byte, error) {
	out := bundleJSON{
		TurnID:             b.TurnID,
		Day:                b.Day,
		AcquiredAt:         b.AcquiredAt,
		Dilemma:            b.Dilemma,
		Ticker:             b.Ticker,
		Advisory:           b.Advisory,
		SupportShiftStatus: b.SupportShift.Status(),
		BudgetImpactStatus: b.BudgetImpact.Status(),
		Analysis:           b.Analysis,
		AnalysisAttempted:  b.AnalysisAttempted,
		Degraded:           b.Degraded,
	}
	out.SupportShift, _ = b.SupportShift.Get()
	out.BudgetImpact, _ = b.BudgetImpact.Get()
	return json.Marshal(out)
}

func (b *Bundle) UnmarshalJSON(data []byte) error {
	var in bundleJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*b = Bundle{
		TurnID:            in.TurnID,
		Day:               in.Day,
		AcquiredAt:        in.AcquiredAt,
		Dilemma:           in.Dilemma,
		Ticker:            in.Ticker,
		Advisory:          in.Advisory,
		Analysis:          in.Analysis,
		AnalysisAttempted: in.AnalysisAttempted,
		Degraded:          in.Degraded,
	}
	switch in.SupportShiftStatus {
	case Present:
		b.SupportShift.SetPresent(in.SupportShift)
	case AttemptedEmpty:
		b.SupportShift.SetEmpty(in.SupportShift)
	}
	switch in.BudgetImpactStatus {
	case Present:
		b.BudgetImpact.SetPresent(in.BudgetImpact)
	case AttemptedEmpty:
		b.BudgetImpact.SetEmpty(in.BudgetImpact)
	}
	return nil
}

// NewBundle starts an empty bundle for the given snapshot.
func NewBundle(snap sim.Snapshot) *Bundle {
	return &Bundle{TurnID: snap.TurnID, Day: snap.Day}
}
