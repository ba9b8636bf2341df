package fetch

import (
	"context"
	"fmt"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/genclient"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/prompt"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/sim"
)

// Conditional (day > 1) adapters. Both consume the previous day's choice and
// are skipped entirely on day 1.

// maxShiftMagnitude bounds a single day's support movement per audience.
const maxShiftMagnitude = 20

// AudienceShift is one audience's reaction to yesterday's choice.
type AudienceShift struct {
	Audience sim.Audience `json:"audience"`
	Delta    int          `json:"delta"`
	Reason   string       `json:"reason"`
}

// SupportShift summarizes how each audience moved overnight.
type SupportShift struct {
	Shifts []AudienceShift `json:"shifts"`
}

// DefaultSupportShift is the safe default on adapter failure: zero movement
// for every audience.
func DefaultSupportShift() SupportShift {
	out := SupportShift{}
	for _, a := range sim.Audiences() {
		out.Shifts = append(out.Shifts, AudienceShift{Audience: a})
	}
	return out
}

// BudgetImpact summarizes yesterday's choice in treasury terms.
type BudgetImpact struct {
	Delta   int    `json:"delta"`
	Summary string `json:"summary"`
}

// DefaultBudgetImpact is the safe default on adapter failure.
func DefaultBudgetImpact() BudgetImpact { return BudgetImpact{} }

var supportShiftPrompt = prompt.Apply(prompt.Spec{
	Purpose:    "Judge how each constituency reacted overnight to the player's previous choice.",
	Background: "The previous dilemma and the option the player picked are in the input. Each audience reacts from its own interests, not from the player's intent.",
	OutputFields: []prompt.Field{
		{Name: "shifts", Type: "[]{audience,delta,reason}", Required: true, Description: "One entry per audience: people, elites, army. delta in -20..20, reason one sentence."},
	},
	Constraints: []string{
		"Cover every audience exactly once.",
		"delta must stay within -20..20.",
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, prompt.PresetStrictJSON(), prompt.PresetInWorld())

// SupportShiftAdapter fetches per-audience reactions to the last choice.
// Conditional: requires snap.LastChoice.
type SupportShiftAdapter struct {
	Client genclient.Client
}

func (a *SupportShiftAdapter) Fetch(ctx context.Context, snap sim.Snapshot) (SupportShift, error) {
	if snap.LastChoice == nil {
		return SupportShift{}, fail("support_shift", ReasonPrompt, fmt.Errorf("no previous choice in snapshot"))
	}
	return generate(ctx, a.Client, "support_shift", supportShiftPrompt, snap, validateSupportShift)
}

func validateSupportShift(s *SupportShift) error {
	seen := map[sim.Audience]bool{}
	for _, sh := range s.Shifts {
		if sh.Delta < -maxShiftMagnitude || sh.Delta > maxShiftMagnitude {
			return fmt.Errorf("shift for %s out of range: %d", sh.Audience, sh.Delta)
		}
		seen[sh.Audience] = true
	}
	for _, a := range sim.Audiences() {
		if !seen[a] {
			return fmt.Errorf("missing shift for %s", a)
		}
	}
	return nil
}

var budgetImpactPrompt = prompt.Apply(prompt.Spec{
	Purpose:    "Estimate the treasury impact of the player's previous choice.",
	Background: "The previous choice and current budget are in the input. The delta is applied once, overnight.",
	OutputFields: []prompt.Field{
		{Name: "delta", Type: "int", Required: true, Description: "Budget change; negative for spending."},
		{Name: "summary", Type: "string", Required: true, Description: "One sentence naming what the money did."},
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, prompt.PresetStrictJSON(), prompt.PresetInWorld())

// BudgetImpactAdapter fetches the treasury consequence of the last choice.
// Conditional: requires snap.LastChoice.
type BudgetImpactAdapter struct {
	Client genclient.Client
}

func (a *BudgetImpactAdapter) Fetch(ctx context.Context, snap sim.Snapshot) (BudgetImpact, error) {
	if snap.LastChoice == nil {
		return BudgetImpact{}, fail("budget_impact", ReasonPrompt, fmt.Errorf("no previous choice in snapshot"))
	}
	return generate[BudgetImpact](ctx, a.Client, "budget_impact", budgetImpactPrompt, snap, nil)
}
