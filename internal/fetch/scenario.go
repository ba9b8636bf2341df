package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/genclient"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/prompt"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/sim"
)

// DilemmaChoiceCount is the fixed number of options every dilemma carries.
// Any other count is a validation failure, not a partial success.
const DilemmaChoiceCount = 3

// Dilemma is the day's primary content. Acquisition cannot proceed without
// one; the scenario adapter is the pipeline's only mandatory call.
type Dilemma struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Choices     []sim.Choice `json:"choices"`
	// Fallback marks a structurally valid but generic placeholder answer.
	Fallback bool `json:"fallback"`
}

var scenarioPrompt = prompt.Apply(prompt.Spec{
	Purpose:    "Write today's leadership dilemma for a multi-day political simulation.",
	Background: "The player holds the given role inside the given political system. The dilemma must follow from the current support levels, budget, and history, and must be decidable through exactly three distinct choices.",
	OutputFields: []prompt.Field{
		{Name: "title", Type: "string", Required: true, Description: "Short, concrete headline for the dilemma."},
		{Name: "description", Type: "string", Required: true, Description: "2-4 sentences framing the situation and its stakes."},
		{Name: "choices", Type: "[]{id,title,summary}", Required: true, Description: "Exactly three options with ids a, b, c."},
		{Name: "fallback", Type: "bool", Required: true, Description: "Degraded-answer marker."},
	},
	Constraints: []string{
		"choices must contain exactly three entries with ids a, b, c.",
		"Each choice must be a plausible act of the player's office.",
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, prompt.PresetStrictJSON(), prompt.PresetInWorld(), prompt.PresetFallbackFlag())

// ScenarioAdapter fetches the day's dilemma.
type ScenarioAdapter struct {
	Client genclient.Client
}

func (a *ScenarioAdapter) Fetch(ctx context.Context, snap sim.Snapshot) (Dilemma, error) {
	return generate(ctx, a.Client, "scenario", scenarioPrompt, snap, validateDilemma)
}

// IsFallback reports whether the dilemma is a degraded placeholder. It is the
// shared predicate for this capability; callers must not re-derive
// fallback-ness from content heuristics.
func (a *ScenarioAdapter) IsFallback(d Dilemma) bool {
	return d.Fallback
}

func validateDilemma(d *Dilemma) error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("empty title")
	}
	if strings.TrimSpace(d.Description) == "" {
		return fmt.Errorf("empty description")
	}
	if len(d.Choices) != DilemmaChoiceCount {
		return fmt.Errorf("expected %d choices, got %d", DilemmaChoiceCount, len(d.Choices))
	}
	for i, c := range d.Choices {
		if strings.TrimSpace(c.ID) == "" || strings.TrimSpace(c.Title) == "" {
			return fmt.Errorf("choice %d missing id or title", i)
		}
	}
	return nil
}

// Valid reports whether d satisfies the minimal acceptable dilemma shape. It
// is exported for the completeness oracle, which re-checks the frozen bundle.
func (d Dilemma) Valid() bool {
	dd := d
	return validateDilemma(&dd) == nil
}
