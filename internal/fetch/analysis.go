package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/genclient"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/prompt"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/sim"
)

// Analysis is the secondary power-dynamics read of the generated dilemma.
// Phase 2: it needs the dilemma text as input, so it can only run after the
// scenario adapter has succeeded. Never mandatory.
type Analysis struct {
	PressurePoints []string `json:"pressure_points"`
	Assessment     string   `json:"assessment"`
}

// DefaultAnalysis is the safe default on adapter failure.
func DefaultAnalysis() Analysis { return Analysis{} }

// Empty reports whether the analysis carries no content, i.e. the adapter was
// attempted but degraded to the default.
func (a Analysis) Empty() bool {
	return len(a.PressurePoints) == 0 && strings.TrimSpace(a.Assessment) == ""
}

var analysisPrompt = prompt.Apply(prompt.Spec{
	Purpose:    "Analyze the power dynamics beneath today's dilemma.",
	Background: "The full dilemma text is in the input. Name who gains leverage from each outcome and where hidden pressure is being applied.",
	OutputFields: []prompt.Field{
		{Name: "pressure_points", Type: "[]string", Required: true, Description: "1-4 actors or levers applying pressure."},
		{Name: "assessment", Type: "string", Required: true, Description: "2-3 sentences on what the dilemma is really about."},
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, prompt.PresetStrictJSON(), prompt.PresetInWorld())

// analysisInput pairs the snapshot with the phase-1 dilemma it depends on.
type analysisInput struct {
	Snapshot sim.Snapshot `json:"snapshot"`
	Dilemma  Dilemma      `json:"dilemma"`
}

// AnalysisAdapter fetches the secondary analysis of a generated dilemma.
type AnalysisAdapter struct {
	Client genclient.Client
}

func (a *AnalysisAdapter) Fetch(ctx context.Context, snap sim.Snapshot, d Dilemma) (Analysis, error) {
	if !d.Valid() {
		return Analysis{}, fail("analysis", ReasonPrompt, fmt.Errorf("dilemma not available"))
	}
	in := analysisInput{Snapshot: snap, Dilemma: d}
	return generate(ctx, a.Client, "analysis", analysisPrompt, in, func(out *Analysis) error {
		if strings.TrimSpace(out.Assessment) == "" {
			return fmt.Errorf("empty assessment")
		}
		return nil
	})
}
