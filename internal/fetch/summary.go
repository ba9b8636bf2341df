package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/genclient"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/prompt"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/sim"
)

// RunSummary is the whole-run retrospective generated once at end-of-run. It
// sits outside the per-turn bundle; callers wrap Fetch in the retry
// controller and keep Fallback visible so the UI can show a notice when even
// the final attempt stayed degraded.
type RunSummary struct {
	Headline string `json:"headline"`
	Body     string `json:"body"`
	Fallback bool   `json:"fallback"`
}

var summaryPrompt = prompt.Apply(prompt.Spec{
	Purpose:    "Write the end-of-term retrospective for the player's whole run.",
	Background: "The full history of dilemmas and choices is in the input, along with final support levels and budget. Judge the term as a political obituary would: what held, what broke, what it cost.",
	OutputFields: []prompt.Field{
		{Name: "headline", Type: "string", Required: true, Description: "One-line verdict on the term."},
		{Name: "body", Type: "string", Required: true, Description: "1-2 paragraphs referencing at least two specific choices."},
		{Name: "fallback", Type: "bool", Required: true, Description: "Degraded-answer marker."},
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, prompt.PresetStrictJSON(), prompt.PresetInWorld(), prompt.PresetFallbackFlag())

// SummaryAdapter fetches the end-of-run summary.
type SummaryAdapter struct {
	Client genclient.Client
}

func (a *SummaryAdapter) Fetch(ctx context.Context, snap sim.Snapshot) (RunSummary, error) {
	return generate(ctx, a.Client, "summary", summaryPrompt, snap, func(s *RunSummary) error {
		if strings.TrimSpace(s.Headline) == "" || strings.TrimSpace(s.Body) == "" {
			return fmt.Errorf("empty headline or body")
		}
		return nil
	})
}

// IsFallback is the shared degraded-answer predicate for this capability.
func (a *SummaryAdapter) IsFallback(s RunSummary) bool {
	return s.Fallback
}
