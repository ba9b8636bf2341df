package fetch

import (
	"context"
	"strings"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/genclient"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/prompt"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/sim"
)

// TickerItem is one news-ticker headline shown during the reveal.
type TickerItem struct {
	Headline string `json:"headline"`
}

// TickerFeed is the day's headline list. Length varies per turn and drives
// the sequencer's itemized step count.
type TickerFeed struct {
	Items []TickerItem `json:"items"`
}

// DefaultTickerFeed is the documented safe default when the ticker adapter
// fails: an empty feed, never an error surfaced to the user.
func DefaultTickerFeed() TickerFeed { return TickerFeed{Items: []TickerItem{}} }

var tickerPrompt = prompt.Apply(prompt.Spec{
	Purpose:    "Write short news-ticker headlines reacting to the current state of the simulation.",
	Background: "Headlines are ambient world color shown while the player reads today's dilemma. They reference recent history and the public mood, not the dilemma itself.",
	OutputFields: []prompt.Field{
		{Name: "items", Type: "[]{headline}", Required: true, Description: "2-5 headlines, each under 90 characters."},
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, prompt.PresetStrictJSON(), prompt.PresetInWorld())

// TickerAdapter fetches ambient news headlines. Not mandatory.
type TickerAdapter struct {
	Client genclient.Client
}

func (a *TickerAdapter) Fetch(ctx context.Context, snap sim.Snapshot) (TickerFeed, error) {
	return generate(ctx, a.Client, "ticker", tickerPrompt, snap, validateTicker)
}

func validateTicker(f *TickerFeed) error {
	// Drop blank entries instead of failing; an empty feed is acceptable.
	kept := f.Items[:0]
	for _, it := range f.Items {
		if strings.TrimSpace(it.Headline) != "" {
			kept = append(kept, it)
		}
	}
	f.Items = kept
	return nil
}
