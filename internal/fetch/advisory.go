package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/genclient"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/prompt"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/sim"
)

// Advisory is the advisor's commentary paragraph for the day.
type Advisory struct {
	Text string `json:"text"`
}

// DefaultAdvisory is the safe default when the advisory adapter fails: the
// advisor simply stays silent for a day.
func DefaultAdvisory() Advisory { return Advisory{} }

var advisoryPrompt = prompt.Apply(prompt.Spec{
	Purpose:    "Write the advisor's private comment to the player before today's dilemma is revealed.",
	Background: "The advisor is loyal but candid, and speaks from the same facts the player sees: support levels, budget, and the record of past choices.",
	OutputFields: []prompt.Field{
		{Name: "text", Type: "string", Required: true, Description: "1-3 sentences, second person, no greeting."},
	},
	OutputFormat: "JSON only.",
	Language:     "English",
}, prompt.PresetStrictJSON(), prompt.PresetInWorld())

// AdvisoryAdapter fetches advisor commentary. Not mandatory.
type AdvisoryAdapter struct {
	Client genclient.Client
}

func (a *AdvisoryAdapter) Fetch(ctx context.Context, snap sim.Snapshot) (Advisory, error) {
	return generate(ctx, a.Client, "advisory", advisoryPrompt, snap, func(adv *Advisory) error {
		if strings.TrimSpace(adv.Text) == "" {
			return fmt.Errorf("empty text")
		}
		return nil
	})
}
