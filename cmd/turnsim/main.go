// Command turnsim runs a whole simulated term offline: N days of acquisition
// against the deterministic client (or Gemini with --live), picking the first
// choice every day and writing each bundle as JSON. Useful for exercising the
// pipeline end to end without a UI.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/fetch"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/genclient"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/retry"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/sim"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/turn"
)

func main() {
	days := flag.Int("days", 3, "number of simulated days")
	role := flag.String("role", "president", "player role")
	system := flag.String("system", "fragile democracy", "political system")
	outDir := flag.String("out", "out", "output directory")
	live := flag.Bool("live", false, "use Gemini instead of the offline client")
	model := flag.String("model", "gemini-2.0-flash", "Gemini model id")
	flag.Parse()
	if *days < 1 {
		log.Fatal("--days must be >= 1")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal(err)
	}

	_ = godotenv.Load()
	ctx := context.Background()

	var cli genclient.Client = genclient.NewFakeClient()
	if *live {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			log.Fatal("GEMINI_API_KEY is not set")
		}
		gemini, err := genclient.NewGeminiClient(ctx, apiKey, *model)
		if err != nil {
			log.Fatal(err)
		}
		cli = gemini
	}
	cached, err := genclient.NewCached(cli, 256)
	if err != nil {
		log.Fatal(err)
	}
	defer cached.Close()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	state := sim.State{
		RunID:     uuid.NewString(),
		Day:       1,
		TotalDays: *days,
		Role:      *role,
		System:    *system,
		Budget:    500,
		Support: map[sim.Audience]int{
			sim.AudiencePeople: 50,
			sim.AudienceElites: 50,
			sim.AudienceArmy:   50,
		},
	}

	collector := &turn.Collector{
		Scenario:          &fetch.ScenarioAdapter{Client: cached},
		Ticker:            &fetch.TickerAdapter{Client: cached},
		Advisory:          &fetch.AdvisoryAdapter{Client: cached},
		SupportShift:      &fetch.SupportShiftAdapter{Client: cached},
		BudgetImpact:      &fetch.BudgetImpactAdapter{Client: cached},
		Analysis:          &fetch.AnalysisAdapter{Client: cached},
		ScenarioBaseDelay: time.Second,
		Emitter:           turn.NopEmitter{},
		Log:               logger,
	}

	for day := 1; day <= *days; day++ {
		state.Day = day
		snap := sim.BuildSnapshot(state)
		log.Printf("day %d/%d (%s)", day, *days, snap.TurnID)

		b, err := collector.Acquire(ctx, snap)
		if err != nil {
			log.Fatalf("day %d acquisition failed: %v", day, err)
		}
		writeJSON(*outDir, fmt.Sprintf("day%02d.json", day), b)
		log.Printf("  dilemma: %s (%d ticker items, degraded=%v)", b.Dilemma.Title, b.ItemCount(), b.Degraded)

		applyBundle(&state, b)
	}

	summary := generateSummary(ctx, cached, state)
	writeJSON(*outDir, "summary.json", summary)
	log.Printf("term over: %s", summary.Headline)
}

// applyBundle resolves the day: pick the first choice and fold the judged
// consequences back into the state.
func applyBundle(state *sim.State, b *turn.Bundle) {
	if shift, ok := b.SupportShift.Get(); ok {
		for _, sh := range shift.Shifts {
			state.Support[sh.Audience] += sh.Delta
		}
	}
	if impact, ok := b.BudgetImpact.Get(); ok {
		state.Budget += impact.Delta
	}

	choice := b.Dilemma.Choices[0]
	state.LastChoice = &choice
	state.History = append(state.History, sim.HistoryEntry{
		Day:          b.Day,
		DilemmaTitle: b.Dilemma.Title,
		ChoiceID:     choice.ID,
		ChoiceTitle:  choice.Title,
	})
}

func generateSummary(ctx context.Context, cli genclient.Client, state sim.State) fetch.RunSummary {
	adapter := &fetch.SummaryAdapter{Client: cli}
	snap := sim.BuildSnapshot(state)
	out, err := retry.Do(ctx, func(ctx context.Context) (fetch.RunSummary, error) {
		return adapter.Fetch(ctx, snap)
	}, retry.Options[fetch.RunSummary]{
		BaseDelay:  time.Second,
		IsFallback: adapter.IsFallback,
	})
	if err != nil {
		log.Fatalf("run summary failed: %v", err)
	}
	return out
}

func writeJSON(dir, name string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		log.Fatal(err)
	}
}
