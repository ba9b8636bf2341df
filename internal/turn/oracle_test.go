package turn

import (
	"testing"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/fetch"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/sim"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/tester"
)

func validDilemma() *fetch.Dilemma {
	return &fetch.Dilemma{
		Title:       "The Port Strike",
		Description: "Dock workers have shut down the port.",
		Choices: []sim.Choice{
			{ID: "a", Title: "Pay"},
			{ID: "b", Title: "Negotiate"},
			{ID: "c", Title: "Clear the port"},
		},
	}
}

func readyBundle(day int) *Bundle {
	b := &Bundle{
		TurnID:   "run-1:day1",
		Day:      day,
		Dilemma:  validDilemma(),
		Ticker:   &fetch.TickerFeed{Items: []fetch.TickerItem{{Headline: "h"}}},
		Advisory: &fetch.Advisory{Text: "decide fast"},
	}
	b.SupportShift.SetEmpty(fetch.DefaultSupportShift())
	b.BudgetImpact.SetEmpty(fetch.DefaultBudgetImpact())
	return b
}

func TestReadyNilBundle(t *testing.T) {
	tester.False(t, Ready(nil))
}

func TestReadyRequiresValidDilemma(t *testing.T) {
	b := readyBundle(1)
	tester.True(t, Ready(b))

	b.Dilemma = nil
	tester.False(t, Ready(b), "missing dilemma blocks")

	b.Dilemma = validDilemma()
	b.Dilemma.Choices = b.Dilemma.Choices[:2]
	tester.False(t, Ready(b), "malformed dilemma blocks")
}

func TestReadyRequiresSettledDegradables(t *testing.T) {
	b := readyBundle(1)
	b.Ticker = nil
	tester.False(t, Ready(b))

	b = readyBundle(1)
	b.Advisory = nil
	tester.False(t, Ready(b))

	// Safe defaults count as settled.
	b = readyBundle(1)
	feed := fetch.DefaultTickerFeed()
	b.Ticker = &feed
	adv := fetch.DefaultAdvisory()
	b.Advisory = &adv
	tester.True(t, Ready(b))
}

func TestReadyDayOneIgnoresConditionals(t *testing.T) {
	b := readyBundle(1)
	b.SupportShift = Conditional[fetch.SupportShift]{}
	b.BudgetImpact = Conditional[fetch.BudgetImpact]{}
	tester.True(t, Ready(b), "unattempted conditionals never block day 1")
}

func TestReadyLaterDaysWaitForConditionals(t *testing.T) {
	b := readyBundle(2)
	b.SupportShift = Conditional[fetch.SupportShift]{}
	tester.False(t, Ready(b), "unattempted support shift blocks day > 1")

	b = readyBundle(2)
	b.BudgetImpact = Conditional[fetch.BudgetImpact]{}
	tester.False(t, Ready(b), "unattempted budget impact blocks day > 1")

	// Attempted-empty satisfies the oracle; content is irrelevant.
	b = readyBundle(2)
	tester.True(t, Ready(b))

	b.SupportShift.SetPresent(fetch.SupportShift{})
	b.BudgetImpact.SetPresent(fetch.BudgetImpact{Delta: -10})
	tester.True(t, Ready(b))
}

func TestReadyIgnoresAnalysis(t *testing.T) {
	b := readyBundle(2)
	tester.False(t, b.AnalysisAttempted)
	tester.True(t, Ready(b), "phase 2 is never required")
}
