package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/fetch"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/sim"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/tester"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/turn"
)

func cachedBundle(turnID string, day int) *turn.Bundle {
	b := &turn.Bundle{
		TurnID: turnID,
		Day:    day,
		Dilemma: &fetch.Dilemma{
			Title:       "The Port Strike",
			Description: "Dock workers have shut down the port.",
			Choices: []sim.Choice{
				{ID: "a", Title: "Pay"},
				{ID: "b", Title: "Negotiate"},
				{ID: "c", Title: "Clear the port"},
			},
		},
		Ticker:     &fetch.TickerFeed{Items: []fetch.TickerItem{{Headline: "h"}}},
		Advisory:   &fetch.Advisory{Text: "decide fast"},
		AcquiredAt: time.Now().UTC(),
	}
	b.SupportShift.SetEmpty(fetch.DefaultSupportShift())
	b.BudgetImpact.SetEmpty(fetch.DefaultBudgetImpact())
	return b
}

func entryFor(b *turn.Bundle) Entry {
	return Entry{Bundle: b, TurnID: b.TurnID, CapturedAt: time.Now().UTC()}
}

func TestMemorySingleConsumption(t *testing.T) {
	s := NewMemory()
	b := cachedBundle("run-1:day2", 2)
	tester.NoErr(t, s.Save(entryFor(b)))

	got, ok := Consume(s, "run-1:day2")
	tester.True(t, ok)
	tester.Eq(t, got.TurnID, "run-1:day2")

	_, ok = Consume(s, "run-1:day2")
	tester.False(t, ok, "an entry is consumed exactly once")
}

func TestMemoryStaleEntryDiscarded(t *testing.T) {
	s := NewMemory()
	tester.NoErr(t, s.Save(entryFor(cachedBundle("run-1:day2", 2))))

	// The simulation moved on; the cached turn no longer matches.
	_, ok := Consume(s, "run-1:day3")
	tester.False(t, ok, "a stale entry is a silent miss, never an error")

	// Consumption still happened: the stale entry cannot resurface.
	_, ok = Consume(s, "run-1:day2")
	tester.False(t, ok)
}

func TestMemoryAtMostOneEntry(t *testing.T) {
	s := NewMemory()
	tester.NoErr(t, s.Save(entryFor(cachedBundle("run-1:day2", 2))))
	tester.NoErr(t, s.Save(entryFor(cachedBundle("run-1:day3", 3))))

	got, ok := Consume(s, "run-1:day3")
	tester.True(t, ok, "the newer entry replaced the older")
	tester.Eq(t, got.Day, 3)
}

func TestMemoryClear(t *testing.T) {
	s := NewMemory()
	tester.NoErr(t, s.Save(entryFor(cachedBundle("run-1:day2", 2))))
	tester.NoErr(t, s.Clear())
	_, ok := Consume(s, "run-1:day2")
	tester.False(t, ok)
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "turn.json")
	s := NewFile(path)

	b := cachedBundle("run-1:day2", 2)
	b.SupportShift.SetPresent(fetch.SupportShift{Shifts: []fetch.AudienceShift{
		{Audience: sim.AudiencePeople, Delta: 5, Reason: "r"},
	}})
	tester.NoErr(t, s.Save(entryFor(b)))

	got, ok := Consume(s, "run-1:day2")
	tester.True(t, ok)
	tester.True(t, turn.Ready(got), "restored bundle passes the completeness oracle")
	tester.Eq(t, got.SupportShift.Status(), turn.Present)

	_, ok = Consume(s, "run-1:day2")
	tester.False(t, ok, "the file is removed on consumption")
}

func TestFileMissingIsAMiss(t *testing.T) {
	s := NewFile(filepath.Join(t.TempDir(), "absent.json"))
	e, ok, err := s.LoadAndConsume()
	tester.NoErr(t, err)
	tester.False(t, ok)
	tester.True(t, e.Bundle == nil)
}

func TestFileCorruptEntryConsumedAndDiscarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "turn.json")
	tester.NoErr(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewFile(path)
	_, ok := Consume(s, "run-1:day2")
	tester.False(t, ok)

	_, err := os.Stat(path)
	tester.True(t, os.IsNotExist(err), "a corrupt entry cannot be re-read")
}

func TestFileClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "turn.json")
	s := NewFile(path)
	tester.NoErr(t, s.Clear(), "clearing an empty store is fine")
	tester.NoErr(t, s.Save(entryFor(cachedBundle("run-1:day2", 2))))
	tester.NoErr(t, s.Clear())
	_, ok := Consume(s, "run-1:day2")
	tester.False(t, ok)
}
