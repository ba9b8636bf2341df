package turn

import (
	"encoding/json"
	"testing"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/fetch"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/sim"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/tester"
)

func TestConditionalLifecycle(t *testing.T) {
	var c Conditional[fetch.BudgetImpact]
	tester.False(t, c.Attempted())
	tester.Eq(t, c.Status(), NotAttempted)
	_, ok := c.Get()
	tester.False(t, ok)

	c.SetEmpty(fetch.DefaultBudgetImpact())
	tester.True(t, c.Attempted())
	tester.Eq(t, c.Status(), AttemptedEmpty)
	_, ok = c.Get()
	tester.False(t, ok, "attempted-empty carries no real content")

	c.SetPresent(fetch.BudgetImpact{Delta: -120})
	v, ok := c.Get()
	tester.True(t, ok)
	tester.Eq(t, v.Delta, -120)
}

func TestBundleItemCount(t *testing.T) {
	var nilBundle *Bundle
	tester.Eq(t, nilBundle.ItemCount(), 0)
	tester.Eq(t, (&Bundle{}).ItemCount(), 0)

	b := &Bundle{Ticker: &fetch.TickerFeed{Items: []fetch.TickerItem{{Headline: "a"}, {Headline: "b"}}}}
	tester.Eq(t, b.ItemCount(), 2)
}

func TestBundleJSONPreservesTriState(t *testing.T) {
	b := readyBundle(3)
	b.SupportShift.SetPresent(fetch.SupportShift{Shifts: []fetch.AudienceShift{
		{Audience: sim.AudiencePeople, Delta: 4, Reason: "r"},
	}})
	b.markDegraded("budget_impact")
	b.Analysis = fetch.Analysis{Assessment: "about the docks"}
	b.AnalysisAttempted = true

	data, err := json.Marshal(b)
	tester.NoErr(t, err)

	var back Bundle
	tester.NoErr(t, json.Unmarshal(data, &back))

	tester.Eq(t, back.Day, 3)
	tester.Eq(t, back.SupportShift.Status(), Present)
	shift, ok := back.SupportShift.Get()
	tester.True(t, ok)
	tester.Eq(t, shift.Shifts[0].Delta, 4)
	tester.Eq(t, back.BudgetImpact.Status(), AttemptedEmpty)
	tester.Eq(t, back.Degraded, []string{"budget_impact"})
	tester.True(t, back.AnalysisAttempted)
	tester.True(t, Ready(&back), "a ready bundle stays ready through the wire form")
}

func TestBundleJSONNotAttempted(t *testing.T) {
	b := NewBundle(sim.Snapshot{TurnID: "run-1:day2", Day: 2})
	data, err := json.Marshal(b)
	tester.NoErr(t, err)

	var back Bundle
	tester.NoErr(t, json.Unmarshal(data, &back))
	tester.Eq(t, back.SupportShift.Status(), NotAttempted)
	tester.False(t, Ready(&back))
}

func TestChannelEmitterDropsOnOverflow(t *testing.T) {
	e := &ChannelEmitter{Ch: make(chan Event, 1)}
	e.Emit(Event{Type: EventTypeLog, Message: "first"})
	e.Emit(Event{Type: EventTypeLog, Message: "dropped"})

	ev := <-e.Ch
	tester.Eq(t, ev.Message, "first")
	select {
	case <-e.Ch:
		t.Fatal("overflow event should have been dropped")
	default:
	}
}
