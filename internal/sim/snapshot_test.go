package sim

import (
	"testing"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/tester"
)

func testState() State {
	return State{
		RunID:     "run-1",
		Day:       2,
		TotalDays: 7,
		Role:      "president",
		System:    "fragile democracy",
		Budget:    500,
		Support:   map[Audience]int{AudiencePeople: 55, AudienceElites: 40, AudienceArmy: 60},
		LastChoice: &Choice{
			ID:    "b",
			Title: "Send negotiators",
		},
		History: []HistoryEntry{
			{Day: 1, DilemmaTitle: "The Port Strike", ChoiceID: "b", ChoiceTitle: "Send negotiators"},
		},
	}
}

func TestTurnID(t *testing.T) {
	s := testState()
	tester.Eq(t, s.TurnID(), "run-1:day2")
}

func TestBuildSnapshotCopiesState(t *testing.T) {
	s := testState()
	snap := BuildSnapshot(s)

	tester.Eq(t, snap.TurnID, "run-1:day2")
	tester.Eq(t, snap.Day, 2)
	tester.Eq(t, snap.Support[AudiencePeople], 55)
	tester.True(t, snap.LastChoice != nil, "last choice carried over")

	// Later state mutations must not leak into the frozen snapshot.
	s.Support[AudiencePeople] = 10
	s.LastChoice.ID = "c"
	s.History[0].ChoiceID = "c"

	tester.Eq(t, snap.Support[AudiencePeople], 55)
	tester.Eq(t, snap.LastChoice.ID, "b")
	tester.Eq(t, snap.History[0].ChoiceID, "b")
}

func TestBuildSnapshotDayOne(t *testing.T) {
	s := testState()
	s.Day = 1
	s.LastChoice = nil
	s.History = nil

	snap := BuildSnapshot(s)
	tester.True(t, snap.LastChoice == nil, "no last choice on day 1")
	tester.Eq(t, len(snap.History), 0)
}

func TestFingerprintStability(t *testing.T) {
	a := BuildSnapshot(testState())
	b := BuildSnapshot(testState())
	tester.Eq(t, a.Fingerprint(), b.Fingerprint())
	tester.Eq(t, len(a.Fingerprint()), 16)

	s := testState()
	s.Budget = 499
	c := BuildSnapshot(s)
	tester.True(t, a.Fingerprint() != c.Fingerprint(), "budget change must change the fingerprint")
}

func TestDeriveHints(t *testing.T) {
	s := testState()
	s.Support[AudienceElites] = 20
	s.Budget = -50
	s.Day = s.TotalDays

	snap := BuildSnapshot(s)
	tester.True(t, len(snap.Hints) >= 3, "low support, deficit and final day all hinted")

	calm := testState()
	calmSnap := BuildSnapshot(calm)
	for _, h := range calmSnap.Hints {
		tester.True(t, h != "budget is in deficit", "no deficit hint for a positive budget")
	}
}
