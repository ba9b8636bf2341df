package sim

import (
	"crypto/sha1"
	"fmt"
	"strings"
)

// Snapshot is the immutable request payload handed to every fetch adapter for
// one turn. It is built once per turn and never mutated afterwards; slices and
// maps are deep-copied so later state changes cannot leak in.
type Snapshot struct {
	TurnID    string `json:"turn_id"`
	Day       int    `json:"day"`
	TotalDays int    `json:"total_days"`

	Role   string `json:"role"`
	System string `json:"system"`

	Budget  int              `json:"budget"`
	Support map[Audience]int `json:"support"`

	// LastChoice is nil only on day 1.
	LastChoice *Choice        `json:"last_choice,omitempty"`
	History    []HistoryEntry `json:"history,omitempty"`

	// Hints are derived analytical notes (declining audiences, budget
	// pressure) that bias generation without being authoritative.
	Hints []string `json:"hints,omitempty"`
}

// BuildSnapshot derives the turn request payload from the live state.
func BuildSnapshot(s State) Snapshot {
	snap := Snapshot{
		TurnID:    s.TurnID(),
		Day:       s.Day,
		TotalDays: s.TotalDays,
		Role:      s.Role,
		System:    s.System,
		Budget:    s.Budget,
		Support:   make(map[Audience]int, len(s.Support)),
		Hints:     deriveHints(s),
	}
	for k, v := range s.Support {
		snap.Support[k] = v
	}
	if s.LastChoice != nil {
		c := *s.LastChoice
		snap.LastChoice = &c
	}
	if len(s.History) > 0 {
		snap.History = append([]HistoryEntry(nil), s.History...)
	}
	return snap
}

// Fingerprint is a stable digest of the snapshot fields that influence
// generation. Two snapshots with the same fingerprint produce the same
// prompts, which makes it the log marker for correlating an acquisition
// with the state it was built from.
func (s Snapshot) Fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%d/%d|%s|%s|%d", s.TurnID, s.Day, s.TotalDays, s.Role, s.System, s.Budget)
	for _, a := range Audiences() {
		fmt.Fprintf(&b, "|%s=%d", a, s.Support[a])
	}
	if s.LastChoice != nil {
		fmt.Fprintf(&b, "|last=%s", s.LastChoice.ID)
	}
	sum := sha1.Sum([]byte(b.String()))
	return fmt.Sprintf("%x", sum)[:16]
}

func deriveHints(s State) []string {
	var hints []string
	for _, a := range Audiences() {
		v, ok := s.Support[a]
		if !ok {
			continue
		}
		switch {
		case v <= 25:
			hints = append(hints, fmt.Sprintf("%s support critically low (%d)", a, v))
		case v >= 80:
			hints = append(hints, fmt.Sprintf("%s support very strong (%d)", a, v))
		}
	}
	if s.Budget < 0 {
		hints = append(hints, "budget is in deficit")
	}
	if s.TotalDays > 0 && s.Day == s.TotalDays {
		hints = append(hints, "final day of the term")
	}
	return hints
}

func turnID(runID string, day int) string {
	return fmt.Sprintf("%s:day%d", strings.TrimSpace(runID), day)
}
