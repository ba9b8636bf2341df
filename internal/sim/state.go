package sim

// Audience identifies one of the fixed support constituencies tracked by the
// simulation. The set is closed; adapters and the consequence oracle rely on
// exactly these three keys.
type Audience string

const (
	AudiencePeople Audience = "people"
	AudienceElites Audience = "elites"
	AudienceArmy   Audience = "army"
)

// Audiences returns the fixed audience set in presentation order.
func Audiences() []Audience {
	return []Audience{AudiencePeople, AudienceElites, AudienceArmy}
}

// Choice is one dilemma option, either offered to the player or recorded as
// the option picked on a previous day.
type Choice struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
}

// HistoryEntry records one resolved day: the dilemma title and the choice made.
type HistoryEntry struct {
	Day          int    `json:"day"`
	DilemmaTitle string `json:"dilemma_title"`
	ChoiceID     string `json:"choice_id"`
	ChoiceTitle  string `json:"choice_title"`
}

// State is the live simulation state the pipeline reads at the start of a
// turn. The pipeline never mutates it; derived values are written back by
// post-acquisition consumers.
type State struct {
	RunID     string `json:"run_id"`
	Day       int    `json:"day"`
	TotalDays int    `json:"total_days"`

	Role   string `json:"role"`
	System string `json:"system"`

	Budget  int              `json:"budget"`
	Support map[Audience]int `json:"support"`

	LastChoice *Choice        `json:"last_choice,omitempty"`
	History    []HistoryEntry `json:"history,omitempty"`
}

// TurnID returns the identifier of the current turn, used to validate cached
// bundles against the live simulation.
func (s State) TurnID() string {
	return turnID(s.RunID, s.Day)
}
