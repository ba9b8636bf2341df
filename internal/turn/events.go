package turn

// EventType classifies collector run events.
type EventType string

const (
	EventTypeLog      EventType = "log"
	EventTypeProgress EventType = "progress"
	EventTypeComplete EventType = "complete"
	EventTypeError    EventType = "error"
)

// Progress milestones emitted by the collector. These are hints for the
// progress animator, not measurements.
const (
	MilestoneLaunched   = 10
	MilestonePhase1Done = 60
	MilestonePhase2Done = 85
	MilestoneReady      = 100
)

// Event is one collector notification: a log line, a progress hint, the
// frozen bundle on completion, or a fatal error.
type Event struct {
	Type     EventType `json:"type"`
	Message  string    `json:"message,omitempty"`
	Progress int       `json:"progress,omitempty"`
	Bundle   *Bundle   `json:"bundle,omitempty"`
}

// Emitter consumes collector events. Emit must not block for long; the
// channel emitter drops events once its buffer is full rather than stalling
// acquisition.
type Emitter interface {
	Emit(ev Event)
}

// ChannelEmitter forwards events to a buffered channel, dropping on overflow.
type ChannelEmitter struct {
	Ch chan Event
}

func (e *ChannelEmitter) Emit(ev Event) {
	if e == nil || e.Ch == nil {
		return
	}
	select {
	case e.Ch <- ev:
	default:
	}
}

// NopEmitter discards all events.
type NopEmitter struct{}

func (NopEmitter) Emit(Event) {}
