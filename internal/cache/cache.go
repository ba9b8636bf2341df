// Package cache lets a fully-assembled turn bundle survive a screen-to-screen
// navigation and be restored without re-fetching. Stores hold at most one
// entry and enforce single consumption; staleness is guarded by the turn
// identifier at the consumer.
package cache

import (
	"sync"
	"time"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/turn"
)

// Entry is one cached turn: the frozen bundle, the turn it belongs to, and
// when it was captured.
type Entry struct {
	Bundle     *turn.Bundle `json:"bundle"`
	TurnID     string       `json:"turn_id"`
	CapturedAt time.Time    `json:"captured_at"`
}

// Store holds at most one Entry. LoadAndConsume is single-use: the entry is
// cleared on read so two readers can never race on the same stale entry.
type Store interface {
	Save(e Entry) error
	LoadAndConsume() (Entry, bool, error)
	Clear() error
}

// Consume reads and validates the store against the live turn identifier. A
// mismatched or unreadable entry is treated as a miss: discarded silently,
// never an error to the user.
func Consume(s Store, liveTurnID string) (*turn.Bundle, bool) {
	e, ok, err := s.LoadAndConsume()
	if err != nil || !ok {
		return nil, false
	}
	if e.TurnID != liveTurnID || e.Bundle == nil {
		return nil, false
	}
	return e.Bundle, true
}

// Memory is the in-process Store used inside a single gateway run.
type Memory struct {
	mu    sync.Mutex
	entry *Entry
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Save(e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry = &e
	return nil
}

func (m *Memory) LoadAndConsume() (Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entry == nil {
		return Entry{}, false, nil
	}
	e := *m.entry
	m.entry = nil
	return e, true, nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry = nil
	return nil
}
