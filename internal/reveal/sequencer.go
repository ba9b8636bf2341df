// Package reveal replays a ready turn bundle as a deterministic, skippable
// sequence of reveal steps instead of showing everything at once.
package reveal

import (
	"fmt"
	"sync"
)

// Checkpoint names the UI region a step reveals.
type Checkpoint string

const (
	CheckpointIntro    Checkpoint = "intro"
	CheckpointDilemma  Checkpoint = "dilemma"
	CheckpointItem     Checkpoint = "item"
	CheckpointSummary  Checkpoint = "summary"
	CheckpointChoices  Checkpoint = "choices"
	CheckpointTerminal Checkpoint = "terminal"
)

// Fixed checkpoints around the variable-length item run. The terminal step
// count is always FixedLeadingSteps + itemCount + FixedTrailingSteps; it is
// recomputed from the bundle, never hard-coded.
const (
	FixedLeadingSteps  = 2 // intro, dilemma
	FixedTrailingSteps = 2 // summary, choices
)

// Frame is the sequencer's externally visible state after a step change.
type Frame struct {
	Step     int `json:"step"`
	Terminal int `json:"terminal"`
	// Checkpoint is the region currently revealing; CheckpointTerminal once
	// everything is shown.
	Checkpoint Checkpoint `json:"checkpoint"`
	// ItemIndex is the zero-based item being revealed when Checkpoint is
	// CheckpointItem, else -1.
	ItemIndex int `json:"item_index"`
	// ScrollTarget is the region id the view should auto-scroll to.
	ScrollTarget string `json:"scroll_target"`
	// SkipVisible is false once skip was used or the terminal step reached.
	SkipVisible bool `json:"skip_visible"`
	Done        bool `json:"done"`
}

// Sequencer is a monotonically increasing step counter with named
// checkpoints. AdvanceToNext and SkipToEnd are the only mutators besides a
// full Reset for a new turn.
type Sequencer struct {
	mu        sync.Mutex
	step      int
	itemCount int
	skipped   bool
	observer  func(Frame)
}

// New builds a sequencer for a bundle with itemCount variable-length items.
// Resumed sessions start pre-set at the terminal step: everything shown
// immediately, no animation.
func New(itemCount int, resumed bool) *Sequencer {
	if itemCount < 0 {
		itemCount = 0
	}
	s := &Sequencer{itemCount: itemCount}
	if resumed {
		s.step = s.terminal()
		s.skipped = true
	}
	return s
}

// SetObserver registers a callback invoked with a Frame after every state
// change, including construction-time resume.
func (s *Sequencer) SetObserver(fn func(Frame)) {
	s.mu.Lock()
	s.observer = fn
	frame := s.frame()
	s.mu.Unlock()
	if fn != nil {
		fn(frame)
	}
}

// TerminalStep returns FixedLeadingSteps + itemCount + FixedTrailingSteps.
func (s *Sequencer) TerminalStep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminal()
}

// SetItemCount recomputes the step layout when the bundle's itemized list
// size becomes known. It never moves the counter backwards; if the counter
// already passed the new terminal it clamps forward to it.
func (s *Sequencer) SetItemCount(n int) Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 0 {
		n = 0
	}
	s.itemCount = n
	if s.step > s.terminal() {
		s.step = s.terminal()
	}
	return s.emit()
}

// Current returns the present frame without mutating anything.
func (s *Sequencer) Current() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame()
}

// AdvanceToNext moves the counter forward one step in response to a reveal
// region reporting completion. Advancing at the terminal step is a no-op.
func (s *Sequencer) AdvanceToNext() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step < s.terminal() {
		s.step++
	}
	return s.emit()
}

// SkipToEnd jumps directly to the terminal step and marks the session
// skipped so no further per-step timers fire. Single-use: once skipped (or
// at terminal), the skip affordance is hidden.
func (s *Sequencer) SkipToEnd() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipped = true
	s.step = s.terminal()
	return s.emit()
}

// Skipped reports whether SkipToEnd was used (or the session resumed).
func (s *Sequencer) Skipped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skipped
}

// Reset returns to step 0 for a new turn. This is the only way the counter
// decreases.
func (s *Sequencer) Reset(itemCount int) Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	if itemCount < 0 {
		itemCount = 0
	}
	s.step = 0
	s.itemCount = itemCount
	s.skipped = false
	return s.emit()
}

func (s *Sequencer) terminal() int {
	return FixedLeadingSteps + s.itemCount + FixedTrailingSteps
}

func (s *Sequencer) emit() Frame {
	f := s.frame()
	if s.observer != nil {
		s.observer(f)
	}
	return f
}

func (s *Sequencer) frame() Frame {
	f := Frame{
		Step:      s.step,
		Terminal:  s.terminal(),
		ItemIndex: -1,
	}
	switch {
	case s.step >= s.terminal():
		f.Checkpoint = CheckpointTerminal
		f.Done = true
	case s.step == 0:
		f.Checkpoint = CheckpointIntro
	case s.step == 1:
		f.Checkpoint = CheckpointDilemma
	case s.step < FixedLeadingSteps+s.itemCount:
		f.Checkpoint = CheckpointItem
		f.ItemIndex = s.step - FixedLeadingSteps
	case s.step == FixedLeadingSteps+s.itemCount:
		f.Checkpoint = CheckpointSummary
	default:
		f.Checkpoint = CheckpointChoices
	}
	f.ScrollTarget = scrollTarget(f)
	f.SkipVisible = !s.skipped && !f.Done
	return f
}

func scrollTarget(f Frame) string {
	if f.Checkpoint == CheckpointItem {
		return fmt.Sprintf("%s-%d", CheckpointItem, f.ItemIndex)
	}
	if f.Done {
		return string(CheckpointChoices)
	}
	return string(f.Checkpoint)
}
