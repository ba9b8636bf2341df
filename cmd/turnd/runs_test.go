package main

import (
	"testing"
	"time"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/progress"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/tester"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/turn"
)

func manualRun(buffer int) (*activeRun, *progress.ManualClock) {
	r := &activeRun{
		id:     "run-test",
		events: make(chan turn.Event, buffer),
	}
	clock := progress.NewManualClock()
	r.animator = progress.NewAnimator(clock, progress.WithObserver(r.onPercent))
	return r, clock
}

func (r *activeRun) heldComplete() *turn.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.complete
}

// driveTo100 ticks the manual clock until the catch-up animation lands.
func driveTo100(t *testing.T, r *activeRun, clock *progress.ManualClock) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for r.animator.Value() < 100 {
		if time.Now().After(deadline) {
			t.Fatal("animator never reached 100")
		}
		clock.Tick()
		time.Sleep(time.Millisecond)
	}
}

func TestCompletionSurvivesFullEventBuffer(t *testing.T) {
	r, clock := manualRun(4)

	// An unwatched run fills the buffer with percent frames.
	for i := 0; i < cap(r.events); i++ {
		tester.True(t, r.push(turn.Event{Type: turn.EventTypeProgress, Progress: i, Message: "percent"}))
	}

	b := &turn.Bundle{TurnID: "run-1:day1", Day: 1}
	r.Emit(turn.Event{Type: turn.EventTypeComplete, Message: "COMPLETE", Bundle: b})
	driveTo100(t, r, clock)

	// The buffer never had room, so the completion event must still be held
	// rather than silently dropped.
	tester.True(t, r.heldComplete() != nil, "completion kept until a send succeeds")

	// A watcher attaches: drain stale frames and re-offer delivery after each
	// one, exactly as the SSE loop does.
	var complete *turn.Event
	deadline := time.Now().Add(2 * time.Second)
	for complete == nil {
		if time.Now().After(deadline) {
			t.Fatal("late watcher never received the completion event")
		}
		select {
		case ev := <-r.events:
			r.deliverComplete()
			if ev.Type == turn.EventTypeComplete {
				evCopy := ev
				complete = &evCopy
			}
		default:
			r.deliverComplete()
			time.Sleep(time.Millisecond)
		}
	}
	tester.True(t, complete.Bundle == b, "late watcher still receives the bundle")
	tester.True(t, r.heldComplete() == nil, "delivered exactly once")

	// Re-offering after delivery must not duplicate the event.
	r.deliverComplete()
	for len(r.events) > 0 {
		ev := <-r.events
		tester.True(t, ev.Type != turn.EventTypeComplete, "completion delivered exactly once")
	}
}

func TestCompletionDeliveredWithBufferRoom(t *testing.T) {
	r, clock := manualRun(64)

	b := &turn.Bundle{TurnID: "run-1:day1", Day: 1}
	r.Emit(turn.Event{Type: turn.EventTypeComplete, Message: "COMPLETE", Bundle: b})
	driveTo100(t, r, clock)

	// With room in the buffer the completion lands on its own, after the
	// percent frames.
	deadline := time.Now().Add(time.Second)
	for r.heldComplete() != nil {
		if time.Now().After(deadline) {
			t.Fatal("completion never delivered")
		}
		time.Sleep(time.Millisecond)
	}

	var sawComplete bool
	lastPercent := -1
	for len(r.events) > 0 {
		ev := <-r.events
		switch ev.Type {
		case turn.EventTypeProgress:
			tester.False(t, sawComplete, "no percent frames after completion")
			lastPercent = ev.Progress
		case turn.EventTypeComplete:
			sawComplete = true
			tester.True(t, ev.Bundle == b)
		}
	}
	tester.True(t, sawComplete)
	tester.Eq(t, lastPercent, 100)

	_, seq, ok := r.readyBundle()
	tester.True(t, ok, "bundle and sequencer frozen on completion")
	tester.Eq(t, seq.TerminalStep(), 4)
}
