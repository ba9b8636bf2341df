package main

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/progress"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/reveal"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/turn"
)

// runRetention is how long a finished run stays addressable for late
// watchers and reveal reconnects.
const runRetention = 30 * time.Minute

// activeRun is one in-flight or recently finished acquisition: its event
// stream, its progress animator, and (once complete) the frozen bundle and
// the reveal sequencer driving its presentation.
type activeRun struct {
	id       string
	events   chan turn.Event
	animator *progress.Animator

	mu       sync.Mutex
	bundle   *turn.Bundle
	seq      *reveal.Sequencer
	complete *turn.Event
}

func (r *activeRun) push(ev turn.Event) bool {
	select {
	case r.events <- ev:
		return true
	default:
		// A slow or absent watcher must never stall acquisition.
		return false
	}
}

// onPercent receives animator frames. The completion event is held back until
// the bar lands on 100, so watchers always see the full catch-up animation
// before the bundle.
func (r *activeRun) onPercent(v int) {
	r.push(turn.Event{Type: turn.EventTypeProgress, Progress: v, Message: "percent"})
	if v >= 100 {
		r.deliverComplete()
	}
}

// deliverComplete tries to enqueue the held completion event. It is kept
// until a send actually succeeds: an absent watcher can fill the buffer with
// percent frames, and the bundle must still reach whoever attaches later. The
// SSE handler re-tries on attach and after every drained event.
func (r *activeRun) deliverComplete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.complete == nil {
		return
	}
	if r.push(*r.complete) {
		r.complete = nil
	}
}

// Emit implements turn.Emitter. Completion is intercepted and held for the
// animator's landing; everything else passes through to the event stream.
func (r *activeRun) Emit(ev turn.Event) {
	switch ev.Type {
	case turn.EventTypeComplete:
		r.mu.Lock()
		r.bundle = ev.Bundle
		r.seq = reveal.New(ev.Bundle.ItemCount(), false)
		evCopy := ev
		r.complete = &evCopy
		r.mu.Unlock()
		r.animator.NotifyReady()
	case turn.EventTypeError:
		r.push(ev)
	default:
		r.push(ev)
	}
}

// readyBundle returns the frozen bundle and sequencer once acquisition and
// the progress catch-up have both finished.
func (r *activeRun) readyBundle() (*turn.Bundle, *reveal.Sequencer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bundle == nil || r.seq == nil {
		return nil, nil, false
	}
	return r.bundle, r.seq, true
}

// runManager holds active runs keyed by run id.
type runManager struct {
	mu   sync.Mutex
	runs map[string]*activeRun
}

func newRunManager() *runManager {
	return &runManager{runs: map[string]*activeRun{}}
}

func (m *runManager) create(animatorOpts ...progress.Option) *activeRun {
	r := &activeRun{
		id:     uuid.NewString(),
		events: make(chan turn.Event, 128),
	}
	opts := append([]progress.Option{progress.WithObserver(r.onPercent)}, animatorOpts...)
	r.animator = progress.NewAnimator(progress.SystemClock{}, opts...)

	m.mu.Lock()
	m.runs[r.id] = r
	m.mu.Unlock()
	return r
}

func (m *runManager) get(id string) (*activeRun, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	return r, ok
}

func (m *runManager) scheduleCleanup(id string) {
	time.AfterFunc(runRetention, func() {
		m.mu.Lock()
		delete(m.runs, id)
		m.mu.Unlock()
	})
}
