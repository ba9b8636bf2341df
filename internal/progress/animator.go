// Package progress decouples the loading bar from actual fetch timing: a
// timer-driven counter creeps while acquisition is outstanding and snaps to
// 100 only when completion is confirmed.
package progress

import (
	"math"
	"sync"
	"time"
)

const (
	// autoCap is the ceiling for the auto-increment phase. The bar must
	// never reach 100 on its own; 100 means confirmed completion.
	autoCap = 99

	defaultInterval = time.Second
	defaultCatchUp  = time.Second
	catchUpFrames   = 20
)

type state int

const (
	stateIdle state = iota
	stateAuto
	stateCatchUp
	stateDone
)

// Animator is the felt-progress counter. Two timer-driven phases, never both
// active: auto-increment (+1 per interval, capped at 99) and catch-up (ease
// out from the current value to exactly 100 over a fixed duration).
type Animator struct {
	mu       sync.Mutex
	clock    Clock
	interval time.Duration
	catchUp  time.Duration

	value    int
	st       state
	gen      int
	observer func(int)
}

// Option tunes an Animator.
type Option func(*Animator)

// WithInterval overrides the auto-increment period.
func WithInterval(d time.Duration) Option {
	return func(a *Animator) {
		if d > 0 {
			a.interval = d
		}
	}
}

// WithCatchUpDuration overrides the catch-up animation length.
func WithCatchUpDuration(d time.Duration) Option {
	return func(a *Animator) {
		if d > 0 {
			a.catchUp = d
		}
	}
}

// WithObserver registers a callback invoked on every value change. The
// callback runs on the animator's timer goroutine and must not block.
func WithObserver(fn func(value int)) Option {
	return func(a *Animator) { a.observer = fn }
}

func NewAnimator(clock Clock, opts ...Option) *Animator {
	if clock == nil {
		clock = SystemClock{}
	}
	a := &Animator{
		clock:    clock,
		interval: defaultInterval,
		catchUp:  defaultCatchUp,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Value returns the current percentage (0..100).
func (a *Animator) Value() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.value
}

// Start resets to 0 and begins the auto-increment phase. Calling Start while
// running restarts from 0.
func (a *Animator) Start() {
	a.mu.Lock()
	a.gen++
	gen := a.gen
	a.value = 0
	a.st = stateAuto
	a.mu.Unlock()
	a.notify(0)

	ticker := a.clock.NewTicker(a.interval)
	go func() {
		defer ticker.Stop()
		for range ticker.C() {
			a.mu.Lock()
			if a.gen != gen || a.st != stateAuto {
				a.mu.Unlock()
				return
			}
			if a.value < autoCap {
				a.value++
			}
			v := a.value
			a.mu.Unlock()
			a.notify(v)
		}
	}()
}

// NotifyReady cancels auto-increment and animates from the current value to
// exactly 100 over the catch-up duration with an ease-out curve. The bar
// reaches 100 exactly once regardless of the remaining distance.
func (a *Animator) NotifyReady() {
	a.mu.Lock()
	if a.st == stateCatchUp || a.st == stateDone {
		a.mu.Unlock()
		return
	}
	a.gen++
	gen := a.gen
	a.st = stateCatchUp
	from := float64(a.value)
	a.mu.Unlock()

	start := a.clock.Now()
	ticker := a.clock.NewTicker(a.catchUp / catchUpFrames)
	go func() {
		defer ticker.Stop()
		for now := range ticker.C() {
			t := float64(now.Sub(start)) / float64(a.catchUp)
			done := t >= 1
			if done {
				t = 1
			}
			// Quadratic ease-out: fast start, soft landing on 100.
			eased := 1 - math.Pow(1-t, 2)
			v := int(math.Round(from + (100-from)*eased))

			a.mu.Lock()
			if a.gen != gen || a.st != stateCatchUp {
				a.mu.Unlock()
				return
			}
			if v > a.value {
				a.value = v
			}
			v = a.value
			if done {
				a.value = 100
				v = 100
				a.st = stateDone
			}
			a.mu.Unlock()
			a.notify(v)
			if done {
				return
			}
		}
	}()
}

// Reset cancels all timers and returns to the initial idle state. Safe to
// call at any point, including mid-animation.
func (a *Animator) Reset() {
	a.mu.Lock()
	a.gen++
	a.value = 0
	a.st = stateIdle
	a.mu.Unlock()
	a.notify(0)
}

func (a *Animator) notify(v int) {
	if a.observer != nil {
		a.observer(v)
	}
}
