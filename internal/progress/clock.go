package progress

import (
	"sync"
	"time"
)

// Clock abstracts the monotonic time source driving the animator, so tests
// can fast-forward deterministically instead of sleeping.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker is the minimal ticker surface the animator consumes.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// SystemClock is the production Clock backed by the runtime's monotonic clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) NewTicker(d time.Duration) Ticker {
	return &systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct{ t *time.Ticker }

func (s *systemTicker) C() <-chan time.Time { return s.t.C }
func (s *systemTicker) Stop()               { s.t.Stop() }

// ManualClock is a test clock whose tickers fire only when Tick is called.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*manualTicker
}

func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Unix(0, 0)}
}

func (m *ManualClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *ManualClock) NewTicker(d time.Duration) Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTicker{clock: m, ch: make(chan time.Time, 1), interval: d}
	m.tickers = append(m.tickers, t)
	return t
}

// Tick advances the clock by each live ticker's interval and fires it once.
// Fires are non-blocking; a ticker whose consumer is gone just drops ticks,
// matching time.Ticker semantics.
func (m *ManualClock) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tickers {
		if t.stopped {
			continue
		}
		m.now = m.now.Add(t.interval)
		select {
		case t.ch <- m.now:
		default:
		}
	}
}

type manualTicker struct {
	clock    *ManualClock
	ch       chan time.Time
	interval time.Duration
	stopped  bool
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }

func (t *manualTicker) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.stopped = true
}
