package progress

import (
	"testing"
	"time"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/tester"
)

// observedAnimator pairs an animator with a channel observer so tests can
// consume exactly one value per manual tick without sleeping.
func observedAnimator(clock Clock) (*Animator, chan int) {
	values := make(chan int, 256)
	a := NewAnimator(clock,
		WithInterval(time.Second),
		WithCatchUpDuration(time.Second),
		WithObserver(func(v int) { values <- v }),
	)
	return a, values
}

func tickAndRead(t *testing.T, clock *ManualClock, values chan int) int {
	t.Helper()
	clock.Tick()
	select {
	case v := <-values:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("no observer callback after tick")
		return 0
	}
}

func TestAutoIncrementNeverReaches100(t *testing.T) {
	clock := NewManualClock()
	a, values := observedAnimator(clock)

	a.Start()
	tester.Eq(t, <-values, 0, "start resets to zero")

	last := 0
	for i := 0; i < 150; i++ {
		v := tickAndRead(t, clock, values)
		tester.True(t, v < 100, "auto phase must never reach 100")
		tester.True(t, v >= last, "value is monotonic")
		last = v
	}
	tester.Eq(t, a.Value(), 99, "auto phase parks at the cap")
}

func TestNotifyReadyLandsOnExactly100(t *testing.T) {
	clock := NewManualClock()
	a, values := observedAnimator(clock)

	a.Start()
	<-values
	for i := 0; i < 40; i++ {
		tickAndRead(t, clock, values)
	}

	a.NotifyReady()
	last := a.Value()
	saw100 := 0
	for i := 0; i < 50 && saw100 == 0; i++ {
		v := tickAndRead(t, clock, values)
		tester.True(t, v >= last, "catch-up never moves backwards")
		tester.True(t, v <= 100)
		last = v
		if v == 100 {
			saw100++
		}
	}
	tester.Eq(t, saw100, 1, "catch-up terminates on exactly 100")
	tester.Eq(t, a.Value(), 100)

	// Done: further ticks produce no callbacks and no movement.
	clock.Tick()
	clock.Tick()
	tester.Eq(t, a.Value(), 100)
}

func TestNotifyReadyFromZero(t *testing.T) {
	clock := NewManualClock()
	a, values := observedAnimator(clock)

	a.Start()
	<-values
	a.NotifyReady()

	reached := false
	for i := 0; i < 50 && !reached; i++ {
		clock.Tick()
		select {
		case v := <-values:
			reached = v == 100
		case <-time.After(2 * time.Second):
			t.Fatal("no observer callback after tick")
		}
	}
	tester.True(t, reached, "catch-up covers the full 0..100 distance")
}

func TestNotifyReadyIdempotent(t *testing.T) {
	clock := NewManualClock()
	a, values := observedAnimator(clock)

	a.Start()
	<-values
	a.NotifyReady()
	a.NotifyReady() // second call must not restart the animation

	saw100 := 0
	for i := 0; i < 60; i++ {
		clock.Tick()
		select {
		case v := <-values:
			if v == 100 {
				saw100++
			}
		case <-time.After(100 * time.Millisecond):
		}
	}
	tester.Eq(t, saw100, 1)
}

func TestResetCancelsAnimation(t *testing.T) {
	clock := NewManualClock()
	a, values := observedAnimator(clock)

	a.Start()
	<-values
	for i := 0; i < 5; i++ {
		tickAndRead(t, clock, values)
	}
	tester.True(t, a.Value() > 0)

	a.Reset()
	tester.Eq(t, <-values, 0, "reset reports zero")
	tester.Eq(t, a.Value(), 0)

	// The orphaned auto goroutine must not move the value after reset.
	clock.Tick()
	clock.Tick()
	tester.Eq(t, a.Value(), 0)
}

func TestStartRestartsFromZero(t *testing.T) {
	clock := NewManualClock()
	a, values := observedAnimator(clock)

	a.Start()
	<-values
	for i := 0; i < 10; i++ {
		tickAndRead(t, clock, values)
	}
	tester.True(t, a.Value() > 0)

	a.Start()
	tester.Eq(t, <-values, 0)
	tester.Eq(t, a.Value(), 0)
}
