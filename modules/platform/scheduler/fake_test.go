package scheduler

import (
	"testing"
	"time"
)

func TestFakeAfterFuncFiresOnAdvance(t *testing.T) {
	clock := NewFake()
	fired := 0
	clock.AfterFunc(100*time.Millisecond, func() { fired++ })

	clock.Advance(50 * time.Millisecond)
	if fired != 0 {
		t.Fatal("timer fired before its deadline")
	}
	clock.Advance(50 * time.Millisecond)
	if fired != 1 {
		t.Errorf("expected 1 firing, got %d", fired)
	}
	clock.Advance(time.Hour)
	if fired != 1 {
		t.Errorf("timer fired again after completion, count %d", fired)
	}
}

func TestFakeTimersFireInDeadlineOrder(t *testing.T) {
	clock := NewFake()
	var order []string
	clock.AfterFunc(30*time.Millisecond, func() { order = append(order, "b") })
	clock.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	clock.AfterFunc(20*time.Millisecond, func() { order = append(order, "c") })

	clock.Advance(time.Second)
	if len(order) != 3 || order[0] != "a" || order[1] != "c" || order[2] != "b" {
		t.Errorf("unexpected firing order: %v", order)
	}
}

func TestFakeTimerStop(t *testing.T) {
	clock := NewFake()
	fired := false
	timer := clock.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Error("Stop() on armed timer should report true")
	}
	if timer.Stop() {
		t.Error("second Stop() should report false")
	}
	clock.Advance(time.Minute)
	if fired {
		t.Error("stopped timer fired")
	}
	if clock.PendingTimers() != 0 {
		t.Errorf("expected no pending timers, got %d", clock.PendingTimers())
	}
}

func TestFakeTimerRescheduleFromCallback(t *testing.T) {
	// A callback arming a new timer inside Advance must fire within
	// the same Advance when its deadline is inside the window.
	clock := NewFake()
	fired := 0
	clock.AfterFunc(10*time.Millisecond, func() {
		fired++
		clock.AfterFunc(10*time.Millisecond, func() { fired++ })
	})

	clock.Advance(25 * time.Millisecond)
	if fired != 2 {
		t.Errorf("expected chained timer to fire, count %d", fired)
	}
}

func TestFakeNowAdvances(t *testing.T) {
	clock := NewFake()
	start := clock.Now()
	clock.Advance(90 * time.Second)
	if got := clock.Now().Sub(start); got != 90*time.Second {
		t.Errorf("expected 90s elapsed, got %v", got)
	}
}

func TestFakeTickerDeliversElapsedPeriods(t *testing.T) {
	clock := NewFake()
	ticker := clock.NewTicker(10 * time.Second)
	defer ticker.Stop()

	clock.Advance(35 * time.Second)
	ticks := 0
	for {
		select {
		case <-ticker.C():
			ticks++
			continue
		default:
		}
		break
	}
	if ticks != 3 {
		t.Errorf("expected 3 ticks for 35s at 10s period, got %d", ticks)
	}
}

func TestFakeTickerStop(t *testing.T) {
	clock := NewFake()
	ticker := clock.NewTicker(time.Second)
	ticker.Stop()
	clock.Advance(10 * time.Second)
	select {
	case <-ticker.C():
		t.Error("stopped ticker delivered a tick")
	default:
	}
}

func TestRealClockAfterFunc(t *testing.T) {
	done := make(chan struct{})
	Real().AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("real timer never fired")
	}
}
