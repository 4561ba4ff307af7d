// Package scheduler provides the clock abstraction behind every timer in
// the client. Debounce windows, the periodic refresh tick and the realtime
// reconnect delay all run through a Clock so that tests can drive time
// explicitly instead of sleeping.
package scheduler

import "time"

// Timer is a cancellable single-shot task
type Timer interface {
	// Stop cancels the timer. It reports whether the timer was
	// stopped before firing.
	Stop() bool
}

// Ticker delivers periodic ticks until stopped
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock is the time source used by all scheduled work
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
	NewTicker(d time.Duration) Ticker
}

// Real returns a Clock backed by the time package
func Real() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return realTimer{time.AfterFunc(d, fn)}
}

func (realClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{time.NewTicker(d)}
}

type realTimer struct {
	t *time.Timer
}

func (r realTimer) Stop() bool { return r.t.Stop() }

type realTicker struct {
	t *time.Ticker
}

func (r *realTicker) C() <-chan time.Time { return r.t.C }
func (r *realTicker) Stop()               { r.t.Stop() }
