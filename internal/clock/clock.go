// Package clock abstracts one-shot timers so debounce and settle delays can be
// driven deterministically in tests.
package clock

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Timer is a cancellable pending callback. Stop reports whether it prevented
// the callback from running.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Callbacks always run on a goroutine other than
// the caller's.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

var wall = clockwork.NewRealClock()

// Real is backed by the wall clock.
type Real struct{}

func (Real) AfterFunc(d time.Duration, f func()) Timer { return wall.AfterFunc(d, f) }

// Manual is a clock that only moves when Advance is called. Advance returns
// once every callback that came due has finished.
type Manual struct {
	fake clockwork.FakeClock

	mu      sync.Mutex
	pending map[*manualTimer]struct{}
}

type manualTimer struct {
	m    *Manual
	t    clockwork.Timer
	at   time.Time
	done chan struct{}
}

func NewManual() *Manual {
	return &Manual{fake: clockwork.NewFakeClock(), pending: map[*manualTimer]struct{}{}}
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	mt := &manualTimer{m: m, done: make(chan struct{})}
	m.mu.Lock()
	defer m.mu.Unlock()
	mt.at = m.fake.Now().Add(d)
	mt.t = m.fake.AfterFunc(d, func() {
		defer close(mt.done)
		f()
	})
	m.pending[mt] = struct{}{}
	return mt
}

func (mt *manualTimer) Stop() bool {
	if !mt.t.Stop() {
		return false
	}
	mt.m.mu.Lock()
	delete(mt.m.pending, mt)
	mt.m.mu.Unlock()
	return true
}

// Advance moves time forward by d. Timers scheduled by the fired callbacks
// are measured from the new time.
func (m *Manual) Advance(d time.Duration) {
	m.fake.Advance(d)
	now := m.fake.Now()

	m.mu.Lock()
	var due []*manualTimer
	for mt := range m.pending {
		if !mt.at.After(now) {
			due = append(due, mt)
			delete(m.pending, mt)
		}
	}
	m.mu.Unlock()

	for _, mt := range due {
		<-mt.done
	}
}

// Pending returns the number of scheduled, unfired timers.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
