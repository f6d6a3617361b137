package clock

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestManualFiresOnlyDueTimers(t *testing.T) {
	m := NewManual()
	var a, b, c atomic.Int32
	m.AfterFunc(30*time.Millisecond, func() { c.Add(1) })
	m.AfterFunc(10*time.Millisecond, func() { a.Add(1) })
	m.AfterFunc(20*time.Millisecond, func() { b.Add(1) })

	m.Advance(20 * time.Millisecond)
	if a.Load() != 1 || b.Load() != 1 || c.Load() != 0 {
		t.Fatalf("after 20ms a=%d b=%d c=%d", a.Load(), b.Load(), c.Load())
	}
	if m.Pending() != 1 {
		t.Fatalf("pending=%d", m.Pending())
	}
	m.Advance(10 * time.Millisecond)
	if c.Load() != 1 || m.Pending() != 0 {
		t.Fatalf("after 30ms c=%d pending=%d", c.Load(), m.Pending())
	}
}

func TestManualStop(t *testing.T) {
	m := NewManual()
	var fired atomic.Bool
	tm := m.AfterFunc(5*time.Millisecond, func() { fired.Store(true) })
	if !tm.Stop() {
		t.Fatalf("first stop should report true")
	}
	if tm.Stop() {
		t.Fatalf("second stop should report false")
	}
	if m.Pending() != 0 {
		t.Fatalf("pending=%d", m.Pending())
	}
	m.Advance(time.Second)
	if fired.Load() {
		t.Fatalf("stopped timer fired")
	}
}

func TestManualStopAfterFireReportsFalse(t *testing.T) {
	m := NewManual()
	tm := m.AfterFunc(time.Millisecond, func() {})
	m.Advance(time.Millisecond)
	if tm.Stop() {
		t.Fatalf("stop after firing should report false")
	}
}

func TestManualRescheduleCountsFromNewTime(t *testing.T) {
	m := NewManual()
	var count atomic.Int32
	var tick func()
	tick = func() {
		if count.Add(1) < 3 {
			m.AfterFunc(10*time.Millisecond, tick)
		}
	}
	m.AfterFunc(10*time.Millisecond, tick)

	m.Advance(100 * time.Millisecond)
	if count.Load() != 1 || m.Pending() != 1 {
		t.Fatalf("count=%d pending=%d", count.Load(), m.Pending())
	}
	m.Advance(10 * time.Millisecond)
	m.Advance(10 * time.Millisecond)
	if count.Load() != 3 || m.Pending() != 0 {
		t.Fatalf("count=%d pending=%d", count.Load(), m.Pending())
	}
}

func TestRealAfterFunc(t *testing.T) {
	done := make(chan struct{})
	Real{}.AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("real timer did not fire")
	}
}
