// Package resize forwards container geometry changes to the rendering
// surface. Changes below a threshold are treated as noise; the rest restart a
// trailing debounce so a burst of changes yields one notification carrying
// the final size.
package resize

import (
	"math"
	"sync"
	"time"

	"lightd/internal/clock"
)

// Defaults used when Config leaves a field unset.
const (
	DefaultDebounce  = 50 * time.Millisecond
	DefaultThreshold = 1.0
)

// Size is a container's rendered width and height.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Geometry reports the container's current size.
type Geometry interface {
	Size() Size
}

// GeometryFunc adapts a function to Geometry.
type GeometryFunc func() Size

func (f GeometryFunc) Size() Size { return f() }

// Config configures a Negotiator.
type Config struct {
	Clock     clock.Clock
	Debounce  time.Duration
	Threshold float64
	// Geometry is queried when the debounce expires. When nil the last
	// observed size is sent.
	Geometry Geometry
	// Send delivers the RESIZE notification. It runs on the timer's goroutine
	// and must do its own locking.
	Send func(Size)
}

type Negotiator struct {
	clock     clock.Clock
	debounce  time.Duration
	threshold float64
	geometry  Geometry
	send      func(Size)

	mu      sync.Mutex
	last    Size
	timer   clock.Timer
	gen     uint64
	stopped bool
}

func New(cfg Config) *Negotiator {
	n := &Negotiator{
		clock:     cfg.Clock,
		debounce:  cfg.Debounce,
		threshold: cfg.Threshold,
		geometry:  cfg.Geometry,
		send:      cfg.Send,
	}
	if n.clock == nil {
		n.clock = clock.Real{}
	}
	if n.debounce <= 0 {
		n.debounce = DefaultDebounce
	}
	if n.threshold <= 0 {
		n.threshold = DefaultThreshold
	}
	return n
}

// Observe records a geometry change. It reports false when the change was
// suppressed as noise or the negotiator is stopped.
func (n *Negotiator) Observe(s Size) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stopped {
		return false
	}
	if math.Abs(s.Width-n.last.Width) < n.threshold && math.Abs(s.Height-n.last.Height) < n.threshold {
		return false
	}
	n.last = s
	if n.timer != nil {
		n.timer.Stop()
	}
	n.gen++
	gen := n.gen
	n.timer = n.clock.AfterFunc(n.debounce, func() { n.fire(gen) })
	return true
}

func (n *Negotiator) fire(gen uint64) {
	n.mu.Lock()
	if n.stopped || gen != n.gen {
		n.mu.Unlock()
		return
	}
	n.timer = nil
	size := n.last
	if n.geometry != nil {
		size = n.geometry.Size()
	}
	send := n.send
	n.mu.Unlock()
	if send != nil {
		send(size)
	}
}

// LastSize returns the last size that passed the noise filter.
func (n *Negotiator) LastSize() Size {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}

// Stop cancels any pending notification. Repeated calls are no-ops.
func (n *Negotiator) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stopped {
		return
	}
	n.stopped = true
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}
