// Package channel is the same-process message medium between a host panel and
// its rendering surfaces. It behaves like a shared window: a post without a
// target reaches every subscriber except its sender, so receivers must filter
// by origin. Delivery is asynchronous and FIFO per subscriber.
package channel

import (
	"sync"

	"github.com/rs/zerolog"
)

// Envelope is one posted message. Data is a JSON object with a "type" field.
type Envelope struct {
	Origin string
	Target string
	Data   []byte
}

// Handler receives envelopes on the subscriber's delivery goroutine.
type Handler func(Envelope)

// Bus fans envelopes out to subscribers.
type Bus struct {
	mu     sync.Mutex
	subs   map[string]*mailbox
	closed bool
	log    zerolog.Logger
}

// NewBus returns an empty bus. A zero logger discards output.
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{subs: make(map[string]*mailbox), log: log}
}

// Subscribe registers h under id, replacing any previous subscription with the
// same id. The returned func deregisters it; calling it again is a no-op.
func (b *Bus) Subscribe(id string, h Handler) func() {
	mb := newMailbox(id, h, b.log)
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		mb.close()
		return func() {}
	}
	if prev := b.subs[id]; prev != nil {
		prev.close()
	}
	b.subs[id] = mb
	b.mu.Unlock()
	go mb.run()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			if b.subs[id] == mb {
				delete(b.subs, id)
			}
			b.mu.Unlock()
			mb.close()
		})
	}
}

// Post enqueues env for delivery and returns immediately. With a Target only
// that subscriber receives it; otherwise everyone but the origin does.
func (b *Bus) Post(env Envelope) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	if env.Target != "" {
		if mb := b.subs[env.Target]; mb != nil {
			mb.push(env)
		} else {
			b.log.Debug().Str("target", env.Target).Msg("post to unknown subscriber dropped")
		}
		return
	}
	for id, mb := range b.subs {
		if id == env.Origin {
			continue
		}
		mb.push(env)
	}
}

// Close stops every mailbox; later posts are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, mb := range b.subs {
		mb.close()
		delete(b.subs, id)
	}
}

// mailbox is an unbounded FIFO drained by one goroutine.
type mailbox struct {
	id      string
	handler Handler
	log     zerolog.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Envelope
	closed bool
}

func newMailbox(id string, h Handler, log zerolog.Logger) *mailbox {
	mb := &mailbox{id: id, handler: h, log: log}
	mb.cond = sync.NewCond(&mb.mu)
	return mb
}

func (mb *mailbox) push(env Envelope) {
	mb.mu.Lock()
	if !mb.closed {
		mb.queue = append(mb.queue, env)
		mb.cond.Signal()
	}
	mb.mu.Unlock()
}

func (mb *mailbox) close() {
	mb.mu.Lock()
	mb.closed = true
	mb.queue = nil
	mb.cond.Broadcast()
	mb.mu.Unlock()
}

func (mb *mailbox) run() {
	for {
		mb.mu.Lock()
		for len(mb.queue) == 0 && !mb.closed {
			mb.cond.Wait()
		}
		if mb.closed {
			mb.mu.Unlock()
			return
		}
		env := mb.queue[0]
		mb.queue = mb.queue[1:]
		mb.mu.Unlock()
		mb.deliver(env)
	}
}

func (mb *mailbox) deliver(env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			mb.log.Error().Str("subscriber", mb.id).Interface("panic", r).Msg("message handler panicked")
		}
	}()
	mb.handler(env)
}
