package surface

import (
	"sync"

	"github.com/rs/zerolog"

	"lightd/internal/channel"
)

// PeerView is what a headless surface has received so far.
type PeerView struct {
	Initialized bool
	State       State
	Image       string
	Width       float64
	Height      float64
	// Received lists message types in arrival order.
	Received []string
}

// Peer is a headless rendering surface: it performs the handshake, keeps the
// last state it was told about and can emit angle updates. The daemon runs one
// when no real viewer is attached; tests use it as the far side of the channel.
type Peer struct {
	id     string
	medium Medium
	log    zerolog.Logger

	mu          sync.Mutex
	view        PeerView
	unsubscribe func()
	closed      bool
}

// NewPeer returns a peer with the given id; an empty id is generated.
func NewPeer(id string, medium Medium, log zerolog.Logger) *Peer {
	if id == "" {
		id = NewID()
	}
	return &Peer{id: id, medium: medium, log: log.With().Str("peer", id).Logger()}
}

func (p *Peer) ID() string { return p.id }

// Start subscribes the peer and announces readiness.
func (p *Peer) Start() {
	p.mu.Lock()
	if p.closed || p.unsubscribe != nil {
		p.mu.Unlock()
		return
	}
	p.unsubscribe = p.medium.Subscribe(p.id, p.handle)
	p.mu.Unlock()
	p.Announce()
}

// Announce posts READY. Calling it again models a duplicate handshake.
func (p *Peer) Announce() {
	data, err := EncodeReady()
	if err != nil {
		p.log.Error().Err(err).Msg("encode ready")
		return
	}
	p.post(data)
}

// Drag posts an ANGLE_UPDATE, as an interactive manipulation would.
func (p *Peer) Drag(u AngleUpdate) {
	data, err := EncodeAngleUpdate(u)
	if err != nil {
		p.log.Error().Err(err).Msg("encode angle update")
		return
	}
	p.post(data)
}

func (p *Peer) post(data []byte) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return
	}
	// broadcast: the surface does not know which host listener owns it
	p.medium.Post(channel.Envelope{Origin: p.id, Data: data})
}

func (p *Peer) handle(env channel.Envelope) {
	msg, err := DecodeOutbound(env.Data)
	if err != nil {
		p.log.Debug().Err(err).Msg("discarding malformed host message")
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.view.Received = append(p.view.Received, msg.Type)
	switch msg.Type {
	case TypeInit:
		p.view.Initialized = true
		p.view.State = msg.State
	case TypeSyncAngles:
		p.view.State = msg.State
	case TypeUpdateImage:
		p.view.Image = msg.ImageData
	case TypeResize:
		p.view.Width, p.view.Height = msg.Width, msg.Height
	}
}

// View returns a copy of everything received so far.
func (p *Peer) View() PeerView {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := p.view
	v.Received = append([]string(nil), p.view.Received...)
	return v
}

// Close unsubscribes the peer. It satisfies io.Closer so a session can release
// it as the surface asset; repeated calls are no-ops.
func (p *Peer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
	return nil
}
