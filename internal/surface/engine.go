// Package surface implements the host side of the synchronization protocol
// with an isolated rendering surface: the READY handshake, full-state pushes,
// deferred image delivery and inbound angle updates.
//
// Engine is not safe for concurrent use. The owning session serializes every
// call, including the message handler registered with Listen.
package surface

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"lightd/internal/channel"
	"lightd/internal/metrics"
	"lightd/pkg/types"
)

// Medium is the message channel shared with the surface.
type Medium interface {
	Subscribe(id string, h channel.Handler) func()
	Post(env channel.Envelope)
}

// Host is the panel side the engine reads state from and writes updates to.
type Host interface {
	// LiveState returns the current live field values.
	LiveState() State
	// ApplyAngles writes surface-driven angles to the live fields without
	// pushing them back.
	ApplyAngles(u AngleUpdate)
}

// Config configures an Engine.
type Config struct {
	// HostID is the subscriber id the engine listens under. Generated when empty.
	HostID string
	// SurfaceID is the only origin accepted for inbound messages.
	SurfaceID string
	Medium    Medium
	// Asset is released on Close (e.g. the surface's loaded document).
	Asset  io.Closer
	Logger zerolog.Logger
}

type Engine struct {
	hostID    string
	surfaceID string
	medium    Medium
	host      Host
	asset     io.Closer
	log       zerolog.Logger

	ready       bool
	pending     *string
	unsubscribe func()
	closed      bool
}

// NewEngine validates cfg and returns an engine in the not-ready state.
func NewEngine(cfg Config, host Host) (*Engine, error) {
	if cfg.Medium == nil {
		return nil, fmt.Errorf("surface engine: nil medium")
	}
	if cfg.SurfaceID == "" {
		return nil, fmt.Errorf("surface engine: empty surface id")
	}
	if host == nil {
		return nil, fmt.Errorf("surface engine: nil host")
	}
	hostID := cfg.HostID
	if hostID == "" {
		hostID = NewID()
	}
	return &Engine{
		hostID:    hostID,
		surfaceID: cfg.SurfaceID,
		medium:    cfg.Medium,
		host:      host,
		asset:     cfg.Asset,
		log:       cfg.Logger.With().Str("surface", cfg.SurfaceID).Logger(),
	}, nil
}

func (e *Engine) HostID() string    { return e.hostID }
func (e *Engine) SurfaceID() string { return e.surfaceID }
func (e *Engine) Ready() bool       { return e.ready }
func (e *Engine) HasPending() bool  { return e.pending != nil }
func (e *Engine) Closed() bool      { return e.closed }

// Listen registers h as the host's message listener. Only one listener is
// kept; Close deregisters it.
func (e *Engine) Listen(h channel.Handler) {
	if e.closed {
		return
	}
	if e.unsubscribe != nil {
		e.unsubscribe()
	}
	e.unsubscribe = e.medium.Subscribe(e.hostID, h)
}

// Receive interprets one inbound envelope. Foreign origins, undecodable
// payloads and unknown types are dropped; the returned error says why.
func (e *Engine) Receive(env channel.Envelope) (Inbound, error) {
	if e.closed {
		metrics.MessageDropped(metrics.ReasonClosed)
		return Inbound{}, errClosed
	}
	if env.Origin != e.surfaceID {
		metrics.MessageDropped(metrics.ReasonUntrustedOrigin)
		e.log.Debug().Str("origin", env.Origin).Msg("dropping message from untrusted origin")
		return Inbound{}, untrustedOriginError{origin: env.Origin}
	}
	in, err := DecodeInbound(env.Data)
	if err != nil {
		metrics.MessageDropped(metrics.ReasonMalformedMessage)
		e.log.Debug().Err(err).Msg("dropping malformed message")
		return Inbound{}, err
	}
	switch in.Type {
	case TypeReady:
		e.handshake()
	case TypeAngleUpdate:
		u := in.Angles
		u.Azimuth = types.WrapAzimuth(u.Azimuth)
		e.host.ApplyAngles(u)
	default:
		metrics.MessageDropped(metrics.ReasonUnknownType)
		e.log.Debug().Str("type", in.Type).Msg("ignoring unknown message type")
		return in, nil
	}
	metrics.MessageReceived(in.Type)
	return in, nil
}

// handshake marks the surface ready, flushes a buffered image and sends INIT.
// A repeated READY sends INIT again; an image already flushed is not resent.
func (e *Engine) handshake() {
	e.ready = true
	if e.pending != nil {
		data := *e.pending
		e.pending = nil
		e.send(TypeUpdateImage, func() ([]byte, error) { return EncodeImage(data) })
	}
	e.sendState(TypeInit)
}

// Push sends the full live state as SYNC_ANGLES. Before the handshake the push
// is dropped since INIT will carry the state anyway.
func (e *Engine) Push() bool {
	if e.closed || !e.ready {
		return false
	}
	e.sendState(TypeSyncAngles)
	return true
}

// SendImage delivers data now when ready, otherwise buffers it, replacing any
// image still waiting. It reports whether the image was sent immediately.
func (e *Engine) SendImage(data string) bool {
	if e.closed {
		return false
	}
	if e.ready {
		e.send(TypeUpdateImage, func() ([]byte, error) { return EncodeImage(data) })
		return true
	}
	if e.pending != nil {
		metrics.PendingImageOverwritten()
		e.log.Debug().Msg("replacing undelivered pending image")
	}
	e.pending = &data
	return false
}

// Resize forwards the container size. It is not gated on readiness.
func (e *Engine) Resize(width, height float64) {
	if e.closed {
		return
	}
	e.send(TypeResize, func() ([]byte, error) { return EncodeResize(width, height) })
}

// Close deregisters the listener, releases the asset and drops any pending
// image. Calling Close again is a no-op.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.ready = false
	e.pending = nil
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	if e.asset != nil {
		if err := e.asset.Close(); err != nil {
			e.log.Warn().Err(err).Msg("release surface asset")
		}
		e.asset = nil
	}
}

func (e *Engine) sendState(typ string) {
	st := e.host.LiveState()
	e.send(typ, func() ([]byte, error) { return EncodeState(typ, st) })
}

func (e *Engine) send(typ string, encode func() ([]byte, error)) {
	data, err := encode()
	if err != nil {
		e.log.Error().Err(err).Str("type", typ).Msg("encode message")
		return
	}
	e.medium.Post(channel.Envelope{Origin: e.hostID, Target: e.surfaceID, Data: data})
	metrics.MessageSent(typ)
}
