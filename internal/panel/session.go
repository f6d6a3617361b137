package panel

import (
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"lightd/internal/channel"
	"lightd/internal/clock"
	"lightd/internal/fields"
	"lightd/internal/metrics"
	"lightd/internal/resize"
	"lightd/internal/slots"
	"lightd/internal/surface"
	"lightd/pkg/types"
)

// Config encapsulates the tunables and collaborators of a Session.
type Config struct {
	// Fields is the live field set; defaults to an in-memory set.
	Fields fields.FieldSet
	Clock  clock.Clock
	// SettleDelay between apply and the resulting push (default 50ms).
	SettleDelay time.Duration
	// ResizeDebounce and ResizeThreshold tune the resize negotiator.
	ResizeDebounce  time.Duration
	ResizeThreshold float64
	Publisher       EventPublisher
	Logger          zerolog.Logger
}

// Attachment describes the rendering surface a session binds to.
type Attachment struct {
	SurfaceID string
	Medium    surface.Medium
	// Asset is released on detach.
	Asset io.Closer
	// Geometry is the container observed by the resize negotiator.
	Geometry resize.Geometry
}

type Session struct {
	mu        sync.Mutex
	id        string
	store     *slots.Store
	fields    fields.FieldSet
	bridge    *bridge
	engine    *surface.Engine
	resizer   *resize.Negotiator
	clock     clock.Clock
	cfg       Config
	publisher EventPublisher
	log       zerolog.Logger
	attached  bool
	detached  bool
}

// NewSession returns a detached session holding one default slot whose values
// are loaded into the live fields.
func NewSession(cfg Config) *Session {
	if cfg.Fields == nil {
		cfg.Fields = fields.NewMemoryFields()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real{}
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	if cfg.Publisher == nil {
		cfg.Publisher = noopPublisher{}
	}
	s := &Session{
		id:        surface.NewID(),
		store:     slots.New(),
		fields:    cfg.Fields,
		clock:     cfg.Clock,
		cfg:       cfg,
		publisher: cfg.Publisher,
	}
	s.log = cfg.Logger.With().Str("panel", s.id).Logger()
	s.bridge = &bridge{
		fields: cfg.Fields,
		clock:  cfg.Clock,
		delay:  cfg.SettleDelay,
		lock:   &s.mu,
		settle: s.pushLocked,
	}
	s.mu.Lock()
	s.bridge.apply(s.store.ActiveRecord())
	s.mu.Unlock()
	metrics.SetSlots(s.store.Len())
	return s
}

// ID returns the session's listener id on the message channel.
func (s *Session) ID() string { return s.id }

// OnAttach binds the session to a rendering surface: it registers the message
// listener and starts observing geometry. A session attaches at most once.
func (s *Session) OnAttach(a Attachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return errDetached
	}
	if s.attached {
		return errAlreadyAttached
	}
	eng, err := surface.NewEngine(surface.Config{
		HostID:    s.id,
		SurfaceID: a.SurfaceID,
		Medium:    a.Medium,
		Asset:     a.Asset,
		Logger:    s.log,
	}, engineHost{s})
	if err != nil {
		return err
	}
	s.engine = eng
	s.resizer = resize.New(resize.Config{
		Clock:     s.clock,
		Debounce:  s.cfg.ResizeDebounce,
		Threshold: s.cfg.ResizeThreshold,
		Geometry:  a.Geometry,
		Send:      s.sendResize,
	})
	s.attached = true
	eng.Listen(s.receive)
	s.publisher.Publish(Event{Name: EventAttach, Slot: s.store.Active(), Fields: map[string]any{"surface": a.SurfaceID}})
	s.log.Info().Str("surface", a.SurfaceID).Msg("panel attached")
	return nil
}

// OnDetach cancels timers, deregisters the listener and releases the surface
// asset. Repeated calls are no-ops.
func (s *Session) OnDetach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return
	}
	s.detached = true
	s.bridge.cancel()
	if s.resizer != nil {
		s.resizer.Stop()
	}
	if s.engine != nil {
		s.engine.Close()
	}
	s.publisher.Publish(Event{Name: EventDetach, Slot: s.store.Active()})
	s.log.Info().Msg("panel detached")
}

// receive is the channel listener; it runs on the channel's delivery goroutine.
func (s *Session) receive(env channel.Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return
	}
	in, err := s.engine.Receive(env)
	if err != nil {
		return
	}
	if in.Type == surface.TypeReady {
		s.publisher.Publish(Event{Name: EventSurfaceReady, Slot: s.store.Active()})
	}
}

// Ready reports whether the surface handshake completed.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine != nil && s.engine.Ready()
}

// SurfaceStatus reports handshake and buffering state.
func (s *Session) SurfaceStatus() types.SurfaceStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return types.SurfaceStatus{}
	}
	return types.SurfaceStatus{Ready: s.engine.Ready(), PendingImage: s.engine.HasPending()}
}

// SendImage delivers a rendered image to the surface, buffering it until the
// handshake when needed.
func (s *Session) SendImage(data string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return errDetached
	}
	if s.engine == nil {
		return errNotAttached
	}
	if !s.engine.SendImage(data) {
		s.publisher.Publish(Event{Name: EventImageBuffered, Slot: s.store.Active()})
	}
	return nil
}

// ObserveGeometry feeds a container size change to the resize negotiator and
// reports whether it passed the noise filter.
func (s *Session) ObserveGeometry(size resize.Size) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resizer == nil || s.detached {
		return false
	}
	return s.resizer.Observe(size)
}

func (s *Session) sendResize(size resize.Size) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return
	}
	s.engine.Resize(size.Width, size.Height)
}

// pushLocked sends the full live state when the surface is ready.
func (s *Session) pushLocked() {
	if s.engine == nil {
		return
	}
	s.engine.Push()
}

// liveStateLocked reads the live fields, falling back to the active slot for
// absent fields and to cinematic mode on when that flag is absent.
func (s *Session) liveStateLocked() surface.State {
	rec := s.bridge.capture(s.store.ActiveRecord())
	cinematic, ok := fields.Bool(s.fields, fields.CinematicMode)
	if !ok {
		cinematic = true
	}
	return surface.State{
		Azimuth:       rec.Azimuth,
		Elevation:     rec.Elevation,
		Intensity:     rec.Intensity,
		ColorHex:      rec.ColorHex,
		CinematicMode: cinematic,
	}
}

// engineHost adapts a Session for the surface engine. The engine is only
// called with the session lock held, so these methods do not lock.
type engineHost struct{ s *Session }

func (h engineHost) LiveState() surface.State { return h.s.liveStateLocked() }

func (h engineHost) ApplyAngles(u surface.AngleUpdate) {
	h.s.fields.Set(fields.Azimuth, u.Azimuth)
	h.s.fields.Set(fields.Elevation, u.Elevation)
	h.s.fields.Set(fields.Intensity, u.Intensity)
}
