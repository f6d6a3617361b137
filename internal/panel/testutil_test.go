package panel

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"lightd/internal/channel"
	"lightd/internal/clock"
	"lightd/internal/fields"
	"lightd/internal/resize"
	"lightd/internal/surface"
	"lightd/pkg/types"
)

const testSurfaceID = "surface-under-test"

// syncMedium delivers nothing on its own: tests hand inbound envelopes to the
// subscribed handler with deliver and inspect outbound posts.
type syncMedium struct {
	mu    sync.Mutex
	subs  map[string]channel.Handler
	posts []channel.Envelope
}

func newSyncMedium() *syncMedium { return &syncMedium{subs: map[string]channel.Handler{}} }

func (m *syncMedium) Subscribe(id string, h channel.Handler) func() {
	m.mu.Lock()
	m.subs[id] = h
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *syncMedium) Post(env channel.Envelope) {
	m.mu.Lock()
	m.posts = append(m.posts, env)
	m.mu.Unlock()
}

func (m *syncMedium) subscribed(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.subs[id]
	return ok
}

func (m *syncMedium) deliver(t *testing.T, env channel.Envelope) {
	t.Helper()
	m.mu.Lock()
	h, ok := m.subs[env.Target]
	m.mu.Unlock()
	if !ok {
		t.Fatalf("no subscriber for %q", env.Target)
	}
	h(env)
}

func (m *syncMedium) outbound(t *testing.T) []surface.Outbound {
	t.Helper()
	m.mu.Lock()
	posts := append([]channel.Envelope(nil), m.posts...)
	m.mu.Unlock()
	out := make([]surface.Outbound, 0, len(posts))
	for _, p := range posts {
		if p.Target != testSurfaceID {
			t.Fatalf("post targeted %q, want %q", p.Target, testSurfaceID)
		}
		msg, err := surface.DecodeOutbound(p.Data)
		if err != nil {
			t.Fatalf("decode outbound: %v", err)
		}
		out = append(out, msg)
	}
	return out
}

func (m *syncMedium) types(t *testing.T) []string {
	t.Helper()
	var out []string
	for _, msg := range m.outbound(t) {
		out = append(out, msg.Type)
	}
	return out
}

func (m *syncMedium) count(t *testing.T, typ string) int {
	t.Helper()
	n := 0
	for _, got := range m.types(t) {
		if got == typ {
			n++
		}
	}
	return n
}

func (m *syncMedium) reset() {
	m.mu.Lock()
	m.posts = nil
	m.mu.Unlock()
}

type closeCounter struct {
	mu sync.Mutex
	n  int
}

func (c *closeCounter) Close() error {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
	return nil
}

func (c *closeCounter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

type harness struct {
	s      *Session
	clk    *clock.Manual
	medium *syncMedium
	pub    *MemoryPublisher
	fields *fields.MemoryFields
	asset  *closeCounter
	geom   resize.Size
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		clk:    clock.NewManual(),
		medium: newSyncMedium(),
		pub:    NewMemoryPublisher(),
		fields: fields.NewMemoryFields(),
		asset:  &closeCounter{},
	}
	h.s = NewSession(Config{
		Fields:    h.fields,
		Clock:     h.clk,
		Publisher: h.pub,
		Logger:    zerolog.Nop(),
	})
	return h
}

func newAttachedHarness(t *testing.T) *harness {
	t.Helper()
	h := newHarness(t)
	err := h.s.OnAttach(Attachment{
		SurfaceID: testSurfaceID,
		Medium:    h.medium,
		Asset:     h.asset,
		Geometry:  resize.GeometryFunc(func() resize.Size { return h.geom }),
	})
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	return h
}

// ready completes the handshake and clears the recorded posts.
func (h *harness) ready(t *testing.T) {
	t.Helper()
	h.fromSurface(t, mustEncode(t, surface.EncodeReady))
	if !h.s.Ready() {
		t.Fatalf("expected ready after READY")
	}
	h.medium.reset()
}

func (h *harness) fromSurface(t *testing.T, data []byte) {
	t.Helper()
	h.medium.deliver(t, channel.Envelope{Origin: testSurfaceID, Target: h.s.ID(), Data: data})
}

func mustEncode(t *testing.T, enc func() ([]byte, error)) []byte {
	t.Helper()
	b, err := enc()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return b
}

// live reads the lighting fields back as a record.
func (h *harness) live(t *testing.T) types.ParameterRecord {
	t.Helper()
	var rec types.ParameterRecord
	var ok bool
	if rec.Azimuth, ok = fields.Float(h.fields, fields.Azimuth); !ok {
		t.Fatalf("azimuth not readable")
	}
	if rec.Elevation, ok = fields.Float(h.fields, fields.Elevation); !ok {
		t.Fatalf("elevation not readable")
	}
	if rec.Intensity, ok = fields.Float(h.fields, fields.Intensity); !ok {
		t.Fatalf("intensity not readable")
	}
	if rec.ColorHex, ok = fields.String(h.fields, fields.ColorHex); !ok {
		t.Fatalf("colorHex not readable")
	}
	return rec
}

// stored returns the store contents without folding in live edits.
func (h *harness) stored() ([]types.ParameterRecord, int) {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	return h.s.store.Records(), h.s.store.Active()
}

func testLogger() zerolog.Logger { return zerolog.Nop() }

// waitUntil polls cond for deliveries made on the bus goroutines.
func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}
