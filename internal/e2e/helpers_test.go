package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"lightd/internal/channel"
	"lightd/internal/httpapi"
	"lightd/internal/panel"
	"lightd/internal/surface"
	"lightd/pkg/types"
)

// rig is a session on a real bus with a headless surface, served over HTTP.
type rig struct {
	srv  *httptest.Server
	sess *panel.Session
	peer *surface.Peer
	pub  *panel.MemoryPublisher
}

// newRig attaches the peer but leaves its handshake to the caller.
func newRig(t *testing.T) *rig {
	t.Helper()
	log := zerolog.Nop()
	bus := channel.NewBus(log)
	t.Cleanup(bus.Close)

	pub := panel.NewMemoryPublisher()
	sess := panel.NewSession(panel.Config{
		SettleDelay:    5 * time.Millisecond,
		ResizeDebounce: 10 * time.Millisecond,
		Publisher:      pub,
		Logger:         log,
	})
	peer := surface.NewPeer("", bus, log)
	if err := sess.OnAttach(panel.Attachment{SurfaceID: peer.ID(), Medium: bus, Asset: peer}); err != nil {
		t.Fatalf("attach: %v", err)
	}
	t.Cleanup(sess.OnDetach)

	srv := httptest.NewServer(httpapi.NewMux(sess))
	t.Cleanup(srv.Close)
	return &rig{srv: srv, sess: sess, peer: peer, pub: pub}
}

func newReadyRig(t *testing.T) *rig {
	t.Helper()
	r := newRig(t)
	r.peer.Start()
	waitUntil(t, "surface initialized", func() bool { return r.sess.Ready() && r.peer.View().Initialized })
	return r
}

func waitUntil(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func httpDo(t *testing.T, method, url, contentType string, body []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, b
}

func getFields(t *testing.T, base string) map[string]any {
	t.Helper()
	resp, body := httpDo(t, http.MethodGet, base+"/fields", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/fields %d %s", resp.StatusCode, string(body))
	}
	var fr types.FieldsResponse
	if err := json.Unmarshal(body, &fr); err != nil {
		t.Fatalf("fields json: %v", err)
	}
	return fr.Fields
}

func pngBody(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("png: %v", err)
	}
	return buf.Bytes()
}
