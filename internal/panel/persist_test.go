package panel

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/assert/v2"

	"lightd/internal/fields"
	"lightd/pkg/types"
)

func intPtr(i int) *int { return &i }

func TestSerialize_CapturesLiveEditsFirst(t *testing.T) {
	h := newHarness(t)
	h.s.Add()
	h.s.SetField(fields.Azimuth, 135.0)

	doc := h.s.Serialize()
	assert.Equal(t, len(doc.Slots), 2)
	assert.Equal(t, *doc.ActiveIndex, 1)
	assert.Equal(t, doc.Slots[1].Azimuth, 135.0)
}

func TestSerializeRestore_RoundTrip(t *testing.T) {
	src := newHarness(t)
	src.s.SetField(fields.ColorHex, "#111111")
	src.s.Add()
	src.s.SetField(fields.Elevation, 80.0)
	src.s.Add()
	src.s.SetField(fields.Intensity, 1.5)
	if err := src.s.Switch(1); err != nil {
		t.Fatalf("Switch(1): %v", err)
	}
	doc := src.s.Serialize()

	dst := newHarness(t)
	if !dst.s.Restore(doc) {
		t.Fatalf("Restore reported no change")
	}
	assert.Equal(t, dst.s.Serialize(), doc)
	assert.Equal(t, dst.live(t), doc.Slots[1])
}

func TestRestore_EmptyKeepsDefault(t *testing.T) {
	h := newHarness(t)
	for _, doc := range []types.Document{{}, {Slots: []types.ParameterRecord{}, ActiveIndex: intPtr(3)}} {
		if h.s.Restore(doc) {
			t.Fatalf("Restore(%+v) should report false", doc)
		}
	}
	recs, active := h.stored()
	assert.Equal(t, recs, []types.ParameterRecord{types.DefaultRecord()})
	assert.Equal(t, active, 0)
}

func TestRestore_ClampsActiveIndex(t *testing.T) {
	recs := []types.ParameterRecord{types.DefaultRecord(), {Azimuth: 90, Elevation: 0, Intensity: 2, ColorHex: "#00FF00"}}
	cases := []struct {
		active *int
		want   int
	}{
		{nil, 0},
		{intPtr(1), 1},
		{intPtr(9), 1},
		{intPtr(-4), 0},
	}
	for _, c := range cases {
		h := newHarness(t)
		h.s.Restore(types.Document{Slots: recs, ActiveIndex: c.active})
		_, active := h.stored()
		assert.Equal(t, active, c.want)
		assert.Equal(t, h.live(t), recs[c.want])
	}
}

func TestRestore_PublishesEvent(t *testing.T) {
	h := newHarness(t)
	h.s.Restore(types.Document{Slots: []types.ParameterRecord{types.DefaultRecord()}})
	names := h.pub.Names()
	assert.Equal(t, names[len(names)-1], EventDocRestored)
}

func TestHostDocument_PreservesHostKeys(t *testing.T) {
	src := newHarness(t)
	src.s.Add()
	src.s.SetField(fields.Azimuth, 200.0)

	doc := HostDocument{"title": json.RawMessage(`"scene"`)}
	if err := src.s.OnSerialize(doc); err != nil {
		t.Fatalf("OnSerialize: %v", err)
	}
	assert.Equal(t, string(doc["title"]), `"scene"`)
	assert.Equal(t, string(doc["activeIndex"]), "1")

	b, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back HostDocument
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	dst := newHarness(t)
	if err := dst.s.OnRestore(back); err != nil {
		t.Fatalf("OnRestore: %v", err)
	}
	assert.Equal(t, dst.s.Serialize(), src.s.Serialize())
}

func TestHostDocument_FreshDocument(t *testing.T) {
	h := newHarness(t)
	if err := h.s.OnRestore(HostDocument{"title": json.RawMessage(`"x"`)}); err != nil {
		t.Fatalf("OnRestore: %v", err)
	}
	recs, _ := h.stored()
	assert.Equal(t, len(recs), 1)

	if err := h.s.OnRestore(HostDocument{"slots": json.RawMessage(`{"bad":true}`)}); err == nil {
		t.Fatalf("expected decode error for malformed slots")
	}
	if err := h.s.OnSerialize(nil); err == nil {
		t.Fatalf("expected error for nil host document")
	}
}

func TestStateFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "slots.json")
	src := newHarness(t)
	src.s.Add()
	src.s.SetField(fields.ColorHex, "#FACADE")
	if err := src.s.SaveFile(path); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	dst := newHarness(t)
	ok, err := dst.s.LoadFile(path)
	if err != nil || !ok {
		t.Fatalf("LoadFile: ok=%v err=%v", ok, err)
	}
	assert.Equal(t, dst.s.Serialize(), src.s.Serialize())
}

func TestStateFile_MissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()
	h := newHarness(t)
	ok, err := h.s.LoadFile(filepath.Join(dir, "absent.json"))
	if ok || err != nil {
		t.Fatalf("missing file: ok=%v err=%v", ok, err)
	}
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := h.s.LoadFile(bad); err == nil {
		t.Fatalf("expected decode error")
	}
	if ok, err := h.s.LoadFile(""); ok || err != nil {
		t.Fatalf("empty path: ok=%v err=%v", ok, err)
	}
}

func TestChain_OrderAndShortCircuit(t *testing.T) {
	var calls []string
	hook := func(name string, fail bool) Hooks {
		return Hooks{
			Attach: func(Attachment) error {
				calls = append(calls, name+".attach")
				if fail {
					return errors.New(name + " failed")
				}
				return nil
			},
			Serialize: func(HostDocument) error { calls = append(calls, name+".serialize"); return nil },
			Restore:   func(HostDocument) error { calls = append(calls, name+".restore"); return nil },
			Detach:    func() { calls = append(calls, name+".detach") },
		}
	}

	c := Chain{hook("host", false), hook("core", false)}
	if err := c.OnAttach(Attachment{}); err != nil {
		t.Fatalf("OnAttach: %v", err)
	}
	_ = c.OnSerialize(HostDocument{})
	_ = c.OnRestore(HostDocument{})
	c.OnDetach()
	assert.Equal(t, calls, []string{
		"host.attach", "core.attach",
		"host.serialize", "core.serialize",
		"host.restore", "core.restore",
		"core.detach", "host.detach",
	})

	calls = nil
	c = Chain{hook("host", true), hook("core", false)}
	if err := c.OnAttach(Attachment{}); err == nil {
		t.Fatalf("expected attach error")
	}
	assert.Equal(t, calls, []string{"host.attach"})
}

func TestChain_WithSession(t *testing.T) {
	h := newHarness(t)
	var hostDetached bool
	c := Chain{Hooks{Detach: func() { hostDetached = true }}, h.s}
	if err := c.OnAttach(Attachment{SurfaceID: testSurfaceID, Medium: h.medium, Asset: h.asset}); err != nil {
		t.Fatalf("OnAttach: %v", err)
	}
	doc := HostDocument{}
	if err := c.OnSerialize(doc); err != nil {
		t.Fatalf("OnSerialize: %v", err)
	}
	if _, ok := doc["slots"]; !ok {
		t.Fatalf("expected slots key in host document")
	}
	c.OnDetach()
	c.OnDetach()
	assert.Equal(t, hostDetached, true)
	assert.Equal(t, h.asset.count(), 1)
}
