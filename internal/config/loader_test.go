package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :9999\nsettle_delay_ms: 80\nresize_threshold: 2.5\ncinematic_default: false\ncors_origins: [\"http://a\", \"http://b\"]\nstate_file: /tmp/s.json\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.SettleDelayMS != 80 || cfg.ResizeThreshold != 2.5 || cfg.StateFile != "/tmp/s.json" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.CinematicDefault == nil || *cfg.CinematicDefault || cfg.Cinematic() {
		t.Fatalf("expected cinematic_default=false, got %+v", cfg.CinematicDefault)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b" {
		t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","resize_debounce_ms":30,"preview_max_dim":256,"log_format":"json"}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.ResizeDebounceMS != 30 || cfg.PreviewMaxDim != 256 || cfg.LogFormat != "json" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nmax_body_bytes=1024\ncors_enabled=true\nlog_level=\"debug\"\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || cfg.MaxBodyBytes != 1024 || !cfg.CORSEnabled || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	if cfg.Addr != DefaultAddr || cfg.LogLevel != DefaultLogLevel || cfg.LogFormat != DefaultLogFormat {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SettleDelay() != 50*time.Millisecond || cfg.ResizeDebounce() != 50*time.Millisecond {
		t.Fatalf("unexpected durations: %v %v", cfg.SettleDelay(), cfg.ResizeDebounce())
	}
	if cfg.ResizeThreshold != 1 || cfg.PreviewMaxDim != DefaultPreviewMaxDim || !cfg.Cinematic() {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	kept := Config{Addr: ":1", SettleDelayMS: 5}.WithDefaults()
	if kept.Addr != ":1" || kept.SettleDelayMS != 5 {
		t.Fatalf("explicit values overwritten: %+v", kept)
	}
}
