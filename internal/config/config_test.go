package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/anchor-btc/anchor-os-sub000/internal/state"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load of a missing file returned error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	data := `
board_width: 128
board_height: 64
min_zoom: 2
max_zoom: 1
poll_seconds: 5
background: "#102030"
port: 99999
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BoardWidth != 128 || cfg.BoardHeight != 64 {
		t.Errorf("dimensions = %dx%d, want 128x64", cfg.BoardWidth, cfg.BoardHeight)
	}
	if cfg.MaxZoom < cfg.MinZoom {
		t.Errorf("zoom limits not normalized: min=%v max=%v", cfg.MinZoom, cfg.MaxZoom)
	}
	if cfg.PollInterval() != 5*time.Second {
		t.Errorf("poll interval = %v, want 5s", cfg.PollInterval())
	}
	if cfg.Port != Default().Port {
		t.Errorf("out-of-range port kept: %d", cfg.Port)
	}
	if got := cfg.BackgroundRGB(); got != (state.RGB{R: 0x10, G: 0x20, B: 0x30}) {
		t.Errorf("background = %+v, want #102030", got)
	}
}

func TestLoadRejectsMalformedYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("board_width: [not a number"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed yaml did not error")
	}
}

func TestBadBackgroundFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	if err := os.WriteFile(path, []byte(`background: "chartreuse"`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Background != Default().Background {
		t.Errorf("bad color kept: %q", cfg.Background)
	}
}
