// Package config loads the board configuration file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/anchor-btc/anchor-os-sub000/internal/state"
)

// Config is the board's startup configuration. Board dimensions are fixed for
// the lifetime of the process; every bounds check in the engine uses them.
type Config struct {
	BoardWidth  int     `yaml:"board_width"`
	BoardHeight int     `yaml:"board_height"`
	MinZoom     float64 `yaml:"min_zoom"`
	MaxZoom     float64 `yaml:"max_zoom"`
	PollSeconds int     `yaml:"poll_seconds"`
	FillLimit   int     `yaml:"fill_limit"`
	Port        int     `yaml:"port"`
	BrushRadius int     `yaml:"brush_radius"`
	Background  string  `yaml:"background"` // hex, e.g. "#ffffff"
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		BoardWidth:  256,
		BoardHeight: 256,
		MinZoom:     0.5,
		MaxZoom:     40,
		PollSeconds: 10,
		FillLimit:   50000,
		Port:        8899,
		BrushRadius: 0,
		Background:  "#ffffff",
	}
}

// Load reads a yaml config file. A missing path (or empty path) yields the
// defaults; a malformed file is an error. Loaded values are normalized so the
// rest of the app never sees zero dimensions or inverted zoom limits.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	def := Default()
	if c.BoardWidth <= 0 {
		c.BoardWidth = def.BoardWidth
	}
	if c.BoardHeight <= 0 {
		c.BoardHeight = def.BoardHeight
	}
	if c.MinZoom <= 0 {
		c.MinZoom = def.MinZoom
	}
	if c.MaxZoom < c.MinZoom {
		c.MaxZoom = c.MinZoom
	}
	if c.PollSeconds <= 0 {
		c.PollSeconds = def.PollSeconds
	}
	if c.FillLimit <= 0 {
		c.FillLimit = def.FillLimit
	}
	if c.Port <= 0 || c.Port > 65535 {
		c.Port = def.Port
	}
	if c.BrushRadius < 0 {
		c.BrushRadius = 0
	}
	if _, err := parseHexColor(c.Background); err != nil {
		c.Background = def.Background
	}
}

// PollInterval returns the snapshot refresh period.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollSeconds) * time.Second
}

// BackgroundRGB returns the parsed background color.
func (c Config) BackgroundRGB() state.RGB {
	rgb, err := parseHexColor(c.Background)
	if err != nil {
		return state.RGB{R: 255, G: 255, B: 255}
	}
	return rgb
}

func parseHexColor(s string) (state.RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return state.RGB{}, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return state.RGB{}, fmt.Errorf("color %q: %w", s, err)
	}
	return state.RGB{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, nil
}
