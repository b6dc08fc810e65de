package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"flipbook/internal/state"
)

// Config holds startup defaults. Saved user preferences override the
// playback and drawing fields at runtime.
type Config struct {
	Thickness       float64       `yaml:"thickness"`
	Loop            bool          `yaml:"loop"`
	Shadows         int           `yaml:"shadows"`
	ShadowDirection int           `yaml:"shadow_direction"`
	IntervalMs      int           `yaml:"interval_ms"`
	AutosaveDelay   time.Duration `yaml:"autosave_delay"`
	ThumbnailDelay  time.Duration `yaml:"thumbnail_delay"`
	CanvasWidth     int           `yaml:"canvas_width"`
	CanvasHeight    int           `yaml:"canvas_height"`
	ThumbnailWidth  int           `yaml:"thumbnail_width"`
	ThumbnailHeight int           `yaml:"thumbnail_height"`
	EraserTolerance float64       `yaml:"eraser_tolerance"`
	SharePort       int           `yaml:"share_port"`
}

func Default() Config {
	opts := state.DefaultOptions()
	return Config{
		Thickness:       opts.Thickness,
		Loop:            opts.Loop,
		Shadows:         opts.ShadowDepth,
		ShadowDirection: opts.ShadowDirection,
		IntervalMs:      int(opts.Interval / time.Millisecond),
		AutosaveDelay:   opts.AutosaveDelay,
		ThumbnailDelay:  opts.ThumbnailDelay,
		CanvasWidth:     800,
		CanvasHeight:    600,
		ThumbnailWidth:  120,
		ThumbnailHeight: 70,
		EraserTolerance: 5,
		SharePort:       8888,
	}
}

// Load reads a YAML file over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Thickness < 0:
		return fmt.Errorf("thickness must not be negative")
	case c.Shadows < 0:
		return fmt.Errorf("shadows must not be negative")
	case c.ShadowDirection != -1 && c.ShadowDirection != 1:
		return fmt.Errorf("shadow_direction must be -1 or 1")
	case c.IntervalMs < 0:
		return fmt.Errorf("interval_ms must not be negative")
	case c.AutosaveDelay <= 0 || c.ThumbnailDelay <= 0:
		return fmt.Errorf("autosave_delay and thumbnail_delay must be positive")
	case c.CanvasWidth <= 0 || c.CanvasHeight <= 0:
		return fmt.Errorf("canvas size must be positive")
	case c.ThumbnailWidth <= 0 || c.ThumbnailHeight <= 0:
		return fmt.Errorf("thumbnail size must be positive")
	case c.SharePort <= 0 || c.SharePort > 65535:
		return fmt.Errorf("share_port out of range")
	}
	return nil
}

// Options converts the config into reel options.
func (c Config) Options() state.Options {
	return state.Options{
		Thickness:       c.Thickness,
		Loop:            c.Loop,
		ShadowDepth:     c.Shadows,
		ShadowDirection: c.ShadowDirection,
		Interval:        time.Duration(c.IntervalMs) * time.Millisecond,
		AutosaveDelay:   c.AutosaveDelay,
		ThumbnailDelay:  c.ThumbnailDelay,
	}
}
