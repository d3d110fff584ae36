package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration. Zero fields in the file keep their defaults.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Scene    SceneConfig    `yaml:"scene"`
	Headless HeadlessConfig `yaml:"headless"`
	LogLevel string         `yaml:"log_level"`
}

type WindowConfig struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Title    string `yaml:"title"`
	FPSLimit int    `yaml:"fps_limit"`
	VSync    bool   `yaml:"vsync"`
}

type SceneConfig struct {
	// Mesh is a built-in name ("cube", "diamond") or a .gltf/.glb path.
	Mesh            string     `yaml:"mesh"`
	GenerateNormals bool       `yaml:"generate_normals"`
	ClearColor      [4]float32 `yaml:"clear_color"`
	// RotationStep is the per-frame rotation about X and Y, in radians.
	RotationStep [2]float32 `yaml:"rotation_step"`
}

type HeadlessConfig struct {
	Frames int    `yaml:"frames"`
	Out    string `yaml:"out"`
	// Every writes a snapshot each N frames; 0 writes only the last frame.
	Every int `yaml:"every"`
}

// Default returns the demo configuration: a grey-cleared 900x600 window
// spinning the cube by 0.01 rad about X and Y each frame.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:    900,
			Height:   600,
			Title:    "lambert",
			FPSLimit: 120,
			VSync:    true,
		},
		Scene: SceneConfig{
			Mesh:            "cube",
			GenerateNormals: true,
			ClearColor:      [4]float32{0.5, 0.5, 0.5, 1},
			RotationStep:    [2]float32{0.01, 0.01},
		},
		Headless: HeadlessConfig{
			Frames: 120,
			Out:    "frames",
			Every:  0,
		},
		LogLevel: "info",
	}
}

// Load overlays the YAML file at path on the defaults. An empty path or a
// missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("config file not found, using defaults", "path", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	slog.Info("loaded config", "path", path, "mesh", cfg.Scene.Mesh)
	return cfg, nil
}

// Validate rejects values the renderer cannot start with.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.FPSLimit < 0 {
		return fmt.Errorf("fps_limit must not be negative, got %d", c.Window.FPSLimit)
	}
	if c.Scene.Mesh == "" {
		return errors.New("scene.mesh must not be empty")
	}
	for i, v := range c.Scene.ClearColor {
		if v < 0 || v > 1 {
			return fmt.Errorf("clear_color[%d] = %v is outside [0,1]", i, v)
		}
	}
	if c.Headless.Frames < 0 || c.Headless.Every < 0 {
		return fmt.Errorf("headless frames and every must not be negative")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a log_level string onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
