package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"lambert/internal/config"
	"lambert/internal/mesh"
	"lambert/internal/render"
)

type options struct {
	configPath string
	headless   bool
	cfg        config.Config
}

// parseFlags loads the config file named by -config and then applies any
// flag the user set explicitly on top of it.
func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("lambert", flag.ContinueOnError)
	var (
		opts      options
		meshName  = fs.String("mesh", "", "built-in mesh ("+fmt.Sprint(mesh.Builtins())+") or .gltf/.glb path")
		width     = fs.Int("width", 0, "window or image width in pixels")
		height    = fs.Int("height", 0, "window or image height in pixels")
		fps       = fs.Int("fps", -1, "frame cap, 0 for unlimited")
		vsync     = fs.Bool("vsync", true, "wait for display refresh on swap")
		frames    = fs.Int("frames", 0, "headless: number of frames to render")
		out       = fs.String("out", "", "headless: snapshot directory")
		every     = fs.Int("every", -1, "headless: write a snapshot every N frames, 0 for last frame only")
		logLevel  = fs.String("log-level", "", "debug, info, warn or error")
		noNormals = fs.Bool("no-normals", false, "do not derive normals for meshes without them")
	)
	fs.StringVar(&opts.configPath, "config", "", "YAML config file")
	fs.BoolVar(&opts.headless, "headless", false, "render with the software backend and write PNG snapshots")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return opts, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mesh":
			cfg.Scene.Mesh = *meshName
		case "width":
			cfg.Window.Width = *width
		case "height":
			cfg.Window.Height = *height
		case "fps":
			cfg.Window.FPSLimit = *fps
		case "vsync":
			cfg.Window.VSync = *vsync
		case "frames":
			cfg.Headless.Frames = *frames
		case "out":
			cfg.Headless.Out = *out
		case "every":
			cfg.Headless.Every = *every
		case "log-level":
			cfg.LogLevel = *logLevel
		case "no-normals":
			cfg.Scene.GenerateNormals = !*noNormals
		}
	})

	if err := cfg.Validate(); err != nil {
		return opts, err
	}
	opts.cfg = cfg
	return opts, nil
}

func setupLogging(level string) {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

// loadMesh resolves the configured mesh and derives normals when asked.
func loadMesh(scene config.SceneConfig) (mesh.Mesh, error) {
	m, err := mesh.Load(scene.Mesh)
	if err != nil {
		return mesh.Mesh{}, err
	}
	if scene.GenerateNormals && !m.HasNormals() {
		m = mesh.WithNormals(m)
		slog.Debug("derived vertex normals", "mesh", m.Name)
	}
	return m, nil
}

func rendererOptions(cfg config.Config, m mesh.Mesh, width, height int) render.Options {
	return render.Options{
		Mesh:       m,
		Width:      width,
		Height:     height,
		ClearColor: mgl32.Vec4(cfg.Scene.ClearColor),
		StepX:      cfg.Scene.RotationStep[0],
		StepY:      cfg.Scene.RotationStep[1],
	}
}
