package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/schollz/progressbar/v3"

	"lambert/internal/config"
	"lambert/internal/graphics/soft"
	"lambert/internal/host"
	"lambert/internal/render"
	"lambert/internal/snapshot"
)

func runHeadless(ctx context.Context, cfg config.Config) error {
	m, err := loadMesh(cfg.Scene)
	if err != nil {
		return err
	}

	width, height := cfg.Window.Width, cfg.Window.Height
	sc := soft.New(width, height)
	r, err := render.New(sc, rendererOptions(cfg, m, width, height))
	if err != nil {
		return err
	}
	defer r.Dispose()

	total := cfg.Headless.Frames
	bar := progressbar.Default(int64(total), "rendering "+m.Name)

	h := host.NewHeadless()
	h.AfterFrame = func(frame int) error {
		_ = bar.Add(1)
		every := cfg.Headless.Every
		if (every > 0 && frame%every == 0) || frame == total {
			path := snapshot.FramePath(cfg.Headless.Out, frame)
			label := fmt.Sprintf("%s  frame %d", m.Name, frame)
			if err := snapshot.WritePNG(path, sc.Image(), label); err != nil {
				return err
			}
			slog.Debug("wrote snapshot", "path", path)
		}
		return nil
	}

	loop := render.NewLoop(r, h)
	if err := loop.Start(); err != nil {
		return err
	}
	n, err := h.Run(ctx, total)
	loop.Stop()
	_ = bar.Finish()
	if err != nil {
		return err
	}

	slog.Info("headless run complete",
		"frames", n,
		"triangles_per_frame", r.Triangles(),
		"out", cfg.Headless.Out)
	return nil
}
