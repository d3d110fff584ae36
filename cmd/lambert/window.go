package main

import (
	"context"
	"errors"
	"log/slog"

	"lambert/internal/config"
	"lambert/internal/graphics/glctx"
	"lambert/internal/host/desktop"
	"lambert/internal/render"
	"lambert/internal/transform"
)

func runWindow(ctx context.Context, cfg config.Config) error {
	m, err := loadMesh(cfg.Scene)
	if err != nil {
		return err
	}

	win, err := desktop.NewWindow(cfg.Window)
	if err != nil {
		return err
	}
	defer win.Close()

	gl, err := glctx.New()
	if err != nil {
		return err
	}
	slog.Info("opengl context", "version", gl.Version())

	width, height := win.FramebufferSize()
	r, err := render.New(gl, rendererOptions(cfg, m, width, height))
	if err != nil {
		return err
	}
	defer r.Dispose()

	win.OnResize(func(w, h int) {
		if err := r.Resize(w, h); err != nil {
			if errors.Is(err, transform.ErrDegenerateAspect) {
				// minimized; keep the last projection until a real size arrives
				slog.Debug("ignoring resize", "width", w, "height", h)
				return
			}
			slog.Warn("resize failed", "error", err)
		}
	})

	loop := render.NewLoop(r, win)
	win.OnEscape(loop.Stop)
	if err := loop.Start(); err != nil {
		return err
	}

	err = win.Run(ctx)
	loop.Stop()
	slog.Info("frame loop finished", "frames", loop.Frames())
	return err
}
