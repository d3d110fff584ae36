package desktop

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"lambert/internal/config"
	"lambert/internal/host"
	"lambert/internal/profiling"
)

// Window is a glfw window with a current OpenGL 4.1 core context. It runs
// scheduled callbacks once per presented frame. glfw requires every method
// to be called from the main thread.
type Window struct {
	host.FrameQueue
	win     *glfw.Window
	limiter *host.FPSLimiter
	vsync   bool

	onResize func(width, height int)
	onEscape func()
}

// NewWindow initializes glfw and opens a window of the configured size.
func NewWindow(cfg config.WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, err
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	win.MakeContextCurrent()

	w := &Window{win: win, limiter: host.NewFPSLimiter()}
	w.applyVSync()

	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})
	win.SetKeyCallback(func(gw *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key != glfw.KeyEscape || action != glfw.Press {
			return
		}
		if w.onEscape != nil {
			w.onEscape()
			return
		}
		gw.SetShouldClose(true)
	})

	return w, nil
}

func (w *Window) applyVSync() {
	w.vsync = config.GetVSync()
	if w.vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
}

// FramebufferSize returns the drawable size in pixels, which differs from
// the window size on high-DPI displays.
func (w *Window) FramebufferSize() (int, int) {
	return w.win.GetFramebufferSize()
}

// OnResize registers the framebuffer resize handler.
func (w *Window) OnResize(fn func(width, height int)) { w.onResize = fn }

// OnEscape replaces the default Escape behaviour of closing the window.
func (w *Window) OnEscape(fn func()) { w.onEscape = fn }

// Run presents frames until the window is closed, ctx is done, or no
// callback is scheduled for the next frame.
func (w *Window) Run(ctx context.Context) error {
	frames := 0
	lastFPSCheck := time.Now()

	for !w.win.ShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if w.Empty() {
			slog.Debug("nothing scheduled, leaving frame loop")
			return nil
		}

		if w.vsync != config.GetVSync() {
			w.applyVSync()
		}
		w.limiter.Wait()

		for _, fn := range w.Take() {
			fn()
		}

		func() { defer profiling.Track("host.SwapBuffers")(); w.win.SwapBuffers() }()
		func() { defer profiling.Track("host.PollEvents")(); glfw.PollEvents() }()
		frames++

		if time.Since(lastFPSCheck) >= time.Second {
			slog.Info("frame stats",
				"fps", frames,
				"render", profiling.SumWithPrefix("render."),
				"top", profiling.TopN(3))
			frames = 0
			lastFPSCheck = time.Now()
		}
	}
	return nil
}

// Close destroys the window and terminates glfw.
func (w *Window) Close() {
	w.win.Destroy()
	glfw.Terminate()
}
