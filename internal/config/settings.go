package config

import "sync"

// RenderSettings holds values the host may change while frames are running.
type RenderSettings struct {
	mu       sync.RWMutex
	fpsLimit int // 0 means unlimited
	vsync    bool
}

var globalRenderSettings = &RenderSettings{
	fpsLimit: 120,
	vsync:    true,
}

// GetFPSLimit returns the frame cap, 0 for unlimited
func GetFPSLimit() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fpsLimit
}

// SetFPSLimit sets the frame cap
func SetFPSLimit(limit int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	// Clamp to reasonable values
	if limit < 0 {
		limit = 0
	}
	if limit > 1000 {
		limit = 1000
	}

	globalRenderSettings.fpsLimit = limit
}

// GetVSync returns whether buffer swaps wait for the display refresh
func GetVSync() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.vsync
}

// SetVSync sets whether buffer swaps wait for the display refresh
func SetVSync(enabled bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.vsync = enabled
}

// Apply copies the runtime-adjustable fields of c into the global settings.
func (c Config) Apply() {
	SetFPSLimit(c.Window.FPSLimit)
	SetVSync(c.Window.VSync)
}
