package host

import (
	"context"
	"fmt"
)

// Headless presents frames as fast as callbacks arrive, with no window.
// AfterFrame, when set, runs after every frame with its 1-based number.
type Headless struct {
	FrameQueue
	AfterFrame func(frame int) error
}

func NewHeadless() *Headless {
	return &Headless{}
}

// Run presents up to frames frames and returns how many ran. It stops early
// when nothing is scheduled, when ctx is done, or when AfterFrame fails.
func (h *Headless) Run(ctx context.Context, frames int) (int, error) {
	for n := 1; n <= frames; n++ {
		if err := ctx.Err(); err != nil {
			return n - 1, err
		}
		if h.Empty() {
			return n - 1, nil
		}
		for _, fn := range h.Take() {
			fn()
		}
		if h.AfterFrame != nil {
			if err := h.AfterFrame(n); err != nil {
				return n, fmt.Errorf("frame %d: %w", n, err)
			}
		}
	}
	return frames, nil
}
