package host

// FrameQueue holds callbacks scheduled for upcoming frames. Callbacks
// scheduled while a frame runs are deferred to the next frame.
type FrameQueue struct {
	pending []func()
}

// Schedule queues fn to run before the next presented frame.
func (q *FrameQueue) Schedule(fn func()) {
	q.pending = append(q.pending, fn)
}

// Take removes and returns the callbacks due this frame.
func (q *FrameQueue) Take() []func() {
	due := q.pending
	q.pending = nil
	return due
}

// Empty reports whether no callback is waiting.
func (q *FrameQueue) Empty() bool { return len(q.pending) == 0 }
