package render

import (
	"errors"

	"lambert/internal/profiling"
)

// ErrLoopStarted is returned by Start on a loop that already left Idle.
var ErrLoopStarted = errors.New("render loop already started")

// Scheduler runs a callback once before the next repaint.
type Scheduler interface {
	Schedule(fn func())
}

// Ticker renders one frame.
type Ticker interface {
	Tick()
}

type State int

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Loop drives a Ticker from a Scheduler. Each frame ticks once and then
// schedules the next frame. All methods must be called from the goroutine
// the scheduler runs callbacks on.
type Loop struct {
	ticker Ticker
	sched  Scheduler
	state  State
	frames uint64
}

func NewLoop(t Ticker, s Scheduler) *Loop {
	return &Loop{ticker: t, sched: s}
}

// Start schedules the first frame.
func (l *Loop) Start() error {
	if l.state != Idle {
		return ErrLoopStarted
	}
	l.state = Running
	l.sched.Schedule(l.frame)
	return nil
}

// Stop ends the loop. A frame that is already scheduled still runs but
// neither ticks nor schedules a successor.
func (l *Loop) Stop() {
	l.state = Stopped
}

func (l *Loop) State() State   { return l.state }
func (l *Loop) Frames() uint64 { return l.frames }

func (l *Loop) frame() {
	if l.state != Running {
		return
	}
	profiling.ResetFrame()
	l.ticker.Tick()
	l.frames++
	if l.state == Running {
		l.sched.Schedule(l.frame)
	}
}
