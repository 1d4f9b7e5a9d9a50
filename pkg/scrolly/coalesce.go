package scrolly

import (
	"sync"
	"time"
)

// FrameInterval is one display frame.
const FrameInterval = 16 * time.Millisecond

// Scheduler runs fire once after d. Hosts with their own event loop supply
// one that posts back into that loop.
type Scheduler func(d time.Duration, fire func())

// TimerScheduler schedules on a runtime timer.
func TimerScheduler(d time.Duration, fire func()) {
	time.AfterFunc(d, fire)
}

// Coalescer collapses bursts of requests into a single trailing call. At
// most one call is pending at a time; requests made while one is pending are
// absorbed by it.
type Coalescer struct {
	mu       sync.Mutex
	pending  bool
	frame    time.Duration
	schedule Scheduler
	fn       func()
}

// NewCoalescer returns a coalescer running fn at most once per frame.
func NewCoalescer(frame time.Duration, schedule Scheduler, fn func()) *Coalescer {
	if frame <= 0 {
		frame = FrameInterval
	}
	if schedule == nil {
		schedule = TimerScheduler
	}
	return &Coalescer{frame: frame, schedule: schedule, fn: fn}
}

// Request asks for a computation. It reports whether a new one was
// scheduled.
func (c *Coalescer) Request() bool {
	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return false
	}
	c.pending = true
	c.mu.Unlock()

	c.schedule(c.frame, c.flush)
	return true
}

// Pending reports whether a computation is scheduled.
func (c *Coalescer) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

func (c *Coalescer) flush() {
	c.mu.Lock()
	c.pending = false
	c.mu.Unlock()
	c.fn()
}
