package app

import "time"

// FrameCounter counts frames over fixed intervals.
type FrameCounter struct {
	interval time.Duration
	start    time.Time
	frames   int
}

// NewFrameCounter creates a counter that reports once per interval.
func NewFrameCounter(interval time.Duration) *FrameCounter {
	return &FrameCounter{interval: interval}
}

// Tick records a frame at now. When at least one interval has elapsed since
// the last report it returns the frame count and resets.
func (c *FrameCounter) Tick(now time.Time) (int, bool) {
	if c.start.IsZero() {
		c.start = now
	}

	c.frames++
	if now.Sub(c.start) < c.interval {
		return 0, false
	}

	frames := c.frames
	c.frames = 0
	c.start = now
	return frames, true
}
