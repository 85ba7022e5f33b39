package timer

import "time"

// countdown tracks interval progress in whole sleep-chunk ticks. It is not
// linked to physical time; the owner decides when a tick has elapsed. Keeping
// the arithmetic here lets timer state be exercised without sleeping.
// Not safe for concurrent use — the RepeatingTimer guards it with its mutex.
type countdown struct {
	remaining int
	full      int
}

func makeCountdown(interval, chunk time.Duration) countdown {
	c := countdown{}
	c.rearm(interval, chunk)
	return c
}

// tick consumes one chunk of progress. It reports whether the countdown
// expired, in which case it has already rearmed to a full interval, so one
// expiry yields exactly one firing.
func (c *countdown) tick() bool {
	c.remaining--
	if c.remaining <= 0 {
		c.reset()
		return true
	}
	return false
}

// reset restores a full interval's worth of ticks.
func (c *countdown) reset() {
	c.remaining = c.full
}

// rearm recomputes the tick budget for a new interval or chunk and resets.
func (c *countdown) rearm(interval, chunk time.Duration) {
	c.full = int(interval / chunk)
	if c.full < 1 {
		c.full = 1
	}
	c.reset()
}

// left returns the remaining countdown as a duration.
func (c *countdown) left(chunk time.Duration) time.Duration {
	return time.Duration(c.remaining) * chunk
}

// onSecondBoundary reports whether the remaining countdown sits exactly on a
// whole-second boundary. Used to throttle tick logging to once per second.
func (c *countdown) onSecondBoundary(chunk time.Duration) bool {
	return c.left(chunk)%time.Second == 0
}
