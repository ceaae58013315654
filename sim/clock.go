// Package sim provides the deterministic two-clock edge scheduler used to
// drive the FIFO domains.
//
// The two domains have no shared time base: each clock free-runs with its
// own period and phase. The scheduler merges their edges into a single
// time-ordered stream so a simulation can evaluate each domain exactly on
// its own edges, in lock step with simulated time.
package sim

import "time"

// Clock models a free-running simulation clock.
type Clock struct {
	period time.Duration
	phase  time.Duration

	next  time.Duration
	cycle uint64
}

// NewClock returns a clock with the given period.
// The first rising edge fires one full period after time zero.
func NewClock(period time.Duration) *Clock {
	return NewClockWithPhase(period, 0)
}

// NewClockWithPhase returns a clock whose first rising edge is shifted by
// the given phase offset.
func NewClockWithPhase(period, phase time.Duration) *Clock {
	return &Clock{
		period: period,
		phase:  phase,

		next: period + phase,
	}
}

// Period returns the clock period.
func (c *Clock) Period() time.Duration {
	return c.period
}

// NextEdge returns the simulated time of the next rising edge.
func (c *Clock) NextEdge() time.Duration {
	return c.next
}

// Cycle returns the number of rising edges fired so far.
func (c *Clock) Cycle() uint64 {
	return c.cycle
}

func (c *Clock) fire() {
	c.next += c.period
	c.cycle++
}
