package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_ClockEdges(t *testing.T) {
	assert := assert.New(t)

	clk := NewClock(10 * time.Nanosecond)

	assert.Equal(10*time.Nanosecond, clk.NextEdge())
	assert.Equal(uint64(0), clk.Cycle())

	clk.fire()
	assert.Equal(20*time.Nanosecond, clk.NextEdge())
	assert.Equal(uint64(1), clk.Cycle())
}

func Test_ClockPhase(t *testing.T) {
	assert := assert.New(t)

	clk := NewClockWithPhase(10*time.Nanosecond, 3*time.Nanosecond)
	assert.Equal(13*time.Nanosecond, clk.NextEdge())
}

func Test_SchedulerOrdering(t *testing.T) {
	assert := assert.New(t)

	// 5ns write clock against a 20ns read clock: four write edges per read
	// edge, with a tie at every multiple of 20ns.
	wclk := NewClock(5 * time.Nanosecond)
	rclk := NewClock(20 * time.Nanosecond)
	sched := NewScheduler(wclk, rclk)

	type step struct {
		at    time.Duration
		edges []Edge
	}

	expected := []step{
		{5 * time.Nanosecond, []Edge{EdgeWrite}},
		{10 * time.Nanosecond, []Edge{EdgeWrite}},
		{15 * time.Nanosecond, []Edge{EdgeWrite}},
		{20 * time.Nanosecond, []Edge{EdgeWrite, EdgeRead}},
		{25 * time.Nanosecond, []Edge{EdgeWrite}},
	}

	for _, exp := range expected {
		assert.Equal(exp.at, sched.Peek())

		at, edges := sched.Next()
		assert.Equal(exp.at, at)
		assert.Equal(exp.edges, edges)
	}

	assert.Equal(25*time.Nanosecond, sched.Now())
}

func Test_SchedulerUnrelatedPeriods(t *testing.T) {
	assert := assert.New(t)

	wclk := NewClock(10 * time.Nanosecond)
	rclk := NewClock(15 * time.Nanosecond)
	sched := NewScheduler(wclk, rclk)

	// Over 60ns: write edges at 10,20,30,40,50,60; read at 15,30,45,60.
	wEdges, rEdges := 0, 0
	for sched.Now() < 60*time.Nanosecond {
		_, edges := sched.Next()
		for _, edge := range edges {
			switch edge {
			case EdgeWrite:
				wEdges++
			case EdgeRead:
				rEdges++
			}
		}
	}

	assert.Equal(6, wEdges)
	assert.Equal(4, rEdges)
	assert.Equal(uint64(6), wclk.Cycle())
	assert.Equal(uint64(4), rclk.Cycle())
}

// Edge slices from earlier calls must survive later ones, so a caller can
// collect them.
func Test_SchedulerNextNoAliasing(t *testing.T) {
	assert := assert.New(t)

	wclk := NewClock(20 * time.Nanosecond)
	rclk := NewClock(5 * time.Nanosecond)
	sched := NewScheduler(wclk, rclk)

	collected := make([][]Edge, 0, 4)
	for i := 0; i < 4; i++ {
		_, edges := sched.Next()
		collected = append(collected, edges)
	}

	assert.Equal([][]Edge{
		{EdgeRead},
		{EdgeRead},
		{EdgeRead},
		{EdgeWrite, EdgeRead},
	}, collected)
}

func Test_SchedulerEqualClocks(t *testing.T) {
	assert := assert.New(t)

	wclk := NewClock(10 * time.Nanosecond)
	rclk := NewClock(10 * time.Nanosecond)
	sched := NewScheduler(wclk, rclk)

	at, edges := sched.Next()
	assert.Equal(10*time.Nanosecond, at)
	assert.Equal([]Edge{EdgeWrite, EdgeRead}, edges)
}
