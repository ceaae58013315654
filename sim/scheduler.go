package sim

import "time"

// Edge identifies the clock domain an edge belongs to.
type Edge uint8

const (
	// EdgeWrite is a rising edge of the write domain clock.
	EdgeWrite Edge = iota
	// EdgeRead is a rising edge of the read domain clock.
	EdgeRead
)

func (e Edge) String() string {
	switch e {
	case EdgeWrite:
		return "write"
	case EdgeRead:
		return "read"
	default:
		return "unknown"
	}
}

// Scheduler merges the write and read clocks into a deterministic,
// time-ordered edge stream.
type Scheduler struct {
	wclk *Clock
	rclk *Clock

	now time.Duration
}

// NewScheduler returns a scheduler over the given write and read clocks.
func NewScheduler(wclk, rclk *Clock) *Scheduler {
	return &Scheduler{
		wclk: wclk,
		rclk: rclk,
	}
}

// Now returns the current simulated time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Peek returns the time of the earliest pending clock edge without firing
// it.
func (s *Scheduler) Peek() time.Duration {
	return min(s.wclk.NextEdge(), s.rclk.NextEdge())
}

// Next advances simulated time to the earliest pending clock edge and
// returns the edges firing at that instant. The returned slice is freshly
// allocated and stays valid across later calls.
//
// Simultaneous edges are reported write first. The order cannot affect
// correctness: cross-domain sampling reads a whole Gray word atomically, so
// a tie yields either the old or the new pointer, exactly as a marginal
// sampling instant would in hardware.
func (s *Scheduler) Next() (time.Duration, []Edge) {
	wNext := s.wclk.NextEdge()
	rNext := s.rclk.NextEdge()

	edges := make([]Edge, 0, 2)

	switch {
	case wNext < rNext:
		s.now = wNext
		s.wclk.fire()
		edges = append(edges, EdgeWrite)

	case rNext < wNext:
		s.now = rNext
		s.rclk.fire()
		edges = append(edges, EdgeRead)

	default:
		s.now = wNext
		s.wclk.fire()
		s.rclk.fire()
		edges = append(edges, EdgeWrite, EdgeRead)
	}

	return s.now, edges
}
