// Package valico provides a cycle-accurate simulation of a dual-clock
// asynchronous FIFO and the testbench machinery to drive it.
//
// The FIFO core lives in the fifo package; this package plays the role of
// the enclosing system: it asserts the write/read enables on the clock
// edges produced by the sim scheduler, samples the outputs, and optionally
// records every edge through the trace package.
package valico

import (
	"context"
	"time"

	"github.com/FerroO2000/valico/fifo"
	"github.com/FerroO2000/valico/internal/telemetry"
	"github.com/FerroO2000/valico/sim"
	"github.com/FerroO2000/valico/trace"
)

// Producer drives the write domain of the FIFO.
type Producer interface {
	// Drive is called on every write clock edge with the current full
	// flag. It returns the word to write and whether the write enable is
	// asserted. A word returned with the enable asserted while full is
	// false is guaranteed to be committed on that edge.
	Drive(full bool) (word uint64, valid bool)
}

// Consumer drains the read domain of the FIFO.
type Consumer interface {
	// Ready is called on every read clock edge with the current empty
	// flag. It returns whether the read enable is asserted.
	Ready(empty bool) bool
	// Capture receives every word dequeued by an accepted read.
	Capture(word uint64)
}

// Testbench binds a producer and a consumer to the two FIFO domains over
// independent clocks.
type Testbench struct {
	tel *telemetry.Telemetry

	fifo *fifo.FIFO

	wclk  *sim.Clock
	rclk  *sim.Clock
	sched *sim.Scheduler

	producer Producer
	consumer Consumer

	collector *trace.Collector
}

// NewTestbench returns a new testbench driving the given FIFO with the
// given write and read clocks.
func NewTestbench(f *fifo.FIFO, wclk, rclk *sim.Clock) *Testbench {
	return &Testbench{
		tel: telemetry.NewTelemetry("testbench", "main"),

		fifo: f,

		wclk:  wclk,
		rclk:  rclk,
		sched: sim.NewScheduler(wclk, rclk),
	}
}

// SetProducer sets the producer driving the write domain.
func (tb *Testbench) SetProducer(producer Producer) {
	tb.producer = producer
}

// SetConsumer sets the consumer draining the read domain.
func (tb *Testbench) SetConsumer(consumer Consumer) {
	tb.consumer = consumer
}

// SetCollector sets the trace collector receiving one sample per edge.
func (tb *Testbench) SetCollector(collector *trace.Collector) {
	tb.collector = collector
}

// Now returns the current simulated time.
func (tb *Testbench) Now() time.Duration {
	return tb.sched.Now()
}

// Run simulates until the given deadline of simulated time or until the
// context is cancelled. It may be called repeatedly to extend a run.
func (tb *Testbench) Run(ctx context.Context, until time.Duration) {
	tb.tel.LogInfo("running",
		"until", until,
		"write_period", tb.wclk.Period(), "read_period", tb.rclk.Period())

	for tb.sched.Peek() <= until {
		select {
		case <-ctx.Done():
			return
		default:
		}

		at, edges := tb.sched.Next()

		for _, edge := range edges {
			switch edge {
			case sim.EdgeWrite:
				tb.writeEdge(at)
			case sim.EdgeRead:
				tb.readEdge(at)
			}
		}
	}
}

func (tb *Testbench) writeEdge(at time.Duration) {
	w := tb.fifo.WriteDomain()

	var word uint64
	var valid bool
	if tb.producer != nil {
		word, valid = tb.producer.Drive(w.Full())
	}

	accepted := w.Tick(valid, word)

	tb.record(at, trace.DomainWrite, w.Cycle(), valid, accepted, word)
}

func (tb *Testbench) readEdge(at time.Duration) {
	r := tb.fifo.ReadDomain()

	ready := false
	if tb.consumer != nil {
		ready = tb.consumer.Ready(r.Empty())
	}

	word, accepted := r.Tick(ready)
	if accepted {
		tb.consumer.Capture(word)
	}

	tb.record(at, trace.DomainRead, r.Cycle(), ready, accepted, word)
}

func (tb *Testbench) record(at time.Duration, domain trace.Domain, cycle uint64, enable, accepted bool, word uint64) {
	if tb.collector == nil {
		return
	}

	tb.collector.Push(&trace.Sample{
		Time:     at,
		Domain:   domain,
		Cycle:    cycle,
		Enable:   enable,
		Accepted: accepted,
		Data:     word,

		Full:  tb.fifo.WriteDomain().Full(),
		Empty: tb.fifo.ReadDomain().Empty(),

		WritePointer: tb.fifo.WriteDomain().Pointer(),
		ReadPointer:  tb.fifo.ReadDomain().Pointer(),
	})
}
