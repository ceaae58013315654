package fifo

import (
	"sync"
	"sync/atomic"

	"github.com/FerroO2000/valico/internal/gray"
	"github.com/FerroO2000/valico/internal/mem"
	"github.com/FerroO2000/valico/internal/regs"
	"github.com/FerroO2000/valico/internal/telemetry"
)

///////////////
//  METRICS  //
///////////////

type readDomainMetrics struct {
	once sync.Once

	acceptedReads     atomic.Int64
	underflowAttempts atomic.Int64
}

var readDomainMetricsInst = &readDomainMetrics{}

func (rdm *readDomainMetrics) init(tel *telemetry.Telemetry) {
	rdm.once.Do(func() {
		tel.NewCounter("accepted_reads", func() int64 { return rdm.acceptedReads.Load() })
		tel.NewCounter("underflow_attempts", func() int64 { return rdm.underflowAttempts.Load() })
	})
}

//////////////
//  DOMAIN  //
//////////////

// ReadDomain is the read-side state machine of the FIFO.
//
// All methods must be called from the read clock domain: a single goroutine
// that represents it. Tick applies one read clock edge; the other methods
// are combinational reads of the current state.
type ReadDomain struct {
	tel *telemetry.Telemetry

	ptr  *regs.Pointer
	sync *regs.Synchronizer

	array *mem.Array

	// held is the last dequeued word, returned by rejected reads.
	held uint64

	cycle uint64

	metrics *readDomainMetrics
}

func (r *ReadDomain) init(array *mem.Array, depth uint64) {
	r.tel = telemetry.NewTelemetry("fifo", "read_domain")

	r.ptr = regs.NewPointer(depth)
	r.array = array

	r.metrics = readDomainMetricsInst
	r.metrics.init(r.tel)
}

// Data returns the word at the current read pointer.
//
// The output is combinational: it always reflects the pre-advance pointer,
// so a consumer sampling it on the same edge it asserts the read enable sees
// the word being dequeued, not the next one. Registering this output would
// change the observable timing and is deliberately not done.
//
// While the FIFO is empty the slot under the read pointer is owned by the
// write domain, so under goroutine-per-domain drive Data must only be
// sampled when Empty reports false.
func (r *ReadDomain) Data() uint64 {
	return r.array.Read(r.ptr.Index())
}

// Tick applies one read clock edge.
//
// enable requests a dequeue. The request is accepted only when the FIFO is
// not empty at this edge; the returned word is the combinational output
// sampled before the pointer advances. A read attempted while empty is a
// silent no-op: the pointer does not advance and the returned word is the
// last dequeued one, stale, not fabricated. The slot is not touched on a
// rejected read: while empty it is owned by the write domain.
func (r *ReadDomain) Tick(enable bool) (uint64, bool) {
	// Pre-edge empty flag, like the full flag on the write side.
	accepted := enable && !r.Empty()

	word := r.held
	if accepted {
		word = r.Data()
		r.held = word
	}

	r.sync.Shift()

	if accepted {
		r.ptr.Advance()

		r.metrics.acceptedReads.Add(1)
	} else if enable {
		r.metrics.underflowAttempts.Add(1)
		r.tel.LogDebug("read rejected, FIFO is empty", "cycle", r.cycle)
	}

	r.cycle++

	return word, accepted
}

// Empty reports whether there is nothing to dequeue.
//
// The local read pointer is compared against the synchronized write pointer,
// decoded back to binary: the FIFO is empty when they match exactly, index
// and lap bits both. Staleness of the synchronized pointer can only make
// Empty conservative (reporting empty while a write is still propagating),
// never optimistic.
func (r *ReadDomain) Empty() bool {
	return r.ptr.Equals(gray.Decode(r.sync.Synced()))
}

// Occupancy returns the number of words available as perceived by the read
// domain. It is a lower bound of the true fill level: writes not yet
// propagated through the synchronizer are not counted.
func (r *ReadDomain) Occupancy() uint64 {
	return r.ptr.Behind(gray.Decode(r.sync.Synced()))
}

// Pointer returns the raw binary read pointer, including the lap bit.
func (r *ReadDomain) Pointer() uint64 {
	return r.ptr.Bin()
}

// Cycle returns the number of read clock edges applied since reset.
func (r *ReadDomain) Cycle() uint64 {
	return r.cycle
}

// Reset re-initializes the read domain: the read pointer, its Gray mirror
// and the synchronizer stages receiving into this domain. Empty is asserted
// immediately after reset, regardless of the write domain's state, and the
// write domain's registers are never touched.
func (r *ReadDomain) Reset() {
	r.ptr.Reset()
	r.sync.Reset()
	r.held = 0
	r.cycle = 0

	r.tel.LogDebug("reset")
}
