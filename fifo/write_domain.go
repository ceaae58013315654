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

type writeDomainMetrics struct {
	once sync.Once

	acceptedWrites   atomic.Int64
	overflowAttempts atomic.Int64
}

var writeDomainMetricsInst = &writeDomainMetrics{}

func (wdm *writeDomainMetrics) init(tel *telemetry.Telemetry) {
	wdm.once.Do(func() {
		tel.NewCounter("accepted_writes", func() int64 { return wdm.acceptedWrites.Load() })
		tel.NewCounter("overflow_attempts", func() int64 { return wdm.overflowAttempts.Load() })
	})
}

//////////////
//  DOMAIN  //
//////////////

// WriteDomain is the write-side state machine of the FIFO.
//
// All methods must be called from the write clock domain: a single goroutine
// that represents it. Tick applies one write clock edge; the other methods
// are combinational reads of the current state.
type WriteDomain struct {
	tel *telemetry.Telemetry

	ptr  *regs.Pointer
	sync *regs.Synchronizer

	array *mem.Array

	dataMask uint64

	cycle uint64

	metrics *writeDomainMetrics
}

func (w *WriteDomain) init(array *mem.Array, depth, dataMask uint64) {
	w.tel = telemetry.NewTelemetry("fifo", "write_domain")

	w.ptr = regs.NewPointer(depth)
	w.array = array
	w.dataMask = dataMask

	w.metrics = writeDomainMetricsInst
	w.metrics.init(w.tel)
}

// Tick applies one write clock edge.
//
// enable requests a write of word, truncated to the configured data width.
// The request is accepted only when the FIFO is not full at this edge. A
// write attempted while full is a silent no-op by contract: the pointer does
// not advance and no slot is touched.
func (w *WriteDomain) Tick(enable bool, word uint64) bool {
	// All registers update from pre-edge values: the full flag is evaluated
	// before the synchronizer shifts.
	accepted := enable && !w.Full()

	w.sync.Shift()

	if accepted {
		// The slot write happens before the pointer advance; the Gray
		// publication inside Advance orders it for the read domain.
		w.array.Write(w.ptr.Index(), word&w.dataMask)
		w.ptr.Advance()

		w.metrics.acceptedWrites.Add(1)
	} else if enable {
		w.metrics.overflowAttempts.Add(1)
		w.tel.LogDebug("write rejected, FIFO is full", "cycle", w.cycle)
	}

	w.cycle++

	return accepted
}

// Full reports whether the next write would overflow.
//
// The local write pointer is compared against the synchronized read pointer,
// decoded back to binary: equal index bits with differing lap bits mean the
// write pointer has lapped the read pointer by exactly one full cycle. The
// synchronized pointer may be stale, which can only make Full conservative,
// never optimistic.
func (w *WriteDomain) Full() bool {
	syncedRead := gray.Decode(w.sync.Synced())

	return w.ptr.SameIndex(syncedRead) && !w.ptr.SameLap(syncedRead)
}

// Occupancy returns the number of words in flight as perceived by the write
// domain. It is an upper bound of the true fill level: reads not yet
// propagated through the synchronizer are not subtracted.
func (w *WriteDomain) Occupancy() uint64 {
	return w.ptr.Distance(gray.Decode(w.sync.Synced()))
}

// Pointer returns the raw binary write pointer, including the lap bit.
func (w *WriteDomain) Pointer() uint64 {
	return w.ptr.Bin()
}

// Cycle returns the number of write clock edges applied since reset.
func (w *WriteDomain) Cycle() uint64 {
	return w.cycle
}

// Reset re-initializes the write domain: the write pointer, its Gray mirror
// and the synchronizer stages receiving into this domain. The read domain's
// registers are never touched; the two resets are asynchronous to each
// other.
func (w *WriteDomain) Reset() {
	w.ptr.Reset()
	w.sync.Reset()
	w.cycle = 0

	w.tel.LogDebug("reset")
}
