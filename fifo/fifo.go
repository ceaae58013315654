// Package fifo implements a dual-clock asynchronous FIFO synchronization
// core as a cycle-accurate simulation model.
//
// The FIFO transfers fixed-width data words between two independently
// clocked domains with no shared time base. Each domain owns a binary
// pointer with one extra lap bit; only the Gray transform of a pointer
// crosses the domain boundary, through a two-stage synchronizer owned by the
// receiving domain. Full and empty flags are derived by comparing the local
// pointer against the synchronized foreign pointer and are conservative:
// they may be stale by up to two foreign-observation edges but are never
// optimistic.
package fifo

import (
	"golang.org/x/sys/cpu"

	"github.com/FerroO2000/valico/internal/config"
	"github.com/FerroO2000/valico/internal/mem"
	"github.com/FerroO2000/valico/internal/regs"
	"github.com/FerroO2000/valico/internal/telemetry"
)

// FIFO is the asynchronous FIFO core.
//
// It only holds state; all activity happens through the two domain state
// machines, each of which must be driven from a single goroutine. The write
// and read domain state is kept on separate cache lines since the domains
// may be clocked from different goroutines.
type FIFO struct {
	cfg *Config

	array *mem.Array

	write WriteDomain

	_ cpu.CacheLinePad

	read ReadDomain
}

// New returns a new FIFO with both domains in their reset state.
// Config anomalies are corrected with fallback values and logged.
func New(cfg *Config) *FIFO {
	tel := telemetry.NewTelemetry("fifo", "core")

	validator := config.NewValidator(tel)
	validator.Validate(cfg)

	f := &FIFO{
		cfg: cfg,

		array: mem.NewArray(uint64(cfg.Depth)),
	}

	depth := uint64(cfg.Depth)
	dataMask := uint64(1)<<cfg.DataWidth - 1

	f.write.init(f.array, depth, dataMask)
	f.read.init(f.array, depth)

	// Cross-wire the synchronizers: each domain samples the Gray mirror
	// published by the opposite pointer.
	f.write.sync = regs.NewSynchronizer(f.read.ptr.Published())
	f.read.sync = regs.NewSynchronizer(f.write.ptr.Published())

	f.write.Reset()
	f.read.Reset()

	tel.LogInfo("created", "depth", cfg.Depth, "data_width", cfg.DataWidth)

	return f
}

// WriteDomain returns the write-side state machine.
func (f *FIFO) WriteDomain() *WriteDomain {
	return &f.write
}

// ReadDomain returns the read-side state machine.
func (f *FIFO) ReadDomain() *ReadDomain {
	return &f.read
}

// Depth returns the number of storage slots.
func (f *FIFO) Depth() int {
	return f.cfg.Depth
}

// DataWidth returns the width of a data word in bits.
func (f *FIFO) DataWidth() int {
	return f.cfg.DataWidth
}
