package trace

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/FerroO2000/valico/internal/telemetry"
)

//////////////
//  CONFIG  //
//////////////

// Default values for the VCD recorder configuration.
const (
	DefaultVCDConfigBufferSize    = 4096
	DefaultVCDConfigFlushDeadline = time.Second
	DefaultVCDConfigDataWidth     = 8
	DefaultVCDConfigPointerWidth  = 5
)

// VCDConfig contains the configuration for the VCD file recorder.
type VCDConfig struct {
	// Path is the path to the output file.
	Path string

	// DataWidth is the declared width of the data vectors in bits.
	//
	// Default: 8
	DataWidth int

	// PointerWidth is the declared width of the pointer vectors in bits.
	// It is log2(depth)+1 of the traced FIFO.
	//
	// Default: 5
	PointerWidth int

	// BufferSize is the size of the buffer used to write to the file.
	//
	// Default: 4096
	BufferSize int

	// FlushDeadline is the maximum time to wait before flushing the buffer.
	//
	// Default: 1s
	FlushDeadline time.Duration
}

// DefaultVCDConfig returns the default configuration for the VCD recorder.
func DefaultVCDConfig(path string) *VCDConfig {
	return &VCDConfig{
		Path:          path,
		DataWidth:     DefaultVCDConfigDataWidth,
		PointerWidth:  DefaultVCDConfigPointerWidth,
		BufferSize:    DefaultVCDConfigBufferSize,
		FlushDeadline: DefaultVCDConfigFlushDeadline,
	}
}

///////////////
//  SIGNALS  //
///////////////

type vcdSignal struct {
	id    byte
	name  string
	width int

	value func(sample *Sample) uint64
}

func boolToUint64(val bool) uint64 {
	if val {
		return 1
	}
	return 0
}

func vcdSignals(dataWidth, pointerWidth int) []vcdSignal {
	return []vcdSignal{
		{'!', "wen", 1, func(s *Sample) uint64 { return boolToUint64(s.Domain == DomainWrite && s.Enable) }},
		{'"', "wacc", 1, func(s *Sample) uint64 { return boolToUint64(s.Domain == DomainWrite && s.Accepted) }},
		{'#', "wfull", 1, func(s *Sample) uint64 { return boolToUint64(s.Full) }},
		{'$', "ren", 1, func(s *Sample) uint64 { return boolToUint64(s.Domain == DomainRead && s.Enable) }},
		{'%', "racc", 1, func(s *Sample) uint64 { return boolToUint64(s.Domain == DomainRead && s.Accepted) }},
		{'&', "rempty", 1, func(s *Sample) uint64 { return boolToUint64(s.Empty) }},
		{'\'', "data", dataWidth, func(s *Sample) uint64 { return s.Data }},
		{'(', "wptr", pointerWidth, func(s *Sample) uint64 { return s.WritePointer }},
		{')', "rptr", pointerWidth, func(s *Sample) uint64 { return s.ReadPointer }},
	}
}

///////////////
//  METRICS  //
///////////////

type vcdMetrics struct {
	once sync.Once

	writtenChanges atomic.Int64
	flushErrors    atomic.Int64
}

var vcdMetricsInst = &vcdMetrics{}

func (vm *vcdMetrics) init(tel *telemetry.Telemetry) {
	vm.once.Do(func() {
		tel.NewCounter("written_changes", func() int64 { return vm.writtenChanges.Load() })
		tel.NewCounter("flush_errors", func() int64 { return vm.flushErrors.Load() })
	})
}

////////////////
//  RECORDER  //
////////////////

var _ Recorder = (*VCDRecorder)(nil)

// VCDRecorder writes samples to a Value Change Dump file.
//
// Signals are emitted change-only, as the format requires; timestamps are
// the simulated time in nanoseconds.
type VCDRecorder struct {
	tel *telemetry.Telemetry

	cfg *VCDConfig

	file   *os.File
	writer *bufio.Writer

	flushMux *sync.Mutex

	ticker   *time.Ticker
	tickerWg *sync.WaitGroup
	stop     chan struct{}

	signals []vcdSignal
	last    map[byte]uint64

	lastTime time.Duration
	started  bool

	metrics *vcdMetrics
}

// NewVCDRecorder returns a new VCD file recorder.
func NewVCDRecorder(cfg *VCDConfig) *VCDRecorder {
	return &VCDRecorder{
		tel: telemetry.NewTelemetry("trace", "vcd"),

		cfg: cfg,

		flushMux: &sync.Mutex{},
		tickerWg: &sync.WaitGroup{},
		stop:     make(chan struct{}),

		signals: vcdSignals(cfg.DataWidth, cfg.PointerWidth),
		last:    map[byte]uint64{},

		metrics: vcdMetricsInst,
	}
}

// Init opens the output file and writes the VCD header.
func (vr *VCDRecorder) Init(ctx context.Context) error {
	file, err := os.OpenFile(vr.cfg.Path, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	vr.file = file

	vr.writer = bufio.NewWriterSize(file, vr.cfg.BufferSize)

	vr.metrics.init(vr.tel)

	if err := vr.writeHeader(); err != nil {
		return err
	}

	// Create the flush ticker
	vr.ticker = time.NewTicker(vr.cfg.FlushDeadline)
	vr.tickerWg.Add(1)
	go vr.runTicker(ctx)

	return nil
}

func (vr *VCDRecorder) writeHeader() error {
	fmt.Fprintln(vr.writer, "$timescale 1ns $end")
	fmt.Fprintln(vr.writer, "$scope module fifo $end")

	for _, signal := range vr.signals {
		fmt.Fprintf(vr.writer, "$var wire %d %c %s $end\n", signal.width, signal.id, signal.name)
	}

	fmt.Fprintln(vr.writer, "$upscope $end")
	_, err := fmt.Fprintln(vr.writer, "$enddefinitions $end")

	return err
}

func (vr *VCDRecorder) runTicker(ctx context.Context) {
	defer vr.tickerWg.Done()

	defer vr.ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-vr.stop:
			return

		case <-vr.ticker.C:
			if err := vr.flush(); err != nil {
				vr.tel.LogError("periodic flush failed", err, "path", vr.cfg.Path)
			}
		}
	}
}

// Record emits the value changes of one sample.
func (vr *VCDRecorder) Record(_ context.Context, sample *Sample) error {
	vr.flushMux.Lock()
	defer vr.flushMux.Unlock()

	// The first sample dumps every signal; later ones only the changes.
	if !vr.started || sample.Time != vr.lastTime {
		fmt.Fprintf(vr.writer, "#%d\n", sample.Time.Nanoseconds())
		vr.lastTime = sample.Time
	}

	for _, signal := range vr.signals {
		value := signal.value(sample)

		last, seen := vr.last[signal.id]
		if vr.started && seen && last == value {
			continue
		}
		vr.last[signal.id] = value

		if err := vr.writeChange(signal, value); err != nil {
			return err
		}

		vr.metrics.writtenChanges.Add(1)
	}

	vr.started = true

	return nil
}

func (vr *VCDRecorder) writeChange(signal vcdSignal, value uint64) error {
	var err error

	if signal.width == 1 {
		_, err = fmt.Fprintf(vr.writer, "%d%c\n", value, signal.id)
	} else {
		_, err = fmt.Fprintf(vr.writer, "b%s %c\n", strconv.FormatUint(value, 2), signal.id)
	}

	return err
}

func (vr *VCDRecorder) flush() error {
	vr.flushMux.Lock()
	defer vr.flushMux.Unlock()

	if err := vr.writer.Flush(); err != nil {
		vr.metrics.flushErrors.Add(1)
		return err
	}

	return nil
}

// Close flushes and closes the output file.
func (vr *VCDRecorder) Close() {
	close(vr.stop)
	vr.tickerWg.Wait()

	if err := vr.flush(); err != nil {
		vr.tel.LogError("failed to flush writer", err, "path", vr.cfg.Path)
	}

	if err := vr.file.Sync(); err != nil {
		vr.tel.LogError("failed to sync file", err, "path", vr.cfg.Path)
	}

	if err := vr.file.Close(); err != nil {
		vr.tel.LogError("failed to close file", err, "path", vr.cfg.Path)
	}
}
