package trace

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/FerroO2000/valico/internal/config"
	"github.com/FerroO2000/valico/internal/rb"
	"github.com/FerroO2000/valico/internal/telemetry"
)

//////////////
//  CONFIG  //
//////////////

// Default values for the collector configuration.
const (
	DefaultCollectorConfigBufferSize = 4096
)

// CollectorConfig contains the configuration for the trace collector.
type CollectorConfig struct {
	// BufferSize is the capacity of the sample ring buffer.
	// It is rounded up to a power of two.
	//
	// Default: 4096
	BufferSize int
}

// NewCollectorConfig returns the default collector configuration.
func NewCollectorConfig() *CollectorConfig {
	return &CollectorConfig{
		BufferSize: DefaultCollectorConfigBufferSize,
	}
}

// Validate checks the configuration.
func (c *CollectorConfig) Validate(ac *config.AnomalyCollector) {
	config.CheckNotNegative(ac, "BufferSize", &c.BufferSize, DefaultCollectorConfigBufferSize)
	config.CheckNotZero(ac, "BufferSize", &c.BufferSize, DefaultCollectorConfigBufferSize)
}

////////////////
//  RECORDER  //
////////////////

// Recorder persists trace samples to some destination.
type Recorder interface {
	// Init initializes the recorder.
	Init(ctx context.Context) error
	// Record persists one sample. Samples arrive in capture order.
	Record(ctx context.Context, sample *Sample) error
	// Close closes (forever) the recorder.
	Close()
}

///////////////
//  METRICS  //
///////////////

type collectorMetrics struct {
	once sync.Once

	recordedSamples atomic.Int64
	droppedSamples  atomic.Int64
	deliveryErrors  atomic.Int64
}

var collectorMetricsInst = &collectorMetrics{}

func (cm *collectorMetrics) init(tel *telemetry.Telemetry) {
	cm.once.Do(func() {
		tel.NewCounter("recorded_samples", func() int64 { return cm.recordedSamples.Load() })
		tel.NewCounter("dropped_samples", func() int64 { return cm.droppedSamples.Load() })
		tel.NewCounter("delivery_errors", func() int64 { return cm.deliveryErrors.Load() })
	})
}

/////////////////
//  COLLECTOR  //
/////////////////

// Collector fans trace samples out to the configured recorders.
//
// Push never blocks: samples go through a spsc ring buffer and are drained
// by a single goroutine, preserving capture order. When the ring is full
// the sample is dropped and counted; tracing must never slow the simulation
// down.
type Collector struct {
	tel *telemetry.Telemetry

	ring *rb.RingBuffer[*Sample]

	recorders []Recorder

	drainWg *sync.WaitGroup

	metrics *collectorMetrics
}

// NewCollector returns a new collector draining into the given recorders.
func NewCollector(cfg *CollectorConfig, recorders ...Recorder) *Collector {
	tel := telemetry.NewTelemetry("trace", "collector")

	validator := config.NewValidator(tel)
	validator.Validate(cfg)

	c := &Collector{
		tel: tel,

		ring: rb.NewRingBuffer[*Sample](uint64(cfg.BufferSize)),

		recorders: recorders,

		drainWg: &sync.WaitGroup{},

		metrics: collectorMetricsInst,
	}

	c.metrics.init(tel)

	return c
}

// Init initializes the recorders and starts the drain goroutine.
func (c *Collector) Init(ctx context.Context) error {
	c.tel.LogInfo("initializing", "recorders", len(c.recorders))

	for _, recorder := range c.recorders {
		if err := recorder.Init(ctx); err != nil {
			return err
		}
	}

	c.drainWg.Add(1)
	go c.drain(ctx)

	return nil
}

// Push hands one sample to the collector without blocking.
func (c *Collector) Push(sample *Sample) {
	if !c.ring.TryWrite(sample) {
		c.metrics.droppedSamples.Add(1)
	}
}

func (c *Collector) drain(ctx context.Context) {
	defer c.drainWg.Done()

	for {
		sample, err := c.ring.Read(ctx)
		if err != nil {
			// Check if the ring is closed, if so stop
			if errors.Is(err, rb.ErrClosed) {
				c.tel.LogInfo("sample ring is closed, stopping")
				return
			}

			if ctx.Err() != nil {
				return
			}

			continue
		}

		for _, recorder := range c.recorders {
			if err := recorder.Record(ctx, sample); err != nil {
				c.metrics.deliveryErrors.Add(1)
				c.tel.LogError("failed to record sample", err)
			}
		}

		c.metrics.recordedSamples.Add(1)
	}
}

// Close closes the collector.
// It drains the pending samples, then closes the recorders.
func (c *Collector) Close() {
	c.tel.LogInfo("closing")

	c.ring.Close()
	c.drainWg.Wait()

	for _, recorder := range c.recorders {
		recorder.Close()
	}
}
