package trace

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sugawarayuuta/sonnet"

	"github.com/FerroO2000/valico/internal/telemetry"
)

//////////////
//  CONFIG  //
//////////////

// KafkaConfig contains the configuration for the Kafka recorder.
type KafkaConfig struct {
	// A list of Kafka brokers to connect to.
	//
	// Default: localhost:9092
	Brokers []string

	// Topic the samples are published to.
	//
	// Default: "fifo-trace"
	Topic string

	// The balancer used to distribute messages across partitions.
	//
	// Default: RoundRobin.
	Balancer kafka.Balancer

	// Limit on how many messages will be buffered before being sent to a
	// partition.
	//
	// Default: 100
	BatchSize int

	// Time limit on how often incomplete message batches will be flushed.
	//
	// Default: 1s
	BatchTimeout time.Duration

	// Setting this flag to true causes WriteMessages to never block.
	//
	// Default: true
	Async bool

	// AllowAutoTopicCreation notifies the writer to create the topic if
	// missing.
	//
	// Default: true
	AllowAutoTopicCreation bool
}

// DefaultKafkaConfig returns the default configuration for the Kafka
// recorder.
func DefaultKafkaConfig() *KafkaConfig {
	return &KafkaConfig{
		Brokers:                []string{"localhost:9092"},
		Topic:                  "fifo-trace",
		Balancer:               &kafka.RoundRobin{},
		BatchSize:              100,
		BatchTimeout:           time.Second,
		Async:                  true,
		AllowAutoTopicCreation: true,
	}
}

///////////////
//  PAYLOAD  //
///////////////

type kafkaSample struct {
	TimeNs   int64  `json:"time_ns"`
	Domain   string `json:"domain"`
	Cycle    uint64 `json:"cycle"`
	Enable   bool   `json:"enable"`
	Accepted bool   `json:"accepted"`
	Data     uint64 `json:"data"`
	Full     bool   `json:"full"`
	Empty    bool   `json:"empty"`
	WPtr     uint64 `json:"wptr"`
	RPtr     uint64 `json:"rptr"`
}

///////////////
//  METRICS  //
///////////////

type kafkaMetrics struct {
	once sync.Once

	publishedSamples atomic.Int64
}

var kafkaMetricsInst = &kafkaMetrics{}

func (km *kafkaMetrics) init(tel *telemetry.Telemetry) {
	km.once.Do(func() {
		tel.NewCounter("published_samples", func() int64 { return km.publishedSamples.Load() })
	})
}

////////////////
//  RECORDER  //
////////////////

var _ Recorder = (*KafkaRecorder)(nil)

// KafkaRecorder publishes samples to a Kafka topic as JSON messages, keyed
// by clock domain.
type KafkaRecorder struct {
	tel *telemetry.Telemetry

	cfg *KafkaConfig

	writer *kafka.Writer

	metrics *kafkaMetrics
}

// NewKafkaRecorder returns a new Kafka recorder.
func NewKafkaRecorder(cfg *KafkaConfig) *KafkaRecorder {
	return &KafkaRecorder{
		tel: telemetry.NewTelemetry("trace", "kafka"),

		cfg: cfg,

		metrics: kafkaMetricsInst,
	}
}

// Init creates the Kafka writer.
func (kr *KafkaRecorder) Init(_ context.Context) error {
	kr.writer = &kafka.Writer{
		Addr:                   kafka.TCP(kr.cfg.Brokers...),
		Topic:                  kr.cfg.Topic,
		Balancer:               kr.cfg.Balancer,
		BatchSize:              kr.cfg.BatchSize,
		BatchTimeout:           kr.cfg.BatchTimeout,
		Async:                  kr.cfg.Async,
		AllowAutoTopicCreation: kr.cfg.AllowAutoTopicCreation,
	}

	kr.metrics.init(kr.tel)

	return nil
}

// Record publishes one sample.
func (kr *KafkaRecorder) Record(ctx context.Context, sample *Sample) error {
	payload, err := sonnet.Marshal(kafkaSample{
		TimeNs:   sample.Time.Nanoseconds(),
		Domain:   sample.Domain.String(),
		Cycle:    sample.Cycle,
		Enable:   sample.Enable,
		Accepted: sample.Accepted,
		Data:     sample.Data,
		Full:     sample.Full,
		Empty:    sample.Empty,
		WPtr:     sample.WritePointer,
		RPtr:     sample.ReadPointer,
	})
	if err != nil {
		return err
	}

	err = kr.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(sample.Domain.String()),
		Value: payload,
	})
	if err != nil {
		return err
	}

	kr.metrics.publishedSamples.Add(1)

	return nil
}

// Close closes the writer.
func (kr *KafkaRecorder) Close() {
	if kr.writer == nil {
		return
	}

	if err := kr.writer.Close(); err != nil {
		kr.tel.LogError("failed to close writer", err)
	}
}
