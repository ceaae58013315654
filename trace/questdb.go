package trace

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	qdb "github.com/questdb/go-questdb-client/v3"

	"github.com/FerroO2000/valico/internal/telemetry"
)

//////////////
//  CONFIG  //
//////////////

// QuestDBConfig contains the configuration for the QuestDB recorder.
type QuestDBConfig struct {
	// Address of the QuestDB server.
	//
	// Default: "localhost:9000"
	Address string

	// Table is the table the samples are inserted into.
	//
	// Default: "fifo_trace"
	Table string
}

// DefaultQuestDBConfig returns the default configuration for the QuestDB
// recorder.
func DefaultQuestDBConfig() *QuestDBConfig {
	return &QuestDBConfig{
		Address: "localhost:9000",
		Table:   "fifo_trace",
	}
}

///////////////
//  METRICS  //
///////////////

type questDBMetrics struct {
	once sync.Once

	insertedRows atomic.Int64
}

var questDBMetricsInst = &questDBMetrics{}

func (qm *questDBMetrics) init(tel *telemetry.Telemetry) {
	qm.once.Do(func() {
		tel.NewCounter("inserted_rows", func() int64 { return qm.insertedRows.Load() })
	})
}

////////////////
//  RECORDER  //
////////////////

var _ Recorder = (*QuestDBRecorder)(nil)

// QuestDBRecorder inserts samples into a QuestDB table, one row per clock
// edge. Row timestamps map the simulated time onto the wall-clock instant
// the recorder was initialized.
type QuestDBRecorder struct {
	tel *telemetry.Telemetry

	cfg *QuestDBConfig

	senderPool *qdb.LineSenderPool
	sender     qdb.LineSender

	start time.Time

	metrics *questDBMetrics
}

// NewQuestDBRecorder returns a new QuestDB recorder.
func NewQuestDBRecorder(cfg *QuestDBConfig) *QuestDBRecorder {
	return &QuestDBRecorder{
		tel: telemetry.NewTelemetry("trace", "questdb"),

		cfg: cfg,

		metrics: questDBMetricsInst,
	}
}

// Init creates the sender pool and acquires a sender.
func (qr *QuestDBRecorder) Init(ctx context.Context) error {
	senderPool, err := qdb.PoolFromOptions(
		qdb.WithAddress(qr.cfg.Address),
		qdb.WithHttp(),
		qdb.WithAutoFlushRows(75_000),
		qdb.WithRetryTimeout(time.Second),
	)
	if err != nil {
		return err
	}
	qr.senderPool = senderPool

	sender, err := senderPool.Sender(ctx)
	if err != nil {
		return err
	}
	qr.sender = sender

	qr.start = time.Now()

	qr.metrics.init(qr.tel)

	return nil
}

// Record inserts one sample.
func (qr *QuestDBRecorder) Record(ctx context.Context, sample *Sample) error {
	query := qr.sender.Table(qr.cfg.Table).
		Symbol("domain", sample.Domain.String()).
		Int64Column("cycle", int64(sample.Cycle)).
		BoolColumn("enable", sample.Enable).
		BoolColumn("accepted", sample.Accepted).
		Int64Column("data", int64(sample.Data)).
		BoolColumn("full", sample.Full).
		BoolColumn("empty", sample.Empty).
		Int64Column("wptr", int64(sample.WritePointer)).
		Int64Column("rptr", int64(sample.ReadPointer))

	if err := query.At(ctx, qr.start.Add(sample.Time)); err != nil {
		return err
	}

	qr.metrics.insertedRows.Add(1)

	return nil
}

// Close closes the sender and the pool.
func (qr *QuestDBRecorder) Close() {
	ctx := context.Background()

	if qr.sender != nil {
		if err := qr.sender.Close(ctx); err != nil {
			qr.tel.LogError("failed to close sender", err)
		}
	}

	if qr.senderPool != nil {
		if err := qr.senderPool.Close(ctx); err != nil {
			qr.tel.LogError("failed to close sender pool", err)
		}
	}
}
