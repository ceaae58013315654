package trace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Recorder = (*stubRecorder)(nil)

type stubRecorder struct {
	mux sync.Mutex

	samples []*Sample
	closed  bool
}

func (sr *stubRecorder) Init(_ context.Context) error {
	return nil
}

func (sr *stubRecorder) Record(_ context.Context, sample *Sample) error {
	sr.mux.Lock()
	defer sr.mux.Unlock()

	sr.samples = append(sr.samples, sample)
	return nil
}

func (sr *stubRecorder) Close() {
	sr.mux.Lock()
	defer sr.mux.Unlock()

	sr.closed = true
}

func Test_CollectorOrdering(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	stub := &stubRecorder{}
	collector := NewCollector(NewCollectorConfig(), stub)

	require.NoError(collector.Init(context.Background()))

	const samples = 1024

	for i := 0; i < samples; i++ {
		collector.Push(&Sample{
			Time:  time.Duration(i) * 10 * time.Nanosecond,
			Cycle: uint64(i),
		})
	}

	collector.Close()

	assert.True(stub.closed)
	require.Len(stub.samples, samples)

	// Samples must reach the recorder in capture order.
	for i, sample := range stub.samples {
		assert.Equal(uint64(i), sample.Cycle)
	}
}

func Test_VCDRecorder(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "trace.vcd")

	recorder := NewVCDRecorder(DefaultVCDConfig(path))
	require.NoError(recorder.Init(context.Background()))

	ctx := context.Background()

	require.NoError(recorder.Record(ctx, &Sample{
		Time:     10 * time.Nanosecond,
		Domain:   DomainWrite,
		Enable:   true,
		Accepted: true,
		Data:     0xAA,
		Empty:    true,
	}))

	// Same values one edge later: only the timestamp should be emitted.
	require.NoError(recorder.Record(ctx, &Sample{
		Time:         20 * time.Nanosecond,
		Domain:       DomainWrite,
		Enable:       true,
		Accepted:     true,
		Data:         0xAA,
		Empty:        true,
		WritePointer: 1,
	}))

	recorder.Close()

	raw, err := os.ReadFile(path)
	require.NoError(err)
	content := string(raw)

	assert.Contains(content, "$timescale 1ns $end")
	assert.Contains(content, "$var wire 1 ! wen $end")
	assert.Contains(content, "$var wire 8 ' data $end")
	assert.Contains(content, "$enddefinitions $end")
	assert.Contains(content, "#10\n")
	assert.Contains(content, "#20\n")
	assert.Contains(content, "b10101010 '")
	assert.Contains(content, "1!")

	// The unchanged data vector is not re-emitted at #20.
	assert.Equal(1, strings.Count(content, "b10101010 '"))
	// The write pointer change is.
	assert.Contains(content, "b1 (")
}

func Test_DomainString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("write", DomainWrite.String())
	assert.Equal("read", DomainRead.String())
	assert.Equal("unknown", Domain(7).String())
}

func Test_DefaultConfigs(t *testing.T) {
	assert := assert.New(t)

	qdbCfg := DefaultQuestDBConfig()
	assert.Equal("localhost:9000", qdbCfg.Address)
	assert.Equal("fifo_trace", qdbCfg.Table)

	kafkaCfg := DefaultKafkaConfig()
	assert.Equal([]string{"localhost:9092"}, kafkaCfg.Brokers)
	assert.Equal("fifo-trace", kafkaCfg.Topic)
	assert.True(kafkaCfg.Async)
}
