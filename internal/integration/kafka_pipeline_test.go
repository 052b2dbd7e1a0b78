//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/soundscape-telemetry/internal/adapter/kafka"
	"github.com/couchcryptid/soundscape-telemetry/internal/config"
	"github.com/couchcryptid/soundscape-telemetry/internal/domain"
	"github.com/couchcryptid/soundscape-telemetry/internal/observability"
	"github.com/couchcryptid/soundscape-telemetry/internal/pipeline"
	"github.com/couchcryptid/soundscape-telemetry/internal/telemetry"
)

const testSnapshotTopic = "test-noise-snapshots"

// publishedSnapshot holds a deserialized message read from the snapshot topic.
type publishedSnapshot struct {
	Snapshot domain.Snapshot
	Key      string
	Headers  map[string]string
}

func readSnapshot(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedSnapshot {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from snapshot topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(msg.Value, &snap), "unmarshal snapshot message")

	return publishedSnapshot{Snapshot: snap, Key: string(msg.Key), Headers: headers}
}

func newConsumer(t *testing.T, broker string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSnapshotTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

// TestWriterLoadBatch verifies that kafka.Writer publishes a snapshot with its
// timestamp key and headers.
func TestWriterLoadBatch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSnapshotTopic)

	cfg := &config.Config{KafkaBrokers: []string{broker}, KafkaSnapshotTopic: testSnapshotTopic}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	snap := domain.NewSeedSnapshot(domain.NewEntropy(7), time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	require.NoError(t, writer.LoadBatch(ctx, []domain.Snapshot{snap}))

	got := readSnapshot(ctx, t, newConsumer(t, broker))
	assert.Equal(t, "2026-03-14T09:00:00Z", got.Key)
	assert.Equal(t, string(snap.Stats.Trend), got.Headers["trend"])
	_, err := time.Parse(time.RFC3339, got.Headers["produced_at"])
	assert.NoError(t, err, "produced_at should be valid RFC3339")
	assert.Len(t, got.Snapshot.Areas, 8)
	assert.NoError(t, got.Snapshot.Validate())
}

// TestLoopToKafka wires the telemetry loop through the pipeline into Kafka and
// verifies that every tick arrives in order and within range.
func TestLoopToKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSnapshotTopic)

	cfg := &config.Config{KafkaBrokers: []string{broker}, KafkaSnapshotTopic: testSnapshotTopic}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(writer, discardLogger(), metrics, 32, 8)

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	seed := domain.NewSeedSnapshot(domain.NewEntropy(11), clock.Now())
	loop := telemetry.New(seed, domain.NewEntropy(11), clock, time.Second, discardLogger(), metrics)
	loop.OnUpdate(p.Listen)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	const ticks = 10
	for range ticks {
		clock.Advance(time.Second)
		_, err := loop.Refresh()
		require.NoError(t, err)
	}

	consumer := newConsumer(t, broker)
	var prev time.Time
	for i := range ticks {
		got := readSnapshot(ctx, t, consumer)
		assert.NoError(t, got.Snapshot.Validate(), "snapshot %d", i)
		assert.False(t, got.Snapshot.Timestamp.Before(prev), "snapshot %d out of order", i)
		assert.Equal(t, got.Snapshot.Timestamp.UTC().Format(time.RFC3339Nano), got.Key)
		prev = got.Snapshot.Timestamp
	}

	pipelineCancel()
	require.NoError(t, <-errCh)
}
