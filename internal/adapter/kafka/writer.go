package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/soundscape-telemetry/internal/config"
	"github.com/couchcryptid/soundscape-telemetry/internal/domain"
)

// Writer produces snapshot messages to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSnapshotTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes snapshots in a single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, snaps []domain.Snapshot) error {
	if len(snaps) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(snaps))
	for i := range snaps {
		msg, err := serializeToMessage(snaps[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d snapshots to %s: %w", len(msgs), w.writer.Topic, err)
	}
	w.logger.Debug("snapshots published", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Snapshot into a Kafka message keyed by its timestamp.
func serializeToMessage(snap domain.Snapshot) (kafkago.Message, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(snap.Timestamp.UTC().Format(time.RFC3339Nano)),
		Value: data,
		Time:  snap.Timestamp,
		Headers: []kafkago.Header{
			{Key: "trend", Value: []byte(snap.Stats.Trend)},
			{Key: "produced_at", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		},
	}, nil
}
