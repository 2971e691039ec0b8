package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer the dispatcher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// MessageReader is the subset of *kafka.Reader the consumer uses.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// NewKafkaWriter creates a writer keyed by message reference.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

// NewKafkaReader creates a consumer-group reader for the notification topic.
func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

// KafkaDispatcher publishes messages for an out-of-process sender.
type KafkaDispatcher struct {
	writer MessageWriter
}

func NewKafkaDispatcher(writer MessageWriter) *KafkaDispatcher {
	return &KafkaDispatcher{writer: writer}
}

func (d *KafkaDispatcher) Send(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	err = d.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.Reference),
		Value: data,
		Time:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// Close closes the underlying writer.
func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}

// Consumer reads published messages and hands them to a local dispatcher.
type Consumer struct {
	reader MessageReader
	next   Dispatcher
	logger zerolog.Logger
	retry  time.Duration
}

func NewConsumer(reader MessageReader, next Dispatcher, logger zerolog.Logger) *Consumer {
	return &Consumer{
		reader: reader,
		next:   next,
		logger: logger.With().Str("component", "notify_consumer").Logger(),
		retry:  2 * time.Second,
	}
}

// Run consumes until ctx is cancelled. Undecodable or undeliverable messages are logged and skipped.
func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			c.logger.Error().Err(err).Msg("kafka read error")
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.retry):
			}
			continue
		}

		var msg Message
		if err := json.Unmarshal(m.Value, &msg); err != nil {
			c.logger.Error().Err(err).Int64("offset", m.Offset).Msg("notification decode error")
			continue
		}

		if err := c.next.Send(ctx, msg); err != nil {
			c.logger.Error().Err(err).Str("kind", msg.Kind).Str("reference", msg.Reference).Msg("notification delivery failed")
			continue
		}
		c.logger.Info().Str("kind", msg.Kind).Str("reference", msg.Reference).Msg("notification delivered")
	}
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
