// Package event publishes stored labels to Kafka.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ressKim-io/BullyGuard/internal/domain/entity"
	"github.com/ressKim-io/BullyGuard/internal/infrastructure/config"
)

// LabelEvent is the message value written for each stored tweet
type LabelEvent struct {
	ID       string    `json:"id"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	Label    string    `json:"label"`
	StoredAt time.Time `json:"stored_at"`
}

// messageWriter is the part of kafka.Writer the publisher uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one message per stored tweet, keyed by tweet ID so
// updates to the same row land on the same partition in order
type KafkaPublisher struct {
	writer messageWriter
	logger *zap.Logger
	now    func() time.Time
}

// NewKafkaPublisher creates an async writer for cfg.Topic
func NewKafkaPublisher(cfg *config.KafkaConfig, logger *zap.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		BatchTimeout: 50 * time.Millisecond,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to publish label events",
					zap.Int("count", len(messages)),
					zap.Error(err),
				)
			}
		},
	}
	return newKafkaPublisher(w, logger)
}

func newKafkaPublisher(w messageWriter, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, logger: logger, now: time.Now}
}

// PublishStored enqueues a LabelEvent for tweet
func (p *KafkaPublisher) PublishStored(ctx context.Context, tweet *entity.Tweet) error {
	msg, err := p.message(tweet)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish label event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) message(tweet *entity.Tweet) (kafka.Message, error) {
	value, err := json.Marshal(LabelEvent{
		ID:       tweet.ID,
		Author:   tweet.Author,
		Text:     tweet.Text,
		Label:    tweet.Label,
		StoredAt: p.now().UTC(),
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode label event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(tweet.ID),
		Value: value,
	}, nil
}

// Close flushes pending messages
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
