package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/books4all/internal/logger"
	"github.com/sbilibin2017/books4all/internal/models"
	"github.com/segmentio/kafka-go"
)

//go:generate mockgen -source=events.go -destination=events_mock.go -package=services

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// EventPublisher publishes domain events for downstream consumers (mailer, analytics).
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, userID uuid.UUID, data map[string]string)
}

// EventDeferrer runs send now or holds it until the caller's transaction commits.
type EventDeferrer func(ctx context.Context, send func(ctx context.Context))

// KafkaEventPublisher writes events to Kafka. Publishing is best effort: failures are logged
// and never fail the operation that produced the event.
type KafkaEventPublisher struct {
	writer   KafkaWriter
	deferrer EventDeferrer
}

// EventPublisherOption configures a KafkaEventPublisher.
type EventPublisherOption func(*KafkaEventPublisher)

// WithEventDeferrer delays writes until the surrounding transaction commits.
func WithEventDeferrer(d EventDeferrer) EventPublisherOption {
	return func(p *KafkaEventPublisher) {
		p.deferrer = d
	}
}

// NewKafkaEventPublisher creates a publisher. A nil writer disables publishing.
func NewKafkaEventPublisher(writer KafkaWriter, opts ...EventPublisherOption) *KafkaEventPublisher {
	p := &KafkaEventPublisher{writer: writer}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish sends one event keyed by the user id, so events of a user stay ordered.
func (p *KafkaEventPublisher) Publish(ctx context.Context, eventType string, userID uuid.UUID, data map[string]string) {
	evt := models.Event{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().Unix(),
		Type:      eventType,
		UserID:    userID.String(),
		Data:      data,
	}

	if p == nil || p.writer == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "event_id", evt.EventID, "type", evt.Type)
		return
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		logger.Log.Errorw("Failed to marshal event for Kafka", "event_id", evt.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(evt.UserID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(evt.Type)},
		},
	}

	send := func(ctx context.Context) {
		if err := p.writer.WriteMessages(ctx, msg); err != nil {
			logger.Log.Errorw("Failed to publish event to Kafka", "event_id", evt.EventID, "type", evt.Type, "error", err)
		} else {
			logger.Log.Infow("Event published to Kafka", "event_id", evt.EventID, "type", evt.Type)
		}
	}
	if p.deferrer != nil {
		p.deferrer(ctx, send)
		return
	}
	send(ctx)
}
