package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	portssvc "github.com/openbooks-app/openbooks/internal/core/ports/services"
	"github.com/openbooks-app/openbooks/internal/dto"
)

// Publisher emits posting lifecycle events to a Kafka topic. Messages are
// keyed by organization ID so all events of one tenant land on the same
// partition and stay ordered.
type Publisher struct {
	writer *kafka.Writer
}

// Ensure Publisher implements portssvc.EventPublisherSvc
var _ portssvc.EventPublisherSvc = (*Publisher)(nil)

// NewPublisher creates a Kafka-backed event publisher.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// PublishPostingCommitted emits one event for a committed posting.
func (p *Publisher) PublishPostingCommitted(ctx context.Context, event dto.PostingCommittedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal posting event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrganizationID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to publish posting event for header %s: %w", event.HeaderID, err)
	}
	return nil
}

// Close flushes pending messages and releases the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
