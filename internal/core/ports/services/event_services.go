package services

import (
	"context"

	"github.com/openbooks-app/openbooks/internal/dto"
)

// EventPublisherSvc publishes domain events to the message broker. Publishing
// is best-effort and strictly after commit: a delivery failure is logged, never
// propagated to the caller whose posting already succeeded.
type EventPublisherSvc interface {
	// PublishPostingCommitted announces a committed posting.
	PublishPostingCommitted(ctx context.Context, event dto.PostingCommittedEvent) error

	// Close flushes and releases the underlying writer.
	Close() error
}
