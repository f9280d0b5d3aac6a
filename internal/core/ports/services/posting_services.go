package services

import (
	"context"

	"github.com/openbooks-app/openbooks/internal/core/domain"
	"github.com/openbooks-app/openbooks/internal/dto"
)

// PostingReaderSvc defines read operations for posted ledger data
type PostingReaderSvc interface {
	// GetPosting retrieves a header with its lines.
	GetPosting(ctx context.Context, organizationID string, identity domain.Identity, headerID string) (*domain.GLHeader, error)

	// ListPostings retrieves a paginated list of headers for an organization.
	ListPostings(ctx context.Context, organizationID string, identity domain.Identity, params dto.ListPostingsParams) (*dto.ListPostingsResponse, error)
}

// PostingWriterSvc is the posting engine: it turns candidate line drafts into
// a committed, balanced header+line set, or rejects them before any write.
type PostingWriterSvc interface {
	// CreatePosting validates the drafts (line shape, balance law), clears the
	// authorization gate and the idempotency mediator, and commits the posting
	// atomically. With an idempotency token, replays return the original
	// response and status code verbatim.
	CreatePosting(ctx context.Context, organizationID string, identity domain.Identity, req dto.CreatePostingRequest) (*dto.PostingResult, error)

	// ReversePosting creates a new, separately balanced header netting the
	// original posting's effect. The original header is never mutated.
	ReversePosting(ctx context.Context, organizationID string, identity domain.Identity, headerID string) (*dto.PostingResponse, error)
}

// PostingSvcFacade combines all posting-related service interfaces.
type PostingSvcFacade interface {
	PostingReaderSvc
	PostingWriterSvc
}
