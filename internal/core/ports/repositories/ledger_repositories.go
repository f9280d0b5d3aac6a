package repositories

import (
	"context"

	"github.com/openbooks-app/openbooks/internal/core/domain"
)

// LedgerReader defines read operations for posted ledger data
type LedgerReader interface {
	// FindHeaderByID retrieves a posting header by its unique identifier.
	FindHeaderByID(ctx context.Context, headerID string) (*domain.GLHeader, error)

	// FindLinesByHeaderID retrieves all lines of a posting ordered by line number.
	FindLinesByHeaderID(ctx context.Context, headerID string) ([]domain.GLLine, error)

	// FindReversalOf returns the reversal header for the given header, or
	// ErrNotFound when none exists.
	FindReversalOf(ctx context.Context, headerID string) (*domain.GLHeader, error)

	// ListHeadersByOrganization retrieves a paginated list of headers using
	// token-based pagination. It returns the headers, a token for the next
	// page, and an error.
	ListHeadersByOrganization(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.GLHeader, *string, error)
}

// LedgerWriter defines write operations for posted ledger data
type LedgerWriter interface {
	// SavePosting persists a header, its lines, and the optional idempotency
	// record in a single database transaction: either every row becomes
	// visible or none do. A nil idempotencyKey skips the cache write.
	SavePosting(ctx context.Context, header domain.GLHeader, lines []domain.GLLine, idempotencyKey *domain.IdempotencyKey) error
}

// LedgerAuditor defines the read-only reconciliation queries used by the
// integrity sweep. Both methods may run concurrently with postings and
// observe a transactionally-consistent snapshot.
type LedgerAuditor interface {
	// FindUnbalancedHeaders returns headers whose stored totals disagree with
	// the live sum of their lines, or whose own debit and credit totals differ.
	FindUnbalancedHeaders(ctx context.Context, organizationID string, limit int) ([]domain.HeaderIssue, error)

	// FindMalformedLines returns lines where debit and credit are both
	// positive or both zero.
	FindMalformedLines(ctx context.Context, organizationID string, limit int) ([]domain.LineIssue, error)
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
	LedgerAuditor
}
