package services

import (
	"context"

	"github.com/openbooks-app/openbooks/internal/core/domain"
)

// AuditSvcFacade runs the read-only ledger integrity sweep. Finding drift is
// reported, never raised: the only error cases are a missing organization or
// a failing read.
type AuditSvcFacade interface {
	RunIntegrityAudit(ctx context.Context, organizationID string, identity domain.Identity, limit int) (*domain.IntegrityReport, error)
}
