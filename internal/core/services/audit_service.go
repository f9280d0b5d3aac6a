package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openbooks-app/openbooks/internal/apperrors"
	"github.com/openbooks-app/openbooks/internal/core/domain"
	portsrepo "github.com/openbooks-app/openbooks/internal/core/ports/repositories"
	portssvc "github.com/openbooks-app/openbooks/internal/core/ports/services"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 1000
)

// auditService runs the read-only ledger integrity sweep. It recomputes the
// balance law and the line-shape rule from the stored rows and reports any
// drift. The sweep never repairs anything and never fails because of what it
// finds; a dirty ledger is a finding, not an error.
type auditService struct {
	BaseService
	auditor portsrepo.LedgerAuditor
	orgRepo portsrepo.OrganizationReader
}

// AuditServiceOption is a functional option for configuring the audit service
type AuditServiceOption func(*auditService)

// WithAuditAuthorizer adds the authorization gate dependency
func WithAuditAuthorizer(authorizer portssvc.AuthorizerSvc) AuditServiceOption {
	return func(s *auditService) {
		s.Authorizer = authorizer
	}
}

// NewAuditService creates the integrity auditor.
func NewAuditService(auditor portsrepo.LedgerAuditor, orgRepo portsrepo.OrganizationReader, options ...AuditServiceOption) portssvc.AuditSvcFacade {
	svc := &auditService{
		auditor: auditor,
		orgRepo: orgRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// RunIntegrityAudit sweeps the organization's ledger and returns the report.
// The only error cases are a missing organization and a failing read.
func (s *auditService) RunIntegrityAudit(ctx context.Context, organizationID string, identity domain.Identity, limit int) (*domain.IntegrityReport, error) {
	if err := s.Authorize(ctx, identity, domain.OpRunAudit); err != nil {
		return nil, err
	}

	if _, err := s.orgRepo.FindOrganizationByID(ctx, organizationID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("organization %s not found", organizationID))
		}
		return nil, fmt.Errorf("failed to load organization: %w", err)
	}

	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	headerIssues, err := s.auditor.FindUnbalancedHeaders(ctx, organizationID, limit)
	if err != nil {
		s.LogError(ctx, err, "Integrity sweep failed reading headers",
			slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("integrity sweep failed: %w", err)
	}

	lineIssues, err := s.auditor.FindMalformedLines(ctx, organizationID, limit)
	if err != nil {
		s.LogError(ctx, err, "Integrity sweep failed reading lines",
			slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("integrity sweep failed: %w", err)
	}

	report := &domain.IntegrityReport{OK: len(headerIssues) == 0 && len(lineIssues) == 0}
	report.Totals.HeaderIssues = len(headerIssues)
	report.Totals.LineIssues = len(lineIssues)
	report.Issues.Headers = headerIssues
	report.Issues.Lines = lineIssues

	if report.OK {
		s.LogInfo(ctx, "Integrity audit clean",
			slog.String("organization_id", organizationID))
	} else {
		// One error-level line per dirty sweep so operators get paged once,
		// not once per issue.
		s.GetLogger(ctx).Error("Integrity audit found drift",
			slog.String("organization_id", organizationID),
			slog.Int("header_issues", report.Totals.HeaderIssues),
			slog.Int("line_issues", report.Totals.LineIssues))
	}

	return report, nil
}
