package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks-app/openbooks/internal/apperrors"
	"github.com/openbooks-app/openbooks/internal/core/domain"
	portsrepo "github.com/openbooks-app/openbooks/internal/core/ports/repositories"
	portssvc "github.com/openbooks-app/openbooks/internal/core/ports/services"
	"github.com/openbooks-app/openbooks/internal/dto"
	"github.com/openbooks-app/openbooks/internal/utils/money"
)

// postingService is the single write path into the general ledger. It turns
// candidate line drafts into a committed, balanced header+line set, or rejects
// the whole batch before anything is written. Partial postings do not exist.
type postingService struct {
	BaseService
	ledgerRepo     portsrepo.LedgerRepositoryFacade
	accountSvc     portssvc.AccountReaderSvc
	idempotencySvc portssvc.IdempotencySvc
	publisher      portssvc.EventPublisherSvc
}

// PostingServiceOption is a functional option for configuring the posting service
type PostingServiceOption func(*postingService)

// WithPostingAuthorizer adds the authorization gate dependency
func WithPostingAuthorizer(authorizer portssvc.AuthorizerSvc) PostingServiceOption {
	return func(s *postingService) {
		s.Authorizer = authorizer
	}
}

// WithEventPublisher adds the post-commit event publisher dependency
func WithEventPublisher(publisher portssvc.EventPublisherSvc) PostingServiceOption {
	return func(s *postingService) {
		s.publisher = publisher
	}
}

// NewPostingService creates the posting engine.
func NewPostingService(ledgerRepo portsrepo.LedgerRepositoryFacade, accountSvc portssvc.AccountReaderSvc, idempotencySvc portssvc.IdempotencySvc, options ...PostingServiceOption) portssvc.PostingSvcFacade {
	svc := &postingService{
		ledgerRepo:     ledgerRepo,
		accountSvc:     accountSvc,
		idempotencySvc: idempotencySvc,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// validateLineShape checks the exactly-one-side rule for every draft and
// returns the rounded per-line amounts.
func (s *postingService) validateLineShape(drafts []dto.LineDraft) error {
	for i, draft := range drafts {
		lineNo := i + 1
		if err := money.AssertNonNegative(draft.Debit, fmt.Sprintf("line %d debit", lineNo)); err != nil {
			return err
		}
		if err := money.AssertNonNegative(draft.Credit, fmt.Sprintf("line %d credit", lineNo)); err != nil {
			return err
		}
		debitSet := money.IsPositive(draft.Debit)
		creditSet := money.IsPositive(draft.Credit)
		if debitSet == creditSet {
			// Both sides set, or neither: the line carries no usable amount.
			return apperrors.NewValidationError(
				fmt.Sprintf("Line %d must include either a debit or credit amount.", lineNo))
		}
		if draft.PartyType != "" && draft.PartyID == "" {
			return apperrors.NewValidationError(
				fmt.Sprintf("line %d names a party type without a party", lineNo))
		}
	}
	return nil
}

// validateAccounts loads every referenced account and checks it exists in the
// organization and is active.
func (s *postingService) validateAccounts(ctx context.Context, organizationID string, drafts []dto.LineDraft) error {
	ids := make([]string, 0, len(drafts))
	seen := make(map[string]bool, len(drafts))
	for _, d := range drafts {
		if !seen[d.AccountID] {
			seen[d.AccountID] = true
			ids = append(ids, d.AccountID)
		}
	}

	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, organizationID, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch accounts for posting validation",
			slog.String("organization_id", organizationID))
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range ids {
		acc, found := accounts[id]
		if !found {
			return apperrors.NewValidationError(fmt.Sprintf("account %s does not exist", id))
		}
		if !acc.IsActive {
			return apperrors.NewValidationError(fmt.Sprintf("account %s is inactive", acc.Code))
		}
	}
	return nil
}

// CreatePosting validates the drafts, clears the idempotency mediator, and
// commits the posting atomically.
func (s *postingService) CreatePosting(ctx context.Context, organizationID string, identity domain.Identity, req dto.CreatePostingRequest) (*dto.PostingResult, error) {
	if err := s.Authorize(ctx, identity, domain.OpCreatePosting); err != nil {
		return nil, err
	}

	if len(req.Lines) < 2 {
		return nil, apperrors.NewValidationError("a posting requires at least two lines")
	}
	if err := s.validateLineShape(req.Lines); err != nil {
		return nil, err
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, draft := range req.Lines {
		totalDebit = totalDebit.Add(money.Round2(draft.Debit))
		totalCredit = totalCredit.Add(money.Round2(draft.Credit))
	}
	totalDebit = money.Round2(totalDebit)
	totalCredit = money.Round2(totalCredit)
	if !money.Equal(totalDebit, totalCredit) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("posting does not balance: debits total %s, credits total %s",
				money.String(totalDebit), money.String(totalCredit)))
	}

	if err := s.validateAccounts(ctx, organizationID, req.Lines); err != nil {
		return nil, err
	}

	// Idempotency: resolve the scope key before doing any write.
	var scopeKey, requestHash string
	if req.IdempotencyToken != "" {
		scopeKey = s.idempotencySvc.ScopeKey(string(domain.OpCreatePosting), req.IdempotencyToken, identity.UserID)
		var err error
		requestHash, err = s.idempotencySvc.HashPayload(req)
		if err != nil {
			return nil, err
		}
		cached, err := s.idempotencySvc.Resolve(ctx, organizationID, scopeKey, requestHash)
		if err != nil {
			return nil, err
		}
		if cached != nil {
			return &dto.PostingResult{
				Raw:        cached.Response,
				StatusCode: cached.StatusCode,
				Replayed:   true,
			}, nil
		}
	}

	now := time.Now().UTC()
	headerID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     identity.UserID,
		LastUpdatedAt: now,
		LastUpdatedBy: identity.UserID,
	}

	header := domain.GLHeader{
		HeaderID:       headerID,
		OrganizationID: organizationID,
		SourceType:     req.SourceType,
		SourceID:       req.SourceID,
		PostingDate:    req.PostingDate,
		Description:    req.Description,
		TotalDebit:     totalDebit,
		TotalCredit:    totalCredit,
		AuditFields:    audit,
	}

	lines := make([]domain.GLLine, len(req.Lines))
	for i, draft := range req.Lines {
		lines[i] = domain.GLLine{
			LineID:      uuid.NewString(),
			HeaderID:    headerID,
			LineNumber:  i + 1,
			AccountID:   draft.AccountID,
			Debit:       money.Round2(draft.Debit),
			Credit:      money.Round2(draft.Credit),
			PartyType:   draft.PartyType,
			PartyID:     draft.PartyID,
			Description: draft.Description,
			AuditFields: audit,
		}
	}

	response := dto.ToPostingResponse(&header, lines)

	// Build the idempotency row so it lands in the same transaction as the
	// posting itself.
	var idemRecord *domain.IdempotencyKey
	if req.IdempotencyToken != "" {
		var err error
		idemRecord, err = s.idempotencySvc.Record(organizationID, scopeKey, requestHash, response, http.StatusCreated, identity.UserID)
		if err != nil {
			return nil, err
		}
	}

	if err := s.ledgerRepo.SavePosting(ctx, header, lines, idemRecord); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) && req.IdempotencyToken != "" {
			// Lost the race on the (organization, scope key) constraint: a
			// concurrent request with the same key committed first. Re-read
			// and replay its cached response.
			cached, resolveErr := s.idempotencySvc.Resolve(ctx, organizationID, scopeKey, requestHash)
			if resolveErr != nil {
				return nil, resolveErr
			}
			if cached != nil {
				return &dto.PostingResult{
					Raw:        cached.Response,
					StatusCode: cached.StatusCode,
					Replayed:   true,
				}, nil
			}
			return nil, apperrors.NewConflictError("concurrent request with the same idempotency key")
		}
		s.LogError(ctx, err, "Failed to save posting",
			slog.String("organization_id", organizationID),
			slog.String("source_type", string(req.SourceType)),
			slog.String("source_id", req.SourceID))
		return nil, fmt.Errorf("failed to save posting: %w", err)
	}

	s.LogInfo(ctx, "Posting committed",
		slog.String("header_id", headerID),
		slog.String("organization_id", organizationID),
		slog.String("total", money.String(totalDebit)),
		slog.Int("lines", len(lines)))

	s.publishCommitted(ctx, &header, len(lines))

	return &dto.PostingResult{
		Response:   &response,
		StatusCode: http.StatusCreated,
	}, nil
}

// ReversePosting creates a new, separately balanced header that nets the
// original posting's effect. The original is never mutated.
func (s *postingService) ReversePosting(ctx context.Context, organizationID string, identity domain.Identity, headerID string) (*dto.PostingResponse, error) {
	if err := s.Authorize(ctx, identity, domain.OpReversePosting); err != nil {
		return nil, err
	}

	original, err := s.fetchOrgHeader(ctx, organizationID, headerID)
	if err != nil {
		return nil, err
	}

	if original.ReversesHeaderID != nil {
		return nil, apperrors.NewConflictError("cannot reverse a posting that is itself a reversal")
	}

	// One reversal per header.
	if _, err := s.ledgerRepo.FindReversalOf(ctx, headerID); err == nil {
		return nil, apperrors.NewConflictError("posting has already been reversed")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check for existing reversal", slog.String("header_id", headerID))
		return nil, fmt.Errorf("failed to check for existing reversal: %w", err)
	}

	originalLines, err := s.ledgerRepo.FindLinesByHeaderID(ctx, headerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch lines for reversal", slog.String("header_id", headerID))
		return nil, fmt.Errorf("failed to fetch original lines: %w", err)
	}

	now := time.Now().UTC()
	newHeaderID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     identity.UserID,
		LastUpdatedAt: now,
		LastUpdatedBy: identity.UserID,
	}

	reversal := domain.GLHeader{
		HeaderID:         newHeaderID,
		OrganizationID:   organizationID,
		SourceType:       domain.SourceReversal,
		SourceID:         original.HeaderID,
		PostingDate:      now,
		Description:      fmt.Sprintf("Reversal of %s", original.Description),
		TotalDebit:       original.TotalCredit,
		TotalCredit:      original.TotalDebit,
		ReversesHeaderID: &original.HeaderID,
		AuditFields:      audit,
	}

	reversedLines := make([]domain.GLLine, len(originalLines))
	for i, line := range originalLines {
		reversedLines[i] = domain.GLLine{
			LineID:      uuid.NewString(),
			HeaderID:    newHeaderID,
			LineNumber:  i + 1,
			AccountID:   line.AccountID,
			Debit:       line.Credit, // Sides swap; amounts carry over exactly
			Credit:      line.Debit,
			PartyType:   line.PartyType,
			PartyID:     line.PartyID,
			Description: line.Description,
			AuditFields: audit,
		}
	}

	if err := s.ledgerRepo.SavePosting(ctx, reversal, reversedLines, nil); err != nil {
		s.LogError(ctx, err, "Failed to save reversal posting",
			slog.String("original_header_id", headerID),
			slog.String("reversal_header_id", newHeaderID))
		return nil, fmt.Errorf("failed to save reversal: %w", err)
	}

	s.LogInfo(ctx, "Posting reversed",
		slog.String("original_header_id", headerID),
		slog.String("reversal_header_id", newHeaderID),
		slog.String("organization_id", organizationID))

	s.publishCommitted(ctx, &reversal, len(reversedLines))

	response := dto.ToPostingResponse(&reversal, reversedLines)
	return &response, nil
}

// GetPosting retrieves a header with its lines.
func (s *postingService) GetPosting(ctx context.Context, organizationID string, identity domain.Identity, headerID string) (*domain.GLHeader, error) {
	if err := s.Authorize(ctx, identity, domain.OpReadPosting); err != nil {
		return nil, err
	}

	header, err := s.fetchOrgHeader(ctx, organizationID, headerID)
	if err != nil {
		return nil, err
	}

	lines, err := s.ledgerRepo.FindLinesByHeaderID(ctx, headerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch lines for posting", slog.String("header_id", headerID))
		return nil, fmt.Errorf("failed to fetch posting lines: %w", err)
	}
	header.Lines = lines
	return header, nil
}

// ListPostings retrieves a token-paginated page of headers.
func (s *postingService) ListPostings(ctx context.Context, organizationID string, identity domain.Identity, params dto.ListPostingsParams) (*dto.ListPostingsResponse, error) {
	if err := s.Authorize(ctx, identity, domain.OpReadPosting); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	headers, nextToken, err := s.ledgerRepo.ListHeadersByOrganization(ctx, organizationID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list postings", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to list postings: %w", err)
	}

	responses := make([]dto.GLHeaderResponse, len(headers))
	for i := range headers {
		responses[i] = dto.ToGLHeaderResponse(&headers[i])
	}
	return &dto.ListPostingsResponse{
		Postings:  responses,
		NextToken: nextToken,
	}, nil
}

// fetchOrgHeader loads a header and hides rows from other organizations
// behind ErrNotFound.
func (s *postingService) fetchOrgHeader(ctx context.Context, organizationID string, headerID string) (*domain.GLHeader, error) {
	header, err := s.ledgerRepo.FindHeaderByID(ctx, headerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find posting header", slog.String("header_id", headerID))
		}
		return nil, err
	}
	if header.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return header, nil
}

// publishCommitted emits the post-commit event. Delivery failures are logged
// and swallowed: the posting already succeeded.
func (s *postingService) publishCommitted(ctx context.Context, header *domain.GLHeader, lineCount int) {
	if s.publisher == nil {
		return
	}
	event := dto.PostingCommittedEvent{
		OrganizationID: header.OrganizationID,
		HeaderID:       header.HeaderID,
		SourceType:     header.SourceType,
		SourceID:       header.SourceID,
		TotalDebit:     money.String(header.TotalDebit),
		TotalCredit:    money.String(header.TotalCredit),
		LineCount:      lineCount,
		CommittedAt:    header.CreatedAt,
	}
	if err := s.publisher.PublishPostingCommitted(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to publish posting event",
			slog.String("header_id", header.HeaderID))
	}
}
