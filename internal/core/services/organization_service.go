package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openbooks-app/openbooks/internal/apperrors"
	"github.com/openbooks-app/openbooks/internal/core/domain"
	portsrepo "github.com/openbooks-app/openbooks/internal/core/ports/repositories"
	portssvc "github.com/openbooks-app/openbooks/internal/core/ports/services"
	"github.com/openbooks-app/openbooks/internal/dto"
)

// organizationService manages tenant lifecycle: creating an organization also
// seeds its Admin role, the creator's membership, and the system chart of
// accounts the posting engine depends on (AR, AP, VAT control accounts).
type organizationService struct {
	BaseService
	orgRepo     portsrepo.OrganizationRepositoryFacade
	accountRepo portsrepo.AccountWriter
}

// OrganizationServiceOption is a functional option for configuring the organization service
type OrganizationServiceOption func(*organizationService)

// WithOrganizationAuthorizer adds the authorization gate dependency
func WithOrganizationAuthorizer(authorizer portssvc.AuthorizerSvc) OrganizationServiceOption {
	return func(s *organizationService) {
		s.Authorizer = authorizer
	}
}

// NewOrganizationService creates the organization service.
func NewOrganizationService(orgRepo portsrepo.OrganizationRepositoryFacade, accountRepo portsrepo.AccountWriter, options ...OrganizationServiceOption) portssvc.OrganizationSvcFacade {
	svc := &organizationService{
		orgRepo:     orgRepo,
		accountRepo: accountRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.OrganizationSvcFacade = (*organizationService)(nil)

// seededAccount describes one row of the system chart.
type seededAccount struct {
	code           string
	name           string
	accountType    domain.AccountType
	subtype        domain.AccountSubtype
	isSystem       bool
	isReconcilable bool
}

// systemChart is the chart of accounts seeded into every new organization.
// The AR/AP/VAT rows are system accounts the document services post against.
var systemChart = []seededAccount{
	{code: "1000", name: "Cash", accountType: domain.Asset, subtype: domain.SubtypeCash},
	{code: "1100", name: "Bank", accountType: domain.Asset, subtype: domain.SubtypeBank, isReconcilable: true},
	{code: "1200", name: "Accounts Receivable", accountType: domain.Asset, subtype: domain.SubtypeAccountsReceivable, isSystem: true},
	{code: "1300", name: "VAT Receivable", accountType: domain.Asset, subtype: domain.SubtypeVATReceivable, isSystem: true},
	{code: "2000", name: "Accounts Payable", accountType: domain.Liability, subtype: domain.SubtypeAccountsPayable, isSystem: true},
	{code: "2100", name: "VAT Payable", accountType: domain.Liability, subtype: domain.SubtypeVATPayable, isSystem: true},
	{code: "3000", name: "Retained Earnings", accountType: domain.Equity, subtype: domain.SubtypeRetainedEarnings, isSystem: true},
	{code: "4000", name: "Sales", accountType: domain.Income, subtype: domain.SubtypeSales},
	{code: "5000", name: "Operating Expenses", accountType: domain.Expense, subtype: domain.SubtypeOperatingExpense},
}

// CreateOrganization creates the organization, its Admin role, the creator's
// membership, and the seeded system chart.
func (s *organizationService) CreateOrganization(ctx context.Context, identity domain.Identity, req dto.CreateOrganizationRequest) (*domain.Organization, error) {
	if err := s.Authorize(ctx, identity, domain.OpCreateOrganization); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     identity.UserID,
		LastUpdatedAt: now,
		LastUpdatedBy: identity.UserID,
	}

	org := domain.Organization{
		OrganizationID:   uuid.NewString(),
		Name:             req.Name,
		BaseCurrencyCode: req.BaseCurrencyCode,
		IsActive:         true,
		AuditFields:      audit,
	}
	if err := s.orgRepo.SaveOrganization(ctx, org); err != nil {
		s.LogError(ctx, err, "Failed to save organization", slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to save organization: %w", err)
	}

	adminRole := domain.Role{
		RoleID:         uuid.NewString(),
		OrganizationID: org.OrganizationID,
		Name:           "Admin",
		Permissions:    domain.AllPermissions,
		IsSystem:       true,
		AuditFields:    audit,
	}
	if err := s.orgRepo.SaveRole(ctx, adminRole); err != nil {
		s.LogError(ctx, err, "Failed to seed admin role", slog.String("organization_id", org.OrganizationID))
		return nil, fmt.Errorf("failed to seed admin role: %w", err)
	}

	membership := domain.Membership{
		MembershipID:   uuid.NewString(),
		UserID:         identity.UserID,
		OrganizationID: org.OrganizationID,
		RoleID:         adminRole.RoleID,
		IsActive:       true,
		JoinedAt:       now,
	}
	if err := s.orgRepo.SaveMembership(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to seed creator membership", slog.String("organization_id", org.OrganizationID))
		return nil, fmt.Errorf("failed to seed creator membership: %w", err)
	}

	accounts := make([]domain.Account, len(systemChart))
	var arAccountID, apAccountID string
	for i, seed := range systemChart {
		acc := domain.Account{
			AccountID:      uuid.NewString(),
			OrganizationID: org.OrganizationID,
			Code:           seed.code,
			Name:           seed.name,
			AccountType:    seed.accountType,
			Subtype:        seed.subtype,
			NormalBalance:  domain.DefaultNormalBalance(seed.accountType),
			IsSystem:       seed.isSystem,
			IsReconcilable: seed.isReconcilable,
			IsActive:       true,
			AuditFields:    audit,
		}
		accounts[i] = acc
		switch seed.subtype {
		case domain.SubtypeAccountsReceivable:
			arAccountID = acc.AccountID
		case domain.SubtypeAccountsPayable:
			apAccountID = acc.AccountID
		}
	}
	if err := s.accountRepo.SaveAccounts(ctx, accounts); err != nil {
		s.LogError(ctx, err, "Failed to seed system chart", slog.String("organization_id", org.OrganizationID))
		return nil, fmt.Errorf("failed to seed system chart: %w", err)
	}

	if err := s.orgRepo.UpdateDefaultAccounts(ctx, org.OrganizationID, arAccountID, apAccountID); err != nil {
		s.LogError(ctx, err, "Failed to record default accounts", slog.String("organization_id", org.OrganizationID))
		return nil, fmt.Errorf("failed to record default accounts: %w", err)
	}
	org.DefaultARAccountID = &arAccountID
	org.DefaultAPAccountID = &apAccountID

	s.LogInfo(ctx, "Organization created",
		slog.String("organization_id", org.OrganizationID),
		slog.String("name", org.Name),
		slog.Int("seeded_accounts", len(accounts)))
	return &org, nil
}

// GetCurrentOrganization returns the organization bound to the caller.
func (s *organizationService) GetCurrentOrganization(ctx context.Context, identity domain.Identity) (*domain.Organization, error) {
	if err := s.Authorize(ctx, identity, domain.OpReadCurrentOrganization); err != nil {
		return nil, err
	}
	if identity.OrganizationID == "" {
		return nil, apperrors.NewNotFoundError("no organization selected")
	}

	org, err := s.orgRepo.FindOrganizationByID(ctx, identity.OrganizationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load current organization",
				slog.String("organization_id", identity.OrganizationID))
		}
		return nil, err
	}
	return org, nil
}

// GetMembershipForUser resolves a user's active membership in an organization.
// Revoked or deleted memberships are treated as forbidden so the auth boundary
// refuses to mint claims for them.
func (s *organizationService) GetMembershipForUser(ctx context.Context, organizationID string, userID string) (*domain.Membership, error) {
	membership, err := s.orgRepo.FindMembershipByUser(ctx, organizationID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewForbiddenError("no membership in this organization")
		}
		s.LogError(ctx, err, "Failed to resolve membership",
			slog.String("organization_id", organizationID),
			slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to resolve membership: %w", err)
	}
	if !membership.IsActive || membership.DeletedAt != nil {
		return nil, apperrors.NewForbiddenError("membership has been revoked")
	}
	return membership, nil
}
