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

// accountService enforces every structural rule of the chart of accounts:
// the type/subtype compatibility table, normal-balance resolution, parent
// hierarchy constraints, code uniqueness, and the immutability rules for
// protected, system, and in-use accounts.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountAuthorizer adds the authorization gate dependency
func WithAccountAuthorizer(authorizer portssvc.AuthorizerSvc) AccountServiceOption {
	return func(s *accountService) {
		s.Authorizer = authorizer
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// resolveSubtype validates the type/subtype pair against the compatibility table.
func (s *accountService) resolveSubtype(accountType domain.AccountType, subtype domain.AccountSubtype) error {
	if !domain.IsValidSubtype(accountType, subtype) {
		return apperrors.NewValidationError(
			fmt.Sprintf("subtype %s is not valid for account type %s (allowed: %v)",
				subtype, accountType, domain.SubtypesForType(accountType)))
	}
	return nil
}

// validateParent checks that a prospective parent exists, belongs to the same
// organization, shares the account type, and that linking to it would not
// close a cycle in the hierarchy.
func (s *accountService) validateParent(ctx context.Context, organizationID string, accountID string, parentID string, accountType domain.AccountType) error {
	parent, err := s.accountRepo.FindAccountByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationError(fmt.Sprintf("parent account %s does not exist", parentID))
		}
		return fmt.Errorf("failed to load parent account: %w", err)
	}
	if parent.OrganizationID != organizationID {
		// Obscure cross-organization existence.
		return apperrors.NewValidationError(fmt.Sprintf("parent account %s does not exist", parentID))
	}
	if parent.AccountType != accountType {
		return apperrors.NewValidationError(
			fmt.Sprintf("parent account %s has type %s, expected %s", parentID, parent.AccountType, accountType))
	}

	// Walk up the ancestor chain with a visited set. The set guards against
	// pre-existing corruption in the chain itself, not just the new link.
	visited := map[string]bool{accountID: true}
	current := parent
	for {
		if visited[current.AccountID] {
			return apperrors.NewValidationError(
				fmt.Sprintf("parent account %s would create a cycle in the account hierarchy", parentID))
		}
		visited[current.AccountID] = true
		if current.ParentAccountID == "" {
			return nil
		}
		if visited[current.ParentAccountID] {
			return apperrors.NewValidationError(
				fmt.Sprintf("parent account %s would create a cycle in the account hierarchy", parentID))
		}
		next, err := s.accountRepo.FindAccountByID(ctx, current.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				// Dangling link; the chain terminates here.
				return nil
			}
			return fmt.Errorf("failed to walk account hierarchy: %w", err)
		}
		current = next
	}
}

// assertCodeAvailable fails with a conflict when another account in the
// organization already carries the code.
func (s *accountService) assertCodeAvailable(ctx context.Context, organizationID string, code string, excludeAccountID string) error {
	existing, err := s.accountRepo.FindAccountByCode(ctx, organizationID, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check account code uniqueness: %w", err)
	}
	if existing.AccountID != excludeAccountID {
		return apperrors.NewConflictError(fmt.Sprintf("account code %s is already in use", code))
	}
	return nil
}

// CreateAccount validates and persists a new account.
func (s *accountService) CreateAccount(ctx context.Context, organizationID string, identity domain.Identity, req dto.CreateAccountRequest) (*domain.Account, error) {
	if err := s.Authorize(ctx, identity, domain.OpCreateAccount); err != nil {
		return nil, err
	}

	if err := s.resolveSubtype(req.AccountType, req.Subtype); err != nil {
		return nil, err
	}

	normalBalance := domain.DefaultNormalBalance(req.AccountType)
	if req.NormalBalance != nil {
		normalBalance = *req.NormalBalance
	}

	if err := s.assertCodeAvailable(ctx, organizationID, req.Code, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	newAccountID := uuid.NewString()

	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parentID = *req.ParentAccountID
		if err := s.validateParent(ctx, organizationID, newAccountID, parentID, req.AccountType); err != nil {
			return nil, err
		}
	}

	account := domain.Account{
		AccountID:       newAccountID,
		OrganizationID:  organizationID,
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     req.AccountType,
		Subtype:         req.Subtype,
		NormalBalance:   normalBalance,
		ParentAccountID: parentID,
		TaxCodeID:       req.TaxCodeID,
		Description:     req.Description,
		IsSystem:        false,
		IsReconcilable:  req.IsReconcilable,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     identity.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: identity.UserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost the race on the unique (organization, code) constraint.
			return nil, apperrors.NewConflictError(fmt.Sprintf("account code %s is already in use", req.Code))
		}
		s.LogError(ctx, err, "Failed to save account",
			slog.String("organization_id", organizationID),
			slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.String("organization_id", organizationID),
		slog.String("code", account.Code))
	return &account, nil
}

// UpdateAccount applies field changes after asserting the account is mutable
// with respect to each requested change.
func (s *accountService) UpdateAccount(ctx context.Context, organizationID string, accountID string, identity domain.Identity, req dto.UpdateAccountRequest) (*domain.Account, error) {
	if err := s.Authorize(ctx, identity, domain.OpUpdateAccount); err != nil {
		return nil, err
	}

	account, err := s.fetchOrgAccount(ctx, organizationID, accountID)
	if err != nil {
		return nil, err
	}

	structuralChange := s.isStructuralChange(account, req)

	if structuralChange && account.IsProtected() {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("account %s is protected and cannot change its type, subtype, normal balance, or code", account.Code))
	}

	if structuralChange {
		counts, err := s.accountRepo.CountAccountReferences(ctx, organizationID, accountID)
		if err != nil {
			s.LogError(ctx, err, "Failed to count account references", slog.String("account_id", accountID))
			return nil, fmt.Errorf("failed to check account usage: %w", err)
		}
		if counts.Total() > 0 {
			return nil, apperrors.NewConflictError(
				fmt.Sprintf("account %s is referenced by %d ledger lines and %d organization defaults and cannot change structurally",
					account.Code, counts.GLLines, counts.OrgDefaults))
		}
	}

	// Resolve the effective type/subtype pair before validating it.
	newType := account.AccountType
	if req.AccountType != nil {
		newType = *req.AccountType
	}
	newSubtype := account.Subtype
	if req.Subtype != nil {
		newSubtype = *req.Subtype
	}
	if newType != account.AccountType || newSubtype != account.Subtype {
		if err := s.resolveSubtype(newType, newSubtype); err != nil {
			return nil, err
		}
	}

	if req.Code != nil && *req.Code != account.Code {
		if err := s.assertCodeAvailable(ctx, organizationID, *req.Code, accountID); err != nil {
			return nil, err
		}
		account.Code = *req.Code
	}

	if req.ParentAccountID != nil {
		newParent := *req.ParentAccountID
		if newParent != account.ParentAccountID {
			if newParent != "" {
				if err := s.validateParent(ctx, organizationID, accountID, newParent, newType); err != nil {
					return nil, err
				}
			}
			account.ParentAccountID = newParent
		}
	}

	account.AccountType = newType
	account.Subtype = newSubtype
	if req.NormalBalance != nil {
		account.NormalBalance = *req.NormalBalance
	} else if req.AccountType != nil {
		account.NormalBalance = domain.DefaultNormalBalance(newType)
	}
	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.IsReconcilable != nil {
		account.IsReconcilable = *req.IsReconcilable
	}
	if req.IsActive != nil {
		if !*req.IsActive && account.IsActive {
			if err := s.assertDeactivatable(ctx, organizationID, account); err != nil {
				return nil, err
			}
		}
		account.IsActive = *req.IsActive
	}

	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = identity.UserID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError(fmt.Sprintf("account code %s is already in use", account.Code))
		}
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	s.LogInfo(ctx, "Account updated",
		slog.String("account_id", accountID),
		slog.String("organization_id", organizationID))
	return account, nil
}

// DeactivateAccount marks an account inactive after the protection and
// in-use checks pass.
func (s *accountService) DeactivateAccount(ctx context.Context, organizationID string, accountID string, identity domain.Identity) error {
	if err := s.Authorize(ctx, identity, domain.OpDeactivateAccount); err != nil {
		return err
	}

	account, err := s.fetchOrgAccount(ctx, organizationID, accountID)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return nil // Already inactive, nothing to do.
	}

	if err := s.assertDeactivatable(ctx, organizationID, account); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, identity.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	s.LogInfo(ctx, "Account deactivated",
		slog.String("account_id", accountID),
		slog.String("organization_id", organizationID))
	return nil
}

// GetAccountByID retrieves an account scoped to the organization.
func (s *accountService) GetAccountByID(ctx context.Context, organizationID string, accountID string) (*domain.Account, error) {
	return s.fetchOrgAccount(ctx, organizationID, accountID)
}

// GetAccountsByIDs retrieves multiple accounts, dropping any outside the
// organization so callers never observe cross-tenant rows.
func (s *accountService) GetAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for id, acc := range accounts {
		if acc.OrganizationID != organizationID {
			delete(accounts, id)
		}
	}
	return accounts, nil
}

// ListAccounts retrieves a page of accounts for the organization.
func (s *accountService) ListAccounts(ctx context.Context, organizationID string, identity domain.Identity, limit int, offset int) ([]domain.Account, error) {
	if err := s.Authorize(ctx, identity, domain.OpReadAccount); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, organizationID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// fetchOrgAccount loads an account and hides rows from other organizations
// behind ErrNotFound.
func (s *accountService) fetchOrgAccount(ctx context.Context, organizationID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	if account.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// isStructuralChange reports whether the request touches the fields that
// define the account's role in the chart.
func (s *accountService) isStructuralChange(account *domain.Account, req dto.UpdateAccountRequest) bool {
	if req.AccountType != nil && *req.AccountType != account.AccountType {
		return true
	}
	if req.Subtype != nil && *req.Subtype != account.Subtype {
		return true
	}
	if req.NormalBalance != nil && *req.NormalBalance != account.NormalBalance {
		return true
	}
	if req.Code != nil && *req.Code != account.Code {
		return true
	}
	return false
}

// assertDeactivatable enforces the deactivation rules: protected and system
// accounts never deactivate, in-use accounts require their references to be
// gone first.
func (s *accountService) assertDeactivatable(ctx context.Context, organizationID string, account *domain.Account) error {
	if account.IsProtected() {
		return apperrors.NewConflictError(
			fmt.Sprintf("account %s is protected and cannot be deactivated", account.Code))
	}
	counts, err := s.accountRepo.CountAccountReferences(ctx, organizationID, account.AccountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count account references", slog.String("account_id", account.AccountID))
		return fmt.Errorf("failed to check account usage: %w", err)
	}
	if counts.Total() > 0 {
		return apperrors.NewConflictError(
			fmt.Sprintf("account %s is in use (%d ledger lines, %d organization defaults) and cannot be deactivated",
				account.Code, counts.GLLines, counts.OrgDefaults))
	}
	return nil
}
