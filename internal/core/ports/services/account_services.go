package services

import (
	"context"

	"github.com/openbooks-app/openbooks/internal/core/domain"
	"github.com/openbooks-app/openbooks/internal/dto"
)

// AccountReaderSvc defines read operations for chart-of-accounts data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account within an organization.
	GetAccountByID(ctx context.Context, organizationID string, accountID string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts, all scoped to the organization.
	GetAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a page of accounts for an organization.
	ListAccounts(ctx context.Context, organizationID string, identity domain.Identity, limit int, offset int) ([]domain.Account, error)
}

// AccountWriterSvc defines the validator-mediated mutations of the chart of
// accounts. Every structural rule (subtype table, normal balance, parent
// cycle, protected/in-use immutability, code uniqueness) is enforced here.
type AccountWriterSvc interface {
	// CreateAccount validates and persists a new account.
	CreateAccount(ctx context.Context, organizationID string, identity domain.Identity, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccount applies field changes to an account after asserting the
	// account is mutable with respect to the requested changes.
	UpdateAccount(ctx context.Context, organizationID string, accountID string, identity domain.Identity, req dto.UpdateAccountRequest) (*domain.Account, error)

	// DeactivateAccount marks an account inactive; protected, system, and
	// in-use accounts refuse with a conflict error.
	DeactivateAccount(ctx context.Context, organizationID string, accountID string, identity domain.Identity) error
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
