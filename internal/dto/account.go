package dto

import (
	"time"

	"github.com/openbooks-app/openbooks/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code            string                `json:"code" binding:"required"`
	Name            string                `json:"name" binding:"required"`
	AccountType     domain.AccountType    `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	Subtype         domain.AccountSubtype `json:"subtype" binding:"required"`
	NormalBalance   *domain.NormalBalance `json:"normalBalance" binding:"omitempty,oneof=DEBIT CREDIT"` // Optional override of the type default
	ParentAccountID *string               `json:"parentAccountID"`
	TaxCodeID       string                `json:"taxCodeID"`
	Description     string                `json:"description"`
	IsReconcilable  bool                  `json:"isReconcilable"`
}

// UpdateAccountRequest defines the field changes allowed on an account.
// Pointers distinguish "not provided" from zero values.
type UpdateAccountRequest struct {
	Code            *string                `json:"code"`
	Name            *string                `json:"name"`
	AccountType     *domain.AccountType    `json:"accountType" binding:"omitempty,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	Subtype         *domain.AccountSubtype `json:"subtype"`
	NormalBalance   *domain.NormalBalance  `json:"normalBalance" binding:"omitempty,oneof=DEBIT CREDIT"`
	ParentAccountID *string                `json:"parentAccountID"`
	Description     *string                `json:"description"`
	IsReconcilable  *bool                  `json:"isReconcilable"`
	IsActive        *bool                  `json:"isActive"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string                `json:"accountID"`
	Code            string                `json:"code"`
	Name            string                `json:"name"`
	AccountType     domain.AccountType    `json:"accountType"`
	Subtype         domain.AccountSubtype `json:"subtype"`
	NormalBalance   domain.NormalBalance  `json:"normalBalance"`
	ParentAccountID string                `json:"parentAccountID"` // Empty string if null
	TaxCodeID       string                `json:"taxCodeID"`
	Description     string                `json:"description"`
	IsSystem        bool                  `json:"isSystem"`
	IsReconcilable  bool                  `json:"isReconcilable"`
	IsActive        bool                  `json:"isActive"`
	CreatedAt       time.Time             `json:"createdAt"`
	LastUpdatedAt   time.Time             `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Code:            acc.Code,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		Subtype:         acc.Subtype,
		NormalBalance:   acc.NormalBalance,
		ParentAccountID: acc.ParentAccountID,
		TaxCodeID:       acc.TaxCodeID,
		Description:     acc.Description,
		IsSystem:        acc.IsSystem,
		IsReconcilable:  acc.IsReconcilable,
		IsActive:        acc.IsActive,
		CreatedAt:       acc.CreatedAt,
		LastUpdatedAt:   acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of accounts to response DTOs.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=50"`
	Offset int `form:"offset,default=0"`
}
