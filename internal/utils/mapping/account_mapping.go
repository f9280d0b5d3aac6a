package mapping

import (
	"github.com/openbooks-app/openbooks/internal/core/domain"
	"github.com/openbooks-app/openbooks/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		OrganizationID:  d.OrganizationID,
		Code:            d.Code,
		Name:            d.Name,
		AccountType:     string(d.AccountType),
		Subtype:         string(d.Subtype),
		NormalBalance:   string(d.NormalBalance),
		ParentAccountID: d.ParentAccountID,
		TaxCodeID:       d.TaxCodeID,
		Description:     d.Description,
		IsSystem:        d.IsSystem,
		IsReconcilable:  d.IsReconcilable,
		IsActive:        d.IsActive,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		OrganizationID:  m.OrganizationID,
		Code:            m.Code,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		Subtype:         domain.AccountSubtype(m.Subtype),
		NormalBalance:   domain.NormalBalance(m.NormalBalance),
		ParentAccountID: m.ParentAccountID,
		TaxCodeID:       m.TaxCodeID,
		Description:     m.Description,
		IsSystem:        m.IsSystem,
		IsReconcilable:  m.IsReconcilable,
		IsActive:        m.IsActive,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
