package mapping

import (
	"github.com/openbooks-app/openbooks/internal/core/domain"
	"github.com/openbooks-app/openbooks/internal/models"
)

// ToModelOrganization converts a domain Organization to a model Organization
func ToModelOrganization(d domain.Organization) models.Organization {
	return models.Organization{
		OrganizationID:     d.OrganizationID,
		Name:               d.Name,
		BaseCurrencyCode:   d.BaseCurrencyCode,
		DefaultARAccountID: d.DefaultARAccountID,
		DefaultAPAccountID: d.DefaultAPAccountID,
		IsActive:           d.IsActive,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainOrganization converts a model Organization to a domain Organization
func ToDomainOrganization(m models.Organization) domain.Organization {
	return domain.Organization{
		OrganizationID:     m.OrganizationID,
		Name:               m.Name,
		BaseCurrencyCode:   m.BaseCurrencyCode,
		DefaultARAccountID: m.DefaultARAccountID,
		DefaultAPAccountID: m.DefaultAPAccountID,
		IsActive:           m.IsActive,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelRole converts a domain Role to a model Role
func ToModelRole(d domain.Role) models.Role {
	perms := make([]string, len(d.Permissions))
	for i, p := range d.Permissions {
		perms[i] = string(p)
	}
	return models.Role{
		RoleID:         d.RoleID,
		OrganizationID: d.OrganizationID,
		Name:           d.Name,
		Permissions:    perms,
		IsSystem:       d.IsSystem,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRole converts a model Role to a domain Role
func ToDomainRole(m models.Role) domain.Role {
	perms := make([]domain.PermissionCode, len(m.Permissions))
	for i, p := range m.Permissions {
		perms[i] = domain.PermissionCode(p)
	}
	return domain.Role{
		RoleID:         m.RoleID,
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		Permissions:    perms,
		IsSystem:       m.IsSystem,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelMembership converts a domain Membership to a model Membership
func ToModelMembership(d domain.Membership) models.Membership {
	return models.Membership{
		MembershipID:   d.MembershipID,
		UserID:         d.UserID,
		OrganizationID: d.OrganizationID,
		RoleID:         d.RoleID,
		IsActive:       d.IsActive,
		DeletedAt:      d.DeletedAt,
		JoinedAt:       d.JoinedAt,
	}
}

// ToDomainMembership converts a model Membership to a domain Membership
func ToDomainMembership(m models.Membership) domain.Membership {
	return domain.Membership{
		MembershipID:   m.MembershipID,
		UserID:         m.UserID,
		OrganizationID: m.OrganizationID,
		RoleID:         m.RoleID,
		IsActive:       m.IsActive,
		DeletedAt:      m.DeletedAt,
		JoinedAt:       m.JoinedAt,
	}
}
