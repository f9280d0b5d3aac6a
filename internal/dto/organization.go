package dto

import (
	"time"

	"github.com/openbooks-app/openbooks/internal/core/domain"
)

// CreateOrganizationRequest defines the data needed to bootstrap a new
// organization. The caller becomes its first admin member and a system
// chart of accounts is seeded.
type CreateOrganizationRequest struct {
	Name             string `json:"name" binding:"required"`
	BaseCurrencyCode string `json:"baseCurrencyCode" binding:"required,currencycode"`
}

// OrganizationResponse defines the data returned for an organization.
type OrganizationResponse struct {
	OrganizationID     string    `json:"organizationID"`
	Name               string    `json:"name"`
	BaseCurrencyCode   string    `json:"baseCurrencyCode"`
	DefaultARAccountID *string   `json:"defaultARAccountID,omitempty"`
	DefaultAPAccountID *string   `json:"defaultAPAccountID,omitempty"`
	IsActive           bool      `json:"isActive"`
	CreatedAt          time.Time `json:"createdAt"`
}

// ToOrganizationResponse converts a domain.Organization to OrganizationResponse.
func ToOrganizationResponse(org *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		OrganizationID:     org.OrganizationID,
		Name:               org.Name,
		BaseCurrencyCode:   org.BaseCurrencyCode,
		DefaultARAccountID: org.DefaultARAccountID,
		DefaultAPAccountID: org.DefaultAPAccountID,
		IsActive:           org.IsActive,
		CreatedAt:          org.CreatedAt,
	}
}

// MembershipResponse reports a user's standing within an organization.
type MembershipResponse struct {
	MembershipID   string    `json:"membershipID"`
	UserID         string    `json:"userID"`
	OrganizationID string    `json:"organizationID"`
	RoleID         string    `json:"roleID"`
	IsActive       bool      `json:"isActive"`
	JoinedAt       time.Time `json:"joinedAt"`
}

// ToMembershipResponse converts a domain.Membership to MembershipResponse.
func ToMembershipResponse(m *domain.Membership) MembershipResponse {
	return MembershipResponse{
		MembershipID:   m.MembershipID,
		UserID:         m.UserID,
		OrganizationID: m.OrganizationID,
		RoleID:         m.RoleID,
		IsActive:       m.IsActive,
		JoinedAt:       m.JoinedAt,
	}
}
