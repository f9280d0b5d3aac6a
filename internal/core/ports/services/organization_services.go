package services

import (
	"context"

	"github.com/openbooks-app/openbooks/internal/core/domain"
	"github.com/openbooks-app/openbooks/internal/dto"
)

// OrganizationSvcFacade manages tenant lifecycle. Creating an organization is
// one of the two bootstrap operations permitted without an existing
// organization binding.
type OrganizationSvcFacade interface {
	// CreateOrganization creates the organization, seeds the admin role, the
	// creator's membership, and the system chart of accounts.
	CreateOrganization(ctx context.Context, identity domain.Identity, req dto.CreateOrganizationRequest) (*domain.Organization, error)

	// GetCurrentOrganization returns the organization bound to the caller's
	// identity, or ErrNotFound when none is selected yet.
	GetCurrentOrganization(ctx context.Context, identity domain.Identity) (*domain.Organization, error)

	// GetMembershipForUser resolves the caller's membership in an
	// organization; used by the auth boundary to mint identity claims.
	GetMembershipForUser(ctx context.Context, organizationID string, userID string) (*domain.Membership, error)
}
