package repositories

import (
	"context"

	"github.com/openbooks-app/openbooks/internal/core/domain"
)

// OrganizationReader defines read operations for organization data
type OrganizationReader interface {
	// FindOrganizationByID retrieves an organization by its unique identifier.
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)
}

// OrganizationWriter defines write operations for organization data
type OrganizationWriter interface {
	// SaveOrganization persists a new organization.
	SaveOrganization(ctx context.Context, org domain.Organization) error

	// UpdateDefaultAccounts records the seeded AR/AP default account links.
	UpdateDefaultAccounts(ctx context.Context, organizationID string, arAccountID, apAccountID string) error
}

// RoleReader defines read operations for role data
type RoleReader interface {
	// FindRoleByID retrieves a role within an organization.
	FindRoleByID(ctx context.Context, organizationID string, roleID string) (*domain.Role, error)
}

// RoleWriter defines write operations for role data
type RoleWriter interface {
	// SaveRole persists a new role with its permission grants.
	SaveRole(ctx context.Context, role domain.Role) error
}

// MembershipReader defines read operations for membership data
type MembershipReader interface {
	// FindMembershipByID retrieves a membership within an organization,
	// including inactive and soft-deleted records so the authorization gate
	// can distinguish "revoked" from "never existed".
	FindMembershipByID(ctx context.Context, organizationID string, membershipID string) (*domain.Membership, error)

	// FindMembershipByUser retrieves the membership binding a user to an
	// organization.
	FindMembershipByUser(ctx context.Context, organizationID string, userID string) (*domain.Membership, error)
}

// MembershipWriter defines write operations for membership data
type MembershipWriter interface {
	// SaveMembership persists a new membership.
	SaveMembership(ctx context.Context, membership domain.Membership) error
}

// OrganizationRepositoryFacade combines the organization-related repository
// interfaces (organizations, roles, memberships).
type OrganizationRepositoryFacade interface {
	OrganizationReader
	OrganizationWriter
	RoleReader
	RoleWriter
	MembershipReader
	MembershipWriter
}
