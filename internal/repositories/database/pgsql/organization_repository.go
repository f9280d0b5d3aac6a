package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbooks-app/openbooks/internal/apperrors"
	"github.com/openbooks-app/openbooks/internal/core/domain"
	portsrepo "github.com/openbooks-app/openbooks/internal/core/ports/repositories"
	"github.com/openbooks-app/openbooks/internal/models"
	"github.com/openbooks-app/openbooks/internal/utils/mapping"
)

type PgxOrganizationRepository struct {
	baseRepository
}

// newPgxOrganizationRepository creates a new repository for organization,
// role, and membership data.
func newPgxOrganizationRepository(pool *pgxpool.Pool) portsrepo.OrganizationRepositoryFacade {
	return &PgxOrganizationRepository{baseRepository: baseRepository{Pool: pool}}
}

// Ensure PgxOrganizationRepository implements portsrepo.OrganizationRepositoryFacade
var _ portsrepo.OrganizationRepositoryFacade = (*PgxOrganizationRepository)(nil)

// SaveOrganization persists a new organization.
func (r *PgxOrganizationRepository) SaveOrganization(ctx context.Context, org domain.Organization) error {
	m := mapping.ToModelOrganization(org)

	query := `
		INSERT INTO organizations (organization_id, name, base_currency_code, default_ar_account_id, default_ap_account_id, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.OrganizationID,
		m.Name,
		m.BaseCurrencyCode,
		m.DefaultARAccountID,
		m.DefaultAPAccountID,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: organization %s already exists", apperrors.ErrDuplicate, m.OrganizationID)
		}
		return apperrors.NewAppError(500, "failed to save organization "+m.OrganizationID, err)
	}
	return nil
}

// FindOrganizationByID retrieves an organization by its ID.
func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	query := `
		SELECT organization_id, name, base_currency_code, default_ar_account_id, default_ap_account_id, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM organizations
		WHERE organization_id = $1;
	`
	var m models.Organization
	err := r.Pool.QueryRow(ctx, query, organizationID).Scan(
		&m.OrganizationID,
		&m.Name,
		&m.BaseCurrencyCode,
		&m.DefaultARAccountID,
		&m.DefaultAPAccountID,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find organization "+organizationID, err)
	}

	org := mapping.ToDomainOrganization(m)
	return &org, nil
}

// UpdateDefaultAccounts records the seeded AR/AP default account links.
func (r *PgxOrganizationRepository) UpdateDefaultAccounts(ctx context.Context, organizationID string, arAccountID, apAccountID string) error {
	query := `
		UPDATE organizations
		SET default_ar_account_id = $2,
		    default_ap_account_id = $3
		WHERE organization_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, organizationID, arAccountID, apAccountID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update default accounts for organization "+organizationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("organization " + organizationID + " not found for update")
	}
	return nil
}

// SaveRole persists a new role with its permission grants.
func (r *PgxOrganizationRepository) SaveRole(ctx context.Context, role domain.Role) error {
	m := mapping.ToModelRole(role)

	query := `
		INSERT INTO roles (role_id, organization_id, name, permissions, is_system, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RoleID,
		m.OrganizationID,
		m.Name,
		m.Permissions,
		m.IsSystem,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: role %s already exists in organization", apperrors.ErrDuplicate, m.Name)
		}
		return apperrors.NewAppError(500, "failed to save role "+m.RoleID, err)
	}
	return nil
}

// FindRoleByID retrieves a role within an organization.
func (r *PgxOrganizationRepository) FindRoleByID(ctx context.Context, organizationID string, roleID string) (*domain.Role, error) {
	query := `
		SELECT role_id, organization_id, name, permissions, is_system, created_at, created_by, last_updated_at, last_updated_by
		FROM roles
		WHERE organization_id = $1 AND role_id = $2;
	`
	var m models.Role
	err := r.Pool.QueryRow(ctx, query, organizationID, roleID).Scan(
		&m.RoleID,
		&m.OrganizationID,
		&m.Name,
		&m.Permissions,
		&m.IsSystem,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find role "+roleID, err)
	}

	role := mapping.ToDomainRole(m)
	return &role, nil
}

// SaveMembership persists a new membership.
func (r *PgxOrganizationRepository) SaveMembership(ctx context.Context, membership domain.Membership) error {
	m := mapping.ToModelMembership(membership)

	query := `
		INSERT INTO memberships (membership_id, user_id, organization_id, role_id, is_active, deleted_at, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.MembershipID,
		m.UserID,
		m.OrganizationID,
		m.RoleID,
		m.IsActive,
		m.DeletedAt,
		m.JoinedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user %s is already a member of organization %s", apperrors.ErrDuplicate, m.UserID, m.OrganizationID)
		}
		return apperrors.NewAppError(500, "failed to save membership "+m.MembershipID, err)
	}
	return nil
}

func scanMembership(row pgx.Row) (*models.Membership, error) {
	var m models.Membership
	err := row.Scan(
		&m.MembershipID,
		&m.UserID,
		&m.OrganizationID,
		&m.RoleID,
		&m.IsActive,
		&m.DeletedAt,
		&m.JoinedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindMembershipByID retrieves a membership within an organization. Inactive
// and soft-deleted rows are returned as-is: the authorization gate needs them
// to distinguish "revoked" from "never existed".
func (r *PgxOrganizationRepository) FindMembershipByID(ctx context.Context, organizationID string, membershipID string) (*domain.Membership, error) {
	query := `
		SELECT membership_id, user_id, organization_id, role_id, is_active, deleted_at, joined_at
		FROM memberships
		WHERE organization_id = $1 AND membership_id = $2;
	`
	m, err := scanMembership(r.Pool.QueryRow(ctx, query, organizationID, membershipID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find membership "+membershipID, err)
	}

	membership := mapping.ToDomainMembership(*m)
	return &membership, nil
}

// FindMembershipByUser retrieves the membership binding a user to an organization.
func (r *PgxOrganizationRepository) FindMembershipByUser(ctx context.Context, organizationID string, userID string) (*domain.Membership, error) {
	query := `
		SELECT membership_id, user_id, organization_id, role_id, is_active, deleted_at, joined_at
		FROM memberships
		WHERE organization_id = $1 AND user_id = $2;
	`
	m, err := scanMembership(r.Pool.QueryRow(ctx, query, organizationID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find membership for user "+userID, err)
	}

	membership := mapping.ToDomainMembership(*m)
	return &membership, nil
}
