package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openbooks-app/openbooks/internal/apperrors"
	"github.com/openbooks-app/openbooks/internal/core/domain"
	portsrepo "github.com/openbooks-app/openbooks/internal/core/ports/repositories"
	portssvc "github.com/openbooks-app/openbooks/internal/core/ports/services"
)

// authorizerService is the authorization gate. Every mutating operation passes
// through Authorize before any write happens. The membership record is
// re-read live on each call so a revocation takes effect immediately, even for
// callers holding a still-valid token.
type authorizerService struct {
	BaseService
	membershipRepo portsrepo.MembershipReader
	roleRepo       portsrepo.RoleReader
}

// NewAuthorizerService creates the authorization gate.
func NewAuthorizerService(membershipRepo portsrepo.MembershipReader, roleRepo portsrepo.RoleReader) portssvc.AuthorizerSvc {
	return &authorizerService{
		membershipRepo: membershipRepo,
		roleRepo:       roleRepo,
	}
}

var _ portssvc.AuthorizerSvc = (*authorizerService)(nil)

// Authorize decides whether identity may perform op right now.
//
// Denials split into two classes: ErrUnauthorized means the identity carries
// no usable organization binding for this operation; ErrForbidden means the
// binding exists but the live membership or role no longer permits the call.
func (s *authorizerService) Authorize(ctx context.Context, identity domain.Identity, op domain.Operation) error {
	if identity.UserID == "" {
		return fmt.Errorf("%w: missing caller identity", apperrors.ErrUnauthorized)
	}

	required, known := domain.RequiredPermissions[op]
	if !known {
		// Unknown operations are denied outright rather than defaulted open.
		s.LogError(ctx, apperrors.ErrForbidden, "Authorization requested for unknown operation",
			slog.String("operation", string(op)))
		return apperrors.NewForbiddenError(fmt.Sprintf("operation %s is not permitted", op))
	}

	if !identity.HasOrgContext() {
		if domain.BootstrapOperations[op] {
			// A caller with no organization bound yet may create one, or
			// read the not-yet-selected current organization.
			return nil
		}
		return fmt.Errorf("%w: no organization selected", apperrors.ErrUnauthorized)
	}

	membership, err := s.membershipRepo.FindMembershipByID(ctx, identity.OrganizationID, identity.MembershipID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewForbiddenError("membership no longer exists")
		}
		s.LogError(ctx, err, "Failed to re-read membership for authorization",
			slog.String("membership_id", identity.MembershipID),
			slog.String("organization_id", identity.OrganizationID))
		return fmt.Errorf("failed to verify membership: %w", err)
	}

	// The token may be stale in any of these dimensions; the live record wins.
	if membership.UserID != identity.UserID {
		return apperrors.NewForbiddenError("membership does not belong to the caller")
	}
	if !membership.IsActive || membership.DeletedAt != nil {
		return apperrors.NewForbiddenError("membership has been revoked")
	}
	if membership.RoleID != identity.RoleID {
		return apperrors.NewForbiddenError("role assignment has changed, re-authenticate to continue")
	}

	role, err := s.roleRepo.FindRoleByID(ctx, identity.OrganizationID, membership.RoleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewForbiddenError("role no longer exists")
		}
		s.LogError(ctx, err, "Failed to load role for authorization",
			slog.String("role_id", membership.RoleID),
			slog.String("organization_id", identity.OrganizationID))
		return fmt.Errorf("failed to verify role: %w", err)
	}

	if !role.Grants(required) {
		s.LogDebug(ctx, "Permission check failed",
			slog.String("user_id", identity.UserID),
			slog.String("operation", string(op)),
			slog.String("role", role.Name))
		return apperrors.NewForbiddenError(fmt.Sprintf("role %s does not permit %s", role.Name, op))
	}

	return nil
}
