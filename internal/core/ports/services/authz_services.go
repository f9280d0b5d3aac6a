package services

import (
	"context"

	"github.com/openbooks-app/openbooks/internal/core/domain"
)

// AuthorizerSvc is the authorization gate. It decides, at the moment of the
// call, whether the resolved caller identity may perform an operation: the
// membership record is re-read live rather than trusting token claims.
type AuthorizerSvc interface {
	Authorize(ctx context.Context, identity domain.Identity, op domain.Operation) error
}
