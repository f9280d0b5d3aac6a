package services

import (
	"context"

	"github.com/openbooks-app/openbooks/internal/dto"
)

// AuthSvcFacade is the token-issuance shell around the core. The core itself
// only ever sees the resolved identity extracted from a verified token.
type AuthSvcFacade interface {
	// Login verifies credentials and issues a signed JWT. When the request
	// names an organization, the caller's membership there is resolved and
	// embedded in the claims.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
