package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	portssvc "github.com/openbooks-app/openbooks/internal/core/ports/services"
	"github.com/openbooks-app/openbooks/internal/dto"
	"github.com/openbooks-app/openbooks/internal/middleware"
	"github.com/openbooks-app/openbooks/internal/platform/config"
)

// authService is the token-issuance shell around the core. It verifies
// credentials, optionally resolves an organization membership, and mints the
// JWT whose claims become the caller identity on later requests.
type authService struct {
	BaseService
	userSvc   portssvc.UserSvcFacade
	orgSvc    portssvc.OrganizationSvcFacade
	jwtSecret string
	jwtExpiry time.Duration
	jwtIssuer string
}

// NewAuthService creates the auth service.
func NewAuthService(cfg *config.Config, userSvc portssvc.UserSvcFacade, orgSvc portssvc.OrganizationSvcFacade) portssvc.AuthSvcFacade {
	return &authService{
		userSvc:   userSvc,
		orgSvc:    orgSvc,
		jwtSecret: cfg.JWTSecret,
		jwtExpiry: cfg.JWTExpiryDuration,
		jwtIssuer: cfg.JWTIssuer,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Login verifies credentials and issues a signed JWT. When the request names
// an organization, the caller's membership there is resolved and embedded in
// the claims.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userSvc.AuthenticateUser(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	claims := middleware.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			Issuer:    s.jwtIssuer,
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(s.jwtExpiry)),
		},
	}

	if req.OrganizationID != "" {
		membership, err := s.orgSvc.GetMembershipForUser(ctx, req.OrganizationID, user.UserID)
		if err != nil {
			return nil, err
		}
		claims.OrganizationID = membership.OrganizationID
		claims.RoleID = membership.RoleID
		claims.MembershipID = membership.MembershipID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	s.LogInfo(ctx, "User logged in",
		slog.String("user_id", user.UserID),
		slog.String("organization_id", req.OrganizationID))

	return &dto.LoginResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtExpiry.Seconds()),
		User:        dto.ToUserResponse(user),
	}, nil
}
