package services

import (
	portsrepo "github.com/openbooks-app/openbooks/internal/core/ports/repositories"
	portssvc "github.com/openbooks-app/openbooks/internal/core/ports/services"
	"github.com/openbooks-app/openbooks/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher portssvc.EventPublisherSvc) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The authorization gate comes first; every other service routes
	// permission checks through it.
	container.Authorizer = NewAuthorizerService(repos.OrganizationRepo, repos.OrganizationRepo)

	container.Idempotency = NewIdempotencyService(repos.IdempotencyRepo)

	container.Account = NewAccountService(
		repos.AccountRepo,
		WithAccountAuthorizer(container.Authorizer),
	)

	postingOpts := []PostingServiceOption{
		WithPostingAuthorizer(container.Authorizer),
	}
	if publisher != nil {
		postingOpts = append(postingOpts, WithEventPublisher(publisher))
	}
	container.Posting = NewPostingService(
		repos.LedgerRepo,
		container.Account,
		container.Idempotency,
		postingOpts...,
	)

	container.Audit = NewAuditService(
		repos.LedgerRepo,
		repos.OrganizationRepo,
		WithAuditAuthorizer(container.Authorizer),
	)

	container.Organization = NewOrganizationService(
		repos.OrganizationRepo,
		repos.AccountRepo,
		WithOrganizationAuthorizer(container.Authorizer),
	)

	container.User = NewUserService(repos.UserRepo)
	container.Auth = NewAuthService(cfg, container.User, container.Organization)

	return container
}

// Compile-time interface checks.
var (
	_ portssvc.AccountSvcFacade      = (*accountService)(nil)
	_ portssvc.PostingSvcFacade      = (*postingService)(nil)
	_ portssvc.AuditSvcFacade        = (*auditService)(nil)
	_ portssvc.OrganizationSvcFacade = (*organizationService)(nil)
)
