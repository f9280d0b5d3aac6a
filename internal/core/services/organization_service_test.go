package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/openbooks-app/openbooks/internal/apperrors"
	"github.com/openbooks-app/openbooks/internal/core/domain"
	portssvc "github.com/openbooks-app/openbooks/internal/core/ports/services"
	"github.com/openbooks-app/openbooks/internal/core/services"
	"github.com/openbooks-app/openbooks/internal/dto"
)

type OrganizationServiceTestSuite struct {
	suite.Suite
	mockOrgRepo     *MockOrganizationRepository
	mockAccountRepo *MockAccountRepository
	mockAuthorizer  *MockAuthorizer
	service         portssvc.OrganizationSvcFacade
	identity        domain.Identity
}

func (suite *OrganizationServiceTestSuite) SetupTest() {
	suite.mockOrgRepo = new(MockOrganizationRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockAuthorizer = new(MockAuthorizer)
	suite.service = services.NewOrganizationService(
		suite.mockOrgRepo,
		suite.mockAccountRepo,
		services.WithOrganizationAuthorizer(suite.mockAuthorizer),
	)

	suite.identity = domain.Identity{UserID: uuid.NewString()}
}

func (suite *OrganizationServiceTestSuite) TestCreateOrganization_SeedsRoleMembershipAndChart() {
	ctx := context.Background()
	req := dto.CreateOrganizationRequest{Name: "Acme Books", BaseCurrencyCode: "EUR"}

	suite.mockAuthorizer.On("Authorize", ctx, suite.identity, domain.OpCreateOrganization).Return(nil).Once()
	suite.mockOrgRepo.On("SaveOrganization", ctx, mock.AnythingOfType("domain.Organization")).Return(nil).Once()
	suite.mockOrgRepo.On("SaveRole", ctx, mock.AnythingOfType("domain.Role")).Return(nil).Once()
	suite.mockOrgRepo.On("SaveMembership", ctx, mock.AnythingOfType("domain.Membership")).Return(nil).Once()
	suite.mockAccountRepo.On("SaveAccounts", ctx, mock.AnythingOfType("[]domain.Account")).Return(nil).Once()
	suite.mockOrgRepo.On("UpdateDefaultAccounts", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil).Once()

	org, err := suite.service.CreateOrganization(ctx, suite.identity, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(org)
	suite.Equal("Acme Books", org.Name)
	suite.Equal("EUR", org.BaseCurrencyCode)
	suite.Require().NotNil(org.DefaultARAccountID)
	suite.Require().NotNil(org.DefaultAPAccountID)

	savedRole := suite.mockOrgRepo.Calls[1].Arguments.Get(1).(domain.Role)
	suite.Equal("Admin", savedRole.Name)
	suite.True(savedRole.IsSystem)
	suite.True(savedRole.Grants(domain.AllPermissions))

	savedMembership := suite.mockOrgRepo.Calls[2].Arguments.Get(1).(domain.Membership)
	suite.Equal(suite.identity.UserID, savedMembership.UserID)
	suite.Equal(savedRole.RoleID, savedMembership.RoleID)
	suite.True(savedMembership.IsActive)

	savedAccounts := suite.mockAccountRepo.Calls[0].Arguments.Get(1).([]domain.Account)
	subtypes := make(map[domain.AccountSubtype]domain.Account, len(savedAccounts))
	for _, acc := range savedAccounts {
		subtypes[acc.Subtype] = acc
	}
	// The structural control accounts are seeded as system rows.
	suite.True(subtypes[domain.SubtypeAccountsReceivable].IsSystem)
	suite.True(subtypes[domain.SubtypeAccountsPayable].IsSystem)
	suite.True(subtypes[domain.SubtypeVATReceivable].IsSystem)
	suite.True(subtypes[domain.SubtypeVATPayable].IsSystem)
	suite.Equal(subtypes[domain.SubtypeAccountsReceivable].AccountID, *org.DefaultARAccountID)
	suite.Equal(subtypes[domain.SubtypeAccountsPayable].AccountID, *org.DefaultAPAccountID)

	suite.mockOrgRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *OrganizationServiceTestSuite) TestGetCurrentOrganization_NoneSelected() {
	ctx := context.Background()

	suite.mockAuthorizer.On("Authorize", ctx, suite.identity, domain.OpReadCurrentOrganization).Return(nil).Once()

	_, err := suite.service.GetCurrentOrganization(ctx, suite.identity)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *OrganizationServiceTestSuite) TestGetMembershipForUser_Revoked() {
	ctx := context.Background()
	organizationID := uuid.NewString()
	revoked := &domain.Membership{
		MembershipID:   uuid.NewString(),
		UserID:         suite.identity.UserID,
		OrganizationID: organizationID,
		IsActive:       false,
	}

	suite.mockOrgRepo.On("FindMembershipByUser", ctx, organizationID, suite.identity.UserID).Return(revoked, nil).Once()

	_, err := suite.service.GetMembershipForUser(ctx, organizationID, suite.identity.UserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func TestOrganizationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationServiceTestSuite))
}
