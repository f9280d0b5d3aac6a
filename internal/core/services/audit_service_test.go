package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/openbooks-app/openbooks/internal/apperrors"
	"github.com/openbooks-app/openbooks/internal/core/domain"
	portssvc "github.com/openbooks-app/openbooks/internal/core/ports/services"
	"github.com/openbooks-app/openbooks/internal/core/services"
)

type AuditServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo *MockLedgerRepository
	mockOrgRepo    *MockOrganizationRepository
	mockAuthorizer *MockAuthorizer
	service        portssvc.AuditSvcFacade
	organizationID string
	identity       domain.Identity
}

func (suite *AuditServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockOrgRepo = new(MockOrganizationRepository)
	suite.mockAuthorizer = new(MockAuthorizer)
	suite.service = services.NewAuditService(
		suite.mockLedgerRepo,
		suite.mockOrgRepo,
		services.WithAuditAuthorizer(suite.mockAuthorizer),
	)

	suite.organizationID = uuid.NewString()
	suite.identity = domain.Identity{
		UserID:         uuid.NewString(),
		OrganizationID: suite.organizationID,
		RoleID:         uuid.NewString(),
		MembershipID:   uuid.NewString(),
	}
}

func (suite *AuditServiceTestSuite) TestRunIntegrityAudit_CleanLedger() {
	ctx := context.Background()
	org := &domain.Organization{OrganizationID: suite.organizationID}

	suite.mockAuthorizer.On("Authorize", ctx, suite.identity, domain.OpRunAudit).Return(nil).Once()
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.organizationID).Return(org, nil).Once()
	suite.mockLedgerRepo.On("FindUnbalancedHeaders", ctx, suite.organizationID, 100).Return([]domain.HeaderIssue{}, nil).Once()
	suite.mockLedgerRepo.On("FindMalformedLines", ctx, suite.organizationID, 100).Return([]domain.LineIssue{}, nil).Once()

	report, err := suite.service.RunIntegrityAudit(ctx, suite.organizationID, suite.identity, 0)

	suite.Require().NoError(err)
	suite.Require().NotNil(report)
	suite.True(report.OK)
	suite.Zero(report.Totals.HeaderIssues)
	suite.Zero(report.Totals.LineIssues)
}

func (suite *AuditServiceTestSuite) TestRunIntegrityAudit_DriftReportedNotRaised() {
	ctx := context.Background()
	org := &domain.Organization{OrganizationID: suite.organizationID}
	headerIssues := []domain.HeaderIssue{
		{
			HeaderID:      uuid.NewString(),
			TotalDebit:    decimal.RequireFromString("100.00"),
			TotalCredit:   decimal.RequireFromString("100.00"),
			LineDebitSum:  decimal.RequireFromString("100.00"),
			LineCreditSum: decimal.RequireFromString("90.00"),
		},
	}
	lineIssues := []domain.LineIssue{
		{
			LineID:   uuid.NewString(),
			HeaderID: headerIssues[0].HeaderID,
			Debit:    decimal.RequireFromString("10.00"),
			Credit:   decimal.RequireFromString("10.00"),
		},
	}

	suite.mockAuthorizer.On("Authorize", ctx, suite.identity, domain.OpRunAudit).Return(nil).Once()
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.organizationID).Return(org, nil).Once()
	suite.mockLedgerRepo.On("FindUnbalancedHeaders", ctx, suite.organizationID, 50).Return(headerIssues, nil).Once()
	suite.mockLedgerRepo.On("FindMalformedLines", ctx, suite.organizationID, 50).Return(lineIssues, nil).Once()

	report, err := suite.service.RunIntegrityAudit(ctx, suite.organizationID, suite.identity, 50)

	// Drift is a finding, not an error.
	suite.Require().NoError(err)
	suite.False(report.OK)
	suite.Equal(1, report.Totals.HeaderIssues)
	suite.Equal(1, report.Totals.LineIssues)
	suite.Len(report.Issues.Headers, 1)
	suite.Len(report.Issues.Lines, 1)
}

func (suite *AuditServiceTestSuite) TestRunIntegrityAudit_OrganizationNotFound() {
	ctx := context.Background()

	suite.mockAuthorizer.On("Authorize", ctx, suite.identity, domain.OpRunAudit).Return(nil).Once()
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.organizationID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.RunIntegrityAudit(ctx, suite.organizationID, suite.identity, 0)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AuditServiceTestSuite) TestRunIntegrityAudit_LimitCapped() {
	ctx := context.Background()
	org := &domain.Organization{OrganizationID: suite.organizationID}

	suite.mockAuthorizer.On("Authorize", ctx, suite.identity, domain.OpRunAudit).Return(nil).Once()
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.organizationID).Return(org, nil).Once()
	suite.mockLedgerRepo.On("FindUnbalancedHeaders", ctx, suite.organizationID, 1000).Return([]domain.HeaderIssue{}, nil).Once()
	suite.mockLedgerRepo.On("FindMalformedLines", ctx, suite.organizationID, 1000).Return([]domain.LineIssue{}, nil).Once()

	_, err := suite.service.RunIntegrityAudit(ctx, suite.organizationID, suite.identity, 5000)

	suite.Require().NoError(err)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func TestAuditServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuditServiceTestSuite))
}
