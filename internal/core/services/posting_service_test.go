package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/openbooks-app/openbooks/internal/apperrors"
	"github.com/openbooks-app/openbooks/internal/core/domain"
	portssvc "github.com/openbooks-app/openbooks/internal/core/ports/services"
	"github.com/openbooks-app/openbooks/internal/core/services"
	"github.com/openbooks-app/openbooks/internal/dto"
)

type PostingServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo *MockLedgerRepository
	mockAccountSvc *MockAccountReaderSvc
	mockIdemRepo   *MockIdempotencyRepository
	mockAuthorizer *MockAuthorizer
	idempotencySvc portssvc.IdempotencySvc
	service        portssvc.PostingSvcFacade
	organizationID string
	identity       domain.Identity
	bankAccount    domain.Account
	salesAccount   domain.Account
	vatAccount     domain.Account
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockAccountSvc = new(MockAccountReaderSvc)
	suite.mockIdemRepo = new(MockIdempotencyRepository)
	suite.mockAuthorizer = new(MockAuthorizer)
	suite.idempotencySvc = services.NewIdempotencyService(suite.mockIdemRepo)
	suite.service = services.NewPostingService(
		suite.mockLedgerRepo,
		suite.mockAccountSvc,
		suite.idempotencySvc,
		services.WithPostingAuthorizer(suite.mockAuthorizer),
	)

	suite.organizationID = uuid.NewString()
	suite.identity = domain.Identity{
		UserID:         uuid.NewString(),
		OrganizationID: suite.organizationID,
		RoleID:         uuid.NewString(),
		MembershipID:   uuid.NewString(),
	}

	suite.bankAccount = domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.organizationID,
		Code:           "1100",
		AccountType:    domain.Asset,
		Subtype:        domain.SubtypeBank,
		IsActive:       true,
	}
	suite.salesAccount = domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.organizationID,
		Code:           "4000",
		AccountType:    domain.Income,
		Subtype:        domain.SubtypeSales,
		IsActive:       true,
	}
	suite.vatAccount = domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.organizationID,
		Code:           "2100",
		AccountType:    domain.Liability,
		Subtype:        domain.SubtypeVATPayable,
		IsActive:       true,
	}
}

func (suite *PostingServiceTestSuite) accountsMap(accounts ...domain.Account) map[string]domain.Account {
	m := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		m[a.AccountID] = a
	}
	return m
}

func (suite *PostingServiceTestSuite) invoiceRequest() dto.CreatePostingRequest {
	return dto.CreatePostingRequest{
		SourceType:  domain.SourceInvoice,
		SourceID:    uuid.NewString(),
		PostingDate: time.Now().UTC(),
		Description: "Invoice INV-001",
		Lines: []dto.LineDraft{
			{AccountID: suite.bankAccount.AccountID, Debit: decimal.RequireFromString("130.50")},
			{AccountID: suite.salesAccount.AccountID, Credit: decimal.RequireFromString("120.00")},
			{AccountID: suite.vatAccount.AccountID, Credit: decimal.RequireFromString("10.50")},
		},
	}
}

func (suite *PostingServiceTestSuite) TestCreatePosting_Success() {
	ctx := context.Background()
	req := suite.invoiceRequest()

	suite.mockAuthorizer.On("Authorize", ctx, suite.identity, domain.OpCreatePosting).Return(nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.organizationID, mock.Anything).
		Return(suite.accountsMap(suite.bankAccount, suite.salesAccount, suite.vatAccount), nil).Once()
	suite.mockLedgerRepo.On("SavePosting", ctx, mock.AnythingOfType("domain.GLHeader"), mock.AnythingOfType("[]domain.GLLine"), (*domain.IdempotencyKey)(nil)).Return(nil).Once()

	result, err := suite.service.CreatePosting(ctx, suite.organizationID, suite.identity, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.False(result.Replayed)
	suite.Equal(http.StatusCreated, result.StatusCode)
	suite.Require().NotNil(result.Response)
	suite.NotEmpty(result.Response.HeaderID)
	suite.Len(result.Response.LineIDs, 3)
	suite.Equal("130.50", result.Response.TotalDebit)
	suite.Equal("130.50", result.Response.TotalCredit)

	savedHeader := suite.mockLedgerRepo.Calls[0].Arguments.Get(1).(domain.GLHeader)
	savedLines := suite.mockLedgerRepo.Calls[0].Arguments.Get(2).([]domain.GLLine)
	suite.Equal(suite.organizationID, savedHeader.OrganizationID)
	suite.True(savedHeader.TotalDebit.Equal(savedHeader.TotalCredit))
	for i, line := range savedLines {
		suite.Equal(i+1, line.LineNumber)
		suite.Equal(savedHeader.HeaderID, line.HeaderID)
	}

	suite.mockLedgerRepo.AssertExpectations(suite.T())
	suite.mockAccountSvc.AssertExpectations(suite.T())
	suite.mockAuthorizer.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestCreatePosting_AuthorizationFail() {
	ctx := context.Background()
	req := suite.invoiceRequest()

	suite.mockAuthorizer.On("Authorize", ctx, suite.identity, domain.OpCreatePosting).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.CreatePosting(ctx, suite.organizationID, suite.identity, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SavePosting", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestCreatePosting_Unbalanced() {
	ctx := context.Background()
	req := suite.invoiceRequest()
	req.Lines[2].Credit = decimal.RequireFromString("10.49")

	suite.mockAuthorizer.On("Authorize", ctx, suite.identity, domain.OpCreatePosting).Return(nil).Once()

	_, err := suite.service.CreatePosting(ctx, suite.organizationID, suite.identity, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "does not balance")
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SavePosting", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestCreatePosting_BothSidesSet() {
	ctx := context.Background()
	req := suite.invoiceRequest()
	req.Lines[0].Credit = decimal.RequireFromString("5.00")

	suite.mockAuthorizer.On("Authorize", ctx, suite.identity, domain.OpCreatePosting).Return(nil).Once()

	_, err := suite.service.CreatePosting(ctx, suite.organizationID, suite.identity, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "Line 1 must include either a debit or credit amount.")
}

func (suite *PostingServiceTestSuite) TestCreatePosting_NeitherSideSet() {
	ctx := context.Background()
	req := suite.invoiceRequest()
	req.Lines[1].Credit = decimal.Zero

	suite.mockAuthorizer.On("Authorize", ctx, suite.identity, domain.OpCreatePosting).Return(nil).Once()

	_, err := suite.service.CreatePosting(ctx, suite.organizationID, suite.identity, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "Line 2 must include either a debit or credit amount.")
}

func (suite *PostingServiceTestSuite) TestCreatePosting_SubCentAmountsBalanceAfterRounding() {
	ctx := context.Background()
	req := suite.invoiceRequest()
	// 10.125 rounds half away from zero to 10.13.
	req.Lines = []dto.LineDraft{
		{AccountID: suite.bankAccount.AccountID, Debit: decimal.RequireFromString("10.125")},
		{AccountID: suite.salesAccount.AccountID, Credit: decimal.RequireFromString("10.13")},
	}

	suite.mockAuthorizer.On("Authorize", ctx, suite.identity, domain.OpCreatePosting).Return(nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.organizationID, mock.Anything).
		Return(suite.accountsMap(suite.bankAccount, suite.salesAccount), nil).Once()
	suite.mockLedgerRepo.On("SavePosting", ctx, mock.AnythingOfType("domain.GLHeader"), mock.AnythingOfType("[]domain.GLLine"), (*domain.IdempotencyKey)(nil)).Return(nil).Once()

	result, err := suite.service.CreatePosting(ctx, suite.organizationID, suite.identity, req)

	suite.Require().NoError(err)
	suite.Equal("10.13", result.Response.TotalDebit)
	suite.Equal("10.13", result.Response.TotalCredit)
}

func (suite *PostingServiceTestSuite) TestCreatePosting_InactiveAccount() {
	ctx := context.Background()
	req := suite.invoiceRequest()
	inactive := suite.salesAccount
	inactive.IsActive = false

	suite.mockAuthorizer.On("Authorize", ctx, suite.identity, domain.OpCreatePosting).Return(nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.organizationID, mock.Anything).
		Return(suite.accountsMap(suite.bankAccount, inactive, suite.vatAccount), nil).Once()

	_, err := suite.service.CreatePosting(ctx, suite.organizationID, suite.identity, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "inactive")
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SavePosting", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestCreatePosting_UnknownAccount() {
	ctx := context.Background()
	req := suite.invoiceRequest()

	// The VAT account is missing from the resolved map.
	suite.mockAuthorizer.On("Authorize", ctx, suite.identity, domain.OpCreatePosting).Return(nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.organizationID, mock.Anything).
		Return(suite.accountsMap(suite.bankAccount, suite.salesAccount), nil).Once()

	_, err := suite.service.CreatePosting(ctx, suite.organizationID, suite.identity, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "does not exist")
}

func (suite *PostingServiceTestSuite) TestCreatePosting_IdempotentReplay() {
	ctx := context.Background()
	req := suite.invoiceRequest()
	req.IdempotencyToken = uuid.NewString()

	scopeKey := suite.idempotencySvc.ScopeKey(string(domain.OpCreatePosting), req.IdempotencyToken, suite.identity.UserID)
	requestHash, err := suite.idempotencySvc.HashPayload(req)
	suite.Require().NoError(err)

	cachedBody := json.RawMessage(`{"headerID":"cached-header"}`)
	cached := &domain.IdempotencyKey{
		OrganizationID: suite.organizationID,
		ScopeKey:       scopeKey,
		RequestHash:    requestHash,
		Response:       cachedBody,
		StatusCode:     http.StatusCreated,
	}

	suite.mockAuthorizer.On("Authorize", ctx, suite.identity, domain.OpCreatePosting).Return(nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.organizationID, mock.Anything).
		Return(suite.accountsMap(suite.bankAccount, suite.salesAccount, suite.vatAccount), nil).Once()
	suite.mockIdemRepo.On("FindByScopeKey", ctx, suite.organizationID, scopeKey).Return(cached, nil).Once()

	result, err := suite.service.CreatePosting(ctx, suite.organizationID, suite.identity, req)

	suite.Require().NoError(err)
	suite.True(result.Replayed)
	suite.Equal(http.StatusCreated, result.StatusCode)
	suite.Equal(cachedBody, result.Raw)
	suite.Nil(result.Response)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SavePosting", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestCreatePosting_IdempotencyPayloadMismatch() {
	ctx := context.Background()
	req := suite.invoiceRequest()
	req.IdempotencyToken = uuid.NewString()

	scopeKey := suite.idempotencySvc.ScopeKey(string(domain.OpCreatePosting), req.IdempotencyToken, suite.identity.UserID)
	cached := &domain.IdempotencyKey{
		OrganizationID: suite.organizationID,
		ScopeKey:       scopeKey,
		RequestHash:    "a-different-hash",
		StatusCode:     http.StatusCreated,
	}

	suite.mockAuthorizer.On("Authorize", ctx, suite.identity, domain.OpCreatePosting).Return(nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.organizationID, mock.Anything).
		Return(suite.accountsMap(suite.bankAccount, suite.salesAccount, suite.vatAccount), nil).Once()
	suite.mockIdemRepo.On("FindByScopeKey", ctx, suite.organizationID, scopeKey).Return(cached, nil).Once()

	_, err := suite.service.CreatePosting(ctx, suite.organizationID, suite.identity, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SavePosting", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestCreatePosting_ConcurrentKeyRaceReplaysWinner() {
	ctx := context.Background()
	req := suite.invoiceRequest()
	req.IdempotencyToken = uuid.NewString()

	scopeKey := suite.idempotencySvc.ScopeKey(string(domain.OpCreatePosting), req.IdempotencyToken, suite.identity.UserID)
	requestHash, err := suite.idempotencySvc.HashPayload(req)
	suite.Require().NoError(err)

	cachedBody := json.RawMessage(`{"headerID":"winner-header"}`)
	winner := &domain.IdempotencyKey{
		OrganizationID: suite.organizationID,
		ScopeKey:       scopeKey,
		RequestHash:    requestHash,
		Response:       cachedBody,
		StatusCode:     http.StatusCreated,
	}

	suite.mockAuthorizer.On("Authorize", ctx, suite.identity, domain.OpCreatePosting).Return(nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.organizationID, mock.Anything).
		Return(suite.accountsMap(suite.bankAccount, suite.salesAccount, suite.vatAccount), nil).Once()
	// First sight when resolving, then the unique constraint fires on commit.
	suite.mockIdemRepo.On("FindByScopeKey", ctx, suite.organizationID, scopeKey).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLedgerRepo.On("SavePosting", ctx, mock.AnythingOfType("domain.GLHeader"), mock.AnythingOfType("[]domain.GLLine"), mock.AnythingOfType("*domain.IdempotencyKey")).Return(apperrors.ErrDuplicate).Once()
	suite.mockIdemRepo.On("FindByScopeKey", ctx, suite.organizationID, scopeKey).Return(winner, nil).Once()

	result, err := suite.service.CreatePosting(ctx, suite.organizationID, suite.identity, req)

	suite.Require().NoError(err)
	suite.True(result.Replayed)
	suite.Equal(cachedBody, result.Raw)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
	suite.mockIdemRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestReversePosting_Success() {
	ctx := context.Background()
	headerID := uuid.NewString()
	original := &domain.GLHeader{
		HeaderID:       headerID,
		OrganizationID: suite.organizationID,
		SourceType:     domain.SourceInvoice,
		SourceID:       uuid.NewString(),
		Description:    "Invoice INV-001",
		TotalDebit:     decimal.RequireFromString("130.50"),
		TotalCredit:    decimal.RequireFromString("130.50"),
	}
	originalLines := []domain.GLLine{
		{LineID: uuid.NewString(), HeaderID: headerID, LineNumber: 1, AccountID: suite.bankAccount.AccountID, Debit: decimal.RequireFromString("130.50")},
		{LineID: uuid.NewString(), HeaderID: headerID, LineNumber: 2, AccountID: suite.salesAccount.AccountID, Credit: decimal.RequireFromString("130.50")},
	}

	suite.mockAuthorizer.On("Authorize", ctx, suite.identity, domain.OpReversePosting).Return(nil).Once()
	suite.mockLedgerRepo.On("FindHeaderByID", ctx, headerID).Return(original, nil).Once()
	suite.mockLedgerRepo.On("FindReversalOf", ctx, headerID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLedgerRepo.On("FindLinesByHeaderID", ctx, headerID).Return(originalLines, nil).Once()
	suite.mockLedgerRepo.On("SavePosting", ctx, mock.AnythingOfType("domain.GLHeader"), mock.AnythingOfType("[]domain.GLLine"), (*domain.IdempotencyKey)(nil)).Return(nil).Once()

	resp, err := suite.service.ReversePosting(ctx, suite.organizationID, suite.identity, headerID)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.NotEqual(headerID, resp.HeaderID)
	suite.Equal("130.50", resp.TotalDebit)
	suite.Equal("130.50", resp.TotalCredit)

	var savedHeader domain.GLHeader
	var savedLines []domain.GLLine
	for _, call := range suite.mockLedgerRepo.Calls {
		if call.Method == "SavePosting" {
			savedHeader = call.Arguments.Get(1).(domain.GLHeader)
			savedLines = call.Arguments.Get(2).([]domain.GLLine)
		}
	}
	suite.Equal(domain.SourceReversal, savedHeader.SourceType)
	suite.Require().NotNil(savedHeader.ReversesHeaderID)
	suite.Equal(headerID, *savedHeader.ReversesHeaderID)
	// Sides swap, amounts carry over exactly.
	suite.True(savedLines[0].Credit.Equal(originalLines[0].Debit))
	suite.True(savedLines[1].Debit.Equal(originalLines[1].Credit))

	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestReversePosting_AlreadyReversed() {
	ctx := context.Background()
	headerID := uuid.NewString()
	original := &domain.GLHeader{
		HeaderID:       headerID,
		OrganizationID: suite.organizationID,
		TotalDebit:     decimal.RequireFromString("50.00"),
		TotalCredit:    decimal.RequireFromString("50.00"),
	}
	existingReversal := &domain.GLHeader{
		HeaderID:         uuid.NewString(),
		OrganizationID:   suite.organizationID,
		ReversesHeaderID: &headerID,
	}

	suite.mockAuthorizer.On("Authorize", ctx, suite.identity, domain.OpReversePosting).Return(nil).Once()
	suite.mockLedgerRepo.On("FindHeaderByID", ctx, headerID).Return(original, nil).Once()
	suite.mockLedgerRepo.On("FindReversalOf", ctx, headerID).Return(existingReversal, nil).Once()

	_, err := suite.service.ReversePosting(ctx, suite.organizationID, suite.identity, headerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SavePosting", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestReversePosting_OfReversal() {
	ctx := context.Background()
	originalID := uuid.NewString()
	headerID := uuid.NewString()
	reversalHeader := &domain.GLHeader{
		HeaderID:         headerID,
		OrganizationID:   suite.organizationID,
		SourceType:       domain.SourceReversal,
		ReversesHeaderID: &originalID,
	}

	suite.mockAuthorizer.On("Authorize", ctx, suite.identity, domain.OpReversePosting).Return(nil).Once()
	suite.mockLedgerRepo.On("FindHeaderByID", ctx, headerID).Return(reversalHeader, nil).Once()

	_, err := suite.service.ReversePosting(ctx, suite.organizationID, suite.identity, headerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Contains(err.Error(), "itself a reversal")
}

func (suite *PostingServiceTestSuite) TestGetPosting_WrongOrganization() {
	ctx := context.Background()
	headerID := uuid.NewString()
	foreign := &domain.GLHeader{
		HeaderID:       headerID,
		OrganizationID: uuid.NewString(),
	}

	suite.mockAuthorizer.On("Authorize", ctx, suite.identity, domain.OpReadPosting).Return(nil).Once()
	suite.mockLedgerRepo.On("FindHeaderByID", ctx, headerID).Return(foreign, nil).Once()

	_, err := suite.service.GetPosting(ctx, suite.organizationID, suite.identity, headerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
