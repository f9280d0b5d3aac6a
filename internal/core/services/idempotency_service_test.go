package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/openbooks-app/openbooks/internal/apperrors"
	"github.com/openbooks-app/openbooks/internal/core/domain"
	portssvc "github.com/openbooks-app/openbooks/internal/core/ports/services"
	"github.com/openbooks-app/openbooks/internal/core/services"
)

type IdempotencyServiceTestSuite struct {
	suite.Suite
	mockIdemRepo   *MockIdempotencyRepository
	service        portssvc.IdempotencySvc
	organizationID string
	actorID        string
}

func (suite *IdempotencyServiceTestSuite) SetupTest() {
	suite.mockIdemRepo = new(MockIdempotencyRepository)
	suite.service = services.NewIdempotencyService(suite.mockIdemRepo)
	suite.organizationID = uuid.NewString()
	suite.actorID = uuid.NewString()
}

func (suite *IdempotencyServiceTestSuite) TestScopeKey_BindsOperationAndActor() {
	keyA := suite.service.ScopeKey("posting.create", "token-1", "user-1")
	keyB := suite.service.ScopeKey("posting.reverse", "token-1", "user-1")
	keyC := suite.service.ScopeKey("posting.create", "token-1", "user-2")

	suite.Equal("posting.create:token-1:user-1", keyA)
	// The same client token scoped to a different operation or actor is a
	// different key.
	suite.NotEqual(keyA, keyB)
	suite.NotEqual(keyA, keyC)
}

func (suite *IdempotencyServiceTestSuite) TestHashPayload_Stable() {
	payload := map[string]string{"a": "1", "b": "2"}

	first, err := suite.service.HashPayload(payload)
	suite.Require().NoError(err)
	second, err := suite.service.HashPayload(payload)
	suite.Require().NoError(err)

	suite.Equal(first, second)
	suite.Len(first, 64) // hex-encoded SHA-256

	other, err := suite.service.HashPayload(map[string]string{"a": "1", "b": "3"})
	suite.Require().NoError(err)
	suite.NotEqual(first, other)
}

func (suite *IdempotencyServiceTestSuite) TestResolve_FirstSight() {
	ctx := context.Background()
	scopeKey := "posting.create:tok:" + suite.actorID

	suite.mockIdemRepo.On("FindByScopeKey", ctx, suite.organizationID, scopeKey).Return(nil, apperrors.ErrNotFound).Once()

	record, err := suite.service.Resolve(ctx, suite.organizationID, scopeKey, "hash")

	suite.Require().NoError(err)
	suite.Nil(record)
}

func (suite *IdempotencyServiceTestSuite) TestResolve_ReplayOnMatchingHash() {
	ctx := context.Background()
	scopeKey := "posting.create:tok:" + suite.actorID
	stored := &domain.IdempotencyKey{
		OrganizationID: suite.organizationID,
		ScopeKey:       scopeKey,
		RequestHash:    "hash",
		StatusCode:     http.StatusCreated,
	}

	suite.mockIdemRepo.On("FindByScopeKey", ctx, suite.organizationID, scopeKey).Return(stored, nil).Once()

	record, err := suite.service.Resolve(ctx, suite.organizationID, scopeKey, "hash")

	suite.Require().NoError(err)
	suite.Equal(stored, record)
}

func (suite *IdempotencyServiceTestSuite) TestResolve_ConflictOnHashMismatch() {
	ctx := context.Background()
	scopeKey := "posting.create:tok:" + suite.actorID
	stored := &domain.IdempotencyKey{
		OrganizationID: suite.organizationID,
		ScopeKey:       scopeKey,
		RequestHash:    "original-hash",
	}

	suite.mockIdemRepo.On("FindByScopeKey", ctx, suite.organizationID, scopeKey).Return(stored, nil).Once()

	_, err := suite.service.Resolve(ctx, suite.organizationID, scopeKey, "tampered-hash")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *IdempotencyServiceTestSuite) TestRecord_CapturesResponseVerbatim() {
	response := map[string]any{"headerID": "h-1", "lineIDs": []string{"l-1", "l-2"}}

	record, err := suite.service.Record(suite.organizationID, "scope", "hash", response, http.StatusCreated, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(suite.organizationID, record.OrganizationID)
	suite.Equal("scope", record.ScopeKey)
	suite.Equal("hash", record.RequestHash)
	suite.Equal(http.StatusCreated, record.StatusCode)
	suite.Equal(suite.actorID, record.CreatedBy)
	suite.JSONEq(`{"headerID":"h-1","lineIDs":["l-1","l-2"]}`, string(record.Response))
}

func TestIdempotencyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(IdempotencyServiceTestSuite))
}
