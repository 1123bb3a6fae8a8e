package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/handlers"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/SscSPs/ledger_engine/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testUserID = "user-7"

// --- Test Suite ---
type HandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockQuery      *MockQueryService
	mockConverter  *MockConverterService
	mockResolver   *MockResolverService
	mockReconciler *MockReconcilerService
	jwtSecret      string
}

// generateTestToken creates a signed JWT whose subject is userID.
func (suite *HandlerTestSuite) generateTestToken(userID string) string {
	signed, err := utils.IssueUserToken(userID, suite.jwtSecret, time.Hour)
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(handlers.RegisterValidators())

	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockQuery = new(MockQueryService)
	suite.mockConverter = new(MockConverterService)
	suite.mockResolver = new(MockResolverService)
	suite.mockReconciler = new(MockReconcilerService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret))
	handlers.RegisterJournalRoutes(v1, suite.mockQuery, suite.mockConverter)
	handlers.RegisterLegRoutes(v1, suite.mockQuery, suite.mockResolver, suite.mockReconciler)
}

func (suite *HandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(testUserID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func sampleLeg(id, journalID int64, amount string) domain.TransactionLeg {
	return domain.TransactionLeg{
		ID:        id,
		JournalID: journalID,
		AccountID: 3,
		Amount:    decimal.RequireFromString(amount),
		Account:   &domain.Account{ID: 3, Name: "Checking", Role: domain.RoleAsset},
	}
}

// --- Test Cases ---

func (suite *HandlerTestSuite) TestMissingToken_Unauthorized() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/journals/1", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockQuery.AssertNotCalled(suite.T(), "JournalByID")
}

func (suite *HandlerTestSuite) TestGetJournal_Success() {
	journal := &domain.Journal{
		ID:   12,
		Kind: domain.KindWithdrawal,
		Legs: []domain.TransactionLeg{sampleLeg(1, 12, "-10"), sampleLeg(2, 12, "10")},
	}
	suite.mockQuery.On("JournalByID", mock.Anything, testUserID, int64(12)).Return(journal, true, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/journals/12", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.JournalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(12), resp.JournalID)
	suite.Len(resp.Legs, 2)
	suite.True(resp.Legs[0].Amount.Equal(decimal.NewFromInt(-10)))
	suite.mockQuery.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestGetJournal_NotFound() {
	suite.mockQuery.On("JournalByID", mock.Anything, testUserID, int64(99)).Return(nil, false, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/journals/99", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestGetJournal_InvalidID() {
	w := suite.do(http.MethodGet, "/api/v1/journals/abc", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockQuery.AssertNotCalled(suite.T(), "JournalByID")
}

func (suite *HandlerTestSuite) TestGetJournal_StorageFailureHidesDetails() {
	suite.mockQuery.On("JournalByID", mock.Anything, testUserID, int64(5)).
		Return(nil, false, errors.New("connection refused")).Once()

	w := suite.do(http.MethodGet, "/api/v1/journals/5", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "connection refused")
}

func (suite *HandlerTestSuite) TestGetFirstJournal_NoneFound() {
	suite.mockQuery.On("FirstJournalByDate", mock.Anything, testUserID).Return(nil, false, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/journals/first", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestCountLegs() {
	suite.mockQuery.On("CountLegs", mock.Anything, testUserID, int64(4)).Return(3, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/journals/4/legs/count", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"count":3}`, w.Body.String())
}

func (suite *HandlerTestSuite) TestGetTotal_JournalMissing() {
	suite.mockQuery.On("JournalTotal", mock.Anything, testUserID, int64(4)).
		Return(decimal.Zero, apperrors.NewNotFoundError("journal 4 not found")).Once()

	w := suite.do(http.MethodGet, "/api/v1/journals/4/total", nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Contains(w.Body.String(), "journal 4 not found")
}

func (suite *HandlerTestSuite) TestVerifyIntegrity_Balanced() {
	suite.mockQuery.On("VerifyIntegrity", mock.Anything, testUserID, int64(4)).Return(nil, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/journals/4/integrity", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"balanced":true,"unbalancedGroups":[]}`, w.Body.String())
}

func (suite *HandlerTestSuite) TestSetOrder_Success() {
	suite.mockQuery.On("SetOrder", mock.Anything, testUserID, int64(4), 2).Return(nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/journals/4/order", map[string]int{"order": 2})

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockQuery.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestSetOrder_Negative() {
	w := suite.do(http.MethodPut, "/api/v1/journals/4/order", map[string]int{"order": -1})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockQuery.AssertNotCalled(suite.T(), "SetOrder")
}

func (suite *HandlerTestSuite) TestConvertJournal_Success() {
	req := dto.ConvertJournalRequest{Kind: domain.KindTransfer, SourceAccountID: 3, DestinationAccountID: 9}
	suite.mockConverter.On("ConvertJournal", mock.Anything, testUserID, int64(8), req).
		Return(domain.NewValidationResult(), nil).Once()
	suite.mockQuery.On("JournalByID", mock.Anything, testUserID, int64(8)).
		Return(&domain.Journal{ID: 8, Kind: domain.KindTransfer}, true, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/8/convert", req)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.JournalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.KindTransfer, resp.Kind)
}

func (suite *HandlerTestSuite) TestConvertJournal_PreconditionsFailed() {
	req := dto.ConvertJournalRequest{Kind: domain.KindTransfer, SourceAccountID: 3, DestinationAccountID: 3}
	result := domain.NewValidationResult()
	result.Add(domain.FieldSourceAccountID, "invalid source account")
	result.Add(domain.FieldDestinationAccountID, "invalid destination account")
	suite.mockConverter.On("ConvertJournal", mock.Anything, testUserID, int64(8), req).Return(result, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/8/convert", req)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	var resp dto.ValidationErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Contains(resp.Fields, domain.FieldSourceAccountID)
	suite.Contains(resp.Fields, domain.FieldDestinationAccountID)
	suite.mockQuery.AssertNotCalled(suite.T(), "JournalByID")
}

func (suite *HandlerTestSuite) TestConvertJournal_UnknownKindRejectedByBinding() {
	w := suite.do(http.MethodPost, "/api/v1/journals/8/convert", map[string]any{
		"kind": "refund", "sourceAccountID": 3, "destinationAccountID": 9,
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockConverter.AssertNotCalled(suite.T(), "ConvertJournal")
}

func (suite *HandlerTestSuite) TestListLegs_ParsesIDs() {
	legs := []domain.TransactionLeg{sampleLeg(1, 12, "-10"), sampleLeg(2, 12, "10")}
	suite.mockQuery.On("LegsByIDs", mock.Anything, testUserID, []int64{2, 1}).Return(legs, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/legs?ids=2,%201,", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListLegsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Legs, 2)
}

func (suite *HandlerTestSuite) TestListLegs_InvalidID() {
	w := suite.do(http.MethodGet, "/api/v1/legs?ids=1,x", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockQuery.AssertNotCalled(suite.T(), "LegsByIDs")
}

func (suite *HandlerTestSuite) TestListLegs_TooManyIDs() {
	w := suite.do(http.MethodGet, "/api/v1/legs?ids="+strings.TrimSuffix(strings.Repeat("7,", 501), ","), nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "too many ids")
	suite.mockQuery.AssertNotCalled(suite.T(), "LegsByIDs")
}

func (suite *HandlerTestSuite) TestListLegs_AcceptsLimit() {
	suite.mockQuery.On("LegsByIDs", mock.Anything, testUserID, mock.MatchedBy(func(ids []int64) bool {
		return len(ids) == 500
	})).Return([]domain.TransactionLeg{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/legs?ids="+strings.TrimSuffix(strings.Repeat("7,", 500), ","), nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockQuery.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestGetOpposingLeg() {
	opposing := sampleLeg(2, 12, "10")
	suite.mockResolver.On("FindOpposingLeg", mock.Anything, testUserID, int64(1)).Return(&opposing, true, nil).Once()
	suite.mockResolver.On("FindOpposingLeg", mock.Anything, testUserID, int64(3)).Return(nil, false, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/legs/1/opposing", nil)
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.LegResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(2), resp.LegID)

	w = suite.do(http.MethodGet, "/api/v1/legs/3/opposing", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestReconcileLeg_Success() {
	leg, opposing := sampleLeg(1, 12, "-10"), sampleLeg(2, 12, "10")
	leg.Reconciled, opposing.Reconciled = true, true
	suite.mockReconciler.On("Reconcile", mock.Anything, testUserID, int64(1)).
		Return(domain.ReconciliationOutcome{Reconciled: true, Leg: &leg, Opposing: &opposing}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/legs/1/reconcile", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ReconcileResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Reconciled)
	suite.Require().NotNil(resp.Opposing)
	suite.True(resp.Opposing.Reconciled)
}

func (suite *HandlerTestSuite) TestReconcileLeg_NoOpposingLeg() {
	leg := sampleLeg(1, 12, "-10")
	suite.mockReconciler.On("Reconcile", mock.Anything, testUserID, int64(1)).
		Return(domain.ReconciliationOutcome{Leg: &leg, Reason: domain.ReasonNoOpposingLeg}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/legs/1/reconcile", nil)

	suite.Equal(http.StatusConflict, w.Code)
	var resp dto.ReconcileResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.False(resp.Reconciled)
	suite.Equal(domain.ReasonNoOpposingLeg, resp.Reason)
}

func (suite *HandlerTestSuite) TestReconcileLeg_UnknownLeg() {
	suite.mockReconciler.On("Reconcile", mock.Anything, testUserID, int64(404)).
		Return(domain.ReconciliationOutcome{}, apperrors.NewNotFoundError("leg 404 not found")).Once()

	w := suite.do(http.MethodPost, "/api/v1/legs/404/reconcile", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
