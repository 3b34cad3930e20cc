package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/munshibooks/munshi_backend/internal/apperrors"
	"github.com/munshibooks/munshi_backend/internal/core/domain"
	portssvc "github.com/munshibooks/munshi_backend/internal/core/ports/services"
	"github.com/munshibooks/munshi_backend/internal/dto"
	"github.com/munshibooks/munshi_backend/internal/handlers"
	"github.com/munshibooks/munshi_backend/internal/middleware"
	"github.com/munshibooks/munshi_backend/internal/utils/periods"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

var _ portssvc.ReportingSvcFacade = (*MockReportingService)(nil)

func (m *MockReportingService) TrialBalance(ctx context.Context, companyID string, from, to time.Time) (*domain.TrialBalanceReport, error) {
	args := m.Called(ctx, companyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalanceReport), args.Error(1)
}

func (m *MockReportingService) BalanceSheet(ctx context.Context, companyID string, asOf time.Time) (*domain.BalanceSheetReport, error) {
	args := m.Called(ctx, companyID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheetReport), args.Error(1)
}

func (m *MockReportingService) ProfitLoss(ctx context.Context, companyID string, from, to time.Time) (*domain.ProfitLossReport, error) {
	args := m.Called(ctx, companyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProfitLossReport), args.Error(1)
}

// --- Test Suite ---
type ReportingHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockReportingService
	jwtSecret   string
	companyID   string
	userID      string
}

func (suite *ReportingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))
	suite.mockService = new(MockReportingService)

	company := suite.router.Group("/api/v1/companies/:companyID")
	handlers.RegisterReportingRoutes(company, suite.mockService)
}

func (suite *ReportingHandlerTestSuite) doGet(url string) *httptest.ResponseRecorder {
	claims := jwt.RegisteredClaims{
		Issuer:    "munshi-test",
		Subject:   suite.userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	suite.Require().NoError(err)

	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *ReportingHandlerTestSuite) TestGetTrialBalance_ExplicitRange() {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	report := &domain.TrialBalanceReport{
		From: from, To: to,
		Rows: []domain.TrialBalanceRow{
			{AccountID: uuid.NewString(), AccountName: "Cash", AccountType: domain.Asset,
				TotalDebits: decimal.NewFromInt(100), TotalCredits: decimal.Zero},
		},
		TotalDebits: decimal.NewFromInt(100), TotalCredits: decimal.NewFromInt(100),
		Difference: decimal.Zero, IsBalanced: true,
	}

	suite.mockService.On("TrialBalance", mock.Anything, suite.companyID, from, to).Return(report, nil).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/reports/trial-balance?from=2026-01-01&to=2026-03-31", suite.companyID)
	w := suite.doGet(url)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TrialBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("2026-01-01", resp.From)
	suite.True(resp.IsBalanced)
	suite.Require().Len(resp.Rows, 1)
	suite.Equal("Cash", resp.Rows[0].AccountName)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ReportingHandlerTestSuite) TestGetTrialBalance_CanonicalPeriod() {
	r := periods.Canonical(time.Now().UTC())["lastMonth"]
	report := &domain.TrialBalanceReport{
		From: r.From, To: r.To,
		Rows:        []domain.TrialBalanceRow{},
		TotalDebits: decimal.Zero, TotalCredits: decimal.Zero,
		Difference: decimal.Zero, IsBalanced: true,
	}

	suite.mockService.On("TrialBalance", mock.Anything, suite.companyID, r.From, r.To).Return(report, nil).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/reports/trial-balance?period=lastMonth", suite.companyID)
	w := suite.doGet(url)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ReportingHandlerTestSuite) TestGetTrialBalance_UnknownPeriodReturns400() {
	url := fmt.Sprintf("/api/v1/companies/%s/reports/trial-balance?period=fortnight", suite.companyID)
	w := suite.doGet(url)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "TrialBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingHandlerTestSuite) TestGetTrialBalance_InvertedRangeReturns400() {
	url := fmt.Sprintf("/api/v1/companies/%s/reports/trial-balance?from=2026-03-31&to=2026-01-01", suite.companyID)
	w := suite.doGet(url)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ReportingHandlerTestSuite) TestGetTrialBalance_UnknownCompanyReturns404() {
	suite.mockService.On("TrialBalance", mock.Anything, suite.companyID, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("company %s not found: %w", suite.companyID, apperrors.ErrNotFound)).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/reports/trial-balance?from=2026-01-01&to=2026-03-31", suite.companyID)
	w := suite.doGet(url)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ReportingHandlerTestSuite) TestGetBalanceSheet_ExplicitAsOf() {
	asOf := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	report := &domain.BalanceSheetReport{
		AsOf:   asOf,
		Assets: []domain.BalanceSheetEntry{{AccountID: uuid.NewString(), Name: "Cash", Balance: decimal.NewFromInt(500), NormalBalance: domain.Debit}},
		Liabilities: []domain.BalanceSheetEntry{}, Equity: []domain.BalanceSheetEntry{},
		TotalAssets: decimal.NewFromInt(500), TotalLiabilities: decimal.Zero, TotalEquity: decimal.Zero,
		TotalLiabilitiesAndEquity: decimal.Zero, Difference: decimal.NewFromInt(500), IsBalanced: false,
	}

	suite.mockService.On("BalanceSheet", mock.Anything, suite.companyID, asOf).Return(report, nil).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/reports/balance-sheet?asOf=2026-06-30", suite.companyID)
	w := suite.doGet(url)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.BalanceSheetResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("2026-06-30", resp.AsOf)
	suite.False(resp.IsBalanced)
	suite.Require().Len(resp.Assets, 1)
	suite.Equal("DEBIT", resp.Assets[0].NormalBalance)
}

func (suite *ReportingHandlerTestSuite) TestGetBalanceSheet_BadDateReturns400() {
	url := fmt.Sprintf("/api/v1/companies/%s/reports/balance-sheet?asOf=June-30", suite.companyID)
	w := suite.doGet(url)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "BalanceSheet", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingHandlerTestSuite) TestGetProfitLoss_Success() {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	report := &domain.ProfitLossReport{
		From: from, To: to,
		Revenue:  []domain.ProfitLossLine{{AccountID: uuid.NewString(), Name: "Sales", Amount: decimal.NewFromInt(900)}},
		Expenses: []domain.ProfitLossLine{{AccountID: uuid.NewString(), Name: "Rent", Amount: decimal.NewFromInt(200)}},
		TotalRevenue: decimal.NewFromInt(900), TotalExpenses: decimal.NewFromInt(200),
		GrossProfit: decimal.NewFromInt(900), NetProfit: decimal.NewFromInt(700),
	}

	suite.mockService.On("ProfitLoss", mock.Anything, suite.companyID, from, to).Return(report, nil).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/reports/profit-loss?from=2026-01-01&to=2026-12-31", suite.companyID)
	w := suite.doGet(url)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ProfitLossResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Summary.NetProfit.Equal(decimal.NewFromInt(700)))
	suite.Require().Len(resp.Revenue, 1)
	suite.Equal("Sales", resp.Revenue[0].Name)
}

func (suite *ReportingHandlerTestSuite) TestGetPeriods_ReturnsCanonicalRanges() {
	url := fmt.Sprintf("/api/v1/companies/%s/reports/periods", suite.companyID)
	w := suite.doGet(url)

	suite.Equal(http.StatusOK, w.Code)
	var resp map[string]map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	for _, name := range []string{"lastMonth", "lastQuarter", "currentYear", "lastYear"} {
		suite.Contains(resp, name)
		suite.NotEmpty(resp[name]["from"])
		suite.NotEmpty(resp[name]["to"])
	}
}

func TestReportingHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingHandlerTestSuite))
}
