package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/expense_fx_engine/internal/apperrors"
	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
	portssvc "github.com/SscSPs/expense_fx_engine/internal/core/ports/services"
	"github.com/SscSPs/expense_fx_engine/internal/core/services"
	"github.com/SscSPs/expense_fx_engine/internal/dto"
	"github.com/SscSPs/expense_fx_engine/internal/handlers"
	"github.com/SscSPs/expense_fx_engine/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ExchangeRateService ---
type MockExchangeRateService struct {
	mock.Mock
}

func (m *MockExchangeRateService) ResolveRate(ctx context.Context, tenantID, from, to string, date *time.Time) (*domain.ResolvedRate, error) {
	args := m.Called(ctx, tenantID, from, to, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResolvedRate), args.Error(1)
}

func (m *MockExchangeRateService) ResolveBatch(ctx context.Context, tenantID, target string, date *time.Time) (*domain.BatchResult, error) {
	args := m.Called(ctx, tenantID, target, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchResult), args.Error(1)
}

func (m *MockExchangeRateService) ListMonthlyRates(ctx context.Context, tenantID string, yearMonth domain.YearMonth) ([]domain.MonthlyExchangeRate, error) {
	args := m.Called(ctx, tenantID, yearMonth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyExchangeRate), args.Error(1)
}

func (m *MockExchangeRateService) SaveManualRate(ctx context.Context, tenantID string, req dto.SaveManualRateRequest, userID string) (*domain.MonthlyExchangeRate, error) {
	args := m.Called(ctx, tenantID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyExchangeRate), args.Error(1)
}

var _ portssvc.ExchangeRateSvcFacade = (*MockExchangeRateService)(nil)

// --- Mock RuleService ---
type MockRuleService struct {
	mock.Mock
}

func (m *MockRuleService) ListRules(ctx context.Context, tenantID string, status *domain.RuleStatus) ([]domain.ExchangeRateRule, error) {
	args := m.Called(ctx, tenantID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRateRule), args.Error(1)
}

func (m *MockRuleService) CreateRule(ctx context.Context, tenantID string, req dto.CreateRuleRequest, userID string) (*domain.ExchangeRateRule, error) {
	args := m.Called(ctx, tenantID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRateRule), args.Error(1)
}

func (m *MockRuleService) ArchiveRule(ctx context.Context, tenantID, ruleID, userID string) (*domain.ExchangeRateRule, error) {
	args := m.Called(ctx, tenantID, ruleID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRateRule), args.Error(1)
}

var _ portssvc.RuleSvcFacade = (*MockRuleService)(nil)

// --- Suite ---
type HandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	jwtSecret       string
	tenantID        string
	userID          string
	mockRateService *MockExchangeRateService
	mockRuleService *MockRuleService
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

// generateTestToken creates a JWT for the suite's tenant and user.
func (suite *HandlerTestSuite) generateTestToken(roles ...string) string {
	claims := middleware.AuthClaims{
		TenantID: suite.tenantID,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   suite.userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.mockRateService = new(MockExchangeRateService)
	suite.mockRuleService = new(MockRuleService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret, ""))
	handlers.RegisterCurrencyRoutes(v1, services.NewSystemCurrencyRegistry())
	handlers.RegisterExchangeRateRoutes(v1, suite.mockRateService)
	handlers.RegisterMonthlyRateRoutes(v1, suite.mockRateService)
	handlers.RegisterRuleRoutes(v1, suite.mockRuleService)
}

func (suite *HandlerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(middleware.RoleRateAdmin))
	req.Header.Set("Accept", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func onDate(y int, m time.Month, d int) interface{} {
	want := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return mock.MatchedBy(func(date *time.Time) bool {
		return date != nil && date.Equal(want)
	})
}

// --- Currencies ---

func (suite *HandlerTestSuite) TestListCurrencies() {
	w := suite.do(http.MethodGet, "/api/v1/currencies", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.CurrencyResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp, len(domain.SystemCurrencies))
}

func (suite *HandlerTestSuite) TestGetCurrency() {
	w := suite.do(http.MethodGet, "/api/v1/currencies/usd", "")
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/currencies/XYZ", "")
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/currencies/U1", "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

// --- Resolution ---

func (suite *HandlerTestSuite) TestResolveRate_Success() {
	ruleID := uuid.NewString()
	resolved := &domain.ResolvedRate{
		FromCurrency: "USD",
		ToCurrency:   "CNY",
		Rate:         decimal.RequireFromString("7.2"),
		Source:       domain.ResolutionFixed,
		Timestamp:    time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		YearMonth:    "2024-03",
		RuleID:       &ruleID,
	}
	suite.mockRateService.On("ResolveRate", mock.Anything, suite.tenantID, "USD", "CNY", onDate(2024, 3, 15)).
		Return(resolved, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/exchange-rates/USD/CNY?date=2024-03-15", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ResolvedRateResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("7.2", resp.Rate.String())
	suite.Equal("fixed", resp.Source)
	suite.Equal("2024-03", resp.YearMonth)
	suite.Require().NotNil(resp.RuleID)
	suite.Equal(ruleID, *resp.RuleID)
	suite.mockRateService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestResolveRate_NoDateMeansNil() {
	suite.mockRateService.On("ResolveRate", mock.Anything, suite.tenantID, "USD", "USD", (*time.Time)(nil)).
		Return(&domain.ResolvedRate{FromCurrency: "USD", ToCurrency: "USD", Rate: decimal.NewFromInt(1), Source: domain.ResolutionIdentity}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/exchange-rates/USD/USD", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.mockRateService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestResolveRate_BadDate() {
	w := suite.do(http.MethodGet, "/api/v1/exchange-rates/USD/CNY?date=15-03-2024", "")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRateService.AssertNotCalled(suite.T(), "ResolveRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestResolveRate_ErrorMapping() {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid code", apperrors.ErrInvalidCurrencyCode, http.StatusBadRequest},
		{"unavailable", apperrors.ErrRateUnavailableForPeriod, http.StatusNotFound},
		{"no rule", apperrors.ErrRuleNotFound, http.StatusNotFound},
		{"cycle", apperrors.ErrFallbackCycleDetected, http.StatusConflict},
		{"too deep", apperrors.ErrFallbackChainTooDeep, http.StatusConflict},
		{"provider", apperrors.ErrProviderUnavailable, http.StatusServiceUnavailable},
		{"other", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()
			suite.mockRateService.On("ResolveRate", mock.Anything, suite.tenantID, "THB", "USD", (*time.Time)(nil)).
				Return(nil, tt.err).Once()

			w := suite.do(http.MethodGet, "/api/v1/exchange-rates/THB/USD", "")

			suite.Equal(tt.status, w.Code)
		})
	}
}

func (suite *HandlerTestSuite) TestResolveBatch_Success() {
	result := &domain.BatchResult{
		Target:    "CNY",
		YearMonth: "2024-03",
		Rates: map[string]domain.BatchEntry{
			"USD": {Rate: decimal.RequireFromString("7.2"), Source: domain.ResolutionAPI},
			"KRW": {Rate: decimal.NewFromInt(1), Source: domain.ResolutionError},
		},
		ResolvedAt: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
	}
	suite.mockRateService.On("ResolveBatch", mock.Anything, suite.tenantID, "CNY", onDate(2024, 3, 1)).
		Return(result, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/exchange-rates/batch/CNY?date=2024-03-01", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.BatchRatesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("CNY", resp.Target)
	suite.Len(resp.Rates, 2)
	suite.Equal("error", resp.Rates["KRW"].Source)
	suite.Equal("1", resp.Rates["KRW"].Rate.String())
}

func (suite *HandlerTestSuite) TestResolveBatch_InvalidTarget() {
	suite.mockRateService.On("ResolveBatch", mock.Anything, suite.tenantID, "C1Y", (*time.Time)(nil)).
		Return(nil, apperrors.ErrInvalidCurrencyCode).Once()

	w := suite.do(http.MethodGet, "/api/v1/exchange-rates/batch/C1Y", "")

	suite.Equal(http.StatusBadRequest, w.Code)
}

// --- Monthly rates ---

func (suite *HandlerTestSuite) TestSaveManualRate() {
	req := dto.SaveManualRateRequest{
		FromCurrency: "THB",
		ToCurrency:   "CNY",
		YearMonth:    "2024-03",
		Rate:         decimal.RequireFromString("0.2"),
	}
	key := domain.MonthlyRateKey{TenantID: suite.tenantID, FromCurrency: "THB", ToCurrency: "CNY", YearMonth: "2024-03", Source: domain.RateSourceManual}
	saved := domain.NewMonthlyExchangeRate(key, req.Rate, suite.userID, time.Now())
	suite.mockRateService.On("SaveManualRate", mock.Anything, suite.tenantID,
		mock.MatchedBy(func(got dto.SaveManualRateRequest) bool {
			return got.FromCurrency == "THB" && got.YearMonth == "2024-03" && got.Rate.Equal(req.Rate)
		}), suite.userID).Return(&saved, nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/monthly-rates", `{"fromCurrency":"THB","toCurrency":"CNY","yearMonth":"2024-03","rate":"0.2"}`)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.MonthlyRateResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("manual", resp.Source)
	suite.mockRateService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestSaveManualRate_BadJSONAndForbidden() {
	w := suite.do(http.MethodPut, "/api/v1/monthly-rates", `{"rate":`)
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.mockRateService.On("SaveManualRate", mock.Anything, suite.tenantID, mock.Anything, suite.userID).
		Return(nil, apperrors.ErrForbidden).Once()
	w = suite.do(http.MethodPut, "/api/v1/monthly-rates", `{"fromCurrency":"THB","toCurrency":"CNY","yearMonth":"2024-03","rate":"0.2"}`)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestListMonthlyRates() {
	suite.mockRateService.On("ListMonthlyRates", mock.Anything, suite.tenantID, domain.YearMonth("2024-03")).
		Return([]domain.MonthlyExchangeRate{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/monthly-rates?yearMonth=2024-03", "")
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/monthly-rates?yearMonth=March", "")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRateService.AssertNumberOfCalls(suite.T(), "ListMonthlyRates", 1)
}

// --- Rules ---

func (suite *HandlerTestSuite) TestListRules_StatusFilter() {
	active := domain.RuleStatusActive
	suite.mockRuleService.On("ListRules", mock.Anything, suite.tenantID, &active).
		Return([]domain.ExchangeRateRule{{RuleID: "r1", Status: domain.RuleStatusActive, Currencies: []string{"USD"}}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/rules?status=active", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.RuleResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp, 1)
	suite.Equal("r1", resp[0].RuleID)
}

func (suite *HandlerTestSuite) TestCreateRule() {
	created := &domain.ExchangeRateRule{
		RuleID:        uuid.NewString(),
		TenantID:      &suite.tenantID,
		Description:   "peg",
		Source:        domain.RuleSourceFixed,
		Currencies:    []string{"USD", "CNY"},
		FixedRates:    map[string]decimal.Decimal{"USD/CNY": decimal.RequireFromString("7.2")},
		EffectiveFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:        domain.RuleStatusActive,
	}
	suite.mockRuleService.On("CreateRule", mock.Anything, suite.tenantID,
		mock.MatchedBy(func(req dto.CreateRuleRequest) bool {
			return req.Source == domain.RuleSourceFixed && len(req.Currencies) == 2 && req.FixedRates["USD/CNY"].Equal(decimal.RequireFromString("7.2"))
		}), suite.userID).Return(created, nil).Once()

	body := `{"description":"peg","source":"fixed","currencies":["USD","CNY"],"fixedRates":{"USD/CNY":"7.2"},"effectiveFrom":"2024-01-01T00:00:00Z","priority":0}`
	w := suite.do(http.MethodPost, "/api/v1/rules", body)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.RuleResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.RuleID, resp.RuleID)
	suite.mockRuleService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestCreateRule_ValidationError() {
	suite.mockRuleService.On("CreateRule", mock.Anything, suite.tenantID, mock.Anything, suite.userID).
		Return(nil, apperrors.NewValidationError("fixedRates are required for fixed rules")).Once()

	w := suite.do(http.MethodPost, "/api/v1/rules", `{"description":"peg","source":"fixed","currencies":["USD"],"effectiveFrom":"2024-01-01T00:00:00Z"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "fixedRates")
}

func (suite *HandlerTestSuite) TestArchiveRule() {
	archived := &domain.ExchangeRateRule{RuleID: "r1", Status: domain.RuleStatusArchived}
	suite.mockRuleService.On("ArchiveRule", mock.Anything, suite.tenantID, "r1", suite.userID).Return(archived, nil).Once()
	suite.mockRuleService.On("ArchiveRule", mock.Anything, suite.tenantID, "missing", suite.userID).
		Return(nil, apperrors.NewNotFoundError("rule missing")).Once()

	w := suite.do(http.MethodPost, "/api/v1/rules/r1/archive", "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"status":"archived"`)

	w = suite.do(http.MethodPost, "/api/v1/rules/missing/archive", "")
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestRequiresToken() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/currencies", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}
