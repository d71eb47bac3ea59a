package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/expense_fx_engine/internal/apperrors"
	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
	"github.com/SscSPs/expense_fx_engine/internal/core/ports/gateways"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock RuleRepository ---
type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) FindCandidateRules(ctx context.Context, tenantID, currencyCode string, date time.Time) ([]domain.ExchangeRateRule, error) {
	args := m.Called(ctx, tenantID, currencyCode, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRateRule), args.Error(1)
}

func (m *MockRuleRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.ExchangeRateRule, error) {
	args := m.Called(ctx, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRateRule), args.Error(1)
}

func (m *MockRuleRepository) ListRules(ctx context.Context, tenantID string, status *domain.RuleStatus) ([]domain.ExchangeRateRule, error) {
	args := m.Called(ctx, tenantID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRateRule), args.Error(1)
}

func (m *MockRuleRepository) SaveRule(ctx context.Context, rule domain.ExchangeRateRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) UpdateRuleStatus(ctx context.Context, ruleID string, status domain.RuleStatus, userID string, at time.Time) error {
	args := m.Called(ctx, ruleID, status, userID, at)
	return args.Error(0)
}

// --- Mock MarketRateProvider ---
type MockMarketRateProvider struct {
	mock.Mock
}

func (m *MockMarketRateProvider) FetchRate(ctx context.Context, from, to string, date time.Time) (gateways.MarketQuote, error) {
	args := m.Called(ctx, from, to, date)
	return args.Get(0).(gateways.MarketQuote), args.Error(1)
}

// gatedProvider holds fetches of one pair until release is closed or the fetch context ends.
// Every other pair is answered immediately with the same rate.
type gatedProvider struct {
	from, to string
	rate     decimal.Decimal
	started  chan struct{}
	release  chan struct{}
	once     sync.Once

	mu       sync.Mutex
	calls    int
	fetchErr error
}

func newGatedProvider(from, to, rate string) *gatedProvider {
	return &gatedProvider{
		from:    from,
		to:      to,
		rate:    decimal.RequireFromString(rate),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (p *gatedProvider) FetchRate(ctx context.Context, from, to string, _ time.Time) (gateways.MarketQuote, error) {
	if from != p.from || to != p.to {
		return gateways.MarketQuote{Rate: p.rate}, nil
	}
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	p.once.Do(func() { close(p.started) })

	select {
	case <-p.release:
		return gateways.MarketQuote{Rate: p.rate}, nil
	case <-ctx.Done():
		p.mu.Lock()
		p.fetchErr = ctx.Err()
		p.mu.Unlock()
		return gateways.MarketQuote{}, ctx.Err()
	}
}

func (p *gatedProvider) gatedCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *gatedProvider) lastFetchErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetchErr
}

// --- Mock RateEventPublisher ---
type MockRateEventPublisher struct {
	mock.Mock
}

func (m *MockRateEventPublisher) PublishRateEvent(ctx context.Context, event domain.RateEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// --- Mock AuthorizationGate ---
type MockAuthorizationGate struct {
	mock.Mock
}

func (m *MockAuthorizationGate) AuthorizeRateAdmin(ctx context.Context, tenantID, userID string) error {
	args := m.Called(ctx, tenantID, userID)
	return args.Error(0)
}

func (m *MockAuthorizationGate) AuthorizeGlobalRuleAdmin(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Mock TenantSettingsReader ---
type MockTenantSettings struct {
	mock.Mock
}

func (m *MockTenantSettings) FindBaseCurrency(ctx context.Context, tenantID string) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// --- Mock RateResolver ---
type MockRateResolver struct {
	mock.Mock
}

func (m *MockRateResolver) Resolve(ctx context.Context, tenantID, from, to string, date time.Time) (*domain.ResolvedRate, error) {
	args := m.Called(ctx, tenantID, from, to, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResolvedRate), args.Error(1)
}

// memoryRateRepo is an in-memory monthly rate store with the same key semantics as the
// pgsql repository.
type memoryRateRepo struct {
	mu      sync.Mutex
	rows    map[domain.MonthlyRateKey]domain.MonthlyExchangeRate
	inserts int
	upserts int
}

func newMemoryRateRepo() *memoryRateRepo {
	return &memoryRateRepo{rows: make(map[domain.MonthlyRateKey]domain.MonthlyExchangeRate)}
}

func (r *memoryRateRepo) put(tenantID, from, to string, ym domain.YearMonth, source domain.RateSource, rate string) {
	key := domain.MonthlyRateKey{TenantID: tenantID, FromCurrency: from, ToCurrency: to, YearMonth: ym, Source: source}
	r.rows[key] = domain.NewMonthlyExchangeRate(key, decimal.RequireFromString(rate), "seed", time.Now())
}

func (r *memoryRateRepo) get(key domain.MonthlyRateKey) (domain.MonthlyExchangeRate, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[key]
	return row, ok
}

func (r *memoryRateRepo) FindMonthlyRate(_ context.Context, key domain.MonthlyRateKey) (*domain.MonthlyExchangeRate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[key]
	if !ok {
		return nil, apperrors.NewNotFoundError("monthly rate")
	}
	return &row, nil
}

func (r *memoryRateRepo) ListMonthlyRates(_ context.Context, tenantID string, ym domain.YearMonth) ([]domain.MonthlyExchangeRate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.MonthlyExchangeRate
	for key, row := range r.rows {
		if key.YearMonth == ym && (key.TenantID == tenantID || key.Source == domain.RateSourceAPI) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *memoryRateRepo) ListManualFromCurrencies(_ context.Context, tenantID string, ym domain.YearMonth) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]struct{}{}
	var out []string
	for key := range r.rows {
		if key.TenantID == tenantID && key.YearMonth == ym && key.Source == domain.RateSourceManual {
			if _, ok := seen[key.FromCurrency]; !ok {
				seen[key.FromCurrency] = struct{}{}
				out = append(out, key.FromCurrency)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *memoryRateRepo) InsertMonthlyRateIfAbsent(_ context.Context, rate domain.MonthlyExchangeRate) (*domain.MonthlyExchangeRate, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.rows[rate.Key()]; ok {
		return &existing, false, nil
	}
	r.rows[rate.Key()] = rate
	r.inserts++
	return &rate, true, nil
}

func (r *memoryRateRepo) UpsertMonthlyRate(_ context.Context, rate domain.MonthlyExchangeRate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.rows[rate.Key()]; ok {
		rate.CreatedAt = existing.CreatedAt
		rate.CreatedBy = existing.CreatedBy
	}
	r.rows[rate.Key()] = rate
	r.upserts++
	return nil
}

// --- fixtures ---

func strPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newRule(id string, tenantID *string, priority int, currencies ...string) domain.ExchangeRateRule {
	return domain.ExchangeRateRule{
		RuleID:        id,
		TenantID:      tenantID,
		Description:   "rule " + id,
		Source:        domain.RuleSourceManual,
		Currencies:    currencies,
		EffectiveFrom: day("2024-01-01"),
		Status:        domain.RuleStatusActive,
		Priority:      priority,
		AuditFields:   domain.AuditFields{CreatedAt: day("2024-01-01")},
	}
}

func withFixed(rule domain.ExchangeRateRule, pair, rate string) domain.ExchangeRateRule {
	rule.Source = domain.RuleSourceFixed
	if rule.FixedRates == nil {
		rule.FixedRates = map[string]decimal.Decimal{}
	}
	rule.FixedRates[pair] = decimal.RequireFromString(rate)
	return rule
}
