package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/expense_fx_engine/internal/apperrors"
	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
	"github.com/SscSPs/expense_fx_engine/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/expense_fx_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_fx_engine/internal/core/ports/services"
	"github.com/SscSPs/expense_fx_engine/internal/platform/metrics"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const (
	// RatePrecision is the number of fractional digits kept for stored rates.
	RatePrecision int32 = 12

	// engineActor is recorded as creator of rows the engine writes on its own.
	engineActor = "system"

	// DefaultMarketFetchTimeout bounds one shared market fetch, independent of any caller.
	DefaultMarketFetchTimeout = 10 * time.Second
)

// RateResolver resolves one currency pair. ConversionEngine is the production implementation.
type RateResolver interface {
	Resolve(ctx context.Context, tenantID, from, to string, date time.Time) (*domain.ResolvedRate, error)
}

// ConversionEngine turns rules and cached rates into a final rate for a pair.
type ConversionEngine struct {
	BaseService
	resolver     *RuleResolver
	rateRepo     portsrepo.MonthlyRateRepositoryFacade
	registry     portssvc.CurrencySvcFacade
	settings     portsrepo.TenantSettingsReader
	provider     gateways.MarketRateProvider
	publisher    gateways.RateEventPublisher
	metrics      *metrics.RateMetrics
	defaultBase  string
	fetchTimeout time.Duration
	now          func() time.Time
	fetches      singleflight.Group
}

// EngineOption is a functional option for configuring the conversion engine
type EngineOption func(*ConversionEngine)

// WithMarketRateProvider enables the market lookup step
func WithMarketRateProvider(p gateways.MarketRateProvider) EngineOption {
	return func(e *ConversionEngine) {
		e.provider = p
	}
}

// WithMarketFetchTimeout bounds a shared market fetch
func WithMarketFetchTimeout(d time.Duration) EngineOption {
	return func(e *ConversionEngine) {
		if d > 0 {
			e.fetchTimeout = d
		}
	}
}

// WithRateEventPublisher announces cache writes
func WithRateEventPublisher(p gateways.RateEventPublisher) EngineOption {
	return func(e *ConversionEngine) {
		e.publisher = p
	}
}

// WithTenantSettings supplies per-tenant base currencies used as pivot
func WithTenantSettings(s portsrepo.TenantSettingsReader) EngineOption {
	return func(e *ConversionEngine) {
		e.settings = s
	}
}

// WithDefaultBaseCurrency sets the pivot for tenants without a configured base currency
func WithDefaultBaseCurrency(code string) EngineOption {
	return func(e *ConversionEngine) {
		e.defaultBase = code
	}
}

// WithEngineMetrics records resolution outcomes
func WithEngineMetrics(m *metrics.RateMetrics) EngineOption {
	return func(e *ConversionEngine) {
		e.metrics = m
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) EngineOption {
	return func(e *ConversionEngine) {
		e.now = now
	}
}

// NewConversionEngine creates an engine with the provided options
func NewConversionEngine(resolver *RuleResolver, rateRepo portsrepo.MonthlyRateRepositoryFacade, registry portssvc.CurrencySvcFacade, options ...EngineOption) *ConversionEngine {
	e := &ConversionEngine{
		resolver:     resolver,
		rateRepo:     rateRepo,
		registry:     registry,
		defaultBase:  "CNY",
		fetchTimeout: DefaultMarketFetchTimeout,
		now:          time.Now,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

var _ RateResolver = (*ConversionEngine)(nil)

// resolution carries the per-call state of one Resolve: the pair, its month bucket and
// memoized manual lookups.
type resolution struct {
	tenantID string
	from     string
	to       string
	date     time.Time
	ym       domain.YearMonth

	manual      map[string]*domain.MonthlyExchangeRate
	pivot       string
	pivotLoaded bool
}

// Resolve computes the rate of 1 unit of from in to for the month containing date.
func (e *ConversionEngine) Resolve(ctx context.Context, tenantID, from, to string, date time.Time) (*domain.ResolvedRate, error) {
	rate, err := e.resolve(ctx, tenantID, from, to, date)
	if err != nil {
		e.metrics.ObserveResolutionError(errorReason(err))
		return nil, err
	}
	e.metrics.ObserveResolution(string(rate.Source))
	return rate, nil
}

func (e *ConversionEngine) resolve(ctx context.Context, tenantID, from, to string, date time.Time) (*domain.ResolvedRate, error) {
	var err error
	if from, err = e.registry.NormalizeCode(from); err != nil {
		return nil, err
	}
	if to, err = e.registry.NormalizeCode(to); err != nil {
		return nil, err
	}

	res := &resolution{
		tenantID: tenantID,
		from:     from,
		to:       to,
		date:     date,
		ym:       domain.YearMonthOf(date),
		manual:   make(map[string]*domain.MonthlyExchangeRate),
	}

	if from == to {
		return e.result(res, decimal.NewFromInt(1), domain.ResolutionIdentity, nil), nil
	}

	var noRuleErr error
	rule, err := e.resolver.SelectRule(ctx, tenantID, from, to, date)
	switch {
	case err == nil:
		if rate, err := e.walkChain(ctx, res, rule); rate != nil || err != nil {
			return rate, err
		}
	case errors.Is(err, apperrors.ErrRuleNotFound):
		noRuleErr = err
		rate, err := e.fromManualRates(ctx, res)
		if rate != nil || err != nil {
			return rate, err
		}
	default:
		return nil, err
	}

	if e.registry.IsSystemCurrency(from) && e.registry.IsSystemCurrency(to) && e.provider != nil {
		return e.fromMarket(ctx, res)
	}

	if noRuleErr != nil {
		return nil, fmt.Errorf("%w: %s/%s in %s: %w", apperrors.ErrRateUnavailableForPeriod, from, to, res.ym, noRuleErr)
	}
	return nil, fmt.Errorf("%w: %s/%s in %s", apperrors.ErrRateUnavailableForPeriod, from, to, res.ym)
}

// walkChain tries the selected rule and then each rule reached through its fallbacks.
func (e *ConversionEngine) walkChain(ctx context.Context, res *resolution, rule *domain.ExchangeRateRule) (*domain.ResolvedRate, error) {
	traversal := e.resolver.NewTraversal(res.tenantID, res.date, rule)
	for current := rule; current != nil; {
		if traversal.Usable(current) {
			rate, err := e.fromRule(ctx, res, current)
			if rate != nil || err != nil {
				return rate, err
			}
		}

		next, err := e.resolver.Next(ctx, traversal, current)
		if err != nil {
			e.LogError(ctx, err, "Fallback traversal failed",
				slog.String("tenant_id", res.tenantID),
				slog.String("rule_id", current.RuleID),
				slog.Int("hops", traversal.Hops()))
			return nil, err
		}
		current = next
	}
	return nil, nil
}

func (e *ConversionEngine) fromRule(ctx context.Context, res *resolution, rule *domain.ExchangeRateRule) (*domain.ResolvedRate, error) {
	if rate, ok := rule.FixedRate(res.from, res.to); ok {
		ruleID := rule.RuleID
		return e.result(res, rate, domain.ResolutionFixed, &ruleID), nil
	}
	return e.fromManualRates(ctx, res)
}

// fromManualRates tries the direct manual row, then the pivot through the tenant base currency.
func (e *ConversionEngine) fromManualRates(ctx context.Context, res *resolution) (*domain.ResolvedRate, error) {
	direct, err := e.manualRate(ctx, res, res.from, res.to)
	if err != nil {
		return nil, err
	}
	if direct != nil {
		return e.result(res, direct.Rate, domain.ResolutionManual, nil), nil
	}

	pivot := e.pivotCurrency(ctx, res)
	if pivot == "" || pivot == res.from || pivot == res.to {
		return nil, nil
	}

	first, err := e.manualRate(ctx, res, res.from, pivot)
	if err != nil || first == nil {
		return nil, err
	}
	second, err := e.manualRate(ctx, res, pivot, res.to)
	if err != nil || second == nil {
		return nil, err
	}

	rate := first.Rate.Mul(second.Rate).Round(RatePrecision)
	e.storeCalculated(ctx, res, rate)
	e.LogDebug(ctx, "Derived rate through pivot currency",
		slog.String("from", res.from),
		slog.String("to", res.to),
		slog.String("pivot", pivot),
		slog.String("rate", rate.String()))
	return e.result(res, rate, domain.ResolutionManualCalculated, nil), nil
}

func (e *ConversionEngine) manualRate(ctx context.Context, res *resolution, from, to string) (*domain.MonthlyExchangeRate, error) {
	pair := domain.PairKey(from, to)
	if row, ok := res.manual[pair]; ok {
		return row, nil
	}

	row, err := e.rateRepo.FindMonthlyRate(ctx, domain.MonthlyRateKey{
		TenantID:     res.tenantID,
		FromCurrency: from,
		ToCurrency:   to,
		YearMonth:    res.ym,
		Source:       domain.RateSourceManual,
	})
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to read manual rate %s for %s: %w", pair, res.ym, err)
	}
	if row != nil && !row.Rate.IsPositive() {
		row = nil
	}
	res.manual[pair] = row
	return row, nil
}

func (e *ConversionEngine) pivotCurrency(ctx context.Context, res *resolution) string {
	if res.pivotLoaded {
		return res.pivot
	}
	res.pivotLoaded = true
	res.pivot = e.defaultBase

	if e.settings == nil {
		return res.pivot
	}
	base, err := e.settings.FindBaseCurrency(ctx, res.tenantID)
	switch {
	case err == nil && base != "":
		res.pivot = base
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		e.LogWarn(ctx, "Failed to load tenant base currency, using default pivot",
			slog.String("tenant_id", res.tenantID),
			slog.String("pivot", e.defaultBase),
			slog.String("error", err.Error()))
	}
	return res.pivot
}

func (e *ConversionEngine) storeCalculated(ctx context.Context, res *resolution, rate decimal.Decimal) {
	row := domain.NewMonthlyExchangeRate(domain.MonthlyRateKey{
		TenantID:     res.tenantID,
		FromCurrency: res.from,
		ToCurrency:   res.to,
		YearMonth:    res.ym,
		Source:       domain.RateSourceManualCalculated,
	}, rate, engineActor, e.now())

	if err := e.rateRepo.UpsertMonthlyRate(ctx, row); err != nil {
		e.LogError(ctx, err, "Failed to store calculated rate",
			slog.String("tenant_id", res.tenantID),
			slog.String("from", res.from),
			slog.String("to", res.to),
			slog.String("year_month", res.ym.String()))
		return
	}
	e.publish(ctx, domain.RateEventCalculatedStored, row)
}

// fromMarket serves api rows from the cache and fetches at most once per key on a miss.
func (e *ConversionEngine) fromMarket(ctx context.Context, res *resolution) (*domain.ResolvedRate, error) {
	key := domain.MonthlyRateKey{
		FromCurrency: res.from,
		ToCurrency:   res.to,
		YearMonth:    res.ym,
		Source:       domain.RateSourceAPI,
	}

	cached, err := e.cachedMarketRate(ctx, key)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return e.result(res, cached.Rate, domain.ResolutionAPI, nil), nil
	}

	flightKey := domain.PairKey(res.from, res.to) + "@" + res.ym.String()
	flight := e.fetches.DoChan(flightKey, func() (interface{}, error) {
		// outlives any single caller; bounded by fetchTimeout only
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.fetchTimeout)
		defer cancel()

		// another flight may have filled the key since the first read
		if row, err := e.cachedMarketRate(fetchCtx, key); err != nil || row != nil {
			return row, err
		}
		return e.fetchAndCache(fetchCtx, key, res.date)
	})

	select {
	case <-ctx.Done():
		e.LogWarn(ctx, "Stopped waiting for market fetch",
			slog.String("pair", flightKey),
			slog.String("error", ctx.Err().Error()))
		return nil, fmt.Errorf("%w: %s/%s: %w", apperrors.ErrProviderUnavailable, res.from, res.to, ctx.Err())
	case out := <-flight:
		if out.Err != nil {
			return nil, out.Err
		}
		if out.Shared {
			e.LogDebug(ctx, "Shared in-flight market fetch", slog.String("pair", flightKey))
		}
		row := out.Val.(*domain.MonthlyExchangeRate)
		return e.result(res, row.Rate, domain.ResolutionAPI, nil), nil
	}
}

func (e *ConversionEngine) cachedMarketRate(ctx context.Context, key domain.MonthlyRateKey) (*domain.MonthlyExchangeRate, error) {
	row, err := e.rateRepo.FindMonthlyRate(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached market rate %s/%s for %s: %w", key.FromCurrency, key.ToCurrency, key.YearMonth, err)
	}
	return row, nil
}

func (e *ConversionEngine) fetchAndCache(ctx context.Context, key domain.MonthlyRateKey, date time.Time) (*domain.MonthlyExchangeRate, error) {
	started := e.now()
	quote, err := e.provider.FetchRate(ctx, key.FromCurrency, key.ToCurrency, date)
	if err == nil && !quote.Rate.IsPositive() {
		err = fmt.Errorf("non-positive rate %s", quote.Rate)
	}
	if err != nil {
		e.metrics.ObserveProviderCall("error", e.now().Sub(started))
		e.LogError(ctx, err, "Market rate provider failed",
			slog.String("from", key.FromCurrency),
			slog.String("to", key.ToCurrency),
			slog.String("year_month", key.YearMonth.String()))
		if errors.Is(err, apperrors.ErrProviderUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s/%s: %w", apperrors.ErrProviderUnavailable, key.FromCurrency, key.ToCurrency, err)
	}
	e.metrics.ObserveProviderCall("success", e.now().Sub(started))

	row := domain.NewMonthlyExchangeRate(key, quote.Rate.Round(RatePrecision), engineActor, e.now())
	stored, inserted, err := e.rateRepo.InsertMonthlyRateIfAbsent(ctx, row)
	if err != nil {
		e.LogError(ctx, err, "Failed to cache market rate",
			slog.String("from", key.FromCurrency),
			slog.String("to", key.ToCurrency),
			slog.String("year_month", key.YearMonth.String()))
		return &row, nil
	}
	if !inserted {
		// first writer wins; our quote is discarded
		return stored, nil
	}
	e.publish(ctx, domain.RateEventMarketCached, *stored)
	return stored, nil
}

func (e *ConversionEngine) publish(ctx context.Context, eventType domain.RateEventType, row domain.MonthlyExchangeRate) {
	if e.publisher == nil {
		return
	}
	event := domain.RateEvent{Type: eventType, Rate: row, OccurredAt: e.now()}
	if err := e.publisher.PublishRateEvent(ctx, event); err != nil {
		e.LogWarn(ctx, "Failed to publish rate event",
			slog.String("event_type", string(eventType)),
			slog.String("error", err.Error()))
	}
}

func (e *ConversionEngine) result(res *resolution, rate decimal.Decimal, source domain.ResolutionSource, ruleID *string) *domain.ResolvedRate {
	return &domain.ResolvedRate{
		FromCurrency: res.from,
		ToCurrency:   res.to,
		Rate:         rate,
		Source:       source,
		Timestamp:    e.now(),
		YearMonth:    res.ym,
		RuleID:       ruleID,
	}
}

// errorReason gives a low-cardinality metric label for a resolution error.
func errorReason(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCurrencyCode):
		return "invalid_currency"
	case errors.Is(err, apperrors.ErrFallbackCycleDetected):
		return "fallback_cycle"
	case errors.Is(err, apperrors.ErrFallbackChainTooDeep):
		return "fallback_too_deep"
	case errors.Is(err, apperrors.ErrProviderUnavailable):
		return "provider_unavailable"
	case errors.Is(err, apperrors.ErrRateUnavailableForPeriod):
		return "rate_unavailable"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "internal"
	}
}
