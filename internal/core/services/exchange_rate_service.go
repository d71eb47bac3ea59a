package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/expense_fx_engine/internal/apperrors"
	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
	"github.com/SscSPs/expense_fx_engine/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/expense_fx_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_fx_engine/internal/core/ports/services"
	"github.com/SscSPs/expense_fx_engine/internal/dto"
	"github.com/go-playground/validator/v10"
)

// DefaultBatchTimeout bounds a whole batch resolution.
const DefaultBatchTimeout = 20 * time.Second

// exchangeRateService implements the ExchangeRateSvcFacade interface
type exchangeRateService struct {
	BaseService
	engine       RateResolver
	batch        *BatchResolver
	rateRepo     portsrepo.MonthlyRateRepositoryFacade
	registry     portssvc.CurrencySvcFacade
	publisher    gateways.RateEventPublisher
	validate     *validator.Validate
	batchTimeout time.Duration
	now          func() time.Time
}

// ExchangeRateServiceOption is a functional option for configuring the exchange rate service
type ExchangeRateServiceOption func(*exchangeRateService)

// WithRateAuthorizer adds the authorization gate consulted on manual rate writes
func WithRateAuthorizer(gate gateways.AuthorizationGate) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.Authorizer = gate
	}
}

// WithManualRatePublisher announces manual rate writes
func WithManualRatePublisher(p gateways.RateEventPublisher) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.publisher = p
	}
}

// WithBatchTimeout bounds ResolveBatch
func WithBatchTimeout(d time.Duration) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		if d > 0 {
			s.batchTimeout = d
		}
	}
}

// WithServiceClock overrides time.Now
func WithServiceClock(now func() time.Time) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.now = now
	}
}

// NewExchangeRateService creates a new exchange rate service with the provided options
func NewExchangeRateService(
	engine RateResolver,
	batch *BatchResolver,
	rateRepo portsrepo.MonthlyRateRepositoryFacade,
	registry portssvc.CurrencySvcFacade,
	options ...ExchangeRateServiceOption,
) portssvc.ExchangeRateSvcFacade {
	svc := &exchangeRateService{
		engine:       engine,
		batch:        batch,
		rateRepo:     rateRepo,
		registry:     registry,
		validate:     validator.New(),
		batchTimeout: DefaultBatchTimeout,
		now:          time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

func (s *exchangeRateService) ResolveRate(ctx context.Context, tenantID, from, to string, date *time.Time) (*domain.ResolvedRate, error) {
	on := s.dateOrToday(date)
	rate, err := s.engine.Resolve(ctx, tenantID, from, to, on)
	if err != nil {
		s.LogWarn(ctx, "Failed to resolve exchange rate",
			slog.String("tenant_id", tenantID),
			slog.String("from", from),
			slog.String("to", to),
			slog.String("date", on.Format(time.DateOnly)),
			slog.String("error", err.Error()))
		return nil, err
	}
	return rate, nil
}

func (s *exchangeRateService) ResolveBatch(ctx context.Context, tenantID, target string, date *time.Time) (*domain.BatchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.batchTimeout)
	defer cancel()
	return s.batch.ResolveAll(ctx, tenantID, target, s.dateOrToday(date))
}

func (s *exchangeRateService) ListMonthlyRates(ctx context.Context, tenantID string, yearMonth domain.YearMonth) ([]domain.MonthlyExchangeRate, error) {
	ym, err := domain.ParseYearMonth(yearMonth.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	rates, err := s.rateRepo.ListMonthlyRates(ctx, tenantID, ym)
	if err != nil {
		s.LogError(ctx, err, "Failed to list monthly rates",
			slog.String("tenant_id", tenantID),
			slog.String("year_month", ym.String()))
		return nil, fmt.Errorf("failed to list monthly rates: %w", err)
	}
	return rates, nil
}

func (s *exchangeRateService) SaveManualRate(ctx context.Context, tenantID string, req dto.SaveManualRateRequest, userID string) (*domain.MonthlyExchangeRate, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	if err := s.AuthorizeRateAdmin(ctx, tenantID, userID); err != nil {
		s.LogError(ctx, err, "User not authorized to save manual rate",
			slog.String("user_id", userID),
			slog.String("tenant_id", tenantID))
		return nil, err
	}

	from, err := s.registry.NormalizeCode(req.FromCurrency)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	to, err := s.registry.NormalizeCode(req.ToCurrency)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	if from == to {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}
	if !req.Rate.IsPositive() {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	ym, err := domain.ParseYearMonth(req.YearMonth)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}

	now := s.now()
	row := domain.NewMonthlyExchangeRate(domain.MonthlyRateKey{
		TenantID:     tenantID,
		FromCurrency: from,
		ToCurrency:   to,
		YearMonth:    ym,
		Source:       domain.RateSourceManual,
	}, req.Rate.Round(RatePrecision), userID, now)

	if err := s.rateRepo.UpsertMonthlyRate(ctx, row); err != nil {
		s.LogError(ctx, err, "Failed to save manual rate",
			slog.String("tenant_id", tenantID),
			slog.String("from", from),
			slog.String("to", to),
			slog.String("year_month", ym.String()))
		return nil, fmt.Errorf("failed to save manual rate: %w", err)
	}

	if s.publisher != nil {
		event := domain.RateEvent{Type: domain.RateEventManualSaved, Rate: row, OccurredAt: now}
		if err := s.publisher.PublishRateEvent(ctx, event); err != nil {
			s.LogWarn(ctx, "Failed to publish rate event",
				slog.String("event_type", string(event.Type)),
				slog.String("error", err.Error()))
		}
	}

	s.LogInfo(ctx, "Manual rate saved",
		slog.String("tenant_id", tenantID),
		slog.String("from", from),
		slog.String("to", to),
		slog.String("year_month", ym.String()))
	return &row, nil
}

func (s *exchangeRateService) dateOrToday(date *time.Time) time.Time {
	if date != nil && !date.IsZero() {
		return *date
	}
	return s.now()
}
