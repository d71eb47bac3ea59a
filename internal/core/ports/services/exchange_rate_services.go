package services

import (
	"context"
	"time"

	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
	"github.com/SscSPs/expense_fx_engine/internal/dto"
)

// ExchangeRateReaderSvc defines read operations for resolved and cached rates
type ExchangeRateReaderSvc interface {
	// ResolveRate resolves a single pair for the month containing date (today when nil).
	ResolveRate(ctx context.Context, tenantID, from, to string, date *time.Time) (*domain.ResolvedRate, error)

	// ResolveBatch resolves every relevant currency into target for the month containing date.
	ResolveBatch(ctx context.Context, tenantID, target string, date *time.Time) (*domain.BatchResult, error)

	// ListMonthlyRates returns the cached rows visible to the tenant for a month.
	ListMonthlyRates(ctx context.Context, tenantID string, yearMonth domain.YearMonth) ([]domain.MonthlyExchangeRate, error)
}

// ExchangeRateWriterSvc defines write operations for manual monthly rates
type ExchangeRateWriterSvc interface {
	// SaveManualRate inserts or replaces a tenant's manual rate for a month.
	SaveManualRate(ctx context.Context, tenantID string, req dto.SaveManualRateRequest, userID string) (*domain.MonthlyExchangeRate, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}
