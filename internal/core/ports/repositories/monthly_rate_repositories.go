package repositories

import (
	"context"

	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
)

// MonthlyRateReader defines read operations on the monthly rate cache
type MonthlyRateReader interface {
	// FindMonthlyRate returns the row for key, or apperrors.ErrNotFound.
	FindMonthlyRate(ctx context.Context, key domain.MonthlyRateKey) (*domain.MonthlyExchangeRate, error)

	// ListMonthlyRates returns the tenant's rows and the shared api rows for a month.
	ListMonthlyRates(ctx context.Context, tenantID string, yearMonth domain.YearMonth) ([]domain.MonthlyExchangeRate, error)

	// ListManualFromCurrencies returns the distinct from-currencies of the tenant's manual rows for a month.
	ListManualFromCurrencies(ctx context.Context, tenantID string, yearMonth domain.YearMonth) ([]string, error)
}

// MonthlyRateWriter defines write operations on the monthly rate cache
type MonthlyRateWriter interface {
	// InsertMonthlyRateIfAbsent writes the row only if its key is free. It returns the row
	// stored under the key afterwards and whether this call inserted it.
	InsertMonthlyRateIfAbsent(ctx context.Context, rate domain.MonthlyExchangeRate) (*domain.MonthlyExchangeRate, bool, error)

	// UpsertMonthlyRate inserts the row or overwrites rate and update audit fields.
	UpsertMonthlyRate(ctx context.Context, rate domain.MonthlyExchangeRate) error
}

// MonthlyRateRepositoryFacade combines all monthly rate repository interfaces
type MonthlyRateRepositoryFacade interface {
	MonthlyRateReader
	MonthlyRateWriter
}
