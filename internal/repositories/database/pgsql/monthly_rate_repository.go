package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/expense_fx_engine/internal/apperrors"
	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_fx_engine/internal/core/ports/repositories"
	"github.com/SscSPs/expense_fx_engine/internal/models"
	"github.com/SscSPs/expense_fx_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const monthlyRateColumns = `
	tenant_id, from_currency, to_currency, year_month, source, rate,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxMonthlyRateRepository implements portsrepo.MonthlyRateRepositoryFacade using pgxpool.
type PgxMonthlyRateRepository struct {
	BaseRepository
}

// NewPgxMonthlyRateRepository creates a new PgxMonthlyRateRepository.
func NewPgxMonthlyRateRepository(db *pgxpool.Pool) *PgxMonthlyRateRepository {
	return &PgxMonthlyRateRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.MonthlyRateRepositoryFacade = (*PgxMonthlyRateRepository)(nil)

// FindMonthlyRate retrieves the row stored under key.
func (r *PgxMonthlyRateRepository) FindMonthlyRate(ctx context.Context, key domain.MonthlyRateKey) (*domain.MonthlyExchangeRate, error) {
	query := `SELECT ` + monthlyRateColumns + `
		FROM monthly_exchange_rates
		WHERE tenant_id = $1 AND from_currency = $2 AND to_currency = $3
		  AND year_month = $4 AND source = $5;`

	rate, err := scanMonthlyRate(r.Pool.QueryRow(ctx, query,
		key.TenantID, key.FromCurrency, key.ToCurrency, key.YearMonth.String(), string(key.Source)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("monthly exchange rate not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find monthly exchange rate", err)
	}
	return rate, nil
}

// ListMonthlyRates retrieves the tenant's rows and the shared api rows for a month.
func (r *PgxMonthlyRateRepository) ListMonthlyRates(ctx context.Context, tenantID string, yearMonth domain.YearMonth) ([]domain.MonthlyExchangeRate, error) {
	query := `SELECT ` + monthlyRateColumns + `
		FROM monthly_exchange_rates
		WHERE year_month = $2
		  AND (tenant_id = $1 OR (tenant_id = '' AND source = 'api'))
		ORDER BY from_currency, to_currency, source;`

	rows, err := r.Pool.Query(ctx, query, tenantID, yearMonth.String())
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list monthly exchange rates", err)
	}
	defer rows.Close()

	var rates []domain.MonthlyExchangeRate
	for rows.Next() {
		rate, err := scanMonthlyRate(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan monthly exchange rate", err)
		}
		rates = append(rates, *rate)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating monthly exchange rates", err)
	}
	return rates, nil
}

// ListManualFromCurrencies retrieves the distinct from-currencies of the tenant's manual rows.
func (r *PgxMonthlyRateRepository) ListManualFromCurrencies(ctx context.Context, tenantID string, yearMonth domain.YearMonth) ([]string, error) {
	query := `
		SELECT DISTINCT from_currency
		FROM monthly_exchange_rates
		WHERE tenant_id = $1 AND year_month = $2 AND source = 'manual'
		ORDER BY from_currency;`

	rows, err := r.Pool.Query(ctx, query, tenantID, yearMonth.String())
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list manual rate currencies", err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan manual rate currencies", err)
	}
	return codes, nil
}

// InsertMonthlyRateIfAbsent inserts the row unless its key is taken, then returns the stored row.
func (r *PgxMonthlyRateRepository) InsertMonthlyRateIfAbsent(ctx context.Context, rate domain.MonthlyExchangeRate) (*domain.MonthlyExchangeRate, bool, error) {
	m := mapping.ToModelMonthlyExchangeRate(rate)
	query := `
		INSERT INTO monthly_exchange_rates (` + monthlyRateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (tenant_id, from_currency, to_currency, year_month, source) DO NOTHING
		RETURNING ` + monthlyRateColumns + `;`

	stored, err := scanMonthlyRate(r.Pool.QueryRow(ctx, query,
		m.TenantID, m.FromCurrency, m.ToCurrency, m.YearMonth, m.Source, m.Rate,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	))
	if err == nil {
		return stored, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, apperrors.NewAppError(500, "failed to insert monthly exchange rate", err)
	}

	// Conflict: someone else stored the key first.
	existing, err := r.FindMonthlyRate(ctx, rate.Key())
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// UpsertMonthlyRate inserts the row or overwrites its rate. Market rows are write-once.
func (r *PgxMonthlyRateRepository) UpsertMonthlyRate(ctx context.Context, rate domain.MonthlyExchangeRate) error {
	if rate.Source == domain.RateSourceAPI {
		return apperrors.NewValidationError("api rates cannot be overwritten")
	}

	m := mapping.ToModelMonthlyExchangeRate(rate)
	query := `
		INSERT INTO monthly_exchange_rates (` + monthlyRateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (tenant_id, from_currency, to_currency, year_month, source) DO UPDATE
		SET rate = EXCLUDED.rate,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;`

	_, err := r.Pool.Exec(ctx, query,
		m.TenantID, m.FromCurrency, m.ToCurrency, m.YearMonth, m.Source, m.Rate,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save monthly exchange rate", err)
	}
	return nil
}

func scanMonthlyRate(row pgx.Row) (*domain.MonthlyExchangeRate, error) {
	var m models.MonthlyExchangeRate
	err := row.Scan(
		&m.TenantID, &m.FromCurrency, &m.ToCurrency, &m.YearMonth, &m.Source, &m.Rate,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	domainRate := mapping.ToDomainMonthlyExchangeRate(m)
	return &domainRate, nil
}
