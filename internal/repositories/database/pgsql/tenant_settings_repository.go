package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/expense_fx_engine/internal/apperrors"
	portsrepo "github.com/SscSPs/expense_fx_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxTenantSettingsRepository reads per-tenant settings.
type PgxTenantSettingsRepository struct {
	BaseRepository
}

// NewPgxTenantSettingsRepository creates a new PgxTenantSettingsRepository.
func NewPgxTenantSettingsRepository(db *pgxpool.Pool) *PgxTenantSettingsRepository {
	return &PgxTenantSettingsRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.TenantSettingsReader = (*PgxTenantSettingsRepository)(nil)

// FindBaseCurrency returns the tenant's base currency.
func (r *PgxTenantSettingsRepository) FindBaseCurrency(ctx context.Context, tenantID string) (string, error) {
	var code *string
	err := r.Pool.QueryRow(ctx,
		`SELECT base_currency FROM tenant_settings WHERE tenant_id = $1;`, tenantID,
	).Scan(&code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFoundError("settings for tenant " + tenantID)
		}
		return "", apperrors.NewAppError(500, "failed to find tenant settings", err)
	}
	if code == nil || *code == "" {
		return "", apperrors.NewNotFoundError("base currency for tenant " + tenantID)
	}
	return *code, nil
}
