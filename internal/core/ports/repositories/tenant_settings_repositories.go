package repositories

import "context"

// TenantSettingsReader exposes per-tenant configuration the engine needs.
type TenantSettingsReader interface {
	// FindBaseCurrency returns the tenant's configured base currency, or apperrors.ErrNotFound.
	FindBaseCurrency(ctx context.Context, tenantID string) (string, error)
}
