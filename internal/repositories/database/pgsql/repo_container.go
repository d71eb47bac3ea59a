package pgsql

import (
	portsrepo "github.com/SscSPs/expense_fx_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MonthlyRateDecorator wraps the monthly rate repository, e.g. with a cache.
type MonthlyRateDecorator func(portsrepo.MonthlyRateRepositoryFacade) portsrepo.MonthlyRateRepositoryFacade

func NewRepositoryProvider(dbPool *pgxpool.Pool, decorators ...MonthlyRateDecorator) portsrepo.RepositoryProvider {
	ruleRepo := NewPgxRuleRepository(dbPool)
	tenantSettingsRepo := NewPgxTenantSettingsRepository(dbPool)

	var monthlyRateRepo portsrepo.MonthlyRateRepositoryFacade = NewPgxMonthlyRateRepository(dbPool)
	for _, decorate := range decorators {
		monthlyRateRepo = decorate(monthlyRateRepo)
	}

	return portsrepo.RepositoryProvider{
		RuleRepo:           ruleRepo,
		MonthlyRateRepo:    monthlyRateRepo,
		TenantSettingsRepo: tenantSettingsRepo,
	}
}
