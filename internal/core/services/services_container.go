package services

import (
	"github.com/SscSPs/expense_fx_engine/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/expense_fx_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/expense_fx_engine/internal/core/ports/services"
	"github.com/SscSPs/expense_fx_engine/internal/platform/config"
	"github.com/SscSPs/expense_fx_engine/internal/platform/metrics"
)

// Gateways bundles the outbound adapters the services depend on. Nil members disable
// the corresponding feature.
type Gateways struct {
	MarketRates gateways.MarketRateProvider
	Events      gateways.RateEventPublisher
	Authorizer  gateways.AuthorizationGate
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, gw Gateways, m *metrics.RateMetrics) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	registry := NewSystemCurrencyRegistry()
	container.Currency = registry

	resolver := NewRuleResolver(repos.RuleRepo, cfg.FallbackMaxDepth)
	engine := NewConversionEngine(resolver, repos.MonthlyRateRepo, registry,
		WithMarketRateProvider(gw.MarketRates),
		WithMarketFetchTimeout(cfg.MarketRateTimeout),
		WithRateEventPublisher(gw.Events),
		WithTenantSettings(repos.TenantSettingsRepo),
		WithDefaultBaseCurrency(cfg.DefaultBaseCurrency),
		WithEngineMetrics(m),
	)
	batch := NewBatchResolver(engine, registry, repos.MonthlyRateRepo,
		WithTaskTimeout(cfg.BatchTaskTimeout),
		WithConcurrency(cfg.BatchConcurrency),
		WithBatchMetrics(m),
	)

	container.ExchangeRate = NewExchangeRateService(engine, batch, repos.MonthlyRateRepo, registry,
		WithRateAuthorizer(gw.Authorizer),
		WithManualRatePublisher(gw.Events),
		WithBatchTimeout(cfg.BatchTimeout),
	)
	container.Rule = NewRuleService(repos.RuleRepo, registry, WithRuleAuthorizer(gw.Authorizer))

	return container
}
