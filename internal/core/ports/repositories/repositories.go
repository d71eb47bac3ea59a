package repositories

// RepositoryProvider bundles the storage ports handed to NewServiceContainer.
type RepositoryProvider struct {
	RuleRepo           RuleRepositoryFacade
	MonthlyRateRepo    MonthlyRateRepositoryFacade
	TenantSettingsRepo TenantSettingsReader
}
