package services

// ServiceContainer groups the facades the HTTP handlers depend on.
type ServiceContainer struct {
	Currency     CurrencySvcFacade
	ExchangeRate ExchangeRateSvcFacade
	Rule         RuleSvcFacade
}
