// Package gateways declares the outbound collaborators of the rate engine that are not storage.
package gateways

import (
	"context"
	"time"

	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MarketQuote is a rate returned by a market provider.
type MarketQuote struct {
	Rate      decimal.Decimal
	Timestamp time.Time
}

// MarketRateProvider fetches live rates for system-currency pairs.
// Implementations return errors wrapping apperrors.ErrProviderUnavailable on failure.
type MarketRateProvider interface {
	FetchRate(ctx context.Context, from, to string, date time.Time) (MarketQuote, error)
}

// RateEventPublisher announces writes to the monthly rate store.
type RateEventPublisher interface {
	PublishRateEvent(ctx context.Context, event domain.RateEvent) error
}

// AuthorizationGate confirms a caller may mutate rules or manual rates.
// Implementations return an error wrapping apperrors.ErrForbidden when denied.
type AuthorizationGate interface {
	// AuthorizeRateAdmin checks permission to change tenant-scoped rules and manual rates.
	AuthorizeRateAdmin(ctx context.Context, tenantID, userID string) error
	// AuthorizeGlobalRuleAdmin checks permission to change rules visible to every tenant.
	AuthorizeGlobalRuleAdmin(ctx context.Context, userID string) error
}
