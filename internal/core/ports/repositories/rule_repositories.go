package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
)

// RuleReader defines read operations for exchange rate rules
type RuleReader interface {
	// FindCandidateRules returns active rules that govern currencyCode, are effective on date,
	// and are owned by tenantID or global. Order is not significant.
	FindCandidateRules(ctx context.Context, tenantID, currencyCode string, date time.Time) ([]domain.ExchangeRateRule, error)

	// FindRuleByID retrieves a rule regardless of status. Returns apperrors.ErrNotFound if absent.
	FindRuleByID(ctx context.Context, ruleID string) (*domain.ExchangeRateRule, error)

	// ListRules returns the tenant's rules plus global rules, optionally filtered by status.
	ListRules(ctx context.Context, tenantID string, status *domain.RuleStatus) ([]domain.ExchangeRateRule, error)
}

// RuleWriter defines write operations for exchange rate rules
type RuleWriter interface {
	// SaveRule persists a new rule.
	SaveRule(ctx context.Context, rule domain.ExchangeRateRule) error

	// UpdateRuleStatus transitions a rule's status. Rules are never deleted.
	UpdateRuleStatus(ctx context.Context, ruleID string, status domain.RuleStatus, userID string, at time.Time) error
}

// RuleRepositoryFacade combines all rule-related repository interfaces
type RuleRepositoryFacade interface {
	RuleReader
	RuleWriter
}
