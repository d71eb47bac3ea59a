package services

import (
	"context"

	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
	"github.com/SscSPs/expense_fx_engine/internal/dto"
)

// RuleReaderSvc defines read operations for exchange rate rules
type RuleReaderSvc interface {
	// ListRules returns tenant and global rules in evaluation order.
	ListRules(ctx context.Context, tenantID string, status *domain.RuleStatus) ([]domain.ExchangeRateRule, error)
}

// RuleWriterSvc defines write operations for exchange rate rules
type RuleWriterSvc interface {
	// CreateRule validates and stores a new rule.
	CreateRule(ctx context.Context, tenantID string, req dto.CreateRuleRequest, userID string) (*domain.ExchangeRateRule, error)

	// ArchiveRule moves a rule to the archived status.
	ArchiveRule(ctx context.Context, tenantID, ruleID, userID string) (*domain.ExchangeRateRule, error)
}

// RuleSvcFacade combines all rule-related service interfaces
type RuleSvcFacade interface {
	RuleReaderSvc
	RuleWriterSvc
}
