package dto

import (
	"time"

	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRuleRequest defines the structure for creating a new exchange rate rule.
// FixedRates is keyed by "FROM/TO".
type CreateRuleRequest struct {
	Description    string                     `json:"description" validate:"required,max=255"`
	Source         domain.RuleSource          `json:"source" validate:"required,oneof=fixed manual api"`
	Currencies     []string                   `json:"currencies" validate:"required,min=1,dive,required"`
	FixedRates     map[string]decimal.Decimal `json:"fixedRates,omitempty"`
	EffectiveFrom  time.Time                  `json:"effectiveFrom" validate:"required"`
	EffectiveTo    *time.Time                 `json:"effectiveTo,omitempty"`
	FallbackRuleID *string                    `json:"fallbackRuleId,omitempty" validate:"omitempty,uuid"`
	Status         domain.RuleStatus          `json:"status,omitempty" validate:"omitempty,oneof=draft active archived"`
	Priority       int                        `json:"priority" validate:"gte=0"`
	// Global rules apply to every tenant.
	Global bool `json:"global"`
}

// RuleResponse defines the structure for API responses containing rule details.
type RuleResponse struct {
	RuleID         string                     `json:"ruleId"`
	TenantID       *string                    `json:"tenantId,omitempty"`
	Description    string                     `json:"description"`
	Source         string                     `json:"source"`
	Currencies     []string                   `json:"currencies"`
	FixedRates     map[string]decimal.Decimal `json:"fixedRates,omitempty"`
	EffectiveFrom  time.Time                  `json:"effectiveFrom"`
	EffectiveTo    *time.Time                 `json:"effectiveTo,omitempty"`
	FallbackRuleID *string                    `json:"fallbackRuleId,omitempty"`
	Status         string                     `json:"status"`
	Priority       int                        `json:"priority"`
	CreatedAt      time.Time                  `json:"createdAt"`
	CreatedBy      string                     `json:"createdBy"`
	LastUpdatedAt  time.Time                  `json:"lastUpdatedAt"`
	LastUpdatedBy  string                     `json:"lastUpdatedBy"`
}

// ToRuleResponse converts a domain.ExchangeRateRule to RuleResponse DTO
func ToRuleResponse(rule *domain.ExchangeRateRule) RuleResponse {
	return RuleResponse{
		RuleID:         rule.RuleID,
		TenantID:       rule.TenantID,
		Description:    rule.Description,
		Source:         string(rule.Source),
		Currencies:     rule.Currencies,
		FixedRates:     rule.FixedRates,
		EffectiveFrom:  rule.EffectiveFrom,
		EffectiveTo:    rule.EffectiveTo,
		FallbackRuleID: rule.FallbackRuleID,
		Status:         string(rule.Status),
		Priority:       rule.Priority,
		CreatedAt:      rule.CreatedAt,
		CreatedBy:      rule.CreatedBy,
		LastUpdatedAt:  rule.LastUpdatedAt,
		LastUpdatedBy:  rule.LastUpdatedBy,
	}
}

// ToListRuleResponse converts a slice of rules to response DTOs.
func ToListRuleResponse(rules []domain.ExchangeRateRule) []RuleResponse {
	responses := make([]RuleResponse, len(rules))
	for i := range rules {
		responses[i] = ToRuleResponse(&rules[i])
	}
	return responses
}
